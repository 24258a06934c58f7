package decoder

import (
	"bufio"
	"bytes"
)

// lineSplitter is bufio.ScanLines that drops lines longer than max instead of
// failing the scan with bufio.ErrTooLong. drop is called once per dropped line.
type lineSplitter struct {
	max        int
	discarding bool
	drop       func()
}

func (l *lineSplitter) split(data []byte, atEOF bool) (int, []byte, error) {
	if l.discarding {
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			l.discarding = false
			return i + 1, nil, nil
		}
		return len(data), nil, nil
	}
	advance, token, err := bufio.ScanLines(data, atEOF)
	if err != nil || advance > 0 || token != nil {
		return advance, token, err
	}
	if len(data) >= l.max {
		l.discarding = true
		if l.drop != nil {
			l.drop()
		}
		return len(data), nil, nil
	}
	return 0, nil, nil
}
