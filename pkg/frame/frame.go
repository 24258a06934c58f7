package frame

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// RawFrame is one decoded ECU response line, tokens are still two digit hex.
type RawFrame struct {
	command byte
	index   int
	fields  []string
	tokens  []string
}

func New(command byte, index int, fields, tokens []string) *RawFrame {
	return &RawFrame{
		command: command,
		index:   index,
		fields:  fields,
		tokens:  tokens,
	}
}

func (f *RawFrame) Command() byte {
	return f.command
}

// Index is the run sequence index the frame belongs to.
func (f *RawFrame) Index() int {
	return f.index
}

func (f *RawFrame) Len() int {
	return len(f.tokens)
}

func (f *RawFrame) Fields() []string {
	return f.fields
}

func (f *RawFrame) Tokens() []string {
	return f.tokens
}

// Map returns field name -> token.
func (f *RawFrame) Map() map[string]string {
	m := make(map[string]string, len(f.fields))
	for i, name := range f.fields {
		m[name] = f.tokens[i]
	}
	return m
}

var (
	yellow = color.New(color.FgHiBlue).SprintfFunc()
	red    = color.New(color.FgRed).SprintfFunc()
	green  = color.New(color.FgGreen).SprintfFunc()
)

func (f *RawFrame) String() string {
	var out strings.Builder
	out.WriteString(green("0x%02X", f.command) + " " + yellow("#%04d", f.index) + " || ")

	var hexView strings.Builder
	for i, t := range f.tokens {
		hexView.WriteString(strings.ToUpper(t))
		if i != len(f.tokens)-1 {
			hexView.WriteString(" ")
		}
	}
	out.WriteString(hexView.String())
	return out.String()
}

// Field renders one field as name, hex and binary, used by the dump view.
func (f *RawFrame) Field(i int) string {
	t := f.tokens[i]
	bin := "--------"
	if b, err := strconv.ParseUint(t, 16, 8); err == nil {
		bin = fmt.Sprintf("%08b", b)
	}
	return fmt.Sprintf("%-42s %s || %s", f.fields[i], strings.ToUpper(t), red(bin))
}
