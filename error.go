package memslog

import "errors"

type unrecoverableError struct {
	error
}

func (e unrecoverableError) Error() string {
	if e.error == nil {
		return "unrecoverable error"
	}
	return e.error.Error()
}

func (e unrecoverableError) Unwrap() error {
	return e.error
}

// Unrecoverable marks an error that would repeat for every log of a batch.
func Unrecoverable(err error) error {
	return unrecoverableError{err}
}

// IsRecoverable reports whether err only affects the log it came from.
func IsRecoverable(err error) bool {
	var u unrecoverableError
	return !errors.As(err, &u)
}
