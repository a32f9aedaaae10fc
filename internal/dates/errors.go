package dates

import (
	"errors"
	"fmt"
)

var ErrMalformedDate = errors.New("expected a day month year triple")

// UnrecognizedMonthError means an institution's month table does not cover a month token
// its portal emits. It is a configuration defect, retrying will not help.
type UnrecognizedMonthError struct {
	Token string
}

func (e UnrecognizedMonthError) Error() string {
	return fmt.Sprintf("unrecognized month '%s'", e.Token)
}

// DateParseError is the per-row failure to turn portal date text into a timestamp.
type DateParseError struct {
	Raw string
	Err error
}

func (e DateParseError) Error() string {
	return fmt.Sprintf("parse date '%s': %s", e.Raw, e.Err.Error())
}

func (e DateParseError) Unwrap() error {
	return e.Err
}
