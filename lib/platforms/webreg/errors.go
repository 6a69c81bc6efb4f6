package webreg

import (
	"errors"
	"fmt"
)

var (
	ErrWrongTerm        = errors.New("verification error; did you pick the wrong term?")
	ErrSessionExpired   = errors.New("webreg session expired or cookies are invalid")
	ErrSectionNotFound  = errors.New("section not found in schedule")
	ErrMalformedDayCode = errors.New("malformed day code")
)

// TransportError is returned when a request could not be completed at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type StatusCodeError struct {
	Code int
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %s", e.Err.Error())
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// PortalError is a request the portal received and rejected, Reason is the
// message it gave with markup removed.
type PortalError struct {
	Reason string
}

func (e *PortalError) Error() string {
	if e.Reason == "" {
		return "webreg rejected the request"
	}
	return fmt.Sprintf("webreg rejected the request: %s", e.Reason)
}

// InputError is returned before any request is made when an argument is
// invalid.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type DayCodeError struct {
	Code string
	Char rune
}

func (e *DayCodeError) Error() string {
	return fmt.Sprintf("%s %q: unexpected character %q", ErrMalformedDayCode.Error(), e.Code, e.Char)
}

func (e *DayCodeError) Unwrap() error {
	return ErrMalformedDayCode
}
