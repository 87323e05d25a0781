package multipart

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBody reports a request with no body buffer at all.
	ErrMissingBody = errors.New("multipart: missing body")
	// ErrMissingContentType reports an absent Content-Type header.
	ErrMissingContentType = errors.New("multipart: missing Content-Type header")
	// ErrNotMultipart reports a Content-Type that is duplicated or does not
	// begin with multipart/form-data.
	ErrNotMultipart = errors.New("multipart: Content-Type is not multipart/form-data")
	// ErrMissingBoundary reports a Content-Type without a boundary parameter.
	ErrMissingBoundary = errors.New("multipart: no boundary parameter in Content-Type")
	// ErrBoundaryMismatch reports body bytes that do not line up with the
	// expected boundary marker.
	ErrBoundaryMismatch = errors.New("multipart: boundary marker mismatch")
	// ErrHeaderSeparator reports a header line without a ": " separator.
	ErrHeaderSeparator = errors.New("multipart: header line missing \": \" separator")
	// ErrHeaderTerminator reports a header line without a CRLF terminator.
	ErrHeaderTerminator = errors.New("multipart: header line missing CRLF terminator")
	// ErrTrailingData reports leftover bytes after the terminating boundary.
	ErrTrailingData = errors.New("multipart: data after terminating boundary")
	// ErrMalformedDisposition reports a Content-Disposition value that does
	// not follow the form-data parameter grammar.
	ErrMalformedDisposition = errors.New("multipart: malformed Content-Disposition value")
)

// errNoHeaderLine marks a blank line where a header line could start. It never
// escapes the package: the header block loop treats it as end of headers.
var errNoHeaderLine = errors.New("multipart: not a header line")

// A FramingError records where in the body parsing failed. It wraps one of the
// package sentinels, so errors.Is works against them.
type FramingError struct {
	Err    error
	Offset int
	Detail string
}

func (e *FramingError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v at offset %d: %s", e.Err, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *FramingError) Unwrap() error { return e.Err }

func framingError(err error, offset int, format string, args ...any) error {
	e := &FramingError{Err: err, Offset: offset}
	if format != "" {
		e.Detail = fmt.Sprintf(format, args...)
	}
	return e
}
