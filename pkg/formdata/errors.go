package formdata

import (
	"errors"

	"github.com/shapestone/shape-formdata/internal/errs"
)

// Decode failure kinds. Every decode error wraps exactly one of these.
var (
	ErrIllegalToken       = errs.ErrIllegalToken
	ErrUnsupportedFeature = errs.ErrUnsupportedFeature
	ErrProtocolViolation  = errs.ErrProtocolViolation
	ErrUnexpectedEnd      = errs.ErrUnexpectedEnd
)

// ParseError describes a decode failure: its kind, the offending token or
// feature, and the body offset where it was detected.
type ParseError = errs.ParseError

// Errors raised before decoding starts.
var (
	ErrInvalidBoundary = errors.New("formdata: invalid boundary")
	ErrNotMultipart    = errors.New("formdata: request is not multipart/form-data")
	ErrNoBoundary      = errors.New("formdata: missing boundary parameter")
	ErrLengthRequired  = errors.New("formdata: request has no Content-Length")
	ErrTooLarge        = errors.New("formdata: body exceeds size limit")
	ErrClosed          = errors.New("formdata: decoder closed")
)

// IsParseError reports whether err is a malformed-input failure, as opposed
// to an I/O or configuration error.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
