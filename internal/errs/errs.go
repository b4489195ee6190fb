// Package errs defines the failure taxonomy shared by the multipart scanner,
// the header-value grammar and the timestamp parser.
//
// Every failure is a *ParseError whose Kind is one of the sentinel errors
// below, so callers classify with errors.Is:
//
//	if errors.Is(err, errs.ErrProtocolViolation) { ... }
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalToken: a token appeared where the grammar does not allow it.
	ErrIllegalToken = errors.New("illegal token")

	// ErrUnsupportedFeature: a recognized construct that is deliberately not implemented.
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrProtocolViolation: lexically valid input that breaks the format's rules.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrUnexpectedEnd: input ended where the grammar required more.
	ErrUnexpectedEnd = errors.New("unexpected end of input")
)

// ParseError describes a decode failure.
type ParseError struct {
	Kind    error  // one of the sentinel errors above
	Token   string // offending token, for ErrIllegalToken
	Feature string // feature name, for ErrUnsupportedFeature
	Message string // optional detail
	Offset  int64  // bytes consumed from the body when the error was raised (0 if unknown)
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := e.Kind.Error()
	switch {
	case e.Token != "":
		msg += " " + e.Token
	case e.Feature != "":
		msg += ": " + e.Feature
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Offset > 0 {
		return fmt.Sprintf("formdata: %s (at byte %d)", msg, e.Offset)
	}
	return "formdata: " + msg
}

// Unwrap returns the sentinel kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// IllegalToken reports tok in a position the grammar does not allow.
func IllegalToken(tok fmt.Stringer) *ParseError {
	return &ParseError{Kind: ErrIllegalToken, Token: tok.String()}
}

// IllegalText reports an illegal literal that is not a scanner token.
func IllegalText(text string) *ParseError {
	return &ParseError{Kind: ErrIllegalToken, Token: fmt.Sprintf("%q", text)}
}

// Unsupported reports use of an unimplemented feature.
func Unsupported(feature string) *ParseError {
	return &ParseError{Kind: ErrUnsupportedFeature, Feature: feature}
}

// Violation reports a protocol violation.
func Violation(format string, args ...any) *ParseError {
	return &ParseError{Kind: ErrProtocolViolation, Message: fmt.Sprintf(format, args...)}
}

// UnexpectedEnd reports truncated input.
func UnexpectedEnd(format string, args ...any) *ParseError {
	return &ParseError{Kind: ErrUnexpectedEnd, Message: fmt.Sprintf(format, args...)}
}

// At sets the byte offset on err if it is a *ParseError without one, and
// returns err.
func At(err error, offset int64) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Offset == 0 {
		pe.Offset = offset
	}
	return err
}

// KindName returns a short label for the taxonomy kind of err, suitable for
// metric labels and logs. Errors outside the taxonomy report "io".
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrIllegalToken):
		return "illegal_token"
	case errors.Is(err, ErrUnsupportedFeature):
		return "unsupported_feature"
	case errors.Is(err, ErrProtocolViolation):
		return "protocol_violation"
	case errors.Is(err, ErrUnexpectedEnd):
		return "unexpected_end"
	default:
		return "io"
	}
}
