package formdata

import (
	"errors"
	"fmt"
	"net/http"
)

// FromRequest decodes the body of a multipart/form-data request. The
// boundary comes from the Content-Type header and the body length from
// Content-Length, which must be present. The caller must Close the form.
func FromRequest(r *http.Request, opts ...Option) (*Form, error) {
	boundary, err := RequestBoundary(r)
	if err != nil {
		return nil, err
	}
	if r.ContentLength < 0 {
		return nil, ErrLengthRequired
	}
	return NewDecoder(r.Body, r.ContentLength, boundary, opts...).Decode()
}

// RequestBoundary returns the boundary parameter of a multipart/form-data
// request's Content-Type.
func RequestBoundary(r *http.Request) (string, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "", ErrNotMultipart
	}
	mt, err := ParseMediaType(ct)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotMultipart, err)
	}
	if mt.Essence() != "multipart/form-data" {
		return "", fmt.Errorf("%w: %s", ErrNotMultipart, mt.Essence())
	}
	boundary := mt.Param("boundary")
	if boundary == "" {
		return "", ErrNoBoundary
	}
	return boundary, nil
}

// StatusCode maps a FromRequest error to an HTTP status code: malformed
// bodies are client errors, anything else is a server error.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrLengthRequired):
		return http.StatusLengthRequired
	case errors.Is(err, ErrNotMultipart):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrNoBoundary), errors.Is(err, ErrInvalidBoundary), IsParseError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
