package formdata

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shapestone/shape-formdata/internal/fastparser"
)

// Unmarshal decodes an in-memory body. The caller must Close the form.
func Unmarshal(data []byte, boundary string, opts ...Option) (*Form, error) {
	return NewDecoder(bytes.NewReader(data), int64(len(data)), boundary, opts...).Decode()
}

// Validate checks that data is a well-formed multipart/form-data body
// delimited by boundary. Nothing is written to disk.
func Validate(data []byte, boundary string) error {
	if err := checkBoundary(boundary); err != nil {
		return err
	}
	return fastparser.Validate(data, boundary)
}

// ValidateReader reads all of r and validates it. See Validate.
func ValidateReader(r io.Reader, boundary string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("formdata: read: %w", err)
	}
	return Validate(data, boundary)
}
