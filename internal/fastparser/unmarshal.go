package fastparser

import (
	"bytes"
	"fmt"
)

// Unmarshal decodes a complete in-memory multipart body.
func Unmarshal(data []byte, boundary string, opts ParserOptions) ([]*Part, error) {
	c := NewCursor(bytes.NewReader(data), int64(len(data)), len(data))
	return NewParser(NewScanner(c, boundary), opts).Parts()
}

// Validate checks that data is a well-formed multipart body. Bodies are
// discarded, file bodies included.
func Validate(data []byte, boundary string) error {
	if _, err := Unmarshal(data, boundary, ParserOptions{}); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}
