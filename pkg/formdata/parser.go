package formdata

import (
	"github.com/shapestone/shape-formdata/internal/charset"
	"github.com/shapestone/shape-formdata/internal/parser"
	"github.com/shapestone/shape-formdata/internal/rfcdate"
)

// ParseMediaType parses one parameterized header value:
//
//	form-data; name="upload"; filename="a (1).txt"
//	multipart/form-data; boundary=XYZ (comment)
//
// Parameter names are case-insensitive; a repeated name keeps the last value.
func ParseMediaType(value string) (*MediaType, error) {
	return parser.ParseMediaType([]byte(value), charset.UTF8)
}

// ParseMediaTypes parses a comma-separated list of media types.
func ParseMediaTypes(value string) ([]*MediaType, error) {
	p, err := parser.NewParser(value)
	if err != nil {
		return nil, err
	}
	return p.MediaTypes()
}

// ParseDate parses an RFC 2822 style date as used by the creation-date,
// modification-date and read-date disposition parameters.
func ParseDate(value string) (Timestamp, error) {
	return rfcdate.Parse(value)
}
