package formdata

import (
	"bytes"
	"fmt"
	"strings"
)

// Field is one part to encode.
type Field struct {
	Name        string
	Filename    string // non-empty marks a file part
	ContentType string // optional
	Body        []byte
}

// appendField serializes one part: delimiter line, headers, blank line and
// body, without the CRLF that precedes the next delimiter.
func appendField(buf []byte, boundary string, f Field) ([]byte, error) {
	if f.Name == "" {
		return nil, fmt.Errorf("formdata: encode: field without a name")
	}
	delim := []byte("--" + boundary)
	if bytes.HasPrefix(f.Body, delim) || bytes.Contains(f.Body, append([]byte("\r\n"), delim...)) {
		return nil, fmt.Errorf("formdata: encode: body of %q contains the boundary", f.Name)
	}

	buf = appendDelimiter(buf, boundary)
	buf = appendCRLF(buf)

	buf = append(buf, `Content-Disposition: form-data; name=`...)
	var err error
	if buf, err = appendQuoted(buf, f.Name); err != nil {
		return nil, err
	}
	if f.Filename != "" {
		buf = append(buf, `; filename=`...)
		if buf, err = appendQuoted(buf, f.Filename); err != nil {
			return nil, err
		}
	}
	buf = appendCRLF(buf)

	if f.ContentType != "" {
		if strings.ContainsAny(f.ContentType, "\r\n") {
			return nil, fmt.Errorf("formdata: encode: line break in content type of %q", f.Name)
		}
		buf = append(buf, "Content-Type: "...)
		buf = append(buf, f.ContentType...)
		buf = appendCRLF(buf)
	}

	buf = appendCRLF(buf)
	return append(buf, f.Body...), nil
}

// appendQuoted appends s as a quoted string, escaping quotes and
// backslashes as quoted pairs.
func appendQuoted(buf []byte, s string) ([]byte, error) {
	if strings.ContainsAny(s, "\r\n") {
		return nil, fmt.Errorf("formdata: encode: line break in %q", s)
	}
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			buf = append(buf, '\\')
		}
		buf = append(buf, s[i])
	}
	return append(buf, '"'), nil
}
