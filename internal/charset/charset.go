// Package charset resolves the fixed form charset and decodes header values
// and field bodies with it.
package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Default is the form charset used when none is configured.
const Default = "utf-8"

// Charset decodes bytes in one named character set.
type Charset struct {
	name string
	enc  encoding.Encoding // nil for utf-8 and us-ascii
}

// UTF8 is the default form charset.
var UTF8 = Charset{name: Default}

// Lookup resolves name through the MIME and IANA registries.
func Lookup(name string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "us-ascii":
		return Charset{name: strings.ToLower(strings.TrimSpace(name))}, nil
	}
	enc, _ := ianaindex.MIME.Encoding(name)
	if enc == nil {
		enc, _ = ianaindex.IANA.Encoding(name)
	}
	if enc == nil {
		return Charset{}, fmt.Errorf("formdata: unknown charset %q", name)
	}
	return Charset{name: name, enc: enc}, nil
}

// Name returns the charset name as configured.
func (c Charset) Name() string {
	if c.name == "" {
		return Default
	}
	return c.name
}

// Decode returns b decoded to a Go string. Invalid sequences become
// U+FFFD instead of failing.
func (c Charset) Decode(b []byte) string {
	if c.enc == nil {
		if utf8.Valid(b) {
			return string(b)
		}
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}
