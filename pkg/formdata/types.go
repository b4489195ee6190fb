// Package formdata decodes multipart/form-data bodies as sent by HTML forms
// with file uploads.
//
// A body is read once, front to back, from an io.Reader of known length.
// Plain fields are kept in memory; file fields (parts whose disposition
// carries a filename) are written to temporary spool files that live until
// the owning Form or Decoder is closed.
//
// # Decoding APIs
//
//   - NewDecoder - streaming, part by part
//   - Scan - decode, run a callback, always clean up
//   - Unmarshal/Validate - in-memory bodies
//   - FromRequest - a *net/http.Request with a multipart/form-data body
//
// # Errors
//
// Malformed input fails the whole decode. Errors classify with errors.Is
// against ErrIllegalToken, ErrUnsupportedFeature, ErrProtocolViolation and
// ErrUnexpectedEnd.
//
// # Thread Safety
//
// A Decoder or Form is not safe for concurrent use. Separate decoders share
// no state.
package formdata

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"github.com/shapestone/shape-formdata/internal/charset"
	"github.com/shapestone/shape-formdata/internal/errs"
	"github.com/shapestone/shape-formdata/internal/fastparser"
	"github.com/shapestone/shape-formdata/internal/parser"
	"github.com/shapestone/shape-formdata/internal/rfcdate"
)

// MediaType is a parsed parameterized header value such as a Content-Type
// or Content-Disposition.
type MediaType = parser.MediaType

// Timestamp is a parsed disposition date. HasZone is false when the date
// carried no UTC offset.
type Timestamp = rfcdate.Timestamp

// Header is one part header as it appeared on the wire, unfolded.
type Header struct {
	Name  string
	Value string
}

// Part is one decoded form field.
type Part struct {
	p  *fastparser.Part
	cs charset.Charset
}

func newPart(p *fastparser.Part, cs charset.Charset) *Part {
	return &Part{p: p, cs: cs}
}

// Name returns the field name.
func (p *Part) Name() string { return p.p.Name() }

// Filename returns the submitted filename, or "" for plain fields.
func (p *Part) Filename() string { return p.p.Filename() }

// IsFile reports whether the part is a file upload.
func (p *Part) IsFile() bool { return p.p.Body.IsFile }

// Headers returns the part headers in wire order.
func (p *Part) Headers() []Header {
	all := p.p.Headers.All()
	out := make([]Header, len(all))
	for i, h := range all {
		out[i] = Header{Name: h.Name, Value: string(h.Value)}
	}
	return out
}

// Header returns the value of the named header (case-insensitive), or "".
func (p *Part) Header(name string) string {
	return p.p.Headers.Value(name)
}

// ContentType returns the parsed Content-Type header, or nil.
func (p *Part) ContentType() *MediaType { return p.p.ContentType }

// Disposition returns the part's Content-Disposition.
func (p *Part) Disposition() *ContentDisposition {
	return &ContentDisposition{mt: p.p.Disposition}
}

// Bytes returns the in-memory body. It is nil for spooled file bodies.
func (p *Part) Bytes() []byte { return p.p.Body.Data }

// Path returns the spool file holding the body, or "" for in-memory bodies.
// The file is removed when the owning Form or Decoder is closed.
func (p *Part) Path() string { return p.p.Body.Path }

// Size returns the body length in bytes.
func (p *Part) Size() int64 { return p.p.Body.Size }

// Open returns a reader over the body.
func (p *Part) Open() (io.ReadCloser, error) {
	if p.p.Body.Path == "" {
		return io.NopCloser(bytes.NewReader(p.p.Body.Data)), nil
	}
	return os.Open(p.p.Body.Path)
}

// Text returns the in-memory body decoded with the form charset. Invalid
// sequences are replaced with U+FFFD. Spooled bodies return "".
func (p *Part) Text() string {
	return p.cs.Decode(p.p.Body.Data)
}

// ContentDisposition gives typed access to a part's disposition parameters.
type ContentDisposition struct {
	mt *MediaType
}

// MediaType returns the underlying parsed header value.
func (d *ContentDisposition) MediaType() *MediaType { return d.mt }

// Param returns the named parameter (case-insensitive), or "".
func (d *ContentDisposition) Param(name string) string { return d.mt.Param(name) }

// FieldName returns the required name parameter.
func (d *ContentDisposition) FieldName() string { return d.mt.Param("name") }

// Filename returns the filename parameter, or "".
func (d *ContentDisposition) Filename() string { return d.mt.Param("filename") }

// CreationDate parses the creation-date parameter. It returns nil, nil when
// the parameter is absent.
func (d *ContentDisposition) CreationDate() (*Timestamp, error) {
	return d.date("creation-date")
}

// ModificationDate parses the modification-date parameter.
func (d *ContentDisposition) ModificationDate() (*Timestamp, error) {
	return d.date("modification-date")
}

// ReadDate parses the read-date parameter.
func (d *ContentDisposition) ReadDate() (*Timestamp, error) {
	return d.date("read-date")
}

// Size parses the size parameter. ok is false when it is absent.
func (d *ContentDisposition) Size() (size int64, ok bool, err error) {
	v, ok := d.mt.Params.Get("size")
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, true, errs.Violation("invalid size parameter %q", v)
	}
	return n, true, nil
}

func (d *ContentDisposition) date(name string) (*Timestamp, error) {
	v, ok := d.mt.Params.Get(name)
	if !ok {
		return nil, nil
	}
	ts, err := rfcdate.Parse(v)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
