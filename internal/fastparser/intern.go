package fastparser

import "strings"

// HeaderKey is a header name normalized for case-insensitive lookup. Keys
// are normalized once, when a header is stored or looked up, never at the
// point of comparison.
//
// The Go compiler optimizes map lookups with string([]byte) keys to avoid
// allocating the temporary string, so interning known names is zero-alloc.
type HeaderKey string

// Header keys the assembler acts on.
const (
	KeyContentDisposition      HeaderKey = "content-disposition"
	KeyContentType             HeaderKey = "content-type"
	KeyContentTransferEncoding HeaderKey = "content-transfer-encoding"
)

var headerKeys = map[string]HeaderKey{
	"Content-Disposition":       KeyContentDisposition,
	"content-disposition":       KeyContentDisposition,
	"Content-Type":              KeyContentType,
	"content-type":              KeyContentType,
	"Content-Transfer-Encoding": KeyContentTransferEncoding,
	"content-transfer-encoding": KeyContentTransferEncoding,
	"Content-Length":            "content-length",
	"Content-ID":                "content-id",
	"Content-Description":       "content-description",
	"Content-Language":          "content-language",
}

// NewHeaderKey normalizes name.
func NewHeaderKey(name string) HeaderKey {
	if k, ok := headerKeys[name]; ok {
		return k
	}
	return HeaderKey(strings.ToLower(name))
}

// internHeaderKey normalizes a header name read off the wire.
func internHeaderKey(b []byte) HeaderKey {
	if k, ok := headerKeys[string(b)]; ok {
		return k
	}
	return HeaderKey(strings.ToLower(string(b)))
}

// Header is one header line of a part.
type Header struct {
	Key   HeaderKey
	Name  string // as written on the wire
	Value []byte // unfolded raw value, leading and trailing whitespace removed
}

// Headers is the ordered header block of a part. Each key appears once.
type Headers struct {
	list []Header
}

// Len returns the number of headers.
func (h *Headers) Len() int {
	return len(h.list)
}

// All returns the headers in wire order.
func (h *Headers) All() []Header {
	return h.list
}

// Get returns the header named name.
func (h *Headers) Get(name string) (Header, bool) {
	return h.lookup(NewHeaderKey(name))
}

// Value returns the raw value of the named header, or "" when absent.
func (h *Headers) Value(name string) string {
	hdr, ok := h.Get(name)
	if !ok {
		return ""
	}
	return string(hdr.Value)
}

// Has reports whether the named header is present.
func (h *Headers) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

func (h *Headers) lookup(k HeaderKey) (Header, bool) {
	for _, hdr := range h.list {
		if hdr.Key == k {
			return hdr, true
		}
	}
	return Header{}, false
}

// set stores hdr. A repeated key replaces the earlier header in place.
func (h *Headers) set(hdr Header) {
	for i := range h.list {
		if h.list[i].Key == hdr.Key {
			h.list[i] = hdr
			return
		}
	}
	h.list = append(h.list, hdr)
}
