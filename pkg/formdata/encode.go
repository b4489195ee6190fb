package formdata

import (
	"io"
)

// Encoder writes a multipart/form-data body part by part.
type Encoder struct {
	w        io.Writer
	boundary string
	n        int
	closed   bool
}

// NewEncoder returns an encoder writing to w with a fresh boundary.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, boundary: NewBoundary()}
}

// Boundary returns the boundary in use.
func (enc *Encoder) Boundary() string {
	return enc.boundary
}

// ContentType returns the request Content-Type for the encoded body.
func (enc *Encoder) ContentType() string {
	return "multipart/form-data; boundary=" + enc.boundary
}

// Encode writes one part.
func (enc *Encoder) Encode(f Field) error {
	if enc.closed {
		return ErrClosed
	}
	var buf []byte
	if enc.n > 0 {
		buf = appendCRLF(buf)
	}
	buf, err := appendField(buf, enc.boundary, f)
	if err != nil {
		return err
	}
	enc.n++
	_, err = enc.w.Write(buf)
	return err
}

// Close writes the final boundary. It does not close the underlying writer.
func (enc *Encoder) Close() error {
	if enc.closed {
		return nil
	}
	enc.closed = true
	var buf []byte
	if enc.n > 0 {
		buf = appendCRLF(buf)
	}
	_, err := enc.w.Write(appendFinal(buf, enc.boundary))
	return err
}
