package formdata

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/shapestone/shape-formdata/internal/charset"
	"github.com/shapestone/shape-formdata/internal/errs"
	"github.com/shapestone/shape-formdata/internal/fastparser"
	"github.com/shapestone/shape-formdata/internal/spool"
)

// maxBoundaryLen is the RFC 2046 limit on boundary length.
const maxBoundaryLen = 70

// Decoder reads the parts of one multipart/form-data body. It owns the
// spool files created for file parts until Close, or until Decode hands
// them to a Form.
type Decoder struct {
	p     *fastparser.Parser
	reg   *spool.Registry
	cs    charset.Charset
	opts  options
	start time.Time

	parts []*Part
	err   error // sticky
	done  bool
}

// NewDecoder returns a decoder reading exactly length bytes of a body
// delimited by boundary from r. Option and argument errors are reported by
// the first call to Next or Decode.
func NewDecoder(r io.Reader, length int64, boundary string, opts ...Option) *Decoder {
	o := buildOptions(opts)
	dec := &Decoder{opts: o, start: time.Now()}

	if err := checkBoundary(boundary); err != nil {
		dec.err = err
		return dec
	}
	if o.maxLength > 0 && length > o.maxLength {
		dec.err = fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, length, o.maxLength)
		return dec
	}
	cs, err := charset.Lookup(o.charset)
	if err != nil {
		dec.err = err
		return dec
	}

	dec.cs = cs
	if !o.noSpool {
		dec.reg = spool.New(o.tempDir, o.logger)
	}
	cur := fastparser.NewCursor(r, length, o.bufferSize)
	dec.p = fastparser.NewParser(fastparser.NewScanner(cur, boundary), fastparser.ParserOptions{
		Charset: cs,
		Spool:   dec.reg,
		Logger:  o.logger,
		OnPart: func(p *fastparser.Part) {
			var spooled int64
			if p.Body.Path != "" {
				spooled = p.Body.Size
			}
			o.metrics.Part(p.Body.IsFile, spooled)
		},
	})
	return dec
}

// Next returns the next part, or io.EOF after the last one. Spooled bodies
// stay readable until the decoder is closed. Any other error is final.
func (dec *Decoder) Next() (*Part, error) {
	if dec.err != nil {
		return nil, dec.err
	}
	if dec.done {
		return nil, io.EOF
	}

	fp, err := dec.p.Part()
	if err != nil {
		dec.err = err
		dec.opts.metrics.Error(errs.KindName(err))
		dec.opts.metrics.Observe(dec.start)
		return nil, err
	}
	if fp == nil {
		dec.done = true
		dec.opts.metrics.Observe(dec.start)
		return nil, io.EOF
	}
	part := newPart(fp, dec.cs)
	dec.parts = append(dec.parts, part)
	return part, nil
}

// Decode reads all remaining parts into a Form, which takes ownership of the
// spool files. On error every spool file is removed before returning.
func (dec *Decoder) Decode() (*Form, error) {
	for {
		_, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = dec.Close()
			return nil, err
		}
	}

	form := newForm(dec.parts, dec.reg, dec.opts.logger)
	dec.reg = nil
	dec.parts = nil
	dec.err = ErrClosed
	return form, nil
}

// Close removes every spool file still owned by the decoder. It is safe to
// call more than once.
func (dec *Decoder) Close() error {
	if dec.err == nil || dec.done {
		dec.err = ErrClosed
	}
	if dec.reg == nil {
		return nil
	}
	err := dec.reg.Close()
	if err != nil {
		dec.opts.logger.Warn("spool cleanup failed", zap.Error(err))
	}
	return err
}

// checkBoundary accepts 1 to 70 visible ASCII characters other than colon,
// the characters a boundary delimiter token can be built from.
func checkBoundary(b string) error {
	if b == "" || len(b) > maxBoundaryLen {
		return fmt.Errorf("%w: length %d", ErrInvalidBoundary, len(b))
	}
	for i := 0; i < len(b); i++ {
		if c := b[i]; c < 0x21 || c > 0x7e || c == ':' {
			return fmt.Errorf("%w: %q", ErrInvalidBoundary, b)
		}
	}
	return nil
}
