// Package fastparser implements a streaming multipart/form-data decoder. It
// reads a body of declared length through a Cursor, turns bytes into
// multipart tokens with a Scanner, and assembles those into Parts with a
// Parser:
//
//	BOUNDARY CRLF *(header CRLF) CRLF body CRLF (BOUNDARY | FINAL-BOUNDARY)
//
// File bodies (parts whose disposition carries a filename) are written to
// spool files; all other bodies are kept in memory.
package fastparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/shapestone/shape-formdata/internal/charset"
	"github.com/shapestone/shape-formdata/internal/errs"
	"github.com/shapestone/shape-formdata/internal/parser"
	"github.com/shapestone/shape-formdata/internal/spool"
)

// Part is one decoded form part.
type Part struct {
	Headers     Headers
	Disposition *parser.MediaType // always present, type form-data
	ContentType *parser.MediaType // nil without a Content-Type header
	Body        Body
}

// Name returns the field name from the disposition.
func (p *Part) Name() string {
	return p.Disposition.Param("name")
}

// Filename returns the disposition filename, or "".
func (p *Part) Filename() string {
	return p.Disposition.Param("filename")
}

// Body is a finalized part body: in memory, or spooled to Path.
type Body struct {
	IsFile bool
	Data   []byte // in-memory content; nil when spooled
	Path   string // spool file; "" when in memory
	Size   int64
}

// ParserOptions configures a Parser.
type ParserOptions struct {
	// Charset decodes Content-Type and Content-Disposition values.
	Charset charset.Charset

	// Spool receives file bodies. When nil, file bodies stay in memory.
	Spool *spool.Registry

	Logger *zap.Logger

	// OnPart, when set, is called with every assembled part.
	OnPart func(*Part)
}

// Parser assembles parts from multipart tokens.
type Parser struct {
	s    *Scanner
	opts ParserOptions
	log  *zap.Logger
	done bool
}

// NewParser returns a parser reading tokens from s.
func NewParser(s *Scanner, opts ParserOptions) *Parser {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{s: s, opts: opts, log: log}
}

// Parts reads every remaining part.
func (p *Parser) Parts() ([]*Part, error) {
	var parts []*Part
	for {
		part, err := p.Part()
		if err != nil {
			return nil, err
		}
		if part == nil {
			return parts, nil
		}
		parts = append(parts, part)
	}
}

// Part reads the next part. It returns nil, nil once the final boundary has
// been read; nothing after the final boundary is consumed.
func (p *Parser) Part() (*Part, error) {
	if p.done {
		return nil, nil
	}
	part, err := p.part()
	if err != nil {
		p.done = true
		return nil, p.fail(err)
	}
	if part == nil {
		p.done = true
		return nil, nil
	}
	p.log.Debug("part decoded",
		zap.String("name", part.Name()),
		zap.Bool("file", part.Body.IsFile),
		zap.Int64("size", part.Body.Size))
	if p.opts.OnPart != nil {
		p.opts.OnPart(part)
	}
	return part, nil
}

func (p *Parser) part() (*Part, error) {
	t := p.s.Next()
	switch t.Kind {
	case KindFinalBoundary:
		return nil, nil
	case KindBoundary:
	case KindEOF:
		return nil, errs.UnexpectedEnd("expected boundary delimiter")
	default:
		return nil, errs.IllegalToken(t)
	}

	if err := p.expect(KindCRLF, "after boundary delimiter"); err != nil {
		return nil, err
	}

	part := &Part{}
	if err := p.parseHeaders(part); err != nil {
		return nil, err
	}

	if part.Disposition == nil {
		return nil, errs.Violation("part without Content-Disposition")
	}
	if !strings.EqualFold(part.Disposition.Type, "form-data") || part.Disposition.HasSubtype() {
		return nil, errs.Violation("Content-Disposition %q is not form-data", part.Disposition.Essence())
	}
	if part.Name() == "" {
		return nil, errs.Violation("Content-Disposition without a name parameter")
	}

	body, err := p.parseBody(part.Filename() != "")
	if err != nil {
		return nil, err
	}
	part.Body = body
	return part, nil
}

// parseHeaders reads header lines up to and including the blank line.
func (p *Parser) parseHeaders(part *Part) error {
	for {
		t := p.s.Next()
		switch t.Kind {
		case KindCRLF:
			return nil
		case KindASCIIRun:
		case KindEOF:
			return errs.UnexpectedEnd("inside part headers")
		default:
			return errs.IllegalToken(t)
		}

		name := t.Value
		if err := p.expect(KindColon, "after header name"); err != nil {
			return err
		}
		value, err := p.headerValue()
		if err != nil {
			return err
		}

		hdr := Header{Key: internHeaderKey(name), Name: string(name), Value: value}
		switch hdr.Key {
		case KeyContentDisposition:
			mt, err := parser.ParseMediaType(value, p.opts.Charset)
			if err != nil {
				return err
			}
			part.Disposition = mt
		case KeyContentType:
			mt, err := parser.ParseMediaType(value, p.opts.Charset)
			if err != nil {
				return err
			}
			part.ContentType = mt
		case KeyContentTransferEncoding:
			return errs.Unsupported("Content-Transfer-Encoding")
		}
		part.Headers.set(hdr)
	}
}

// headerValue reads a header value after the colon, through the CRLF that
// ends it. A CRLF followed by whitespace folds: the two physical lines are
// joined by exactly one space.
func (p *Parser) headerValue() ([]byte, error) {
	if p.s.Lookahead().Kind == KindHWSP {
		p.s.Next()
	}

	var buf []byte
	lineStart := 0
	for {
		t := p.s.Next()
		switch t.Kind {
		case KindASCIIRun, KindOctetRun, KindColon, KindHWSP:
			buf = append(buf, t.Value...)
		case KindCRLF:
			if p.s.Lookahead().Kind != KindHWSP {
				return trimHWSP(buf), nil
			}
			// Blank lines may not be folded, on either side of the fold.
			if isBlank(buf[lineStart:]) {
				return nil, errs.IllegalToken(t)
			}
			p.s.Next()
			switch next := p.s.Lookahead(); next.Kind {
			case KindCRLF:
				return nil, errs.IllegalToken(next)
			case KindEOF:
				return nil, errs.UnexpectedEnd("inside folded header")
			}
			buf = append(trimRightHWSP(buf), ' ')
			lineStart = len(buf)
		case KindEOF:
			return nil, errs.UnexpectedEnd("inside header value")
		default:
			return nil, errs.IllegalToken(t)
		}
	}
}

// parseBody reads body tokens up to the CRLF that precedes the next
// delimiter. That CRLF and the delimiter are left for the caller: the CRLF
// is consumed, the delimiter is not.
func (p *Parser) parseBody(isFile bool) (Body, error) {
	var (
		w    io.Writer
		mem  bytes.Buffer
		file *spool.File
	)
	switch {
	case isFile && p.opts.Spool != nil:
		f, err := p.opts.Spool.Create()
		if err != nil {
			return Body{}, err
		}
		file = f
		w = f
	default:
		w = &mem
	}

	// A delimiter directly after the blank line ends an empty body.
	if !p.s.Lookahead().isDelimiter() {
		if err := p.copyBody(w); err != nil {
			return Body{}, err
		}
	}

	if file != nil {
		path, size, err := file.Finish()
		if err != nil {
			return Body{}, err
		}
		return Body{IsFile: true, Path: path, Size: size}, nil
	}
	data := mem.Bytes()
	if data == nil {
		data = []byte{}
	}
	return Body{IsFile: isFile, Data: data, Size: int64(len(data))}, nil
}

func (p *Parser) copyBody(w io.Writer) error {
	for {
		t := p.s.Next()
		switch t.Kind {
		case KindEOF:
			return errs.UnexpectedEnd("inside part body")
		case KindCRLF:
			if p.s.Lookahead().isDelimiter() {
				return nil
			}
		}
		if _, err := w.Write(t.Bytes()); err != nil {
			return fmt.Errorf("formdata: write body: %w", err)
		}
	}
}

// expect consumes one token of kind k.
func (p *Parser) expect(k Kind, where string) error {
	t := p.s.Next()
	switch t.Kind {
	case k:
		return nil
	case KindEOF:
		return errs.UnexpectedEnd("expected %s %s", k, where)
	default:
		return errs.IllegalToken(t)
	}
}

// fail attaches the input offset to err. An end of input caused by a failed
// read is reported as the read error; a source that delivered fewer bytes
// than declared stays an unexpected end.
func (p *Parser) fail(err error) error {
	cur := p.s.Cursor()
	ioErr := cur.Err()
	if ioErr != nil && !errors.Is(ioErr, io.ErrUnexpectedEOF) && errors.Is(err, errs.ErrUnexpectedEnd) {
		err = fmt.Errorf("formdata: read body: %w", ioErr)
	}
	p.log.Debug("decode failed", zap.Int64("offset", cur.Consumed()), zap.Error(err))
	return errs.At(err, cur.Consumed())
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

func trimRightHWSP(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}

// trimHWSP trims spaces and tabs from both ends of b.
func trimHWSP(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	return trimRightHWSP(b)
}
