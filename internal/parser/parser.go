// Package parser implements the media-type grammar used by parameterized
// header values such as Content-Type and Content-Disposition:
//
//	media-type := atom ["/" atom] *(";" parameter)
//	parameter  := atom "=" (atom | quoted-string)
//
// Whitespace and comments may appear between any two tokens and are skipped.
// A top-level comma or the end of the value terminates a media type.
//
// Parsed values convert to shape-core AST nodes with the structure:
//
//	{ "type": "form-data", "subtype": "...",
//	  "parameters": {"name": "title", "filename": "a.txt"} }
package parser

import (
	"strings"

	"github.com/shapestone/shape-formdata/internal/charset"
	"github.com/shapestone/shape-formdata/internal/errs"
	"github.com/shapestone/shape-formdata/internal/tokenizer"
)

// Params maps parameter names to values. Keys are normalized to lower case
// on every insertion and lookup, so access is case-insensitive.
type Params map[string]string

// Key returns the normalized form of a parameter name.
func Key(name string) string {
	return strings.ToLower(name)
}

// Get returns the value of the named parameter.
func (p Params) Get(name string) (string, bool) {
	v, ok := p[Key(name)]
	return v, ok
}

// Has reports whether the named parameter is present.
func (p Params) Has(name string) bool {
	_, ok := p[Key(name)]
	return ok
}

// Set stores value under name, replacing any earlier value.
func (p Params) Set(name, value string) {
	p[Key(name)] = value
}

// MediaType is a parsed parameterized header value.
type MediaType struct {
	Type    string // "form-data", "text"
	Subtype string // "plain"; empty when the value has no "/" part
	Params  Params
}

// HasSubtype reports whether the value carried a "/subtype".
func (m *MediaType) HasSubtype() bool {
	return m.Subtype != ""
}

// Essence returns "type/subtype" (or just the type) in lower case.
func (m *MediaType) Essence() string {
	if m.Subtype == "" {
		return strings.ToLower(m.Type)
	}
	return strings.ToLower(m.Type) + "/" + strings.ToLower(m.Subtype)
}

// Param returns the named parameter value, or "" when absent.
func (m *MediaType) Param(name string) string {
	v, _ := m.Params.Get(name)
	return v
}

// Parser builds MediaType values from header-value tokens.
type Parser struct {
	s *tokenizer.Scanner
}

// NewParser creates a parser over a header value that has already been
// decoded to text.
func NewParser(value string) (*Parser, error) {
	s, err := tokenizer.NewScanner(value)
	if err != nil {
		return nil, err
	}
	return &Parser{s: s}, nil
}

// ParseMediaType decodes value with cs and parses exactly one media type.
// Anything after it, including a trailing list comma, is an illegal token.
func ParseMediaType(value []byte, cs charset.Charset) (*MediaType, error) {
	p, err := NewParser(cs.Decode(value))
	if err != nil {
		return nil, err
	}
	mt, term, err := p.mediaType()
	if err != nil {
		return nil, err
	}
	if term.Kind != tokenizer.TokenEOF {
		return nil, errs.IllegalToken(term)
	}
	return mt, nil
}

// MediaType parses one media type, consuming the comma or end of value that
// terminates it.
func (p *Parser) MediaType() (*MediaType, error) {
	mt, _, err := p.mediaType()
	return mt, err
}

// MediaTypes parses a comma-separated list of media types.
func (p *Parser) MediaTypes() ([]*MediaType, error) {
	var list []*MediaType
	for {
		t, err := p.skipCHWSP()
		if err != nil {
			return nil, err
		}
		if t.Kind == tokenizer.TokenEOF {
			return list, nil
		}
		mt, err := p.MediaType()
		if err != nil {
			return nil, err
		}
		list = append(list, mt)
	}
}

func (p *Parser) mediaType() (*MediaType, tokenizer.Token, error) {
	var none tokenizer.Token

	if _, err := p.skipCHWSP(); err != nil {
		return nil, none, err
	}
	t, err := p.s.Next()
	if err != nil {
		return nil, none, err
	}
	if t.Kind != tokenizer.TokenAtom {
		return nil, none, errs.IllegalToken(t)
	}
	mt := &MediaType{Type: t.Value, Params: Params{}}

	la, err := p.skipCHWSP()
	if err != nil {
		return nil, none, err
	}
	if la.Kind == tokenizer.TokenSolidus {
		p.s.Next()
		if _, err := p.skipCHWSP(); err != nil {
			return nil, none, err
		}
		t, err := p.s.Next()
		if err != nil {
			return nil, none, err
		}
		if t.Kind != tokenizer.TokenAtom {
			return nil, none, errs.IllegalToken(t)
		}
		mt.Subtype = t.Value
	}

	for {
		if _, err := p.skipCHWSP(); err != nil {
			return nil, none, err
		}
		t, err := p.s.Next()
		if err != nil {
			return nil, none, err
		}
		switch t.Kind {
		case tokenizer.TokenSemicolon:
			name, value, err := p.parameter()
			if err != nil {
				return nil, none, err
			}
			mt.Params.Set(name, value)
		case tokenizer.TokenComma, tokenizer.TokenEOF:
			return mt, t, nil
		default:
			return nil, none, errs.IllegalToken(t)
		}
	}
}

// parameter parses `atom "=" (atom | quoted-string)` after a semicolon.
func (p *Parser) parameter() (name, value string, err error) {
	t, err := p.nextSignificant()
	if err != nil {
		return "", "", err
	}
	if t.Kind != tokenizer.TokenAtom {
		return "", "", errs.IllegalToken(t)
	}
	name = t.Value

	t, err = p.nextSignificant()
	if err != nil {
		return "", "", err
	}
	if t.Kind != tokenizer.TokenEquals {
		return "", "", errs.IllegalToken(t)
	}

	t, err = p.nextSignificant()
	if err != nil {
		return "", "", err
	}
	if t.Kind != tokenizer.TokenAtom && t.Kind != tokenizer.TokenQuotedString {
		return "", "", errs.IllegalToken(t)
	}
	return name, t.Value, nil
}

// skipCHWSP consumes whitespace and comments and returns the next token
// without consuming it.
func (p *Parser) skipCHWSP() (tokenizer.Token, error) {
	for {
		t, err := p.s.Peek()
		if err != nil {
			return t, err
		}
		if t.Kind != tokenizer.TokenHWSP && t.Kind != tokenizer.TokenComment {
			return t, nil
		}
		p.s.Next()
	}
}

func (p *Parser) nextSignificant() (tokenizer.Token, error) {
	if _, err := p.skipCHWSP(); err != nil {
		return tokenizer.Token{}, err
	}
	return p.s.Next()
}
