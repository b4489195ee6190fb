package tokenizer

import (
	"fmt"

	"github.com/shapestone/shape-formdata/internal/errs"
)

// Token is a header-value token detached from the shape-core stream.
type Token struct {
	Kind  string
	Value string
}

// String renders the token for error messages.
func (t Token) String() string {
	if t.Kind == TokenEOF {
		return TokenEOF
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}

var eofToken = Token{Kind: TokenEOF}

// Scanner hands out the tokens of one header value with one token of
// lookahead. Past the last token it keeps returning an EOF token.
type Scanner struct {
	tokens []Token
	pos    int
}

// NewScanner tokenizes value. Quoted strings and comments are handed out
// without their delimiters and with quoted pairs unescaped.
func NewScanner(value string) (*Scanner, error) {
	tok := NewTokenizer()
	tok.Initialize(value)

	raw, eos := tok.Tokenize()
	if !eos {
		return nil, errs.IllegalText(value)
	}

	tokens := make([]Token, len(raw))
	for i, t := range raw {
		value := t.ValueString()
		switch t.Kind() {
		case TokenQuotedString, TokenComment:
			value = unquote(value, true)
		case TokenUnterminated:
			value = unquote(value, false)
		}
		tokens[i] = Token{Kind: t.Kind(), Value: value}
	}
	return &Scanner{tokens: tokens}, nil
}

// Next consumes and returns the next token. Reaching a quoted string or
// comment that the value cut off returns ErrUnexpectedEnd.
func (s *Scanner) Next() (Token, error) {
	t, err := s.Peek()
	if err == nil && s.pos < len(s.tokens) {
		s.pos++
	}
	return t, err
}

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() (Token, error) {
	if s.pos >= len(s.tokens) {
		return eofToken, nil
	}
	t := s.tokens[s.pos]
	if t.Kind == TokenUnterminated {
		return t, errs.UnexpectedEnd("unterminated quoted string or comment in header value")
	}
	return t, nil
}
