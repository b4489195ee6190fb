package tokenizer

import (
	"strings"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer for parameterized header values.
// Matchers are tried in order:
// 1. Quoted string ("..." with quoted pairs)
// 2. Comment ((...) with quoted pairs)
// 3. HWSP run
// 4. Comma, semicolon, equals, solidus
// 5. Any other tspecial (single character)
// 6. Atom (everything else up to whitespace or a tspecial)
//
// Whitespace is significant to the grammar's token boundaries, so the
// default whitespace skipper is not used.
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		QuotedStringMatcher(),
		CommentMatcher(),
		HWSPMatcher(),
		tokenizer.StringMatcherFunc(TokenComma, ","),
		tokenizer.StringMatcherFunc(TokenSemicolon, ";"),
		tokenizer.StringMatcherFunc(TokenEquals, "="),
		tokenizer.StringMatcherFunc(TokenSolidus, "/"),
		TSpecialMatcher(),
		AtomMatcher(),
	)
}

// NewTokenizerWithStream creates a header-value tokenizer over a pre-configured stream.
func NewTokenizerWithStream(stream tokenizer.Stream) tokenizer.Tokenizer {
	tok := NewTokenizer()
	tok.InitializeFromStream(stream)
	return tok
}

// QuotedStringMatcher matches a double-quoted string. The token value is the
// raw lexeme, quotes and quoted pairs included, because the tokenizer
// re-positions the stream by matching the value against the input. Input
// that ends before the closing quote yields an Unterminated token holding
// everything consumed.
func QuotedStringMatcher() tokenizer.Matcher {
	return delimitedMatcher('"', '"', TokenQuotedString)
}

// CommentMatcher matches a parenthesized comment with the same escaping rule
// as quoted strings. Comments do not nest.
func CommentMatcher() tokenizer.Matcher {
	return delimitedMatcher('(', ')', TokenComment)
}

func delimitedMatcher(open, close rune, kind string) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != open {
			return nil
		}
		stream.NextChar()

		raw := []rune{open}
		for {
			r, ok := stream.PeekChar()
			if !ok {
				return tokenizer.NewToken(TokenUnterminated, raw)
			}
			stream.NextChar()
			raw = append(raw, r)

			switch r {
			case close:
				return tokenizer.NewToken(kind, raw)
			case '\\':
				escaped, ok := stream.PeekChar()
				if !ok {
					return tokenizer.NewToken(TokenUnterminated, raw)
				}
				stream.NextChar()
				raw = append(raw, escaped)
			}
		}
	}
}

// unquote returns the content of a raw quoted-string or comment lexeme:
// the opening delimiter is dropped, the closing one too when closed is set,
// and each quoted pair \x becomes x. A dangling backslash is dropped.
func unquote(raw string, closed bool) string {
	rs := []rune(raw)
	if len(rs) == 0 {
		return ""
	}
	rs = rs[1:]
	if closed && len(rs) > 0 {
		rs = rs[:len(rs)-1]
	}

	out := make([]rune, 0, len(rs))
	for i := 0; i < len(rs); i++ {
		if rs[i] == '\\' {
			i++
			if i == len(rs) {
				break
			}
		}
		out = append(out, rs[i])
	}
	return string(out)
}

// HWSPMatcher matches a run of spaces and tabs.
func HWSPMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok || !isHWSP(r) {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenHWSP, value)
	}
}

// TSpecialMatcher matches a single reserved separator character not claimed
// by a more specific matcher.
func TSpecialMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || !IsTSpecial(r) {
			return nil
		}
		stream.NextChar()
		return tokenizer.NewToken(TokenTSpecial, []rune{r})
	}
}

// AtomMatcher matches a maximal run of characters that are neither
// whitespace nor tspecials.
func AtomMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok || isHWSP(r) || IsTSpecial(r) {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenAtom, value)
	}
}

// IsTSpecial reports whether r is a reserved separator character.
func IsTSpecial(r rune) bool {
	return strings.ContainsRune(tspecials, r)
}

func isHWSP(r rune) bool {
	return r == ' ' || r == '\t'
}
