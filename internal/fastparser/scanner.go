package fastparser

import (
	"fmt"
	"strconv"
)

// Kind identifies a multipart token.
type Kind int

const (
	KindEOF           Kind = iota // end of input
	KindOctetRun                  // run of bytes outside visible ASCII, HWSP, CR, LF
	KindASCIIRun                  // run of visible ASCII excluding colon
	KindColon                     // :
	KindHWSP                      // run of space/tab
	KindCR                        // bare \r
	KindLF                        // bare \n
	KindCRLF                      // \r\n
	KindBoundary                  // --boundary
	KindFinalBoundary             // --boundary--
)

var kindNames = [...]string{
	KindEOF:           "EOF",
	KindOctetRun:      "OctetRun",
	KindASCIIRun:      "AsciiRun",
	KindColon:         "Colon",
	KindHWSP:          "HwspRun",
	KindCR:            "CR",
	KindLF:            "LF",
	KindCRLF:          "CRLF",
	KindBoundary:      "BoundaryDelimiter",
	KindFinalBoundary: "FinalBoundaryDelimiter",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Token is one lexical element of a multipart body. Value holds the literal
// bytes of the token as they appeared on the wire.
type Token struct {
	Kind  Kind
	Value []byte
}

// Text returns the token value as a string.
func (t Token) Text() string {
	return string(t.Value)
}

// Bytes returns the literal wire bytes of the token.
func (t Token) Bytes() []byte {
	return t.Value
}

// isDelimiter reports whether t is a boundary or final boundary.
func (t Token) isDelimiter() bool {
	return t.Kind == KindBoundary || t.Kind == KindFinalBoundary
}

// String renders the token for error messages.
func (t Token) String() string {
	if t.Kind == KindEOF {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}

// Fixed single-codepoint tokens.
var (
	tokEOF   = Token{Kind: KindEOF}
	tokColon = Token{Kind: KindColon, Value: []byte{':'}}
	tokCR    = Token{Kind: KindCR, Value: []byte{'\r'}}
	tokLF    = Token{Kind: KindLF, Value: []byte{'\n'}}
	tokCRLF  = Token{Kind: KindCRLF, Value: []byte{'\r', '\n'}}
)

// class is the lexical class of a single byte.
type class uint8

const (
	classOctet class = iota
	classColon
	classLF
	classCR
	classHWSP
	classASCII
)

// classify maps a byte to its class. Precedence: colon, LF, CR, HWSP,
// visible ASCII, everything else.
func classify(b byte) class {
	switch {
	case b == ':':
		return classColon
	case b == '\n':
		return classLF
	case b == '\r':
		return classCR
	case b == ' ' || b == '\t':
		return classHWSP
	case b >= 0x21 && b <= 0x7e:
		return classASCII
	default:
		return classOctet
	}
}

// MaxRunLen caps the length of a single run token. Longer runs are split
// into consecutive tokens of the same kind, so bodies without line breaks
// or whitespace are not held in memory whole. Delimiters are far shorter,
// and only an unsplit run is compared against them.
const MaxRunLen = 4096

// Scanner turns the cursor's byte stream into multipart tokens.
// It supports one token of lookahead.
type Scanner struct {
	cur      *Cursor
	boundary string // "--" + boundary
	final    string // "--" + boundary + "--"

	// split is set while the bytes ahead continue a run cut at MaxRunLen.
	split bool

	la    Token
	hasLA bool
}

// NewScanner returns a scanner recognizing delimiters for boundary.
func NewScanner(c *Cursor, boundary string) *Scanner {
	return &Scanner{
		cur:      c,
		boundary: "--" + boundary,
		final:    "--" + boundary + "--",
	}
}

// Cursor returns the underlying byte cursor.
func (s *Scanner) Cursor() *Cursor {
	return s.cur
}

// Lookahead returns the next token without consuming it.
func (s *Scanner) Lookahead() Token {
	if !s.hasLA {
		s.la = s.scan()
		s.hasLA = true
	}
	return s.la
}

// Next consumes and returns the next token.
func (s *Scanner) Next() Token {
	if s.hasLA {
		s.hasLA = false
		return s.la
	}
	return s.scan()
}

func (s *Scanner) scan() Token {
	b, ok := s.cur.Next()
	if !ok {
		return tokEOF
	}
	cont := s.split
	s.split = false

	switch cls := classify(b); cls {
	case classColon:
		return tokColon
	case classLF:
		return tokLF
	case classCR:
		if next, ok := s.cur.Peek(1); ok && next == '\n' {
			s.cur.Next()
			return tokCRLF
		}
		return tokCR
	case classHWSP:
		return Token{Kind: KindHWSP, Value: s.run(b, cls)}
	case classASCII:
		run := s.run(b, cls)
		if !cont && !s.split {
			switch string(run) {
			case s.boundary:
				return Token{Kind: KindBoundary, Value: run}
			case s.final:
				return Token{Kind: KindFinalBoundary, Value: run}
			}
		}
		return Token{Kind: KindASCIIRun, Value: run}
	default:
		return Token{Kind: KindOctetRun, Value: s.run(b, cls)}
	}
}

// run accumulates first plus every following byte of the same class, up to
// MaxRunLen bytes. It sets split when the run goes on past the cap.
func (s *Scanner) run(first byte, cls class) []byte {
	buf := []byte{first}
	for {
		b, ok := s.cur.Peek(1)
		if !ok || classify(b) != cls {
			return buf
		}
		if len(buf) == MaxRunLen {
			s.split = true
			return buf
		}
		s.cur.Next()
		buf = append(buf, b)
	}
}
