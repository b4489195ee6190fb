package fastparser

import (
	"strings"
	"testing"
)

func scanAll(input, boundary string, window int) []Token {
	c := NewCursor(strings.NewReader(input), int64(len(input)), window)
	s := NewScanner(c, boundary)
	var toks []Token
	for {
		t := s.Next()
		toks = append(toks, t)
		if t.Kind == KindEOF {
			return toks
		}
	}
}

func formatTokens(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func TestScanner_TokenStream(t *testing.T) {
	input := "--XYZ\r\nContent-Type: text/plain\r\n\r\nh\xc3\xa9\tx\ry\n--XYZ--"
	want := `BoundaryDelimiter("--XYZ") CRLF("\r\n") AsciiRun("Content-Type") Colon(":") HwspRun(" ") ` +
		`AsciiRun("text/plain") CRLF("\r\n") CRLF("\r\n") AsciiRun("h") OctetRun("é") HwspRun("\t") ` +
		`AsciiRun("x") CR("\r") AsciiRun("y") LF("\n") FinalBoundaryDelimiter("--XYZ--") EOF`

	for _, window := range []int{1, 2, 3, 64} {
		got := formatTokens(scanAll(input, "XYZ", window))
		if got != want {
			t.Errorf("window %d:\n got %s\nwant %s", window, got, want)
		}
	}
}

func TestScanner_BoundaryExactness(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"--boundary", KindBoundary},
		{"--boundary--", KindFinalBoundary},
		{"xx--boundaryxx", KindASCIIRun},
		{"--boundaryxx", KindASCIIRun},
		{"--boundary---", KindASCIIRun},
		{"-boundary", KindASCIIRun},
		{"--BOUNDARY", KindASCIIRun},
	}
	for _, tt := range tests {
		toks := scanAll(tt.input, "boundary", 4)
		if len(toks) != 2 || toks[0].Kind != tt.want {
			t.Errorf("%q: got %s, want %s", tt.input, formatTokens(toks), tt.want)
		}
		if toks[0].Text() != tt.input {
			t.Errorf("%q: value %q not preserved", tt.input, toks[0].Text())
		}
	}
}

func TestScanner_LongRunsAreSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
	}{
		{"ascii", strings.Repeat("a", 3*MaxRunLen+5), KindASCIIRun},
		{"octets", strings.Repeat("\xff", 2*MaxRunLen+1), KindOctetRun},
		{"whitespace", strings.Repeat(" ", MaxRunLen+1), KindHWSP},
		{"exact cap", strings.Repeat("a", MaxRunLen), KindASCIIRun},
	}
	for _, tt := range tests {
		toks := scanAll(tt.input, "XYZ", 1000)
		var joined strings.Builder
		for _, tok := range toks[:len(toks)-1] {
			if tok.Kind != tt.kind {
				t.Fatalf("%s: got %s, want only %s", tt.name, tok.Kind, tt.kind)
			}
			if len(tok.Value) > MaxRunLen {
				t.Errorf("%s: token of %d bytes exceeds cap", tt.name, len(tok.Value))
			}
			joined.Write(tok.Value)
		}
		if joined.String() != tt.input {
			t.Errorf("%s: bytes not preserved", tt.name)
		}
		if want := (len(tt.input) + MaxRunLen - 1) / MaxRunLen; len(toks)-1 != want {
			t.Errorf("%s: got %d run tokens, want %d", tt.name, len(toks)-1, want)
		}
	}
}

func TestScanner_SplitRunTailIsNotDelimiter(t *testing.T) {
	input := strings.Repeat("a", MaxRunLen) + "--XYZ\r\n--XYZ"
	toks := scanAll(input, "XYZ", 64)
	want := `AsciiRun("--XYZ") CRLF("\r\n") BoundaryDelimiter("--XYZ") EOF`
	if got := formatTokens(toks[1:]); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestScanner_Lookahead(t *testing.T) {
	c := NewCursor(strings.NewReader("a:b"), 3, 1)
	s := NewScanner(c, "XYZ")

	if la := s.Lookahead(); la.Kind != KindASCIIRun || la.Text() != "a" {
		t.Fatalf("Lookahead() = %s", la)
	}
	if la := s.Lookahead(); la.Text() != "a" {
		t.Fatalf("second Lookahead() = %s", la)
	}
	if tok := s.Next(); tok.Text() != "a" {
		t.Fatalf("Next() = %s, want a", tok)
	}
	if tok := s.Next(); tok.Kind != KindColon {
		t.Fatalf("Next() = %s, want Colon", tok)
	}
	if tok := s.Next(); tok.Text() != "b" {
		t.Fatalf("Next() = %s, want b", tok)
	}
	if tok := s.Next(); tok.Kind != KindEOF {
		t.Fatalf("Next() = %s, want EOF", tok)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		b    byte
		want class
	}{
		{':', classColon},
		{'\n', classLF},
		{'\r', classCR},
		{' ', classHWSP},
		{'\t', classHWSP},
		{'!', classASCII},
		{'~', classASCII},
		{0x7f, classOctet},
		{0x00, classOctet},
		{0xff, classOctet},
	}
	for _, tt := range tests {
		if got := classify(tt.b); got != tt.want {
			t.Errorf("classify(%#x) = %d, want %d", tt.b, got, tt.want)
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindHWSP.String() != "HwspRun" {
		t.Errorf("KindHWSP.String() = %q", KindHWSP.String())
	}
	if Kind(99).String() != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", Kind(99).String())
	}
}
