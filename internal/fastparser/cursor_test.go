package fastparser

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func drain(c *Cursor) []byte {
	var out []byte
	for {
		b, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, b)
	}
}

func TestCursor_NextAllWindowSizes(t *testing.T) {
	data := []byte("--XYZ\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\nHello\r\n--XYZ--\r\n")
	for size := 1; size <= len(data)+1; size++ {
		c := NewCursor(bytes.NewReader(data), int64(len(data)), size)
		got := drain(c)
		if !bytes.Equal(got, data) {
			t.Fatalf("size %d: got %q, want %q", size, got, data)
		}
		if c.Consumed() != int64(len(data)) {
			t.Errorf("size %d: Consumed() = %d, want %d", size, c.Consumed(), len(data))
		}
	}
}

// Peek must agree with Next no matter where a refill boundary falls.
func TestCursor_PeekAcrossRefill(t *testing.T) {
	data := []byte("abcdefghijklmnopqrstuvwxyz")
	for size := 1; size <= 8; size++ {
		for k := 1; k <= 5; k++ {
			c := NewCursor(bytes.NewReader(data), int64(len(data)), size)
			for i := 0; i < len(data); i++ {
				want, wantOK := byte(0), false
				if i+k-1 < len(data) {
					want, wantOK = data[i+k-1], true
				}
				got, ok := c.Peek(k)
				if ok != wantOK || got != want {
					t.Fatalf("size %d, pos %d: Peek(%d) = %q,%v want %q,%v", size, i, k, got, ok, want, wantOK)
				}
				if b, _ := c.Next(); b != data[i] {
					t.Fatalf("size %d, pos %d: Next() = %q, want %q", size, i, b, data[i])
				}
			}
		}
	}
}

func TestCursor_PeekDoesNotConsume(t *testing.T) {
	c := NewCursor(strings.NewReader("xy"), 2, 1)
	c.Peek(1)
	c.Peek(2)
	if c.Consumed() != 0 {
		t.Fatalf("Consumed() = %d after Peek, want 0", c.Consumed())
	}
	if _, ok := c.Peek(3); ok {
		t.Error("Peek(3) past end should report false")
	}
	if _, ok := c.Peek(0); ok {
		t.Error("Peek(0) should report false")
	}
}

func TestCursor_DeclaredLengthBound(t *testing.T) {
	c := NewCursor(strings.NewReader("hello, trailing garbage"), 5, 64)
	got := drain(c)
	if string(got) != "hello" {
		t.Fatalf("got %q, want hello", got)
	}
	if c.Err() != nil {
		t.Errorf("Err() = %v, want nil", c.Err())
	}
}

func TestCursor_ShortSource(t *testing.T) {
	c := NewCursor(strings.NewReader("abc"), 10, 4)
	got := drain(c)
	if string(got) != "abc" {
		t.Fatalf("got %q, want abc", got)
	}
	if !errors.Is(c.Err(), io.ErrUnexpectedEOF) {
		t.Errorf("Err() = %v, want io.ErrUnexpectedEOF", c.Err())
	}
}

func TestCursor_ReadError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCursor(iotest.ErrReader(boom), 10, 4)
	if _, ok := c.Next(); ok {
		t.Fatal("Next() should report end of input on read error")
	}
	if !errors.Is(c.Err(), boom) {
		t.Errorf("Err() = %v, want boom", c.Err())
	}
}

func TestCursor_OneByteReader(t *testing.T) {
	data := "one byte at a time"
	c := NewCursor(iotest.OneByteReader(strings.NewReader(data)), int64(len(data)), 8)
	if got := drain(c); string(got) != data {
		t.Fatalf("got %q, want %q", got, data)
	}
}
