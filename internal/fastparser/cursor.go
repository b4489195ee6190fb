package fastparser

import (
	"errors"
	"io"
)

// DefaultWindowSize is the cursor window used when none is configured.
const DefaultWindowSize = 64 * 1024

// Cursor is a buffered byte reader over a source of declared length.
//
// Bytes are served from two segments: carry, the unconsumed tail of the
// previous window, and win, the current window. A refill happens only when a
// Next or Peek request runs past the buffered bytes; the unconsumed tail is
// moved into carry first, so lookahead that straddles a refill sees the same
// bytes Next later returns.
type Cursor struct {
	src       io.Reader
	remaining int64 // bytes of the declared length not yet read from src
	consumed  int64 // bytes returned by Next
	size      int

	carry []byte
	win   []byte
	pos   int // logical position over carry+win

	eof bool
	err error
}

// NewCursor returns a cursor that reads at most length bytes from r.
// A size <= 0 selects DefaultWindowSize.
func NewCursor(r io.Reader, length int64, size int) *Cursor {
	if size <= 0 {
		size = DefaultWindowSize
	}
	if length < 0 {
		length = 0
	}
	return &Cursor{src: r, remaining: length, size: size}
}

// Next consumes and returns the next byte. It returns false at end of input.
func (c *Cursor) Next() (byte, bool) {
	b, ok := c.at(0)
	if ok {
		c.pos++
		c.consumed++
	}
	return b, ok
}

// Peek returns the byte k positions ahead without consuming it; Peek(1) is
// the byte Next would return. It returns false when the input ends first.
func (c *Cursor) Peek(k int) (byte, bool) {
	if k < 1 {
		return 0, false
	}
	return c.at(k - 1)
}

// Consumed returns the number of bytes returned by Next so far.
func (c *Cursor) Consumed() int64 {
	return c.consumed
}

// Err returns the first read error of the source other than io.EOF. A source
// that ends before the declared length is reported as io.ErrUnexpectedEOF.
func (c *Cursor) Err() error {
	return c.err
}

// at returns the byte at offset off from the current position, refilling
// until it is buffered or the input ends.
func (c *Cursor) at(off int) (byte, bool) {
	for c.pos+off >= c.buffered() {
		if !c.fill() {
			return 0, false
		}
	}
	i := c.pos + off
	if i < len(c.carry) {
		return c.carry[i], true
	}
	return c.win[i-len(c.carry)], true
}

func (c *Cursor) buffered() int {
	return len(c.carry) + len(c.win)
}

// fill reads the next window. It reports whether any bytes were added.
func (c *Cursor) fill() bool {
	if c.eof {
		return false
	}
	if c.remaining == 0 {
		c.eof = true
		return false
	}

	// Keep everything not yet consumed; it becomes the carry segment.
	var tail []byte
	if c.pos < len(c.carry) {
		tail = append(tail, c.carry[c.pos:]...)
		tail = append(tail, c.win...)
	} else {
		tail = append(tail, c.win[c.pos-len(c.carry):]...)
	}
	c.carry = tail
	c.pos = 0

	n := int64(c.size)
	if n > c.remaining {
		n = c.remaining
	}
	win := make([]byte, n)
	read, err := io.ReadAtLeast(c.src, win, 1)
	c.win = win[:read]
	c.remaining -= int64(read)
	if err != nil {
		c.eof = true
		switch {
		case errors.Is(err, io.EOF):
			c.err = io.ErrUnexpectedEOF
		default:
			c.err = err
		}
	}
	return read > 0
}
