package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestParseError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", IllegalToken(stringer(`Colon(":")`)))
	assert.True(t, errors.Is(err, ErrIllegalToken))
	assert.False(t, errors.Is(err, ErrProtocolViolation))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, `Colon(":")`, pe.Token)
}

func TestParseError_Message(t *testing.T) {
	assert.Equal(t, "formdata: unsupported feature: Content-Transfer-Encoding",
		Unsupported("Content-Transfer-Encoding").Error())
	assert.Equal(t, "formdata: protocol violation: missing name",
		Violation("missing name").Error())

	err := At(UnexpectedEnd("inside part body"), 42)
	assert.Equal(t, "formdata: unexpected end of input: inside part body (at byte 42)", err.Error())
}

func TestAt_KeepsFirstOffset(t *testing.T) {
	err := At(At(Violation("x"), 10), 20)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, int64(10), pe.Offset)

	plain := At(io.ErrClosedPipe, 5)
	assert.Same(t, io.ErrClosedPipe, plain)
}

func TestKindName(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{IllegalText("x"), "illegal_token"},
		{Unsupported("f"), "unsupported_feature"},
		{Violation("v"), "protocol_violation"},
		{UnexpectedEnd("e"), "unexpected_end"},
		{io.ErrUnexpectedEOF, "io"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindName(tt.err))
	}
}
