package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_UTF8(t *testing.T) {
	cs, err := Lookup("UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", cs.Name())
	assert.Equal(t, "héllo", cs.Decode([]byte("héllo")))
}

func TestLookup_Empty(t *testing.T) {
	cs, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, Default, cs.Name())
}

func TestDecode_InvalidUTF8IsReplaced(t *testing.T) {
	assert.Equal(t, "a�b", UTF8.Decode([]byte{'a', 0xff, 'b'}))
}

func TestLookup_Latin1(t *testing.T) {
	cs, err := Lookup("ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "café", cs.Decode([]byte{'c', 'a', 'f', 0xe9}))
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("no-such-charset")
	assert.Error(t, err)
}
