package formdata

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleBody = "--XYZ\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\nHello\r\n--XYZ--\r\n"

const mixedBody = "--XYZ\r\n" +
	"Content-Disposition: form-data; name=\"title\"\r\n\r\n" +
	"Hello\r\n" +
	"--XYZ\r\n" +
	"Content-Disposition: form-data; name=\"tag\"\r\n\r\n" +
	"one\r\n" +
	"--XYZ\r\n" +
	"Content-Disposition: form-data; name=\"upload\"; filename=\"notes.txt\"\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
	"file line 1\r\nfile line 2\r\n" +
	"--XYZ\r\n" +
	"Content-Disposition: form-data; name=\"tag\"\r\n\r\n" +
	"two\r\n" +
	"--XYZ--\r\n"

func decodeString(t *testing.T, body string, opts ...Option) (*Form, error) {
	t.Helper()
	opts = append([]Option{WithTempDir(t.TempDir())}, opts...)
	return NewDecoder(strings.NewReader(body), int64(len(body)), "XYZ", opts...).Decode()
}

func TestDecode_EndToEnd(t *testing.T) {
	form, err := decodeString(t, simpleBody)
	require.NoError(t, err)
	defer form.Close()

	require.Len(t, form.Parts, 1)
	p := form.Parts[0]
	assert.Equal(t, "title", p.Name())
	assert.Equal(t, "", p.Filename())
	assert.False(t, p.IsFile())
	assert.Equal(t, []byte("Hello"), p.Bytes())
	assert.Equal(t, "Hello", p.Text())
	assert.Equal(t, "", p.Path())
	assert.Equal(t, int64(5), p.Size())
}

func TestDecode_MixedForm(t *testing.T) {
	form, err := decodeString(t, mixedBody, WithBufferSize(5))
	require.NoError(t, err)
	defer form.Close()

	assert.Equal(t, []string{"title", "tag", "upload"}, form.Names())
	assert.Equal(t, "Hello", form.Value("title"))
	assert.Equal(t, []string{"one", "two"}, form.Values("tag"))
	assert.Len(t, form.Lookup("tag"), 2)
	assert.Equal(t, "", form.Value("upload"))
	assert.Equal(t, "", form.Value("missing"))

	files := form.Files("upload")
	require.Len(t, files, 1)
	f := files[0]
	assert.True(t, f.IsFile())
	assert.Equal(t, "notes.txt", f.Filename())
	assert.Nil(t, f.Bytes())
	require.NotEmpty(t, f.Path())
	assert.Equal(t, "text/plain", f.MIMEType())
	assert.Equal(t, "utf-8", f.ContentType().Param("charset"))
	assert.Equal(t, "text/plain; charset=utf-8", f.Header("content-type"))

	rc, err := f.Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "file line 1\r\nfile line 2", string(data))
	assert.Equal(t, int64(len(data)), f.Size())

	require.NoError(t, form.Close())
	_, err = os.Stat(f.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.NoError(t, form.Close())
}

func TestDecoder_NextAndClose(t *testing.T) {
	dec := NewDecoder(strings.NewReader(mixedBody), int64(len(mixedBody)), "XYZ", WithTempDir(t.TempDir()))

	var names []string
	var spooled string
	for {
		p, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, p.Name())
		if p.IsFile() {
			spooled = p.Path()
		}
	}
	assert.Equal(t, []string{"title", "tag", "upload", "tag"}, names)

	_, err := dec.Next()
	assert.Equal(t, io.EOF, err)

	require.FileExists(t, spooled)
	require.NoError(t, dec.Close())
	assert.NoFileExists(t, spooled)
	assert.NoError(t, dec.Close())

	_, err = dec.Next()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDecode_ErrorRemovesSpoolFiles(t *testing.T) {
	dir := t.TempDir()
	body := "--XYZ\r\nContent-Disposition: form-data; name=f; filename=a.bin\r\n\r\nabc\r\n" +
		"--XYZ\r\nContent-Type: text/plain\r\n\r\nno disposition\r\n--XYZ--"

	_, err := NewDecoder(strings.NewReader(body), int64(len(body)), "XYZ", WithTempDir(dir)).Decode()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocolViolation)
	assert.True(t, IsParseError(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"missing disposition", "--XYZ\r\nContent-Type: text/plain\r\n\r\nv\r\n--XYZ--", ErrProtocolViolation},
		{"truncated", "--XYZ\r\nContent-Disposition: form-data; name=a\r\n\r\nHel", ErrUnexpectedEnd},
		{"transfer encoding", "--XYZ\r\nContent-Disposition: form-data; name=a\r\nContent-Transfer-Encoding: base64\r\n\r\nv\r\n--XYZ--", ErrUnsupportedFeature},
		{"blank fold", "--XYZ\r\nContent-Disposition: form-data; name=a\r\n \r\n\r\nv\r\n--XYZ--", ErrIllegalToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeString(t, tt.body)
			assert.ErrorIs(t, err, tt.want)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Greater(t, pe.Offset, int64(0))
		})
	}
}

func TestNewDecoder_ArgumentErrors(t *testing.T) {
	_, err := NewDecoder(strings.NewReader(simpleBody), int64(len(simpleBody)), "", WithTempDir(t.TempDir())).Decode()
	assert.ErrorIs(t, err, ErrInvalidBoundary)

	_, err = NewDecoder(strings.NewReader(simpleBody), int64(len(simpleBody)), "a:b").Decode()
	assert.ErrorIs(t, err, ErrInvalidBoundary)

	_, err = NewDecoder(strings.NewReader(simpleBody), int64(len(simpleBody)), strings.Repeat("x", 71)).Decode()
	assert.ErrorIs(t, err, ErrInvalidBoundary)

	_, err = NewDecoder(strings.NewReader(simpleBody), int64(len(simpleBody)), "XYZ", WithMaxLength(10)).Decode()
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = NewDecoder(strings.NewReader(simpleBody), int64(len(simpleBody)), "XYZ", WithCharset("no-such-charset")).Decode()
	assert.Error(t, err)
}

func TestDecode_Latin1Charset(t *testing.T) {
	body := "--XYZ\r\nContent-Disposition: form-data; name=\"caf\xe9\"\r\n\r\nna\xefve\r\n--XYZ--"
	form, err := decodeString(t, body, WithCharset("iso-8859-1"))
	require.NoError(t, err)
	defer form.Close()

	assert.Equal(t, "naïve", form.Value("café"))
}

func TestDecode_InvalidUTF8Replaced(t *testing.T) {
	body := "--XYZ\r\nContent-Disposition: form-data; name=a\r\n\r\nx\xffy\r\n--XYZ--"
	form, err := decodeString(t, body)
	require.NoError(t, err)
	defer form.Close()

	assert.Equal(t, "x�y", form.Value("a"))
	assert.Equal(t, []byte("x\xffy"), form.Parts[0].Bytes())
}

func TestDecode_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	form, err := decodeString(t, mixedBody, WithMetrics(m))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	_, err = decodeString(t, "--XYZ\r\nX: y\r\n\r\nv\r\n--XYZ--", WithMetrics(m))
	require.Error(t, err)

	// One series per part kind, one per error kind.
	count, err := testutil.GatherAndCount(reg, "formdata_parts_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "formdata_decode_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestScan_AlwaysCleansUp(t *testing.T) {
	dir := t.TempDir()
	var path string
	sentinel := errors.New("handler failed")

	err := Scan(strings.NewReader(mixedBody), int64(len(mixedBody)), "XYZ", func(f *Form) error {
		path = f.Files("upload")[0].Path()
		assert.FileExists(t, path)
		return sentinel
	}, WithTempDir(dir))

	assert.ErrorIs(t, err, sentinel)
	assert.NoFileExists(t, path)
}

func TestScan_DecodeError(t *testing.T) {
	called := false
	err := Scan(bytes.NewReader(nil), 0, "XYZ", func(*Form) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrUnexpectedEnd)
	assert.False(t, called)
}
