package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/shapestone/shape-formdata/internal/report"
	"github.com/shapestone/shape-formdata/pkg/formdata"
)

const body = "--XYZ\r\n" +
	"Content-Disposition: form-data; name=\"title\"\r\n" +
	"\r\n" +
	"hello\r\n" +
	"--XYZ\r\n" +
	"Content-Disposition: form-data; name=\"doc\"; filename=\"a.bin\"\r\n" +
	"Content-Type: application/octet-stream\r\n" +
	"\r\n" +
	"\x00\x01\x02\r\n" +
	"--XYZ--\r\n"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{
		Addr:    "127.0.0.1:0",
		Options: []formdata.Option{formdata.WithTempDir(t.TempDir())},
	})
}

func post(s *Server, target, contentType, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(payload))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestDecode_JSON(t *testing.T) {
	s := newTestServer(t)
	w := post(s, "/decode", "multipart/form-data; boundary=XYZ", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got report.Form
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Parts, 2)
	assert.Equal(t, "hello", got.Parts[0].Value)
	assert.True(t, got.Parts[1].IsFile)
	assert.Equal(t, int64(3), got.Parts[1].Size)
	assert.Equal(t, "application/octet-stream", got.Parts[1].ContentType)
}

func TestDecode_Msgpack(t *testing.T) {
	s := newTestServer(t)
	w := post(s, "/decode?format=msgpack", "multipart/form-data; boundary=XYZ", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/msgpack", w.Header().Get("Content-Type"))

	var got report.Form
	require.NoError(t, msgpack.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Parts, 2)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		payload     string
		status      int
		kind        string
	}{
		{"bad format", "/decode?format=xml", "multipart/form-data; boundary=XYZ", body, http.StatusBadRequest, ""},
		{"not multipart", "/decode", "application/json", "{}", http.StatusUnsupportedMediaType, ""},
		{"no content type", "/decode", "", body, http.StatusUnsupportedMediaType, ""},
		{"no boundary", "/decode", "multipart/form-data", body, http.StatusBadRequest, ""},
		{"truncated", "/decode", "multipart/form-data; boundary=XYZ", body[:40], http.StatusBadRequest, "unexpected end of input"},
		{"missing name", "/decode", "multipart/form-data; boundary=XYZ",
			"--XYZ\r\nContent-Disposition: form-data\r\n\r\nx\r\n--XYZ--", http.StatusBadRequest, "protocol violation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			w := post(s, tt.target, tt.contentType, tt.payload)
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.kind, resp.Kind)
		})
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newTestServer(t)
	post(s, "/decode", "multipart/form-data; boundary=XYZ", body)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "formdata_parts_total")
}

func TestServe_Shutdown(t *testing.T) {
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok\n", string(b))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
