package middleware_test

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusukebe/url-shortener/internal/middleware"
	testmiddleware "github.com/yusukebe/url-shortener/pkg/testing/middleware"
)

func helloHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("hello, world")) // nolint: errcheck
}

func TestResponseCompressedForGzipClients(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://shortener.local/", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	rec := testmiddleware.RequestWithMiddleware(helloHandler, middleware.GzipSupport, req)

	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	gzReader, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	defer gzReader.Close()
	body, err := io.ReadAll(gzReader)
	require.NoError(t, err)
	assert.Equal(t, "hello, world", string(body))
}

func TestResponseLeftPlainForOtherClients(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://shortener.local/", nil)
	rec := testmiddleware.RequestWithMiddleware(helloHandler, middleware.GzipSupport, req)

	assert.Equal(t, "", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "hello, world", rec.Body.String())
}
