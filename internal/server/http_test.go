package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

func TestNewHTTPServer(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("test", "1.0.0")

	_, err := NewHTTPServer(nil, HTTPServerConfig{})
	assert.Error(t, err)

	_, err = NewHTTPServer(mcpSrv, HTTPServerConfig{TLSCertFile: "cert.pem"})
	assert.ErrorContains(t, err, "both TLS certificate and key")

	srv, err := NewHTTPServer(mcpSrv, HTTPServerConfig{TLSCertFile: "cert.pem", TLSKeyFile: "key.pem"})
	require.NoError(t, err)
	assert.NotNil(t, srv)
}

func TestHTTPServer_Handler(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))

	srv, err := NewHTTPServer(mcpSrv, HTTPServerConfig{})
	require.NoError(t, err)
	srv.SetHealthChecker(NewHealthChecker(nil))
	srv.SetMetrics(newProvider(t, "prometheus", true).Metrics())

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	initialize := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`
	req, err := http.NewRequest(http.MethodPost, ts.URL+DefaultMCPEndpoint, strings.NewReader(initialize))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/unknown")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	sr.WriteHeader(http.StatusTeapot)
	sr.Flush()

	assert.Equal(t, http.StatusTeapot, sr.status)
	assert.True(t, rec.Flushed)
}
