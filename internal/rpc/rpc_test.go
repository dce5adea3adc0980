package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"module-keeper/internal/config"
	"module-keeper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	u, err := buildURL("http://localhost", "/backend/module/api/v1/actions", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/backend/module/api/v1/actions", u)

	u, err = buildURL("http://localhost/base/", "status", map[string]interface{}{"id": "x", "all": true})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/base/status?all=true&id=x", u)

	u, err = buildURL("http://ignored", "http://admin.local:8021/call", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://admin.local:8021/call", u)
}

func TestServerHTTPConfig(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Server.Address = ":9090"
	c := ServerHTTPConfig(cfg)
	assert.Equal(t, "tcp", c.Network)
	assert.Equal(t, "127.0.0.1:9090", c.Address)
	assert.Equal(t, "http://127.0.0.1:9090", c.BaseURL)

	sock := filepath.Join(t.TempDir(), "keeper.sock")
	require.NoError(t, os.WriteFile(sock, nil, 0o600))
	cfg.Server.Socket = sock
	c = ServerHTTPConfig(cfg)
	assert.Equal(t, "unix", c.Network)
	assert.Equal(t, sock, c.Address)
}

func TestModuleClient_Call(t *testing.T) {
	var got models.RequestParams
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/call":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &got)
			w.Write([]byte(`{"queued":true}`))
		case "/status":
			w.Write([]byte(`{"working":false}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	urls := models.RemoteUrls{Call: srv.URL + "/call", Status: srv.URL + "/status"}
	mc := NewModuleClient(nil)

	reply, err := mc.Call(urls, models.RequestParams{Method: "require", Name: "modera/foo-module", Version: "1.0"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"queued":true}`, string(reply))
	assert.Equal(t, models.RequestParams{Method: "require", Name: "modera/foo-module", Version: "1.0"}, got)

	reply, err = mc.Status(urls)
	require.NoError(t, err)
	assert.JSONEq(t, `{"working":false}`, string(reply))
}

func TestModuleClient_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("busy"))
	}))
	defer srv.Close()

	_, err := NewModuleClient(nil).Call(models.RemoteUrls{Call: srv.URL + "/call"}, models.RequestParams{Method: "remove"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.Contains(t, err.Error(), "busy")
}

func TestActionClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case models.ActionsPath:
			w.Write([]byte(`["check","require"]`))
		case models.ActionsPath + "/check":
			w.Write([]byte(`{"success":true,"updated_models":{"m":["x"]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":"action.not_found","error":"action not found"}`))
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(&HTTPConfig{Network: "tcp", BaseURL: srv.URL, Token: "secret-token"})
	defer client.Close()
	ac := NewActionClient(client)

	names, err := ac.Actions()
	require.NoError(t, err)
	assert.Equal(t, []string{"check", "require"}, names)

	var check models.CheckResponse
	require.NoError(t, ac.Call("check", models.ModuleParams{ID: "x"}, &check))
	assert.True(t, check.Success)
	assert.Equal(t, []string{"x"}, check.UpdatedModels["m"])

	err = ac.Call("bogus", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "action.not_found", apiErr.Code)
}

func TestHTTPClient_UnixSocket(t *testing.T) {
	dir, err := os.MkdirTemp("", "mk")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	sock := filepath.Join(dir, "k.sock")

	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["ok"]`))
	})}
	go srv.Serve(ln)
	defer srv.Close()

	client := NewHTTPClient(&HTTPConfig{Network: "unix", Address: sock, BaseURL: "http://localhost"})
	defer client.Close()

	names, err := NewActionClient(client).Actions()
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, names)
}
