package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"module-keeper/internal/config"
	"module-keeper/internal/models"
	"module-keeper/internal/repository"
	"module-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(secret string) *gin.Engine {
	cfg := &config.AppConfig{}
	cfg.Auth.JWTSecret = secret
	repo := repository.NewMemoryRepository()
	server := services.NewServer(cfg, services.NewModuleManager(repo, services.ModuleOptions{}))
	return NewEngine(cfg, server)
}

func TestNewEngine_PublicAndSecuredRoutes(t *testing.T) {
	r := newEngine("s3cret")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, models.ActionsPath, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, models.ActionsPath, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewEngine_NoSecret(t *testing.T) {
	r := newEngine("")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, models.ActionsPath+"/getInstalledModules", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestCreateListeners(t *testing.T) {
	dir, err := os.MkdirTemp("", "mk")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	sock := filepath.Join(dir, "run", "keeper.sock")
	require.NoError(t, os.MkdirAll(filepath.Dir(sock), 0755))
	require.NoError(t, os.WriteFile(sock, nil, 0o600), "stale socket file is replaced")

	listeners, err := CreateListeners([]ListenAddr{
		{Network: "tcp", Address: "127.0.0.1:0"},
		{Network: "unix", Address: sock},
	})
	require.NoError(t, err)
	require.Len(t, listeners, 2)
	for _, l := range listeners {
		l.Close()
	}
}

func TestCreateListeners_PartialFailure(t *testing.T) {
	listeners, err := CreateListeners([]ListenAddr{
		{Network: "tcp", Address: "127.0.0.1:0"},
		{Network: "tcp", Address: "not-an-address"},
	})
	assert.Error(t, err)
	require.Len(t, listeners, 1)
	listeners[0].Close()
}

func TestListenAddrs(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Server.Address = ":8080"
	assert.Equal(t, []ListenAddr{{Network: "tcp", Address: ":8080"}}, listenAddrs(cfg))

	cfg.Server.Socket = "/tmp/keeper.sock"
	addrs := listenAddrs(cfg)
	require.Len(t, addrs, 2)
	assert.Equal(t, ListenAddr{Network: "unix", Address: "/tmp/keeper.sock"}, addrs[1])
}
