package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"module-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(secret string) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(secret))
	r.GET("/secure", func(c *gin.Context) {
		_, hasClaims := c.Get(ClaimsKey)
		c.JSON(http.StatusOK, gin.H{"claims": hasClaims})
	})
	return r
}

func signToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func doGet(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	rec := doGet(newAuthEngine(""), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"claims": false}`, rec.Body.String())
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := newAuthEngine("s3cret")
	rec := doGet(r, "Bearer "+signToken(t, "s3cret", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"claims": true}`, rec.Body.String())
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	r := newAuthEngine("s3cret")

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"wrong secret": "Bearer " + signToken(t, "other", time.Now().Add(time.Hour)),
		"expired":      "Bearer " + signToken(t, "s3cret", time.Now().Add(-time.Hour)),
		"garbage":      "Bearer not.a.token",
	}
	for name, header := range cases {
		rec := doGet(r, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.Contains(t, rec.Body.String(), "auth.unauthorized", name)
	}
}

func TestMetricsMiddleware_CountsRequests(t *testing.T) {
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	reqs := services.GetTotalRequestCount()
	errs := services.GetTotalErrorCount()

	for _, path := range []string{"/ok", "/bad", "/missing"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, reqs+3, services.GetTotalRequestCount())
	assert.Equal(t, errs+2, services.GetTotalErrorCount())
}
