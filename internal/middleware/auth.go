package middleware

import (
	"net/http"
	"strings"

	"module-keeper/internal/logger"
	"module-keeper/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ClaimsKey is the gin context key holding the verified token claims
const ClaimsKey = "auth.claims"

/**
 * Bearer token middleware for the admin API
 * @param {string} secret - HS256 signing secret, empty disables the check
 * @returns {gin.HandlerFunc} Middleware answering 401 on a missing, malformed or expired token
 */
func AuthMiddleware(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) { c.Next() }
	}
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			logger.Debugf("Rejected token from %s: %v", c.ClientIP(), err)
			abortUnauthorized(c, "invalid bearer token")
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, &models.ErrorResponse{
		Code:  "auth.unauthorized",
		Error: msg,
	})
}
