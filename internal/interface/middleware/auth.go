package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/placora/places-api/pkg/helpers"
	"github.com/placora/places-api/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// Auth extracts and verifies the bearer token from the Authorization
// header and injects the authenticated user id into the Gin context.
// It guards the mutating place routes; the read-only endpoints stay open.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, http.StatusUnauthorized, "authentication failed")
			return
		}
		claims, err := jwt.Verify(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "the token is invalid")
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}

// bearerToken parses "Bearer <token>". The scheme match is
// case-insensitive and exactly one space-separated token must follow.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
