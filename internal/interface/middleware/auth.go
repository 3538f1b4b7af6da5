package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
	"github.com/oksasatya/go-ddd-realworld/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxTokenKey  = "token"
)

// RequireAuth rejects requests without a valid token and a live session.
// It sets userID (int64) and token in the Gin context on success.
func RequireAuth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return authenticate(rdb, jwt, true)
}

// OptionalAuth lets anonymous requests through but still rejects a token
// that is present and invalid.
func OptionalAuth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return authenticate(rdb, jwt, false)
}

func authenticate(rdb *redis.Client, jwt *helpers.JWTManager, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			if required {
				response.Error(c, http.StatusUnauthorized, "missing authorization token")
				return
			}
			c.Next()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid authorization token")
			return
		}

		// The session hash in Redis pins the token to its login
		if rdb != nil {
			key := helpers.SessionKey(strconv.FormatInt(claims.UserID, 10))
			sid, err := rdb.HGet(c.Request.Context(), key, "sid").Result()
			if err != nil || sid != claims.SessionID {
				response.Error(c, http.StatusUnauthorized, "session not found")
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxTokenKey, token)
		c.Next()
	}
}

// tokenFromHeader accepts "Token <jwt>" and "Bearer <jwt>".
func tokenFromHeader(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok {
		return ""
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserID returns the authenticated user's ID, or 0 for anonymous requests.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}

func Token(c *gin.Context) string {
	return c.GetString(CtxTokenKey)
}
