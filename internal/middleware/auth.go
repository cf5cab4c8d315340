package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shortkey/internal/jwt"
	"shortkey/internal/repository"
)

// UserIDKey is the gin context key holding the authenticated caller's id.
const UserIDKey = "user_id"

// Identity extracts a bearer credential and, when valid, attaches the caller's
// user id to the request context. It never rejects the request itself; whether
// an identity is required is each handler's decision. OPTIONS requests are
// always passed through untouched.
//
// Two credential shapes are accepted: a JWT, and a minted API token (UUID).
func Identity(jwtService *jwt.Service, tokens repository.TokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if raw, ok := strings.CutPrefix(header, "Bearer "); ok && raw != "" {
			if claims, err := jwtService.ValidateToken(raw); err == nil {
				c.Set(UserIDKey, claims.UserID)
			} else if tokenID, err := uuid.Parse(raw); err == nil {
				if userID, err := tokens.Authenticate(c.Request.Context(), tokenID); err == nil {
					c.Set(UserIDKey, userID)
				}
			}
		}

		c.Next()
	}
}

// CallerID returns the authenticated user id set by Identity, if any.
func CallerID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}
