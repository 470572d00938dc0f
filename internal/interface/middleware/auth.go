package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/campus-connect/pkg/helpers"
	"github.com/oksasatya/campus-connect/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth validates the bearer token and injects the account id into the Gin
// context under CtxUserIDKey.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerTokenFromHeader(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			if errors.Is(err, helpers.ErrTokenExpired) {
				response.Error(c, http.StatusUnauthorized, "Token expired", nil)
				return
			}
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
