package middleware

import (
	"errors"
	"net/http"
	"strings"

	"rakshak-service/helper"
	"rakshak-service/internal/user"
	"rakshak-service/pkg/constants"

	"github.com/gin-gonic/gin"
)

type TokenParser interface {
	Parse(token string) (*user.Claims, error)
}

// Secured requires a valid bearer token and stores its claims and role on
// the context.
func Secured(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			helper.SendError(c, http.StatusUnauthorized, errors.New("authorization header required"), helper.ErrUnauthorized)
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			helper.SendError(c, http.StatusUnauthorized, errors.New("invalid authorization header format"), helper.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			helper.SendError(c, http.StatusUnauthorized, err, helper.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(constants.Token, tokenString)
		c.Set(constants.Claims, claims)
		c.Set(constants.UserRole, claims.Role)
		c.Next()
	}
}

// RequireRole must run after Secured.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(constants.UserRole)
		if _, ok := allowed[role]; !ok {
			helper.SendError(c, http.StatusForbidden, errors.New("insufficient role"), helper.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
