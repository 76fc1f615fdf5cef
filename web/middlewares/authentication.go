package middlewares

import (
	"net/http"
	"strings"

	"axiapac.com/timesheets/security"
	"axiapac.com/timesheets/web/common"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Authentication checks for a valid Bearer token, falling back to the
// application cookie, and stores the identity claims on the context.
func Authentication(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			cookie, err := c.Cookie("timesheets.ApplicationCookie")
			if err != nil {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			tokenStr = cookie
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			tokenStr = parts[1]
		}

		claims, err := security.ParseIdentityToken(tokenStr, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// Identity returns the claims stored by Authentication, nil when absent.
func Identity(c *gin.Context) *security.IdentityClaims {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*security.IdentityClaims)
	if !ok {
		return nil
	}
	return claims
}
