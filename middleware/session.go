package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// UserTokenKey is the context key the booking handlers read the caller
// identity from.
const UserTokenKey = "userToken"

// SessionTokenMiddleware extracts the caller-supplied identity token and
// attaches it as an opaque value. Verification happens upstream; the booking
// engine only binds the token to the booking.
func SessionTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			c.Set(UserTokenKey, strings.TrimPrefix(authHeader, "Bearer "))
		}
		c.Next()
	}
}
