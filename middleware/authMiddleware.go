package middleware

import (
	"net/http"
	"strings"

	"github.com/balamurugesan03/Kotbilling/helpers"
	"github.com/gin-gonic/gin"
)

// Authentication validates the caller's JWT and stores the claims on the
// request context. Tokens are accepted from the "token" header or a Bearer
// Authorization header.
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientToken := c.Request.Header.Get("token")
		if clientToken == "" {
			auth := c.Request.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				clientToken = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if clientToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no authentication token provided"})
			c.Abort()
			return
		}

		claims, err := helpers.ValidateToken(clientToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)
		c.Set("uid", claims.Uid)
		c.Set("user_role", claims.User_role)
		c.Next()
	}
}
