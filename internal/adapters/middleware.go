package adapters

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/checkpoint-chat/relay/internal/auth"
)

// claimsKey is the gin context key the auth guard stores validated claims
// under.
const claimsKey = "claims"

// ClientTokenMiddleware hands every browser a stable token through the
// session cookie. It identifies a browser, not a socket; each websocket
// still gets its own connection id.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get("ct").(string)
		if token == "" {
			token = uuid.NewString()
			session.Set("ct", token)
			_ = session.Save()
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// AuthRequired validates the Authorization bearer token and stores the
// claims for handlers.
func AuthRequired(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header is required"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// usernameFromContext reads the authenticated username set by AuthRequired.
func usernameFromContext(c *gin.Context) string {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims.Username
		}
	}
	return ""
}
