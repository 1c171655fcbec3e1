package middleware

import (
	"context"
	"net/http"

	"github.com/kassiods/Estude/internal/auth"

	"github.com/gin-gonic/gin"
)

// unexported, collision-proof context key
type identityContextKeyType struct{}

var identityKey = identityContextKeyType{}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*auth.Identity)
	return identity, ok
}

// RequireAuth gates a route group on bearer-token verification. The
// shape check happens inside the authenticator, so a request without a
// credential is rejected before any call leaves the process.
func RequireAuth(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := authenticator.Authenticate(
			c.Request.Context(),
			c.GetHeader("Authorization"),
		)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}

		ctx := context.WithValue(c.Request.Context(), identityKey, identity)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
