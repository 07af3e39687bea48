package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/envioslab/shipment-api/internal/domains/users/domain"
	"github.com/envioslab/shipment-api/internal/domains/users/ports"
	apierrors "github.com/envioslab/shipment-api/internal/shared/errors"
)

const identityKey = "auth.identity"

// Identity is the verified caller stored in the gin context by RequireAuth.
type Identity struct {
	UserID int64
	Email  string
	RoleID int64
}

// Admin reports whether the identity carries the admin role.
func (i Identity) Admin() bool { return i.RoleID == domain.RoleAdmin }

// RequireAuth verifies the Bearer token and stores the identity in the
// context. Requests without a valid token get a 401.
func RequireAuth(tokens ports.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			c.Abort()
			return
		}
		claims, err := tokens.Verify(raw)
		if err != nil {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("invalid or expired token"))
			c.Abort()
			return
		}
		c.Set(identityKey, Identity{UserID: claims.UserID, Email: claims.Email, RoleID: claims.RoleID})
		c.Next()
	}
}

// RequireAdmin rejects callers whose identity lacks the admin role. It must
// run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			c.Abort()
			return
		}
		if !identity.Admin() {
			apierrors.Respond(c, apierrors.ErrForbidden.WithDetail("admin role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFrom reads the identity RequireAuth stored, if any.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}
