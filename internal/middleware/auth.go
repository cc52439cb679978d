package middleware

import (
	"net/http"
	"strings"

	"styledecor/internal/pkg/jwt"
	"styledecor/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxEmail = "email"
	ctxRole  = "role"
)

// Verifier turns a bearer credential into a verified identity.
type Verifier interface {
	Verify(token string) (*jwt.Identity, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and stores the verified email.
func Authenticate(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized access")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized access")
			return
		}

		id, err := v.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized access")
			return
		}

		c.Set(ctxEmail, strings.ToLower(id.Email))
		c.Next()
	}
}

// Email returns the verified email set by Authenticate, or "".
func Email(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// Role returns the stored role resolved by the RoleGuard for this request, or "".
func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}

func IsAdmin(c *gin.Context) bool {
	return Role(c) == "admin"
}

// SelfOrAdmin reports whether the caller may act on records owned by email.
// The role must have been resolved by the RoleGuard earlier in the chain.
func SelfOrAdmin(c *gin.Context, email string) bool {
	if IsAdmin(c) {
		return true
	}
	return email != "" && strings.EqualFold(strings.TrimSpace(email), Email(c))
}
