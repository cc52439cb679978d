package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"styledecor/internal/domain"
	"styledecor/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var ErrForbidden = errors.New("forbidden access")

type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RoleGuard resolves the caller's stored role on every request. Nothing is cached,
// so a role change applies to the very next request.
type RoleGuard struct {
	users UserLookup
}

func NewRoleGuard(users UserLookup) *RoleGuard {
	return &RoleGuard{users: users}
}

// Resolve returns the stored role; unknown emails resolve to "".
func (g *RoleGuard) Resolve(ctx context.Context, email string) (domain.UserRole, error) {
	if email == "" {
		return "", nil
	}
	u, err := g.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// Check allows the call when required is empty or the stored role equals it exactly.
func (g *RoleGuard) Check(ctx context.Context, email string, required domain.UserRole) error {
	if required == "" {
		return nil
	}
	role, err := g.Resolve(ctx, email)
	if err != nil {
		return err
	}
	if role != required {
		return ErrForbidden
	}
	return nil
}

// Require must run after Authenticate.
func (g *RoleGuard) Require(required domain.UserRole) gin.HandlerFunc {
	return g.handle(required)
}

func (g *RoleGuard) AdminOnly() gin.HandlerFunc {
	return g.handle(domain.RoleAdmin)
}

func (g *RoleGuard) DecoratorOnly() gin.HandlerFunc {
	return g.handle(domain.RoleDecorator)
}

// WithRole loads the caller's role into the context without enforcing anything.
func (g *RoleGuard) WithRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := g.Resolve(c.Request.Context(), Email(c))
		if err != nil {
			log.Printf("level=error msg=role_lookup_failed email=%s err=%v", Email(c), err)
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
			return
		}
		c.Set(ctxRole, string(role))
		c.Next()
	}
}

func (g *RoleGuard) handle(required domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := Email(c)
		if email == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized access")
			return
		}

		err := g.Check(c.Request.Context(), email, required)
		switch {
		case errors.Is(err, ErrForbidden):
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "forbidden access")
			return
		case err != nil:
			log.Printf("level=error msg=role_lookup_failed email=%s err=%v", email, err)
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
			return
		}

		c.Set(ctxRole, string(required))
		c.Next()
	}
}
