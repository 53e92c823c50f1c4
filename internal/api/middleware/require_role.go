package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/utils"
)

// RoleReader resolves a user's role from the user record.
type RoleReader interface {
	GetUserRole(ctx context.Context, uid string) (models.Role, error)
}

// RequireRole lets the request through only when the caller's stored role
// is one of allowed. Runs after SessionAuth.
func RequireRole(roles RoleReader, allowed ...models.Role) gin.HandlerFunc {
	allow := map[models.Role]struct{}{}
	for _, a := range allowed {
		allow[a] = struct{}{}
	}

	return func(c *gin.Context) {
		uid := UserID(c)
		if uid == "" {
			abortJSON(c, http.StatusUnauthorized, utils.CodeUnauthenticated, "sign in required")
			return
		}

		role, err := roles.GetUserRole(c.Request.Context(), uid)
		if err != nil {
			abortJSON(c, utils.HTTPStatus(err), utils.CodeInternal, "failed to resolve role")
			return
		}
		if role == "" {
			abortJSON(c, http.StatusForbidden, utils.CodeForbidden, "choose a role first")
			return
		}
		if _, ok := allow[role]; !ok {
			abortJSON(c, http.StatusForbidden, utils.CodeForbidden, "forbidden")
			return
		}

		c.Set(CtxRole, role)
		c.Next()
	}
}

func RequireApplicant(roles RoleReader) gin.HandlerFunc {
	return RequireRole(roles, models.RoleApplicant)
}

func RequireRecruiter(roles RoleReader) gin.HandlerFunc {
	return RequireRole(roles, models.RoleRecruiter)
}
