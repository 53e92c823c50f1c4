package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirelytics/hirelytics/internal/guard"
	"github.com/sirupsen/logrus"
)

const CtxDecision = "guard_decision"

// PageGuard applies guard.Decide to page navigations. The server is always
// linked to the store, so the only states here are signed out, role
// unknown and ready. SignIn and Redirect become a 302.
func PageGuard(roles RoleReader, l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		uid := UserID(c)

		st := guard.StateSignedOut()
		if uid != "" {
			role, err := roles.GetUserRole(c.Request.Context(), uid)
			if err != nil {
				if l != nil {
					l.WithError(err).WithField("user_id", uid).Warn("page guard role lookup failed")
				}
				c.AbortWithStatus(http.StatusServiceUnavailable)
				return
			}
			st = guard.Resolve(true, true, role)
		}

		d := guard.Decide(path, st)
		c.Set(CtxDecision, d)

		switch d.Action {
		case guard.SignIn, guard.Redirect:
			if d.Toast != nil {
				c.Header("X-Toast-Title", d.Toast.Title)
				c.Header("X-Toast-Description", d.Toast.Description)
			}
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
			return
		}
		c.Next()
	}
}
