package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hirelytics/hirelytics/internal/identity"
	"github.com/hirelytics/hirelytics/internal/utils"
)

const (
	CtxUserID  = "user_id"
	CtxSession = "session"
	CtxRole    = "role"

	// SessionCookie carries the session token on page navigations.
	SessionCookie = "__session"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// Verifier is what the session middleware needs from identity.Verifier.
type Verifier interface {
	Verify(raw string) (identity.Session, error)
}

func bearerOrCookie(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}

// SessionAuth rejects requests without a valid session token.
func SessionAuth(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := v.Verify(bearerOrCookie(c))
		if err != nil {
			code, msg := utils.CodeUnauthenticated, "invalid session"
			var ae *utils.AppError
			if errors.As(err, &ae) {
				code, msg = ae.Code, ae.Message
			}
			abortJSON(c, utils.HTTPStatus(err), code, msg)
			return
		}
		setSession(c, sess)
		c.Next()
	}
}

// OptionalSession attaches the session when the token verifies and lets
// everything else through as signed out.
func OptionalSession(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerOrCookie(c); raw != "" {
			if sess, err := v.Verify(raw); err == nil {
				setSession(c, sess)
			}
		}
		c.Next()
	}
}

func setSession(c *gin.Context, sess identity.Session) {
	c.Set(CtxUserID, sess.UserID)
	c.Set(CtxSession, sess)
}

// SessionFrom returns the verified session stored by SessionAuth.
func SessionFrom(c *gin.Context) (identity.Session, bool) {
	v, ok := c.Get(CtxSession)
	if !ok {
		return identity.Session{}, false
	}
	s, ok := v.(identity.Session)
	return s, ok && s.UserID != ""
}

func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

func abortJSON(c *gin.Context, status int, code utils.Code, msg string) {
	c.AbortWithStatusJSON(status, apiError{Code: code, Message: msg})
}
