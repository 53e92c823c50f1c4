package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hirelytics/hirelytics/internal/api/middleware"
	"github.com/hirelytics/hirelytics/internal/guard"
	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/services"
	"github.com/hirelytics/hirelytics/internal/utils"
)

type ShellHandler struct {
	shell    services.ShellService
	roles    services.RoleService
	firebase any
}

// NewShellHandler takes the public client config served at /api/config/firebase.
func NewShellHandler(shell services.ShellService, roles services.RoleService, firebase any) *ShellHandler {
	return &ShellHandler{shell: shell, roles: roles, firebase: firebase}
}

// View handles GET /api/shell?path=&linked=. It works signed out.
func (h *ShellHandler) View(c *gin.Context) {
	path := c.DefaultQuery("path", "/")
	linked := true
	if v := c.Query("linked"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(c, utils.Invalid("ShellHandler.View", "invalid linked flag", map[string]string{"linked": "Must be true or false"}))
			return
		}
		linked = b
	}

	v, err := h.shell.View(c.Request.Context(), middleware.UserID(c), linked, path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Page answers a page route that PageGuard let through with its shell view.
func (h *ShellHandler) Page(c *gin.Context) {
	v, err := h.shell.View(c.Request.Context(), middleware.UserID(c), true, c.Request.URL.Path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Legacy handles GET /legacy?hash=#/jobs by redirecting to the path route.
func (h *ShellHandler) Legacy(c *gin.Context) {
	var role models.Role
	if uid := middleware.UserID(c); uid != "" {
		r, err := h.roles.GetUserRole(c.Request.Context(), uid)
		if err != nil {
			writeError(c, err)
			return
		}
		role = r
	}

	to, ok := guard.LegacyTarget(c.Query("hash"), role)
	if !ok {
		writeError(c, utils.E(utils.CodeNotFound, "ShellHandler.Legacy", "unknown route", nil))
		return
	}
	c.Redirect(http.StatusFound, to)
}

func (h *ShellHandler) FirebaseConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.firebase)
}
