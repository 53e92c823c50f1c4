package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirelytics/hirelytics/internal/services"
	"github.com/hirelytics/hirelytics/internal/utils"
)

// TokenMinter signs a custom token for the document store's client SDK.
type TokenMinter interface {
	Mint(uid string) (string, error)
}

type UserHandler struct {
	roles  services.RoleService
	minter TokenMinter
}

func NewUserHandler(roles services.RoleService, minter TokenMinter) *UserHandler {
	return &UserHandler{roles: roles, minter: minter}
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetRole handles POST /api/user/role.
func (h *UserHandler) SetRole(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req setRoleRequest
	if !bindJSON(c, "UserHandler.SetRole", &req) {
		return
	}
	if err := h.roles.SetRole(c.Request.Context(), userID, req.Role); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *UserHandler) Onboarding(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	st, err := h.roles.GetOnboardingStatus(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// CustomToken handles GET /api/firebase/custom-token.
func (h *UserHandler) CustomToken(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if h.minter == nil {
		writeError(c, utils.E(utils.CodeInternal, "UserHandler.CustomToken", "token signing is not configured", nil))
		return
	}

	tok, err := h.minter.Mint(userID)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "UserHandler.CustomToken", "failed to sign token", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"customToken": tok})
}
