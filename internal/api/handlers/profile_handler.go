package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirelytics/hirelytics/internal/api/middleware"
	"github.com/hirelytics/hirelytics/internal/forms"
	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/services"
	"github.com/hirelytics/hirelytics/internal/utils"
)

type ProfileHandler struct {
	profiles services.ProfileService
	roles    services.RoleService
}

func NewProfileHandler(profiles services.ProfileService, roles services.RoleService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, roles: roles}
}

type syncRequest struct {
	Path string `json:"path"`
}

// Sync copies the session's name and email into blank profile fields.
func (h *ProfileHandler) Sync(c *gin.Context) {
	const op = "ProfileHandler.Sync"
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		writeError(c, utils.Unauthenticated(op))
		return
	}

	var req syncRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, op, &req) {
		return
	}

	role, err := h.roles.GetUserRole(c.Request.Context(), sess.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if role == "" {
		c.JSON(http.StatusOK, services.SyncResult{})
		return
	}

	res, err := h.profiles.Sync(c.Request.Context(), sess.UserID, role, services.IdentityFields{
		FirstName: sess.FirstName,
		LastName:  sess.LastName,
		Email:     sess.Email,
	}, req.Path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	p, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type profileResponse struct {
	Profile models.UserProfile `json:"profile"`
	forms.Result
}

func (h *ProfileHandler) Save(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var f forms.Profile
	if !bindJSON(c, "ProfileHandler.Save", &f) {
		return
	}

	p, res, err := h.profiles.SaveProfile(c.Request.Context(), userID, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: p, Result: res})
}

type uploadFn func(c *gin.Context, uid, name, contentType string, size int64, r io.Reader) (models.UserProfile, forms.Result, error)

func (h *ProfileHandler) upload(c *gin.Context, op string, fn uploadFn) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.Invalid(op, "missing file", map[string]string{"file": "This field is required"}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "unreadable file", err))
		return
	}
	defer f.Close()

	p, res, err := fn(c, userID, fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: p, Result: res})
}

// UploadResume handles the multipart "file" field of POST /api/applicant/profile/resume.
func (h *ProfileHandler) UploadResume(c *gin.Context) {
	h.upload(c, "ProfileHandler.UploadResume", func(c *gin.Context, uid, name, ct string, size int64, r io.Reader) (models.UserProfile, forms.Result, error) {
		return h.profiles.UploadResume(c.Request.Context(), uid, name, ct, size, r)
	})
}

func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	h.upload(c, "ProfileHandler.UploadPicture", func(c *gin.Context, uid, name, ct string, size int64, r io.Reader) (models.UserProfile, forms.Result, error) {
		return h.profiles.UploadPicture(c.Request.Context(), uid, name, ct, size, r)
	})
}

func (h *ProfileHandler) GetRecruiter(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	p, err := h.profiles.GetRecruiterProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type recruiterProfileResponse struct {
	Profile models.RecruiterProfile `json:"profile"`
	forms.Result
}

func (h *ProfileHandler) SaveRecruiter(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var f forms.RecruiterProfile
	if !bindJSON(c, "ProfileHandler.SaveRecruiter", &f) {
		return
	}

	p, res, err := h.profiles.SaveRecruiterProfile(c.Request.Context(), userID, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recruiterProfileResponse{Profile: p, Result: res})
}
