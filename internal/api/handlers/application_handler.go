package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hirelytics/hirelytics/internal/autofill"
	"github.com/hirelytics/hirelytics/internal/forms"
	"github.com/hirelytics/hirelytics/internal/services"
	"github.com/hirelytics/hirelytics/internal/utils"
)

// Prefiller turns a job link into step-two form values.
type Prefiller interface {
	Fill(ctx context.Context, raw string) (autofill.Prefill, error)
}

type ApplicationHandler struct {
	apps    services.ApplicationService
	catalog services.CatalogService
	prefill Prefiller
}

func NewApplicationHandler(apps services.ApplicationService, catalog services.CatalogService, prefill Prefiller) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, catalog: catalog, prefill: prefill}
}

func (h *ApplicationHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	list, err := h.apps.List(c.Request.Context(), userID, c.Query("search"), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": list})
}

func (h *ApplicationHandler) Dashboard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sum, err := h.apps.Dashboard(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *ApplicationHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	rows, err := h.apps.History(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": rows})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, "ApplicationHandler.UpdateStatus", &req) {
		return
	}
	a, err := h.apps.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *ApplicationHandler) UpdateNotes(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req notesRequest
	if !bindJSON(c, "ApplicationHandler.UpdateNotes", &req) {
		return
	}
	a, err := h.apps.UpdateNotes(c.Request.Context(), userID, c.Param("id"), req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Apply answers 201 for a new application and 200 when it already existed.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	jobID, err := strconv.Atoi(c.Param("jobId"))
	if err != nil {
		writeError(c, utils.Invalid("ApplicationHandler.Apply", "invalid job id", map[string]string{"jobId": "Must be a number"}))
		return
	}

	res, err := h.apps.Apply(c.Request.Context(), userID, jobID)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

func (h *ApplicationHandler) Available(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	jobs, err := h.catalog.ListAvailable(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *ApplicationHandler) Autofill(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}
	var req forms.AutofillRequest
	if !bindJSON(c, "ApplicationHandler.Autofill", &req) {
		return
	}
	p, err := h.prefill.Fill(c.Request.Context(), req.JobURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ApplicationHandler) TrackExternal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var f forms.ExternalJob
	if !bindJSON(c, "ApplicationHandler.TrackExternal", &f) {
		return
	}
	res, err := h.apps.TrackExternal(c.Request.Context(), userID, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ApplicationHandler) Applicants(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	list, err := h.apps.ListForRecruiter(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applicants": list})
}

func (h *ApplicationHandler) Advance(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	a, err := h.apps.Advance(c.Request.Context(), userID, c.Param("userId"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *ApplicationHandler) Reject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	a, err := h.apps.Reject(c.Request.Context(), userID, c.Param("userId"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
