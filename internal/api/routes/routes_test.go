package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hirelytics/hirelytics/internal/api/handlers"
	"github.com/hirelytics/hirelytics/internal/identity"
	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type noRoles struct{}

func (noRoles) GetUserRole(context.Context, string) (models.Role, error) { return "", nil }

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Verifier:    identity.NewVerifier("secret", "", ""),
		Roles:       noRoles{},
		Logger:      log,
		User:        handlers.NewUserHandler(nil, nil),
		Shell:       handlers.NewShellHandler(nil, nil, gin.H{"projectId": "p"}),
		Profile:     handlers.NewProfileHandler(nil, nil),
		Application: handlers.NewApplicationHandler(nil, nil, nil),
		Job:         handlers.NewJobHandler(nil),
		WS:          handlers.NewWSHandler(nil, nil, log, nil),
	})
	return r
}

func TestRegisterRoutes_Table(t *testing.T) {
	got := map[string]bool{}
	for _, ri := range newEngine().Routes() {
		got[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"POST /api/user/role",
		"GET /api/firebase/custom-token",
		"GET /api/shell",
		"GET /legacy",
		"POST /api/applicant/jobs/:jobId/apply",
		"PATCH /api/applicant/applications/:id/status",
		"POST /api/applicant/external-jobs/autofill",
		"POST /api/recruiter/jobs",
		"POST /api/recruiter/applicants/:userId/:id/advance",
		"GET /ws/applications",
		"GET /applicant/*rest",
	} {
		assert.True(t, got[want], want)
	}
}

func TestRegisterRoutes_Guards(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/applicant/applications", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recruiter/myJobs", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/config/firebase", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"projectId":"p"}`, w.Body.String())
}
