package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hirelytics/hirelytics/internal/api/handlers"
	"github.com/hirelytics/hirelytics/internal/api/middleware"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Verifier middleware.Verifier
	Roles    middleware.RoleReader
	Logger   *logrus.Logger

	User        *handlers.UserHandler
	Shell       *handlers.ShellHandler
	Profile     *handlers.ProfileHandler
	Application *handlers.ApplicationHandler
	Job         *handlers.JobHandler
	WS          *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public, session optional
	open := r.Group("/")
	open.Use(middleware.OptionalSession(d.Verifier))
	open.GET("/api/config/firebase", d.Shell.FirebaseConfig)
	open.GET("/api/shell", d.Shell.View)
	open.GET("/legacy", d.Shell.Legacy)

	// Page navigations
	pages := open.Group("/")
	pages.Use(middleware.PageGuard(d.Roles, d.Logger))
	for _, p := range []string{"/role", "/Jobdetails", "/applicant/*rest", "/recruiter/*rest"} {
		pages.GET(p, d.Shell.Page)
	}

	// Session required, any role
	auth := r.Group("/")
	auth.Use(middleware.SessionAuth(d.Verifier))
	auth.POST("/api/user/role", d.User.SetRole)
	auth.GET("/api/user/onboarding", d.User.Onboarding)
	auth.GET("/api/firebase/custom-token", d.User.CustomToken)
	auth.POST("/api/profile/sync", d.Profile.Sync)
	auth.GET("/api/jobs/internal", d.Job.Internal)

	applicant := auth.Group("/")
	applicant.Use(middleware.RequireApplicant(d.Roles))
	applicant.GET("/api/jobs/available", d.Application.Available)
	applicant.POST("/api/applicant/jobs/:jobId/apply", d.Application.Apply)
	applicant.GET("/api/applicant/applications", d.Application.List)
	applicant.PATCH("/api/applicant/applications/:id/status", d.Application.UpdateStatus)
	applicant.PATCH("/api/applicant/applications/:id/notes", d.Application.UpdateNotes)
	applicant.GET("/api/applicant/applications/:id/history", d.Application.History)
	applicant.GET("/api/applicant/dashboard", d.Application.Dashboard)
	applicant.POST("/api/applicant/external-jobs/autofill", d.Application.Autofill)
	applicant.POST("/api/applicant/external-jobs", d.Application.TrackExternal)
	applicant.GET("/api/applicant/profile", d.Profile.Get)
	applicant.PUT("/api/applicant/profile", d.Profile.Save)
	applicant.POST("/api/applicant/profile/resume", d.Profile.UploadResume)
	applicant.POST("/api/applicant/profile/picture", d.Profile.UploadPicture)
	applicant.GET("/ws/applications", d.WS.Applications)

	recruiter := auth.Group("/")
	recruiter.Use(middleware.RequireRecruiter(d.Roles))
	recruiter.GET("/api/recruiter/profile", d.Profile.GetRecruiter)
	recruiter.PUT("/api/recruiter/profile", d.Profile.SaveRecruiter)
	recruiter.GET("/api/recruiter/jobs", d.Job.ListMine)
	recruiter.POST("/api/recruiter/jobs", d.Job.Create)
	recruiter.GET("/api/recruiter/jobs/:id", d.Job.Get)
	recruiter.GET("/api/recruiter/applicants", d.Application.Applicants)
	recruiter.POST("/api/recruiter/applicants/:userId/:id/advance", d.Application.Advance)
	recruiter.POST("/api/recruiter/applicants/:userId/:id/reject", d.Application.Reject)
}
