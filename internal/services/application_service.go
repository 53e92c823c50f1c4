package services

import (
	"context"
	"errors"
	"time"

	"github.com/hirelytics/hirelytics/internal/dashboard"
	"github.com/hirelytics/hirelytics/internal/forms"
	"github.com/hirelytics/hirelytics/internal/live"
	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/recruiters"
	mongorepo "github.com/hirelytics/hirelytics/internal/repositories/mongo"
	pgrepo "github.com/hirelytics/hirelytics/internal/repositories/postgres"
	"github.com/hirelytics/hirelytics/internal/utils"
	"github.com/hirelytics/hirelytics/internal/validation"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// Snapshot is what a live dashboard receives after every change.
type Snapshot struct {
	Applications []models.JobApplication `json:"applications"`
	Stats        dashboard.Stats         `json:"stats"`
}

// Applicant is an application as its recruiter sees it.
type Applicant struct {
	UserID string `json:"userId"`
	models.JobApplication
}

type ApplyResult struct {
	Application models.JobApplication `json:"application"`
	Created     bool                  `json:"created"`
}

type ApplicationService interface {
	List(ctx context.Context, uid, search, status string) ([]models.JobApplication, error)
	Snapshot(ctx context.Context, uid string) (Snapshot, error)
	Dashboard(ctx context.Context, uid string) (dashboard.Summary, error)
	History(ctx context.Context, uid, id string) ([]models.ApplicationEvent, error)

	Apply(ctx context.Context, uid string, jobID int) (ApplyResult, error)
	TrackExternal(ctx context.Context, uid string, f forms.ExternalJob) (forms.Result, error)
	UpdateStatus(ctx context.Context, uid, id, status string) (*models.JobApplication, error)
	UpdateNotes(ctx context.Context, uid, id, notes string) (*models.JobApplication, error)

	ListForRecruiter(ctx context.Context, recruiterID string) ([]Applicant, error)
	Advance(ctx context.Context, recruiterID, userID, id string) (*models.JobApplication, error)
	Reject(ctx context.Context, recruiterID, userID, id string) (*models.JobApplication, error)
}

type applicationService struct {
	apps      mongorepo.ApplicationRepository
	events    pgrepo.EventRepository
	catalog   CatalogService
	notifier  live.Notifier
	validator *validation.Validator
	inflight  *Inflight
	log       *logrus.Logger
	now       func() time.Time
}

func NewApplicationService(
	apps mongorepo.ApplicationRepository,
	events pgrepo.EventRepository,
	catalog CatalogService,
	notifier live.Notifier,
	v *validation.Validator,
	inflight *Inflight,
	log *logrus.Logger,
) ApplicationService {
	if notifier == nil {
		notifier = live.NopNotifier{}
	}
	return &applicationService{
		apps:      apps,
		events:    events,
		catalog:   catalog,
		notifier:  notifier,
		validator: v,
		inflight:  inflight,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *applicationService) List(ctx context.Context, uid, search, status string) ([]models.JobApplication, error) {
	const op = "ApplicationService.List"
	if uid == "" {
		return nil, utils.Unauthenticated(op)
	}
	list, err := s.apps.List(ctx, uid)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return dashboard.FilterApplications(list, search, status), nil
}

func (s *applicationService) Snapshot(ctx context.Context, uid string) (Snapshot, error) {
	list, err := s.List(ctx, uid, "", "")
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Applications: list, Stats: dashboard.StatsFromList(list)}, nil
}

func (s *applicationService) Dashboard(ctx context.Context, uid string) (dashboard.Summary, error) {
	list, err := s.List(ctx, uid, "", "")
	if err != nil {
		return dashboard.Summary{}, err
	}
	return dashboard.Summarize(list), nil
}

func (s *applicationService) History(ctx context.Context, uid, id string) ([]models.ApplicationEvent, error) {
	const op = "ApplicationService.History"
	if uid == "" {
		return nil, utils.Unauthenticated(op)
	}
	if s.events == nil {
		return []models.ApplicationEvent{}, nil
	}
	rows, err := s.events.ListByApplication(ctx, uid, id, 100)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load history", err)
	}
	return rows, nil
}

// Apply is idempotent: the application id is the catalog id, and an
// existing one is returned untouched.
func (s *applicationService) Apply(ctx context.Context, uid string, jobID int) (ApplyResult, error) {
	const op = "ApplicationService.Apply"
	if uid == "" {
		return ApplyResult{}, utils.Unauthenticated(op)
	}

	job, err := s.catalog.Job(ctx, jobID)
	if err != nil {
		return ApplyResult{}, err
	}

	rid := job.RecruiterID
	if rid == "" {
		rid = recruiters.PlaceholderUID
	}
	a := forms.Apply(job, rid, s.now())
	a.UserID = uid

	created, err := s.apps.InsertIfAbsent(ctx, &a)
	if err != nil {
		return ApplyResult{}, utils.E(utils.CodeInternal, op, "failed to save application", err)
	}
	if !created {
		existing, err := s.apps.Get(ctx, uid, a.ID)
		if err != nil {
			return ApplyResult{}, utils.E(utils.CodeInternal, op, "failed to read application", err)
		}
		return ApplyResult{Application: *existing, Created: false}, nil
	}

	s.notify(ctx, live.Change{UserID: uid, ApplicationID: a.ID, Kind: models.EventApplied, Payload: map[string]any{
		"company":     a.Company,
		"position":    a.Position,
		"recruiterId": a.RecruiterID,
	}})
	return ApplyResult{Application: a, Created: true}, nil
}

func (s *applicationService) TrackExternal(ctx context.Context, uid string, f forms.ExternalJob) (forms.Result, error) {
	const op = "ApplicationService.TrackExternal"
	if uid == "" {
		return forms.Result{}, utils.Unauthenticated(op)
	}
	f.Normalize()
	if err := s.validator.Struct(op, "Please fill in Job Name, Company Name, and Description.", f); err != nil {
		return forms.Result{}, err
	}

	return inflightDo(s.inflight, formKey(uid, "externalJob"), f, func() (forms.Result, error) {
		a := f.Application(s.now())
		a.UserID = uid
		if _, err := s.apps.InsertIfAbsent(ctx, &a); err != nil {
			return forms.Result{}, utils.E(utils.CodeInternal, op, "Save failed. Please try again.", err)
		}
		s.notify(ctx, live.Change{UserID: uid, ApplicationID: a.ID, Kind: models.EventTracked, Payload: map[string]any{
			"company":  a.Company,
			"position": a.Position,
			"jobLink":  a.JobLink,
		}})
		return forms.ExternalSaved(a.ID), nil
	})
}

func (s *applicationService) UpdateStatus(ctx context.Context, uid, id, status string) (*models.JobApplication, error) {
	const op = "ApplicationService.UpdateStatus"
	if uid == "" {
		return nil, utils.Unauthenticated(op)
	}
	st := models.ApplicationStatus(status)
	if !st.Valid() {
		return nil, utils.Invalid(op, "Invalid status", map[string]string{"status": "Must be one of: Applied, Interview, Rejected, Offer, Withdrawn"})
	}
	return s.update(ctx, op, uid, id, bson.M{"status": st}, models.EventStatusChanged, map[string]any{"status": st})
}

func (s *applicationService) UpdateNotes(ctx context.Context, uid, id, notes string) (*models.JobApplication, error) {
	const op = "ApplicationService.UpdateNotes"
	if uid == "" {
		return nil, utils.Unauthenticated(op)
	}
	return s.update(ctx, op, uid, id, bson.M{"notes": notes}, models.EventNotesChanged, nil)
}

func (s *applicationService) update(ctx context.Context, op, uid, id string, set bson.M, kind string, payload map[string]any) (*models.JobApplication, error) {
	set["updated_at"] = s.now()
	if err := s.apps.Update(ctx, uid, id, set); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update application", err)
	}
	a, err := s.apps.Get(ctx, uid, id)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read application", err)
	}
	s.notify(ctx, live.Change{UserID: uid, ApplicationID: id, Kind: kind, Payload: payload})
	return a, nil
}

func (s *applicationService) ListForRecruiter(ctx context.Context, recruiterID string) ([]Applicant, error) {
	const op = "ApplicationService.ListForRecruiter"
	if recruiterID == "" {
		return nil, utils.Unauthenticated(op)
	}
	list, err := s.apps.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applicants", err)
	}
	out := make([]Applicant, 0, len(list))
	for _, a := range list {
		out = append(out, Applicant{UserID: a.UserID, JobApplication: a})
	}
	return out, nil
}

// NextStatus is the recruiter pipeline. Offer, Rejected and Withdrawn end it.
func NextStatus(s models.ApplicationStatus) (models.ApplicationStatus, bool) {
	switch s {
	case models.StatusApplied:
		return models.StatusInterview, true
	case models.StatusInterview:
		return models.StatusOffer, true
	default:
		return "", false
	}
}

func outcomeFor(s models.ApplicationStatus) models.Outcome {
	switch s {
	case models.StatusInterview:
		return models.OutcomeInProgress
	case models.StatusOffer:
		return models.OutcomeSuccessful
	case models.StatusRejected:
		return models.OutcomeUnsuccessful
	default:
		return models.OutcomePending
	}
}

func (s *applicationService) Advance(ctx context.Context, recruiterID, userID, id string) (*models.JobApplication, error) {
	const op = "ApplicationService.Advance"
	return s.recruiterMove(ctx, op, recruiterID, userID, id, func(cur models.ApplicationStatus) (models.ApplicationStatus, bool) {
		return NextStatus(cur)
	})
}

func (s *applicationService) Reject(ctx context.Context, recruiterID, userID, id string) (*models.JobApplication, error) {
	const op = "ApplicationService.Reject"
	return s.recruiterMove(ctx, op, recruiterID, userID, id, func(cur models.ApplicationStatus) (models.ApplicationStatus, bool) {
		if _, open := NextStatus(cur); !open {
			return "", false
		}
		return models.StatusRejected, true
	})
}

func (s *applicationService) recruiterMove(ctx context.Context, op, recruiterID, userID, id string, next func(models.ApplicationStatus) (models.ApplicationStatus, bool)) (*models.JobApplication, error) {
	if recruiterID == "" {
		return nil, utils.Unauthenticated(op)
	}
	a, err := s.apps.Get(ctx, userID, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read application", err)
	}
	if a.RecruiterID != recruiterID {
		return nil, utils.E(utils.CodeForbidden, op, "not your applicant", nil)
	}

	to, ok := next(a.Status)
	if !ok {
		return nil, utils.E(utils.CodeConflict, op, "application is closed at "+string(a.Status), nil)
	}
	set := bson.M{"status": to, "outcome": outcomeFor(to), "updated_at": s.now()}
	if err := s.apps.UpdateIfStatus(ctx, userID, id, a.Status, set); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "application status changed, reload and try again", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update application", err)
	}
	a, err = s.apps.Get(ctx, userID, id)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read application", err)
	}
	s.notify(ctx, live.Change{UserID: userID, ApplicationID: id, Kind: models.EventStatusChanged, Payload: map[string]any{
		"status":  to,
		"by":      recruiterID,
		"message": "Your application status is now " + string(to) + ".",
	}})
	return a, nil
}

func (s *applicationService) notify(ctx context.Context, ch live.Change) {
	ch.At = s.now()
	if err := s.notifier.Notify(ctx, ch); err != nil && s.log != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id":        ch.UserID,
			"application_id": ch.ApplicationID,
			"kind":           ch.Kind,
		}).Warn("application change notify failed")
	}
}
