package services

import (
	"context"
	"errors"
	"time"

	"github.com/hirelytics/hirelytics/internal/forms"
	"github.com/hirelytics/hirelytics/internal/models"
	mongorepo "github.com/hirelytics/hirelytics/internal/repositories/mongo"
	"github.com/hirelytics/hirelytics/internal/utils"
	"github.com/hirelytics/hirelytics/internal/validation"
)

const latestInternalLimit = 10

// JobService manages recruiter-authored postings.
type JobService interface {
	Create(ctx context.Context, recruiterID string, f forms.NewJob) (forms.Result, error)
	Get(ctx context.Context, id string) (*models.JobPosting, error)
	ListMine(ctx context.Context, recruiterID string) ([]models.JobPosting, error)
	LatestInternal(ctx context.Context) ([]models.JobPosting, error)
}

type jobService struct {
	jobs      mongorepo.JobRepository
	validator *validation.Validator
	inflight  *Inflight
	now       func() time.Time
}

func NewJobService(jobs mongorepo.JobRepository, v *validation.Validator, inflight *Inflight) JobService {
	return &jobService{jobs: jobs, validator: v, inflight: inflight, now: func() time.Time { return time.Now().UTC() }}
}

func (s *jobService) Create(ctx context.Context, recruiterID string, f forms.NewJob) (forms.Result, error) {
	const op = "JobService.Create"
	if recruiterID == "" {
		return forms.Result{}, utils.Unauthenticated(op)
	}
	f.Normalize()
	if err := s.validator.Struct(op, "Please fill in Job Name, Company Name, Description, and Recruiter Email.", f); err != nil {
		return forms.Result{}, err
	}

	return inflightDo(s.inflight, formKey(recruiterID, "newJob"), f, func() (forms.Result, error) {
		posting := f.Posting(recruiterID, s.now())
		id, err := s.jobs.Create(ctx, &posting)
		if err != nil {
			return forms.Result{}, utils.E(utils.CodeInternal, op, "failed to save job", err)
		}
		return forms.JobSubmitted(id), nil
	})
}

func (s *jobService) Get(ctx context.Context, id string) (*models.JobPosting, error) {
	const op = "JobService.Get"
	j, err := s.jobs.Get(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	return j, nil
}

func (s *jobService) ListMine(ctx context.Context, recruiterID string) ([]models.JobPosting, error) {
	const op = "JobService.ListMine"
	if recruiterID == "" {
		return nil, utils.Unauthenticated(op)
	}
	list, err := s.jobs.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return list, nil
}

func (s *jobService) LatestInternal(ctx context.Context) ([]models.JobPosting, error) {
	const op = "JobService.LatestInternal"
	list, err := s.jobs.LatestBySource(ctx, models.JobSourceInternal, latestInternalLimit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return list, nil
}
