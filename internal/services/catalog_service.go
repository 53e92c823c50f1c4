package services

import (
	"context"
	"strconv"
	"time"

	"github.com/hirelytics/hirelytics/internal/cache"
	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/recruiters"
	mongorepo "github.com/hirelytics/hirelytics/internal/repositories/mongo"
	pgrepo "github.com/hirelytics/hirelytics/internal/repositories/postgres"
	"github.com/hirelytics/hirelytics/internal/utils"
)

const catalogCacheKey = "catalog:available_jobs"

// AvailableJobView is a catalog entry as one applicant sees it.
type AvailableJobView struct {
	models.AvailableJob
	Applied bool `json:"applied"`
}

type CatalogService interface {
	ListAvailable(ctx context.Context, uid string) ([]AvailableJobView, error)
	// Job returns the catalog entry with its assigned recruiter.
	Job(ctx context.Context, id int) (models.AvailableJob, error)
	// Assignments lists every catalog job with its recruiter, for the admin CLI.
	Assignments(ctx context.Context) ([]models.AvailableJob, error)
	Seed(ctx context.Context, onlyIfEmpty bool) (int, error)
}

// RecruiterDirectory is the part of recruiters.Cache the catalog needs.
type RecruiterDirectory interface {
	FetchAll(ctx context.Context) []models.RecruiterInfo
	AllUIDs() []string
}

type catalogService struct {
	catalog pgrepo.CatalogRepository
	apps    mongorepo.ApplicationRepository
	dir     RecruiterDirectory
	cache   cache.Cache
	ttl     time.Duration
}

func NewCatalogService(catalog pgrepo.CatalogRepository, apps mongorepo.ApplicationRepository, dir RecruiterDirectory, c cache.Cache, ttl time.Duration) CatalogService {
	if c == nil {
		c = cache.Nop{}
	}
	return &catalogService{catalog: catalog, apps: apps, dir: dir, cache: c, ttl: ttl}
}

func (s *catalogService) jobs(ctx context.Context) ([]models.AvailableJob, error) {
	return cache.Remember(ctx, s.cache, catalogCacheKey, s.ttl, s.catalog.List)
}

func (s *catalogService) Assignments(ctx context.Context) ([]models.AvailableJob, error) {
	const op = "CatalogService.Assignments"
	jobs, err := s.jobs(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load catalog", err)
	}
	s.dir.FetchAll(ctx)
	return recruiters.AssignRecruitersToJobs(jobs, s.dir.AllUIDs()), nil
}

func (s *catalogService) ListAvailable(ctx context.Context, uid string) ([]AvailableJobView, error) {
	const op = "CatalogService.ListAvailable"
	if uid == "" {
		return nil, utils.Unauthenticated(op)
	}

	jobs, err := s.Assignments(ctx)
	if err != nil {
		return nil, err
	}
	mine, err := s.apps.List(ctx, uid)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load applications", err)
	}

	applied := make(map[string]struct{}, len(mine))
	for _, a := range mine {
		applied[a.ID] = struct{}{}
	}

	out := make([]AvailableJobView, 0, len(jobs))
	for _, j := range jobs {
		_, ok := applied[strconv.Itoa(j.ID)]
		out = append(out, AvailableJobView{AvailableJob: j, Applied: ok})
	}
	return out, nil
}

func (s *catalogService) Job(ctx context.Context, id int) (models.AvailableJob, error) {
	const op = "CatalogService.Job"
	jobs, err := s.Assignments(ctx)
	if err != nil {
		return models.AvailableJob{}, err
	}
	for _, j := range jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return models.AvailableJob{}, utils.E(utils.CodeNotFound, op, "job not found", utils.ErrNotFound)
}

// Seed upserts the built-in catalog. With onlyIfEmpty it leaves a populated
// table alone and reports 0.
func (s *catalogService) Seed(ctx context.Context, onlyIfEmpty bool) (int, error) {
	const op = "CatalogService.Seed"
	if onlyIfEmpty {
		n, err := s.catalog.Count(ctx)
		if err != nil {
			return 0, utils.E(utils.CodeInternal, op, "failed to count catalog", err)
		}
		if n > 0 {
			return 0, nil
		}
	}

	jobs, err := pgrepo.SeedCatalog()
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "bad seed catalog", err)
	}
	if err := s.catalog.UpsertAll(ctx, jobs); err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to seed catalog", err)
	}
	_ = s.cache.Del(ctx, catalogCacheKey)
	return len(jobs), nil
}
