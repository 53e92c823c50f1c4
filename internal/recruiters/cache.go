package recruiters

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const PlaceholderUID = "recruiter-uid-placeholder"

// ScanTimeout bounds one scan of the users collection.
var ScanTimeout = 10 * time.Second

// Source scans the users collection for records with a recruiter profile.
type Source interface {
	ListRecruiters(ctx context.Context) ([]models.RecruiterInfo, error)
}

// Cache memoizes one recruiter scan. A ttl of 0 keeps the result for the
// life of the process; Invalidate forces the next FetchAll to rescan.
type Cache struct {
	src Source
	ttl time.Duration
	log *logrus.Logger
	now func() time.Time

	sf singleflight.Group

	mu        sync.RWMutex
	list      []models.RecruiterInfo
	fetched   bool
	fetchedAt time.Time
}

func NewCache(src Source, ttl time.Duration, log *logrus.Logger) *Cache {
	return &Cache{src: src, ttl: ttl, log: log, now: time.Now}
}

func (c *Cache) fresh() bool {
	if !c.fetched {
		return false
	}
	return c.ttl <= 0 || c.now().Sub(c.fetchedAt) < c.ttl
}

// FetchAll returns the memoized recruiters, scanning on first use or after
// expiry. A failed scan is remembered as an empty list so callers do not
// hammer the store; the error is logged, not returned. Timeouts and
// cancellations are not remembered.
func (c *Cache) FetchAll(ctx context.Context) []models.RecruiterInfo {
	c.mu.RLock()
	if c.fresh() {
		out := c.list
		c.mu.RUnlock()
		return out
	}
	c.mu.RUnlock()

	v, _, _ := c.sf.Do("all", func() (any, error) {
		// shared by every waiter, so it must outlive the first caller's request
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ScanTimeout)
		defer cancel()

		list, err := c.src.ListRecruiters(sctx)
		if err != nil {
			if c.log != nil {
				c.log.WithError(err).Warn("recruiter scan failed")
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return []models.RecruiterInfo{}, nil
			}
			list = []models.RecruiterInfo{}
		}

		c.mu.Lock()
		c.list = list
		c.fetched = true
		c.fetchedAt = c.now()
		c.mu.Unlock()
		return list, nil
	})
	return v.([]models.RecruiterInfo)
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.list = nil
	c.fetched = false
	c.mu.Unlock()
}

// RandomUID picks one cached recruiter, or PlaceholderUID when none are known.
func (c *Cache) RandomUID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.list) == 0 {
		return PlaceholderUID
	}
	return c.list[rand.IntN(len(c.list))].UID
}

func (c *Cache) AllUIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.list))
	for _, r := range c.list {
		out = append(out, r.UID)
	}
	return out
}

// AssignRecruitersToJobs gives job i the recruiter at i % n of the sorted
// uids. With no uids the jobs come back unchanged. The input is not modified.
func AssignRecruitersToJobs(jobs []models.AvailableJob, uids []string) []models.AvailableJob {
	out := make([]models.AvailableJob, len(jobs))
	copy(out, jobs)
	if len(uids) == 0 {
		return out
	}

	sorted := append([]string(nil), uids...)
	sort.Strings(sorted)
	for i := range out {
		out[i].RecruiterID = sorted[i%len(sorted)]
	}
	return out
}

// RecruiterFor returns the uid assigned to the catalog job with the given
// id, using the same assignment as AssignRecruitersToJobs.
func RecruiterFor(jobs []models.AvailableJob, uids []string, jobID int) (string, bool) {
	for _, j := range AssignRecruitersToJobs(jobs, uids) {
		if j.ID == jobID {
			return j.RecruiterID, j.RecruiterID != ""
		}
	}
	return "", false
}
