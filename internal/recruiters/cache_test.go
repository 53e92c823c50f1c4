package recruiters

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	calls atomic.Int32
	list  []models.RecruiterInfo
	err   error
}

func (f *fakeSource) ListRecruiters(context.Context) ([]models.RecruiterInfo, error) {
	f.calls.Add(1)
	return f.list, f.err
}

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestFetchAll_Memoizes(t *testing.T) {
	src := &fakeSource{list: []models.RecruiterInfo{{UID: "r2"}, {UID: "r1"}}}
	c := NewCache(src, 0, quietLog())

	assert.Len(t, c.FetchAll(context.Background()), 2)
	assert.Len(t, c.FetchAll(context.Background()), 2)
	assert.Equal(t, int32(1), src.calls.Load())
	assert.ElementsMatch(t, []string{"r1", "r2"}, c.AllUIDs())
}

func TestFetchAll_ErrorFlipsFetched(t *testing.T) {
	src := &fakeSource{err: errors.New("unavailable")}
	c := NewCache(src, 0, quietLog())

	assert.Empty(t, c.FetchAll(context.Background()))
	assert.Empty(t, c.FetchAll(context.Background()))
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, PlaceholderUID, c.RandomUID())
}

func TestFetchAll_TTLAndInvalidate(t *testing.T) {
	src := &fakeSource{list: []models.RecruiterInfo{{UID: "r1"}}}
	c := NewCache(src, time.Minute, quietLog())
	now := time.Unix(0, 0)
	c.now = func() time.Time { return now }

	c.FetchAll(context.Background())
	now = now.Add(30 * time.Second)
	c.FetchAll(context.Background())
	assert.Equal(t, int32(1), src.calls.Load())

	now = now.Add(time.Minute)
	c.FetchAll(context.Background())
	assert.Equal(t, int32(2), src.calls.Load())

	c.Invalidate()
	assert.Empty(t, c.AllUIDs())
	c.FetchAll(context.Background())
	assert.Equal(t, int32(3), src.calls.Load())
}

func TestRandomUID(t *testing.T) {
	c := NewCache(&fakeSource{list: []models.RecruiterInfo{{UID: "only"}}}, 0, quietLog())
	assert.Equal(t, PlaceholderUID, c.RandomUID())
	c.FetchAll(context.Background())
	assert.Equal(t, "only", c.RandomUID())
}

func TestAssignRecruitersToJobs(t *testing.T) {
	jobs := []models.AvailableJob{{ID: 1}, {ID: 2}, {ID: 3}}

	out := AssignRecruitersToJobs(jobs, []string{"zed", "amy"})
	assert.Equal(t, "amy", out[0].RecruiterID)
	assert.Equal(t, "zed", out[1].RecruiterID)
	assert.Equal(t, "amy", out[2].RecruiterID)
	assert.Empty(t, jobs[0].RecruiterID)

	unchanged := AssignRecruitersToJobs(jobs, nil)
	assert.Equal(t, jobs, unchanged)

	uid, ok := RecruiterFor(jobs, []string{"zed", "amy"}, 2)
	assert.True(t, ok)
	assert.Equal(t, "zed", uid)
	_, ok = RecruiterFor(jobs, nil, 2)
	assert.False(t, ok)
}

type ctxSource struct {
	fakeSource
}

func (f *ctxSource) ListRecruiters(ctx context.Context) ([]models.RecruiterInfo, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.list, f.err
}

func TestFetchAll_CancelledCallerStillScans(t *testing.T) {
	src := &ctxSource{fakeSource{list: []models.RecruiterInfo{{UID: "r1"}}}}
	c := NewCache(src, time.Minute, quietLog())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Len(t, c.FetchAll(ctx), 1)
	assert.Equal(t, "r1", c.RandomUID())
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestFetchAll_TimeoutIsNotRemembered(t *testing.T) {
	src := &fakeSource{err: context.DeadlineExceeded}
	c := NewCache(src, time.Minute, quietLog())

	assert.Empty(t, c.FetchAll(context.Background()))

	src.err = nil
	src.list = []models.RecruiterInfo{{UID: "r1"}}
	assert.Len(t, c.FetchAll(context.Background()), 1)
	assert.Equal(t, int32(2), src.calls.Load())
}
