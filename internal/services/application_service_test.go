package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hirelytics/hirelytics/internal/forms"
	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/recruiters"
	"github.com/hirelytics/hirelytics/internal/utils"
	"github.com/hirelytics/hirelytics/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appFixture struct {
	apps     *fakeApps
	events   *fakeEvents
	notifier *fakeNotifier
	catalog  *fakeCatalogRepo
	svc      ApplicationService
}

func newAppFixture(recruiterUIDs ...string) *appFixture {
	f := &appFixture{
		apps:     newFakeApps(),
		events:   &fakeEvents{},
		notifier: &fakeNotifier{},
		catalog: &fakeCatalogRepo{jobs: []models.AvailableJob{
			{ID: 1, Title: "Backend Engineer", Company: "Acme", Location: "Berlin, Germany", ApplyLink: "https://acme.io/jobs/1"},
			{ID: 2, Title: "Data Analyst", Company: "Globex", Location: "Remote"},
		}},
	}
	cat := NewCatalogService(f.catalog, f.apps, &fakeDir{uids: recruiterUIDs}, newMapCache(), time.Minute)
	svc := NewApplicationService(f.apps, f.events, cat, f.notifier, validation.New(), NewInflight(), quietLogger())
	svc.(*applicationService).now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

func TestApply_CreatesThenReturnsExisting(t *testing.T) {
	f := newAppFixture("rec-1")
	ctx := context.Background()

	res, err := f.svc.Apply(ctx, "u1", 1)
	require.NoError(t, err)
	assert.True(t, res.Created)
	a := res.Application
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "Acme", a.Company)
	assert.Equal(t, "Berlin", a.City)
	assert.Equal(t, "Germany", a.Country)
	assert.Equal(t, models.StatusApplied, a.Status)
	assert.Equal(t, models.OutcomePending, a.Outcome)
	assert.Equal(t, "2024-06-10", a.ApplicationDate)
	assert.Equal(t, "rec-1", a.RecruiterID)

	again, err := f.svc.Apply(ctx, "u1", 1)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, "1", again.Application.ID)

	assert.Equal(t, 1, f.apps.inserts)
	require.Len(t, f.notifier.changes, 1)
	assert.Equal(t, models.EventApplied, f.notifier.changes[0].Kind)
}

func TestApply_ConcurrentDuplicatesInsertOnce(t *testing.T) {
	f := newAppFixture("rec-1")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Apply(context.Background(), "u1", 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, f.apps.inserts)
}

func TestApply_UnknownJob(t *testing.T) {
	f := newAppFixture()
	_, err := f.svc.Apply(context.Background(), "u1", 99)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestApply_NoUser(t *testing.T) {
	f := newAppFixture()
	_, err := f.svc.Apply(context.Background(), "", 1)
	assert.True(t, utils.IsCode(err, utils.CodeUnauthenticated))
}

func TestApply_PlaceholderRecruiterWhenNoneExist(t *testing.T) {
	f := newAppFixture()
	res, err := f.svc.Apply(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, recruiters.PlaceholderUID, res.Application.RecruiterID)
}

func TestApply_NotifyFailureStillSucceeds(t *testing.T) {
	f := newAppFixture("rec-1")
	f.notifier.err = errBoom
	res, err := f.svc.Apply(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.True(t, res.Created)
}

func TestTrackExternal(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()

	_, err := f.svc.TrackExternal(ctx, "u1", forms.ExternalJob{JobURL: "https://x.io/j/1"})
	var ae *utils.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Please fill in Job Name, Company Name, and Description.", ae.Message)
	assert.Contains(t, ae.Fields, "jobName")

	res, err := f.svc.TrackExternal(ctx, "u1", forms.ExternalJob{
		JobURL:      "https://careers.initech.com/j/1",
		JobSource:   "Company Career Page",
		JobName:     "SRE",
		CompanyName: "Initech",
		Description: "Keep it up",
	})
	require.NoError(t, err)
	assert.Equal(t, forms.ExternalSavedMessage, res.Message)
	assert.Equal(t, "/applicant/applications", res.Redirect)
	assert.Equal(t, 800, res.DelayMS)

	list, err := f.svc.List(ctx, "u1", "", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.SourceCompanyWebsite, list[0].JobSource)
	assert.Equal(t, "2024-06-10", list[0].ApplicationDate)
	require.NotNil(t, list[0].Details)
	assert.Equal(t, "Company Career Page", list[0].Details.OriginalSource)
}

func TestUpdateStatusAndNotes(t *testing.T) {
	f := newAppFixture("rec-1")
	ctx := context.Background()
	_, err := f.svc.Apply(ctx, "u1", 1)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, "u1", "1", "Ghosted")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = f.svc.UpdateStatus(ctx, "u1", "missing", "Offer")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	a, err := f.svc.UpdateStatus(ctx, "u1", "1", "Interview")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInterview, a.Status)

	a, err = f.svc.UpdateNotes(ctx, "u1", "1", "call back Friday")
	require.NoError(t, err)
	assert.Equal(t, "call back Friday", a.Notes)
	assert.Equal(t, models.StatusInterview, a.Status)

	kinds := []string{}
	for _, ch := range f.notifier.changes {
		kinds = append(kinds, ch.Kind)
	}
	assert.Equal(t, []string{models.EventApplied, models.EventStatusChanged, models.EventNotesChanged}, kinds)
}

func TestListFiltersAndDashboard(t *testing.T) {
	f := newAppFixture("rec-1")
	ctx := context.Background()
	_, err := f.svc.Apply(ctx, "u1", 1)
	require.NoError(t, err)
	_, err = f.svc.Apply(ctx, "u1", 2)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, "u1", "2", "Rejected")
	require.NoError(t, err)

	list, err := f.svc.List(ctx, "u1", "globex", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2", list[0].ID)

	list, err = f.svc.List(ctx, "u1", "", "Applied")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)

	snap, err := f.svc.Snapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, snap.Applications, 2)
	assert.Equal(t, 2, snap.Stats.Total)

	sum, err := f.svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Stats.Total)
	assert.NotEmpty(t, sum.StatusDistribution)
}

func TestHistory(t *testing.T) {
	f := newAppFixture()
	f.events.rows = []models.ApplicationEvent{
		{ID: "e1", UserID: "u1", ApplicationID: "1", Kind: models.EventApplied},
		{ID: "e2", UserID: "u2", ApplicationID: "1", Kind: models.EventApplied},
	}
	rows, err := f.svc.History(context.Background(), "u1", "1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "e1", rows[0].ID)
}

func TestRecruiterPipeline(t *testing.T) {
	f := newAppFixture("rec-1")
	ctx := context.Background()
	_, err := f.svc.Apply(ctx, "u1", 1)
	require.NoError(t, err)

	applicants, err := f.svc.ListForRecruiter(ctx, "rec-1")
	require.NoError(t, err)
	require.Len(t, applicants, 1)
	assert.Equal(t, "u1", applicants[0].UserID)

	_, err = f.svc.Advance(ctx, "rec-2", "u1", "1")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))

	a, err := f.svc.Advance(ctx, "rec-1", "u1", "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInterview, a.Status)
	assert.Equal(t, models.OutcomeInProgress, a.Outcome)

	a, err = f.svc.Advance(ctx, "rec-1", "u1", "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOffer, a.Status)
	assert.Equal(t, models.OutcomeSuccessful, a.Outcome)

	_, err = f.svc.Advance(ctx, "rec-1", "u1", "1")
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
	_, err = f.svc.Reject(ctx, "rec-1", "u1", "1")
	assert.True(t, utils.IsCode(err, utils.CodeConflict))

	last := f.notifier.changes[len(f.notifier.changes)-1]
	assert.Equal(t, "rec-1", last.Payload["by"])
}

func TestRecruiterReject(t *testing.T) {
	f := newAppFixture("rec-1")
	ctx := context.Background()
	_, err := f.svc.Apply(ctx, "u1", 1)
	require.NoError(t, err)

	a, err := f.svc.Reject(ctx, "rec-1", "u1", "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, a.Status)
	assert.Equal(t, models.OutcomeUnsuccessful, a.Outcome)

	_, err = f.svc.Advance(ctx, "rec-1", "u1", "1")
	assert.True(t, utils.IsCode(err, utils.CodeConflict))

	_, err = f.svc.Reject(ctx, "rec-1", "u1", "404")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestNextStatus(t *testing.T) {
	next, ok := NextStatus(models.StatusApplied)
	assert.True(t, ok)
	assert.Equal(t, models.StatusInterview, next)

	for _, s := range []models.ApplicationStatus{models.StatusOffer, models.StatusRejected, models.StatusWithdrawn} {
		_, ok := NextStatus(s)
		assert.False(t, ok, s)
	}
}

func TestRecruiterMove_LosesRaceToConcurrentReject(t *testing.T) {
	f := newAppFixture("rec-1")
	ctx := context.Background()
	_, err := f.svc.Apply(ctx, "u1", 1)
	require.NoError(t, err)
	before := len(f.notifier.changes)

	// another recruiter tab rejects after Advance has read "Applied"
	f.apps.beforeCAS = func(fa *fakeApps) {
		k := appKey("u1", "1")
		a := fa.m[k]
		a.Status = models.StatusRejected
		fa.m[k] = a
	}

	_, err = f.svc.Advance(ctx, "rec-1", "u1", "1")
	assert.True(t, utils.IsCode(err, utils.CodeConflict))

	a, err := f.apps.Get(ctx, "u1", "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, a.Status)
	assert.Len(t, f.notifier.changes, before)
}
