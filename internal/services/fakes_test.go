package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/hirelytics/hirelytics/internal/live"
	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var fixedNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

type fakeUsers struct {
	mu      sync.Mutex
	m       map[string]*models.UserRecord
	getErr  error
	writes  int
	listErr error
}

func newFakeUsers() *fakeUsers { return &fakeUsers{m: map[string]*models.UserRecord{}} }

func (f *fakeUsers) Get(_ context.Context, uid string) (*models.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.m[uid]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) CreateWithRole(_ context.Context, uid string, role models.Role, idp string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.m[uid]
	if ok && u.Role != "" && u.Role != role {
		return utils.ErrConflict
	}
	if !ok {
		u = &models.UserRecord{UID: uid, CreatedAt: now}
		f.m[uid] = u
	}
	u.Role = role
	u.IdentityProviderID = idp
	u.UpdatedAt = now
	f.writes++
	return nil
}

func (f *fakeUsers) record(uid string, now time.Time) *models.UserRecord {
	u, ok := f.m[uid]
	if !ok {
		u = &models.UserRecord{UID: uid, CreatedAt: now}
		f.m[uid] = u
	}
	return u
}

func (f *fakeUsers) SetProfile(_ context.Context, uid string, p models.UserProfile, complete bool, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.record(uid, now)
	u.Profile = &p
	u.ApplicantProfileCompleted = complete
	u.UpdatedAt = now
	f.writes++
	return nil
}

func (f *fakeUsers) SetRecruiterProfile(_ context.Context, uid string, p models.RecruiterProfile, complete bool, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.record(uid, now)
	u.RecruiterProfile = &p
	u.RecruiterProfileCompleted = complete
	u.UpdatedAt = now
	f.writes++
	return nil
}

func (f *fakeUsers) ListRecruiters(context.Context) ([]models.RecruiterInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.RecruiterInfo{}
	for uid, u := range f.m {
		if u.RecruiterProfile != nil {
			out = append(out, models.RecruiterInfo{UID: uid, Profile: *u.RecruiterProfile})
		}
	}
	return out, nil
}

type fakeApps struct {
	mu      sync.Mutex
	m       map[string]models.JobApplication
	inserts int

	// beforeCAS runs once inside UpdateIfStatus, with the lock held, to
	// simulate a write that lands between the read and the update.
	beforeCAS func(*fakeApps)
}

func newFakeApps() *fakeApps { return &fakeApps{m: map[string]models.JobApplication{}} }

func appKey(uid, id string) string { return uid + "/" + id }

func (f *fakeApps) sorted(keep func(models.JobApplication) bool) []models.JobApplication {
	out := []models.JobApplication{}
	for _, a := range f.m {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationDate > out[j].ApplicationDate })
	return out
}

func (f *fakeApps) List(_ context.Context, uid string) ([]models.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(a models.JobApplication) bool { return a.UserID == uid }), nil
}

func (f *fakeApps) ListByRecruiter(_ context.Context, rid string) ([]models.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(a models.JobApplication) bool { return a.RecruiterID == rid }), nil
}

func (f *fakeApps) Get(_ context.Context, uid, id string) (*models.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.m[appKey(uid, id)]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &a, nil
}

func (f *fakeApps) InsertIfAbsent(_ context.Context, a *models.JobApplication) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := appKey(a.UserID, a.ID)
	if _, ok := f.m[k]; ok {
		return false, nil
	}
	f.m[k] = *a
	f.inserts++
	return true, nil
}

// Update applies the handful of fields services set, via a bson round trip.
func (f *fakeApps) Update(_ context.Context, uid, id string, set bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apply(uid, id, set)
}

func (f *fakeApps) UpdateIfStatus(_ context.Context, uid, id string, from models.ApplicationStatus, set bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.beforeCAS != nil {
		f.beforeCAS(f)
		f.beforeCAS = nil
	}
	a, ok := f.m[appKey(uid, id)]
	if !ok {
		return utils.ErrNotFound
	}
	if a.Status != from {
		return utils.ErrConflict
	}
	return f.apply(uid, id, set)
}

func (f *fakeApps) apply(uid, id string, set bson.M) error {
	k := appKey(uid, id)
	a, ok := f.m[k]
	if !ok {
		return utils.ErrNotFound
	}
	raw, err := bson.Marshal(a)
	if err != nil {
		return err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for key, v := range set {
		doc[key] = v
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return err
	}
	var out models.JobApplication
	if err := bson.Unmarshal(raw, &out); err != nil {
		return err
	}
	f.m[k] = out
	return nil
}

type fakeCatalogRepo struct {
	jobs    []models.AvailableJob
	upserts int
	lists   int
}

func (f *fakeCatalogRepo) List(context.Context) ([]models.AvailableJob, error) {
	f.lists++
	return append([]models.AvailableJob(nil), f.jobs...), nil
}

func (f *fakeCatalogRepo) Get(_ context.Context, id int) (*models.AvailableJob, error) {
	for _, j := range f.jobs {
		if j.ID == id {
			return &j, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCatalogRepo) Count(context.Context) (int64, error) { return int64(len(f.jobs)), nil }

func (f *fakeCatalogRepo) UpsertAll(_ context.Context, jobs []models.AvailableJob) error {
	f.upserts++
	f.jobs = jobs
	return nil
}

type fakeEvents struct {
	rows []models.ApplicationEvent
}

func (f *fakeEvents) Insert(_ context.Context, e *models.ApplicationEvent) error {
	f.rows = append(f.rows, *e)
	return nil
}

func (f *fakeEvents) ListByApplication(_ context.Context, uid, id string, _ int) ([]models.ApplicationEvent, error) {
	out := []models.ApplicationEvent{}
	for _, r := range f.rows {
		if r.UserID == uid && r.ApplicationID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeJobs struct {
	mu      sync.Mutex
	m       map[string]models.JobPosting
	creates int
}

func newFakeJobs() *fakeJobs { return &fakeJobs{m: map[string]models.JobPosting{}} }

func (f *fakeJobs) Create(_ context.Context, j *models.JobPosting) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j.ID = primitive.NewObjectID()
	f.m[j.ID.Hex()] = *j
	f.creates++
	return j.ID.Hex(), nil
}

func (f *fakeJobs) Get(_ context.Context, id string) (*models.JobPosting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.m[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &j, nil
}

func (f *fakeJobs) ListByRecruiter(_ context.Context, rid string) ([]models.JobPosting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.JobPosting{}
	for _, j := range f.m {
		if j.RecruiterID == rid {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobs) LatestBySource(_ context.Context, source string, limit int64) ([]models.JobPosting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.JobPosting{}
	for _, j := range f.m {
		if j.JobSource == source && int64(len(out)) < limit {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	changes []live.Change
	err     error
}

func (f *fakeNotifier) Notify(_ context.Context, ch live.Change) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, ch)
	return f.err
}

type fakeUploader struct {
	calls int
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, name, _ string, r io.Reader) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.Copy(io.Discard, r)
	return "https://files.example/" + name, nil
}

type fakeMeta struct {
	calls int
	err   error
}

func (f *fakeMeta) SetPublicRole(context.Context, string, models.Role) error {
	f.calls++
	return f.err
}

type mapCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{m: map[string][]byte{}} }

func (c *mapCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = b
	return nil
}

func (c *mapCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.m, k)
	}
	return nil
}

type fakeDir struct {
	uids []string
}

func (d *fakeDir) FetchAll(context.Context) []models.RecruiterInfo {
	out := []models.RecruiterInfo{}
	for _, u := range d.uids {
		out = append(out, models.RecruiterInfo{UID: u})
	}
	return out
}

func (d *fakeDir) AllUIDs() []string { return d.uids }

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

var errBoom = errors.New("boom")
