package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/hirelytics/hirelytics/internal/forms"
	"github.com/hirelytics/hirelytics/internal/guard"
	"github.com/hirelytics/hirelytics/internal/models"
	mongorepo "github.com/hirelytics/hirelytics/internal/repositories/mongo"
	"github.com/hirelytics/hirelytics/internal/storage"
	"github.com/hirelytics/hirelytics/internal/utils"
	"github.com/hirelytics/hirelytics/internal/validation"
)

// IdentityFields are the name and email the identity provider knows.
type IdentityFields struct {
	FirstName string
	LastName  string
	Email     string
}

type SyncResult struct {
	Changed    bool `json:"changed"`
	Complete   bool `json:"complete"`
	ShowBanner bool `json:"showBanner"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, uid string) (models.UserProfile, error)
	GetRecruiterProfile(ctx context.Context, uid string) (models.RecruiterProfile, error)

	Sync(ctx context.Context, uid string, role models.Role, id IdentityFields, path string) (SyncResult, error)
	// Completion is Sync without the write.
	Completion(ctx context.Context, uid string, role models.Role, path string) (SyncResult, error)

	SaveProfile(ctx context.Context, uid string, f forms.Profile) (models.UserProfile, forms.Result, error)
	SaveRecruiterProfile(ctx context.Context, uid string, f forms.RecruiterProfile) (models.RecruiterProfile, forms.Result, error)
	UploadResume(ctx context.Context, uid, fileName, contentType string, size int64, r io.Reader) (models.UserProfile, forms.Result, error)
	UploadPicture(ctx context.Context, uid, fileName, contentType string, size int64, r io.Reader) (models.UserProfile, forms.Result, error)
}

// Invalidator drops memoized recruiter data after a recruiter profile write.
type Invalidator interface {
	Invalidate()
}

type profileService struct {
	users     mongorepo.UserRepository
	validator *validation.Validator
	uploader  storage.Uploader
	recruits  Invalidator
	inflight  *Inflight
	now       func() time.Time
}

func NewProfileService(users mongorepo.UserRepository, v *validation.Validator, up storage.Uploader, recruits Invalidator, inflight *Inflight) ProfileService {
	if up == nil {
		up = storage.DataURLUploader{}
	}
	return &profileService{
		users:     users,
		validator: v,
		uploader:  up,
		recruits:  recruits,
		inflight:  inflight,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *profileService) load(ctx context.Context, op, uid string) (*models.UserRecord, error) {
	if uid == "" {
		return nil, utils.Unauthenticated(op)
	}
	u, err := s.users.Get(ctx, uid)
	if errors.Is(err, utils.ErrNotFound) {
		return &models.UserRecord{UID: uid}, nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read user", err)
	}
	return u, nil
}

func profileOf(u *models.UserRecord) models.UserProfile {
	if u.Profile == nil {
		return models.DefaultProfile()
	}
	return *u.Profile
}

func recruiterProfileOf(u *models.UserRecord) models.RecruiterProfile {
	if u.RecruiterProfile == nil {
		return models.RecruiterProfile{}
	}
	return *u.RecruiterProfile
}

func (s *profileService) GetProfile(ctx context.Context, uid string) (models.UserProfile, error) {
	u, err := s.load(ctx, "ProfileService.GetProfile", uid)
	if err != nil {
		return models.UserProfile{}, err
	}
	return profileOf(u), nil
}

func (s *profileService) GetRecruiterProfile(ctx context.Context, uid string) (models.RecruiterProfile, error) {
	u, err := s.load(ctx, "ProfileService.GetRecruiterProfile", uid)
	if err != nil {
		return models.RecruiterProfile{}, err
	}
	return recruiterProfileOf(u), nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func fill(stored, fallback string) string {
	if blank(stored) {
		return fallback
	}
	return stored
}

// Sync copies identity fields into blank profile fields and never
// overwrites what the user typed. It writes only when a value changed.
func (s *profileService) Sync(ctx context.Context, uid string, role models.Role, id IdentityFields, path string) (SyncResult, error) {
	const op = "ProfileService.Sync"

	u, err := s.load(ctx, op, uid)
	if err != nil {
		return SyncResult{}, err
	}
	onProfile := guard.IsProfilePage(path, string(role))

	switch role {
	case models.RoleApplicant:
		saved := profileOf(u)
		merged := saved
		merged.FirstName = fill(saved.FirstName, id.FirstName)
		merged.LastName = fill(saved.LastName, id.LastName)
		merged.Email = fill(saved.Email, id.Email)

		changed := merged.FirstName != saved.FirstName || merged.LastName != saved.LastName || merged.Email != saved.Email
		complete := merged.Complete()
		if changed {
			if err := s.users.SetProfile(ctx, uid, merged, complete, s.now()); err != nil {
				return SyncResult{}, utils.E(utils.CodeInternal, op, "failed to save profile", err)
			}
		}
		return SyncResult{Changed: changed, Complete: complete, ShowBanner: onProfile && !complete}, nil

	case models.RoleRecruiter:
		saved := recruiterProfileOf(u)
		merged := saved
		merged.RecruiterEmail = fill(saved.RecruiterEmail, id.Email)
		merged.RecruiterName = fill(saved.RecruiterName, joinName(id.FirstName, id.LastName))

		changed := merged.RecruiterEmail != saved.RecruiterEmail || merged.RecruiterName != saved.RecruiterName
		complete := merged.Complete()
		if changed {
			if err := s.users.SetRecruiterProfile(ctx, uid, merged, complete, s.now()); err != nil {
				return SyncResult{}, utils.E(utils.CodeInternal, op, "failed to save recruiter profile", err)
			}
			s.invalidate()
		}
		return SyncResult{Changed: changed, Complete: complete, ShowBanner: onProfile && !complete}, nil
	}

	return SyncResult{}, nil
}

func (s *profileService) Completion(ctx context.Context, uid string, role models.Role, path string) (SyncResult, error) {
	u, err := s.load(ctx, "ProfileService.Completion", uid)
	if err != nil {
		return SyncResult{}, err
	}
	var complete bool
	switch role {
	case models.RoleApplicant:
		complete = profileOf(u).Complete()
	case models.RoleRecruiter:
		complete = recruiterProfileOf(u).Complete()
	default:
		return SyncResult{}, nil
	}
	return SyncResult{Complete: complete, ShowBanner: guard.IsProfilePage(path, string(role)) && !complete}, nil
}

func joinName(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func (s *profileService) SaveProfile(ctx context.Context, uid string, f forms.Profile) (models.UserProfile, forms.Result, error) {
	const op = "ProfileService.SaveProfile"
	if uid == "" {
		return models.UserProfile{}, forms.Result{}, utils.Unauthenticated(op)
	}
	f.Normalize()
	if err := s.validator.Struct(op, "Missing required fields", f); err != nil {
		return models.UserProfile{}, forms.Result{}, err
	}

	p, err := inflightDo(s.inflight, formKey(uid, "profile"), f, func() (models.UserProfile, error) {
		u, err := s.load(ctx, op, uid)
		if err != nil {
			return models.UserProfile{}, err
		}
		merged := f.Merge(profileOf(u))
		if err := s.users.SetProfile(ctx, uid, merged, merged.Complete(), s.now()); err != nil {
			return models.UserProfile{}, utils.E(utils.CodeInternal, op, "Save failed", err)
		}
		return merged, nil
	})
	if err != nil {
		return models.UserProfile{}, forms.Result{}, err
	}
	return p, forms.Result{Message: forms.ProfileSavedMessage}, nil
}

func (s *profileService) SaveRecruiterProfile(ctx context.Context, uid string, f forms.RecruiterProfile) (models.RecruiterProfile, forms.Result, error) {
	const op = "ProfileService.SaveRecruiterProfile"
	if uid == "" {
		return models.RecruiterProfile{}, forms.Result{}, utils.Unauthenticated(op)
	}
	f.Normalize()
	if err := s.validator.Struct(op, "Missing required field", f); err != nil {
		return models.RecruiterProfile{}, forms.Result{}, err
	}

	p, err := inflightDo(s.inflight, formKey(uid, "recruiterProfile"), f, func() (models.RecruiterProfile, error) {
		p := f.Model()
		if err := s.users.SetRecruiterProfile(ctx, uid, p, p.Complete(), s.now()); err != nil {
			return models.RecruiterProfile{}, utils.E(utils.CodeInternal, op, "Save failed", err)
		}
		s.invalidate()
		return p, nil
	})
	if err != nil {
		return models.RecruiterProfile{}, forms.Result{}, err
	}
	return p, forms.Result{Message: forms.RecruiterSavedMessage}, nil
}

func (s *profileService) invalidate() {
	if s.recruits != nil {
		s.recruits.Invalidate()
	}
}

func (s *profileService) UploadResume(ctx context.Context, uid, fileName, contentType string, size int64, r io.Reader) (models.UserProfile, forms.Result, error) {
	const op = "ProfileService.UploadResume"
	if uid == "" {
		return models.UserProfile{}, forms.Result{}, utils.Unauthenticated(op)
	}
	if err := validation.CheckResume(op, fileName, size); err != nil {
		return models.UserProfile{}, forms.Result{}, err
	}

	p, err := s.storeFile(ctx, op, uid, "resumes", fileName, contentType, r, func(p *models.UserProfile, url string) {
		name := fileName
		p.ResumeFile = &url
		p.ResumeFileName = &name
	})
	if err != nil {
		return models.UserProfile{}, forms.Result{}, err
	}
	return p, forms.Result{Message: forms.ResumeUploadedMessage}, nil
}

func (s *profileService) UploadPicture(ctx context.Context, uid, fileName, contentType string, size int64, r io.Reader) (models.UserProfile, forms.Result, error) {
	const op = "ProfileService.UploadPicture"
	if uid == "" {
		return models.UserProfile{}, forms.Result{}, utils.Unauthenticated(op)
	}
	if err := validation.CheckPicture(op, contentType, size); err != nil {
		return models.UserProfile{}, forms.Result{}, err
	}

	p, err := s.storeFile(ctx, op, uid, "pictures", fileName, contentType, r, func(p *models.UserProfile, url string) {
		p.ProfilePicture = &url
	})
	if err != nil {
		return models.UserProfile{}, forms.Result{}, err
	}
	return p, forms.Result{Message: forms.PictureUploadedMessage}, nil
}

func (s *profileService) storeFile(ctx context.Context, op, uid, kind, fileName, contentType string, r io.Reader, set func(*models.UserProfile, string)) (models.UserProfile, error) {
	u, err := s.load(ctx, op, uid)
	if err != nil {
		return models.UserProfile{}, err
	}

	url, err := s.uploader.Upload(ctx, storage.ObjectName(kind, uid, fileName), contentType, r)
	if err != nil {
		return models.UserProfile{}, utils.E(utils.CodeUnavailable, op, "upload failed", err)
	}

	p := profileOf(u)
	set(&p, url)
	if err := s.users.SetProfile(ctx, uid, p, p.Complete(), s.now()); err != nil {
		return models.UserProfile{}, utils.E(utils.CodeInternal, op, "Save failed", err)
	}
	return p, nil
}
