package services

import (
	"context"
	"errors"
	"time"

	"github.com/hirelytics/hirelytics/internal/cache"
	"github.com/hirelytics/hirelytics/internal/identity"
	"github.com/hirelytics/hirelytics/internal/models"
	mongorepo "github.com/hirelytics/hirelytics/internal/repositories/mongo"
	"github.com/hirelytics/hirelytics/internal/utils"
	"github.com/sirupsen/logrus"
)

// RoleService is the one place a user's role is read from. Page guards,
// API guards and the shell all go through it.
type RoleService interface {
	GetUserRole(ctx context.Context, uid string) (models.Role, error)
	GetUserDoc(ctx context.Context, uid string) (*models.UserRecord, error)
	GetOnboardingStatus(ctx context.Context, uid string) (models.OnboardingStatus, error)
	CreateUserDoc(ctx context.Context, in CreateUserInput) error
	SetRole(ctx context.Context, uid, role string) error
}

type CreateUserInput struct {
	UID                string
	Role               models.Role
	IdentityProviderID string
}

type roleService struct {
	users mongorepo.UserRepository
	cache cache.Cache
	ttl   time.Duration
	meta  identity.MetadataWriter
	log   *logrus.Logger
	now   func() time.Time
}

func NewRoleService(users mongorepo.UserRepository, c cache.Cache, ttl time.Duration, meta identity.MetadataWriter, log *logrus.Logger) RoleService {
	if c == nil {
		c = cache.Nop{}
	}
	if meta == nil {
		meta = identity.NopMetadataWriter{}
	}
	return &roleService{users: users, cache: c, ttl: ttl, meta: meta, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// GetUserRole returns "" with no error when the user has not picked a role.
// Known roles are cached; a missing one is not, so a fresh pick shows up at once.
func (s *roleService) GetUserRole(ctx context.Context, uid string) (models.Role, error) {
	const op = "RoleService.GetUserRole"
	if uid == "" {
		return "", utils.Unauthenticated(op)
	}

	var cached models.Role
	if hit, err := s.cache.GetJSON(ctx, cache.RoleKey(uid), &cached); err == nil && hit && cached.Valid() {
		return cached, nil
	}

	u, err := s.users.Get(ctx, uid)
	if errors.Is(err, utils.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to read user", err)
	}
	if !u.Role.Valid() {
		return "", nil
	}
	_ = s.cache.SetJSON(ctx, cache.RoleKey(uid), u.Role, s.ttl)
	return u.Role, nil
}

func (s *roleService) GetUserDoc(ctx context.Context, uid string) (*models.UserRecord, error) {
	const op = "RoleService.GetUserDoc"
	if uid == "" {
		return nil, utils.Unauthenticated(op)
	}
	u, err := s.users.Get(ctx, uid)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read user", err)
	}
	return u, nil
}

func (s *roleService) GetOnboardingStatus(ctx context.Context, uid string) (models.OnboardingStatus, error) {
	const op = "RoleService.GetOnboardingStatus"
	if uid == "" {
		return models.OnboardingStatus{}, utils.Unauthenticated(op)
	}
	u, err := s.users.Get(ctx, uid)
	if errors.Is(err, utils.ErrNotFound) {
		return models.OnboardingStatus{}, nil
	}
	if err != nil {
		return models.OnboardingStatus{}, utils.E(utils.CodeInternal, op, "failed to read user", err)
	}
	return models.OnboardingStatus{
		Role:                      u.Role,
		ApplicantProfileCompleted: u.ApplicantProfileCompleted,
		RecruiterProfileCompleted: u.RecruiterProfileCompleted,
	}, nil
}

// CreateUserDoc is idempotent for the same role. A record that already
// holds the other role is a conflict; roles never change.
func (s *roleService) CreateUserDoc(ctx context.Context, in CreateUserInput) error {
	const op = "RoleService.CreateUserDoc"
	if in.UID == "" {
		return utils.Unauthenticated(op)
	}
	if !in.Role.Valid() {
		return utils.Invalid(op, "Invalid role", map[string]string{"role": "Must be one of: applicant, recruiter"})
	}

	err := s.users.CreateWithRole(ctx, in.UID, in.Role, in.IdentityProviderID, s.now())
	if errors.Is(err, utils.ErrConflict) {
		return utils.E(utils.CodeConflict, op, "role already chosen", err)
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to save user", err)
	}
	_ = s.cache.SetJSON(ctx, cache.RoleKey(in.UID), in.Role, s.ttl)
	return nil
}

func (s *roleService) SetRole(ctx context.Context, uid, raw string) error {
	const op = "RoleService.SetRole"
	if uid == "" {
		return utils.Unauthenticated(op)
	}
	role, ok := models.ParseRole(raw)
	if !ok {
		return utils.Invalid(op, "Invalid role", map[string]string{"role": "Must be one of: applicant, recruiter"})
	}

	if err := s.CreateUserDoc(ctx, CreateUserInput{UID: uid, Role: role, IdentityProviderID: uid}); err != nil {
		return err
	}

	// the database record is authoritative; the mirror is best effort
	if err := s.meta.SetPublicRole(ctx, uid, role); err != nil && s.log != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"user_id": uid, "role": role}).Warn("role metadata sync failed")
	}
	return nil
}
