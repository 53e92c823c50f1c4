package services

import (
	"context"
	"testing"

	"github.com/hirelytics/hirelytics/internal/cache"
	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoleSvc(users *fakeUsers, c cache.Cache, meta *fakeMeta) RoleService {
	return NewRoleService(users, c, 0, meta, quietLogger())
}

func TestGetUserRole_NoRecordIsEmptyNotError(t *testing.T) {
	svc := newRoleSvc(newFakeUsers(), newMapCache(), &fakeMeta{})
	role, err := svc.GetUserRole(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.Role(""), role)
}

func TestGetUserRole_EmptyUIDIsUnauthenticated(t *testing.T) {
	svc := newRoleSvc(newFakeUsers(), nil, nil)
	_, err := svc.GetUserRole(context.Background(), "")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthenticated))
}

func TestGetUserRole_CachesKnownRole(t *testing.T) {
	users := newFakeUsers()
	c := newMapCache()
	svc := newRoleSvc(users, c, &fakeMeta{})
	ctx := context.Background()

	require.NoError(t, svc.CreateUserDoc(ctx, CreateUserInput{UID: "u1", Role: models.RoleRecruiter}))
	users.getErr = errBoom

	role, err := svc.GetUserRole(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleRecruiter, role)
}

func TestGetUserRole_StoreFailure(t *testing.T) {
	users := newFakeUsers()
	users.getErr = errBoom
	svc := newRoleSvc(users, newMapCache(), &fakeMeta{})

	_, err := svc.GetUserRole(context.Background(), "u1")
	assert.True(t, utils.IsCode(err, utils.CodeInternal))
}

func TestCreateUserDoc_SameRoleIsIdempotent(t *testing.T) {
	users := newFakeUsers()
	svc := newRoleSvc(users, newMapCache(), &fakeMeta{})
	ctx := context.Background()

	in := CreateUserInput{UID: "u1", Role: models.RoleApplicant, IdentityProviderID: "idp_1"}
	require.NoError(t, svc.CreateUserDoc(ctx, in))
	require.NoError(t, svc.CreateUserDoc(ctx, in))

	u, err := svc.GetUserDoc(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleApplicant, u.Role)
	assert.Equal(t, "idp_1", u.IdentityProviderID)
}

func TestCreateUserDoc_OtherRoleConflicts(t *testing.T) {
	svc := newRoleSvc(newFakeUsers(), newMapCache(), &fakeMeta{})
	ctx := context.Background()

	require.NoError(t, svc.CreateUserDoc(ctx, CreateUserInput{UID: "u1", Role: models.RoleApplicant}))
	err := svc.CreateUserDoc(ctx, CreateUserInput{UID: "u1", Role: models.RoleRecruiter})
	assert.True(t, utils.IsCode(err, utils.CodeConflict))

	role, err := svc.GetUserRole(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleApplicant, role)
}

func TestGetUserDoc_Missing(t *testing.T) {
	svc := newRoleSvc(newFakeUsers(), nil, nil)
	_, err := svc.GetUserDoc(context.Background(), "nobody")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestGetOnboardingStatus(t *testing.T) {
	users := newFakeUsers()
	svc := newRoleSvc(users, nil, nil)
	ctx := context.Background()

	st, err := svc.GetOnboardingStatus(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OnboardingStatus{}, st)

	require.NoError(t, svc.CreateUserDoc(ctx, CreateUserInput{UID: "u1", Role: models.RoleRecruiter}))
	require.NoError(t, users.SetRecruiterProfile(ctx, "u1", models.RecruiterProfile{CompanyName: "Acme", RecruiterEmail: "r@acme.io"}, true, fixedNow))

	st, err = svc.GetOnboardingStatus(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleRecruiter, st.Role)
	assert.True(t, st.RecruiterProfileCompleted)
	assert.False(t, st.ApplicantProfileCompleted)
}

func TestSetRole_Validation(t *testing.T) {
	meta := &fakeMeta{}
	svc := newRoleSvc(newFakeUsers(), nil, meta)
	ctx := context.Background()

	err := svc.SetRole(ctx, "", "applicant")
	assert.Equal(t, 401, utils.HTTPStatus(err))

	err = svc.SetRole(ctx, "u1", "admin")
	assert.Equal(t, 400, utils.HTTPStatus(err))
	assert.Zero(t, meta.calls)
}

func TestSetRole_MetadataFailureDoesNotFail(t *testing.T) {
	users := newFakeUsers()
	meta := &fakeMeta{err: errBoom}
	svc := newRoleSvc(users, newMapCache(), meta)

	require.NoError(t, svc.SetRole(context.Background(), "u1", " Recruiter "))
	assert.Equal(t, 1, meta.calls)
	assert.Equal(t, models.RoleRecruiter, users.m["u1"].Role)
}
