package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleApplicant Role = "applicant"
	RoleRecruiter Role = "recruiter"
)

// ParseRole accepts only the two application roles.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleApplicant:
		return RoleApplicant, true
	case RoleRecruiter:
		return RoleRecruiter, true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	return r == RoleApplicant || r == RoleRecruiter
}

// Home is the landing page for a signed-in user of this role.
func (r Role) Home() string {
	if r == RoleRecruiter {
		return "/recruiter/myJobs"
	}
	return "/applicant/applications"
}

// UserRecord is the users/{uid} document.
type UserRecord struct {
	UID                string `bson:"_id" json:"uid"`
	Role               Role   `bson:"role,omitempty" json:"role,omitempty"`
	IdentityProviderID string `bson:"identity_provider_user_id,omitempty" json:"identityProviderUserId,omitempty"`

	Profile          *UserProfile      `bson:"profile,omitempty" json:"profile,omitempty"`
	RecruiterProfile *RecruiterProfile `bson:"recruiter_profile,omitempty" json:"recruiterProfile,omitempty"`

	ApplicantProfileCompleted bool `bson:"applicant_profile_completed" json:"applicantProfileCompleted"`
	RecruiterProfileCompleted bool `bson:"recruiter_profile_completed" json:"recruiterProfileCompleted"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updatedAt"`
}

type OnboardingStatus struct {
	Role                      Role `json:"role"`
	ApplicantProfileCompleted bool `json:"applicantProfileCompleted"`
	RecruiterProfileCompleted bool `json:"recruiterProfileCompleted"`
}

// RecruiterInfo pairs a recruiter uid with its company profile.
type RecruiterInfo struct {
	UID     string           `json:"uid"`
	Profile RecruiterProfile `json:"profile"`
}
