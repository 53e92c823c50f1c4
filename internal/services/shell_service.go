package services

import (
	"context"

	"github.com/hirelytics/hirelytics/internal/guard"
	"github.com/hirelytics/hirelytics/internal/models"
	"golang.org/x/sync/errgroup"
)

// ShellView is everything the app shell renders from for one path.
type ShellView struct {
	State           guard.Phase    `json:"state"`
	Role            models.Role    `json:"role,omitempty"`
	Page            guard.Page     `json:"page"`
	Decision        guard.Decision `json:"decision"`
	ShowNavbar      bool           `json:"showNavbar"`
	ShowBanner      bool           `json:"showBanner"`
	ProfileComplete bool           `json:"profileComplete"`
}

type ShellService interface {
	// View resolves the shell for uid ("" when signed out). linked is
	// false while the client is still linking to the backing store.
	View(ctx context.Context, uid string, linked bool, path string) (ShellView, error)
}

type shellService struct {
	roles    RoleService
	profiles ProfileService
}

func NewShellService(roles RoleService, profiles ProfileService) ShellService {
	return &shellService{roles: roles, profiles: profiles}
}

func (s *shellService) View(ctx context.Context, uid string, linked bool, path string) (ShellView, error) {
	page := guard.PageFromPath(path)
	if uid == "" || !linked {
		st := guard.Resolve(uid != "", linked, "")
		return ShellView{State: st.Phase, Page: page, Decision: guard.Decide(path, st)}, nil
	}

	// the profile check does not depend on the role, so run it for both
	var (
		role                 models.Role
		applicant, recruiter SyncResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		role, err = s.roles.GetUserRole(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		applicant, err = s.profiles.Completion(gctx, uid, models.RoleApplicant, path)
		return err
	})
	g.Go(func() (err error) {
		recruiter, err = s.profiles.Completion(gctx, uid, models.RoleRecruiter, path)
		return err
	})
	if err := g.Wait(); err != nil {
		return ShellView{}, err
	}

	st := guard.Resolve(true, true, role)
	v := ShellView{
		State:      st.Phase,
		Role:       st.Role,
		Page:       page,
		Decision:   guard.Decide(path, st),
		ShowNavbar: st.Phase == guard.Ready && page != guard.PageRole,
	}

	switch st.Role {
	case models.RoleApplicant:
		v.ProfileComplete, v.ShowBanner = applicant.Complete, applicant.ShowBanner
	case models.RoleRecruiter:
		v.ProfileComplete, v.ShowBanner = recruiter.Complete, recruiter.ShowBanner
	}
	return v, nil
}
