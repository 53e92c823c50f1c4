package guard

import "github.com/hirelytics/hirelytics/internal/models"

type Action string

const (
	Allow    Action = "allow"
	SignIn   Action = "sign_in"
	Wait     Action = "wait"
	Redirect Action = "redirect"
)

type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Decision struct {
	Action   Action `json:"action"`
	Location string `json:"location,omitempty"`
	Toast    *Toast `json:"toast,omitempty"`
}

var (
	toastSignIn    = &Toast{Title: "Please sign in to continue", Description: "This area is for members only."}
	toastRecruiter = &Toast{Title: "Recruiter account", Description: "This page is for applicants."}
	toastApplicant = &Toast{Title: "Applicant account", Description: "This page is for recruiters."}
)

// Decide is the single navigation rule both the page middleware and the
// shell endpoint apply.
func Decide(path string, st State) Decision {
	if IsPublic(path) || !IsProtected(path) {
		return Decision{Action: Allow}
	}

	switch st.Phase {
	case SignedOut:
		return Decision{Action: SignIn, Location: "/", Toast: toastSignIn}
	case Linking:
		return Decision{Action: Wait}
	case RoleUnknown:
		if inArea(path, "/role") {
			return Decision{Action: Allow}
		}
		return Decision{Action: Redirect, Location: "/role"}
	}

	switch {
	case inArea(path, "/applicant") && st.Role != models.RoleApplicant:
		return Decision{Action: Redirect, Location: models.RoleRecruiter.Home(), Toast: toastRecruiter}
	case inArea(path, "/recruiter") && st.Role != models.RoleRecruiter:
		return Decision{Action: Redirect, Location: models.RoleApplicant.Home(), Toast: toastApplicant}
	case inArea(path, "/role"):
		return Decision{Action: Redirect, Location: st.Role.Home()}
	}
	return Decision{Action: Allow}
}
