package guard

import "github.com/hirelytics/hirelytics/internal/models"

type Phase int

const (
	SignedOut Phase = iota
	Linking
	RoleUnknown
	Ready
)

func (p Phase) String() string {
	switch p {
	case SignedOut:
		return "signed_out"
	case Linking:
		return "linking"
	case RoleUnknown:
		return "role_unknown"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// State is where a visitor stands in the sign-in flow. Role is set only
// in the Ready phase.
type State struct {
	Phase Phase
	Role  models.Role
}

func StateSignedOut() State   { return State{Phase: SignedOut} }
func StateLinking() State     { return State{Phase: Linking} }
func StateRoleUnknown() State { return State{Phase: RoleUnknown} }

func StateReady(r models.Role) State {
	if !r.Valid() {
		return StateRoleUnknown()
	}
	return State{Phase: Ready, Role: r}
}

// Resolve builds the State from what the caller knows: whether a session
// exists, whether the backing store link is done, and the stored role.
func Resolve(signedIn, linked bool, role models.Role) State {
	switch {
	case !signedIn:
		return StateSignedOut()
	case !linked:
		return StateLinking()
	default:
		return StateReady(role)
	}
}
