// Package session owns who the browser is logged in as. The state is carried
// per request in the gin context and persisted in two cookies, token and user,
// that are always written and cleared together.
package session

import "aduan/frontend/internal/models"

// State is one of Pending, Anonymous or Authenticated.
type State interface {
	isState()
}

// Pending means the persisted session has not been revalidated yet.
type Pending struct{}

// Anonymous means nobody is logged in.
type Anonymous struct{}

// Authenticated is a revalidated session.
type Authenticated struct {
	User  models.User
	Token string
}

func (Pending) isState()       {}
func (Anonymous) isState()     {}
func (Authenticated) isState() {}

// HasRole reports whether s is authenticated with one of roles.
func HasRole(s State, roles ...models.Role) bool {
	auth, ok := s.(Authenticated)
	if !ok {
		return false
	}
	for _, r := range roles {
		if auth.User.Role == r {
			return true
		}
	}
	return false
}

// HomePath is where a user of role lands after logging in.
func HomePath(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard"
	case models.RoleReviewer:
		return "/simrs/dashboard"
	case models.RoleTechnician:
		return "/teknisi/complaints"
	case models.RoleRoom:
		return "/ruangan/complaints"
	default:
		return "/dashboard"
	}
}

// Decision is what a guarded page does with the current state.
type Decision int

const (
	Render Decision = iota
	Loading
	RedirectLogin
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect-login"
	case RedirectUnauthorized:
		return "redirect-unauthorized"
	default:
		return "unknown"
	}
}

// Decide guards a page open to roles. An empty roles list admits any
// authenticated user.
func Decide(s State, roles ...models.Role) Decision {
	switch s := s.(type) {
	case Authenticated:
		if len(roles) == 0 || HasRole(s, roles...) {
			return Render
		}
		return RedirectUnauthorized
	case Anonymous:
		return RedirectLogin
	case Pending:
		return Loading
	default:
		return Loading
	}
}
