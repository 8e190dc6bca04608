// Package gate maps a signed-in session to the views its role may reach.
//
// The session is always passed in explicitly; nothing here reads global
// state, so navigation rules can be checked in isolation.
package gate

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type View string

const (
	ViewSignIn    View = "signIn"
	ViewDailyLog  View = "dailyLog"
	ViewEmployees View = "employees"
	ViewServices  View = "services"
	ViewReports   View = "reports"
)

var allowed = map[Role][]View{
	RoleAdmin: {ViewDailyLog, ViewEmployees, ViewServices, ViewReports},
	RoleUser:  {ViewDailyLog, ViewServices},
}

// Session is what the auth layer knows about the caller.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// ResolveRole turns a role claim into a Role. Anything other than "admin",
// including an absent claim, is the default role.
func ResolveRole(claim string) Role {
	if Role(claim) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// AllowedViews returns the navigation destinations for role, in menu order.
func AllowedViews(role Role) []View {
	views := allowed[ResolveRole(string(role))]
	out := make([]View, len(views))
	copy(out, views)
	return out
}

func Allows(role Role, view View) bool {
	for _, v := range allowed[ResolveRole(string(role))] {
		if v == view {
			return true
		}
	}
	return false
}

// Decision is the outcome of a navigation request.
type Decision struct {
	Requested View   `json:"requested"`
	View      View   `json:"view"`
	Role      Role   `json:"role,omitempty"`
	Allowed   []View `json:"allowed"`
	// FellBack is set when the requested view was not allowed and the
	// daily log was chosen instead.
	FellBack bool `json:"fell_back"`
}

// Navigate resolves which view a session lands on. Without a session the
// caller must sign in; a view outside the role's allow-list falls back to the
// daily log.
func Navigate(s *Session, requested View) Decision {
	if s == nil {
		return Decision{Requested: requested, View: ViewSignIn, Allowed: []View{ViewSignIn}}
	}
	role := ResolveRole(string(s.Role))
	d := Decision{
		Requested: requested,
		View:      requested,
		Role:      role,
		Allowed:   AllowedViews(role),
	}
	if !Allows(role, requested) {
		d.View = ViewDailyLog
		d.FellBack = true
	}
	return d
}
