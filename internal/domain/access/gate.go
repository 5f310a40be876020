package access

// Decision is the outcome of an authorization check.
type Decision string

const (
	Allow         Decision = "allow"
	RedirectLogin Decision = "redirect_login"
	RedirectHome  Decision = "redirect_home"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Target returns the navigation target for a redirect decision, or "" for Allow.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectHome:
		return HomePath
	}
	return ""
}

// Authorize is the gate. It is pure and total: every combination of inputs
// maps to exactly one decision.
func Authorize(p *Principal, allowed RoleSet) Decision {
	if p == nil {
		return RedirectLogin
	}
	if allowed != nil && !allowed.Contains(p.Role) {
		return RedirectHome
	}
	return Allow
}
