package access

import "sort"

// Screen describes the protection applied to one client screen.
type Screen struct {
	Name    string
	Public  bool
	Allowed RoleSet
}

var screens = map[string]Screen{
	"home":     {Name: "home", Public: true},
	"explore":  {Name: "explore", Public: true},
	"place":    {Name: "place", Public: true},
	"login":    {Name: "login", Public: true},
	"register": {Name: "register", Public: true},

	"book-guide":  {Name: "book-guide"},
	"my-bookings": {Name: "my-bookings"},

	"guide-dashboard": {Name: "guide-dashboard", Allowed: Roles(RoleGuide)},
	"guide-requests":  {Name: "guide-requests", Allowed: Roles(RoleGuide)},
	"guide-profile":   {Name: "guide-profile", Allowed: Roles(RoleGuide)},

	"admin-home":     {Name: "admin-home", Allowed: Roles(RoleAdmin)},
	"admin-guides":   {Name: "admin-guides", Allowed: Roles(RoleAdmin)},
	"admin-users":    {Name: "admin-users", Allowed: Roles(RoleAdmin)},
	"admin-places":   {Name: "admin-places", Allowed: Roles(RoleAdmin)},
	"admin-bookings": {Name: "admin-bookings", Allowed: Roles(RoleAdmin)},
}

// LookupScreen returns the screen registered under name.
func LookupScreen(name string) (Screen, bool) {
	s, ok := screens[name]
	return s, ok
}

// ScreenNames returns every registered screen, sorted.
func ScreenNames() []string {
	names := make([]string, 0, len(screens))
	for name := range screens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check applies the gate to the screen. Public screens allow everyone.
func (s Screen) Check(p *Principal) Decision {
	if s.Public {
		return Allow
	}
	return Authorize(p, s.Allowed)
}
