// Package access models principals, roles and the authorization gate that
// decides whether a principal may reach a protected screen or endpoint.
package access

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Role is the single role a principal holds for its whole lifetime.
type Role string

const (
	RoleTourist Role = "tourist"
	RoleGuide   Role = "guide"
	RoleAdmin   Role = "admin"
)

// legacyTouristRole is the tag older accounts were stored with.
const legacyTouristRole = "user"

// IsValid returns true for the three known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleTourist, RoleGuide, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole normalizes a role tag, accepting "user" as tourist.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == legacyTouristRole {
		return RoleTourist, nil
	}
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}

// Principal is the authenticated caller.
type Principal struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
}

// Is reports whether the principal holds role r.
func (p *Principal) Is(r Role) bool {
	return p != nil && p.Role == r
}

// RoleSet is an allow-list of roles. A nil RoleSet means any authenticated
// principal; a non-nil empty RoleSet admits nobody.
type RoleSet map[Role]struct{}

// Roles builds a RoleSet. Calling it with no arguments yields an empty,
// non-nil set.
func Roles(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}
