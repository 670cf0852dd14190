package inventory

import (
	"errors"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleAnalyst Role = "Analyst"
)

var (
	ErrUnknownRole    = errors.New("unknown role")
	ErrMissingAnalyst = errors.New("analyst scope requires an analyst name")
)

// Scope is the visibility restriction of a session. It is derived from a user selection and never verified:
// treat it as a display hint, access control belongs to the backend.
type Scope struct {
	Role        Role
	AnalystID   string
	AnalystName string
}

func AdminScope() Scope {
	return Scope{Role: RoleAdmin}
}

func AnalystScope(id, name string) Scope {
	return Scope{Role: RoleAnalyst, AnalystID: id, AnalystName: name}
}

// ParseRole parses a role case-insensitively
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "analyst":
		return RoleAnalyst, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// ResolveScope turns a user selection into a Scope. The analyst is ignored for admins.
func ResolveScope(role string, analyst Analyst) (Scope, error) {
	r, err := ParseRole(role)
	if err != nil {
		return Scope{}, err
	}

	if r == RoleAdmin {
		return AdminScope(), nil
	}

	if strings.TrimSpace(analyst.Name) == "" {
		return Scope{}, ErrMissingAnalyst
	}
	return AnalystScope(analyst.ID, analyst.Name), nil
}

// Restricted reports whether the scope only sees self-assigned assets
func (s Scope) Restricted() bool {
	return s.Role == RoleAnalyst
}

// ShowAnalystFilter reports whether the analyst filter control is exposed
func (s Scope) ShowAnalystFilter() bool {
	return !s.Restricted()
}

// Allows reports whether the asset is visible in this scope
func (s Scope) Allows(a Asset) bool {
	if !s.Restricted() {
		return true
	}
	return a.Analyst == s.AnalystName
}

func (s Scope) String() string {
	if s.Restricted() {
		return fmt.Sprintf("%s:%s", s.Role, s.AnalystName)
	}
	return string(s.Role)
}
