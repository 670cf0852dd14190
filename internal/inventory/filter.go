package inventory

import (
	"fmt"
	"strings"
)

const (
	// AllAnalysts is the analyst filter value that disables the analyst predicate
	AllAnalysts = "all"

	// allAnalystsAlias is the Spanish label some frontends send for AllAnalysts
	allAnalystsAlias = "Todos"
)

// Criteria holds the user-controlled filter settings
type Criteria struct {
	Analyst           string
	VulnerabilityName string
	MinimumRisk       int
	SearchText        string
}

// DefaultCriteria returns the criteria used after a "clear filters" action
func DefaultCriteria() Criteria {
	return Criteria{Analyst: AllAnalysts}
}

// Validate checks the criteria bounds
func (c Criteria) Validate() error {
	if c.MinimumRisk < 0 || c.MinimumRisk > maxRiskScore {
		return fmt.Errorf("minimum risk must be between 0 and %d, got %d", maxRiskScore, c.MinimumRisk)
	}
	return nil
}

// Active reports whether any filter differs from the defaults. The search text is not a filter.
func (c Criteria) Active() bool {
	return !c.allAnalysts() || c.VulnerabilityName != "" || c.MinimumRisk > 0
}

func (c Criteria) allAnalysts() bool {
	return c.Analyst == "" || strings.EqualFold(c.Analyst, AllAnalysts) || c.Analyst == allAnalystsAlias
}

// Filter returns the assets matching the scope and the criteria. The input order is kept and the input is not
// modified.
func Filter(assets []Asset, scope Scope, criteria Criteria, policy Policy) []Asset {
	ret := make([]Asset, 0)
	for _, a := range assets {
		if Matches(a, scope, criteria, policy) {
			ret = append(ret, a.Clone())
		}
	}
	return ret
}

// Matches evaluates every predicate for a single asset
func Matches(a Asset, scope Scope, criteria Criteria, policy Policy) bool {
	return scope.Allows(a) &&
		matchesSearch(a, criteria.SearchText) &&
		matchesAnalyst(a, scope, criteria) &&
		matchesVulnerabilityName(a, criteria.VulnerabilityName, policy) &&
		a.RiskScore >= criteria.MinimumRisk
}

// matchesSearch matches name and user case-insensitively. The address is matched raw.
func matchesSearch(a Asset, q string) bool {
	if q == "" {
		return true
	}
	lq := strings.ToLower(q)
	return strings.Contains(strings.ToLower(a.Name), lq) ||
		strings.Contains(a.IP, q) ||
		strings.Contains(strings.ToLower(a.User), lq)
}

func matchesAnalyst(a Asset, scope Scope, criteria Criteria) bool {
	if scope.Restricted() {
		return true
	}
	return criteria.allAnalysts() || a.Analyst == criteria.Analyst
}

func matchesVulnerabilityName(a Asset, name string, policy Policy) bool {
	if name == "" {
		return true
	}
	name = strings.ToLower(name)
	for _, v := range a.Vulnerabilities {
		if strings.Contains(strings.ToLower(v.Name), name) && policy.IsOpen(v.Status) {
			return true
		}
	}
	return false
}
