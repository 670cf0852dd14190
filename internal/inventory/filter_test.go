package inventory_test

import (
	"testing"

	"github.com/secassets/inventory-backend/internal/inventory"
	"github.com/stretchr/testify/assert"
)

func fixtureAssets() []inventory.Asset {
	return []inventory.Asset{
		{
			ID:        "A",
			Name:      "WKS-FIN-101",
			IP:        "10.20.1.5",
			User:      "fin.alice",
			Analyst:   "X",
			RiskScore: 80,
			Vulnerabilities: []inventory.Vulnerability{
				{ID: "1", Name: "Google Chrome Heap Buffer Overflow", Severity: inventory.SeverityHigh, Status: inventory.StatusOpen},
			},
		},
		{
			ID:              "B",
			Name:            "WKS-DEV-202",
			IP:              "10.20.2.7",
			User:            "dev.bob",
			Analyst:         "Y",
			RiskScore:       40,
			Vulnerabilities: []inventory.Vulnerability{},
		},
		{
			ID:        "C",
			Name:      "WKS-OPS-303",
			IP:        "10.20.1.9",
			User:      "ops.carol",
			Analyst:   "X",
			RiskScore: 10,
			Vulnerabilities: []inventory.Vulnerability{
				{ID: "2", Name: "Microsoft Office Remote Code Execution", Severity: inventory.SeverityCritical, Status: inventory.StatusFixed},
			},
		},
	}
}

func ids(assets []inventory.Asset) []string {
	ret := []string{}
	for _, a := range assets {
		ret = append(ret, a.ID)
	}
	return ret
}

func TestFilter(t *testing.T) {
	policy := inventory.DefaultPolicy()
	assets := fixtureAssets()

	t.Run("default criteria returns everything in order", func(t *testing.T) {
		got := inventory.Filter(assets, inventory.AdminScope(), inventory.DefaultCriteria(), policy)
		assert.Equal(t, []string{"A", "B", "C"}, ids(got))
	})

	t.Run("empty input", func(t *testing.T) {
		got := inventory.Filter(nil, inventory.AdminScope(), inventory.DefaultCriteria(), policy)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	tt := []struct {
		name     string
		scope    inventory.Scope
		criteria inventory.Criteria
		want     []string
	}{
		{
			name:     "admin analyst filter",
			scope:    inventory.AdminScope(),
			criteria: inventory.Criteria{Analyst: "X"},
			want:     []string{"A", "C"},
		},
		{
			name:     "legacy all analysts alias",
			scope:    inventory.AdminScope(),
			criteria: inventory.Criteria{Analyst: "Todos"},
			want:     []string{"A", "B", "C"},
		},
		{
			name:     "analyst scope restricts to own assets",
			scope:    inventory.AnalystScope("2", "Y"),
			criteria: inventory.DefaultCriteria(),
			want:     []string{"B"},
		},
		{
			name:     "analyst scope ignores analyst filter",
			scope:    inventory.AnalystScope("2", "Y"),
			criteria: inventory.Criteria{Analyst: "X"},
			want:     []string{"B"},
		},
		{
			name:     "search name case-insensitive",
			scope:    inventory.AdminScope(),
			criteria: inventory.Criteria{Analyst: inventory.AllAnalysts, SearchText: "wks-dev"},
			want:     []string{"B"},
		},
		{
			name:     "search ip raw substring",
			scope:    inventory.AdminScope(),
			criteria: inventory.Criteria{Analyst: inventory.AllAnalysts, SearchText: "10.20.1."},
			want:     []string{"A", "C"},
		},
		{
			name:     "search user case-insensitive",
			scope:    inventory.AdminScope(),
			criteria: inventory.Criteria{Analyst: inventory.AllAnalysts, SearchText: "OPS.CAROL"},
			want:     []string{"C"},
		},
		{
			name:     "vulnerability name requires open status",
			scope:    inventory.AdminScope(),
			criteria: inventory.Criteria{Analyst: inventory.AllAnalysts, VulnerabilityName: "office"},
			want:     []string{},
		},
		{
			name:     "vulnerability name matches open vulnerability",
			scope:    inventory.AdminScope(),
			criteria: inventory.Criteria{Analyst: inventory.AllAnalysts, VulnerabilityName: "CHROME"},
			want:     []string{"A"},
		},
		{
			name:     "minimum risk is inclusive",
			scope:    inventory.AdminScope(),
			criteria: inventory.Criteria{Analyst: inventory.AllAnalysts, MinimumRisk: 40},
			want:     []string{"A", "B"},
		},
		{
			name:     "all predicates combined",
			scope:    inventory.AdminScope(),
			criteria: inventory.Criteria{Analyst: "X", SearchText: "wks", VulnerabilityName: "chrome", MinimumRisk: 50},
			want:     []string{"A"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.Filter(assets, tc.scope, tc.criteria, policy)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilter_SingleAsset(t *testing.T) {
	policy := inventory.DefaultPolicy()
	scope := inventory.AdminScope()
	criteria := inventory.Criteria{Analyst: "X", MinimumRisk: 50}

	for _, a := range fixtureAssets() {
		got := inventory.Filter([]inventory.Asset{a}, scope, criteria, policy)
		if inventory.Matches(a, scope, criteria, policy) {
			assert.Equal(t, []string{a.ID}, ids(got))
		} else {
			assert.Empty(t, got)
		}
		assert.Empty(t, inventory.Filter([]inventory.Asset{}, scope, criteria, policy))
	}
}

func TestFilter_AnalystScopeNeverLeaks(t *testing.T) {
	assets := fixtureAssets()
	assets = append(assets, inventory.Asset{ID: "D", Name: "WKS-LEG-404", Analyst: "Jorge Venti", RiskScore: 90})
	scope := inventory.AnalystScope("7", "Jorge Venti")

	for _, criteria := range []inventory.Criteria{
		inventory.DefaultCriteria(),
		{Analyst: "X"},
		{Analyst: inventory.AllAnalysts, SearchText: "WKS"},
		{Analyst: inventory.AllAnalysts, MinimumRisk: 0},
	} {
		for _, a := range inventory.Filter(assets, scope, criteria, inventory.DefaultPolicy()) {
			assert.Equal(t, "Jorge Venti", a.Analyst)
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	assets := fixtureAssets()
	got := inventory.Filter(assets, inventory.AdminScope(), inventory.DefaultCriteria(), inventory.DefaultPolicy())
	got[0].Vulnerabilities[0].Name = "changed"
	got[0].Name = "changed"
	assert.Equal(t, "Google Chrome Heap Buffer Overflow", assets[0].Vulnerabilities[0].Name)
	assert.Equal(t, "WKS-FIN-101", assets[0].Name)
}

func TestFilter_ConfiguredOpenStatuses(t *testing.T) {
	policy := inventory.DefaultPolicy()
	policy.OpenStatuses = []string{inventory.StatusOpen}

	assets := []inventory.Asset{
		{ID: "1", Vulnerabilities: []inventory.Vulnerability{{Name: "Chrome", Status: inventory.StatusActive}}},
		{ID: "2", Vulnerabilities: []inventory.Vulnerability{{Name: "Chrome", Status: "open"}}},
	}
	got := inventory.Filter(assets, inventory.AdminScope(), inventory.Criteria{VulnerabilityName: "chrome"}, policy)
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestCriteria(t *testing.T) {
	t.Run("defaults are not active", func(t *testing.T) {
		assert.False(t, inventory.DefaultCriteria().Active())
		assert.False(t, inventory.Criteria{Analyst: inventory.AllAnalysts, SearchText: "foo"}.Active())
	})

	t.Run("active filters", func(t *testing.T) {
		assert.True(t, inventory.Criteria{Analyst: "X"}.Active())
		assert.True(t, inventory.Criteria{VulnerabilityName: "chrome"}.Active())
		assert.True(t, inventory.Criteria{MinimumRisk: 10}.Active())
	})

	t.Run("validate", func(t *testing.T) {
		assert.NoError(t, inventory.DefaultCriteria().Validate())
		assert.NoError(t, inventory.Criteria{MinimumRisk: 100}.Validate())
		assert.EqualError(t, inventory.Criteria{MinimumRisk: 101}.Validate(), "minimum risk must be between 0 and 100, got 101")
		assert.Error(t, inventory.Criteria{MinimumRisk: -1}.Validate())
	})
}
