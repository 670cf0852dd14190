package export_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/secassets/inventory-backend/internal/export"
	"github.com/secassets/inventory-backend/internal/inventory"
	"github.com/secassets/inventory-backend/internal/session"
	"github.com/secassets/inventory-backend/internal/store"
	"github.com/secassets/inventory-backend/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewer struct {
	assets   []inventory.Asset
	err      error
	criteria inventory.Criteria
}

func (v *viewer) View(_ context.Context, scope inventory.Scope, criteria inventory.Criteria) (*store.View, error) {
	v.criteria = criteria
	if v.err != nil {
		return nil, v.err
	}
	filtered := inventory.Filter(v.assets, scope, criteria, inventory.DefaultPolicy())
	return &store.View{Assets: filtered, Stats: inventory.Aggregate(filtered, inventory.DefaultPolicy())}, nil
}

var assets = []inventory.Asset{
	{ID: "1", Name: "WKS-FIN-101", IP: "10.0.0.5", Analyst: "X", RiskScore: 80},
	{ID: "2", Name: "WKS-DEV-202", IP: "10.0.0.6", Analyst: "Y", RiskScore: 50},
	{ID: "3", Name: "WKS-OPS-303", IP: "10.0.0.7", Analyst: "X", RiskScore: 10},
}

func get(t *testing.T, h http.Handler, target string, scope *inventory.Scope) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, target, nil)
	if scope != nil {
		r = r.WithContext(session.WithScope(r.Context(), *scope))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestHandler(t *testing.T) {
	log, _ := test.NullLogger(t)
	admin := inventory.AdminScope()

	t.Run("workstations", func(t *testing.T) {
		h := export.New(&viewer{assets: assets}, log)

		rec := get(t, h.Workstations(), "/export/workstations?analyst=X", &admin)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "WKS-FIN-101\nWKS-OPS-303", rec.Body.String())
	})

	t.Run("ips", func(t *testing.T) {
		h := export.New(&viewer{assets: assets}, log)

		rec := get(t, h.IPs(), "/export/ips?minRisk=50", &admin)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10.0.0.5\n10.0.0.6", rec.Body.String())
	})

	t.Run("empty list", func(t *testing.T) {
		h := export.New(&viewer{assets: assets}, log)

		rec := get(t, h.IPs(), "/export/ips?q=nothing", &admin)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("no session", func(t *testing.T) {
		h := export.New(&viewer{assets: assets}, log)

		rec := get(t, h.Workstations(), "/export/workstations", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid criteria", func(t *testing.T) {
		h := export.New(&viewer{assets: assets}, log)

		rec := get(t, h.Workstations(), "/export/workstations?minRisk=high", &admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("backend unavailable", func(t *testing.T) {
		h := export.New(&viewer{err: fmt.Errorf("%w: timeout", store.ErrBackendUnavailable)}, log)

		rec := get(t, h.Workstations(), "/export/workstations", &admin)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		h := export.New(&viewer{assets: assets}, log)

		rec := httptest.NewRecorder()
		h.IPs().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/export/ips", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestCriteriaFromQuery(t *testing.T) {
	criteria, err := export.CriteriaFromQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, inventory.DefaultCriteria(), criteria)

	criteria, err = export.CriteriaFromQuery(url.Values{"q": {"10.0"}, "analyst": {"X"}, "vuln": {"chrome"}, "minRisk": {"30"}})
	require.NoError(t, err)
	assert.Equal(t, inventory.Criteria{Analyst: "X", VulnerabilityName: "chrome", MinimumRisk: 30, SearchText: "10.0"}, criteria)

	_, err = export.CriteriaFromQuery(url.Values{"minRisk": {"-1"}})
	assert.EqualError(t, err, "minimum risk must be between 0 and 100, got -1")

	_, err = export.CriteriaFromQuery(url.Values{"minRisk": {"x"}})
	assert.EqualError(t, err, `minRisk must be a number, got "x"`)
}
