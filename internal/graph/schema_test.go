package graph_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/secassets/inventory-backend/internal/backend"
	"github.com/secassets/inventory-backend/internal/graph"
	"github.com/secassets/inventory-backend/internal/graph/apierror"
	"github.com/secassets/inventory-backend/internal/inventory"
	"github.com/secassets/inventory-backend/internal/patch"
	"github.com/secassets/inventory-backend/internal/search"
	"github.com/secassets/inventory-backend/internal/session"
	"github.com/secassets/inventory-backend/internal/store"
	"github.com/secassets/inventory-backend/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
)

func vuln(id, name, product, severity string) backend.RawVulnerability {
	return backend.RawVulnerability{
		ID: backend.ID(id), VulnName: name, ProductName: product, Severity: severity,
		Detection: &backend.RawAssetVulnLink{State: "Active", DetectedAt: "2024-02-10"},
	}
}

func rawAssets() []backend.RawAsset {
	return []backend.RawAsset{
		{
			ID: "1", AssetName: "A", IP: "10.0.0.1", UserID: "ana", Analyst: &backend.RawAnalyst{ID: "2", Name: "X"},
			Vulnerabilities: []backend.RawVulnerability{
				vuln("10", "Chrome RCE", "Google Chrome", "Critical"),
				vuln("11", "Java Deserialization", "Oracle Java", "Critical"),
				vuln("12", "7-Zip Overflow", "7-Zip", "Medium"),
			},
		},
		{
			ID: "2", AssetName: "B", IP: "10.0.0.2", UserID: "bob", Analyst: &backend.RawAnalyst{ID: "3", Name: "Y"},
			Vulnerabilities: []backend.RawVulnerability{
				vuln("13", "Edge Spoofing", "Microsoft Edge", "High"),
				vuln("14", "Edge UAF", "Microsoft Edge", "High"),
				vuln("15", "PDF Reader", "Adobe Reader", "Medium"),
			},
		},
		{
			ID: "3", AssetName: "C", IP: "10.0.0.3", UserID: "carl", Analyst: &backend.RawAnalyst{ID: "2", Name: "X"},
			Vulnerabilities: []backend.RawVulnerability{
				vuln("16", "OpenSSL", "OpenSSL", "Medium"),
			},
		},
	}
}

type patcher struct {
	requests []*patch.Request
	err      error
}

func (p *patcher) BulkPatch(_ context.Context, req *patch.Request) (*backend.PatchResult, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return &backend.PatchResult{StatusCode: http.StatusOK, Message: "ok"}, nil
}

type fixture struct {
	source  *store.MockSource
	patcher *patcher
	reader  *metric.ManualReader
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log, _ := test.NullLogger(t)
	meter, reader := test.Meter(t)
	metrics, err := graph.NewMetrics(meter)
	require.NoError(t, err)

	source := store.NewMockSource(t)
	st := store.New(source, inventory.DefaultPolicy(), log)
	p := &patcher{}

	schema, err := graph.NewSchema(&graph.Resolver{
		Store:        st,
		Searcher:     search.New(st),
		Patcher:      p,
		PatchBuilder: patch.NewBuilder(false),
		Metrics:      metrics,
		Log:          log,
	})
	require.NoError(t, err)

	return &fixture{source: source, patcher: p, reader: reader, handler: graph.NewHandler(schema, log)}
}

type response struct {
	Data   map[string]any `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (f *fixture) do(t *testing.T, scope *inventory.Scope, query string, variables map[string]any) response {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	if scope != nil {
		r = r.WithContext(session.WithScope(r.Context(), *scope))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)

	ret := response{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ret))
	return ret
}

func scopePtr(s inventory.Scope) *inventory.Scope {
	return &s
}

func TestInventory(t *testing.T) {
	const query = `query($filter: AssetFilter) {
		inventory(filter: $filter) {
			assets { name riskScore riskLevel }
			stats { totalAssets criticalAssets appVulnerabilityCount averageRisk severityDistribution { severity count } }
			filtersActive
		}
	}`

	t.Run("admin filtered on analyst", func(t *testing.T) {
		f := newFixture(t)
		f.source.EXPECT().Assets(mock.Anything).Return(rawAssets(), nil).Once()

		res := f.do(t, scopePtr(inventory.AdminScope()), query, map[string]any{"filter": map[string]any{"analyst": "X"}})
		require.Empty(t, res.Errors)

		inv := res.Data["inventory"].(map[string]any)
		assets := inv["assets"].([]any)
		require.Len(t, assets, 2)
		assert.Equal(t, map[string]any{"name": "A", "riskScore": float64(80), "riskLevel": "high"}, assets[0])
		assert.Equal(t, map[string]any{"name": "C", "riskScore": float64(10), "riskLevel": "low"}, assets[1])
		assert.Equal(t, true, inv["filtersActive"])

		stats := inv["stats"].(map[string]any)
		assert.Equal(t, float64(2), stats["totalAssets"])
		assert.Equal(t, float64(1), stats["criticalAssets"])
		assert.Equal(t, float64(1), stats["appVulnerabilityCount"])
		assert.Equal(t, float64(45), stats["averageRisk"])
		assert.Equal(t, []any{
			map[string]any{"severity": "Critical", "count": float64(2)},
			map[string]any{"severity": "High", "count": float64(0)},
			map[string]any{"severity": "Medium", "count": float64(2)},
			map[string]any{"severity": "Low", "count": float64(0)},
			map[string]any{"severity": "Unknown", "count": float64(0)},
		}, stats["severityDistribution"])
	})

	t.Run("analyst scope ignores the analyst filter", func(t *testing.T) {
		f := newFixture(t)
		f.source.EXPECT().AssetsForAnalyst(mock.Anything, "3").Return(rawAssets(), nil).Once()

		res := f.do(t, scopePtr(inventory.AnalystScope("3", "Y")), query, map[string]any{"filter": map[string]any{"analyst": "X"}})
		require.Empty(t, res.Errors)
		assets := res.Data["inventory"].(map[string]any)["assets"].([]any)
		require.Len(t, assets, 1)
		assert.Equal(t, "B", assets[0].(map[string]any)["name"])
	})

	t.Run("no session", func(t *testing.T) {
		f := newFixture(t)

		res := f.do(t, nil, query, nil)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, apierror.ErrNoSession.Error(), res.Errors[0].Message)
	})

	t.Run("invalid minimum risk", func(t *testing.T) {
		f := newFixture(t)

		res := f.do(t, scopePtr(inventory.AdminScope()), query, map[string]any{"filter": map[string]any{"minRisk": 101}})
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "Invalid filter: minimum risk must be between 0 and 100, got 101.", res.Errors[0].Message)
	})

	t.Run("backend unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.source.EXPECT().Assets(mock.Anything).Return(nil, errors.New("connection refused")).Once()

		res := f.do(t, scopePtr(inventory.AdminScope()), query, nil)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, apierror.ErrBackendUnavailable.Error(), res.Errors[0].Message)
	})
}

func TestAssetAndSession(t *testing.T) {
	f := newFixture(t)
	f.source.EXPECT().AssetsForAnalyst(mock.Anything, "2").Return(rawAssets(), nil).Once()
	scope := scopePtr(inventory.AnalystScope("2", "X"))

	t.Run("session", func(t *testing.T) {
		res := f.do(t, scope, `{ session { role analystId analystName analystFilterVisible } }`, nil)
		require.Empty(t, res.Errors)
		assert.Equal(t, map[string]any{"role": "Analyst", "analystId": "2", "analystName": "X", "analystFilterVisible": false}, res.Data["session"])

		res = f.do(t, nil, `{ session { role } }`, nil)
		require.Empty(t, res.Errors)
		assert.Nil(t, res.Data["session"])
	})

	t.Run("visible asset", func(t *testing.T) {
		res := f.do(t, scope, `{ asset(id: "1") { name vulnerabilities { name severity status detectedDate lastPatchedDate category } } }`, nil)
		require.Empty(t, res.Errors)
		a := res.Data["asset"].(map[string]any)
		assert.Equal(t, "A", a["name"])
		assert.Equal(t, map[string]any{
			"name":            "Chrome RCE",
			"severity":        "Critical",
			"status":          "Active",
			"detectedDate":    "2024-02-10",
			"lastPatchedDate": nil,
			"category":        "browser",
		}, a["vulnerabilities"].([]any)[0])
	})

	t.Run("asset outside scope", func(t *testing.T) {
		res := f.do(t, scope, `{ asset(id: "2") { name } }`, nil)
		require.Empty(t, res.Errors)
		assert.Nil(t, res.Data["asset"])
	})

	t.Run("search", func(t *testing.T) {
		res := f.do(t, scope, `{ search(query: "carl") { rank asset { name } } }`, nil)
		require.Empty(t, res.Errors)
		assert.Equal(t, []any{map[string]any{"rank": float64(0), "asset": map[string]any{"name": "C"}}}, res.Data["search"])
	})
}

func TestPatchableProducts(t *testing.T) {
	f := newFixture(t)
	f.source.EXPECT().VulnerableAssetsForAnalyst(mock.Anything, "2").Return(rawAssets()[:1], nil).Once()

	res := f.do(t, scopePtr(inventory.AnalystScope("2", "X")), `{ patchableProducts }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, []any{"Google Chrome", "Oracle Java", "7-Zip"}, res.Data["patchableProducts"])
}

func TestBulkPatch(t *testing.T) {
	const mutation = `mutation($product: String!, $machines: String!, $date: String) {
		bulkPatch(product: $product, machineNames: $machines, patchDate: $date) { requestId product machineNames patchDate message }
	}`
	scope := scopePtr(inventory.AnalystScope("2", "X"))

	t.Run("sent", func(t *testing.T) {
		f := newFixture(t)

		res := f.do(t, scope, mutation, map[string]any{"product": "Google Chrome", "machines": "A\n\n C \n", "date": "2024-03-01"})
		require.Empty(t, res.Errors)
		require.Len(t, f.patcher.requests, 1)

		result := res.Data["bulkPatch"].(map[string]any)
		assert.Equal(t, f.patcher.requests[0].ID.String(), result["requestId"])
		assert.Equal(t, "Google Chrome", result["product"])
		assert.Equal(t, []any{"A", "C"}, result["machineNames"])
		assert.Equal(t, "2024-03-01", result["patchDate"])
		assert.Equal(t, "ok", result["message"])
		assert.Equal(t, int64(1), test.CounterValue(t, f.reader, "bulk_patches"))
	})

	t.Run("invalid form", func(t *testing.T) {
		f := newFixture(t)

		res := f.do(t, scope, mutation, map[string]any{"product": "Google Chrome", "machines": " \n "})
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "invalid bulk patch request: at least one machine name is required; a patch date is required", res.Errors[0].Message)
		assert.Empty(t, f.patcher.requests)
	})

	t.Run("backend rejects", func(t *testing.T) {
		f := newFixture(t)
		f.patcher.err = errors.New("backend: 500 Internal Server Error")

		res := f.do(t, scope, mutation, map[string]any{"product": "Google Chrome", "machines": "A", "date": "2024-03-01"})
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0].Message, f.patcher.requests[0].ID.String())
		assert.Equal(t, int64(1), test.CounterValue(t, f.reader, "bulk_patches"))
	})
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	f.source.EXPECT().Assets(mock.Anything).Return(rawAssets(), nil).Twice()
	scope := scopePtr(inventory.AdminScope())

	res := f.do(t, scope, `{ assets { name } }`, nil)
	require.Empty(t, res.Errors)

	res = f.do(t, scope, `mutation { refresh }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, true, res.Data["refresh"])

	res = f.do(t, scope, `{ stats { totalAssets } }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, float64(3), res.Data["stats"].(map[string]any)["totalAssets"])
}
