package graph

import (
	"github.com/graphql-go/graphql"
	"github.com/secassets/inventory-backend/internal/inventory"
	"github.com/secassets/inventory-backend/internal/search"
	"github.com/secassets/inventory-backend/internal/store"
)

// severityOrder is the order of the severity distribution entries
var severityOrder = []inventory.Severity{
	inventory.SeverityCritical,
	inventory.SeverityHigh,
	inventory.SeverityMedium,
	inventory.SeverityLow,
	inventory.SeverityUnknown,
}

type severityCount struct {
	Severity inventory.Severity
	Count    int
}

// bulkPatchResult is the acknowledgement returned by the bulkPatch mutation
type bulkPatchResult struct {
	RequestID    string
	Product      string
	MachineNames []string
	PatchDate    string
	Message      string
}

var AnalystType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Analyst",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: analystField(func(a inventory.Analyst) interface{} { return a.ID })},
		"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: analystField(func(a inventory.Analyst) interface{} { return a.Name })},
	},
})

var VulnerabilityType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Vulnerability",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.ID, Resolve: vulnerabilityField(func(v inventory.Vulnerability) interface{} { return nullable(v.ID) })},
		"name":            &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: vulnerabilityField(func(v inventory.Vulnerability) interface{} { return v.Name })},
		"product":         &graphql.Field{Type: graphql.String, Resolve: vulnerabilityField(func(v inventory.Vulnerability) interface{} { return nullable(v.Product) })},
		"pluginId":        &graphql.Field{Type: graphql.String, Resolve: vulnerabilityField(func(v inventory.Vulnerability) interface{} { return nullable(v.PluginID) })},
		"severity":        &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: vulnerabilityField(func(v inventory.Vulnerability) interface{} { return v.Severity.String() })},
		"status":          &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: vulnerabilityField(func(v inventory.Vulnerability) interface{} { return v.Status })},
		"detectedDate":    &graphql.Field{Type: graphql.String, Resolve: vulnerabilityField(func(v inventory.Vulnerability) interface{} { return nullable(v.DetectedDate) })},
		"lastPatchedDate": &graphql.Field{Type: graphql.String, Resolve: vulnerabilityField(func(v inventory.Vulnerability) interface{} { return nullable(v.LastPatchedDate) })},
		"category":        &graphql.Field{Type: graphql.String, Resolve: vulnerabilityField(func(v inventory.Vulnerability) interface{} { return nullable(inventory.AppCategory(v)) })},
	},
})

var AssetType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Asset",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: assetField(func(a inventory.Asset) interface{} { return a.ID })},
		"name":            &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: assetField(func(a inventory.Asset) interface{} { return a.Name })},
		"ip":              &graphql.Field{Type: graphql.String, Resolve: assetField(func(a inventory.Asset) interface{} { return nullable(a.IP) })},
		"os":              &graphql.Field{Type: graphql.String, Resolve: assetField(func(a inventory.Asset) interface{} { return nullable(a.OS) })},
		"user":            &graphql.Field{Type: graphql.String, Resolve: assetField(func(a inventory.Asset) interface{} { return nullable(a.User) })},
		"type":            &graphql.Field{Type: graphql.String, Resolve: assetField(func(a inventory.Asset) interface{} { return nullable(a.Type) })},
		"analyst":         &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: assetField(func(a inventory.Asset) interface{} { return a.Analyst })},
		"status":          &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: assetField(func(a inventory.Asset) interface{} { return a.Status })},
		"riskScore":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: assetField(func(a inventory.Asset) interface{} { return a.RiskScore })},
		"riskLevel":       &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: assetField(func(a inventory.Asset) interface{} { return inventory.RiskLevel(a.RiskScore) })},
		"vulnerabilities": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(VulnerabilityType))), Resolve: assetField(func(a inventory.Asset) interface{} { return a.Vulnerabilities })},
	},
})

var SeverityCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SeverityCount",
	Fields: graphql.Fields{
		"severity": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(severityCount).Severity.String(), nil
		}},
		"count": &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(severityCount).Count, nil
		}},
	},
})

var StatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"totalAssets":           &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: statsField(func(s inventory.Stats) interface{} { return s.TotalAssets })},
		"criticalAssets":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: statsField(func(s inventory.Stats) interface{} { return s.CriticalAssets })},
		"appVulnerabilityCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: statsField(func(s inventory.Stats) interface{} { return s.AppVulnerabilityCount })},
		"averageRisk":           &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: statsField(func(s inventory.Stats) interface{} { return s.AverageRisk })},
		"severityDistribution": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(SeverityCountType))),
			Resolve: statsField(func(s inventory.Stats) interface{} {
				ret := make([]severityCount, 0, len(severityOrder))
				for _, sev := range severityOrder {
					ret = append(ret, severityCount{Severity: sev, Count: s.SeverityDistribution[sev]})
				}
				return ret
			}),
		},
	},
})

var InventoryType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Inventory",
	Description: "The filtered asset list and the statistics computed from the same list",
	Fields: graphql.Fields{
		"assets": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(AssetType))), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*store.View).Assets, nil
		}},
		"stats": &graphql.Field{Type: graphql.NewNonNull(StatsType), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*store.View).Stats, nil
		}},
		"filtersActive": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*store.View).FiltersActive, nil
		}},
	},
})

var SessionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Session",
	Fields: graphql.Fields{
		"role": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: scopeField(func(s inventory.Scope) interface{} { return string(s.Role) })},
		"analystId": &graphql.Field{Type: graphql.ID, Resolve: scopeField(func(s inventory.Scope) interface{} {
			return nullable(s.AnalystID)
		})},
		"analystName": &graphql.Field{Type: graphql.String, Resolve: scopeField(func(s inventory.Scope) interface{} {
			return nullable(s.AnalystName)
		})},
		"analystFilterVisible": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean), Resolve: scopeField(func(s inventory.Scope) interface{} {
			return s.ShowAnalystFilter()
		})},
	},
})

var SearchResultType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SearchResult",
	Fields: graphql.Fields{
		"asset": &graphql.Field{Type: graphql.NewNonNull(AssetType), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(search.Result).Asset, nil
		}},
		"rank": &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(search.Result).Rank, nil
		}},
	},
})

var BulkPatchResultType = graphql.NewObject(graphql.ObjectConfig{
	Name: "BulkPatchResult",
	Fields: graphql.Fields{
		"requestId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*bulkPatchResult).RequestID, nil
		}},
		"product": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*bulkPatchResult).Product, nil
		}},
		"machineNames": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*bulkPatchResult).MachineNames, nil
		}},
		"patchDate": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*bulkPatchResult).PatchDate, nil
		}},
		"message": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return nullable(p.Source.(*bulkPatchResult).Message), nil
		}},
	},
})

var AssetFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "AssetFilter",
	Fields: graphql.InputObjectConfigFieldMap{
		"analyst":       &graphql.InputObjectFieldConfig{Type: graphql.String, Description: "Analyst name, or \"all\""},
		"vulnerability": &graphql.InputObjectFieldConfig{Type: graphql.String, Description: "Substring of an open vulnerability name"},
		"minRisk":       &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"search":        &graphql.InputObjectFieldConfig{Type: graphql.String, Description: "Substring of asset name, user or address"},
	},
})

func assetField(fn func(inventory.Asset) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		switch a := p.Source.(type) {
		case inventory.Asset:
			return fn(a), nil
		case *inventory.Asset:
			return fn(*a), nil
		}
		return nil, nil
	}
}

func vulnerabilityField(fn func(inventory.Vulnerability) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if v, ok := p.Source.(inventory.Vulnerability); ok {
			return fn(v), nil
		}
		return nil, nil
	}
}

func analystField(fn func(inventory.Analyst) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if a, ok := p.Source.(inventory.Analyst); ok {
			return fn(a), nil
		}
		return nil, nil
	}
}

func statsField(fn func(inventory.Stats) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if s, ok := p.Source.(inventory.Stats); ok {
			return fn(s), nil
		}
		return nil, nil
	}
}

func scopeField(fn func(inventory.Scope) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if s, ok := p.Source.(inventory.Scope); ok {
			return fn(s), nil
		}
		return nil, nil
	}
}

// nullable returns nil for empty strings, so absent values are sent as null
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
