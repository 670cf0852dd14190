package graph

import (
	"errors"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/secassets/inventory-backend/internal/graph/apierror"
	"github.com/secassets/inventory-backend/internal/inventory"
	"github.com/secassets/inventory-backend/internal/patch"
	"github.com/secassets/inventory-backend/internal/search"
	"github.com/secassets/inventory-backend/internal/session"
	"github.com/secassets/inventory-backend/internal/store"
	"github.com/sirupsen/logrus"
)

// NewSchema builds the GraphQL schema backed by the resolver
func NewSchema(r *Resolver) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: r.queryFields(),
		}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: r.mutationFields(),
		}),
	})
}

func (r *Resolver) queryFields() graphql.Fields {
	filterArgs := graphql.FieldConfigArgument{
		"filter": &graphql.ArgumentConfig{Type: AssetFilterInput},
	}

	return graphql.Fields{
		"session": &graphql.Field{
			Type:        SessionType,
			Description: "The scope of the current session, null before a role is selected",
			Resolve: r.Metrics.Instrument("Query", "session", func(p graphql.ResolveParams) (interface{}, error) {
				scope, err := session.FromContext(p.Context)
				if err != nil {
					return nil, nil
				}
				return scope, nil
			}),
		},
		"analysts": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(AnalystType))),
			Resolve: r.Metrics.Instrument("Query", "analysts", func(p graphql.ResolveParams) (interface{}, error) {
				return r.Store.Analysts(p.Context)
			}),
		},
		"inventory": &graphql.Field{
			Type: graphql.NewNonNull(InventoryType),
			Args: filterArgs,
			Resolve: r.Metrics.Instrument("Query", "inventory", func(p graphql.ResolveParams) (interface{}, error) {
				return r.view(p)
			}),
		},
		"assets": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(AssetType))),
			Args: filterArgs,
			Resolve: r.Metrics.Instrument("Query", "assets", func(p graphql.ResolveParams) (interface{}, error) {
				view, err := r.view(p)
				if err != nil {
					return nil, err
				}
				return view.Assets, nil
			}),
		},
		"stats": &graphql.Field{
			Type: graphql.NewNonNull(StatsType),
			Args: filterArgs,
			Resolve: r.Metrics.Instrument("Query", "stats", func(p graphql.ResolveParams) (interface{}, error) {
				view, err := r.view(p)
				if err != nil {
					return nil, err
				}
				return view.Stats, nil
			}),
		},
		"asset": &graphql.Field{
			Type: AssetType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: r.Metrics.Instrument("Query", "asset", func(p graphql.ResolveParams) (interface{}, error) {
				scope, err := scopeFromContext(p)
				if err != nil {
					return nil, err
				}

				id, _ := p.Args["id"].(string)
				a, err := r.Store.Asset(p.Context, scope, id)
				if errors.Is(err, store.ErrNotFound) {
					return nil, nil
				}
				if err != nil {
					return nil, err
				}
				return a, nil
			}),
		},
		"search": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(SearchResultType))),
			Args: graphql.FieldConfigArgument{
				"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: search.DefaultLimit},
			},
			Resolve: r.Metrics.Instrument("Query", "search", func(p graphql.ResolveParams) (interface{}, error) {
				scope, err := scopeFromContext(p)
				if err != nil {
					return nil, err
				}

				q, _ := p.Args["query"].(string)
				limit, _ := p.Args["limit"].(int)
				return r.Searcher.Search(p.Context, scope, q, limit)
			}),
		},
		"patchableProducts": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
			Description: "Products that can be selected in a bulk patch request",
			Resolve: r.Metrics.Instrument("Query", "patchableProducts", func(p graphql.ResolveParams) (interface{}, error) {
				scope, err := scopeFromContext(p)
				if err != nil {
					return nil, err
				}
				return r.Store.Products(p.Context, scope)
			}),
		},
	}
}

func (r *Resolver) mutationFields() graphql.Fields {
	return graphql.Fields{
		"bulkPatch": &graphql.Field{
			Type:        graphql.NewNonNull(BulkPatchResultType),
			Description: "Mark a product as patched on a list of machines. Cached data is not updated, run refresh afterwards.",
			Args: graphql.FieldConfigArgument{
				"product":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"machineNames": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String), Description: "One machine name per line"},
				"patchDate":    &graphql.ArgumentConfig{Type: graphql.String, Description: "YYYY-MM-DD"},
			},
			Resolve: r.Metrics.Instrument("Mutation", "bulkPatch", r.bulkPatch),
		},
		"refresh": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.Boolean),
			Description: "Drop cached backend data, so the next query fetches it again",
			Resolve: r.Metrics.Instrument("Mutation", "refresh", func(p graphql.ResolveParams) (interface{}, error) {
				r.Store.Refresh()
				return true, nil
			}),
		},
	}
}

func (r *Resolver) view(p graphql.ResolveParams) (*store.View, error) {
	scope, err := scopeFromContext(p)
	if err != nil {
		return nil, err
	}

	criteria, err := criteriaFromArgs(p.Args)
	if err != nil {
		return nil, err
	}

	return r.Store.View(p.Context, scope, criteria)
}

func (r *Resolver) bulkPatch(p graphql.ResolveParams) (interface{}, error) {
	scope, err := scopeFromContext(p)
	if err != nil {
		return nil, err
	}

	product, _ := p.Args["product"].(string)
	machineNames, _ := p.Args["machineNames"].(string)
	patchDate, _ := p.Args["patchDate"].(string)

	req, err := r.PatchBuilder.Build(product, machineNames, patchDate)
	if err != nil {
		return nil, err
	}

	log := r.Log.WithFields(logrus.Fields{
		"request_id": req.ID.String(),
		"scope":      scope.String(),
		"email":      session.Email(p.Context),
	})

	res, err := r.Patcher.BulkPatch(p.Context, req)
	if err != nil {
		r.Metrics.bulkPatchSent(p, "failed")
		log.WithError(err).Warn("bulk patch failed")
		return nil, apierror.Errorf("The backend did not accept the bulk patch request (request id %s). Please try again.", req.ID)
	}
	r.Metrics.bulkPatchSent(p, "sent")
	log.Info("bulk patch requested")

	return &bulkPatchResult{
		RequestID:    req.ID.String(),
		Product:      req.Product,
		MachineNames: req.MachineNames,
		PatchDate:    req.PatchDate.Format(patch.DateFormat),
		Message:      res.Message,
	}, nil
}

func scopeFromContext(p graphql.ResolveParams) (inventory.Scope, error) {
	scope, err := session.FromContext(p.Context)
	if err != nil {
		return inventory.Scope{}, apierror.ErrNoSession
	}
	return scope, nil
}

func criteriaFromArgs(args map[string]interface{}) (inventory.Criteria, error) {
	criteria := inventory.DefaultCriteria()

	filter, ok := args["filter"].(map[string]interface{})
	if !ok {
		return criteria, nil
	}

	if v, ok := filter["analyst"].(string); ok && strings.TrimSpace(v) != "" {
		criteria.Analyst = v
	}
	if v, ok := filter["vulnerability"].(string); ok {
		criteria.VulnerabilityName = v
	}
	if v, ok := filter["minRisk"].(int); ok {
		criteria.MinimumRisk = v
	}
	if v, ok := filter["search"].(string); ok {
		criteria.SearchText = v
	}

	if err := criteria.Validate(); err != nil {
		return inventory.Criteria{}, apierror.Errorf("Invalid filter: %v.", err)
	}
	return criteria, nil
}
