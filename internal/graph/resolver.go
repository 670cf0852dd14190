package graph

import (
	"context"

	"github.com/secassets/inventory-backend/internal/backend"
	"github.com/secassets/inventory-backend/internal/patch"
	"github.com/secassets/inventory-backend/internal/search"
	"github.com/secassets/inventory-backend/internal/store"
	"github.com/sirupsen/logrus"
)

// Patcher sends bulk patch requests to the backend
type Patcher interface {
	BulkPatch(ctx context.Context, req *patch.Request) (*backend.PatchResult, error)
}

// Resolver holds the dependencies of the GraphQL resolvers
type Resolver struct {
	Store        *store.Store
	Searcher     *search.Searcher
	Patcher      Patcher
	PatchBuilder *patch.Builder
	Metrics      *Metrics
	Log          logrus.FieldLogger
}
