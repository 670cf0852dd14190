package search

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/secassets/inventory-backend/internal/inventory"
)

const DefaultLimit = 10

// Source returns the assets visible in a scope
type Source interface {
	Assets(ctx context.Context, scope inventory.Scope) ([]inventory.Asset, error)
}

type Result struct {
	Asset inventory.Asset
	Rank  int
}

type Searcher struct {
	source Source
}

func New(source Source) *Searcher {
	return &Searcher{source: source}
}

// Search ranks the assets in scope by how well q matches their name, user or address. Best matches come first,
// ties keep the asset order. A limit <= 0 uses DefaultLimit.
func (s *Searcher) Search(ctx context.Context, scope inventory.Scope, q string, limit int) ([]Result, error) {
	q = strings.TrimSpace(q)
	ret := []Result{}
	if q == "" {
		return ret, nil
	}

	assets, err := s.source.Assets(ctx, scope)
	if err != nil {
		return nil, err
	}

	for _, a := range assets {
		if rank := bestMatch(q, a.Name, a.User, a.IP); rank >= 0 {
			ret = append(ret, Result{Asset: a, Rank: rank})
		}
	}

	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Rank < ret[j].Rank
	})

	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(ret) > limit {
		ret = ret[:limit]
	}
	return ret, nil
}

// Match returns the rank of a match between q and val. 0 means best match. -1 means no match.
func Match(q, val string) int {
	return fuzzy.RankMatchFold(q, val)
}

func bestMatch(q string, values ...string) int {
	best := -1
	for _, v := range values {
		if v == "" {
			continue
		}
		if rank := Match(q, v); rank >= 0 && (best < 0 || rank < best) {
			best = rank
		}
	}
	return best
}
