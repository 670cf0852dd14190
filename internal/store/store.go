package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/secassets/inventory-backend/internal/backend"
	"github.com/secassets/inventory-backend/internal/inventory"
	"github.com/secassets/inventory-backend/internal/patch"
	"github.com/sirupsen/logrus"
)

var (
	// ErrBackendUnavailable is returned when the backend fails and there is no earlier snapshot to serve
	ErrBackendUnavailable = errors.New("inventory backend unavailable")

	ErrNotFound = errors.New("not found")
)

const (
	keyAllAssets = "assets:all"
	keyAnalysts  = "analysts"
)

// Source is the backend the store fetches from
//
//go:generate mockery --name Source --inpackage --with-expecter --case underscore
type Source interface {
	Assets(ctx context.Context) ([]backend.RawAsset, error)
	AssetsForAnalyst(ctx context.Context, analystID string) ([]backend.RawAsset, error)
	VulnerableAssetsForAnalyst(ctx context.Context, analystID string) ([]backend.RawAsset, error)
	Analysts(ctx context.Context) ([]inventory.Analyst, error)
}

// View is the filtered asset list together with the statistics computed from it
type View struct {
	Assets        []inventory.Asset
	Stats         inventory.Stats
	FiltersActive bool
}

type snapshot[T any] struct {
	value   T
	fetched time.Time
}

// Store is the only writer of fetched backend data. Readers get copies of cached snapshots, so filtering and
// aggregation never race with a refetch.
type Store struct {
	source     Source
	normalizer *backend.Normalizer
	policy     inventory.Policy
	cache      *cache.Cache
	interval   time.Duration
	now        func() time.Time
	log        logrus.FieldLogger

	// serializes fetches
	mu sync.Mutex
}

// Option is a function that can be used to set custom options for the store
type Option func(*Store)

// WithRefreshInterval sets how long a snapshot is served before it is fetched again. A zero interval keeps
// snapshots until Refresh is called.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Store) {
		s.interval = interval
	}
}

// WithClock replaces the clock used to decide snapshot age
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a new store
func New(source Source, policy inventory.Policy, log logrus.FieldLogger, opts ...Option) *Store {
	s := &Store{
		source:     source,
		normalizer: backend.NewNormalizer(policy.DefaultStatus, log),
		policy:     policy,
		cache:      cache.New(cache.NoExpiration, 0),
		interval:   5 * time.Minute,
		now:        time.Now,
		log:        log,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Policy returns the policy shared by filtering and statistics
func (s *Store) Policy() inventory.Policy {
	return s.policy
}

// View filters the assets visible in scope and computes statistics over the result. Both are computed from the
// same snapshot.
func (s *Store) View(ctx context.Context, scope inventory.Scope, criteria inventory.Criteria) (*View, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	assets, err := s.assets(ctx, scope)
	if err != nil {
		return nil, err
	}

	filtered := inventory.Filter(assets, scope, criteria, s.policy)
	return &View{
		Assets:        filtered,
		Stats:         inventory.Aggregate(filtered, s.policy),
		FiltersActive: criteria.Active(),
	}, nil
}

// Assets returns copies of every asset visible in scope
func (s *Store) Assets(ctx context.Context, scope inventory.Scope) ([]inventory.Asset, error) {
	assets, err := s.assets(ctx, scope)
	if err != nil {
		return nil, err
	}
	return inventory.Filter(assets, scope, inventory.DefaultCriteria(), s.policy), nil
}

// Asset returns a single asset visible in scope
func (s *Store) Asset(ctx context.Context, scope inventory.Scope, id string) (*inventory.Asset, error) {
	assets, err := s.assets(ctx, scope)
	if err != nil {
		return nil, err
	}

	for _, a := range assets {
		if a.ID == id && scope.Allows(a) {
			ret := a.Clone()
			return &ret, nil
		}
	}
	return nil, fmt.Errorf("asset %q: %w", id, ErrNotFound)
}

// Analysts returns the analyst directory
func (s *Store) Analysts(ctx context.Context) ([]inventory.Analyst, error) {
	analysts, err := load(ctx, s, keyAnalysts, s.source.Analysts)
	if err != nil {
		return nil, err
	}
	return append([]inventory.Analyst(nil), analysts...), nil
}

// Analyst looks up an analyst by id
func (s *Store) Analyst(ctx context.Context, id string) (inventory.Analyst, error) {
	analysts, err := load(ctx, s, keyAnalysts, s.source.Analysts)
	if err != nil {
		return inventory.Analyst{}, err
	}

	id = strings.TrimSpace(id)
	for _, a := range analysts {
		if a.ID == id {
			return a, nil
		}
	}
	return inventory.Analyst{}, fmt.Errorf("analyst %q: %w", id, ErrNotFound)
}

// Products returns the products that can be bulk patched in scope. Analysts get the products from their
// vulnerable assets, admins get the products from every asset.
func (s *Store) Products(ctx context.Context, scope inventory.Scope) ([]string, error) {
	if !scope.Restricted() || scope.AnalystID == "" {
		assets, err := s.assets(ctx, scope)
		if err != nil {
			return nil, err
		}
		return patch.Products(inventory.Filter(assets, scope, inventory.DefaultCriteria(), s.policy)), nil
	}

	id := scope.AnalystID
	products, err := load(ctx, s, "products:"+id, func(ctx context.Context) ([]string, error) {
		raws, err := s.source.VulnerableAssetsForAnalyst(ctx, id)
		if err != nil {
			return nil, err
		}
		return patch.Products(s.normalizer.NormalizeAll(raws)), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), products...), nil
}

// Refresh drops every snapshot, so the next read fetches from the backend
func (s *Store) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Flush()
	s.log.Debug("dropped cached snapshots")
}

// assets returns the shared snapshot for scope. Callers must not modify it.
func (s *Store) assets(ctx context.Context, scope inventory.Scope) ([]inventory.Asset, error) {
	if !scope.Restricted() || scope.AnalystID == "" {
		return load(ctx, s, keyAllAssets, func(ctx context.Context) ([]inventory.Asset, error) {
			raws, err := s.source.Assets(ctx)
			if err != nil {
				return nil, err
			}
			return s.normalizer.NormalizeAll(raws), nil
		})
	}

	id := scope.AnalystID
	return load(ctx, s, "assets:analyst:"+id, func(ctx context.Context) ([]inventory.Asset, error) {
		raws, err := s.source.AssetsForAnalyst(ctx, id)
		if err != nil {
			return nil, err
		}
		return s.normalizer.NormalizeAll(raws), nil
	})
}

func (s *Store) fresh(fetched time.Time) bool {
	return s.interval <= 0 || s.now().Sub(fetched) < s.interval
}

// load returns the snapshot stored under key, fetching it when it is missing or too old. When the fetch fails the
// previous snapshot is served; without one the error is wrapped in ErrBackendUnavailable.
func load[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error)) (T, error) {
	if v, found := s.cache.Get(key); found {
		if snap := v.(snapshot[T]); s.fresh(snap.fetched) {
			return snap.value, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var stale *snapshot[T]
	if v, found := s.cache.Get(key); found {
		snap := v.(snapshot[T])
		if s.fresh(snap.fetched) {
			return snap.value, nil
		}
		stale = &snap
	}

	value, err := fetch(ctx)
	if err != nil {
		if stale != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"key":     key,
				"fetched": stale.fetched,
			}).Warn("serving stale snapshot")
			return stale.value, nil
		}
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	s.cache.Set(key, snapshot[T]{value: value, fetched: s.now()}, cache.NoExpiration)
	return value, nil
}
