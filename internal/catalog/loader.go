// Package catalog owns the lifecycle of the active recipe catalog: cache,
// remote load, built-in fallback, and refresh.
package catalog

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"weekly-meal-planner/internal/metrics"
	"weekly-meal-planner/internal/recipe"
	"weekly-meal-planner/internal/sheets"
)

// ErrNoRecipes marks a remote load that succeeded but transformed to an
// empty result. The loader falls back to the built-in set either way; the
// error lets the presentation layer word its notice.
var ErrNoRecipes = errors.New("no recipes found in remote source")

// Source identifies where the active catalog came from.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceCache   Source = "cache"
	SourceRemote  Source = "remote"
)

// Status describes how a load resolved. Err is informational, a recovered
// failure rather than a fatal one. Superseded marks a result discarded because a
// newer load finished behind it.
type Status struct {
	Source     Source
	Err        error
	Superseded bool
}

// CacheStore is the persisted recipe cache the loader consults before going
// to the network.
type CacheStore interface {
	Get(ctx context.Context, now time.Time) ([]recipe.Recipe, bool)
	Put(ctx context.Context, recipes []recipe.Recipe, fetchedAt time.Time) error
	Invalidate(ctx context.Context) error
}

// CustomStore supplies locally clipped recipes merged over every catalog.
type CustomStore interface {
	List(ctx context.Context) ([]recipe.Recipe, error)
}

// Loader produces the active catalog. A nil source means no remote recipe
// source is configured and the built-in set is used unconditionally.
type Loader struct {
	source  sheets.Client
	cache   CacheStore
	custom  CustomStore
	metrics *metrics.Store
	now     func() time.Time

	mu      sync.Mutex
	gen     uint64
	current *recipe.Catalog
}

// NewLoader creates a Loader. cache, custom and metricsStore may be nil.
func NewLoader(source sheets.Client, cache CacheStore, custom CustomStore, metricsStore *metrics.Store) *Loader {
	return &Loader{
		source:  source,
		cache:   cache,
		custom:  custom,
		metrics: metricsStore,
		now:     time.Now,
	}
}

// Current returns the most recently installed catalog, or nil before the
// first Load completes. Callers must tolerate the transient nil while a
// first load is in flight.
func (l *Loader) Current() *recipe.Catalog {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Load resolves the active catalog: built-in when no remote source is
// configured; otherwise cache hit, else remote fetch-and-transform with the
// built-in set as the recovery path. The returned catalog is never empty.
// Only the newest in-flight load installs its result; a superseded load
// returns the installed catalog of whichever load won.
func (l *Loader) Load(ctx context.Context) (*recipe.Catalog, Status) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	recipes, status := l.resolve(ctx)
	cat := recipe.NewCatalog(l.withCustom(ctx, recipes))

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		status.Superseded = true
		if l.current != nil {
			return l.current, status
		}
		return cat, status
	}
	l.current = cat
	return cat, status
}

// Refresh invalidates the cache and loads again. User-triggered.
func (l *Loader) Refresh(ctx context.Context) (*recipe.Catalog, Status) {
	if l.cache != nil {
		if err := l.cache.Invalidate(ctx); err != nil {
			log.Printf("Warning: failed to invalidate recipe cache: %v", err)
		}
	}
	return l.Load(ctx)
}

func (l *Loader) resolve(ctx context.Context) ([]recipe.Recipe, Status) {
	if l.source == nil {
		return recipe.Builtin(), Status{Source: SourceBuiltin}
	}

	if l.cache != nil {
		if cached, ok := l.cache.Get(ctx, l.now()); ok {
			return cached, Status{Source: SourceCache}
		}
	}

	start := l.now()
	tables, err := l.source.FetchTables(ctx)
	if err != nil {
		l.record(SourceBuiltin, 0, start, "error")
		return recipe.Builtin(), Status{Source: SourceBuiltin, Err: err}
	}

	recipes := sheets.Transform(tables)
	if len(recipes) == 0 {
		l.record(SourceBuiltin, 0, start, "empty")
		return recipe.Builtin(), Status{Source: SourceBuiltin, Err: ErrNoRecipes}
	}

	l.record(SourceRemote, len(recipes), start, "ok")
	if l.cache != nil {
		if err := l.cache.Put(ctx, recipes, l.now()); err != nil {
			log.Printf("Warning: failed to update recipe cache: %v", err)
		}
	}
	return recipes, Status{Source: SourceRemote}
}

func (l *Loader) withCustom(ctx context.Context, recipes []recipe.Recipe) []recipe.Recipe {
	if l.custom == nil {
		return recipes
	}
	custom, err := l.custom.List(ctx)
	if err != nil {
		log.Printf("Warning: failed to load custom recipes: %v", err)
		return recipes
	}
	return append(recipes, custom...)
}

func (l *Loader) record(source Source, count int, start time.Time, outcome string) {
	if l.metrics == nil {
		return
	}
	err := l.metrics.Record(metrics.FetchMetric{
		Source:      string(source),
		RecipeCount: count,
		LatencyMS:   l.now().Sub(start).Milliseconds(),
		Outcome:     outcome,
	})
	if err != nil {
		log.Printf("Warning: failed to record fetch metric: %v", err)
	}
}
