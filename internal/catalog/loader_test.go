package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"weekly-meal-planner/internal/recipe"
	"weekly-meal-planner/internal/sheets"
)

type fakeSource struct {
	tables  *sheets.Tables
	err     error
	fetches int
}

func (f *fakeSource) FetchTables(ctx context.Context) (*sheets.Tables, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.tables, nil
}

type fakeCache struct {
	recipes   []recipe.Recipe
	fetchedAt time.Time
	puts      int
}

func (f *fakeCache) Get(ctx context.Context, now time.Time) ([]recipe.Recipe, bool) {
	if f.recipes == nil || now.Sub(f.fetchedAt) >= recipe.CacheTTL {
		return nil, false
	}
	return f.recipes, true
}

func (f *fakeCache) Put(ctx context.Context, recipes []recipe.Recipe, fetchedAt time.Time) error {
	f.recipes = recipes
	f.fetchedAt = fetchedAt
	f.puts++
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context) error {
	f.recipes = nil
	return nil
}

type fakeCustom struct {
	recipes []recipe.Recipe
}

func (f *fakeCustom) List(ctx context.Context) ([]recipe.Recipe, error) {
	return f.recipes, nil
}

func remoteTables() *sheets.Tables {
	return &sheets.Tables{
		Recipes: [][]string{
			{"RecipeID", "RecipeName"},
			{"remote-stew", "Remote Stew"},
		},
		Ingredients: [][]string{
			{"RecipeID", "IngredientName", "Quantity", "Unit"},
			{"remote-stew", "Carrots", "2", ""},
		},
	}
}

func TestLoadWithoutRemoteSource(t *testing.T) {
	loader := NewLoader(nil, nil, nil, nil)
	cat, status := loader.Load(context.Background())

	if status.Source != SourceBuiltin {
		t.Errorf("Expected builtin source, got %s", status.Source)
	}
	if status.Err != nil {
		t.Errorf("Expected no informational error, got %v", status.Err)
	}
	if cat.Len() == 0 {
		t.Error("Expected a non-empty catalog")
	}
	if loader.Current() != cat {
		t.Error("Expected Load to install the catalog as current")
	}
}

func TestLoadRemoteSuccess(t *testing.T) {
	source := &fakeSource{tables: remoteTables()}
	cache := &fakeCache{}
	loader := NewLoader(source, cache, nil, nil)

	cat, status := loader.Load(context.Background())
	if status.Source != SourceRemote {
		t.Fatalf("Expected remote source, got %s", status.Source)
	}
	if _, ok := cat.FindByID("remote-stew"); !ok {
		t.Error("Expected the remote recipe in the catalog")
	}
	if cache.puts != 1 {
		t.Errorf("Expected the fetch result to be cached once, got %d puts", cache.puts)
	}
}

func TestLoadCacheHitSkipsNetwork(t *testing.T) {
	source := &fakeSource{tables: remoteTables()}
	cache := &fakeCache{
		recipes:   []recipe.Recipe{{ID: "cached", Name: "Cached"}},
		fetchedAt: time.Now(),
	}
	loader := NewLoader(source, cache, nil, nil)

	cat, status := loader.Load(context.Background())
	if status.Source != SourceCache {
		t.Fatalf("Expected cache source, got %s", status.Source)
	}
	if source.fetches != 0 {
		t.Errorf("Expected no network access on a cache hit, got %d fetches", source.fetches)
	}
	if _, ok := cat.FindByID("cached"); !ok {
		t.Error("Expected the cached recipe in the catalog")
	}
}

func TestLoadExpiredCacheFetches(t *testing.T) {
	source := &fakeSource{tables: remoteTables()}
	cache := &fakeCache{
		recipes:   []recipe.Recipe{{ID: "cached", Name: "Cached"}},
		fetchedAt: time.Now().Add(-2 * time.Hour),
	}
	loader := NewLoader(source, cache, nil, nil)

	_, status := loader.Load(context.Background())
	if status.Source != SourceRemote {
		t.Fatalf("Expected remote source after cache expiry, got %s", status.Source)
	}
	if source.fetches != 1 {
		t.Errorf("Expected 1 fetch, got %d", source.fetches)
	}
}

func TestLoadFetchFailureFallsBack(t *testing.T) {
	source := &fakeSource{err: errors.New("network down")}
	loader := NewLoader(source, &fakeCache{}, nil, nil)

	cat, status := loader.Load(context.Background())
	if status.Source != SourceBuiltin {
		t.Fatalf("Expected builtin fallback, got %s", status.Source)
	}
	if status.Err == nil {
		t.Fatal("Expected an informational error")
	}
	if errors.Is(status.Err, ErrNoRecipes) {
		t.Error("Expected a fetch failure to be distinguishable from an empty result")
	}
	if cat.Len() == 0 {
		t.Error("Expected a non-empty fallback catalog")
	}
}

func TestLoadEmptyResultFallsBack(t *testing.T) {
	source := &fakeSource{tables: &sheets.Tables{}}
	loader := NewLoader(source, &fakeCache{}, nil, nil)

	cat, status := loader.Load(context.Background())
	if status.Source != SourceBuiltin {
		t.Fatalf("Expected builtin fallback, got %s", status.Source)
	}
	if !errors.Is(status.Err, ErrNoRecipes) {
		t.Errorf("Expected ErrNoRecipes, got %v", status.Err)
	}
	if cat.Len() == 0 {
		t.Error("Expected a non-empty fallback catalog")
	}
}

func TestRefreshInvalidatesCache(t *testing.T) {
	source := &fakeSource{tables: remoteTables()}
	cache := &fakeCache{
		recipes:   []recipe.Recipe{{ID: "cached", Name: "Cached"}},
		fetchedAt: time.Now(),
	}
	loader := NewLoader(source, cache, nil, nil)

	cat, status := loader.Refresh(context.Background())
	if status.Source != SourceRemote {
		t.Fatalf("Expected a refresh to hit the network, got %s", status.Source)
	}
	if source.fetches != 1 {
		t.Errorf("Expected 1 fetch, got %d", source.fetches)
	}
	if _, ok := cat.FindByID("remote-stew"); !ok {
		t.Error("Expected the refreshed catalog to hold the remote recipe")
	}
}

func TestLoadMergesCustomRecipes(t *testing.T) {
	custom := &fakeCustom{recipes: []recipe.Recipe{{ID: "clipped-curry", Name: "Clipped Curry"}}}
	loader := NewLoader(nil, nil, custom, nil)

	cat, _ := loader.Load(context.Background())
	if _, ok := cat.FindByID("clipped-curry"); !ok {
		t.Error("Expected the custom recipe merged into the catalog")
	}
	if _, ok := cat.FindByID("omelette"); !ok {
		t.Error("Expected the builtin recipes to still be present")
	}
}

// blockingSource parks its first fetch until released; later fetches return
// immediately. It lets a test hold an old load in flight while a newer one
// completes.
type blockingSource struct {
	token   chan struct{} // one-slot token claimed by the first fetch
	started chan struct{}
	release chan struct{}
}

func newBlockingSource() *blockingSource {
	b := &blockingSource{
		token:   make(chan struct{}, 1),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	b.token <- struct{}{}
	return b
}

func (b *blockingSource) FetchTables(ctx context.Context) (*sheets.Tables, error) {
	select {
	case <-b.token:
		close(b.started)
		<-b.release
		return &sheets.Tables{
			Recipes: [][]string{{"RecipeID", "RecipeName"}, {"stale-stew", "Stale Stew"}},
		}, nil
	default:
		return remoteTables(), nil
	}
}

func TestStaleLoadIsSuperseded(t *testing.T) {
	source := newBlockingSource()
	loader := NewLoader(source, nil, nil, nil)
	ctx := context.Background()

	type result struct {
		cat    *recipe.Catalog
		status Status
	}
	firstDone := make(chan result, 1)
	go func() {
		cat, status := loader.Load(ctx)
		firstDone <- result{cat, status}
	}()

	// Wait for the first load to reach its fetch before racing it.
	<-source.started

	newest, status := loader.Load(ctx)
	if status.Superseded {
		t.Fatal("Expected the newest load to not be superseded")
	}
	if _, ok := newest.FindByID("remote-stew"); !ok {
		t.Fatal("Expected the newest load to carry the fresh recipes")
	}

	close(source.release)
	stale := <-firstDone
	if !stale.status.Superseded {
		t.Error("Expected the stale load to be marked superseded")
	}
	if stale.cat != newest {
		t.Error("Expected the stale load to return the winning catalog")
	}
	if _, ok := loader.Current().FindByID("stale-stew"); ok {
		t.Error("Expected the stale result to be discarded, not installed")
	}
}
