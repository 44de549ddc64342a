package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// CacheTTL is how long a cached remote catalog stays valid.
const CacheTTL = time.Hour

// CacheRepository persists the remote recipe cache as a single timestamped
// row. An absent, expired or corrupt row is a cache miss, never an error
// surfaced to the caller.
type CacheRepository struct {
	db *sql.DB
}

// NewCacheRepository creates a new CacheRepository.
func NewCacheRepository(db *sql.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// Get returns the cached recipes if the cache is still within its TTL at
// the given instant. The boolean reports a hit.
func (r *CacheRepository) Get(ctx context.Context, now time.Time) ([]Recipe, bool) {
	var fetchedAt time.Time
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT fetched_at, recipes FROM recipe_cache WHERE id = 1`,
	).Scan(&fetchedAt, &data)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Warning: failed to read recipe cache: %v", err)
		}
		return nil, false
	}

	if now.Sub(fetchedAt) >= CacheTTL {
		return nil, false
	}

	var recipes []Recipe
	if err := json.Unmarshal([]byte(data), &recipes); err != nil {
		log.Printf("Warning: recipe cache is corrupt, treating as miss: %v", err)
		return nil, false
	}
	if len(recipes) == 0 {
		return nil, false
	}
	return recipes, true
}

// Put replaces the cached catalog.
func (r *CacheRepository) Put(ctx context.Context, recipes []Recipe, fetchedAt time.Time) error {
	data, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe cache: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO recipe_cache (id, fetched_at, recipes) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at, recipes = excluded.recipes`,
		fetchedAt.UTC(), string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to write recipe cache: %w", err)
	}
	return nil
}

// Invalidate clears the cache so the next load fetches remotely.
func (r *CacheRepository) Invalidate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recipe_cache WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to invalidate recipe cache: %w", err)
	}
	return nil
}

// CustomRepository stores recipes imported with the clipper. They are merged
// over whatever catalog the loader produces.
type CustomRepository struct {
	db *sql.DB
}

// NewCustomRepository creates a new CustomRepository.
func NewCustomRepository(db *sql.DB) *CustomRepository {
	return &CustomRepository{db: db}
}

// Save inserts or updates a custom recipe keyed by its slug ID.
func (r *CustomRepository) Save(ctx context.Context, rec Recipe) error {
	if rec.ID == "" {
		rec.ID = Slugify(rec.Name)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO custom_recipes (id, data, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		rec.ID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save custom recipe: %w", err)
	}
	return nil
}

// List returns all custom recipes in insertion order. Rows that fail to
// unmarshal are skipped with a warning.
func (r *CustomRepository) List(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, data FROM custom_recipes ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan custom recipe row: %w", err)
		}
		var rec Recipe
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			log.Printf("Warning: failed to unmarshal custom recipe %s: %v", id, err)
			continue
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// Delete removes a custom recipe by ID.
func (r *CustomRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM custom_recipes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete custom recipe: %w", err)
	}
	return nil
}
