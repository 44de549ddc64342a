package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// HistoryLimit caps the saved-week history; the oldest entry by save time
// is evicted when a save would exceed it.
const HistoryLimit = 12

// HistoryEntry is an immutable saved snapshot of a plan for one calendar
// week, keyed by its week ID.
type HistoryEntry struct {
	WeekID    string    `json:"week_id"`
	WeekLabel string    `json:"week_label"`
	SavedAt   time.Time `json:"saved_at"`
	Plan      *Plan     `json:"plan"`
}

// DraftRepository persists the single transient draft plan. The draft is the
// continuously auto-saved, unsaved state of the current plan.
type DraftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a new DraftRepository.
func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// Put replaces the stored draft.
func (r *DraftRepository) Put(ctx context.Context, p *Plan) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal draft plan: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO draft_plan (id, plan, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET plan = excluded.plan, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write draft plan: %w", err)
	}
	return nil
}

// Get returns the stored draft, or nil when absent or unreadable. Corruption
// degrades to "no draft" rather than failing startup.
func (r *DraftRepository) Get(ctx context.Context) *Plan {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT plan FROM draft_plan WHERE id = 1`).Scan(&data)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Warning: failed to read draft plan: %v", err)
		}
		return nil
	}
	var p Plan
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		log.Printf("Warning: draft plan is corrupt, ignoring: %v", err)
		return nil
	}
	return &p
}

// Clear removes the stored draft.
func (r *DraftRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM draft_plan WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear draft plan: %w", err)
	}
	return nil
}

// SnapshotRepository persists the named "current week" snapshot written on
// each explicit save. It is distinct from both the draft and the history list.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Put replaces the current-week snapshot.
func (r *SnapshotRepository) Put(ctx context.Context, weekID string, p *Plan) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal week snapshot: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO current_week (id, week_id, plan, saved_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET week_id = excluded.week_id, plan = excluded.plan, saved_at = excluded.saved_at`,
		weekID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write week snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot's week ID and plan, or ("", nil) when absent or
// unreadable.
func (r *SnapshotRepository) Get(ctx context.Context) (string, *Plan) {
	var weekID, data string
	err := r.db.QueryRowContext(ctx, `SELECT week_id, plan FROM current_week WHERE id = 1`).Scan(&weekID, &data)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Warning: failed to read week snapshot: %v", err)
		}
		return "", nil
	}
	var p Plan
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		log.Printf("Warning: week snapshot is corrupt, ignoring: %v", err)
		return "", nil
	}
	return weekID, &p
}

// HistoryRepository persists saved weekly snapshots, newest first, capped at
// HistoryLimit entries.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert writes an entry, overwriting any prior entry for the same week ID,
// then evicts the oldest entries by save time beyond HistoryLimit.
func (r *HistoryRepository) Upsert(ctx context.Context, e HistoryEntry) error {
	data, err := json.Marshal(e.Plan)
	if err != nil {
		return fmt.Errorf("failed to marshal history plan: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (week_id, week_label, saved_at, plan) VALUES (?, ?, ?, ?)
		 ON CONFLICT(week_id) DO UPDATE SET week_label = excluded.week_label, saved_at = excluded.saved_at, plan = excluded.plan`,
		e.WeekID, e.WeekLabel, e.SavedAt.UTC(), string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert history entry: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM history WHERE week_id NOT IN (
			SELECT week_id FROM history ORDER BY saved_at DESC, week_id DESC LIMIT ?
		 )`, HistoryLimit,
	)
	if err != nil {
		return fmt.Errorf("failed to truncate history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history transaction: %w", err)
	}
	return nil
}

// List returns all entries newest first. Corrupt rows are skipped.
func (r *HistoryRepository) List(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT week_id, week_label, saved_at, plan FROM history ORDER BY saved_at DESC, week_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var data string
		if err := rows.Scan(&e.WeekID, &e.WeekLabel, &e.SavedAt, &data); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		var p Plan
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			log.Printf("Warning: history entry %s is corrupt, skipping: %v", e.WeekID, err)
			continue
		}
		e.Plan = &p
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry for one week ID, or nil when absent.
func (r *HistoryRepository) Get(ctx context.Context, weekID string) (*HistoryEntry, error) {
	var e HistoryEntry
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT week_id, week_label, saved_at, plan FROM history WHERE week_id = ?`, weekID,
	).Scan(&e.WeekID, &e.WeekLabel, &e.SavedAt, &data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	var p Plan
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history entry %s: %w", weekID, err)
	}
	e.Plan = &p
	return &e, nil
}

// PreferenceRepository persists the start-day preference.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new PreferenceRepository.
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// StartDay returns the stored preference, defaulting to Monday when absent
// or unreadable.
func (r *PreferenceRepository) StartDay(ctx context.Context) Day {
	var s string
	err := r.db.QueryRowContext(ctx, `SELECT start_day FROM preferences WHERE id = 1`).Scan(&s)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Warning: failed to read preferences: %v", err)
		}
		return Monday
	}
	d, err := ParseDay(s)
	if err != nil {
		return Monday
	}
	return d
}

// SetStartDay stores the preference.
func (r *PreferenceRepository) SetStartDay(ctx context.Context, d Day) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO preferences (id, start_day) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET start_day = excluded.start_day`,
		string(d),
	)
	if err != nil {
		return fmt.Errorf("failed to store start day: %w", err)
	}
	return nil
}
