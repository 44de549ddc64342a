package plan

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"weekly-meal-planner/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDraftRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewDraftRepository(db.SQL)
	ctx := context.Background()

	if got := repo.Get(ctx); got != nil {
		t.Fatal("Expected no draft in a fresh database")
	}

	p := New()
	key := SlotKey{Day: Friday, MealTime: Lunch, Person: Steve}
	p.Assign(key, "omelette")
	if err := repo.Put(ctx, p); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got := repo.Get(ctx)
	if got == nil || got.Get(key) != "omelette" {
		t.Fatalf("Expected the stored draft back, got %v", got)
	}

	// Put replaces, it does not accumulate rows.
	p.Assign(key, "veggie-chilli")
	if err := repo.Put(ctx, p); err != nil {
		t.Fatalf("Second Put failed: %v", err)
	}
	if got := repo.Get(ctx); got.Get(key) != "veggie-chilli" {
		t.Errorf("Expected the replaced draft, got %q", got.Get(key))
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := repo.Get(ctx); got != nil {
		t.Error("Expected no draft after Clear")
	}
}

func TestDraftRepositoryCorruptRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewDraftRepository(db.SQL)
	ctx := context.Background()

	_, err := db.SQL.ExecContext(ctx,
		`INSERT INTO draft_plan (id, plan, updated_at) VALUES (1, 'not json', ?)`, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to plant corrupt row: %v", err)
	}

	if got := repo.Get(ctx); got != nil {
		t.Error("Expected a corrupt draft to degrade to no draft")
	}
}

func TestSnapshotRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewSnapshotRepository(db.SQL)
	ctx := context.Background()

	if weekID, p := repo.Get(ctx); weekID != "" || p != nil {
		t.Fatal("Expected no snapshot in a fresh database")
	}

	p := New()
	key := SlotKey{Day: Monday, MealTime: Dinner, Person: Zoe}
	p.Assign(key, "omelette")
	if err := repo.Put(ctx, "2026-02-09", p); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	weekID, got := repo.Get(ctx)
	if weekID != "2026-02-09" {
		t.Errorf("Expected week ID 2026-02-09, got %s", weekID)
	}
	if got == nil || got.Get(key) != "omelette" {
		t.Fatalf("Expected the stored snapshot back, got %v", got)
	}

	// A later save for another week replaces the single row.
	if err := repo.Put(ctx, "2026-02-16", New()); err != nil {
		t.Fatalf("Second Put failed: %v", err)
	}
	weekID, got = repo.Get(ctx)
	if weekID != "2026-02-16" || !got.IsEmpty() {
		t.Errorf("Expected the replaced snapshot, got %s %v", weekID, got)
	}
}

func TestSnapshotRepositoryCorruptRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewSnapshotRepository(db.SQL)
	ctx := context.Background()

	_, err := db.SQL.ExecContext(ctx,
		`INSERT INTO current_week (id, week_id, plan, saved_at) VALUES (1, '2026-02-09', '{broken', ?)`,
		time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to plant corrupt row: %v", err)
	}

	if weekID, p := repo.Get(ctx); weekID != "" || p != nil {
		t.Error("Expected a corrupt snapshot to degrade to no snapshot")
	}
}

func historyEntry(weekID string, savedAt time.Time, recipeID string) HistoryEntry {
	p := New()
	p.Assign(SlotKey{Day: Monday, MealTime: Lunch, Person: Steve}, recipeID)
	return HistoryEntry{WeekID: weekID, WeekLabel: "week " + weekID, SavedAt: savedAt, Plan: p}
}

func TestHistoryRepositoryUpsertOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewHistoryRepository(db.SQL)
	ctx := context.Background()

	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	if err := repo.Upsert(ctx, historyEntry("2026-02-09", base, "omelette")); err != nil {
		t.Fatalf("First Upsert failed: %v", err)
	}
	if err := repo.Upsert(ctx, historyEntry("2026-02-09", base.Add(time.Hour), "veggie-chilli")); err != nil {
		t.Fatalf("Second Upsert failed: %v", err)
	}

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected one entry for the re-saved week, got %d", len(entries))
	}
	key := SlotKey{Day: Monday, MealTime: Lunch, Person: Steve}
	if got := entries[0].Plan.Get(key); got != "veggie-chilli" {
		t.Errorf("Expected the second save's contents, got %q", got)
	}
}

func TestHistoryRepositoryEviction(t *testing.T) {
	db := newTestDB(t)
	repo := NewHistoryRepository(db.SQL)
	ctx := context.Background()

	// 2025-06-02 is a Monday.
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	saves := HistoryLimit + 2
	for i := 0; i < saves; i++ {
		weekID := start.AddDate(0, 0, 7*i).Format("2006-01-02")
		savedAt := start.Add(time.Duration(i) * time.Minute)
		if err := repo.Upsert(ctx, historyEntry(weekID, savedAt, fmt.Sprintf("recipe-%d", i))); err != nil {
			t.Fatalf("Upsert %d failed: %v", i, err)
		}
	}

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != HistoryLimit {
		t.Fatalf("Expected history capped at %d after %d saves, got %d", HistoryLimit, saves, len(entries))
	}

	// Newest first by save time.
	newest := start.AddDate(0, 0, 7*(saves-1)).Format("2006-01-02")
	if entries[0].WeekID != newest {
		t.Errorf("Expected newest entry %s first, got %s", newest, entries[0].WeekID)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].SavedAt.After(entries[i-1].SavedAt) {
			t.Fatalf("Expected entries ordered newest first, %s follows %s", entries[i].WeekID, entries[i-1].WeekID)
		}
	}

	// The two oldest by save time are gone.
	for i := 0; i < saves-HistoryLimit; i++ {
		weekID := start.AddDate(0, 0, 7*i).Format("2006-01-02")
		got, err := repo.Get(ctx, weekID)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", weekID, err)
		}
		if got != nil {
			t.Errorf("Expected the oldest entry %s to be evicted", weekID)
		}
	}
}

func TestHistoryRepositoryCorruptRowSkipped(t *testing.T) {
	db := newTestDB(t)
	repo := NewHistoryRepository(db.SQL)
	ctx := context.Background()

	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	if err := repo.Upsert(ctx, historyEntry("2026-02-09", base, "omelette")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	_, err := db.SQL.ExecContext(ctx,
		`INSERT INTO history (week_id, week_label, saved_at, plan) VALUES ('2026-02-02', 'bad week', ?, '{broken')`,
		base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("Failed to plant corrupt row: %v", err)
	}

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].WeekID != "2026-02-09" {
		t.Errorf("Expected the corrupt row skipped and the good one kept, got %v", entries)
	}
}

func TestHistoryRepositoryGetAbsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewHistoryRepository(db.SQL)

	got, err := repo.Get(context.Background(), "2026-02-09")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for an absent week")
	}
}

func TestPreferenceRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewPreferenceRepository(db.SQL)
	ctx := context.Background()

	if got := repo.StartDay(ctx); got != Monday {
		t.Errorf("Expected the Monday default, got %s", got)
	}

	if err := repo.SetStartDay(ctx, Friday); err != nil {
		t.Fatalf("SetStartDay failed: %v", err)
	}
	if got := repo.StartDay(ctx); got != Friday {
		t.Errorf("Expected friday, got %s", got)
	}

	// An unparseable stored value falls back to Monday.
	if _, err := db.SQL.ExecContext(ctx,
		`UPDATE preferences SET start_day = 'someday' WHERE id = 1`); err != nil {
		t.Fatalf("Failed to plant bad value: %v", err)
	}
	if got := repo.StartDay(ctx); got != Monday {
		t.Errorf("Expected the Monday fallback for a bad value, got %s", got)
	}
}
