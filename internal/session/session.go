// Package session holds the mutable planning state for the active week and
// its persistence lifecycle: draft auto-save, explicit save to history, and
// startup recovery.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"weekly-meal-planner/internal/plan"
)

// ErrDeclined is returned when a confirmation-gated destructive operation is
// declined; all state is left unchanged.
var ErrDeclined = errors.New("cancelled")

// DraftStore persists the transient unsaved draft.
type DraftStore interface {
	Put(ctx context.Context, p *plan.Plan) error
	Get(ctx context.Context) *plan.Plan
	Clear(ctx context.Context) error
}

// SnapshotStore persists the named "current week" snapshot.
type SnapshotStore interface {
	Put(ctx context.Context, weekID string, p *plan.Plan) error
	Get(ctx context.Context) (string, *plan.Plan)
}

// HistoryStore persists saved weekly snapshots.
type HistoryStore interface {
	Upsert(ctx context.Context, e plan.HistoryEntry) error
	List(ctx context.Context) ([]plan.HistoryEntry, error)
	Get(ctx context.Context, weekID string) (*plan.HistoryEntry, error)
}

// PreferenceStore persists the start-day preference.
type PreferenceStore interface {
	StartDay(ctx context.Context) plan.Day
	SetStartDay(ctx context.Context, d plan.Day) error
}

// Confirmer is the confirmation capability the presentation layer supplies.
// Destructive operations proceed only on an affirmative result.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Session is the single stateful owner of the current plan. It is not safe
// for concurrent use; the engine is single-writer by design.
type Session struct {
	plan     *plan.Plan
	dirty    bool
	startDay plan.Day

	drafts    DraftStore
	snapshots SnapshotStore
	history   HistoryStore
	prefs     PreferenceStore
	confirm   Confirmer
}

// New creates a Session with an empty plan. Call LoadOnStartup to recover
// persisted state.
func New(drafts DraftStore, snapshots SnapshotStore, history HistoryStore, prefs PreferenceStore, confirm Confirmer) *Session {
	return &Session{
		plan:      plan.New(),
		startDay:  plan.Monday,
		drafts:    drafts,
		snapshots: snapshots,
		history:   history,
		prefs:     prefs,
		confirm:   confirm,
	}
}

// LoadOnStartup restores state with the documented precedence: a non-empty
// draft always wins (it is the last in-progress edit, even if it belongs to
// a different week) and leaves the session dirty; otherwise the current-week
// snapshot is restored when its week ID matches ref's; otherwise the plan
// starts fresh and empty.
func (s *Session) LoadOnStartup(ctx context.Context, ref time.Time) *plan.Plan {
	s.startDay = s.prefs.StartDay(ctx)

	if draft := s.drafts.Get(ctx); draft != nil && !draft.IsEmpty() {
		s.plan = draft
		s.dirty = true
		return s.plan
	}

	if weekID, snap := s.snapshots.Get(ctx); snap != nil && weekID == plan.WeekID(ref, s.startDay) {
		s.plan = snap
		s.dirty = false
		return s.plan
	}

	s.plan = plan.New()
	s.dirty = false
	return s.plan
}

// Plan exposes the live plan for rendering and aggregation.
func (s *Session) Plan() *plan.Plan {
	return s.plan
}

// Dirty reports whether there are unsaved edits.
func (s *Session) Dirty() bool {
	return s.dirty
}

// StartDay returns the active start-day preference.
func (s *Session) StartDay() plan.Day {
	return s.startDay
}

// Assign puts a recipe in a slot and auto-persists the draft.
func (s *Session) Assign(ctx context.Context, key plan.SlotKey, recipeID string) error {
	if err := s.plan.Assign(key, recipeID); err != nil {
		return err
	}
	s.markDirty(ctx)
	return nil
}

// Remove empties a slot and auto-persists the draft.
func (s *Session) Remove(ctx context.Context, key plan.SlotKey) error {
	if err := s.plan.Remove(key); err != nil {
		return err
	}
	s.markDirty(ctx)
	return nil
}

// ClearAll empties every slot. Destructive, so it is confirmation-gated;
// declining returns ErrDeclined with state untouched.
func (s *Session) ClearAll(ctx context.Context) error {
	if !s.confirm.Confirm("Clear every slot of the current week?") {
		return ErrDeclined
	}
	s.plan.Clear()
	s.markDirty(ctx)
	return nil
}

// Save snapshots the current plan into history for ref's week, writes the
// current-week snapshot, then clears the draft and dirty flag. A storage
// failure surfaces to the caller and leaves the session dirty.
func (s *Session) Save(ctx context.Context, ref time.Time) (plan.HistoryEntry, error) {
	entry := plan.HistoryEntry{
		WeekID:    plan.WeekID(ref, s.startDay),
		WeekLabel: plan.WeekLabel(ref, s.startDay),
		SavedAt:   time.Now().UTC(),
		Plan:      s.plan.Clone(),
	}

	if err := s.history.Upsert(ctx, entry); err != nil {
		return plan.HistoryEntry{}, fmt.Errorf("failed to save week to history: %w", err)
	}
	if err := s.snapshots.Put(ctx, entry.WeekID, entry.Plan); err != nil {
		return plan.HistoryEntry{}, fmt.Errorf("failed to save week snapshot: %w", err)
	}

	if err := s.drafts.Clear(ctx); err != nil {
		log.Printf("Warning: failed to clear draft after save: %v", err)
	}
	s.dirty = false
	return entry, nil
}

// History lists saved weeks, newest first.
func (s *Session) History(ctx context.Context) ([]plan.HistoryEntry, error) {
	return s.history.List(ctx)
}

// HistoryEntry returns one saved week, or nil when no entry exists for the
// week ID.
func (s *Session) HistoryEntry(ctx context.Context, weekID string) (*plan.HistoryEntry, error) {
	return s.history.Get(ctx, weekID)
}

// CopyForward replaces the current plan wholesale with a deep copy of a past
// plan. Destructive to unsaved edits, so it is confirmation-gated.
func (s *Session) CopyForward(ctx context.Context, past *plan.Plan) error {
	if past == nil {
		return errors.New("no past plan to copy")
	}
	if !s.confirm.Confirm("Replace the current week with the copied plan? Unsaved edits will be lost.") {
		return ErrDeclined
	}
	s.plan = past.Clone()
	s.markDirty(ctx)
	return nil
}

// ChangeStartDay persists the new preference. Slot contents are absolute
// days of the week, so only display ordering and week identifiers shift.
func (s *Session) ChangeStartDay(ctx context.Context, d plan.Day) error {
	if err := s.prefs.SetStartDay(ctx, d); err != nil {
		return err
	}
	s.startDay = d
	return nil
}

// markDirty flags unsaved edits and auto-persists the draft. Auto-persist is
// fire-and-forget: a full or broken store must not crash an edit.
func (s *Session) markDirty(ctx context.Context) {
	s.dirty = true
	if err := s.drafts.Put(ctx, s.plan); err != nil {
		log.Printf("Warning: failed to auto-save draft: %v", err)
	}
}
