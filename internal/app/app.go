package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"weekly-meal-planner/internal/catalog"
	"weekly-meal-planner/internal/clipper"
	"weekly-meal-planner/internal/metrics"
	"weekly-meal-planner/internal/plan"
	"weekly-meal-planner/internal/recipe"
	"weekly-meal-planner/internal/session"
	"weekly-meal-planner/internal/shopping"
)

// App wires the engine together and implements the user-facing actions the
// presentation layer (CLI or bot) exposes. All output is plain text written
// to Out.
type App struct {
	Session *session.Session
	Loader  *catalog.Loader
	Clipper *clipper.Clipper
	Metrics *metrics.Store
	Out     io.Writer
}

// Init recovers persisted state and loads the catalog, reporting how the
// catalog resolved. Recovered remote failures surface as notices, not
// errors.
func (a *App) Init(ctx context.Context, ref time.Time) {
	a.Session.LoadOnStartup(ctx, ref)
	_, status := a.Loader.Load(ctx)
	a.printLoadNotice(status)
}

func (a *App) printLoadNotice(status catalog.Status) {
	switch {
	case errors.Is(status.Err, catalog.ErrNoRecipes):
		fmt.Fprintln(a.Out, "No recipes found in the remote source; using the built-in recipes.")
	case status.Err != nil:
		fmt.Fprintf(a.Out, "Recipe fetch failed (%v); using the built-in recipes.\n", status.Err)
	}
}

// ShowWeek prints the weekly grid in start-day order. Slots referencing a
// recipe missing from the current catalog render the raw ID with a marker
// rather than failing.
func (a *App) ShowWeek(ctx context.Context, ref time.Time) {
	startDay := a.Session.StartDay()
	label := plan.WeekLabel(ref, startDay)
	if a.Session.Dirty() {
		label += " (unsaved changes)"
	}
	fmt.Fprintf(a.Out, "Week %s\n\n", label)

	p := a.Session.Plan()
	cat := a.Loader.Current()
	for _, day := range plan.OrderedDays(startDay) {
		fmt.Fprintf(a.Out, "%s\n", strings.ToUpper(string(day)))
		for _, mt := range plan.MealTimes {
			for _, person := range plan.People {
				key := plan.SlotKey{Day: day, MealTime: mt, Person: person}
				fmt.Fprintf(a.Out, "  %-7s %-6s %s\n", mt, person, a.describeSlot(p, key, cat))
			}
		}
	}
}

func (a *App) describeSlot(p *plan.Plan, key plan.SlotKey, cat *recipe.Catalog) string {
	id := p.Get(key)
	if id == "" {
		return "-"
	}
	if cat != nil {
		if rec, ok := cat.FindByID(id); ok {
			return rec.Name
		}
	}
	return id + " (?)"
}

// AssignSlot parses the slot key, checks the recipe exists in the current
// catalog, and assigns it.
func (a *App) AssignSlot(ctx context.Context, slotKey, recipeID string) error {
	key, err := plan.ParseSlotKey(slotKey)
	if err != nil {
		return err
	}
	cat := a.Loader.Current()
	if cat == nil {
		return errors.New("no recipes loaded yet")
	}
	rec, ok := cat.FindByID(recipeID)
	if !ok {
		return fmt.Errorf("unknown recipe %q: run 'recipes' to list the catalog", recipeID)
	}
	if err := a.Session.Assign(ctx, key, rec.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Assigned %s to %s.\n", rec.Name, key)
	return nil
}

// RemoveSlot empties one slot.
func (a *App) RemoveSlot(ctx context.Context, slotKey string) error {
	key, err := plan.ParseSlotKey(slotKey)
	if err != nil {
		return err
	}
	if err := a.Session.Remove(ctx, key); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Cleared %s.\n", key)
	return nil
}

// ClearWeek empties every slot after confirmation.
func (a *App) ClearWeek(ctx context.Context) error {
	if err := a.Session.ClearAll(ctx); err != nil {
		if errors.Is(err, session.ErrDeclined) {
			fmt.Fprintln(a.Out, "Clear cancelled.")
			return nil
		}
		return err
	}
	fmt.Fprintln(a.Out, "Week cleared.")
	return nil
}

// SaveWeek commits the current plan to history for ref's week.
func (a *App) SaveWeek(ctx context.Context, ref time.Time) error {
	entry, err := a.Session.Save(ctx, ref)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Saved week %s (%s).\n", entry.WeekLabel, entry.WeekID)
	return nil
}

// ShowHistory lists saved weeks, newest first.
func (a *App) ShowHistory(ctx context.Context) error {
	entries, err := a.Session.History(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.Out, "No saved weeks yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(a.Out, "%s  %s  (saved %s)\n", e.WeekID, e.WeekLabel, e.SavedAt.Format("2 Jan 2006 15:04"))
	}
	return nil
}

// CopyWeekForward replaces the current plan with a saved week's plan after
// confirmation.
func (a *App) CopyWeekForward(ctx context.Context, weekID string) error {
	entry, err := a.Session.HistoryEntry(ctx, weekID)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("no saved week %q: run 'history' to list saved weeks", weekID)
	}
	if err := a.Session.CopyForward(ctx, entry.Plan); err != nil {
		if errors.Is(err, session.ErrDeclined) {
			fmt.Fprintln(a.Out, "Copy cancelled.")
			return nil
		}
		return err
	}
	fmt.Fprintf(a.Out, "Copied week %s into the current week.\n", entry.WeekLabel)
	return nil
}

// ShoppingList prints the consolidated list for the current plan.
func (a *App) ShoppingList(ctx context.Context) {
	items := a.aggregate()
	if len(items) == 0 {
		fmt.Fprintln(a.Out, "Shopping list is empty.")
		return
	}
	for _, it := range items {
		fmt.Fprintf(a.Out, "%s  %s\n", shopping.FormatQuantity(it.Quantity, it.Unit), it.Name)
	}
}

// ExportShoppingList prints the copy-as-text rendition of the list.
func (a *App) ExportShoppingList(ctx context.Context, ref time.Time) {
	title := "Shopping List " + plan.WeekLabel(ref, a.Session.StartDay())
	fmt.Fprint(a.Out, shopping.ExportText(title, a.aggregate()))
}

func (a *App) aggregate() []shopping.Item {
	cat := a.Loader.Current()
	if cat == nil {
		return nil
	}
	return shopping.Aggregate(a.Session.Plan(), cat)
}

// RefreshRecipes invalidates the cache and reloads the catalog.
func (a *App) RefreshRecipes(ctx context.Context) {
	cat, status := a.Loader.Refresh(ctx)
	a.printLoadNotice(status)
	if status.Err == nil && !status.Superseded {
		fmt.Fprintf(a.Out, "Loaded %d recipes (%s).\n", cat.Len(), status.Source)
	}
}

// ListRecipes prints the catalog sorted by name.
func (a *App) ListRecipes(ctx context.Context) {
	cat := a.Loader.Current()
	if cat == nil {
		fmt.Fprintln(a.Out, "No recipes loaded yet.")
		return
	}
	for _, rec := range cat.List() {
		fmt.Fprintf(a.Out, "%-24s %s\n", rec.ID, rec.Name)
	}
}

// ChangeStartDay persists a new start-day preference.
func (a *App) ChangeStartDay(ctx context.Context, day string) error {
	d, err := plan.ParseDay(day)
	if err != nil {
		return err
	}
	if err := a.Session.ChangeStartDay(ctx, d); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Week now starts on %s.\n", d)
	return nil
}

// ClipRecipe imports a recipe from a URL into the custom recipe store and
// reloads the catalog so it becomes assignable immediately. Custom recipes
// are merged over every load, so a plain Load picks it up without
// invalidating a still-valid remote cache.
func (a *App) ClipRecipe(ctx context.Context, url string) error {
	rec, err := a.Clipper.ClipURL(ctx, url)
	if err != nil {
		return err
	}
	_, status := a.Loader.Load(ctx)
	a.printLoadNotice(status)
	fmt.Fprintf(a.Out, "Clipped %q as %s (%d ingredients).\n", rec.Name, rec.ID, len(rec.Ingredients))
	return nil
}

// ShowStats prints the most recent remote fetch attempts.
func (a *App) ShowStats(ctx context.Context, n int) error {
	if a.Metrics == nil {
		fmt.Fprintln(a.Out, "Metrics are not enabled.")
		return nil
	}
	recent, err := a.Metrics.Recent(n)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		fmt.Fprintln(a.Out, "No fetches recorded yet.")
		return nil
	}
	for _, m := range recent {
		fmt.Fprintf(a.Out, "%s  %-7s %-5s %3d recipes  %dms\n",
			m.Timestamp.Format("2 Jan 15:04"), m.Source, m.Outcome, m.RecipeCount, m.LatencyMS)
	}
	return nil
}
