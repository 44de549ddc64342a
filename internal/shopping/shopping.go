package shopping

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"weekly-meal-planner/internal/plan"
	"weekly-meal-planner/internal/recipe"
)

// Item is one consolidated shopping-list line: the summed quantity of an
// ingredient across every assigned person-slot of the plan.
type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// denseUnits render with no space between quantity and unit ("300g", "2l").
var denseUnits = map[string]bool{
	"g":  true,
	"kg": true,
	"ml": true,
	"l":  true,
}

// Aggregate walks every slot of the plan, resolves assignments through the
// catalog and merges ingredient quantities by (lowercased name, exact unit).
// Quantities are per person, so a meal shared by all three people
// contributes its ingredients three times, once per person-slot. Empty slots
// and recipe IDs missing from the catalog are skipped; Aggregate never
// fails. The result is sorted by display name.
func Aggregate(p *plan.Plan, cat *recipe.Catalog) []Item {
	type bucket struct {
		name     string // first-seen display casing
		quantity float64
		unit     string
	}

	merged := make(map[string]*bucket)
	for _, k := range plan.AllSlots() {
		id := p.Get(k)
		if id == "" {
			continue
		}
		rec, ok := cat.FindByID(id)
		if !ok {
			continue
		}
		for _, ing := range rec.Ingredients {
			key := strings.ToLower(ing.Name) + "\x00" + ing.Unit
			b, ok := merged[key]
			if !ok {
				b = &bucket{name: ing.Name, unit: ing.Unit}
				merged[key] = b
			}
			b.quantity += ing.Quantity
		}
	}

	items := make([]Item, 0, len(merged))
	for _, b := range merged {
		items = append(items, Item{Name: b.name, Quantity: b.quantity, Unit: b.unit})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// FormatQuantity renders a quantity with its unit: rounded to one decimal
// place, shown as an integer when the rounded value has no fractional part.
// Dense units attach directly ("300g"); other units get a single space
// ("2.5 tin"); an empty unit is omitted.
func FormatQuantity(quantity float64, unit string) string {
	rounded := math.Round(quantity*10) / 10
	var num string
	if rounded == math.Trunc(rounded) {
		num = fmt.Sprintf("%d", int64(rounded))
	} else {
		num = fmt.Sprintf("%.1f", rounded)
	}
	switch {
	case unit == "":
		return num
	case denseUnits[unit]:
		return num + unit
	default:
		return num + " " + unit
	}
}

// ExportText renders the list as plain text for the clipboard or a file:
// a title line, an underline, a blank line, then one line per item.
func ExportText(title string, items []Item) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("=", utf8.RuneCountInString(title)))
	sb.WriteString("\n\n")
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("%s  %s\n", FormatQuantity(it.Quantity, it.Unit), it.Name))
	}
	return sb.String()
}
