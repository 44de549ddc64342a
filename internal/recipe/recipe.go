package recipe

import (
	"sort"
	"strings"
)

// Ingredient is a single line item of a recipe. Quantity is the amount
// needed for one person; the unit may be empty for countable items.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Recipe is one known meal. Recipes are immutable once loaded; the active
// catalog is swapped wholesale on load/refresh, never mutated in place.
type Recipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions string       `json:"instructions,omitempty"`
	PrepTime     string       `json:"prep_time,omitempty"`
	CookTime     string       `json:"cook_time,omitempty"`
	Source       string       `json:"source,omitempty"`
}

// Slugify derives a recipe ID from a display name: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens stripped.
func Slugify(name string) string {
	var sb strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(sb.String(), "-")
}

// Catalog is the current set of known recipes, indexed by ID.
type Catalog struct {
	recipes []Recipe
	byID    map[string]int
}

// NewCatalog builds a catalog from a recipe list. Later entries with a
// duplicate ID replace earlier ones, which is how clipped custom recipes
// override remote ones of the same slug.
func NewCatalog(recipes []Recipe) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(recipes))}
	for _, r := range recipes {
		if r.ID == "" {
			r.ID = Slugify(r.Name)
		}
		if idx, ok := c.byID[r.ID]; ok {
			c.recipes[idx] = r
			continue
		}
		c.byID[r.ID] = len(c.recipes)
		c.recipes = append(c.recipes, r)
	}
	return c
}

// FindByID looks up a recipe. The boolean distinguishes "not in the current
// catalog" from a zero-valued recipe; callers must treat a miss as a
// skippable condition, never an error.
func (c *Catalog) FindByID(id string) (Recipe, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Recipe{}, false
	}
	return c.recipes[idx], true
}

// List returns all recipes sorted by name.
func (c *Catalog) List() []Recipe {
	out := make([]Recipe, len(c.recipes))
	copy(out, c.recipes)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len reports the number of recipes in the catalog.
func (c *Catalog) Len() int {
	return len(c.recipes)
}
