// Package clipper imports recipes from web pages. Most recipe sites embed a
// schema.org Recipe object as JSON-LD; the clipper extracts it and converts
// the ingredient strings into the catalog's structured form.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"weekly-meal-planner/internal/recipe"

	"github.com/PuerkitoBio/goquery"
)

// CustomStore receives clipped recipes.
type CustomStore interface {
	Save(ctx context.Context, rec recipe.Recipe) error
}

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	httpClient *http.Client
	store      CustomStore
}

// NewClipper creates a new Clipper instance.
func NewClipper(store CustomStore) *Clipper {
	return &Clipper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      store,
	}
}

// ClipURL fetches the URL, extracts the recipe, and saves it to the custom
// recipe store. The returned recipe carries a slug ID derived from its name.
func (c *Clipper) ClipURL(ctx context.Context, url string) (recipe.Recipe, error) {
	doc, err := c.fetch(ctx, url)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	node, ok := findRecipeNode(doc)
	if !ok {
		return recipe.Recipe{}, fmt.Errorf("no schema.org recipe found at %s", url)
	}

	rec := mapRecipeNode(node, url)
	if rec.Name == "" {
		return recipe.Recipe{}, fmt.Errorf("recipe at %s has no name", url)
	}
	rec.ID = recipe.Slugify(rec.Name)

	if err := c.store.Save(ctx, rec); err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to save clipped recipe: %w", err)
	}
	return rec, nil
}

func (c *Clipper) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// findRecipeNode scans the document's JSON-LD blocks for a schema.org
// Recipe, looking at top-level objects, arrays, and @graph members.
func findRecipeNode(doc *goquery.Document) (map[string]interface{}, bool) {
	var found map[string]interface{}
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw interface{}
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true // malformed block, keep scanning
		}
		if node, ok := searchNode(raw); ok {
			found = node
			return false
		}
		return true
	})
	return found, found != nil
}

func searchNode(raw interface{}) (map[string]interface{}, bool) {
	switch v := raw.(type) {
	case []interface{}:
		for _, item := range v {
			if node, ok := searchNode(item); ok {
				return node, true
			}
		}
	case map[string]interface{}:
		if isRecipeType(v["@type"]) {
			return v, true
		}
		if graph, ok := v["@graph"]; ok {
			return searchNode(graph)
		}
	}
	return nil, false
}

func isRecipeType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

func mapRecipeNode(node map[string]interface{}, sourceURL string) recipe.Recipe {
	rec := recipe.Recipe{
		Name:         asString(node["name"]),
		Instructions: instructionsText(node["recipeInstructions"]),
		PrepTime:     humanDuration(asString(node["prepTime"])),
		CookTime:     humanDuration(asString(node["cookTime"])),
		Source:       sourceURL,
	}

	servings := parseServings(node["recipeYield"])
	if list, ok := node["recipeIngredient"].([]interface{}); ok {
		for _, item := range list {
			line := strings.TrimSpace(asString(item))
			if line == "" {
				continue
			}
			ing := ParseIngredient(line)
			if servings > 1 {
				ing.Quantity /= float64(servings)
			}
			rec.Ingredients = append(rec.Ingredients, ing)
		}
	}
	return rec
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// instructionsText flattens the recipeInstructions field, which may be a
// plain string or a list of HowToStep objects.
func instructionsText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []interface{}:
		var steps []string
		for _, item := range t {
			switch step := item.(type) {
			case string:
				steps = append(steps, strings.TrimSpace(step))
			case map[string]interface{}:
				if text := asString(step["text"]); text != "" {
					steps = append(steps, strings.TrimSpace(text))
				}
			}
		}
		return strings.Join(steps, " ")
	}
	return ""
}

// humanDuration converts an ISO 8601 duration like PT1H30M to "1 hr 30
// mins". Anything unrecognised passes through untouched.
func humanDuration(iso string) string {
	s := strings.TrimPrefix(iso, "PT")
	if s == iso || s == "" {
		return iso
	}
	var parts []string
	for s != "" {
		i := 0
		for i < len(s) && (s[i] >= '0' && s[i] <= '9') {
			i++
		}
		if i == 0 || i >= len(s) {
			return iso
		}
		n, _ := strconv.Atoi(s[:i])
		switch s[i] {
		case 'H':
			parts = append(parts, fmt.Sprintf("%d hr", n))
		case 'M':
			parts = append(parts, fmt.Sprintf("%d mins", n))
		case 'S':
			// seconds are noise for cooking times
		default:
			return iso
		}
		s = s[i+1:]
	}
	return strings.Join(parts, " ")
}

func parseServings(v interface{}) int {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		return int(t)
	case []interface{}:
		if len(t) > 0 {
			s = asString(t[0])
		}
	}
	// Yields often read "4" or "Serves 4"; take the first number found.
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(s[i:j])
			return n
		}
	}
	return 0
}

// knownUnits maps ingredient-line unit spellings to the catalog's unit keys.
var knownUnits = map[string]string{
	"g": "g", "gram": "g", "grams": "g",
	"kg": "kg", "kilogram": "kg", "kilograms": "kg",
	"ml": "ml", "millilitre": "ml", "millilitres": "ml", "milliliter": "ml", "milliliters": "ml",
	"l": "l", "litre": "l", "litres": "l", "liter": "l", "liters": "l",
	"tsp": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
	"tbsp": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
	"cup": "cup", "cups": "cup",
	"tin": "tin", "tins": "tin", "can": "tin", "cans": "tin",
	"clove": "clove", "cloves": "clove",
	"slice": "slice", "slices": "slice",
	"oz": "oz", "lb": "lb",
}

// ParseIngredient converts a free-form ingredient line ("200 g flour",
// "2 eggs", "1/2 tin chopped tomatoes") into a structured ingredient. Lines
// with no leading quantity come back with quantity 0 and the whole line as
// the name.
func ParseIngredient(line string) recipe.Ingredient {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return recipe.Ingredient{}
	}

	qty, ok := parseQuantity(fields[0])
	if !ok {
		return recipe.Ingredient{Name: line}
	}

	rest := fields[1:]
	unit := ""
	if len(rest) > 1 {
		if u, ok := knownUnits[strings.ToLower(rest[0])]; ok {
			unit = u
			rest = rest[1:]
		}
	}
	// "200g flour" with the unit glued onto the number
	if unit == "" && len(rest) > 0 {
		numLen := 0
		for numLen < len(fields[0]) && (fields[0][numLen] >= '0' && fields[0][numLen] <= '9' || fields[0][numLen] == '.') {
			numLen++
		}
		if suffix := strings.ToLower(fields[0][numLen:]); suffix != "" {
			if u, ok := knownUnits[suffix]; ok {
				unit = u
			}
		}
	}

	name := strings.TrimSpace(strings.Join(rest, " "))
	if name == "" {
		name = line
		qty = 0
		unit = ""
	}
	return recipe.Ingredient{Name: name, Quantity: qty, Unit: unit}
}

func parseQuantity(token string) (float64, bool) {
	if num, den, ok := strings.Cut(token, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 == nil && err2 == nil && d != 0 {
			return n / d, true
		}
		return 0, false
	}
	// Strip a glued unit suffix ("200g")
	numLen := 0
	for numLen < len(token) && (token[numLen] >= '0' && token[numLen] <= '9' || token[numLen] == '.') {
		numLen++
	}
	if numLen == 0 {
		return 0, false
	}
	q, err := strconv.ParseFloat(token[:numLen], 64)
	if err != nil {
		return 0, false
	}
	return q, true
}
