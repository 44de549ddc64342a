package sheets

import (
	"strconv"
	"strings"

	"weekly-meal-planner/internal/recipe"
)

// Column names resolved from the header rows. Resolution is by name, not
// position, so the sheet's column order does not matter.
const (
	colRecipeID       = "recipeid"
	colRecipeName     = "recipename"
	colInstructions   = "instructions"
	colPrepTime       = "preptime"
	colCookTime       = "cooktime"
	colSource         = "source"
	colIngredientName = "ingredientname"
	colQuantity       = "quantity"
	colUnit           = "unit"
)

// header maps normalized column names to their index in a header row.
type header map[string]int

func parseHeader(row []string) header {
	h := make(header, len(row))
	for i, cell := range row {
		name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(cell), " ", ""))
		if name != "" {
			h[name] = i
		}
	}
	return h
}

func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Transform joins the two raw tables into recipes. Recipe rows without a
// name are skipped; a blank RecipeID is derived by slugifying the name.
// Ingredient rows without a RecipeID, or referencing an unknown one, are
// skipped. A non-parseable quantity becomes 0. An empty or header-only
// input yields an empty slice, which the loader treats as "no recipes
// found".
func Transform(t *Tables) []recipe.Recipe {
	if t == nil || len(t.Recipes) < 2 {
		return nil
	}

	recipeHeader := parseHeader(t.Recipes[0])
	byID := make(map[string]int)
	var recipes []recipe.Recipe

	for _, row := range t.Recipes[1:] {
		name := recipeHeader.get(row, colRecipeName)
		if name == "" {
			continue
		}
		id := recipeHeader.get(row, colRecipeID)
		if id == "" {
			id = recipe.Slugify(name)
		}
		if _, dup := byID[id]; dup {
			continue
		}
		byID[id] = len(recipes)
		recipes = append(recipes, recipe.Recipe{
			ID:           id,
			Name:         name,
			Instructions: recipeHeader.get(row, colInstructions),
			PrepTime:     recipeHeader.get(row, colPrepTime),
			CookTime:     recipeHeader.get(row, colCookTime),
			Source:       recipeHeader.get(row, colSource),
		})
	}

	if len(t.Ingredients) >= 2 {
		ingHeader := parseHeader(t.Ingredients[0])
		for _, row := range t.Ingredients[1:] {
			id := ingHeader.get(row, colRecipeID)
			if id == "" {
				continue
			}
			idx, ok := byID[id]
			if !ok {
				continue
			}
			qty, err := strconv.ParseFloat(ingHeader.get(row, colQuantity), 64)
			if err != nil {
				qty = 0
			}
			recipes[idx].Ingredients = append(recipes[idx].Ingredients, recipe.Ingredient{
				Name:     ingHeader.get(row, colIngredientName),
				Quantity: qty,
				Unit:     ingHeader.get(row, colUnit),
			})
		}
	}

	return recipes
}
