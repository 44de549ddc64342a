package recipe

// Builtin returns the built-in fallback recipe set. It is used whenever no
// remote source is configured or the remote load fails, so the app always
// ends up with a non-empty catalog. Quantities are per person.
func Builtin() []Recipe {
	return []Recipe{
		{
			ID:   "omelette",
			Name: "Omelette",
			Ingredients: []Ingredient{
				{Name: "Eggs", Quantity: 3, Unit: ""},
				{Name: "Butter", Quantity: 10, Unit: "g"},
				{Name: "Cheddar Cheese", Quantity: 30, Unit: "g"},
				{Name: "Mushrooms", Quantity: 50, Unit: "g"},
				{Name: "Cherry Tomatoes", Quantity: 4, Unit: ""},
			},
			Instructions: "Whisk the eggs. Fry the mushrooms in half the butter, set aside. Cook the eggs gently in the rest of the butter, add cheese, mushrooms and halved tomatoes, fold.",
			PrepTime:     "5 mins",
			CookTime:     "10 mins",
		},
		{
			ID:   "spaghetti-bolognese",
			Name: "Spaghetti Bolognese",
			Ingredients: []Ingredient{
				{Name: "Spaghetti", Quantity: 90, Unit: "g"},
				{Name: "Minced Beef", Quantity: 125, Unit: "g"},
				{Name: "Chopped Tomatoes", Quantity: 0.5, Unit: "tin"},
				{Name: "Onion", Quantity: 0.5, Unit: ""},
				{Name: "Garlic", Quantity: 1, Unit: "clove"},
				{Name: "Olive Oil", Quantity: 10, Unit: "ml"},
			},
			Instructions: "Soften the onion and garlic in oil, brown the mince, add the tomatoes and simmer. Serve over spaghetti.",
			PrepTime:     "10 mins",
			CookTime:     "30 mins",
		},
		{
			ID:   "chicken-stir-fry",
			Name: "Chicken Stir Fry",
			Ingredients: []Ingredient{
				{Name: "Chicken Breast", Quantity: 150, Unit: "g"},
				{Name: "Egg Noodles", Quantity: 75, Unit: "g"},
				{Name: "Mixed Vegetables", Quantity: 100, Unit: "g"},
				{Name: "Soy Sauce", Quantity: 15, Unit: "ml"},
				{Name: "Garlic", Quantity: 1, Unit: "clove"},
			},
			Instructions: "Fry the chicken until cooked through, add vegetables and garlic, toss with noodles and soy sauce.",
			PrepTime:     "10 mins",
			CookTime:     "15 mins",
		},
		{
			ID:   "jacket-potato",
			Name: "Jacket Potato with Beans",
			Ingredients: []Ingredient{
				{Name: "Baking Potato", Quantity: 1, Unit: ""},
				{Name: "Baked Beans", Quantity: 0.5, Unit: "tin"},
				{Name: "Cheddar Cheese", Quantity: 30, Unit: "g"},
				{Name: "Butter", Quantity: 10, Unit: "g"},
			},
			Instructions: "Bake the potato until crisp, split, add butter, beans and cheese.",
			PrepTime:     "5 mins",
			CookTime:     "1 hr",
		},
		{
			ID:   "tuna-pasta-salad",
			Name: "Tuna Pasta Salad",
			Ingredients: []Ingredient{
				{Name: "Pasta", Quantity: 80, Unit: "g"},
				{Name: "Tuna", Quantity: 0.5, Unit: "tin"},
				{Name: "Sweetcorn", Quantity: 40, Unit: "g"},
				{Name: "Mayonnaise", Quantity: 20, Unit: "g"},
				{Name: "Cucumber", Quantity: 0.25, Unit: ""},
			},
			Instructions: "Cook and cool the pasta, fold through tuna, sweetcorn, cucumber and mayonnaise.",
			PrepTime:     "15 mins",
		},
		{
			ID:   "veggie-chilli",
			Name: "Veggie Chilli",
			Ingredients: []Ingredient{
				{Name: "Kidney Beans", Quantity: 0.5, Unit: "tin"},
				{Name: "Chopped Tomatoes", Quantity: 0.5, Unit: "tin"},
				{Name: "Rice", Quantity: 75, Unit: "g"},
				{Name: "Onion", Quantity: 0.5, Unit: ""},
				{Name: "Red Pepper", Quantity: 0.5, Unit: ""},
				{Name: "Chilli Powder", Quantity: 0.5, Unit: "tsp"},
			},
			Instructions: "Soften the onion and pepper, add spices, beans and tomatoes, simmer. Serve with rice.",
			PrepTime:     "10 mins",
			CookTime:     "25 mins",
		},
		{
			ID:   "ham-sandwich",
			Name: "Ham Sandwich",
			Ingredients: []Ingredient{
				{Name: "Bread", Quantity: 2, Unit: "slice"},
				{Name: "Ham", Quantity: 2, Unit: "slice"},
				{Name: "Butter", Quantity: 10, Unit: "g"},
				{Name: "Lettuce", Quantity: 1, Unit: "leaf"},
			},
			PrepTime: "5 mins",
		},
		{
			ID:   "tomato-soup",
			Name: "Tomato Soup",
			Ingredients: []Ingredient{
				{Name: "Chopped Tomatoes", Quantity: 1, Unit: "tin"},
				{Name: "Onion", Quantity: 0.5, Unit: ""},
				{Name: "Vegetable Stock", Quantity: 150, Unit: "ml"},
				{Name: "Bread", Quantity: 1, Unit: "slice"},
			},
			Instructions: "Soften the onion, add tomatoes and stock, simmer and blend. Serve with bread.",
			PrepTime:     "5 mins",
			CookTime:     "20 mins",
		},
	}
}
