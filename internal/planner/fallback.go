package planner

import (
	"fmt"
)

// variationCycle bounds the visible variation marker appended once the
// requested duration wraps past the catalog.
const variationCycle = 3

// SynthesizeFallbackPlan produces a fully valid plan candidate from the
// fixed meal catalog, deterministically and without any external dependency.
// Day d takes catalog entry (d-1) mod size per slot; once the duration wraps
// past the catalog, a visible "(Variation N)" marker is appended to the meal
// name. Repeats are an honest, auditable degradation, never a silent one.
func SynthesizeFallbackPlan(prefs Preferences, subjectName string, duration int) *PlanCandidate {
	days := make([]DailyPlan, 0, duration)
	for d := 1; d <= duration; d++ {
		day := DailyPlan{
			Day:   d,
			Meals: make(map[Slot]Meal, len(RequiredSlots)),
		}
		for _, slot := range RequiredSlots {
			day.Meals[slot] = fallbackMealForDay(slot, d)
		}
		RecomputeDay(&day)
		days = append(days, day)
	}

	name := displayName(subjectName)
	return &PlanCandidate{
		Title:       fmt.Sprintf("%d-Day Staples Plan for %s", duration, name),
		Description: fmt.Sprintf("A ready-to-use %d-day meal plan for %s built from balanced staple dishes.", duration, name),
		Days:        days,
	}
}

// fallbackMealForDay selects the catalog meal for a slot on 1-based day d.
func fallbackMealForDay(slot Slot, d int) Meal {
	catalog := fallbackCatalog[slot]
	if len(catalog) == 0 {
		// A missing catalog is a configuration bug, not a runtime
		// condition to recover from.
		panic(fmt.Sprintf("fallback catalog has no meals for slot %q", slot))
	}

	index := (d - 1) % len(catalog)
	offset := ((d - 1) / len(catalog)) % variationCycle

	meal := catalog[index]
	if offset > 0 {
		meal.Name = fmt.Sprintf("%s (Variation %d)", meal.Name, offset)
	}
	return meal
}

// DefaultMealForSlot is the small built-in replacement used when single-meal
// regeneration fails entirely. It carries over the replaced meal's calorie
// count so downstream aggregates stay meaningful.
func DefaultMealForSlot(slot Slot, calories int) Meal {
	meal := defaultMeals[slot]
	if meal.Name == "" {
		panic(fmt.Sprintf("no default meal for slot %q", slot))
	}
	meal.Calories = calories
	return meal
}

var defaultMeals = map[Slot]Meal{
	SlotBreakfast: {
		Name:         "Oatmeal with Banana",
		Description:  "Rolled oats simmered in milk, topped with sliced banana.",
		Slot:         SlotBreakfast,
		Calories:     320,
		PrepTime:     "10 mins",
		Difficulty:   "easy",
		Ingredients:  []string{"rolled oats", "milk", "banana", "honey"},
		Instructions: []string{"Simmer oats in milk until creamy.", "Top with banana and a drizzle of honey."},
		Nutrition:    Nutrition{Protein: 10, Carbs: 55, Fat: 6, Fiber: 6},
		Allergens:    []string{"milk"},
	},
	SlotLunch: {
		Name:         "Turkey and Cheese Sandwich",
		Description:  "Whole-grain sandwich with sliced turkey, cheese and lettuce.",
		Slot:         SlotLunch,
		Calories:     420,
		PrepTime:     "5 mins",
		Difficulty:   "easy",
		Ingredients:  []string{"whole-grain bread", "turkey slices", "cheddar", "lettuce"},
		Instructions: []string{"Layer turkey, cheese and lettuce between bread slices."},
		Nutrition:    Nutrition{Protein: 26, Carbs: 40, Fat: 14, Fiber: 5},
		Allergens:    []string{"gluten", "milk"},
	},
	SlotDinner: {
		Name:         "Baked Chicken with Rice",
		Description:  "Oven-baked chicken breast with steamed rice and carrots.",
		Slot:         SlotDinner,
		Calories:     520,
		PrepTime:     "35 mins",
		Difficulty:   "easy",
		Ingredients:  []string{"chicken breast", "rice", "carrots", "olive oil"},
		Instructions: []string{"Bake seasoned chicken at 200C for 25 minutes.", "Serve over steamed rice with carrots."},
		Nutrition:    Nutrition{Protein: 38, Carbs: 52, Fat: 12, Fiber: 4},
	},
	SlotSnack: {
		Name:         "Apple with Peanut-Free Seed Butter",
		Description:  "Apple slices with sunflower seed butter.",
		Slot:         SlotSnack,
		Calories:     180,
		PrepTime:     "2 mins",
		Difficulty:   "easy",
		Ingredients:  []string{"apple", "sunflower seed butter"},
		Instructions: []string{"Slice the apple and serve with seed butter."},
		Nutrition:    Nutrition{Protein: 4, Carbs: 24, Fat: 8, Fiber: 4},
	},
}

// fallbackCatalog is the fixed canned-meal catalog, seven meals per slot.
var fallbackCatalog = map[Slot][]Meal{
	SlotBreakfast: {
		{
			Name: "Scrambled Eggs on Toast", Slot: SlotBreakfast, Calories: 340,
			Description: "Soft scrambled eggs on buttered whole-grain toast.",
			PrepTime:    "10 mins", Difficulty: "easy",
			Ingredients:  []string{"eggs", "whole-grain bread", "butter", "chives"},
			Instructions: []string{"Whisk and scramble the eggs over low heat.", "Serve on buttered toast with chives."},
			Nutrition:    Nutrition{Protein: 18, Carbs: 28, Fat: 16, Fiber: 4},
			Allergens:    []string{"egg", "gluten", "milk"}, KidFriendliness: 4,
		},
		{
			Name: "Berry Yogurt Parfait", Slot: SlotBreakfast, Calories: 290,
			Description: "Greek yogurt layered with berries and granola.",
			PrepTime:    "5 mins", Difficulty: "easy",
			Ingredients:  []string{"greek yogurt", "mixed berries", "granola", "honey"},
			Instructions: []string{"Layer yogurt, berries and granola in a glass.", "Finish with honey."},
			Nutrition:    Nutrition{Protein: 15, Carbs: 38, Fat: 8, Fiber: 5},
			Allergens:    []string{"milk", "gluten"}, KidFriendliness: 5,
		},
		{
			Name: "Banana Pancakes", Slot: SlotBreakfast, Calories: 380,
			Description: "Fluffy pancakes with mashed banana in the batter.",
			PrepTime:    "20 mins", Difficulty: "medium",
			Ingredients:  []string{"flour", "banana", "eggs", "milk", "maple syrup"},
			Instructions: []string{"Mix batter with mashed banana.", "Cook pancakes on a hot griddle.", "Serve with maple syrup."},
			Nutrition:    Nutrition{Protein: 11, Carbs: 62, Fat: 10, Fiber: 4},
			Allergens:    []string{"gluten", "egg", "milk"}, KidFriendliness: 5,
		},
		{
			Name: "Avocado Toast with Tomato", Slot: SlotBreakfast, Calories: 310,
			Description: "Smashed avocado on sourdough with cherry tomatoes.",
			PrepTime:    "8 mins", Difficulty: "easy",
			Ingredients:  []string{"sourdough bread", "avocado", "cherry tomatoes", "lemon"},
			Instructions: []string{"Toast the bread and smash the avocado with lemon.", "Top with halved tomatoes."},
			Nutrition:    Nutrition{Protein: 8, Carbs: 34, Fat: 17, Fiber: 8},
			Allergens:    []string{"gluten"}, KidFriendliness: 3,
		},
		{
			Name: "Overnight Oats with Apple", Slot: SlotBreakfast, Calories: 330,
			Description: "Oats soaked overnight with grated apple and cinnamon.",
			PrepTime:    "5 mins", Difficulty: "easy",
			Ingredients:  []string{"rolled oats", "milk", "apple", "cinnamon", "raisins"},
			Instructions: []string{"Combine everything in a jar.", "Refrigerate overnight and stir before serving."},
			Nutrition:    Nutrition{Protein: 11, Carbs: 58, Fat: 7, Fiber: 7},
			Allergens:    []string{"milk"}, KidFriendliness: 4,
		},
		{
			Name: "Veggie Omelette", Slot: SlotBreakfast, Calories: 300,
			Description: "Two-egg omelette with peppers, spinach and cheese.",
			PrepTime:    "12 mins", Difficulty: "medium",
			Ingredients:  []string{"eggs", "bell pepper", "spinach", "cheddar"},
			Instructions: []string{"Saute the vegetables.", "Pour in beaten eggs and fold with cheese."},
			Nutrition:    Nutrition{Protein: 19, Carbs: 6, Fat: 21, Fiber: 2},
			Allergens:    []string{"egg", "milk"}, KidFriendliness: 3,
		},
		{
			Name: "Peanut-Free Granola Bowl", Slot: SlotBreakfast, Calories: 350,
			Description: "Nut-free granola with milk and sliced strawberries.",
			PrepTime:    "3 mins", Difficulty: "easy",
			Ingredients:  []string{"nut-free granola", "milk", "strawberries"},
			Instructions: []string{"Pour milk over granola and top with strawberries."},
			Nutrition:    Nutrition{Protein: 10, Carbs: 54, Fat: 11, Fiber: 6},
			Allergens:    []string{"milk", "gluten"}, KidFriendliness: 5, Portability: 2,
		},
	},
	SlotLunch: {
		{
			Name: "Chicken Caesar Wrap", Slot: SlotLunch, Calories: 450,
			Description: "Grilled chicken, romaine and dressing in a tortilla.",
			PrepTime:    "15 mins", Difficulty: "easy",
			Ingredients:  []string{"tortilla", "chicken breast", "romaine", "caesar dressing", "parmesan"},
			Instructions: []string{"Grill and slice the chicken.", "Roll everything in the tortilla."},
			Nutrition:    Nutrition{Protein: 32, Carbs: 38, Fat: 18, Fiber: 3},
			Allergens:    []string{"gluten", "milk", "egg"}, Portability: 5,
		},
		{
			Name: "Tomato Soup with Grilled Cheese", Slot: SlotLunch, Calories: 480,
			Description: "Creamy tomato soup with a crisp grilled cheese sandwich.",
			PrepTime:    "25 mins", Difficulty: "medium",
			Ingredients:  []string{"tomatoes", "vegetable stock", "bread", "cheddar", "butter"},
			Instructions: []string{"Simmer and blend the soup.", "Grill the sandwich until golden."},
			Nutrition:    Nutrition{Protein: 18, Carbs: 52, Fat: 22, Fiber: 6},
			Allergens:    []string{"gluten", "milk"}, KidFriendliness: 5,
		},
		{
			Name: "Tuna Pasta Salad", Slot: SlotLunch, Calories: 430,
			Description: "Pasta salad with tuna, sweetcorn and a yogurt dressing.",
			PrepTime:    "20 mins", Difficulty: "easy",
			Ingredients:  []string{"pasta", "canned tuna", "sweetcorn", "yogurt", "cucumber"},
			Instructions: []string{"Cook and cool the pasta.", "Fold in tuna, vegetables and dressing."},
			Nutrition:    Nutrition{Protein: 28, Carbs: 50, Fat: 10, Fiber: 4},
			Allergens:    []string{"gluten", "fish", "milk"}, Portability: 4,
		},
		{
			Name: "Veggie Burrito Bowl", Slot: SlotLunch, Calories: 470,
			Description: "Rice bowl with black beans, corn, salsa and avocado.",
			PrepTime:    "20 mins", Difficulty: "easy",
			Ingredients:     []string{"rice", "black beans", "sweetcorn", "salsa", "avocado"},
			Instructions:    []string{"Warm the rice and beans.", "Assemble the bowl with toppings."},
			Nutrition:       Nutrition{Protein: 15, Carbs: 68, Fat: 14, Fiber: 12},
			KidFriendliness: 3, Portability: 3,
		},
		{
			Name: "Ham and Cheese Quesadilla", Slot: SlotLunch, Calories: 440,
			Description: "Toasted tortilla filled with ham and melted cheese.",
			PrepTime:    "10 mins", Difficulty: "easy",
			Ingredients:  []string{"tortilla", "ham", "mozzarella", "tomato"},
			Instructions: []string{"Fill the tortilla and toast in a dry pan until melted."},
			Nutrition:    Nutrition{Protein: 24, Carbs: 36, Fat: 20, Fiber: 2},
			Allergens:    []string{"gluten", "milk"}, KidFriendliness: 5,
		},
		{
			Name: "Lentil Vegetable Soup", Slot: SlotLunch, Calories: 360,
			Description: "Hearty red-lentil soup with carrots and celery.",
			PrepTime:    "30 mins", Difficulty: "easy",
			Ingredients:  []string{"red lentils", "carrot", "celery", "onion", "vegetable stock"},
			Instructions: []string{"Soften the vegetables.", "Add lentils and stock, simmer 20 minutes."},
			Nutrition:    Nutrition{Protein: 18, Carbs: 52, Fat: 5, Fiber: 11},
		},
		{
			Name: "Chicken Fried Rice", Slot: SlotLunch, Calories: 490,
			Description: "Wok-fried rice with chicken, peas and egg.",
			PrepTime:    "18 mins", Difficulty: "medium",
			Ingredients:  []string{"rice", "chicken breast", "peas", "egg", "soy sauce"},
			Instructions: []string{"Stir-fry chicken, then rice and peas.", "Push aside, scramble the egg and combine."},
			Nutrition:    Nutrition{Protein: 30, Carbs: 58, Fat: 13, Fiber: 3},
			Allergens:    []string{"egg", "soy"}, KidFriendliness: 4,
		},
	},
	SlotDinner: {
		{
			Name: "Spaghetti Bolognese", Slot: SlotDinner, Calories: 560,
			Description: "Classic beef ragu over spaghetti.",
			PrepTime:    "40 mins", Difficulty: "medium",
			Ingredients:  []string{"spaghetti", "minced beef", "tomato passata", "onion", "carrot"},
			Instructions: []string{"Brown the beef with onion and carrot.", "Simmer with passata and serve over spaghetti."},
			Nutrition:    Nutrition{Protein: 32, Carbs: 64, Fat: 18, Fiber: 6},
			Allergens:    []string{"gluten"}, KidFriendliness: 5,
		},
		{
			Name: "Baked Salmon with Potatoes", Slot: SlotDinner, Calories: 540,
			Description: "Oven-baked salmon fillet with roast potatoes and broccoli.",
			PrepTime:    "35 mins", Difficulty: "medium",
			Ingredients:  []string{"salmon fillet", "potatoes", "broccoli", "olive oil", "lemon"},
			Instructions: []string{"Roast the potatoes.", "Bake the salmon with lemon and steam the broccoli."},
			Nutrition:    Nutrition{Protein: 36, Carbs: 42, Fat: 22, Fiber: 6},
			Allergens:    []string{"fish"},
		},
		{
			Name: "Chicken Stir-Fry with Noodles", Slot: SlotDinner, Calories: 510,
			Description: "Chicken and mixed vegetables tossed with egg noodles.",
			PrepTime:    "20 mins", Difficulty: "easy",
			Ingredients:  []string{"egg noodles", "chicken breast", "mixed vegetables", "soy sauce", "ginger"},
			Instructions: []string{"Stir-fry chicken, add vegetables.", "Toss with cooked noodles and sauce."},
			Nutrition:    Nutrition{Protein: 34, Carbs: 56, Fat: 14, Fiber: 5},
			Allergens:    []string{"gluten", "egg", "soy"}, KidFriendliness: 4,
		},
		{
			Name: "Beef Tacos", Slot: SlotDinner, Calories: 530,
			Description: "Soft tacos with seasoned beef, lettuce and cheese.",
			PrepTime:    "25 mins", Difficulty: "easy",
			Ingredients:  []string{"corn tortillas", "minced beef", "lettuce", "cheddar", "tomato"},
			Instructions: []string{"Brown and season the beef.", "Fill tortillas and add toppings."},
			Nutrition:    Nutrition{Protein: 30, Carbs: 44, Fat: 24, Fiber: 5},
			Allergens:    []string{"milk"}, KidFriendliness: 5,
		},
		{
			Name: "Vegetable Curry with Rice", Slot: SlotDinner, Calories: 490,
			Description: "Mild coconut vegetable curry over basmati rice.",
			PrepTime:    "30 mins", Difficulty: "medium",
			Ingredients:  []string{"basmati rice", "cauliflower", "chickpeas", "coconut milk", "curry paste"},
			Instructions: []string{"Simmer vegetables and chickpeas in coconut milk.", "Serve over rice."},
			Nutrition:    Nutrition{Protein: 14, Carbs: 68, Fat: 18, Fiber: 9},
		},
		{
			Name: "Roast Chicken with Vegetables", Slot: SlotDinner, Calories: 550,
			Description: "Roast chicken thighs with seasonal root vegetables.",
			PrepTime:    "50 mins", Difficulty: "medium",
			Ingredients:  []string{"chicken thighs", "potatoes", "parsnip", "carrot", "rosemary"},
			Instructions: []string{"Roast everything in one tray at 200C for 40 minutes."},
			Nutrition:    Nutrition{Protein: 34, Carbs: 46, Fat: 24, Fiber: 7},
		},
		{
			Name: "Homemade Margherita Pizza", Slot: SlotDinner, Calories: 580,
			Description: "Thin-crust pizza with tomato, mozzarella and basil.",
			PrepTime:    "45 mins", Difficulty: "hard",
			Ingredients:  []string{"pizza dough", "tomato sauce", "mozzarella", "basil", "olive oil"},
			Instructions: []string{"Stretch the dough and top it.", "Bake at maximum heat until blistered."},
			Nutrition:    Nutrition{Protein: 24, Carbs: 70, Fat: 22, Fiber: 4},
			Allergens:    []string{"gluten", "milk"}, KidFriendliness: 5,
		},
	},
	SlotSnack: {
		{
			Name: "Fruit and Cheese Plate", Slot: SlotSnack, Calories: 200,
			Description: "Grapes and apple slices with cheese cubes.",
			PrepTime:    "5 mins", Difficulty: "easy",
			Ingredients:  []string{"grapes", "apple", "cheddar"},
			Instructions: []string{"Slice and arrange on a plate."},
			Nutrition:    Nutrition{Protein: 8, Carbs: 22, Fat: 10, Fiber: 3},
			Allergens:    []string{"milk"}, Portability: 3,
		},
		{
			Name: "Hummus with Veggie Sticks", Slot: SlotSnack, Calories: 160,
			Description: "Carrot and cucumber sticks with hummus.",
			PrepTime:    "5 mins", Difficulty: "easy",
			Ingredients:  []string{"hummus", "carrot", "cucumber"},
			Instructions: []string{"Cut vegetables into sticks and serve with hummus."},
			Nutrition:    Nutrition{Protein: 5, Carbs: 16, Fat: 8, Fiber: 5},
			Allergens:    []string{"sesame"}, Portability: 4,
		},
		{
			Name: "Banana Oat Muffin", Slot: SlotSnack, Calories: 210,
			Description: "A soft banana muffin made with oats.",
			PrepTime:    "30 mins", Difficulty: "medium",
			Ingredients:  []string{"banana", "rolled oats", "egg", "honey"},
			Instructions: []string{"Blend, pour into cases and bake for 18 minutes."},
			Nutrition:    Nutrition{Protein: 5, Carbs: 36, Fat: 6, Fiber: 3},
			Allergens:    []string{"egg", "gluten"}, KidFriendliness: 5, Portability: 5,
		},
		{
			Name: "Greek Yogurt with Honey", Slot: SlotSnack, Calories: 150,
			Description: "Thick yogurt with a spoonful of honey.",
			PrepTime:    "2 mins", Difficulty: "easy",
			Ingredients:  []string{"greek yogurt", "honey"},
			Instructions: []string{"Spoon yogurt into a bowl and drizzle with honey."},
			Nutrition:    Nutrition{Protein: 12, Carbs: 18, Fat: 4, Fiber: 0},
			Allergens:    []string{"milk"},
		},
		{
			Name: "Rice Cakes with Avocado", Slot: SlotSnack, Calories: 170,
			Description: "Crisp rice cakes topped with smashed avocado.",
			PrepTime:    "5 mins", Difficulty: "easy",
			Ingredients:  []string{"rice cakes", "avocado", "lime"},
			Instructions: []string{"Smash avocado with lime and spread on rice cakes."},
			Nutrition:    Nutrition{Protein: 3, Carbs: 20, Fat: 9, Fiber: 4},
			Portability:  3,
		},
		{
			Name: "Trail Mix (Nut-Free)", Slot: SlotSnack, Calories: 190,
			Description: "Seeds, raisins and dark chocolate chips.",
			PrepTime:    "1 min", Difficulty: "easy",
			Ingredients:  []string{"pumpkin seeds", "sunflower seeds", "raisins", "dark chocolate chips"},
			Instructions: []string{"Mix and portion into a small container."},
			Nutrition:    Nutrition{Protein: 6, Carbs: 20, Fat: 11, Fiber: 3},
			Portability:  5,
		},
		{
			Name: "Cottage Cheese with Pineapple", Slot: SlotSnack, Calories: 140,
			Description: "Cottage cheese topped with pineapple chunks.",
			PrepTime:    "3 mins", Difficulty: "easy",
			Ingredients:  []string{"cottage cheese", "pineapple"},
			Instructions: []string{"Top cottage cheese with pineapple and serve chilled."},
			Nutrition:    Nutrition{Protein: 14, Carbs: 14, Fat: 3, Fiber: 1},
			Allergens:    []string{"milk"},
		},
	},
}
