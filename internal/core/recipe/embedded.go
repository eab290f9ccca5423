package recipe

import (
	"context"

	"recipe-finder/internal/core/ai/service"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// embeddedRecipes 內建食譜，讓服務在沒有任何上傳資料時也能運作
var embeddedRecipes = []Recipe{
	{
		ID:          "recipe_001",
		Title:       "Classic Spaghetti Carbonara",
		Ingredients: "spaghetti, eggs, parmesan cheese, pancetta, black pepper, salt, olive oil",
		Steps:       "1. Cook spaghetti according to package directions. 2. In a bowl, whisk eggs with parmesan and black pepper. 3. Cook pancetta in olive oil until crispy. 4. Toss hot pasta with pancetta, then with egg mixture. 5. Serve immediately with extra parmesan.",
	},
	{
		ID:          "recipe_002",
		Title:       "Chicken Stir Fry",
		Ingredients: "chicken breast, bell peppers, broccoli, soy sauce, garlic, ginger, vegetable oil, rice",
		Steps:       "1. Cut chicken into strips and marinate in soy sauce. 2. Heat oil in wok and cook chicken until done. 3. Add garlic and ginger, then vegetables. 4. Stir fry until vegetables are tender-crisp. 5. Serve over rice.",
	},
	{
		ID:          "recipe_003",
		Title:       "Vegetarian Pasta Primavera",
		Ingredients: "pasta, zucchini, bell peppers, cherry tomatoes, garlic, olive oil, parmesan cheese, basil",
		Steps:       "1. Cook pasta according to package directions. 2. Sauté garlic in olive oil. 3. Add vegetables and cook until tender. 4. Toss with pasta and parmesan. 5. Garnish with fresh basil.",
	},
	{
		ID:          "recipe_004",
		Title:       "Beef Tacos",
		Ingredients: "ground beef, taco shells, lettuce, tomatoes, cheese, sour cream, taco seasoning, onions",
		Steps:       "1. Brown ground beef with onions. 2. Add taco seasoning and water, simmer. 3. Warm taco shells. 4. Fill shells with beef mixture. 5. Top with lettuce, tomatoes, cheese, and sour cream.",
	},
	{
		ID:          "recipe_005",
		Title:       "Salmon with Roasted Vegetables",
		Ingredients: "salmon fillets, sweet potatoes, broccoli, olive oil, lemon, herbs, salt, pepper",
		Steps:       "1. Preheat oven to 400°F. 2. Toss vegetables with olive oil and seasonings. 3. Roast vegetables for 20 minutes. 4. Add salmon to pan and roast 12-15 minutes. 5. Serve with lemon wedges.",
	},
	{
		ID:          "recipe_006",
		Title:       "Chicken Noodle Soup",
		Ingredients: "chicken breast, egg noodles, carrots, celery, onions, chicken broth, herbs, salt, pepper",
		Steps:       "1. Sauté onions, carrots, and celery until soft. 2. Add chicken broth and bring to boil. 3. Add chicken and simmer until cooked. 4. Add noodles and cook until tender. 5. Season with herbs, salt, and pepper.",
	},
	{
		ID:          "recipe_007",
		Title:       "Vegetarian Chili",
		Ingredients: "black beans, kidney beans, tomatoes, onions, bell peppers, chili powder, cumin, garlic, vegetable broth",
		Steps:       "1. Sauté onions and peppers until soft. 2. Add garlic and spices, cook 1 minute. 3. Add beans, tomatoes, and broth. 4. Simmer for 30 minutes. 5. Season to taste and serve.",
	},
	{
		ID:          "recipe_008",
		Title:       "Grilled Cheese Sandwich",
		Ingredients: "bread, cheddar cheese, butter, tomatoes",
		Steps:       "1. Butter one side of each bread slice. 2. Add cheese and tomato slices between bread. 3. Cook in pan over medium heat until golden. 4. Flip and cook other side. 5. Serve hot.",
	},
	{
		ID:          "recipe_009",
		Title:       "Caesar Salad",
		Ingredients: "romaine lettuce, parmesan cheese, croutons, caesar dressing, lemon, anchovies",
		Steps:       "1. Wash and chop romaine lettuce. 2. Make caesar dressing with lemon and anchovies. 3. Toss lettuce with dressing. 4. Add croutons and parmesan. 5. Serve immediately.",
	},
	{
		ID:          "recipe_010",
		Title:       "Chocolate Chip Cookies",
		Ingredients: "flour, butter, sugar, brown sugar, eggs, vanilla, chocolate chips, baking soda, salt",
		Steps:       "1. Cream butter and sugars. 2. Add eggs and vanilla. 3. Mix in dry ingredients. 4. Fold in chocolate chips. 5. Bake at 375°F for 9-11 minutes.",
	},
	{
		ID:          "recipe_011",
		Title:       "Beef and Broccoli",
		Ingredients: "beef strips, broccoli, soy sauce, garlic, ginger, cornstarch, vegetable oil, rice",
		Steps:       "1. Marinate beef in soy sauce and cornstarch. 2. Stir fry beef until browned. 3. Add garlic and ginger. 4. Add broccoli and stir fry until tender. 5. Serve over rice.",
	},
	{
		ID:          "recipe_012",
		Title:       "Caprese Salad",
		Ingredients: "fresh mozzarella, tomatoes, basil, olive oil, balsamic vinegar, salt, pepper",
		Steps:       "1. Slice tomatoes and mozzarella. 2. Arrange on plate alternating slices. 3. Add fresh basil leaves. 4. Drizzle with olive oil and balsamic. 5. Season with salt and pepper.",
	},
	{
		ID:          "recipe_013",
		Title:       "Pancakes",
		Ingredients: "flour, milk, eggs, butter, sugar, baking powder, salt, vanilla",
		Steps:       "1. Mix dry ingredients in bowl. 2. Whisk wet ingredients separately. 3. Combine wet and dry ingredients. 4. Cook on griddle until bubbles form. 5. Flip and cook until golden.",
	},
	{
		ID:          "recipe_014",
		Title:       "Vegetable Stir Fry",
		Ingredients: "mixed vegetables, soy sauce, garlic, ginger, sesame oil, vegetable oil, rice",
		Steps:       "1. Heat oil in wok or large pan. 2. Add garlic and ginger, stir fry briefly. 3. Add vegetables and stir fry until tender-crisp. 4. Add soy sauce and sesame oil. 5. Serve over rice.",
	},
	{
		ID:          "recipe_015",
		Title:       "Chicken Parmesan",
		Ingredients: "chicken breast, breadcrumbs, parmesan cheese, marinara sauce, mozzarella cheese, eggs, flour",
		Steps:       "1. Pound chicken thin and season. 2. Dredge in flour, egg, then breadcrumbs. 3. Pan fry until golden and cooked through. 4. Top with marinara and mozzarella. 5. Broil until cheese melts.",
	},
}

// EmbeddedRecipes 回傳內建食譜的複本
func EmbeddedRecipes() []Recipe {
	recipes := make([]Recipe, len(embeddedRecipes))
	copy(recipes, embeddedRecipes)
	return recipes
}

// BootstrapKnowledgeBase 在知識庫為空或完全沒有向量時以內建食譜初始化
//
// 向量計算採 best-effort：AI 服務不可用或單筆失敗時仍保留該食譜，
// 之後由關鍵字檢索補位。只有寫入知識庫失敗才回傳錯誤。
func BootstrapKnowledgeBase(ctx context.Context, kb *KnowledgeBase, ai *service.Service) error {
	if kb.Size() > 0 && kb.EmbeddingCoverage() > 0 {
		return nil
	}

	recipes := EmbeddedRecipes()
	embedded := 0
	if ai != nil && ai.HasEmbedder() {
		for i := range recipes {
			vec, err := ai.EmbedText(ctx, recipes[i].Ingredients)
			if err != nil {
				common.LogWarn("內建食譜向量計算失敗",
					zap.String("recipe_id", recipes[i].ID),
					zap.Error(err),
				)
				continue
			}
			recipes[i].Embedding = vec
			embedded++
		}
	}

	if embedded == 0 {
		common.LogWarn("內建食譜皆無向量，僅能使用關鍵字檢索")
	}

	return kb.Replace(recipes)
}
