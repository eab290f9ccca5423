package recipe

// Recipe 語料庫中的一道食譜
//
// Title 與 Ingredients 不可為空；Embedding 只有在向量生成成功時才存在，
// 且整個語料庫的向量維度必須一致。食譜一旦寫入語料庫即不再修改。
type Recipe struct {
	ID          string    `json:"recipe_id"`
	Title       string    `json:"title"`
	Ingredients string    `json:"ingredients"`
	Steps       string    `json:"steps"`
	Embedding   []float64 `json:"embedding,omitempty"`
}

// HasEmbedding 是否帶有有效的 embedding
func (r *Recipe) HasEmbedding() bool {
	return len(r.Embedding) > 0
}

// Recommendation 一次查詢對一道食譜的推薦結果，僅在請求內存在，不落盤
//
// MatchedIngredients 與 MissingIngredients 恰好劃分該食譜正規化後的食材列表。
type Recommendation struct {
	RecipeID           string   `json:"recipe_id"`
	Title              string   `json:"title"`
	Ingredients        string   `json:"ingredients"`
	Steps              string   `json:"steps"`
	MatchScore         float64  `json:"match_score"`
	MatchedIngredients []string `json:"matched_ingredients"`
	MissingIngredients []string `json:"missing_ingredients"`
}

// ParsedQuery 從一句使用者描述中抽取出的結果
//
// Preferences 目前僅供參考，尚未參與排序。
type ParsedQuery struct {
	Ingredients []string `json:"ingredients"`
	Preferences []string `json:"preferences"`
}
