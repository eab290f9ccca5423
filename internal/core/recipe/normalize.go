package recipe

import (
	"regexp"
	"strings"
)

// 分隔符依優先序嘗試，找到第一個出現的就只用它切分；
// 同時含逗號與分號的字串只會按逗號切。比對端與語料端都走同一條路，
// 順序改了會讓新舊語料的 token 化結果不相容。
var ingredientSeparators = []string{",", ";", "\n", "|"}

var (
	leadingQuantityPattern  = regexp.MustCompile(`^\d+\s*`)
	trailingQuantityPattern = regexp.MustCompile(`\s+\d+\s*$`)
)

// NormalizeIngredients 將原始食材文字轉換為正規化的小寫 token 列表
//
// 純函數，不做 I/O，任何輸入都不會失敗；完全無效的輸入回傳空列表。
func NormalizeIngredients(text string) []string {
	if text == "" {
		return []string{}
	}

	var parts []string
	for _, sep := range ingredientSeparators {
		if strings.Contains(text, sep) {
			parts = strings.Split(text, sep)
			break
		}
	}
	if parts == nil {
		parts = []string{text}
	}

	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		ingredient := strings.ToLower(strings.TrimSpace(part))
		if ingredient == "" {
			continue
		}

		// 去除開頭與結尾的數量
		ingredient = leadingQuantityPattern.ReplaceAllString(ingredient, "")
		ingredient = trailingQuantityPattern.ReplaceAllString(ingredient, "")
		ingredient = strings.TrimSpace(ingredient)

		if ingredient != "" {
			cleaned = append(cleaned, ingredient)
		}
	}

	return cleaned
}

// NormalizeIngredientList 對多個食材字串逐一正規化後攤平
func NormalizeIngredientList(items []string) []string {
	normalized := make([]string, 0, len(items))
	for _, item := range items {
		normalized = append(normalized, NormalizeIngredients(item)...)
	}
	return normalized
}
