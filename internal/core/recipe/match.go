package recipe

import "strings"

// MatchIngredients 以寬鬆規則比對查詢食材與食譜食材
//
// 比對規則（依序判斷，任一成立即算命中）：
//  1. 查詢詞是食譜詞的子字串
//  2. 食譜詞是查詢詞的子字串
//  3. 兩者以空白切開後有任一單字完全相同
//
// 每個食譜食材最多被一個查詢詞命中，以先出現的查詢詞為準。
// 回傳命中清單、缺少清單與命中比例（命中數 / 食譜食材總數）。
func MatchIngredients(queryTokens, recipeTokens []string) (matched, missing []string, ratio float64) {
	matched = []string{}
	missing = []string{}

	if len(recipeTokens) == 0 {
		return matched, missing, 0
	}

	for _, r := range recipeTokens {
		hit := false
		for _, q := range queryTokens {
			if tokensMatch(q, r) {
				hit = true
				break
			}
		}
		if hit {
			matched = append(matched, r)
		} else {
			missing = append(missing, r)
		}
	}

	ratio = float64(len(matched)) / float64(len(recipeTokens))
	return matched, missing, ratio
}

// tokensMatch 判斷單一查詢詞與單一食譜詞是否命中
func tokensMatch(q, r string) bool {
	if q == "" || r == "" {
		return false
	}
	if strings.Contains(r, q) || strings.Contains(q, r) {
		return true
	}
	for _, qw := range strings.Fields(q) {
		for _, rw := range strings.Fields(r) {
			if qw == rw {
				return true
			}
		}
	}
	return false
}
