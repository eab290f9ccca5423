package recipe

import (
	"context"
	"regexp"
	"strings"

	"recipe-finder/internal/core/ai/cache"
	"recipe-finder/internal/core/ai/provider"
	"recipe-finder/internal/core/ai/service"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// extractionPrompt 要求模型以固定兩行格式回覆，方便前綴解析
const extractionPrompt = `The user will describe what they have in the fridge and their cooking needs.
You must respond with exactly two lines in this format:

Output 1: ingredient1, ingredient2, ingredient3
Output 2: preference1, preference2, preference3

Rules:
- Output 1: list only the normalized ingredients the user already has, comma-separated, no quantities.
- Output 2: list all other meaningful requirements (time limit, servings, dietary restrictions, cuisine preferences, equipment, etc.), comma-separated.
- If a field is not provided by the user, omit it entirely.
- Do not add extra text, explanations, or formatting.`

const (
	extractionTemperature = 0.1
	extractionMaxTokens   = 200

	cacheKindParse = "parse"
)

// fallback 規則：LLM 不可用時以這些樣板從自然語言中擷取
var (
	ingredientPatterns = []*regexp.Regexp{
		regexp.MustCompile(`i have\s+([^.]+)`),
		regexp.MustCompile(`i've got\s+([^.]+)`),
		regexp.MustCompile(`ingredients?\s*:?\s*([^.]+)`),
		regexp.MustCompile(`available\s+([^.]+)`),
	}
	preferencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`i want\s+([^.]+)`),
		regexp.MustCompile(`i need\s+([^.]+)`),
		regexp.MustCompile(`something\s+([^.]+)`),
		regexp.MustCompile(`for\s+([^.]+)`),
		regexp.MustCompile(`servings?\s*:?\s*([^.]+)`),
		regexp.MustCompile(`quick\s+([^.]+)`),
	}
	captureSplitter = regexp.MustCompile(`[,;]\s*`)
)

// ParseService 自然語言食材擷取服務
//
// 以 LLM 結構化擷取為主，任何失敗都退回規則式擷取，
// 因此 Parse 永遠回傳可用結果而不回傳錯誤。
type ParseService struct {
	ai         *service.Service
	parseCache cache.Store
}

// NewParseService 創建擷取服務。parseCache 可為 nil
func NewParseService(ai *service.Service, parseCache cache.Store) *ParseService {
	return &ParseService{ai: ai, parseCache: parseCache}
}

// Parse 從自然語言輸入擷取食材與偏好
func (p *ParseService) Parse(ctx context.Context, input string) ParsedQuery {
	input = strings.TrimSpace(input)
	if input == "" {
		return ParsedQuery{Ingredients: []string{}, Preferences: []string{}}
	}

	if p.parseCache != nil {
		if val, err := p.parseCache.Get(ctx, cacheKindParse, input); err == nil && val != "" {
			var cached ParsedQuery
			if err := common.ParseJSON(val, &cached); err == nil && cached.Ingredients != nil {
				common.LogCacheHit(cacheKindParse, input)
				return cached
			}
		}
	}

	result, ok := p.parseWithLLM(ctx, input)
	if !ok {
		result = fallbackParse(input)
	}

	if p.parseCache != nil {
		if data, err := common.ToJSON(result); err == nil {
			_ = p.parseCache.Set(ctx, cacheKindParse, input, data)
		}
	}
	return result
}

// parseWithLLM 呼叫對話模型做結構化擷取
func (p *ParseService) parseWithLLM(ctx context.Context, input string) (ParsedQuery, bool) {
	if p.ai == nil || !p.ai.HasChat() {
		return ParsedQuery{}, false
	}

	resp, err := p.ai.Complete(ctx, &provider.ChatRequest{
		Messages: []provider.Message{
			{Role: "system", Content: extractionPrompt},
			{Role: "user", Content: input},
		},
		Temperature: extractionTemperature,
		MaxTokens:   extractionMaxTokens,
	})
	if err != nil {
		common.LogWarn("LLM 擷取失敗，改用規則式擷取", zap.Error(err))
		return ParsedQuery{}, false
	}

	result := parseLLMResponse(resp.Content)
	if len(result.Ingredients) == 0 && len(result.Preferences) == 0 {
		// 模型沒有遵守格式時同樣退回規則式擷取
		return ParsedQuery{}, false
	}
	return result, true
}

// parseLLMResponse 解析 Output 1 / Output 2 兩行格式
func parseLLMResponse(content string) ParsedQuery {
	result := ParsedQuery{Ingredients: []string{}, Preferences: []string{}}
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Output 1:"):
			result.Ingredients = splitCommaList(strings.TrimPrefix(line, "Output 1:"))
		case strings.HasPrefix(line, "Output 2:"):
			result.Preferences = splitCommaList(strings.TrimPrefix(line, "Output 2:"))
		}
	}
	return result
}

func splitCommaList(text string) []string {
	items := []string{}
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// fallbackParse 規則式擷取
//
// 依序套用食材與偏好樣板，擷取段落再以逗號或分號切開；
// 完全沒有命中食材時把整句輸入當成食材清單切分。
func fallbackParse(input string) ParsedQuery {
	lower := strings.ToLower(input)

	ingredients := collectMatches(ingredientPatterns, lower)
	preferences := collectMatches(preferencePatterns, lower)

	if len(ingredients) == 0 {
		for _, part := range captureSplitter.Split(input, -1) {
			part = strings.TrimSpace(part)
			if len(part) > 1 {
				ingredients = append(ingredients, part)
			}
		}
	}

	return ParsedQuery{
		Ingredients: dedupeOrdered(ingredients),
		Preferences: dedupeOrdered(preferences),
	}
}

func collectMatches(patterns []*regexp.Regexp, text string) []string {
	items := []string{}
	for _, pattern := range patterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			for _, part := range captureSplitter.Split(strings.TrimSpace(m[1]), -1) {
				part = strings.TrimSpace(part)
				if len(part) > 1 {
					items = append(items, part)
				}
			}
		}
	}
	return items
}

// dedupeOrdered 去重並保留首次出現順序
func dedupeOrdered(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := []string{}
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
