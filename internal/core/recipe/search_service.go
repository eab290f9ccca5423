package recipe

import (
	"context"
	"errors"
	"sort"
	"strings"

	"recipe-finder/internal/core/ai/service"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// 混合檢索權重與預設值
const (
	semanticWeight = 0.6
	lexicalWeight  = 0.4

	// DefaultTopK 預設回傳筆數
	DefaultTopK = 5
	// DefaultThreshold 預設語意相似度門檻
	DefaultThreshold = 0.6
)

// SearchService 食譜檢索服務：語意檢索為主，關鍵字檢索補位
type SearchService struct {
	kb *KnowledgeBase
	ai *service.Service
}

// NewSearchService 創建檢索服務
func NewSearchService(kb *KnowledgeBase, ai *service.Service) *SearchService {
	return &SearchService{kb: kb, ai: ai}
}

// HybridSearch 混合檢索
//
// 先做語意檢索；向量不可用或結果不足 topK 時以關鍵字檢索補位，
// 依 recipe_id 去重（語意結果優先），再整體按分數重排並截斷。
// 本方法不回傳錯誤：語意層失效時自動降級，最壞結果是空清單。
func (s *SearchService) HybridSearch(ctx context.Context, queryTokens []string, topK int, threshold float64) []Recommendation {
	if topK <= 0 {
		return []Recommendation{}
	}

	// 重複正規化是冪等的，呼叫端不必先自行正規化
	queryTokens = NormalizeIngredientList(queryTokens)
	if len(queryTokens) == 0 {
		return []Recommendation{}
	}

	results, err := s.SemanticSearch(ctx, queryTokens, topK, threshold)
	if err != nil {
		if !errors.Is(err, common.ErrEmbeddingsUnavailable) && !errors.Is(err, common.ErrCorpusEmpty) &&
			!errors.Is(err, common.ErrDimensionMismatch) {
			common.LogWarn("語意檢索失敗，改用關鍵字檢索", zap.Error(err))
		}
		results = nil
	}

	if len(results) < topK {
		seen := make(map[string]bool, len(results))
		for _, r := range results {
			seen[r.RecipeID] = true
		}
		for _, r := range s.KeywordSearch(queryTokens, topK) {
			if !seen[r.RecipeID] {
				results = append(results, r)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	if len(results) > topK {
		results = results[:topK]
	}
	if results == nil {
		results = []Recommendation{}
	}
	return results
}

// SemanticSearch 語意檢索
//
// 將查詢食材合併為單一字串做一次 embedding，與語料中每筆帶向量的
// 食譜計算餘弦相似度，通過門檻者以 0.6*相似度 + 0.4*食材命中比例
// 混合計分。向量層不可用時回傳 ErrEmbeddingsUnavailable 讓上層降級，
// 查詢向量維度與語料不一致則回傳 ErrDimensionMismatch。
func (s *SearchService) SemanticSearch(ctx context.Context, queryTokens []string, topK int, threshold float64) ([]Recommendation, error) {
	if topK <= 0 {
		return []Recommendation{}, nil
	}
	if s.ai == nil || !s.ai.HasEmbedder() {
		return nil, common.ErrEmbeddingsUnavailable
	}

	corpus := s.kb.Snapshot()
	if len(corpus) == 0 {
		return nil, common.ErrCorpusEmpty
	}

	corpusDim := 0
	for _, r := range corpus {
		if r.HasEmbedding() {
			corpusDim = len(r.Embedding)
			break
		}
	}
	if corpusDim == 0 {
		return nil, common.ErrEmbeddingsUnavailable
	}

	queryVec, err := s.ai.EmbedText(ctx, strings.Join(queryTokens, ", "))
	if err != nil {
		common.LogWarn("查詢向量計算失敗", zap.Error(err))
		return nil, common.ErrEmbeddingsUnavailable
	}
	if len(queryVec) != corpusDim {
		common.LogWarn("查詢向量維度與語料庫不一致",
			zap.Int("query_dim", len(queryVec)),
			zap.Int("corpus_dim", corpusDim))
		return nil, common.ErrDimensionMismatch
	}

	results := make([]Recommendation, 0, topK)
	for _, r := range corpus {
		if !r.HasEmbedding() {
			continue
		}
		sim := CosineSimilarity(queryVec, r.Embedding)
		if sim < threshold {
			continue
		}
		matched, missing, ratio := MatchIngredients(queryTokens, NormalizeIngredients(r.Ingredients))
		results = append(results, Recommendation{
			RecipeID:           r.ID,
			Title:              r.Title,
			Ingredients:        r.Ingredients,
			Steps:              r.Steps,
			MatchScore:         semanticWeight*sim + lexicalWeight*ratio,
			MatchedIngredients: matched,
			MissingIngredients: missing,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// KeywordSearch 關鍵字檢索
//
// 以食材命中比例計分，只收錄至少命中一項食材的食譜。
func (s *SearchService) KeywordSearch(queryTokens []string, topK int) []Recommendation {
	if topK <= 0 {
		return []Recommendation{}
	}
	results := []Recommendation{}
	for _, r := range s.kb.Snapshot() {
		matched, missing, ratio := MatchIngredients(queryTokens, NormalizeIngredients(r.Ingredients))
		if len(matched) == 0 {
			continue
		}
		results = append(results, Recommendation{
			RecipeID:           r.ID,
			Title:              r.Title,
			Ingredients:        r.Ingredients,
			Steps:              r.Steps,
			MatchScore:         ratio,
			MatchedIngredients: matched,
			MissingIngredients: missing,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
