package service

import (
	"context"
	"errors"
	"fmt"

	"recipe-finder/internal/core/ai/cache"
	"recipe-finder/internal/core/ai/provider"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// 緩存分類
const (
	cacheKindEmbedding = "embedding"
)

// Service AI 服務門面：對話補全直通、embedding 加一層快取
type Service struct {
	config     *config.Config
	chat       provider.ChatProvider
	embedder   provider.EmbeddingProvider
	embedCache cache.Store
}

// NewService 創建 AI 服務。chat 與 embedder 可為 nil，表示未配置 API Key
func NewService(cfg *config.Config, chat provider.ChatProvider, embedder provider.EmbeddingProvider, embedCache cache.Store) *Service {
	return &Service{
		config:     cfg,
		chat:       chat,
		embedder:   embedder,
		embedCache: embedCache,
	}
}

// HasChat 是否配置了對話提供者
func (s *Service) HasChat() bool {
	return s.chat != nil
}

// HasEmbedder 是否配置了 embedding 提供者
func (s *Service) HasEmbedder() bool {
	return s.embedder != nil
}

// Complete 生成對話回應
func (s *Service) Complete(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	if s.chat == nil {
		return nil, common.ErrAIServiceError
	}
	return s.chat.Complete(ctx, req)
}

// EmbedText 將文字轉換為 embedding 向量，優先使用快取
func (s *Service) EmbedText(ctx context.Context, text string) ([]float64, error) {
	if s.embedder == nil {
		return nil, common.ErrAIServiceError
	}

	// 快取鍵包含模型名稱，換模型不會命中舊向量
	cacheText := fmt.Sprintf("%s:%s", s.embedder.GetEmbeddingModel(), text)

	if s.embedCache != nil {
		if val, err := s.embedCache.Get(ctx, cacheKindEmbedding, cacheText); err == nil && val != "" {
			var vec []float64
			if err := common.ParseJSON(val, &vec); err == nil && len(vec) > 0 {
				return vec, nil
			}
			common.LogWarn("快取中的 embedding 無法解析，重新生成",
				zap.Error(errors.New("invalid cached embedding")),
			)
		}
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if s.embedCache != nil {
		if data, err := common.ToJSON(vec); err == nil {
			_ = s.embedCache.Set(ctx, cacheKindEmbedding, cacheText, data)
		}
	}

	return vec, nil
}
