package mistral

import (
	"context"
	"fmt"
	"time"

	"recipe-finder/internal/core/ai/provider"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.mistral.ai/v1"

// Client Mistral API 客戶端，同時實作 ChatProvider 與 EmbeddingProvider
type Client struct {
	client *resty.Client
	config *config.MistralConfig
}

// chatRequest 對話補全請求
type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
}

// chatResponse 對話補全響應
type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message provider.Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// embeddingRequest embedding 請求
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse embedding 響應
type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// apiError Mistral API 錯誤結構
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewClient 創建新的 Mistral 客戶端；未設定 API Key 時回傳 nil，呼叫端走降級路徑
func NewClient(cfg *config.MistralConfig) *Client {
	if cfg.APIKey == "" {
		common.LogWarn("Mistral API key not configured, AI features disabled")
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))

	return &Client{
		client: client,
		config: cfg,
	}
}

// Complete 生成對話回應。單次呼叫，不做內部重試，失敗交由呼叫端降級
func (c *Client) Complete(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	body := chatRequest{
		Model:       c.config.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var result chatResponse
	var errResult apiError

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&errResult).
		Post("/chat/completions")
	common.LogAICall("chat", time.Since(start), err, "")

	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.IsError() {
		common.LogError("AI service returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", body.Model),
			zap.String("api_error", errResult.Message),
		)
		return nil, fmt.Errorf("AI service error (status %d): %s", resp.StatusCode(), errResult.Message)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("empty choices in response")
	}

	content := result.Choices[0].Message.Content
	if content == "" {
		return nil, fmt.Errorf("empty content in response")
	}

	out := &provider.ChatResponse{Content: content}
	out.Usage.PromptTokens = result.Usage.PromptTokens
	out.Usage.CompletionTokens = result.Usage.CompletionTokens
	out.Usage.TotalTokens = result.Usage.TotalTokens
	return out, nil
}

// Embed 將文字轉換為 embedding 向量
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	body := embeddingRequest{
		Model: c.config.EmbeddingModel,
		Input: []string{text},
	}

	var result embeddingResponse
	var errResult apiError

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&errResult).
		Post("/embeddings")
	common.LogAICall("embedding", time.Since(start), err, "")

	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.IsError() {
		common.LogError("Embedding service returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", body.Model),
			zap.String("api_error", errResult.Message),
		)
		return nil, fmt.Errorf("embedding service error (status %d): %s", resp.StatusCode(), errResult.Message)
	}

	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return result.Data[0].Embedding, nil
}

// GetModel 獲取當前使用的模型名稱
func (c *Client) GetModel() string {
	return c.config.Model
}

// GetEmbeddingModel 獲取 embedding 模型名稱
func (c *Client) GetEmbeddingModel() string {
	return c.config.EmbeddingModel
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
