package provider

import "context"

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest 表示發送到 AI 提供者的對話請求
type ChatRequest struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
}

// ChatResponse 表示從 AI 提供者收到的對話響應
type ChatResponse struct {
	Content string `json:"content"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ChatProvider 定義對話補全提供者介面
type ChatProvider interface {
	// Complete 生成對話回應
	Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// Close 關閉提供者連接
	Close() error
}

// EmbeddingProvider 定義文字向量化提供者介面
//
// 同一個提供者與模型之下，回傳向量的維度必須固定；
// 語料庫的一致性依賴這個性質。
type EmbeddingProvider interface {
	// Embed 將文字轉換為 embedding 向量
	Embed(ctx context.Context, text string) ([]float64, error)

	// GetEmbeddingModel 獲取 embedding 模型名稱
	GetEmbeddingModel() string
}
