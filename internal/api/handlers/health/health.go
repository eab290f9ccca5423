package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Corpus    *CorpusStatus          `json:"corpus,omitempty"`
}

// CorpusStatus 語料庫狀態
type CorpusStatus struct {
	Recipes           int  `json:"recipes"`
	WithEmbedding     int  `json:"with_embedding"`
	SemanticAvailable bool `json:"semantic_available"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	config, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	// 語料庫狀態：向量覆蓋為零時語意檢索不可用，只剩關鍵字檢索
	if kbVal, exists := c.Get("knowledge_base"); exists {
		if kb, ok := kbVal.(*recipe.KnowledgeBase); ok {
			coverage := kb.EmbeddingCoverage()
			response.Corpus = &CorpusStatus{
				Recipes:           kb.Size(),
				WithEmbedding:     coverage,
				SemanticAvailable: coverage > 0,
			}
		}
	}

	common.LogInfo("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器
//
// 語料庫為空表示啟動初始化尚未完成，回報未就緒。
func ReadinessCheck(c *gin.Context) {
	if kbVal, exists := c.Get("knowledge_base"); exists {
		if kb, ok := kbVal.(*recipe.KnowledgeBase); ok && kb.Size() == 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"reason": "corpus is empty",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
