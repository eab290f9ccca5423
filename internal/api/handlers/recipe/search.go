package recipe

import (
	"net/http"
	"time"

	recipeAI "recipe-finder/internal/core/ai/service"
	recipeService "recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchRequest 以食材清單檢索食譜
//
// top_k 與 threshold 以指標區分「未提供」與「明確給 0」：
// 未提供時套用預設值，明確給 0 則照字面處理。
type SearchRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"` // 手邊食材
	TopK        *int     `json:"top_k,omitempty"`
	Threshold   *float64 `json:"threshold,omitempty"`
}

// NaturalSearchRequest 以自然語言描述檢索食譜
type NaturalSearchRequest struct {
	UserInput string   `json:"user_input" binding:"required"`
	TopK      *int     `json:"top_k,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// SearchResponse 檢索結果
type SearchResponse struct {
	Recommendations   []recipeService.Recommendation `json:"recommendations"`
	TotalMatches      int                            `json:"total_matches"`
	ProcessingTime    float64                        `json:"processing_time"`
	ParsedIngredients []string                       `json:"parsed_ingredients,omitempty"`
}

// Handler 食譜檢索處理程序
type Handler struct {
	searchService *recipeService.SearchService
	parseService  *recipeService.ParseService
	ingestService *recipeService.IngestService
	aiService     *recipeAI.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(searchService *recipeService.SearchService, parseService *recipeService.ParseService, ingestService *recipeService.IngestService, aiService *recipeAI.Service) *Handler {
	return &Handler{
		searchService: searchService,
		parseService:  parseService,
		ingestService: ingestService,
		aiService:     aiService,
	}
}

// HandleSearch 以食材清單檢索食譜
func (h *Handler) HandleSearch(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	topK, threshold := searchParams(req.TopK, req.Threshold)
	queryTokens := recipeService.NormalizeIngredientList(req.Ingredients)

	common.LogInfo("開始處理食譜檢索請求",
		zap.String("request_id", requestID),
		zap.Int("ingredients", len(queryTokens)),
		zap.Int("top_k", topK),
		zap.Float64("threshold", threshold),
	)

	start := time.Now()
	results := h.searchService.HybridSearch(c.Request.Context(), queryTokens, topK, threshold)

	c.JSON(http.StatusOK, SearchResponse{
		Recommendations: results,
		TotalMatches:    len(results),
		ProcessingTime:  time.Since(start).Seconds(),
	})
}

// HandleNaturalSearch 以自然語言描述檢索食譜
//
// 先擷取食材與偏好，再以擷取出的食材走混合檢索。
// 擷取層永不失敗，最壞情況是把整句輸入切成食材清單。
func (h *Handler) HandleNaturalSearch(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req NaturalSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	topK, threshold := searchParams(req.TopK, req.Threshold)

	common.LogInfo("開始處理自然語言檢索請求",
		zap.String("request_id", requestID),
		zap.Int("input_length", len(req.UserInput)),
	)

	start := time.Now()
	parsed := h.parseService.Parse(c.Request.Context(), req.UserInput)
	queryTokens := recipeService.NormalizeIngredientList(parsed.Ingredients)
	results := h.searchService.HybridSearch(c.Request.Context(), queryTokens, topK, threshold)

	c.JSON(http.StatusOK, SearchResponse{
		Recommendations:   results,
		TotalMatches:      len(results),
		ProcessingTime:    time.Since(start).Seconds(),
		ParsedIngredients: parsed.Ingredients,
	})
}

// searchParams 套用預設的 top_k 與 threshold
func searchParams(topK *int, threshold *float64) (int, float64) {
	k := recipeService.DefaultTopK
	if topK != nil {
		k = *topK
	}
	t := recipeService.DefaultThreshold
	if threshold != nil {
		t = *threshold
	}
	return k, t
}

// ensureRequestID 確保請求帶有 X-Request-ID
func ensureRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}
