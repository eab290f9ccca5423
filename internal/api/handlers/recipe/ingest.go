package recipe

import (
	"errors"
	"net/http"

	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IngestResponse CSV 匯入結果
type IngestResponse struct {
	Status           string `json:"status"`
	RecipesProcessed int    `json:"recipes_processed"`
	TotalRecipes     int    `json:"total_recipes"`
}

// HandleIngest 以 multipart 上傳的 CSV 重建知識庫
func (h *Handler) HandleIngest(c *gin.Context) {
	requestID := ensureRequestID(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		common.LogError("缺少上傳檔案",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}
	defer file.Close()

	common.LogInfo("開始處理食譜匯入請求",
		zap.String("request_id", requestID),
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
	)

	processed, err := h.ingestService.IngestCSV(c.Request.Context(), file)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Failed to ingest recipes"
		if errors.Is(err, common.ErrInvalidCSVFormat) || errors.Is(err, common.ErrNoValidRecipes) {
			status = http.StatusBadRequest
			message = err.Error()
		}
		common.LogError("食譜匯入失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, IngestResponse{
		Status:           "success",
		RecipesProcessed: processed,
		TotalRecipes:     processed,
	})
}
