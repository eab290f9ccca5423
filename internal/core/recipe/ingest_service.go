package recipe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"

	"recipe-finder/internal/core/ai/service"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// csvDelimiters 依序嘗試的分隔符，以標題列中先出現者為準
var csvDelimiters = []rune{',', ';', '\t', '|'}

// IngestService 以 CSV 整批匯入食譜並重建知識庫
type IngestService struct {
	kb      *KnowledgeBase
	ai      *service.Service
	workers int
}

// NewIngestService 創建匯入服務。workers 控制向量計算的並發上限
func NewIngestService(kb *KnowledgeBase, ai *service.Service, workers int) *IngestService {
	if workers <= 0 {
		workers = 1
	}
	return &IngestService{kb: kb, ai: ai, workers: workers}
}

// IngestCSV 解析 CSV、補齊向量並整份替換知識庫
//
// 回傳成功匯入的筆數。缺少標題或食材的資料列會被略過；
// 全部資料列都無效時才視為錯誤，不動既有語料。
func (s *IngestService) IngestCSV(ctx context.Context, r io.Reader) (int, error) {
	recipes, err := parseCSV(r)
	if err != nil {
		return 0, err
	}
	if len(recipes) == 0 {
		return 0, common.ErrNoValidRecipes
	}

	s.populateEmbeddings(ctx, recipes)

	if err := s.kb.Replace(recipes); err != nil {
		return 0, err
	}
	return len(recipes), nil
}

// populateEmbeddings 以固定大小的 worker pool 為每筆食譜計算向量
//
// 單筆失敗只記 log，該食譜以無向量狀態保留給關鍵字檢索。
func (s *IngestService) populateEmbeddings(ctx context.Context, recipes []Recipe) {
	if s.ai == nil || !s.ai.HasEmbedder() {
		common.LogWarn("embedding 服務未配置，匯入的食譜僅支援關鍵字檢索")
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				vec, err := s.ai.EmbedText(ctx, recipes[i].Ingredients)
				if err != nil {
					common.LogWarn("食譜向量計算失敗",
						zap.String("recipe_id", recipes[i].ID),
						zap.Error(err),
					)
					continue
				}
				recipes[i].Embedding = vec
			}
		}()
	}
	for i := range recipes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// parseCSV 解析 CSV 內容為食譜清單
func parseCSV(r io.Reader) ([]Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("讀取上傳內容失敗: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, common.ErrInvalidCSVFormat
	}

	headerLine := content
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		headerLine = content[:idx]
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = sniffDelimiter(headerLine)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidCSVFormat, err)
	}
	if len(rows) < 2 {
		return nil, common.ErrInvalidCSVFormat
	}

	cols := mapColumns(rows[0])
	if cols.title < 0 || cols.ingredients < 0 {
		return nil, common.ErrInvalidCSVFormat
	}

	recipes := make([]Recipe, 0, len(rows)-1)
	for _, row := range rows[1:] {
		title := fieldAt(row, cols.title)
		ingredients := fieldAt(row, cols.ingredients)
		if title == "" || ingredients == "" {
			continue
		}
		id := fieldAt(row, cols.id)
		if id == "" {
			id = common.GenerateRecipeID()
		}
		recipes = append(recipes, Recipe{
			ID:          id,
			Title:       title,
			Ingredients: ingredients,
			Steps:       fieldAt(row, cols.steps),
		})
	}
	return recipes, nil
}

// sniffDelimiter 依優先序挑出標題列包含的第一個候選分隔符，預設逗號
func sniffDelimiter(header string) rune {
	for _, d := range csvDelimiters {
		if strings.ContainsRune(header, d) {
			return d
		}
	}
	return ','
}

type columnIndex struct {
	id          int
	title       int
	ingredients int
	steps       int
}

// mapColumns 以不分大小寫的標題名稱找出各欄位位置
func mapColumns(header []string) columnIndex {
	cols := columnIndex{id: -1, title: -1, ingredients: -1, steps: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "id", "recipe_id":
			cols.id = i
		case "title", "name":
			cols.title = i
		case "ingredient", "ingredients":
			cols.ingredients = i
		case "step", "steps", "instructions":
			cols.steps = i
		}
	}
	return cols
}

func fieldAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
