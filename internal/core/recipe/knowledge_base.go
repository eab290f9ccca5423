package recipe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// kbRecord 知識庫檔案中的單筆食譜
type kbRecord struct {
	RecipeID    string     `json:"recipe_id"`
	Title       string     `json:"title"`
	Ingredients string     `json:"ingredients"`
	Steps       string     `json:"steps"`
	Embedding   []float64  `json:"embedding,omitempty"`
	Metadata    kbMetadata `json:"metadata"`
}

type kbMetadata struct {
	Type            string `json:"type"`
	IngredientCount int    `json:"ingredient_count"`
}

// KnowledgeBase 食譜語料庫，JSON 檔案持久化加記憶體快照
//
// 快照以整份替換的方式更新：Replace 先寫暫存檔再 rename，
// 成功後才換掉記憶體中的 slice，讀取端永遠看到一致的整份語料。
type KnowledgeBase struct {
	path string

	mu      sync.RWMutex
	recipes []Recipe
}

// NewKnowledgeBase 建立知識庫並載入既有檔案
//
// 檔案不存在時視為空語料庫，不算錯誤。
func NewKnowledgeBase(path string) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{path: path}
	if err := kb.load(); err != nil {
		return nil, err
	}
	return kb, nil
}

func (kb *KnowledgeBase) load() error {
	data, err := os.ReadFile(kb.path)
	if err != nil {
		if os.IsNotExist(err) {
			kb.recipes = []Recipe{}
			return nil
		}
		return fmt.Errorf("讀取知識庫失敗: %w", err)
	}

	var records []kbRecord
	if err := common.ParseJSONBytes(data, &records); err != nil {
		return fmt.Errorf("解析知識庫失敗: %w", err)
	}

	recipes := make([]Recipe, 0, len(records))
	for _, r := range records {
		recipes = append(recipes, Recipe{
			ID:          r.RecipeID,
			Title:       r.Title,
			Ingredients: r.Ingredients,
			Steps:       r.Steps,
			Embedding:   r.Embedding,
		})
	}

	if err := checkDimensions(recipes); err != nil {
		return err
	}

	kb.recipes = recipes
	common.LogInfo("知識庫載入完成",
		zap.String("path", kb.path),
		zap.Int("count", len(recipes)),
	)
	return nil
}

// Replace 以整份新語料取代知識庫
//
// 先驗證維度一致性，再寫入暫存檔並 rename，最後替換記憶體快照。
// 任何一步失敗都不影響既有語料。
func (kb *KnowledgeBase) Replace(recipes []Recipe) error {
	if err := checkDimensions(recipes); err != nil {
		return err
	}

	records := make([]kbRecord, 0, len(recipes))
	for _, r := range recipes {
		records = append(records, kbRecord{
			RecipeID:    r.ID,
			Title:       r.Title,
			Ingredients: r.Ingredients,
			Steps:       r.Steps,
			Embedding:   r.Embedding,
			Metadata: kbMetadata{
				Type:            "recipe",
				IngredientCount: ingredientCount(r.Ingredients),
			},
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化知識庫失敗: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(kb.path), ".kb-*.json")
	if err != nil {
		return fmt.Errorf("建立暫存檔失敗: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("寫入知識庫失敗: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("寫入知識庫失敗: %w", err)
	}
	if err := os.Rename(tmpName, kb.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("替換知識庫檔案失敗: %w", err)
	}

	kb.mu.Lock()
	kb.recipes = recipes
	kb.mu.Unlock()

	common.LogInfo("知識庫已更新",
		zap.String("path", kb.path),
		zap.Int("count", len(recipes)),
	)
	return nil
}

// Snapshot 回傳目前語料的快照
//
// 回傳的 slice 由呼叫端唯讀使用，不複製底層食譜。
func (kb *KnowledgeBase) Snapshot() []Recipe {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.recipes
}

// Size 回傳語料筆數
func (kb *KnowledgeBase) Size() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.recipes)
}

// EmbeddingCoverage 回傳帶有向量的食譜筆數
func (kb *KnowledgeBase) EmbeddingCoverage() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	n := 0
	for _, r := range kb.recipes {
		if r.HasEmbedding() {
			n++
		}
	}
	return n
}

// checkDimensions 驗證所有帶向量的食譜維度一致
func checkDimensions(recipes []Recipe) error {
	dim := 0
	for _, r := range recipes {
		if !r.HasEmbedding() {
			continue
		}
		if dim == 0 {
			dim = len(r.Embedding)
			continue
		}
		if len(r.Embedding) != dim {
			return fmt.Errorf("%w: 食譜 %s 的向量維度 %d 與既有的 %d 不符",
				common.ErrDimensionMismatch, r.ID, len(r.Embedding), dim)
		}
	}
	return nil
}

func ingredientCount(ingredients string) int {
	if strings.TrimSpace(ingredients) == "" {
		return 0
	}
	return len(strings.Split(ingredients, ","))
}
