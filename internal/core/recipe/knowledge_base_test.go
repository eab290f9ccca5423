package recipe

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"recipe-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempKBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "recipe_knowledge_base.json")
}

func TestKnowledgeBaseMissingFile(t *testing.T) {
	kb, err := NewKnowledgeBase(tempKBPath(t))
	require.NoError(t, err)
	assert.Equal(t, 0, kb.Size())
	assert.Empty(t, kb.Snapshot())
}

func TestKnowledgeBaseReplaceAndReload(t *testing.T) {
	path := tempKBPath(t)
	kb, err := NewKnowledgeBase(path)
	require.NoError(t, err)

	recipes := []Recipe{
		{
			ID:          "recipe_001",
			Title:       "Chicken Stir Fry",
			Ingredients: "chicken breast, rice, soy sauce",
			Steps:       "1. Cook. 2. Serve.",
			Embedding:   []float64{0.1, 0.2, 0.3},
		},
		{
			ID:          "recipe_002",
			Title:       "Plain Rice",
			Ingredients: "rice, water",
			Steps:       "1. Boil.",
		},
	}
	require.NoError(t, kb.Replace(recipes))
	assert.Equal(t, 2, kb.Size())
	assert.Equal(t, 1, kb.EmbeddingCoverage())

	// 重新載入後內容一致
	reloaded, err := NewKnowledgeBase(path)
	require.NoError(t, err)
	assert.Equal(t, recipes, reloaded.Snapshot())
}

func TestKnowledgeBasePersistedFormat(t *testing.T) {
	path := tempKBPath(t)
	kb, err := NewKnowledgeBase(path)
	require.NoError(t, err)

	require.NoError(t, kb.Replace([]Recipe{
		{ID: "recipe_001", Title: "Pancakes", Ingredients: "flour, milk, eggs", Steps: "1. Mix."},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "recipe_001", records[0]["recipe_id"])

	meta, ok := records[0]["metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "recipe", meta["type"])
	assert.Equal(t, float64(3), meta["ingredient_count"])
}

func TestKnowledgeBaseDimensionMismatch(t *testing.T) {
	kb, err := NewKnowledgeBase(tempKBPath(t))
	require.NoError(t, err)

	err = kb.Replace([]Recipe{
		{ID: "a", Title: "A", Ingredients: "x", Embedding: []float64{0.1, 0.2}},
		{ID: "b", Title: "B", Ingredients: "y", Embedding: []float64{0.1, 0.2, 0.3}},
	})
	assert.ErrorIs(t, err, common.ErrDimensionMismatch)

	// 失敗的替換不影響既有語料
	assert.Equal(t, 0, kb.Size())
}

func TestKnowledgeBaseReplaceFailureKeepsOldCorpus(t *testing.T) {
	path := tempKBPath(t)
	kb, err := NewKnowledgeBase(path)
	require.NoError(t, err)

	require.NoError(t, kb.Replace([]Recipe{
		{ID: "recipe_001", Title: "Old", Ingredients: "salt"},
	}))

	err = kb.Replace([]Recipe{
		{ID: "a", Title: "A", Ingredients: "x", Embedding: []float64{0.1}},
		{ID: "b", Title: "B", Ingredients: "y", Embedding: []float64{0.1, 0.2}},
	})
	assert.Error(t, err)
	assert.Equal(t, 1, kb.Size())
	assert.Equal(t, "Old", kb.Snapshot()[0].Title)
}
