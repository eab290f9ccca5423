package recipe

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"recipe-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIngest(t *testing.T) (*IngestService, *KnowledgeBase) {
	t.Helper()
	kb, err := NewKnowledgeBase(filepath.Join(t.TempDir(), "kb.json"))
	require.NoError(t, err)
	return NewIngestService(kb, nil, 2), kb
}

func TestIngestCSV(t *testing.T) {
	svc, kb := newTestIngest(t)

	csvData := `id,title,ingredients,steps
r1,Omelette,"eggs, butter, salt","1. Whisk. 2. Fry."
r2,Toast,"bread, butter","1. Toast."
`
	count, err := svc.IngestCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, kb.Size())
	assert.Equal(t, "Omelette", kb.Snapshot()[0].Title)
}

func TestIngestCSVSemicolonDelimiter(t *testing.T) {
	svc, kb := newTestIngest(t)

	csvData := "id;title;ingredients;steps\nr1;Salad;lettuce and tomato;1. Mix."
	count, err := svc.IngestCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "Salad", kb.Snapshot()[0].Title)
}

func TestIngestCSVCaseInsensitiveHeaders(t *testing.T) {
	svc, _ := newTestIngest(t)

	csvData := "ID,Title,Ingredient,Step\nr1,Soup,water,1. Boil."
	count, err := svc.IngestCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestCSVSkipsInvalidRows(t *testing.T) {
	svc, kb := newTestIngest(t)

	csvData := `id,title,ingredients,steps
r1,Omelette,"eggs, butter",1. Cook.
r2,,"flour, milk",1. Mix.
r3,Toast,,1. Toast.
r4,Pasta,"pasta, sauce",1. Boil.
`
	count, err := svc.IngestCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, kb.Size())
}

func TestIngestCSVGeneratesMissingIDs(t *testing.T) {
	svc, kb := newTestIngest(t)

	csvData := "title,ingredients,steps\nOmelette,eggs,1. Cook."
	_, err := svc.IngestCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	id := kb.Snapshot()[0].ID
	assert.True(t, strings.HasPrefix(id, "recipe_"))
	assert.Greater(t, len(id), len("recipe_"))
}

func TestIngestCSVAllRowsInvalid(t *testing.T) {
	svc, kb := newTestIngest(t)

	csvData := "id,title,ingredients,steps\nr1,,eggs,1. Cook.\nr2,Toast,,1. Toast."
	_, err := svc.IngestCSV(context.Background(), strings.NewReader(csvData))
	assert.ErrorIs(t, err, common.ErrNoValidRecipes)
	assert.Equal(t, 0, kb.Size())
}

func TestIngestCSVMissingRequiredColumns(t *testing.T) {
	svc, _ := newTestIngest(t)

	csvData := "id,name_of_dish\nr1,Omelette"
	_, err := svc.IngestCSV(context.Background(), strings.NewReader(csvData))
	assert.ErrorIs(t, err, common.ErrInvalidCSVFormat)
}

func TestIngestCSVEmptyInput(t *testing.T) {
	svc, _ := newTestIngest(t)
	_, err := svc.IngestCSV(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, common.ErrInvalidCSVFormat)
}

func TestIngestCSVReplacesExistingCorpus(t *testing.T) {
	svc, kb := newTestIngest(t)

	first := "id,title,ingredients,steps\nr1,Omelette,eggs,1. Cook."
	_, err := svc.IngestCSV(context.Background(), strings.NewReader(first))
	require.NoError(t, err)

	second := "id,title,ingredients,steps\nr9,Toast,bread,1. Toast."
	_, err = svc.IngestCSV(context.Background(), strings.NewReader(second))
	require.NoError(t, err)

	require.Equal(t, 1, kb.Size())
	assert.Equal(t, "r9", kb.Snapshot()[0].ID)
}
