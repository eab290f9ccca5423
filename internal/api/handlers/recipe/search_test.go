package recipe

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	recipeService "recipe-finder/internal/core/recipe"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kb, err := recipeService.NewKnowledgeBase(filepath.Join(t.TempDir(), "kb.json"))
	require.NoError(t, err)
	require.NoError(t, kb.Replace(recipeService.EmbeddedRecipes()))

	handler := NewHandler(
		recipeService.NewSearchService(kb, nil),
		recipeService.NewParseService(nil, nil),
		recipeService.NewIngestService(kb, nil, 2),
		nil,
	)

	router := gin.New()
	router.POST("/api/v1/recipes/search", handler.HandleSearch)
	router.POST("/api/v1/recipes/search/natural", handler.HandleNaturalSearch)
	router.POST("/api/v1/recipes/ingest", handler.HandleIngest)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleSearch(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/recipes/search", gin.H{
		"ingredients": []string{"chicken", "rice"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Recommendations)
	assert.Equal(t, len(resp.Recommendations), resp.TotalMatches)
	assert.LessOrEqual(t, len(resp.Recommendations), recipeService.DefaultTopK)
	assert.GreaterOrEqual(t, resp.ProcessingTime, 0.0)
	assert.Empty(t, resp.ParsedIngredients)

	// 內建語料中雞肉炒飯類的食譜應該排前面
	assert.Contains(t, resp.Recommendations[0].Title, "Chicken")
}

func TestHandleSearchExplicitTopKZero(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/recipes/search", gin.H{
		"ingredients": []string{"chicken"},
		"top_k":       0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Recommendations)
	assert.Equal(t, 0, resp.TotalMatches)
}

func TestHandleSearchMissingIngredients(t *testing.T) {
	router := newTestRouter(t)
	w := postJSON(t, router, "/api/v1/recipes/search", gin.H{"top_k": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleNaturalSearch(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/recipes/search/natural", gin.H{
		"user_input": "I have chicken, rice and soy sauce",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ParsedIngredients)
	assert.Contains(t, resp.ParsedIngredients, "chicken")
	assert.NotEmpty(t, resp.Recommendations)
}

func TestHandleNaturalSearchMissingInput(t *testing.T) {
	router := newTestRouter(t)
	w := postJSON(t, router, "/api/v1/recipes/search/natural", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleIngest(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "recipes.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("id,title,ingredients,steps\nr1,Omelette,\"eggs, butter\",1. Cook.\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/ingest", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 1, resp.RecipesProcessed)
	assert.Equal(t, 1, resp.TotalRecipes)
}

func TestHandleIngestMissingFile(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/ingest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleIngestInvalidCSV(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "recipes.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("id,name_of_dish\nr1,Omelette\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/ingest", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
