package recipe

import (
	"context"
	"errors"
	"testing"

	"recipe-finder/internal/core/ai/service"
	"recipe-finder/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWithLLM(t *testing.T) {
	chat := &stubChat{content: "Output 1: chicken, rice, tomatoes\nOutput 2: quick, 2 servings"}
	ai := service.NewService(&config.Config{}, chat, nil, nil)
	svc := NewParseService(ai, nil)

	result := svc.Parse(context.Background(), "I have chicken, rice and tomatoes, need something quick for 2 servings")
	assert.Equal(t, []string{"chicken", "rice", "tomatoes"}, result.Ingredients)
	assert.Equal(t, []string{"quick", "2 servings"}, result.Preferences)
}

func TestParseLLMResponseIgnoresExtraLines(t *testing.T) {
	result := parseLLMResponse("Here you go:\nOutput 1: eggs, flour\nOutput 2: vegetarian\nThanks!")
	assert.Equal(t, []string{"eggs", "flour"}, result.Ingredients)
	assert.Equal(t, []string{"vegetarian"}, result.Preferences)
}

func TestParseFallbackWhenLLMFails(t *testing.T) {
	chat := &stubChat{err: errors.New("upstream unavailable")}
	ai := service.NewService(&config.Config{}, chat, nil, nil)
	svc := NewParseService(ai, nil)

	result := svc.Parse(context.Background(), "I have chicken, rice and tomatoes")
	assert.Contains(t, result.Ingredients, "chicken")
	assert.Contains(t, result.Ingredients, "rice and tomatoes")
}

func TestParseFallbackWhenLLMIgnoresFormat(t *testing.T) {
	chat := &stubChat{content: "Sure! You could make a stir fry."}
	ai := service.NewService(&config.Config{}, chat, nil, nil)
	svc := NewParseService(ai, nil)

	result := svc.Parse(context.Background(), "I have chicken, rice")
	assert.Contains(t, result.Ingredients, "chicken")
}

func TestFallbackParse(t *testing.T) {
	result := fallbackParse("I have chicken, rice and tomatoes, need something quick for 2 servings")

	assert.Contains(t, result.Ingredients, "chicken")
	assert.Contains(t, result.Ingredients, "rice and tomatoes")
	assert.NotEmpty(t, result.Preferences)
}

func TestFallbackParseWholeInputAsIngredients(t *testing.T) {
	// 沒有任何樣板命中時整句輸入按逗號切成食材
	result := fallbackParse("chicken; rice; tomatoes")
	assert.Equal(t, []string{"chicken", "rice", "tomatoes"}, result.Ingredients)
	assert.Empty(t, result.Preferences)
}

func TestFallbackParseDeduplicates(t *testing.T) {
	result := fallbackParse("i have eggs, eggs, milk")
	count := 0
	for _, item := range result.Ingredients {
		if item == "eggs" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestParseEmptyInput(t *testing.T) {
	svc := NewParseService(nil, nil)
	result := svc.Parse(context.Background(), "   ")
	assert.Empty(t, result.Ingredients)
	assert.Empty(t, result.Preferences)
}

func TestParseWithoutAIService(t *testing.T) {
	svc := NewParseService(nil, nil)
	result := svc.Parse(context.Background(), "i have pasta, garlic; i want something italian")
	require.NotEmpty(t, result.Ingredients)
	assert.Contains(t, result.Ingredients, "pasta")
}
