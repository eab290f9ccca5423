package common

import (
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateRecipeID 為缺少 id 的匯入資料生成食譜編號
func GenerateRecipeID() string {
	return "recipe_" + uuid.New().String()
}
