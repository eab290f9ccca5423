package recipe

import "math"

// CosineSimilarity 計算兩個向量的餘弦相似度
//
// 全函數：任一向量為零向量時回傳 0，不會除以零。
// 維度不一致屬於語料庫不變量被破壞，應由上層以 ErrDimensionMismatch
// 拒絕整個語料庫，而不是在這裡悄悄補零。
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
