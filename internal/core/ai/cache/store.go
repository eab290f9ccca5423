package cache

import "context"

// Store 緩存後端介面，由行程內的 CacheManager 與 Redis 的 Service 實作
type Store interface {
	Get(ctx context.Context, kind, text string) (string, error)
	Set(ctx context.Context, kind, text, value string) error
}
