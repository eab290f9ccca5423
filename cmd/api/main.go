package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-finder/internal/api"
	"recipe-finder/internal/core/ai/cache"
	"recipe-finder/internal/core/ai/mistral"
	"recipe-finder/internal/core/ai/service"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("mistral_model", cfg.Mistral.Model),
		zap.String("embedding_model", cfg.Mistral.EmbeddingModel),
		zap.String("kb_path", cfg.Search.KBPath),
	)

	// 初始化快取後端
	cacheStore, closeCache := setupCache(cfg)
	defer closeCache()

	// 初始化 Mistral 客戶端；未配置 API Key 時退化為純關鍵字檢索
	var aiService *service.Service
	if client := mistral.NewClient(&cfg.Mistral); client != nil {
		aiService = service.NewService(cfg, client, client, cacheStore)
		defer client.Close()
	} else {
		common.LogWarn("MISTRAL_API_KEY 未配置，語意檢索與 LLM 擷取停用")
		aiService = service.NewService(cfg, nil, nil, cacheStore)
	}

	// 載入知識庫，必要時以內建食譜初始化
	kb, err := recipe.NewKnowledgeBase(cfg.Search.KBPath)
	if err != nil {
		common.LogFatal("Failed to load knowledge base", zap.Error(err))
	}
	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := recipe.BootstrapKnowledgeBase(bootstrapCtx, kb, aiService); err != nil {
		common.LogFatal("Failed to bootstrap knowledge base", zap.Error(err))
	}
	bootstrapCancel()

	// 設置路由
	router, err := api.SetupRouter(cfg, kb, aiService, cacheStore)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("corpus_size", kb.Size()),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

// setupCache 依設定選擇快取後端，失敗或停用時回傳 nil store
func setupCache(cfg *config.Config) (cache.Store, func()) {
	if !cfg.Cache.Enabled {
		return nil, func() {}
	}

	if cfg.Cache.Backend == "redis" {
		svc, err := cache.NewService(&cfg.Cache)
		if err != nil {
			common.LogWarn("Redis 快取初始化失敗，改用行程內快取", zap.Error(err))
		} else {
			return svc, func() { _ = svc.Close() }
		}
	}

	manager := cache.NewManager(cfg)
	if manager == nil {
		common.LogWarn("快取初始化失敗，停用快取")
		return nil, func() {}
	}
	return manager, func() { manager.Close() }
}
