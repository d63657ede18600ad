// Package main Logo 生成服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"z-logo-ai-api/internal/application/command"
	"z-logo-ai-api/internal/application/inspiration"
	"z-logo-ai-api/internal/application/prompt"
	"z-logo-ai-api/internal/application/session"
	"z-logo-ai-api/internal/application/workflow"
	"z-logo-ai-api/internal/config"
	"z-logo-ai-api/internal/infrastructure/embedding"
	"z-logo-ai-api/internal/infrastructure/imagegen"
	"z-logo-ai-api/internal/infrastructure/llm"
	"z-logo-ai-api/internal/infrastructure/persistence/milvus"
	"z-logo-ai-api/internal/infrastructure/persistence/postgres"
	"z-logo-ai-api/internal/infrastructure/persistence/redis"
	"z-logo-ai-api/internal/interfaces/http/handler"
	"z-logo-ai-api/internal/interfaces/http/router"
	"z-logo-ai-api/pkg/logger"
	"z-logo-ai-api/pkg/tracer"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting logo-svc",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	// 初始化追踪
	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// PostgreSQL
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to connect postgres", err)
	}
	defer func() { _ = pgClient.Close() }()

	// Redis
	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to connect redis", err)
	}
	defer func() { _ = redisClient.Close() }()

	cache := redis.NewCache(redisClient)
	rateLimiter := redis.NewRateLimiter(redisClient)

	// 仓储
	txManager := postgres.NewTxManager(pgClient)
	logoRepo := postgres.NewLogoRepository(pgClient)
	sessionRepo := postgres.NewSessionRepository(pgClient, txManager)

	// 图像生成提供商
	imgProvider := imagegen.NewClient(cfg.ImageGen)
	resolver := imagegen.NewResolver(cfg.ImageGen.Timeout)

	// 提示词编译与指令解析
	compiler := prompt.NewCompiler()

	var analyzer command.IntentAnalyzer
	if cfg.Features.Classification.Enabled {
		factory := llm.NewEinoFactory(cfg)
		analyzer = llm.NewIntentAnalyzer(factory, cfg)
		log.Info("llm command classification enabled", "provider", cfg.LLM.DefaultProvider)
	}
	parser := command.NewParser(compiler, analyzer)

	// 工作流与会话
	coordinator := workflow.NewCoordinator(compiler, imgProvider, resolver, cfg.ImageGen.OutputFormat)
	sessionManager := session.NewManager(coordinator, parser, sessionRepo, logoRepo)

	// 灵感检索（可选功能）
	var (
		milvusClient       *milvus.Client
		inspirationHandler *handler.InspirationHandler
	)
	if cfg.Features.Inspiration.Enabled && cfg.Vector.Milvus.Enabled {
		milvusClient, err = milvus.NewClient(ctx, &cfg.Vector.Milvus)
		if err != nil {
			logger.Fatal(ctx, "failed to connect milvus", err)
		}
		defer func() { _ = milvusClient.Close() }()

		vectorIndex := milvus.NewRepository(milvusClient, cfg.Embedding.Dimension)
		if err := vectorIndex.EnsureCollection(ctx); err != nil {
			logger.Fatal(ctx, "failed to ensure milvus collection", err)
		}

		embedder, err := embedding.NewEinoEmbedder(ctx, &cfg.Embedding)
		if err != nil {
			logger.Fatal(ctx, "failed to init embedder", err)
		}
		embClient := embedding.NewClient(embedder, cfg.Embedding.Dimension)

		inspirationRepo := postgres.NewInspirationRepository(pgClient)
		inspirationService := inspiration.NewService(embClient, vectorIndex, inspirationRepo)
		inspirationHandler = handler.NewInspirationHandler(inspirationService)
		log.Info("inspiration search enabled", "dimension", cfg.Embedding.Dimension)
	}

	// 路由
	r := router.New(cfg, &router.Handlers{
		Health:      handler.NewHealthHandler(pgClient, redisClient, milvusClient),
		Generation:  handler.NewGenerationHandler(coordinator, logoRepo, cache),
		Stream:      handler.NewStreamHandler(coordinator, cache),
		Logo:        handler.NewLogoHandler(logoRepo, coordinator, parser),
		Command:     handler.NewCommandHandler(parser, logoRepo),
		Session:     handler.NewSessionHandler(sessionManager),
		Inspiration: inspirationHandler,
	}, rateLimiter)

	// 创建 HTTP 服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	// 启动服务器
	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
