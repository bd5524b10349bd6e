package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fahroediin/resource-tracker/config"
	"github.com/fahroediin/resource-tracker/internal/api/handler"
	"github.com/fahroediin/resource-tracker/internal/api/middleware"
	"github.com/fahroediin/resource-tracker/internal/api/router"
	"github.com/fahroediin/resource-tracker/internal/model"
	"github.com/fahroediin/resource-tracker/internal/repository"
	"github.com/fahroediin/resource-tracker/internal/service"
	"github.com/fahroediin/resource-tracker/pkg/database"
	"github.com/fahroediin/resource-tracker/pkg/jwt"
	applogger "github.com/fahroediin/resource-tracker/pkg/logger"
	"github.com/fahroediin/resource-tracker/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("RT_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库并迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	if err := database.Migrate(db, cfg.Database.Driver, logger, model.All()...); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var (
		tokens    service.TokenStore
		checker   middleware.TokenChecker
		limiter   middleware.WindowLimiter
		rdbCloser func() error
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与分布式限流降级", zap.Error(err))
	} else {
		tokens, checker, limiter = rdb, rdb, rdb
		rdbCloser = rdb.Close
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, tokens, logger)

	if cfg.Seed.OnStartup {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := svc.Seed.SeedIfEmpty(ctx); err != nil {
			logger.Warn("启动时写入演示数据失败", zap.Error(err))
		}
		cancel()
	}

	// 7. 初始化路由
	engine := router.Setup(cfg, router.Deps{
		Handler: handler.NewHandler(cfg, svc),
		JWT:     jwtMgr,
		Actors:  svc.Auth,
		Tokens:  checker,
		Limiter: limiter,
		Logger:  logger,
	})

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
	if rdbCloser != nil {
		rdbCloser()
	}

	logger.Info("服务器已关闭")
}
