package main

import (
	"context"

	"github.com/devpool/pps/internal/blob"
	"github.com/devpool/pps/internal/config"
	"github.com/devpool/pps/internal/logger"
	"github.com/devpool/pps/internal/notify"
	"github.com/devpool/pps/internal/repository"
	"github.com/devpool/pps/internal/router"
	"github.com/devpool/pps/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	initLogger(cfg)
	defer logger.Sync()

	// 初始化数据库
	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化凭证文件存储
	blobStore, err := blob.New(context.Background(), cfg.Blob)
	if err != nil {
		logger.Fatal("Failed to initialize blob store: %v", err)
	}

	// 初始化通知投递器
	notifier, err := notify.NewSink(db, cfg.Notify.PoolSize)
	if err != nil {
		logger.Fatal("Failed to initialize notification sink: %v", err)
	}
	defer notifier.Close()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, blobStore, notifier, cfg)

	// 启动定时任务
	manager := task.Start(db, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

func initLogger(cfg *config.Config) {
	level := logger.ParseLogLevel(cfg.Log.Level)

	if cfg.Log.Output == "file" {
		l, err := logger.NewWithFileRotation(level, cfg.Log.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(l)
		return
	}

	l, err := logger.New(level)
	if err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	logger.SetDefaultLogger(l)
}
