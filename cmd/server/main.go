package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/stable-club/horse-care-backend/api"
	"github.com/stable-club/horse-care-backend/internal/platform/backup"
	"github.com/stable-club/horse-care-backend/internal/platform/config"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
	"github.com/stable-club/horse-care-backend/internal/platform/health"
	"github.com/stable-club/horse-care-backend/internal/platform/shutdown"
	"github.com/stable-club/horse-care-backend/internal/platform/startup"
	"github.com/stable-club/horse-care-backend/pkg/lifecycle"
	"github.com/stable-club/horse-care-backend/pkg/token"
)

func main() {
	// .env 只在本地开发时存在，缺失不是错误
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	token.InitSecretKey(cfg.Session.Secret)
	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 阻塞式获取初始Run ID
	health.InitializeRunID()

	// 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 启动后台服务
	manager := lifecycle.NewManager()

	healthHandle, err := manager.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(err)
	}
	go health.StartRedisHealthCheck(healthHandle)

	backupHandle, err := manager.NewServiceHandle("backup-scheduler")
	if err != nil {
		panic(err)
	}
	go backup.StartBackupScheduler(backupHandle, cfg.Backup)

	router := api.NewRouter(cfg.Server)
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic("Failed to start server: " + err.Error())
		}
	}()

	coordinator := shutdown.NewCoordinator(manager)
	coordinator.ListenForSignalsAndShutdown(server)
}
