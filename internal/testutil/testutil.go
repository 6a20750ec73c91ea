// Package testutil 提供测试用的数据库和Redis环境。
// 为避免依赖真实服务，SQLite使用临时文件，Redis使用内存实现。
package testutil

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 用临时SQLite文件替换全局数据库实例，
// 迁移给定的模型，并在测试结束时恢复原状。
func SetupTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	// 并发测试下写锁竞争是常态，设置busy_timeout让驱动自动等待
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{LogLevel: logger.Silent},
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("迁移测试数据库失败: %v", err)
		}
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		database.DB = prev
	})
	return db
}

// SetupTestRedis 用miniredis替换全局Redis客户端，
// 并在测试结束时恢复原状。
func SetupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	prev := database.RDB
	database.RDB = client
	t.Cleanup(func() {
		client.Close()
		database.RDB = prev
	})
	return mr
}
