package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stable-club/horse-care-backend/internal/platform/config"
)

// RDB 是全局的Redis客户端实例。
// Redis中只存放可重建的数据：会话、待审核计数缓存。
var RDB *redis.Client

// Ctx 是Redis操作使用的全局上下文
var Ctx = context.Background()

// InitRedis 初始化与Redis的连接。
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		panic("无法连接到Redis: " + err.Error())
	}

	fmt.Println("Redis 连接成功！")
}

// CloseRedis 在停机时关闭Redis连接。
func CloseRedis() {
	if RDB == nil {
		return
	}
	if err := RDB.Close(); err != nil {
		fmt.Printf("关闭Redis连接失败: %v\n", err)
	}
}
