package user

import (
	"fmt"

	"github.com/stable-club/horse-care-backend/internal/platform/config"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
)

// Setup 注入会话配置并迁移users表。
func Setup(cfg config.SessionConfig) error {
	sessionCfg = cfg
	if err := database.DB.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("无法迁移users表: %w", err)
	}
	fmt.Println("User数据库表迁移成功。")
	return nil
}
