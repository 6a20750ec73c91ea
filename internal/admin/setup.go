package admin

import (
	"fmt"

	"github.com/stable-club/horse-care-backend/internal/platform/config"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
)

// Setup 注入主管理员名单并迁移admins表。
func Setup(cfg config.AdminConfig) error {
	Configure(cfg)
	if err := database.DB.AutoMigrate(&Admin{}); err != nil {
		return fmt.Errorf("无法迁移admins表: %w", err)
	}
	fmt.Println("Admin数据库表迁移成功。")
	return nil
}
