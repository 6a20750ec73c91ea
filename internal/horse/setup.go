package horse

import (
	"fmt"

	"github.com/stable-club/horse-care-backend/internal/platform/config"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
)

// Setup 注入玩法数值配置并迁移horses表。
func Setup(cfg config.GameConfig) error {
	gameCfg = cfg
	if err := database.DB.AutoMigrate(&Horse{}); err != nil {
		return fmt.Errorf("无法迁移horses表: %w", err)
	}
	fmt.Println("Horse数据库表迁移成功。")
	return nil
}
