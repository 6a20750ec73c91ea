package startup

import (
	"fmt"

	"github.com/stable-club/horse-care-backend/internal/admin"
	"github.com/stable-club/horse-care-backend/internal/horse"
	"github.com/stable-club/horse-care-backend/internal/platform/config"
	"github.com/stable-club/horse-care-backend/internal/request"
	"github.com/stable-club/horse-care-backend/internal/user"
)

// InitializeApplication 按依赖顺序初始化各业务模块：
// 迁移数据库表、注入配置，最后预热Redis缓存。
// 任何一步失败都应视为启动失败。
func InitializeApplication() error {
	fmt.Println("开始初始化应用数据...")

	if err := user.Setup(config.Cfg.Session); err != nil {
		return fmt.Errorf("初始化User模块失败: %w", err)
	}
	if err := horse.Setup(config.Cfg.Game); err != nil {
		return fmt.Errorf("初始化Horse模块失败: %w", err)
	}
	if err := request.Setup(); err != nil {
		return fmt.Errorf("初始化Request模块失败: %w", err)
	}
	if err := admin.Setup(config.Cfg.Admin); err != nil {
		return fmt.Errorf("初始化Admin模块失败: %w", err)
	}

	if err := RebuildCache(); err != nil {
		return err
	}

	fmt.Println("应用数据初始化完成。")
	return nil
}

// RebuildCache 从SQLite重建Redis中的全部派生数据。
// Redis里只有可丢弃的缓存（会话除外，丢失仅导致用户重新登录），
// 因此Redis重启恢复后直接整体重建即可。
func RebuildCache() error {
	if err := request.WarmupCache(); err != nil {
		return fmt.Errorf("重建待审核计数缓存失败: %w", err)
	}
	return nil
}
