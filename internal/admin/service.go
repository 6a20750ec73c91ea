package admin

import (
	"fmt"

	"github.com/stable-club/horse-care-backend/internal/horse"
	"github.com/stable-club/horse-care-backend/internal/platform/config"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
	"github.com/stable-club/horse-care-backend/internal/request"
	"github.com/stable-club/horse-care-backend/pkg/apperr"
	"gorm.io/gorm/clause"
)

// mainAdminIDs 在Configure时由配置注入，此后只读。
// 主管理员的权威完全来自配置文件，与admins表无关：
// 改动主管理员名单只需要改配置并重启。
var mainAdminIDs map[int64]struct{}

// Configure 注入主管理员名单。
func Configure(cfg config.AdminConfig) {
	mainAdminIDs = make(map[int64]struct{}, len(cfg.MainAdminIDs))
	for _, id := range cfg.MainAdminIDs {
		mainAdminIDs[id] = struct{}{}
	}
}

// IsMainAdmin 判断该Telegram ID是否是配置文件中的主管理员。
func IsMainAdmin(telegramID int64) bool {
	_, ok := mainAdminIDs[telegramID]
	return ok
}

// IsAdmin 判断该Telegram ID是否拥有管理员权限。
// 主管理员天然是管理员，即使不在名册表里。
func IsAdmin(telegramID int64) (bool, error) {
	if IsMainAdmin(telegramID) {
		return true, nil
	}
	var count int64
	err := database.DB.Model(&Admin{}).
		Where("telegram_id = ?", telegramID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("查询管理员名册失败: %w", err)
	}
	return count > 0, nil
}

// AddAdmin 把一名已注册用户任命为管理员。
// 被任命者必须已经设置过登录凭据；重复任命是幂等的，
// 但会把任命者更新为最近一次操作的人。
func AddAdmin(targetTelegramID, addedBy int64) error {
	var username string
	var count int64
	err := database.DB.Table("users").
		Where("telegram_id = ? AND password_hash IS NOT NULL", targetTelegramID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("查询用户失败: %w", err)
	}
	if count == 0 {
		return apperr.ErrNotRegistered
	}
	if err := database.DB.Table("users").
		Select("username").
		Where("telegram_id = ?", targetTelegramID).
		Scan(&username).Error; err != nil {
		return fmt.Errorf("查询用户名失败: %w", err)
	}

	entry := Admin{
		TelegramID: targetTelegramID,
		Username:   username,
		AddedBy:    addedBy,
	}
	err = database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "added_by"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("写入管理员名册失败: %w", err)
	}
	return nil
}

// RemoveAdmin 把一名管理员从名册中移除。
// 主管理员不可被移除（其权威来自配置，不来自名册）；
// 移除一个本来就不在名册里的ID是无操作。
func RemoveAdmin(targetTelegramID int64) error {
	if IsMainAdmin(targetTelegramID) {
		return fmt.Errorf("%w: 主管理员不能被移除", apperr.ErrForbidden)
	}
	err := database.DB.Where("telegram_id = ?", targetTelegramID).
		Delete(&Admin{}).Error
	if err != nil {
		return fmt.Errorf("移除管理员失败: %w", err)
	}
	return nil
}

// ListAdmins 返回名册中的全部管理员，按任命时间排列。
func ListAdmins() ([]Admin, error) {
	var admins []Admin
	err := database.DB.Order("added_at asc, id asc").Find(&admins).Error
	if err != nil {
		return nil, fmt.Errorf("查询管理员名册失败: %w", err)
	}
	return admins, nil
}

// AdminCount 返回名册中的管理员人数，用于管理面板。
func AdminCount() (int64, error) {
	var count int64
	if err := database.DB.Model(&Admin{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计管理员人数失败: %w", err)
	}
	return count, nil
}

// DashboardStats 汇总管理面板首页需要的各项统计。
type DashboardStats struct {
	PendingAttachCount int64 `json:"pending_requests_count"`
	PendingDeleteCount int64 `json:"pending_delete_requests_count"`
	AdminCount         int64 `json:"admins_count"`
	TotalHorses        int64 `json:"total_horses"`
}

// GetDashboardStats 收集管理面板统计数据。
func GetDashboardStats() (DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.PendingAttachCount, err = request.PendingAttachCount(); err != nil {
		return stats, err
	}
	if stats.PendingDeleteCount, err = request.PendingDeleteCount(); err != nil {
		return stats, err
	}
	if stats.AdminCount, err = AdminCount(); err != nil {
		return stats, err
	}
	if stats.TotalHorses, err = horse.TotalCount(); err != nil {
		return stats, err
	}
	return stats, nil
}
