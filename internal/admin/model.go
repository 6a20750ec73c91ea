package admin

import (
	"time"
)

// Admin 是管理员名册中的一条记录。
// 主管理员由配置文件固定，不出现在这张表里；
// 表中只存放被主管理员任命的普通管理员。
type Admin struct {
	ID uint `gorm:"primarykey" json:"-"`

	// TelegramID 是管理员的Telegram ID
	TelegramID int64 `gorm:"uniqueIndex;not null" json:"telegram_id"`

	// Username 是任命时的用户名快照
	Username string `json:"username"`

	// AddedBy 是任命者的Telegram ID
	AddedBy int64 `json:"added_by"`

	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}
