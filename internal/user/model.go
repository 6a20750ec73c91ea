package user

import (
	"time"
)

// User 定义了用户在数据库中的持久化模型。
// TelegramID 是贯穿所有表的自然键；数据库自增ID只作为内部外键使用。
type User struct {
	ID uint `gorm:"primarykey" json:"-"`

	// TelegramID 是用户在Telegram中的数字ID，全局唯一
	TelegramID int64 `gorm:"uniqueIndex;not null" json:"telegram_id"`

	// Username 是展示用的名称，懒注册时生成占位名
	Username string `json:"username"`

	// PasswordHash 是网页端登录密码的bcrypt哈希。
	// nil 表示用户由机器人创建但尚未完成网页注册。
	PasswordHash *string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
