package request

import (
	"time"
)

// Status 是申请状态的封闭枚举。
// pending是初始状态；approved和rejected都是终态，终态之间不可再迁移。
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// AttachRequest 是绑定马匹的申请：用户提交马名、编号和证明照片，
// 管理员审核通过后才会真正创建Horse记录。
type AttachRequest struct {
	ID uint `gorm:"primarykey" json:"id"`

	// UserID 是申请人的数据库内部ID
	UserID uint `gorm:"index;not null" json:"-"`

	HorseName   string `json:"horse_name"`
	HorseNumber string `json:"horse_number"`
	ProofPhoto  string `json:"proof_photo"`

	Status Status `gorm:"default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

// DeleteRequest 是解绑（删除）马匹的申请。
// HorseName/HorseNumber 是提交时的快照：即使马被删除，审核记录仍可读。
type DeleteRequest struct {
	ID uint `gorm:"primarykey" json:"id"`

	UserID uint `gorm:"index;not null" json:"-"`

	// HorseID 引用待删除的马匹
	HorseID uint `gorm:"index;not null" json:"horse_id"`

	HorseName   string `json:"horse_name"`
	HorseNumber string `json:"horse_number"`

	Status Status `gorm:"default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

// PendingAttachView 是管理面板上一条待审核绑定申请的视图，
// 关联出了申请人的Telegram ID和用户名。
type PendingAttachView struct {
	ID          uint      `json:"id"`
	TelegramID  int64     `json:"telegram_id"`
	Username    string    `json:"username"`
	HorseName   string    `json:"horse_name"`
	HorseNumber string    `json:"horse_number"`
	ProofPhoto  string    `json:"proof_photo"`
	CreatedAt   time.Time `json:"created_at"`
}

// PendingDeleteView 是管理面板上一条待审核删除申请的视图。
type PendingDeleteView struct {
	ID          uint      `json:"id"`
	TelegramID  int64     `json:"telegram_id"`
	Username    string    `json:"username"`
	HorseID     uint      `json:"horse_id"`
	HorseName   string    `json:"horse_name"`
	HorseNumber string    `json:"horse_number"`
	CreatedAt   time.Time `json:"created_at"`
}
