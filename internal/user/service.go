package user

import (
	"errors"
	"fmt"

	"github.com/stable-club/horse-care-backend/internal/platform/database"
	"github.com/stable-club/horse-care-backend/pkg/apperr"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetByTelegramID 按Telegram ID查找用户。
func GetByTelegramID(telegramID int64) (*User, error) {
	var u User
	err := database.DB.Where("telegram_id = ?", telegramID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, nil
}

// ensureUser 惰性创建用户：如果该Telegram ID不存在则插入一条占位记录。
// 并发的首次注册通过唯一索引上的DoNothing解决，随后统一重读。
func ensureUser(telegramID int64) (*User, error) {
	newUser := User{
		TelegramID: telegramID,
		Username:   fmt.Sprintf("user_%d", telegramID),
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoNothing: true,
	}).Create(&newUser).Error
	if err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return GetByTelegramID(telegramID)
}

// Register 完成网页端注册：惰性创建用户并设置登录密码。
// 密码只能在尚未设置时写入一次；已注册账号再次注册会被拒绝。
func Register(telegramID int64, password, confirmPassword string) error {
	if telegramID <= 0 {
		return fmt.Errorf("%w: Telegram ID必须是正整数", apperr.ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: 密码不能为空", apperr.ErrInvalidInput)
	}
	if password != confirmPassword {
		return fmt.Errorf("%w: 两次输入的密码不一致", apperr.ErrInvalidInput)
	}

	u, err := ensureUser(telegramID)
	if err != nil {
		return err
	}
	if u.PasswordHash != nil {
		return fmt.Errorf("%w: 该账号已完成注册", apperr.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("生成密码哈希失败: %w", err)
	}

	// 条件更新保证凭证只会被设置一次：
	// 两个并发注册中只有一个能命中 password_hash IS NULL。
	res := database.DB.Model(&User{}).
		Where("telegram_id = ? AND password_hash IS NULL", telegramID).
		Update("password_hash", string(hash))
	if res.Error != nil {
		return fmt.Errorf("保存密码失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: 该账号已完成注册", apperr.ErrInvalidInput)
	}
	return nil
}

// VerifyCredential 校验登录凭证。
// 用户不存在或尚未设置密码都返回false，不区分原因，避免账号探测。
func VerifyCredential(telegramID int64, password string) (bool, error) {
	u, err := GetByTelegramID(telegramID)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if u.PasswordHash == nil {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)) == nil, nil
}
