package request

import (
	"fmt"

	"github.com/stable-club/horse-care-backend/internal/platform/database"
)

// Setup 迁移两张申请表。
func Setup() error {
	if err := database.DB.AutoMigrate(&AttachRequest{}, &DeleteRequest{}); err != nil {
		return fmt.Errorf("无法迁移申请表: %w", err)
	}
	fmt.Println("Request数据库表迁移成功。")
	return nil
}
