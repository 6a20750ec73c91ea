package request

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stable-club/horse-care-backend/internal/horse"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
	"github.com/stable-club/horse-care-backend/pkg/apperr"
	"gorm.io/gorm"
)

// userDBID 把Telegram ID解析成users表的内部ID。
func userDBID(telegramID int64) (uint, error) {
	var id uint
	err := database.DB.Table("users").
		Select("id").
		Where("telegram_id = ?", telegramID).
		Scan(&id).Error
	if err != nil {
		return 0, fmt.Errorf("查询用户失败: %w", err)
	}
	if id == 0 {
		return 0, apperr.ErrNotFound
	}
	return id, nil
}

// CreateAttachRequest 提交一条绑定马匹的申请，初始状态为pending。
func CreateAttachRequest(telegramID int64, horseName, horseNumber, proofPhoto string) (*AttachRequest, error) {
	horseName = strings.TrimSpace(horseName)
	horseNumber = strings.TrimSpace(horseNumber)
	if horseName == "" || horseNumber == "" {
		return nil, fmt.Errorf("%w: 马名和编号不能为空", apperr.ErrInvalidInput)
	}

	userID, err := userDBID(telegramID)
	if err != nil {
		return nil, err
	}

	req := AttachRequest{
		UserID:      userID,
		HorseName:   horseName,
		HorseNumber: horseNumber,
		ProofPhoto:  proofPhoto,
		Status:      StatusPending,
	}
	if err := database.DB.Create(&req).Error; err != nil {
		return nil, fmt.Errorf("创建绑定申请失败: %w", err)
	}

	bumpPendingCounter(PendingAttachCountKey, 1)
	return &req, nil
}

// CreateDeleteRequest 提交一条删除马匹的申请。
// 马名和编号在此刻快照进申请记录，之后马被删除也不影响审核历史的可读性。
func CreateDeleteRequest(telegramID int64, horseID uint) (*DeleteRequest, error) {
	userID, err := userDBID(telegramID)
	if err != nil {
		return nil, err
	}

	var h horse.Horse
	err = database.DB.First(&h, horseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询马匹失败: %w", err)
	}
	// 只能申请删除自己的马
	if h.UserID != userID {
		return nil, apperr.ErrForbidden
	}

	req := DeleteRequest{
		UserID:      userID,
		HorseID:     h.ID,
		HorseName:   h.Name,
		HorseNumber: h.Number,
		Status:      StatusPending,
	}
	if err := database.DB.Create(&req).Error; err != nil {
		return nil, fmt.Errorf("创建删除申请失败: %w", err)
	}

	bumpPendingCounter(PendingDeleteCountKey, 1)
	return &req, nil
}

// --- 审核操作 ---
//
// 状态迁移统一走"条件UPDATE + RowsAffected"：只有WHERE里带上status=pending
// 的那条UPDATE真正改到了行，才算赢得迁移。并发审核同一条申请时至多一方
// RowsAffected==1，输家据此得知申请已进入终态。

// ApproveAttach 批准一条绑定申请：状态迁移和马匹创建在同一事务中完成，
// 不存在"已批准但没有马"的中间状态。
// 申请不存在返回NotFound；已处于终态返回Conflict。
func ApproveAttach(requestID uint) (*horse.Horse, error) {
	var created horse.Horse
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var req AttachRequest
		err := tx.First(&req, requestID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("查询绑定申请失败: %w", err)
		}

		res := tx.Model(&AttachRequest{}).
			Where("id = ? AND status = ?", requestID, StatusPending).
			Update("status", StatusApproved)
		if res.Error != nil {
			return fmt.Errorf("更新申请状态失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrConflict
		}

		created = horse.NewAttachedHorse(req.UserID, req.HorseName, req.HorseNumber, req.ProofPhoto, time.Now())
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("创建马匹失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bumpPendingCounter(PendingAttachCountKey, -1)
	return &created, nil
}

// RejectAttach 拒绝一条绑定申请。
// 申请不存在返回NotFound；已处于终态时静默返回成功 —— 拒绝一条
// 已被处理的申请不会把它"复活"，也没有值得报告的冲突。
func RejectAttach(requestID uint) error {
	return rejectRequest(&AttachRequest{}, requestID, PendingAttachCountKey)
}

// ApproveDelete 批准一条删除申请：状态迁移和马匹删除在同一事务中完成。
// 马匹此时已不存在（例如被另一条申请先删掉）不视为错误，状态照常迁移。
func ApproveDelete(requestID uint) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var req DeleteRequest
		err := tx.First(&req, requestID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("查询删除申请失败: %w", err)
		}

		res := tx.Model(&DeleteRequest{}).
			Where("id = ? AND status = ?", requestID, StatusPending).
			Update("status", StatusApproved)
		if res.Error != nil {
			return fmt.Errorf("更新申请状态失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrConflict
		}

		if err := tx.Delete(&horse.Horse{}, req.HorseID).Error; err != nil {
			return fmt.Errorf("删除马匹失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	bumpPendingCounter(PendingDeleteCountKey, -1)
	return nil
}

// RejectDelete 拒绝一条删除申请，终态语义与RejectAttach一致。
func RejectDelete(requestID uint) error {
	return rejectRequest(&DeleteRequest{}, requestID, PendingDeleteCountKey)
}

// rejectRequest 是两类申请共用的拒绝实现。
func rejectRequest(model interface{}, requestID uint, counterKey string) error {
	var count int64
	if err := database.DB.Model(model).Where("id = ?", requestID).Count(&count).Error; err != nil {
		return fmt.Errorf("查询申请失败: %w", err)
	}
	if count == 0 {
		return apperr.ErrNotFound
	}

	res := database.DB.Model(model).
		Where("id = ? AND status = ?", requestID, StatusPending).
		Update("status", StatusRejected)
	if res.Error != nil {
		return fmt.Errorf("更新申请状态失败: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		bumpPendingCounter(counterKey, -1)
	}
	// RowsAffected==0：申请已处于终态，拒绝是无操作
	return nil
}

// --- 待审核列表与计数 ---

// ListPendingAttach 返回所有待审核的绑定申请，按提交顺序排列。
func ListPendingAttach() ([]PendingAttachView, error) {
	var views []PendingAttachView
	err := database.DB.Model(&AttachRequest{}).
		Select("attach_requests.id, users.telegram_id, users.username, attach_requests.horse_name, attach_requests.horse_number, attach_requests.proof_photo, attach_requests.created_at").
		Joins("JOIN users ON users.id = attach_requests.user_id").
		Where("attach_requests.status = ?", StatusPending).
		Order("attach_requests.id asc").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("查询待审核绑定申请失败: %w", err)
	}
	return views, nil
}

// ListPendingDelete 返回所有待审核的删除申请，按提交顺序排列。
func ListPendingDelete() ([]PendingDeleteView, error) {
	var views []PendingDeleteView
	err := database.DB.Model(&DeleteRequest{}).
		Select("delete_requests.id, users.telegram_id, users.username, delete_requests.horse_id, delete_requests.horse_name, delete_requests.horse_number, delete_requests.created_at").
		Joins("JOIN users ON users.id = delete_requests.user_id").
		Where("delete_requests.status = ?", StatusPending).
		Order("delete_requests.id asc").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("查询待审核删除申请失败: %w", err)
	}
	return views, nil
}

// PendingAttachCount 返回待审核绑定申请数，优先读Redis缓存。
func PendingAttachCount() (int64, error) {
	return cachedPendingCount(PendingAttachCountKey, func() (int64, error) {
		var count int64
		err := database.DB.Model(&AttachRequest{}).
			Where("status = ?", StatusPending).Count(&count).Error
		if err != nil {
			return 0, fmt.Errorf("统计待审核绑定申请失败: %w", err)
		}
		return count, nil
	})
}

// PendingDeleteCount 返回待审核删除申请数，优先读Redis缓存。
func PendingDeleteCount() (int64, error) {
	return cachedPendingCount(PendingDeleteCountKey, func() (int64, error) {
		var count int64
		err := database.DB.Model(&DeleteRequest{}).
			Where("status = ?", StatusPending).Count(&count).Error
		if err != nil {
			return 0, fmt.Errorf("统计待审核删除申请失败: %w", err)
		}
		return count, nil
	})
}

// ListMyRequests 返回用户自己提交过的绑定申请和删除申请，
// 各自按提交时间倒序，供前端展示申请进度。
func ListMyRequests(telegramID int64) ([]AttachRequest, []DeleteRequest, error) {
	userID, err := userDBID(telegramID)
	if err != nil {
		return nil, nil, err
	}

	var attaches []AttachRequest
	if err := database.DB.Where("user_id = ?", userID).
		Order("id desc").Find(&attaches).Error; err != nil {
		return nil, nil, fmt.Errorf("查询绑定申请失败: %w", err)
	}

	var deletes []DeleteRequest
	if err := database.DB.Where("user_id = ?", userID).
		Order("id desc").Find(&deletes).Error; err != nil {
		return nil, nil, fmt.Errorf("查询删除申请失败: %w", err)
	}
	return attaches, deletes, nil
}
