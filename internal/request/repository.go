package request

import (
	"fmt"

	"github.com/stable-club/horse-care-backend/internal/platform/database"
)

// --- Redis 键名常量 ---

const (
	// PendingAttachCountKey 缓存待审核绑定申请的数量，供管理面板轮询。
	// 数据库是唯一真相来源，该计数随时可以从SQLite重建。
	PendingAttachCountKey = "request:pending:attach"

	// PendingDeleteCountKey 缓存待审核删除申请的数量。
	PendingDeleteCountKey = "request:pending:delete"
)

// WarmupCache 从SQLite统计待审核数量并写入Redis。
// 启动时和Redis重启恢复后都会调用它。
func WarmupCache() error {
	var attachCount, deleteCount int64
	if err := database.DB.Model(&AttachRequest{}).
		Where("status = ?", StatusPending).Count(&attachCount).Error; err != nil {
		return fmt.Errorf("统计待审核绑定申请失败: %w", err)
	}
	if err := database.DB.Model(&DeleteRequest{}).
		Where("status = ?", StatusPending).Count(&deleteCount).Error; err != nil {
		return fmt.Errorf("统计待审核删除申请失败: %w", err)
	}

	pipe := database.RDB.Pipeline()
	pipe.Set(database.Ctx, PendingAttachCountKey, attachCount, 0)
	pipe.Set(database.Ctx, PendingDeleteCountKey, deleteCount, 0)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热待审核计数到Redis失败: %w", err)
	}

	fmt.Printf("待审核计数已预热: 绑定申请 %d 条，删除申请 %d 条。\n", attachCount, deleteCount)
	return nil
}

// bumpPendingCounter 以best-effort方式调整Redis中的待审核计数。
// 计数只是展示用缓存，Redis不可用时静默跳过，由下一次预热纠正。
func bumpPendingCounter(key string, delta int64) {
	if database.RDB == nil || !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.IncrBy(database.Ctx, key, delta).Err(); err != nil {
		fmt.Printf("更新待审核计数 %s 失败: %v\n", key, err)
	}
}

// cachedPendingCount 读取Redis中的待审核计数；
// 缓存不可用时回退到数据库统计。
func cachedPendingCount(key string, fallback func() (int64, error)) (int64, error) {
	if database.RDB != nil && database.IsRedisHealthy() {
		count, err := database.RDB.Get(database.Ctx, key).Int64()
		if err == nil {
			return count, nil
		}
	}
	return fallback()
}
