package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/stable-club/horse-care-backend/internal/platform/config"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
	"github.com/stable-club/horse-care-backend/pkg/lifecycle"
)

var backupMutex sync.Mutex // 避免意外竞态

// StartBackupScheduler 启动一个后台Goroutine来定期备份SQLite数据库。
// 它接收一个lifecycle.Handle来管理其生命周期。
func StartBackupScheduler(handle *lifecycle.Handle, cfg config.BackupConfig) {
	defer handle.Close()

	if !cfg.Enabled {
		fmt.Println("数据库备份调度器未启用。")
		return
	}
	fmt.Println("数据库备份调度器已启动。")

	for {
		// 使用可中断的休眠代替ticker，收到停机信号时立刻退出。
		if err := handle.Sleep(cfg.Interval); err != nil {
			fmt.Println("备份调度器: 休眠被中断，正在关闭...")
			return
		}

		if err := CreateBackupFile(cfg.Dir); err != nil {
			fmt.Printf("备份调度器错误: 执行备份失败: %v\n", err)
		} else {
			fmt.Println("备份调度器: 数据库备份成功。")
		}
	}
}

// CreateBackupFile 对SQLite数据库执行一次VACUUM INTO备份，
// 输出带时间戳的独立副本。SQLite是唯一真相来源，
// Redis中的派生数据不需要备份。
func CreateBackupFile(dir string) error {
	backupMutex.Lock()
	defer backupMutex.Unlock()

	if config.Cfg.Database.Driver != "sqlite" {
		return fmt.Errorf("文件备份仅支持sqlite驱动")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("无法创建备份目录: %w", err)
	}

	target := filepath.Join(dir, fmt.Sprintf("horses-%s.db", time.Now().Format("20060102-150405")))
	if err := database.DB.Exec("VACUUM INTO ?", target).Error; err != nil {
		return fmt.Errorf("执行VACUUM INTO失败: %w", err)
	}
	return nil
}
