package lifecycle

import (
	"context"
	"time"
)

// Handle 是分发给每个后台服务（健康检查器、备份循环等）的生命周期控制器。
// 它由 Manager 创建，服务在退出前必须通过 defer 调用 Close。
type Handle struct {
	ctx context.Context
	// Close 通知Manager其所属的服务已经完成关闭。
	Close func()
}

// Ctx 返回句柄内部的context，供需要传递context的下游调用使用。
func (h *Handle) Ctx() context.Context {
	return h.ctx
}

// Done 返回一个channel，当管理器广播停机信号时该channel会关闭。
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}

// Sleep 暂停指定的时长，如果期间收到停机信号则提前返回错误。
// 后台循环应当用它代替 time.Sleep / time.Ticker。
func (h *Handle) Sleep(duration time.Duration) error {
	timer := time.NewTimer(duration)

	select {
	case <-h.Done():
		if !timer.Stop() {
			<-timer.C
		}
		return h.ctx.Err()
	case <-timer.C:
		return nil
	}
}
