package apperr

import (
	"errors"
	"net/http"
)

// 核心业务层统一使用的错误分类。
// 所有错误都是可恢复的：核心层绝不因非法输入而崩溃，
// 由表示层（handler）通过 Status 翻译为HTTP状态码。
var (
	// ErrNotFound 表示引用的马匹/申请/用户不存在
	ErrNotFound = errors.New("资源不存在")

	// ErrForbidden 表示权限不足，例如试图移除主管理员
	ErrForbidden = errors.New("没有权限执行此操作")

	// ErrConflict 表示并发竞争失败，例如申请已被其他管理员处理
	ErrConflict = errors.New("操作冲突，状态已被其他请求修改")

	// ErrInvalidInput 表示输入非法，例如密码确认不一致、重复注册
	ErrInvalidInput = errors.New("输入不合法")

	// ErrNotRegistered 表示目标用户尚未在系统中注册
	ErrNotRegistered = errors.New("用户尚未注册")
)

// Status 将业务错误映射为HTTP状态码。
// 未被分类覆盖的错误（通常是存储层故障）一律映射为500。
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotRegistered):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message 返回适合直接返回给前端的错误消息。
// 存储层故障不向外暴露内部细节。
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "服务器内部错误"
	}
	return err.Error()
}
