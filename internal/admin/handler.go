package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stable-club/horse-care-backend/internal/user"
	"github.com/stable-club/horse-care-backend/pkg/apperr"
)

// AuthorityHandler 处理 GET /api/me/authority，
// 返回当前用户的管理权限标志，供前端决定是否展示管理入口。
func AuthorityHandler(c *gin.Context) {
	telegramID := user.CurrentTelegramID(c)

	isAdmin, err := IsAdmin(telegramID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_admin":      isAdmin,
		"is_main_admin": IsMainAdmin(telegramID),
	})
}

// DashboardHandler 处理 GET /api/admin/dashboard
func DashboardHandler(c *gin.Context) {
	stats, err := GetDashboardStats()
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListAdminsHandler 处理 GET /api/admin/admins
func ListAdminsHandler(c *gin.Context) {
	admins, err := ListAdmins()
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

type adminTargetBody struct {
	TelegramID int64 `json:"telegram_id" binding:"required"`
}

// AddAdminHandler 处理 POST /api/admin/admins
func AddAdminHandler(c *gin.Context) {
	var body adminTargetBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误，缺少telegram_id"})
		return
	}

	if err := AddAdmin(body.TelegramID, user.CurrentTelegramID(c)); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveAdminHandler 处理 DELETE /api/admin/admins/:telegram_id
func RemoveAdminHandler(c *gin.Context) {
	targetID, ok := parseTelegramID(c)
	if !ok {
		return
	}

	if err := RemoveAdmin(targetID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// parseTelegramID 解析路径参数中的Telegram ID，非法时直接写出400响应。
func parseTelegramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "telegram_id必须是非零整数"})
		return 0, false
	}
	return id, true
}
