package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stable-club/horse-care-backend/internal/user"
)

// RequireAdmin 要求当前会话用户拥有管理员权限，必须挂在RequireSession之后。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := IsAdmin(user.CurrentTelegramID(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要管理员权限"})
			return
		}
		c.Next()
	}
}

// RequireMainAdmin 要求当前会话用户是配置文件中的主管理员。
// 管理员名册的增删只开放给主管理员。
func RequireMainAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsMainAdmin(user.CurrentTelegramID(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要主管理员权限"})
			return
		}
		c.Next()
	}
}
