package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName 是会话cookie的名称
	CookieName = "horse-session"

	// UserIDKey 是Telegram ID在Gin上下文中的键名
	UserIDKey = "telegramID"
)

// RequireSession 校验会话cookie，并把持有者的Telegram ID放入Gin上下文。
// 没有有效会话的请求直接以401中止。
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieValue, err := c.Cookie(CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
			return
		}

		telegramID, err := ValidateSession(cookieValue)
		if err != nil {
			if errors.Is(err, ErrSessionInvalid) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "会话无效或已过期"})
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
			}
			return
		}

		touchSession(cookieValue)
		c.Set(UserIDKey, telegramID)
		c.Next()
	}
}

// CurrentTelegramID 从Gin上下文中取出当前登录用户的Telegram ID。
// 只应在 RequireSession 之后的handler中调用。
func CurrentTelegramID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}
