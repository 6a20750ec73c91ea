package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stable-club/horse-care-backend/pkg/apperr"
)

// registerRequestBody 定义了注册请求体的JSON结构
type registerRequestBody struct {
	TelegramID      int64  `json:"telegram_id" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// loginRequestBody 定义了登录请求体的JSON结构
type loginRequestBody struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// RegisterHandler 处理 POST /api/auth/register
func RegisterHandler(c *gin.Context) {
	var body registerRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	if err := Register(body.TelegramID, body.Password, body.ConfirmPassword); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "注册成功，现在可以登录了"})
}

// LoginHandler 处理 POST /api/auth/login
func LoginHandler(c *gin.Context) {
	var body loginRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	ok, err := VerifyCredential(body.TelegramID, body.Password)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Telegram ID或密码错误"})
		return
	}

	cookieValue, err := CreateSession(body.TelegramID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建会话失败"})
		return
	}

	c.SetCookie(CookieName, cookieValue, int(sessionCfg.TTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "登录成功"})
}

// LogoutHandler 处理 POST /api/auth/logout
func LogoutHandler(c *gin.Context) {
	if cookieValue, err := c.Cookie(CookieName); err == nil {
		if err := DestroySession(cookieValue); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "注销会话失败"})
			return
		}
	}
	// MaxAge为负让浏览器立即删除cookie
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// ProfileHandler 处理 GET /api/me
func ProfileHandler(c *gin.Context) {
	telegramID := CurrentTelegramID(c)

	u, err := GetByTelegramID(telegramID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"telegram_id": u.TelegramID,
		"username":    u.Username,
		"created_at":  u.CreatedAt,
	})
}
