package horse

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stable-club/horse-care-backend/internal/user"
	"github.com/stable-club/horse-care-backend/pkg/apperr"
)

// ListHorsesHandler 处理 GET /api/horses
func ListHorsesHandler(c *gin.Context) {
	telegramID := user.CurrentTelegramID(c)

	horses, err := ListHorsesForUser(telegramID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"horses": horses})
}

// GetHorseHandler 处理 GET /api/horses/:id
func GetHorseHandler(c *gin.Context) {
	horseID, ok := parseHorseID(c)
	if !ok {
		return
	}

	h, decay, err := GetHorseForUser(horseID, user.CurrentTelegramID(c))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"horse": h, "decay": decay})
}

// CareHandler 返回处理 POST /api/horses/:id/{feed|water|flower} 的handler。
// 动作种类在路由注册时固定，不接受请求方传入的字段名。
func CareHandler(kind CareKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		horseID, ok := parseHorseID(c)
		if !ok {
			return
		}

		newLevel, err := ApplyCare(horseID, kind)
		if err != nil {
			c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"kind":      kind,
			"new_level": newLevel,
		})
	}
}

// parseHorseID 解析路径参数中的马匹ID，非法时直接写出400响应。
func parseHorseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "马匹ID必须是正整数"})
		return 0, false
	}
	return uint(id), true
}
