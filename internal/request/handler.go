package request

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stable-club/horse-care-backend/internal/user"
	"github.com/stable-club/horse-care-backend/pkg/apperr"
)

type attachRequestBody struct {
	HorseName   string `json:"horse_name" binding:"required"`
	HorseNumber string `json:"horse_number" binding:"required"`
	ProofPhoto  string `json:"proof_photo"`
}

type deleteRequestBody struct {
	HorseID uint `json:"horse_id" binding:"required"`
}

// CreateAttachHandler 处理 POST /api/requests/attach
func CreateAttachHandler(c *gin.Context) {
	var body attachRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误，缺少马名或编号"})
		return
	}

	req, err := CreateAttachRequest(user.CurrentTelegramID(c), body.HorseName, body.HorseNumber, body.ProofPhoto)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// CreateDeleteHandler 处理 POST /api/requests/delete
func CreateDeleteHandler(c *gin.Context) {
	var body deleteRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误，缺少马匹ID"})
		return
	}

	req, err := CreateDeleteRequest(user.CurrentTelegramID(c), body.HorseID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// MyRequestsHandler 处理 GET /api/requests/mine
func MyRequestsHandler(c *gin.Context) {
	attaches, deletes, err := ListMyRequests(user.CurrentTelegramID(c))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attach_requests": attaches,
		"delete_requests": deletes,
	})
}

// --- 管理端 ---

// PendingAttachHandler 处理 GET /api/admin/requests/attach
func PendingAttachHandler(c *gin.Context) {
	views, err := ListPendingAttach()
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": views})
}

// PendingDeleteHandler 处理 GET /api/admin/requests/delete
func PendingDeleteHandler(c *gin.Context) {
	views, err := ListPendingDelete()
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": views})
}

// ApproveAttachHandler 处理 POST /api/admin/requests/attach/:id/approve
func ApproveAttachHandler(c *gin.Context) {
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	h, err := ApproveAttach(requestID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "horse": h})
}

// RejectAttachHandler 处理 POST /api/admin/requests/attach/:id/reject
func RejectAttachHandler(c *gin.Context) {
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	if err := RejectAttach(requestID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ApproveDeleteHandler 处理 POST /api/admin/requests/delete/:id/approve
func ApproveDeleteHandler(c *gin.Context) {
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	if err := ApproveDelete(requestID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RejectDeleteHandler 处理 POST /api/admin/requests/delete/:id/reject
func RejectDeleteHandler(c *gin.Context) {
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	if err := RejectDelete(requestID); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// parseRequestID 解析路径参数中的申请ID，非法时直接写出400响应。
func parseRequestID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "申请ID必须是正整数"})
		return 0, false
	}
	return uint(id), true
}
