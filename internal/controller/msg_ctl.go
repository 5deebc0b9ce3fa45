package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopee_dash_v1_202608/internal/api/dto"
	"shopee_dash_v1_202608/internal/service"
)

// MsgController 聊天消息控制器
type MsgController struct {
	svc *service.ChatService
}

// NewMsgController 创建聊天消息控制器
func NewMsgController(svc *service.ChatService) *MsgController {
	return &MsgController{svc: svc}
}

// GetMessage 拉取单个会话的消息，保持 Shopee 原始外层结构
// GET /api/msg/get_message
func (c *MsgController) GetMessage(ctx *gin.Context) {
	var req dto.GetMessagesRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := c.svc.GetMessages(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetConversationList 会话列表；索引热时走内存，冷时回源 Shopee
// GET /api/msg/get_conversation_list
func (c *MsgController) GetConversationList(ctx *gin.Context) {
	var req dto.GetConversationsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := c.svc.GetConversations(ctx, req.ShopID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"conversations": list})
}
