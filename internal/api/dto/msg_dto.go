package dto

import "shopee_dash_v1_202608/pkg/shopee"

// ==================== 聊天消息 ====================

// GetMessagesRequest 拉取会话消息请求
// 查询参数沿用前端的驼峰命名（connectionId 同理）
type GetMessagesRequest struct {
	ShopID         int64  `form:"shopId" binding:"required"`
	ConversationID string `form:"conversationId" binding:"required"`
	Offset         string `form:"offset"`
	PageSize       int    `form:"pageSize,default=25"`
}

// GetMessagesResponse 消息列表响应（保持 Shopee 原始外层结构）
type GetMessagesResponse struct {
	Response MessagesPayload `json:"response"`
}

// MessagesPayload 消息页载荷
type MessagesPayload struct {
	Messages   []shopee.MessageData `json:"messages"`
	PageResult MessagesPageResult   `json:"page_result"`
}

// MessagesPageResult 翻页游标
type MessagesPageResult struct {
	NextOffset string `json:"next_offset"`
}

// ==================== 会话列表 ====================

// GetConversationsRequest 会话列表请求；shop_id 为 0 表示全部店铺
type GetConversationsRequest struct {
	ShopID int64 `form:"shop_id"`
}
