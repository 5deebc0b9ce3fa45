package relay

import "shopee_dash_v1_202608/pkg/shopee"

// ==================== 事件定义 ====================

// 推送帧类型（与浏览器端 EventSource 消费的 type 字段一致）
const (
	TypeConnectionEstablished = "connection_established"
	TypeNewMessage            = "new_message"
	TypeMarkAsRead            = "mark_as_read"
	TypeRefresh               = "refresh"
	TypeHeartbeat             = "heartbeat"
)

// MessageEvent 规范化后的聊天消息事件
type MessageEvent struct {
	Type           string                `json:"type"`
	ConversationID string                `json:"conversation_id"`
	MessageID      string                `json:"message_id"`
	Sender         int64                 `json:"sender"`
	SenderName     string                `json:"sender_name"`
	Receiver       int64                 `json:"receiver"`
	ReceiverName   string                `json:"receiver_name"`
	ShopID         int64                 `json:"shop_id"`
	Timestamp      int64                 `json:"timestamp"` // unix 秒
	Content        shopee.MessageContent `json:"content"`
}

// Update 会话索引的事件联合（tagged union），单写者逐条同步应用
type Update struct {
	Type string
	// new_message 时携带
	Message *MessageEvent
	// mark_as_read 时携带
	ConversationID string
}

// NewMessageUpdate 构造 new_message 事件
func NewMessageUpdate(ev *MessageEvent) Update {
	return Update{Type: TypeNewMessage, Message: ev}
}

// MarkAsReadUpdate 构造 mark_as_read 事件
func MarkAsReadUpdate(conversationID string) Update {
	return Update{Type: TypeMarkAsRead, ConversationID: conversationID}
}

// RefreshUpdate 构造 refresh 事件
func RefreshUpdate() Update {
	return Update{Type: TypeRefresh}
}
