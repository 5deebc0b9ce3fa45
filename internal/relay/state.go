package relay

import (
	"sync"

	"shopee_dash_v1_202608/pkg/shopee"
)

// ==================== Conversation 会话快照 ====================

// Conversation 内存中的会话条目，字段与前端会话列表接口一致
type Conversation struct {
	ConversationID       string                 `json:"conversation_id"`
	ToID                 int64                  `json:"to_id"`
	ToName               string                 `json:"to_name"`
	ToAvatar             string                 `json:"to_avatar"`
	ShopID               int64                  `json:"shop_id"`
	ShopName             string                 `json:"shop_name"`
	LatestMessageContent *shopee.MessageContent `json:"latest_message_content"`
	LatestMessageFromID  int64                  `json:"latest_message_from_id"`
	LatestMessageID      string                 `json:"latest_message_id"`
	LatestMessageType    string                 `json:"latest_message_type"`
	LastMessageTimestamp int64                  `json:"last_message_timestamp"`
	LastReadMessageID    string                 `json:"last_read_message_id"`
	UnreadCount          int                    `json:"unread_count"`
	Pinned               bool                   `json:"pinned"`
	Mute                 bool                   `json:"mute"`
}

// ==================== ConversationIndex 会话索引 ====================

// ConversationIndex 有序会话索引（队首为最新）
// 所有变更经 Apply 串行进入；读取方只拿快照副本
type ConversationIndex struct {
	mu            sync.Mutex
	conversations []Conversation
	warm          bool
}

// NewConversationIndex 创建空索引
func NewConversationIndex() *ConversationIndex {
	return &ConversationIndex{}
}

// Seed 用全量拉取结果重置索引
func (idx *ConversationIndex) Seed(conversations []Conversation) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.conversations = append([]Conversation(nil), conversations...)
	idx.warm = true
}

// Warm 索引是否已加载过全量数据
func (idx *ConversationIndex) Warm() bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.warm
}

// Snapshot 返回当前会话列表的副本
func (idx *ConversationIndex) Snapshot() []Conversation {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	out := make([]Conversation, len(idx.conversations))
	copy(out, idx.conversations)
	return out
}

// Apply 应用一条事件
//   - new_message: 已存在则移到队首、覆盖最新消息字段、unread_count+1；
//     不存在则合成新会话，unread_count=1
//   - mark_as_read: 匹配会话 unread_count 清零；不存在则 no-op
//   - refresh: 丢弃本地状态，订阅方需重新全量拉取
func (idx *ConversationIndex) Apply(update Update) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	switch update.Type {
	case TypeNewMessage:
		idx.applyNewMessage(update.Message)
	case TypeMarkAsRead:
		for i := range idx.conversations {
			if idx.conversations[i].ConversationID == update.ConversationID {
				idx.conversations[i].UnreadCount = 0
				break
			}
		}
	case TypeRefresh:
		idx.conversations = nil
		idx.warm = false
	}
}

func (idx *ConversationIndex) applyNewMessage(msg *MessageEvent) {
	if msg == nil {
		return
	}

	// 店铺名取消息里店铺一侧的名字
	shopName := msg.SenderName
	if msg.ShopID == msg.Receiver {
		shopName = msg.ReceiverName
	}

	content := msg.Content

	for i := range idx.conversations {
		if idx.conversations[i].ConversationID != msg.ConversationID {
			continue
		}

		conv := idx.conversations[i]
		conv.ShopName = shopName
		conv.LatestMessageContent = &content
		conv.LatestMessageID = msg.MessageID
		conv.LastReadMessageID = msg.MessageID
		conv.LatestMessageFromID = msg.Sender
		conv.LastMessageTimestamp = msg.Timestamp * 1000000
		conv.UnreadCount++

		// 移到队首
		idx.conversations = append(idx.conversations[:i], idx.conversations[i+1:]...)
		idx.conversations = append([]Conversation{conv}, idx.conversations...)
		return
	}

	// 未见过的会话，合成新条目
	toID := msg.Sender
	toName := msg.SenderName
	if msg.Sender == msg.ShopID {
		toID = msg.Receiver
		toName = msg.ReceiverName
	}

	conv := Conversation{
		ConversationID:       msg.ConversationID,
		ToID:                 toID,
		ToName:               toName,
		ShopID:               msg.ShopID,
		ShopName:             shopName,
		LatestMessageContent: &content,
		LatestMessageID:      msg.MessageID,
		LastReadMessageID:    msg.MessageID,
		LatestMessageFromID:  msg.Sender,
		LastMessageTimestamp: msg.Timestamp * 1000000,
		LatestMessageType:    "text",
		UnreadCount:          1,
	}
	idx.conversations = append([]Conversation{conv}, idx.conversations...)
}

// Len 当前会话数
func (idx *ConversationIndex) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.conversations)
}
