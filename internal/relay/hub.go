package relay

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// ==================== Hub 推送中心 ====================

// 每个连接的发送缓冲大小；写满即丢帧（at-most-once，不阻塞广播方）
const connBufferSize = 64

// Frame 下发给订阅方的一帧（SSE data 载荷）
type Frame struct {
	Type         string      `json:"type"`
	ConnectionID string      `json:"connectionId,omitempty"`
	Data         interface{} `json:"data,omitempty"`
}

// Encode 序列化为 SSE data 行内容
func (f Frame) Encode() []byte {
	b, err := json.Marshal(f)
	if err != nil {
		log.Printf("[Relay] 帧序列化失败: %v", err)
		return []byte("{}")
	}
	return b
}

type connection struct {
	id string
	ch chan Frame
}

// Hub 维护所有订阅连接并向其广播事件
// 广播前先把事件应用到会话索引，保证快照与推送一致
type Hub struct {
	mu    sync.Mutex
	conns map[string]*connection
	index *ConversationIndex
}

// NewHub 创建推送中心
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*connection),
		index: NewConversationIndex(),
	}
}

// Index 暴露会话索引（供会话列表接口读取快照）
func (h *Hub) Index() *ConversationIndex {
	return h.index
}

// Subscribe 注册一个订阅连接
// connectionID 为空时分配新 ID；重连时带回旧 ID 复用同一标识
func (h *Hub) Subscribe(connectionID string) (string, <-chan Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if connectionID == "" {
		connectionID = uuid.New().String()
	}
	// 同一 ID 重连时顶掉旧通道
	if old, ok := h.conns[connectionID]; ok {
		close(old.ch)
	}

	c := &connection{id: connectionID, ch: make(chan Frame, connBufferSize)}
	h.conns[connectionID] = c
	log.Printf("[Relay] 连接建立: %s (在线 %d)", connectionID, len(h.conns))
	return connectionID, c.ch
}

// Unsubscribe 注销连接并关闭其通道
func (h *Hub) Unsubscribe(connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conns[connectionID]
	if !ok {
		return
	}
	delete(h.conns, connectionID)
	close(c.ch)
	log.Printf("[Relay] 连接断开: %s (在线 %d)", connectionID, len(h.conns))
}

// Broadcast 应用事件到会话索引后向所有连接扇出
// 单个连接缓冲写满时丢弃该帧，不回压
func (h *Hub) Broadcast(update Update) {
	h.index.Apply(update)

	frame := Frame{Type: update.Type}
	switch update.Type {
	case TypeNewMessage:
		frame.Data = update.Message
	case TypeMarkAsRead:
		frame.Data = map[string]string{"conversation_id": update.ConversationID}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.conns {
		select {
		case c.ch <- frame:
		default:
			log.Printf("[Relay] 连接 %s 缓冲已满，丢弃 %s 帧", c.id, update.Type)
		}
	}
}

// ConnectionCount 当前在线连接数
func (h *Hub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
