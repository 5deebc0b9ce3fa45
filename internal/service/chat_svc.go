package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"shopee_dash_v1_202608/internal/api/dto"
	"shopee_dash_v1_202608/internal/relay"
	"shopee_dash_v1_202608/internal/repository"
	"shopee_dash_v1_202608/pkg/shopee"
)

// ==================== 依赖接口 ====================

// ChatGateway 聊天侧用到的 Shopee 接口
type ChatGateway interface {
	GetMessages(ctx context.Context, cred *shopee.Credential, conversationID string, offset string, pageSize int) (*shopee.MessagePageResult, error)
	GetConversationList(ctx context.Context, cred *shopee.Credential) ([]shopee.ConversationData, error)
}

// ==================== Webhook 载荷 ====================

// Shopee 推送 code 枚举（只消费聊天相关）
const (
	webhookCodeNewMessage = 10
	webhookCodeMarkRead   = 11
)

// WebhookPayload Shopee 消息推送外壳
type WebhookPayload struct {
	ShopID int64           `json:"shop_id"`
	Code   int             `json:"code"`
	Data   json.RawMessage `json:"data"`
}

// webhookMessage code=10 的 data 结构
type webhookMessage struct {
	Type    string `json:"type"`
	Content struct {
		MessageID        string                `json:"message_id"`
		ConversationID   string                `json:"conversation_id"`
		FromID           int64                 `json:"from_id"`
		FromUserName     string                `json:"from_user_name"`
		ToID             int64                 `json:"to_id"`
		ToUserName       string                `json:"to_user_name"`
		Content          shopee.MessageContent `json:"content"`
		CreatedTimestamp int64                 `json:"created_timestamp"`
	} `json:"content"`
}

// webhookMarkRead code=11 的 data 结构
type webhookMarkRead struct {
	ConversationID string `json:"conversation_id"`
}

// ==================== ChatService ====================

// ChatService 聊天服务：消息代理、会话列表、推送归一化
type ChatService struct {
	shopRepo repository.ShopRepository
	gateway  ChatGateway
	hub      *relay.Hub
}

// NewChatService 创建聊天服务
func NewChatService(shopRepo repository.ShopRepository, gateway ChatGateway, hub *relay.Hub) *ChatService {
	return &ChatService{shopRepo: shopRepo, gateway: gateway, hub: hub}
}

// ==================== 消息代理 ====================

// GetMessages 代理拉取会话消息，保持 Shopee 原始外层结构返回
func (s *ChatService) GetMessages(ctx context.Context, req *dto.GetMessagesRequest) (*dto.GetMessagesResponse, error) {
	cred, err := s.credential(ctx, req.ShopID)
	if err != nil {
		return nil, err
	}

	page, err := s.gateway.GetMessages(ctx, cred, req.ConversationID, req.Offset, req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("拉取消息失败: %w", err)
	}

	return &dto.GetMessagesResponse{
		Response: dto.MessagesPayload{
			Messages:   page.Messages,
			PageResult: dto.MessagesPageResult{NextOffset: page.PageResult.NextOffset},
		},
	}, nil
}

// ==================== 会话列表 ====================

// GetConversations 会话列表
// 索引已预热时直接返回内存快照；冷启动则逐店从 Shopee 拉全量并预热索引
func (s *ChatService) GetConversations(ctx context.Context, shopID int64) ([]relay.Conversation, error) {
	if s.hub.Index().Warm() {
		return s.filterByShop(s.hub.Index().Snapshot(), shopID), nil
	}

	shops, err := s.shopRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询店铺失败: %w", err)
	}

	var all []relay.Conversation
	for i := range shops {
		shop := &shops[i]
		cred := &shopee.Credential{ShopID: shop.ShopID, AccessToken: shop.AccessToken}
		list, err := s.gateway.GetConversationList(ctx, cred)
		if err != nil {
			// 单店失败不拖垮整张列表
			log.Printf("[Chat] 店铺 %d 会话列表拉取失败: %v", shop.ShopID, err)
			continue
		}
		for j := range list {
			all = append(all, toConversation(shop.ShopID, shop.ShopName, &list[j]))
		}
	}

	s.hub.Index().Seed(all)
	return s.filterByShop(all, shopID), nil
}

func (s *ChatService) filterByShop(list []relay.Conversation, shopID int64) []relay.Conversation {
	if shopID <= 0 {
		return list
	}
	out := make([]relay.Conversation, 0, len(list))
	for _, c := range list {
		if c.ShopID == shopID {
			out = append(out, c)
		}
	}
	return out
}

func toConversation(shopID int64, shopName string, d *shopee.ConversationData) relay.Conversation {
	return relay.Conversation{
		ConversationID:       d.ConversationID,
		ToID:                 d.ToID,
		ToName:               d.ToName,
		ToAvatar:             d.ToAvatar,
		ShopID:               shopID,
		ShopName:             shopName,
		LatestMessageContent: d.LatestMessageContent,
		LatestMessageFromID:  d.LatestMessageFromID,
		LatestMessageID:      d.LatestMessageID,
		LatestMessageType:    d.LatestMessageType,
		LastMessageTimestamp: d.LastMessageTimestamp,
		LastReadMessageID:    d.LastReadMessageID,
		UnreadCount:          d.UnreadCount,
		Pinned:               d.Pinned,
		Mute:                 d.Mute,
	}
}

// ==================== 推送归一化 ====================

// HandleWebhook 消费 Shopee 消息推送：归一化后经 Hub 广播给所有订阅端
// 不认识的 code 静默忽略
func (s *ChatService) HandleWebhook(payload *WebhookPayload) error {
	switch payload.Code {
	case webhookCodeNewMessage:
		var msg webhookMessage
		if err := json.Unmarshal(payload.Data, &msg); err != nil {
			return fmt.Errorf("解析消息推送失败: %w", err)
		}
		s.hub.Broadcast(relay.NewMessageUpdate(&relay.MessageEvent{
			Type:           relay.TypeNewMessage,
			ConversationID: msg.Content.ConversationID,
			MessageID:      msg.Content.MessageID,
			Sender:         msg.Content.FromID,
			SenderName:     msg.Content.FromUserName,
			Receiver:       msg.Content.ToID,
			ReceiverName:   msg.Content.ToUserName,
			ShopID:         payload.ShopID,
			Timestamp:      msg.Content.CreatedTimestamp,
			Content:        msg.Content.Content,
		}))
	case webhookCodeMarkRead:
		var mr webhookMarkRead
		if err := json.Unmarshal(payload.Data, &mr); err != nil {
			return fmt.Errorf("解析已读推送失败: %w", err)
		}
		s.hub.Broadcast(relay.MarkAsReadUpdate(mr.ConversationID))
	default:
		log.Printf("[Chat] 忽略未知推送 code=%d shop=%d", payload.Code, payload.ShopID)
	}
	return nil
}

func (s *ChatService) credential(ctx context.Context, shopID int64) (*shopee.Credential, error) {
	shop, err := s.shopRepo.GetByShopID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("查询店铺失败: %w", err)
	}
	if shop == nil || !shop.IsActive {
		return nil, fmt.Errorf("%w: shop_id=%d", ErrShopNotFound, shopID)
	}
	return &shopee.Credential{ShopID: shop.ShopID, AccessToken: shop.AccessToken}, nil
}
