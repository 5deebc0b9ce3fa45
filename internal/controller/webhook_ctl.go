package controller

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopee_dash_v1_202608/internal/relay"
	"shopee_dash_v1_202608/internal/service"
)

// 心跳间隔，防止中间层空闲断连
const heartbeatInterval = 30 * time.Second

// WebhookController 消息推送控制器：下行 SSE 流 + 上行 Shopee 推送入口
type WebhookController struct {
	hub        *relay.Hub
	chatSvc    *service.ChatService
	pushSecret string
}

// NewWebhookController 创建推送控制器
func NewWebhookController(hub *relay.Hub, chatSvc *service.ChatService, pushSecret string) *WebhookController {
	return &WebhookController{hub: hub, chatSvc: chatSvc, pushSecret: pushSecret}
}

// ==================== SSE 订阅流 ====================

// Stream 浏览器订阅消息流
// GET /api/webhook?connectionId=
// 建连即下发 connection_established（含 connectionId），此后转发广播帧并定时心跳
func (c *WebhookController) Stream(ctx *gin.Context) {
	connectionID, frames := c.hub.Subscribe(ctx.Query("connectionId"))
	defer c.hub.Unsubscribe(connectionID)

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")

	writeFrame(ctx, relay.Frame{
		Type:         relay.TypeConnectionEstablished,
		ConnectionID: connectionID,
	})

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				// 同一 connectionId 在别处重连，旧流让位
				return
			}
			writeFrame(ctx, frame)
		case <-ticker.C:
			writeFrame(ctx, relay.Frame{Type: relay.TypeHeartbeat})
		case <-ctx.Request.Context().Done():
			return
		}
	}
}

func writeFrame(ctx *gin.Context, frame relay.Frame) {
	ctx.Writer.Write([]byte("data: "))
	ctx.Writer.Write(frame.Encode())
	ctx.Writer.Write([]byte("\n\n"))
	ctx.Writer.Flush()
}

// ==================== Shopee 推送入口 ====================

// Ingest 接收 Shopee 开放平台消息推送
// POST /api/webhook
// 校验通过后归一化并广播；始终尽快回 200，避免平台重试风暴
func (c *WebhookController) Ingest(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "读取推送体失败"})
		return
	}

	if c.pushSecret != "" && !c.verifyPush(ctx, body) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "推送签名校验失败"})
		return
	}

	var payload service.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "推送体格式错误"})
		return
	}

	if err := c.chatSvc.HandleWebhook(&payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// verifyPush 校验推送签名：HMAC-SHA256(push_secret, url|body) 的 hex
func (c *WebhookController) verifyPush(ctx *gin.Context, body []byte) bool {
	sig := ctx.GetHeader("Authorization")
	if sig == "" {
		return false
	}

	base := ctx.Request.URL.String() + "|" + string(body)
	mac := hmac.New(sha256.New, []byte(c.pushSecret))
	mac.Write([]byte(base))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(sig), []byte(expected))
}
