package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"shopee_dash_v1_202608/internal/model"
	"shopee_dash_v1_202608/internal/relay"
	"shopee_dash_v1_202608/internal/service"
	"shopee_dash_v1_202608/pkg/shopee"
)

// activeShopRepo 固定返回一家在售店铺
type activeShopRepo struct{}

func (activeShopRepo) GetByShopID(ctx context.Context, shopID int64) (*model.ShopeeToken, error) {
	return &model.ShopeeToken{ShopID: shopID, ShopName: "旗舰店", AccessToken: "token", IsActive: true}, nil
}
func (activeShopRepo) ListActive(ctx context.Context) ([]model.ShopeeToken, error) { return nil, nil }
func (activeShopRepo) FindExpiring(ctx context.Context, within time.Duration) ([]model.ShopeeToken, error) {
	return nil, nil
}
func (activeShopRepo) UpdateToken(ctx context.Context, shopID int64, accessToken, refreshToken string, expireAt time.Time) error {
	return nil
}
func (activeShopRepo) Save(ctx context.Context, shop *model.ShopeeToken) error { return nil }

// recordingChatGateway 记录最近一次拉取参数
type recordingChatGateway struct {
	gotConversationID string
	gotShopID         int64
	gotPageSize       int
}

func (g *recordingChatGateway) GetMessages(ctx context.Context, cred *shopee.Credential, conversationID string, offset string, pageSize int) (*shopee.MessagePageResult, error) {
	g.gotConversationID = conversationID
	g.gotShopID = cred.ShopID
	g.gotPageSize = pageSize
	return &shopee.MessagePageResult{
		Messages:   []shopee.MessageData{{MessageID: "m1", ConversationID: conversationID}},
		PageResult: shopee.PageResult{NextOffset: "off-7"},
	}, nil
}

func (g *recordingChatGateway) GetConversationList(ctx context.Context, cred *shopee.Credential) ([]shopee.ConversationData, error) {
	return nil, nil
}

func setupMsgRouter(gateway *recordingChatGateway) *gin.Engine {
	svc := service.NewChatService(activeShopRepo{}, gateway, relay.NewHub())
	ctl := NewMsgController(svc)

	r := gin.New()
	r.GET("/api/msg/get_message", ctl.GetMessage)
	return r
}

// 前端以驼峰传参（conversationId / shopId / pageSize），绑定必须照单全收
func TestGetMessage_CamelCaseQueryParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gateway := &recordingChatGateway{}
	r := setupMsgRouter(gateway)

	req := httptest.NewRequest(http.MethodGet,
		"/api/msg/get_message?conversationId=conv-1&shopId=123&pageSize=25", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if gateway.gotConversationID != "conv-1" || gateway.gotShopID != 123 || gateway.gotPageSize != 25 {
		t.Fatalf("透传参数不正确: conversation=%q shop=%d pageSize=%d",
			gateway.gotConversationID, gateway.gotShopID, gateway.gotPageSize)
	}
	if !strings.Contains(w.Body.String(), `"next_offset":"off-7"`) {
		t.Fatalf("响应应保留分页游标: %s", w.Body.String())
	}
}

func TestGetMessage_MissingParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := setupMsgRouter(&recordingChatGateway{})

	req := httptest.NewRequest(http.MethodGet, "/api/msg/get_message?shopId=123", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺 conversationId 应 400，实际 %d", w.Code)
	}
}
