package shopee

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// 默认生产环境网关；测试时通过 Config.BaseURL 指向 httptest
const DefaultBaseURL = "https://partner.shopeemobile.com"

// ==================== 配置与凭证 ====================

// Config 客户端配置
type Config struct {
	BaseURL    string
	PartnerID  int64
	PartnerKey string
	Timeout    time.Duration
}

// Credential 店铺级调用凭证（来自 shopee_tokens 表）
type Credential struct {
	ShopID      int64
	AccessToken string
}

// ==================== Client ====================

// Client Shopee 开放平台 v2 客户端
// 所有请求统一经过 partner 签名：HMAC-SHA256(partner_key,
// partner_id + path + timestamp + access_token + shop_id)
type Client struct {
	http       *resty.Client
	partnerID  int64
	partnerKey string
	// 可注入的时钟，测试时固定时间戳
	now func() time.Time
}

// NewClient 创建客户端
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		// 拉取订单明细可能比较慢，给 20s
		timeout = 20 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "Shopee-Go-Dash/1.0")

	return &Client{
		http:       httpClient,
		partnerID:  cfg.PartnerID,
		partnerKey: cfg.PartnerKey,
		now:        time.Now,
	}
}

// Sign 计算店铺级接口签名
func (c *Client) Sign(path string, timestamp int64, accessToken string, shopID int64) string {
	baseString := fmt.Sprintf("%d%s%d%s%d", c.partnerID, path, timestamp, accessToken, shopID)
	mac := hmac.New(sha256.New, []byte(c.partnerKey))
	mac.Write([]byte(baseString))
	return hex.EncodeToString(mac.Sum(nil))
}

// newRequest 构建带公共签名参数的请求
func (c *Client) newRequest(ctx context.Context, path string, cred *Credential) *resty.Request {
	ts := c.now().Unix()
	req := c.http.R().SetContext(ctx).
		SetQueryParam("partner_id", strconv.FormatInt(c.partnerID, 10)).
		SetQueryParam("timestamp", strconv.FormatInt(ts, 10))

	if cred != nil {
		req.SetQueryParam("access_token", cred.AccessToken).
			SetQueryParam("shop_id", strconv.FormatInt(cred.ShopID, 10)).
			SetQueryParam("sign", c.Sign(path, ts, cred.AccessToken, cred.ShopID))
	} else {
		// 公共接口（token 刷新）只签 partner_id + path + timestamp
		req.SetQueryParam("sign", c.Sign(path, ts, "", 0))
	}
	return req
}

// get 发送 GET 请求并解析统一响应包裹
func (c *Client) get(ctx context.Context, path string, cred *Credential, params map[string]string, out envelope) error {
	resp, err := c.newRequest(ctx, path, cred).
		SetQueryParams(params).
		SetResult(out).
		Get(path)
	if err != nil {
		return fmt.Errorf("请求 Shopee API 失败: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("Shopee API HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	if apiErr := out.apiError(); apiErr != "" {
		return fmt.Errorf("Shopee API 错误 [%s]: %s", apiErr, out.apiMessage())
	}
	return nil
}

// ==================== 订单 ====================

// GetOrderList 获取时间窗口内的一页订单号
// GET /api/v2/order/get_order_list
func (c *Client) GetOrderList(ctx context.Context, cred *Credential, q *OrderListQuery) (*OrderListResult, error) {
	params := map[string]string{
		"time_range_field": q.TimeRangeField,
		"time_from":        strconv.FormatInt(q.TimeFrom, 10),
		"time_to":          strconv.FormatInt(q.TimeTo, 10),
		"page_size":        strconv.Itoa(q.pageSizeOrDefault()),
	}
	if q.Cursor != "" {
		params["cursor"] = q.Cursor
	}
	// ALL 时不传 order_status，Shopee 默认返回全部状态
	if q.OrderStatus != "" && q.OrderStatus != OrderStatusAll {
		params["order_status"] = q.OrderStatus
	}

	var resp orderListResp
	if err := c.get(ctx, "/api/v2/order/get_order_list", cred, params, &resp); err != nil {
		return nil, err
	}
	return &resp.Response, nil
}

// GetOrderDetail 批量获取订单明细（一次最多 50 单）
// GET /api/v2/order/get_order_detail
func (c *Client) GetOrderDetail(ctx context.Context, cred *Credential, orderSNs []string) ([]OrderDetail, error) {
	if len(orderSNs) == 0 {
		return nil, nil
	}

	var all []OrderDetail
	for start := 0; start < len(orderSNs); start += 50 {
		end := start + 50
		if end > len(orderSNs) {
			end = len(orderSNs)
		}

		params := map[string]string{
			"order_sn_list": joinSNs(orderSNs[start:end]),
			"response_optional_fields": "buyer_username,total_amount,item_list," +
				"package_list,cancel_reason,create_time,update_time,cod,order_status",
		}

		var resp orderDetailResp
		if err := c.get(ctx, "/api/v2/order/get_order_detail", cred, params, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Response.OrderList...)
	}
	return all, nil
}

// ==================== 商品 ====================

// GetItemPage 获取一页商品（含变体与型号）
// GET /api/v2/product/get_item_list
func (c *Client) GetItemPage(ctx context.Context, cred *Credential, offset, pageSize int) (*ItemPageResult, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	params := map[string]string{
		"offset":      strconv.Itoa(offset),
		"page_size":   strconv.Itoa(pageSize),
		"item_status": "NORMAL",
	}

	var resp itemPageResp
	if err := c.get(ctx, "/api/v2/product/get_item_list", cred, params, &resp); err != nil {
		return nil, err
	}
	return &resp.Response, nil
}

// ==================== 聊天 ====================

// GetMessages 拉取会话消息页
// GET /api/v2/sellerchat/get_message
func (c *Client) GetMessages(ctx context.Context, cred *Credential, conversationID string, offset string, pageSize int) (*MessagePageResult, error) {
	if pageSize <= 0 {
		pageSize = 25
	}
	params := map[string]string{
		"conversation_id": conversationID,
		"page_size":       strconv.Itoa(pageSize),
	}
	if offset != "" {
		params["offset"] = offset
	}

	var resp messagePageResp
	if err := c.get(ctx, "/api/v2/sellerchat/get_message", cred, params, &resp); err != nil {
		return nil, err
	}
	return &resp.Response, nil
}

// GetConversationList 拉取店铺会话列表
// GET /api/v2/sellerchat/get_conversation_list
func (c *Client) GetConversationList(ctx context.Context, cred *Credential) ([]ConversationData, error) {
	params := map[string]string{
		"direction": "latest",
		"type":      "all",
	}

	var resp conversationListResp
	if err := c.get(ctx, "/api/v2/sellerchat/get_conversation_list", cred, params, &resp); err != nil {
		return nil, err
	}
	return resp.Response.Conversations, nil
}

// ==================== Token ====================

// RefreshAccessToken 用 refresh_token 换新 access_token
// POST /api/v2/auth/access_token/get
func (c *Client) RefreshAccessToken(ctx context.Context, shopID int64, refreshToken string) (*TokenResult, error) {
	path := "/api/v2/auth/access_token/get"

	var result TokenResult
	resp, err := c.newRequest(ctx, path, nil).
		SetBody(map[string]interface{}{
			"shop_id":       shopID,
			"refresh_token": refreshToken,
			"partner_id":    c.partnerID,
		}).
		SetResult(&result).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("刷新 token 失败: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("刷新 token 失败 HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	if result.Error != "" {
		return nil, fmt.Errorf("刷新 token 失败 [%s]: %s", result.Error, result.Message)
	}
	return &result, nil
}

// ==================== 辅助 ====================

func joinSNs(sns []string) string {
	out := ""
	for i, sn := range sns {
		if i > 0 {
			out += ","
		}
		out += sn
	}
	return out
}
