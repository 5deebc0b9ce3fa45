package shopee

// ==========================================
// DTO: 接收 Shopee 开放平台 v2 返回的原始 JSON
// ==========================================

// OrderStatusAll 通配，表示不过滤订单状态
const OrderStatusAll = "ALL"

// 订单状态枚举（order.order_status）
const (
	OrderStatusUnpaid           = "UNPAID"
	OrderStatusProcessed        = "PROCESSED"
	OrderStatusShipped          = "SHIPPED"
	OrderStatusCompleted        = "COMPLETED"
	OrderStatusCancelled        = "CANCELLED"
	OrderStatusInCancel         = "IN_CANCEL"
	OrderStatusToConfirmReceive = "TO_CONFIRM_RECEIVE"
	OrderStatusToReturn         = "TO_RETURN"
)

// ValidOrderStatus 校验状态是否为合法枚举（含 ALL 通配）
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusAll, OrderStatusUnpaid, OrderStatusProcessed, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusInCancel,
		OrderStatusToConfirmReceive, OrderStatusToReturn:
		return true
	}
	return false
}

// envelope 统一响应包裹，所有 v2 接口共享 error/message 外壳
type envelope interface {
	apiError() string
	apiMessage() string
}

// baseResp 通用外壳字段
type baseResp struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func (r *baseResp) apiError() string   { return r.Error }
func (r *baseResp) apiMessage() string { return r.Message }

// ==================== 订单列表 ====================

// OrderListQuery 订单列表查询参数
type OrderListQuery struct {
	TimeRangeField string // create_time | update_time
	TimeFrom       int64  // unix 秒
	TimeTo         int64  // unix 秒
	OrderStatus    string // 枚举或 ALL
	Cursor         string // 空串表示第一页
	PageSize       int
}

func (q *OrderListQuery) pageSizeOrDefault() int {
	if q.PageSize <= 0 {
		return 100
	}
	return q.PageSize
}

// OrderListResult get_order_list 响应体
type OrderListResult struct {
	More       bool        `json:"more"`
	NextCursor string      `json:"next_cursor"`
	TotalCount int         `json:"total_count"`
	OrderList  []OrderStub `json:"order_list"`
}

// OrderStub 列表页里的订单摘要
type OrderStub struct {
	OrderSN     string `json:"order_sn"`
	OrderStatus string `json:"order_status"`
}

type orderListResp struct {
	baseResp
	Response OrderListResult `json:"response"`
}

// ==================== 订单明细 ====================

// OrderDetail get_order_detail 里的单个订单
type OrderDetail struct {
	OrderSN         string      `json:"order_sn"`
	OrderStatus     string      `json:"order_status"`
	CancelReason    string      `json:"cancel_reason"`
	BuyerUsername   string      `json:"buyer_username"`
	TotalAmount     float64     `json:"total_amount"`
	Currency        string      `json:"currency"`
	COD             bool        `json:"cod"`
	CreateTime      int64       `json:"create_time"`
	UpdateTime      int64       `json:"update_time"`
	ItemList        []OrderItem `json:"item_list"`
	PackageList     []Package   `json:"package_list"`
	ShippingCarrier string      `json:"shipping_carrier"`
}

// OrderItem 订单内单个 SKU 行
type OrderItem struct {
	ItemID     int64   `json:"item_id"`
	ItemName   string  `json:"item_name"`
	ItemSKU    string  `json:"item_sku"`
	ModelID    int64   `json:"model_id"`
	ModelName  string  `json:"model_name"`
	ModelSKU   string  `json:"model_sku"`
	ModelQty   int     `json:"model_quantity_purchased"`
	ModelPrice float64 `json:"model_discounted_price"`
}

// Package 包裹（含物流单号）
type Package struct {
	PackageNumber   string `json:"package_number"`
	ShippingCarrier string `json:"shipping_carrier"`
	TrackingNumber  string `json:"tracking_number"`
}

type orderDetailResp struct {
	baseResp
	Response struct {
		OrderList []OrderDetail `json:"order_list"`
	} `json:"response"`
}

// ==================== 商品 ====================

// ItemPageResult get_item_list 响应体
type ItemPageResult struct {
	Items       []ItemData `json:"items"`
	TotalCount  int        `json:"total"`
	HasNextPage bool       `json:"has_next_page"`
	NextOffset  int        `json:"next_offset"`
}

// ItemData 商品（含嵌套变体与型号）
type ItemData struct {
	ItemID            int64           `json:"item_id"`
	CategoryID        int64           `json:"category_id"`
	ItemName          string          `json:"item_name"`
	Description       string          `json:"description"`
	ItemSKU           string          `json:"item_sku"`
	CreateTime        int64           `json:"create_time"`
	UpdateTime        int64           `json:"update_time"`
	Weight            string          `json:"weight"`
	Image             ItemImage       `json:"image"`
	LogisticInfo      []LogisticInfo  `json:"logistic_info"`
	PreOrder          PreOrder        `json:"pre_order"`
	Condition         string          `json:"condition"`
	ItemStatus        string          `json:"item_status"`
	HasModel          bool            `json:"has_model"`
	Brand             Brand           `json:"brand"`
	ItemDangerous     int             `json:"item_dangerous"`
	DescriptionType   string          `json:"description_type"`
	SizeChartID       int64           `json:"size_chart_id"`
	AuthorisedBrandID int64           `json:"authorised_brand_id"`
	Models            []ItemModelData `json:"models"`
	Variations        []VariationData `json:"variations"`
}

// ItemImage 商品图集
type ItemImage struct {
	ImageIDList  []string `json:"image_id_list"`
	ImageURLList []string `json:"image_url_list"`
	ImageRatio   string   `json:"image_ratio"`
}

// LogisticInfo 物流渠道配置
type LogisticInfo struct {
	LogisticID   int64  `json:"logistic_id"`
	LogisticName string `json:"logistic_name"`
	Enabled      bool   `json:"enabled"`
	SizeID       int64  `json:"size_id"`
	IsFree       bool   `json:"is_free"`
}

// PreOrder 预售配置
type PreOrder struct {
	IsPreOrder bool `json:"is_pre_order"`
	DaysToShip int  `json:"days_to_ship"`
}

// Brand 品牌
type Brand struct {
	BrandID           int64  `json:"brand_id"`
	OriginalBrandName string `json:"original_brand_name"`
}

// ItemModelData 型号（价格/库存的最小粒度）
type ItemModelData struct {
	ModelID     int64  `json:"model_id"`
	ModelName   string `json:"model_name"`
	ModelStatus string `json:"model_status"`
	PriceInfo   struct {
		CurrentPrice  float64 `json:"current_price"`
		OriginalPrice float64 `json:"original_price"`
	} `json:"price_info"`
	StockInfo map[string]interface{} `json:"stock_info"`
}

// VariationData 变体维度（颜色/尺码等）
type VariationData struct {
	VariationID      int64  `json:"variation_id"`
	VariationName    string `json:"variation_name"`
	VariationGroupID *int64 `json:"variation_group_id"`
	OptionList       []struct {
		OptionID int64   `json:"variation_option_id"`
		Name     string  `json:"variation_option_name"`
		ImageURL *string `json:"image_url"`
	} `json:"variation_option_list"`
}

type itemPageResp struct {
	baseResp
	Response ItemPageResult `json:"response"`
}

// ==================== 聊天 ====================

// MessagePageResult get_message 响应体
type MessagePageResult struct {
	Messages   []MessageData `json:"messages"`
	PageResult PageResult    `json:"page_result"`
}

// PageResult 消息分页游标
type PageResult struct {
	NextOffset string `json:"next_offset"`
}

// MessageData 单条消息
type MessageData struct {
	MessageID        string         `json:"message_id"`
	ConversationID   string         `json:"conversation_id"`
	FromID           int64          `json:"from_id"`
	FromShopID       int64          `json:"from_shop_id"`
	ToID             int64          `json:"to_id"`
	MessageType      string         `json:"message_type"` // text | image
	Content          MessageContent `json:"content"`
	CreatedTimestamp int64          `json:"created_timestamp"`
}

// MessageContent 消息体（文本或图片）
type MessageContent struct {
	Text        string `json:"text,omitempty"`
	URL         string `json:"url,omitempty"`
	ThumbURL    string `json:"thumb_url,omitempty"`
	ThumbHeight int    `json:"thumb_height,omitempty"`
	ThumbWidth  int    `json:"thumb_width,omitempty"`
}

type messagePageResp struct {
	baseResp
	Response MessagePageResult `json:"response"`
}

// ConversationData 会话快照
type ConversationData struct {
	ConversationID       string          `json:"conversation_id"`
	ToID                 int64           `json:"to_id"`
	ToName               string          `json:"to_name"`
	ToAvatar             string          `json:"to_avatar"`
	ShopID               int64           `json:"shop_id"`
	UnreadCount          int             `json:"unread_count"`
	Pinned               bool            `json:"pinned"`
	Mute                 bool            `json:"mute"`
	LatestMessageID      string          `json:"latest_message_id"`
	LatestMessageType    string          `json:"latest_message_type"`
	LatestMessageContent *MessageContent `json:"latest_message_content"`
	LatestMessageFromID  int64           `json:"latest_message_from_id"`
	LastMessageTimestamp int64           `json:"last_message_timestamp"`
	LastReadMessageID    string          `json:"last_read_message_id"`
}

type conversationListResp struct {
	baseResp
	Response struct {
		Conversations []ConversationData `json:"conversations"`
	} `json:"response"`
}

// ==================== Token ====================

// TokenResult access_token/get 响应
type TokenResult struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpireIn     int64  `json:"expire_in"` // 秒
}
