package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"shopee_dash_v1_202608/internal/api/dto"
	"shopee_dash_v1_202608/internal/model"
	"shopee_dash_v1_202608/internal/repository"
	"shopee_dash_v1_202608/pkg/shopee"

	"gorm.io/datatypes"
)

// ==================== 依赖接口 ====================

// OrderGateway 订单侧用到的 Shopee 接口，*shopee.Client 即默认实现
type OrderGateway interface {
	shopee.OrderLister
	GetOrderDetail(ctx context.Context, cred *shopee.Credential, orderSNs []string) ([]shopee.OrderDetail, error)
}

// ==================== 错误 ====================

var (
	// ErrShopNotFound 店铺不存在或未激活
	ErrShopNotFound = errors.New("店铺不存在或未激活")
	// ErrKeywordTooShort 搜索关键词不足 4 个字符
	ErrKeywordTooShort = errors.New("搜索关键词至少 4 个字符")
	// ErrInvalidSyncWindow 同步时间窗参数非法
	ErrInvalidSyncWindow = errors.New("同步时间窗参数非法")
)

// ==================== SyncOptions ====================

// 时间窗字段枚举
const (
	TimeRangeCreate = "create_time"
	TimeRangeUpdate = "update_time"
)

// SyncOptions 单店订单同步参数
type SyncOptions struct {
	TimeRangeField string // create_time | update_time，空取 create_time
	StartTime      int64  // unix 秒
	EndTime        int64  // unix 秒
	OrderStatus    string // 枚举或 ALL，空取 ALL

	// OnProgress 每批落库后回调累计进度；current 单调不减，结束时 current == total
	OnProgress func(current, total int)
	// OnError 单页/单批失败时回调；同步本身随 error 返回中止
	OnError func(err error)
}

func (o *SyncOptions) normalize() error {
	if o.TimeRangeField == "" {
		o.TimeRangeField = TimeRangeCreate
	}
	if o.TimeRangeField != TimeRangeCreate && o.TimeRangeField != TimeRangeUpdate {
		return fmt.Errorf("%w: time_range_field=%s", ErrInvalidSyncWindow, o.TimeRangeField)
	}
	if o.OrderStatus == "" {
		o.OrderStatus = shopee.OrderStatusAll
	}
	if !shopee.ValidOrderStatus(o.OrderStatus) {
		return fmt.Errorf("%w: order_status=%s", ErrInvalidSyncWindow, o.OrderStatus)
	}
	if o.StartTime <= 0 || o.EndTime <= 0 || o.StartTime > o.EndTime {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidSyncWindow, o.StartTime, o.EndTime)
	}
	return nil
}

// ==================== OrderService ====================

// 明细批大小，get_order_detail 单次上限 50
const detailBatchSize = 50

// OrderService 订单服务
type OrderService struct {
	orderRepo repository.OrderRepository
	shopRepo  repository.ShopRepository
	gateway   OrderGateway
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	shopRepo repository.ShopRepository,
	gateway OrderGateway,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		shopRepo:  shopRepo,
		gateway:   gateway,
	}
}

// ==================== 订单同步 ====================

// SyncOrders 按时间窗同步单店订单：列表页游标翻页，逐批拉明细后幂等落库
// 返回实际处理的订单数
func (s *OrderService) SyncOrders(ctx context.Context, shopID int64, opts SyncOptions) (int, error) {
	if err := opts.normalize(); err != nil {
		return 0, err
	}

	shop, err := s.shopRepo.GetByShopID(ctx, shopID)
	if err != nil {
		return 0, fmt.Errorf("查询店铺失败: %w", err)
	}
	if shop == nil || !shop.IsActive {
		return 0, fmt.Errorf("%w: shop_id=%d", ErrShopNotFound, shopID)
	}

	cred := &shopee.Credential{ShopID: shop.ShopID, AccessToken: shop.AccessToken}
	pager := shopee.NewOrderPager(s.gateway, cred, &shopee.OrderListQuery{
		TimeRangeField: opts.TimeRangeField,
		TimeFrom:       opts.StartTime,
		TimeTo:         opts.EndTime,
		OrderStatus:    opts.OrderStatus,
	})

	processed := 0
	total := 0
	for {
		page, err := pager.Next(ctx)
		if err != nil {
			s.reportError(opts, err)
			return processed, fmt.Errorf("拉取订单列表失败: %w", err)
		}
		if page == nil {
			break
		}
		if page.Total > total {
			total = page.Total
		}

		sns := make([]string, len(page.Orders))
		for i, stub := range page.Orders {
			sns[i] = stub.OrderSN
		}

		for start := 0; start < len(sns); start += detailBatchSize {
			end := start + detailBatchSize
			if end > len(sns) {
				end = len(sns)
			}

			details, err := s.gateway.GetOrderDetail(ctx, cred, sns[start:end])
			if err != nil {
				s.reportError(opts, err)
				return processed, fmt.Errorf("拉取订单明细失败: %w", err)
			}

			orders := make([]model.Order, 0, len(details))
			for i := range details {
				orders = append(orders, buildOrder(shop.ShopID, &details[i]))
			}
			if err := s.orderRepo.UpsertBatch(ctx, orders); err != nil {
				s.reportError(opts, err)
				return processed, fmt.Errorf("订单落库失败: %w", err)
			}

			processed += len(orders)
			if opts.OnProgress != nil {
				reportTotal := total
				if reportTotal < processed {
					reportTotal = processed
				}
				opts.OnProgress(processed, reportTotal)
			}
		}
	}

	if pager.Stalled() {
		log.Printf("[OrderSync] 店铺 %d 游标停滞，窗口 [%d, %d] 提前终止，已处理 %d 单",
			shopID, opts.StartTime, opts.EndTime, processed)
	}

	// 空窗口也要给出一次终态进度
	if opts.OnProgress != nil && processed == 0 {
		opts.OnProgress(0, 0)
	} else if opts.OnProgress != nil && processed != total {
		opts.OnProgress(processed, processed)
	}

	return processed, nil
}

func (s *OrderService) reportError(opts SyncOptions, err error) {
	if opts.OnError != nil {
		opts.OnError(err)
	}
}

// buildOrder 把 Shopee 明细压平成本地订单行，原始明细整体留存 JSONB
func buildOrder(shopID int64, d *shopee.OrderDetail) model.Order {
	skuQty := 0
	for _, item := range d.ItemList {
		skuQty += item.ModelQty
	}

	trackingNumber := ""
	carrier := d.ShippingCarrier
	if len(d.PackageList) > 0 {
		trackingNumber = d.PackageList[0].TrackingNumber
		if carrier == "" {
			carrier = d.PackageList[0].ShippingCarrier
		}
	}

	raw, _ := json.Marshal(d)
	now := time.Now()

	return model.Order{
		OrderSN:         d.OrderSN,
		ShopID:          shopID,
		OrderStatus:     d.OrderStatus,
		CancelReason:    d.CancelReason,
		BuyerUsername:   d.BuyerUsername,
		TotalAmount:     d.TotalAmount,
		Currency:        d.Currency,
		SkuQty:          skuQty,
		TrackingNumber:  trackingNumber,
		ShippingCarrier: carrier,
		COD:             d.COD,
		CreateTime:      d.CreateTime,
		UpdateTime:      d.UpdateTime,
		RawData:         datatypes.JSON(raw),
		SyncedAt:        &now,
	}
}

// ==================== 查询 ====================

// ListOrders 本地订单列表
func (s *OrderService) ListOrders(ctx context.Context, req *dto.ListOrdersRequest) (*dto.ListOrdersResponse, error) {
	filter := repository.OrderFilter{
		OrderStatus: req.Status,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
	if req.ShopID > 0 {
		filter.ShopIDs = []int64{req.ShopID}
	}

	orders, totalCount, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("查询订单列表失败: %w", err)
	}

	return &dto.ListOrdersResponse{
		Total: totalCount,
		List:  toOrderListItems(orders),
	}, nil
}

// SearchOrders 按订单号/买家名/运单号模糊检索；关键词不足 4 字符直接拒绝，不触库
func (s *OrderService) SearchOrders(ctx context.Context, keyword string) (*dto.SearchOrdersResponse, error) {
	// 按字符数而非字节数计，中文等多字节关键词同样要满 4 个字符
	if utf8.RuneCountInString(keyword) < 4 {
		return nil, ErrKeywordTooShort
	}

	orders, err := s.orderRepo.Search(ctx, repository.OrderSearch{
		OrderSN:        keyword,
		BuyerUsername:  keyword,
		TrackingNumber: keyword,
	})
	if err != nil {
		return nil, fmt.Errorf("搜索订单失败: %w", err)
	}

	return &dto.SearchOrdersResponse{
		Total: len(orders),
		List:  toOrderListItems(orders),
	}, nil
}

// GetStats 状态桶统计
func (s *OrderService) GetStats(ctx context.Context, shopID int64) (*dto.OrderStatsResponse, error) {
	filter := repository.OrderFilter{}
	if shopID > 0 {
		filter.ShopIDs = []int64{shopID}
	}
	stats, err := s.orderRepo.StatusCounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("统计订单失败: %w", err)
	}
	return &dto.OrderStatsResponse{
		Total:    stats.Total,
		Pending:  stats.Pending,
		Process:  stats.Process,
		Shipping: stats.Shipping,
		Cancel:   stats.Cancel,
		Failed:   stats.Failed,
	}, nil
}

func toOrderListItems(orders []model.Order) []dto.OrderListItem {
	list := make([]dto.OrderListItem, len(orders))
	for i, o := range orders {
		syncedAt := time.Time{}
		if o.SyncedAt != nil {
			syncedAt = *o.SyncedAt
		}
		list[i] = dto.OrderListItem{
			ID:              o.ID,
			OrderSN:         o.OrderSN,
			ShopID:          o.ShopID,
			OrderStatus:     o.OrderStatus,
			CancelReason:    o.CancelReason,
			BuyerUsername:   o.BuyerUsername,
			TotalAmount:     o.TotalAmount,
			Currency:        o.Currency,
			SkuQty:          o.SkuQty,
			TrackingNumber:  o.TrackingNumber,
			ShippingCarrier: o.ShippingCarrier,
			COD:             o.COD,
			CreateTime:      o.CreateTime,
			UpdateTime:      o.UpdateTime,
			SyncedAt:        syncedAt,
		}
	}
	return list
}
