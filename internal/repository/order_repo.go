package repository

import (
	"context"
	"errors"
	"strings"

	"shopee_dash_v1_202608/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== 过滤条件 ====================

// OrderFilter 订单过滤条件
type OrderFilter struct {
	ShopIDs     []int64
	OrderStatus string
	// unix 秒，按 create_time 过滤；0 表示不限
	StartTime int64
	EndTime   int64
	Page      int
	PageSize  int
}

// OrderSearch 精确检索参数（三选一）
type OrderSearch struct {
	OrderSN        string
	BuyerUsername  string
	TrackingNumber string
}

// ==================== OrderRepository 订单仓库 ====================

// OrderRepository 订单仓库接口
type OrderRepository interface {
	// UpsertBatch 以 order_sn 为冲突键整行覆盖；幂等
	UpsertBatch(ctx context.Context, orders []model.Order) error
	GetByOrderSN(ctx context.Context, orderSN string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	Search(ctx context.Context, search OrderSearch) ([]model.Order, error)
	CountByShop(ctx context.Context, shopID int64) (int64, error)
	StatusCounts(ctx context.Context, filter OrderFilter) (*model.OrderStats, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) UpsertBatch(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_sn"}},
			UpdateAll: true,
		}).
		CreateInBatches(orders, 100).Error
}

func (r *orderRepository) GetByOrderSN(ctx context.Context, orderSN string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("order_sn = ?", orderSN).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := r.applyFilter(r.db.WithContext(ctx).Model(&model.Order{}), filter)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	err := db.
		Order("create_time DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) Search(ctx context.Context, search OrderSearch) ([]model.Order, error) {
	var orders []model.Order
	db := r.db.WithContext(ctx).Model(&model.Order{})

	// 任一字段命中即算命中
	var (
		conds []string
		args  []interface{}
	)
	if search.OrderSN != "" {
		conds = append(conds, "order_sn LIKE ?")
		args = append(args, "%"+search.OrderSN+"%")
	}
	if search.BuyerUsername != "" {
		conds = append(conds, "buyer_username LIKE ?")
		args = append(args, "%"+search.BuyerUsername+"%")
	}
	if search.TrackingNumber != "" {
		conds = append(conds, "tracking_number LIKE ?")
		args = append(args, "%"+search.TrackingNumber+"%")
	}
	if len(conds) == 0 {
		return nil, nil
	}
	db = db.Where(strings.Join(conds, " OR "), args...)

	err := db.Order("create_time DESC").Limit(200).Find(&orders).Error
	return orders, err
}

func (r *orderRepository) CountByShop(ctx context.Context, shopID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("shop_id = ?", shopID).
		Count(&count).Error
	return count, err
}

func (r *orderRepository) StatusCounts(ctx context.Context, filter OrderFilter) (*model.OrderStats, error) {
	type row struct {
		OrderStatus  string
		CancelReason string
		Count        int64
	}
	var rows []row

	db := r.applyFilter(r.db.WithContext(ctx).Model(&model.Order{}), filter)
	err := db.
		Select("order_status, cancel_reason, COUNT(*) as count").
		Group("order_status, cancel_reason").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &model.OrderStats{}
	for _, rw := range rows {
		// COD 派送失败单独归档，不计入其他桶
		if rw.CancelReason == model.CancelReasonFailedDelivery {
			stats.Failed += rw.Count
			continue
		}
		switch rw.OrderStatus {
		case model.OrderStatusUnpaid:
			stats.Pending += rw.Count
		case model.OrderStatusProcessed:
			stats.Process += rw.Count
			stats.Total += rw.Count
		case model.OrderStatusShipped:
			stats.Shipping += rw.Count
			stats.Total += rw.Count
		case model.OrderStatusCompleted, model.OrderStatusInCancel, model.OrderStatusToConfirmReceive:
			stats.Total += rw.Count
		case model.OrderStatusCancelled:
			stats.Cancel += rw.Count
		}
	}
	return stats, nil
}

func (r *orderRepository) applyFilter(db *gorm.DB, filter OrderFilter) *gorm.DB {
	if len(filter.ShopIDs) > 0 {
		db = db.Where("shop_id IN ?", filter.ShopIDs)
	}
	if filter.OrderStatus != "" {
		db = db.Where("order_status = ?", filter.OrderStatus)
	}
	if filter.StartTime > 0 {
		db = db.Where("create_time >= ?", filter.StartTime)
	}
	if filter.EndTime > 0 {
		db = db.Where("create_time <= ?", filter.EndTime)
	}
	return db
}
