package task

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopee_dash_v1_202608/internal/model"
	"shopee_dash_v1_202608/internal/repository"
	"shopee_dash_v1_202608/internal/service"
	"shopee_dash_v1_202608/pkg/shopee"
)

// ==================== 测试辅助 ====================

func setupTaskTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.ShopeeToken{}, &model.Order{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

// splitGateway 按店铺返回订单或注入故障
type splitGateway struct {
	orders  map[int64][]shopee.OrderDetail
	failFor map[int64]error
}

func (g *splitGateway) GetOrderList(ctx context.Context, cred *shopee.Credential, q *shopee.OrderListQuery) (*shopee.OrderListResult, error) {
	if err := g.failFor[cred.ShopID]; err != nil {
		return nil, err
	}
	all := g.orders[cred.ShopID]
	stubs := make([]shopee.OrderStub, len(all))
	for i, d := range all {
		stubs[i] = shopee.OrderStub{OrderSN: d.OrderSN, OrderStatus: d.OrderStatus}
	}
	return &shopee.OrderListResult{TotalCount: len(all), OrderList: stubs}, nil
}

func (g *splitGateway) GetOrderDetail(ctx context.Context, cred *shopee.Credential, orderSNs []string) ([]shopee.OrderDetail, error) {
	if err := g.failFor[cred.ShopID]; err != nil {
		return nil, err
	}
	return g.orders[cred.ShopID], nil
}

func seedTaskShop(t *testing.T, db *gorm.DB, shopID int64, name string) {
	shop := model.ShopeeToken{
		ShopID:      shopID,
		ShopName:    name,
		AccessToken: fmt.Sprintf("token-%d", shopID),
		ExpireAt:    time.Now().Add(time.Hour),
		IsActive:    true,
	}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("种店铺失败: %v", err)
	}
}

// ==================== 单元测试 ====================

func TestOrderSyncTask_PartialFailureIsolated(t *testing.T) {
	db := setupTaskTestDB(t)
	seedTaskShop(t, db, 1, "Toko Sehat")
	seedTaskShop(t, db, 2, "Toko Rusak")

	gw := &splitGateway{
		orders: map[int64][]shopee.OrderDetail{
			1: {{OrderSN: "SN-A", OrderStatus: "SHIPPED", CreateTime: 100, UpdateTime: 100}},
		},
		failFor: map[int64]error{2: errors.New("token expired")},
	}

	shopRepo := repository.NewShopRepository(db)
	orderSvc := service.NewOrderService(repository.NewOrderRepository(db), shopRepo, gw)

	task := NewOrderSyncTask(orderSvc, shopRepo)
	task.SetConcurrency(2, 0)

	summary, err := task.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce 失败: %v", err)
	}

	if got := summary["Toko Sehat (1)"]; got != ResultFulfilled {
		t.Errorf("店铺 1 结论 = %s, want %s", got, ResultFulfilled)
	}
	if got := summary["Toko Rusak (2)"]; got != ResultRejected {
		t.Errorf("店铺 2 结论 = %s, want %s", got, ResultRejected)
	}

	// 健康店铺的订单应已落库
	var count int64
	db.Model(&model.Order{}).Where("shop_id = ?", 1).Count(&count)
	if count != 1 {
		t.Errorf("店铺 1 订单数 = %d, want 1", count)
	}

	// 状态缓存应反映本轮结果
	status := LastStatus()
	if status == nil {
		t.Fatal("本轮结束后应有状态快照")
	}
	if status.Running {
		t.Error("结束后 Running 应为 false")
	}
	if len(status.Summary) != 2 {
		t.Errorf("状态快照内结论数 = %d, want 2", len(status.Summary))
	}
}

func TestOrderSyncTask_WindowIsTrailing24h(t *testing.T) {
	db := setupTaskTestDB(t)
	seedTaskShop(t, db, 1, "Toko Satu")

	var gotFrom, gotTo int64
	gw := &windowProbeGateway{onList: func(q *shopee.OrderListQuery) {
		gotFrom, gotTo = q.TimeFrom, q.TimeTo
	}}

	shopRepo := repository.NewShopRepository(db)
	orderSvc := service.NewOrderService(repository.NewOrderRepository(db), shopRepo, gw)
	task := NewOrderSyncTask(orderSvc, shopRepo)
	task.SetConcurrency(1, 0)

	before := time.Now().Unix()
	if _, err := task.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce 失败: %v", err)
	}
	after := time.Now().Unix()

	if gotTo < before || gotTo > after {
		t.Errorf("窗口终点 %d 不在 [%d, %d]", gotTo, before, after)
	}
	if gotTo-gotFrom != 24*3600 {
		t.Errorf("窗口宽度 = %d 秒, want 86400", gotTo-gotFrom)
	}
}

func TestOrderSyncTask_RejectsConcurrentRun(t *testing.T) {
	db := setupTaskTestDB(t)
	shopRepo := repository.NewShopRepository(db)
	orderSvc := service.NewOrderService(repository.NewOrderRepository(db), shopRepo, &splitGateway{})
	task := NewOrderSyncTask(orderSvc, shopRepo)

	task.mu.Lock()
	task.running = true
	task.mu.Unlock()

	if _, err := task.RunOnce(context.Background()); err == nil {
		t.Fatal("同步进行中应拒绝并发触发")
	}
}

// windowProbeGateway 记录列表页查询参数
type windowProbeGateway struct {
	onList func(q *shopee.OrderListQuery)
}

func (g *windowProbeGateway) GetOrderList(ctx context.Context, cred *shopee.Credential, q *shopee.OrderListQuery) (*shopee.OrderListResult, error) {
	if g.onList != nil {
		g.onList(q)
	}
	return &shopee.OrderListResult{}, nil
}

func (g *windowProbeGateway) GetOrderDetail(ctx context.Context, cred *shopee.Credential, orderSNs []string) ([]shopee.OrderDetail, error) {
	return nil, nil
}
