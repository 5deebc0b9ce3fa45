package service

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
	"shopee_dash_v1_202608/pkg/shopee"
)

// ==================== 测试辅助 ====================

func setupOrderTestDB(t *testing.T) *gorm.DB {
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

func seedShop(t *testing.T, db *gorm.DB, shopID int64, name string, active bool) {
	shop := model.ShopeeToken{
		ShopID:      shopID,
		ShopName:    name,
		AccessToken: fmt.Sprintf("token-%d", shopID),
		ExpireAt:    time.Now().Add(4 * time.Hour),
		IsActive:    active,
	}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("种店铺失败: %v", err)
	}
}

// fakeOrderGateway 内存版订单接口：按店铺返回预置订单，可注入故障
type fakeOrderGateway struct {
	orders   map[int64][]shopee.OrderDetail // shopID -> 全量订单
	pageSize int
	failFor  map[int64]error // shopID -> 注入的错误
}

func newFakeOrderGateway() *fakeOrderGateway {
	return &fakeOrderGateway{
		orders:   make(map[int64][]shopee.OrderDetail),
		pageSize: 2,
		failFor:  make(map[int64]error),
	}
}

func (g *fakeOrderGateway) GetOrderList(ctx context.Context, cred *shopee.Credential, q *shopee.OrderListQuery) (*shopee.OrderListResult, error) {
	if err := g.failFor[cred.ShopID]; err != nil {
		return nil, err
	}

	all := g.orders[cred.ShopID]
	start := 0
	if q.Cursor != "" {
		fmt.Sscanf(q.Cursor, "%d", &start)
	}
	end := start + g.pageSize
	if end > len(all) {
		end = len(all)
	}

	stubs := make([]shopee.OrderStub, 0, end-start)
	for _, d := range all[start:end] {
		stubs = append(stubs, shopee.OrderStub{OrderSN: d.OrderSN, OrderStatus: d.OrderStatus})
	}

	result := &shopee.OrderListResult{
		TotalCount: len(all),
		OrderList:  stubs,
	}
	if end < len(all) {
		result.More = true
		result.NextCursor = fmt.Sprintf("%d", end)
	}
	return result, nil
}

func (g *fakeOrderGateway) GetOrderDetail(ctx context.Context, cred *shopee.Credential, orderSNs []string) ([]shopee.OrderDetail, error) {
	if err := g.failFor[cred.ShopID]; err != nil {
		return nil, err
	}
	bySN := make(map[string]shopee.OrderDetail)
	for _, d := range g.orders[cred.ShopID] {
		bySN[d.OrderSN] = d
	}
	out := make([]shopee.OrderDetail, 0, len(orderSNs))
	for _, sn := range orderSNs {
		if d, ok := bySN[sn]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func sampleOrder(sn, status string) shopee.OrderDetail {
	return shopee.OrderDetail{
		OrderSN:       sn,
		OrderStatus:   status,
		BuyerUsername: "buyer_" + sn,
		TotalAmount:   99.5,
		Currency:      "IDR",
		CreateTime:    1700000000,
		UpdateTime:    1700000100,
		ItemList:      []shopee.OrderItem{{ItemID: 1, ModelQty: 2}},
		PackageList:   []shopee.Package{{TrackingNumber: "TRK" + sn, ShippingCarrier: "JNE"}},
	}
}

func newTestOrderService(db *gorm.DB, gw OrderGateway) *OrderService {
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewShopRepository(db),
		gw,
	)
}

// ==================== 同步测试 ====================

func TestSyncOrders_ProgressMonotonic(t *testing.T) {
	db := setupOrderTestDB(t)
	seedShop(t, db, 1, "Toko Satu", true)

	gw := newFakeOrderGateway()
	for i := 0; i < 5; i++ {
		gw.orders[1] = append(gw.orders[1], sampleOrder(fmt.Sprintf("SN%03d", i), "SHIPPED"))
	}

	svc := newTestOrderService(db, gw)

	var progress [][2]int
	count, err := svc.SyncOrders(context.Background(), 1, SyncOptions{
		StartTime: 1699990000,
		EndTime:   1700001000,
		OnProgress: func(current, total int) {
			progress = append(progress, [2]int{current, total})
		},
	})
	if err != nil {
		t.Fatalf("同步失败: %v", err)
	}
	if count != 5 {
		t.Errorf("处理数 = %d, want 5", count)
	}

	if len(progress) == 0 {
		t.Fatal("未收到进度回调")
	}
	prev := 0
	for _, p := range progress {
		if p[0] < prev {
			t.Errorf("进度回退: %v", progress)
		}
		prev = p[0]
	}
	last := progress[len(progress)-1]
	if last[0] != last[1] {
		t.Errorf("终态进度 %d/%d，current 应等于 total", last[0], last[1])
	}
	if last[0] != 5 {
		t.Errorf("终态 current = %d, want 5", last[0])
	}
}

func TestSyncOrders_RunTwiceIdempotent(t *testing.T) {
	db := setupOrderTestDB(t)
	seedShop(t, db, 1, "Toko Satu", true)

	gw := newFakeOrderGateway()
	gw.orders[1] = []shopee.OrderDetail{
		sampleOrder("SN001", "SHIPPED"),
		sampleOrder("SN002", "COMPLETED"),
		sampleOrder("SN003", "UNPAID"),
	}

	svc := newTestOrderService(db, gw)
	opts := SyncOptions{StartTime: 1, EndTime: 2}

	if _, err := svc.SyncOrders(context.Background(), 1, opts); err != nil {
		t.Fatalf("第一轮同步失败: %v", err)
	}

	// 第二轮前订单状态变化，应整行覆盖而非重复插入
	gw.orders[1][2].OrderStatus = "CANCELLED"
	gw.orders[1][2].CancelReason = model.CancelReasonFailedDelivery

	if _, err := svc.SyncOrders(context.Background(), 1, opts); err != nil {
		t.Fatalf("第二轮同步失败: %v", err)
	}

	var count int64
	db.Model(&model.Order{}).Count(&count)
	if count != 3 {
		t.Errorf("订单行数 = %d, want 3", count)
	}

	var order model.Order
	db.Where("order_sn = ?", "SN003").First(&order)
	if order.OrderStatus != "CANCELLED" || order.CancelReason != model.CancelReasonFailedDelivery {
		t.Errorf("状态未覆盖: %s / %s", order.OrderStatus, order.CancelReason)
	}
}

func TestSyncOrders_Validation(t *testing.T) {
	db := setupOrderTestDB(t)
	seedShop(t, db, 1, "Toko Satu", true)
	seedShop(t, db, 2, "Toko Nonaktif", false)

	svc := newTestOrderService(db, newFakeOrderGateway())
	ctx := context.Background()

	cases := []struct {
		name    string
		shopID  int64
		opts    SyncOptions
		wantErr error
	}{
		{"起点晚于终点", 1, SyncOptions{StartTime: 200, EndTime: 100}, ErrInvalidSyncWindow},
		{"非法状态", 1, SyncOptions{StartTime: 1, EndTime: 2, OrderStatus: "BOGUS"}, ErrInvalidSyncWindow},
		{"非法时间字段", 1, SyncOptions{StartTime: 1, EndTime: 2, TimeRangeField: "paid_time"}, ErrInvalidSyncWindow},
		{"店铺不存在", 99, SyncOptions{StartTime: 1, EndTime: 2}, ErrShopNotFound},
		{"店铺停用", 2, SyncOptions{StartTime: 1, EndTime: 2}, ErrShopNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SyncOrders(ctx, tc.shopID, tc.opts)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSyncOrders_GatewayErrorAborts(t *testing.T) {
	db := setupOrderTestDB(t)
	seedShop(t, db, 1, "Toko Satu", true)

	gw := newFakeOrderGateway()
	gw.failFor[1] = errors.New("rate limited")

	svc := newTestOrderService(db, gw)

	var reported error
	_, err := svc.SyncOrders(context.Background(), 1, SyncOptions{
		StartTime: 1, EndTime: 2,
		OnError: func(e error) { reported = e },
	})
	if err == nil {
		t.Fatal("网关故障应返回错误")
	}
	if reported == nil {
		t.Error("OnError 未被调用")
	}
}

// ==================== 搜索测试 ====================

func TestSearchOrders_KeywordTooShort(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newTestOrderService(db, newFakeOrderGateway())

	// "订单" 虽有 6 字节，但只有 2 个字符，同样要拒绝
	for _, keyword := range []string{"abc", "订单"} {
		_, err := svc.SearchOrders(context.Background(), keyword)
		if !errors.Is(err, ErrKeywordTooShort) {
			t.Errorf("SearchOrders(%q) err = %v, want ErrKeywordTooShort", keyword, err)
		}
	}
}

func TestSearchOrders_MatchesAnyField(t *testing.T) {
	db := setupOrderTestDB(t)
	seedShop(t, db, 1, "Toko Satu", true)

	gw := newFakeOrderGateway()
	gw.orders[1] = []shopee.OrderDetail{sampleOrder("SN881", "SHIPPED")}
	svc := newTestOrderService(db, gw)

	if _, err := svc.SyncOrders(context.Background(), 1, SyncOptions{StartTime: 1, EndTime: 2}); err != nil {
		t.Fatalf("同步失败: %v", err)
	}

	for _, keyword := range []string{"SN881", "buyer_SN881", "TRKSN881"} {
		resp, err := svc.SearchOrders(context.Background(), keyword)
		if err != nil {
			t.Fatalf("搜索 %s 失败: %v", keyword, err)
		}
		if resp.Total != 1 {
			t.Errorf("搜索 %s 命中 %d, want 1", keyword, resp.Total)
		}
	}
}
