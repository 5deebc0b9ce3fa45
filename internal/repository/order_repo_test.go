package repository

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopee_dash_v1_202608/internal/model"
)

// ==================== 测试辅助 ====================

func setupRepoTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Order{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

func makeOrder(sn string, shopID int64, status, cancelReason string) model.Order {
	return model.Order{
		OrderSN:       sn,
		ShopID:        shopID,
		OrderStatus:   status,
		CancelReason:  cancelReason,
		BuyerUsername: "buyer_" + sn,
		CreateTime:    1700000000,
	}
}

// ==================== 单元测试 ====================

func TestOrderRepo_UpsertBatchIdempotent(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	batch := []model.Order{
		makeOrder("SN001", 1, model.OrderStatusShipped, ""),
		makeOrder("SN002", 1, model.OrderStatusUnpaid, ""),
	}
	if err := repo.UpsertBatch(ctx, batch); err != nil {
		t.Fatalf("首次 upsert 失败: %v", err)
	}

	// 同一批次状态变更后重放
	batch[1].OrderStatus = model.OrderStatusCancelled
	batch[1].CancelReason = model.CancelReasonFailedDelivery
	if err := repo.UpsertBatch(ctx, batch); err != nil {
		t.Fatalf("重放 upsert 失败: %v", err)
	}

	var count int64
	db.Model(&model.Order{}).Count(&count)
	if count != 2 {
		t.Errorf("行数 = %d, want 2", count)
	}

	got, err := repo.GetByOrderSN(ctx, "SN002")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.OrderStatus != model.OrderStatusCancelled {
		t.Errorf("状态 = %s, want CANCELLED", got.OrderStatus)
	}
}

func TestOrderRepo_StatusCountsBuckets(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	seed := []model.Order{
		makeOrder("SN01", 1, model.OrderStatusUnpaid, ""),
		makeOrder("SN02", 1, model.OrderStatusProcessed, ""),
		makeOrder("SN03", 1, model.OrderStatusShipped, ""),
		makeOrder("SN04", 1, model.OrderStatusShipped, ""),
		makeOrder("SN05", 1, model.OrderStatusCompleted, ""),
		makeOrder("SN06", 1, model.OrderStatusCancelled, "Out of stock"),
		// COD 派送失败：虽然状态是 CANCELLED，单独归 failed 桶
		makeOrder("SN07", 1, model.OrderStatusCancelled, model.CancelReasonFailedDelivery),
	}
	if err := repo.UpsertBatch(ctx, seed); err != nil {
		t.Fatalf("种数据失败: %v", err)
	}

	stats, err := repo.StatusCounts(ctx, OrderFilter{})
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}

	if stats.Pending != 1 {
		t.Errorf("pending = %d, want 1", stats.Pending)
	}
	if stats.Process != 1 {
		t.Errorf("process = %d, want 1", stats.Process)
	}
	if stats.Shipping != 2 {
		t.Errorf("shipping = %d, want 2", stats.Shipping)
	}
	if stats.Cancel != 1 {
		t.Errorf("cancel = %d, want 1", stats.Cancel)
	}
	if stats.Failed != 1 {
		t.Errorf("failed = %d, want 1", stats.Failed)
	}
	// Total 不含 UNPAID / CANCELLED / Failed Delivery
	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}
}

func TestOrderRepo_SearchAcrossFields(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o := makeOrder("220816SN99", 1, model.OrderStatusShipped, "")
	o.TrackingNumber = "JX998877"
	if err := repo.UpsertBatch(ctx, []model.Order{o}); err != nil {
		t.Fatalf("种数据失败: %v", err)
	}

	// 同一关键词按三个字段任一命中
	hits, err := repo.Search(ctx, OrderSearch{
		OrderSN:        "JX9988",
		BuyerUsername:  "JX9988",
		TrackingNumber: "JX9988",
	})
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("命中 %d, want 1", len(hits))
	}

	// 无字段时不触库
	none, err := repo.Search(ctx, OrderSearch{})
	if err != nil || none != nil {
		t.Errorf("空条件应返回 nil, got %v, %v", none, err)
	}
}

func TestOrderRepo_ListFilterAndPaging(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	var seed []model.Order
	for i := 0; i < 25; i++ {
		o := makeOrder(string(rune('A'+i))+"-SN", 1, model.OrderStatusShipped, "")
		o.CreateTime = int64(1700000000 + i)
		seed = append(seed, o)
	}
	seed = append(seed, makeOrder("OTHER", 2, model.OrderStatusShipped, ""))
	if err := repo.UpsertBatch(ctx, seed); err != nil {
		t.Fatalf("种数据失败: %v", err)
	}

	orders, total, err := repo.List(ctx, OrderFilter{
		ShopIDs:  []int64{1},
		Page:     2,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(orders) != 10 {
		t.Errorf("页大小 = %d, want 10", len(orders))
	}
}
