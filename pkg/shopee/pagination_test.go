package shopee

import (
	"context"
	"testing"
)

// ==================== 测试辅助 ====================

// scriptedLister 按脚本逐页返回
type scriptedLister struct {
	pages []OrderListResult
	calls int
}

func (s *scriptedLister) GetOrderList(ctx context.Context, cred *Credential, q *OrderListQuery) (*OrderListResult, error) {
	if s.calls >= len(s.pages) {
		t := OrderListResult{}
		return &t, nil
	}
	page := s.pages[s.calls]
	s.calls++
	return &page, nil
}

func stubOrders(sns ...string) []OrderStub {
	out := make([]OrderStub, len(sns))
	for i, sn := range sns {
		out[i] = OrderStub{OrderSN: sn, OrderStatus: OrderStatusShipped}
	}
	return out
}

// ==================== 单元测试 ====================

func TestOrderPager_AdvancesThenTerminates(t *testing.T) {
	lister := &scriptedLister{pages: []OrderListResult{
		{More: true, NextCursor: "c1", TotalCount: 3, OrderList: stubOrders("A", "B")},
		{More: false, NextCursor: "", TotalCount: 3, OrderList: stubOrders("C")},
	}}
	pager := NewOrderPager(lister, &Credential{ShopID: 1}, &OrderListQuery{
		TimeRangeField: "create_time", TimeFrom: 1, TimeTo: 2,
	})

	var got []string
	for {
		page, err := pager.Next(context.Background())
		if err != nil {
			t.Fatalf("Next 出错: %v", err)
		}
		if page == nil {
			break
		}
		for _, o := range page.Orders {
			got = append(got, o.OrderSN)
		}
	}

	if len(got) != 3 {
		t.Fatalf("订单数 = %d, want 3", len(got))
	}
	if lister.calls != 2 {
		t.Errorf("请求次数 = %d, want 2", lister.calls)
	}
	if pager.Stalled() {
		t.Error("正常终止不应置 Stalled")
	}
}

func TestOrderPager_RepeatedCursorTerminates(t *testing.T) {
	// 服务端声称 more=true 但游标不前进
	lister := &scriptedLister{pages: []OrderListResult{
		{More: true, NextCursor: "c1", OrderList: stubOrders("A")},
		{More: true, NextCursor: "c1", OrderList: stubOrders("A")},
		{More: true, NextCursor: "c1", OrderList: stubOrders("A")},
	}}
	pager := NewOrderPager(lister, &Credential{ShopID: 1}, &OrderListQuery{})

	pages := 0
	for {
		page, err := pager.Next(context.Background())
		if err != nil {
			t.Fatalf("Next 出错: %v", err)
		}
		if page == nil {
			break
		}
		pages++
		if pages > 10 {
			t.Fatal("游标停滞时翻页未终止")
		}
	}

	// 第一页游标 "" -> "c1" 正常前进；第二页 "c1" -> "c1" 触发终止
	if pages != 2 {
		t.Errorf("页数 = %d, want 2", pages)
	}
	if !pager.Stalled() {
		t.Error("游标停滞应置 Stalled")
	}
}

func TestOrderPager_EmptyWindow(t *testing.T) {
	lister := &scriptedLister{pages: []OrderListResult{
		{More: false, NextCursor: "", TotalCount: 0},
	}}
	pager := NewOrderPager(lister, &Credential{ShopID: 1}, &OrderListQuery{})

	page, err := pager.Next(context.Background())
	if err != nil {
		t.Fatalf("Next 出错: %v", err)
	}
	if page == nil || len(page.Orders) != 0 {
		t.Fatal("空窗口应返回空页而非 nil")
	}
	if next, _ := pager.Next(context.Background()); next != nil {
		t.Fatal("空窗口后序列应终止")
	}
}

func TestOrderPager_ResumeFromCursor(t *testing.T) {
	lister := &scriptedLister{pages: []OrderListResult{
		{More: false, NextCursor: "", OrderList: stubOrders("D")},
	}}
	pager := NewOrderPager(lister, &Credential{ShopID: 1}, &OrderListQuery{Cursor: "c9"})

	if _, err := pager.Next(context.Background()); err != nil {
		t.Fatalf("Next 出错: %v", err)
	}
	if pager.Cursor() != "c9" {
		t.Errorf("续拉游标 = %s, want c9", pager.Cursor())
	}
}
