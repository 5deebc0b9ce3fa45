package shopee

import "context"

// ==================== OrderPager 订单游标翻页器 ====================

// OrderPage 一页订单摘要
type OrderPage struct {
	Orders []OrderStub
	// Cursor 本页起始游标（可用于断点续拉）
	Cursor string
	// NextCursor 下一页游标，空串表示序列结束
	NextCursor string
	// Total 服务端报告的窗口内总量，0 表示未知
	Total int
}

// OrderLister 列表页数据源，*Client 即默认实现
type OrderLister interface {
	GetOrderList(ctx context.Context, cred *Credential, q *OrderListQuery) (*OrderListResult, error)
}

// OrderPager 以游标驱动 get_order_list 的惰性页序列
//
// 终止条件（显式谓词，杜绝无限轮询）：
//  1. 服务端返回 more=false 或 next_cursor 为空
//  2. next_cursor 与本次请求的游标相同，上游游标不前进时
//     视为序列终止，并置 Stalled 标记供调用方告警
type OrderPager struct {
	client OrderLister
	cred   *Credential
	query  OrderListQuery

	cursor   string
	finished bool
	stalled  bool
}

// NewOrderPager 创建翻页器；query.Cursor 非空时从该游标续拉
func NewOrderPager(client OrderLister, cred *Credential, query *OrderListQuery) *OrderPager {
	return &OrderPager{
		client: client,
		cred:   cred,
		query:  *query,
		cursor: query.Cursor,
	}
}

// Next 拉取下一页；序列结束时返回 (nil, nil)
func (p *OrderPager) Next(ctx context.Context) (*OrderPage, error) {
	if p.finished {
		return nil, nil
	}

	q := p.query
	q.Cursor = p.cursor
	result, err := p.client.GetOrderList(ctx, p.cred, &q)
	if err != nil {
		return nil, err
	}

	page := &OrderPage{
		Orders:     result.OrderList,
		Cursor:     p.cursor,
		NextCursor: result.NextCursor,
		Total:      result.TotalCount,
	}

	switch {
	case !result.More || result.NextCursor == "":
		p.finished = true
	case result.NextCursor == p.cursor:
		// 游标原地踏步，按终止处理
		p.finished = true
		p.stalled = true
	default:
		p.cursor = result.NextCursor
	}

	return page, nil
}

// Stalled 上游是否出现过不前进的游标
func (p *OrderPager) Stalled() bool {
	return p.stalled
}

// Cursor 当前游标，可持久化后用 NewOrderPager 续拉
func (p *OrderPager) Cursor() string {
	return p.cursor
}
