package task

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"shopee_dash_v1_202608/internal/repository"
	"shopee_dash_v1_202608/internal/service"
	"shopee_dash_v1_202608/pkg/utils"

	"github.com/robfig/cron/v3"
)

// ==================== 结果常量 ====================

// 单店同步结论
const (
	ResultFulfilled = "fulfilled"
	ResultRejected  = "rejected"
)

// CacheKeySyncStatus 最近一轮同步状态的缓存键
const CacheKeySyncStatus = "order_sync:last_status"

// SyncStatus 一轮同步的聚合结果
type SyncStatus struct {
	Running        bool
	LastRunAt      time.Time
	TimeRangeField string
	StartTime      int64
	EndTime        int64
	// Summary 键为 "<店铺名> (<shop_id>)"，值为 fulfilled / rejected
	Summary map[string]string
}

// ==================== OrderSyncTask 订单同步任务 ====================

// OrderSyncTask 定时把全部在售店铺最近 24 小时的订单拉平到本地库
// 各店铺并行同步互不拖累，单店失败只记 rejected，不中断整轮
type OrderSyncTask struct {
	orderSvc *service.OrderService
	shopRepo repository.ShopRepository
	cron     *cron.Cron

	// 并发控制
	concurrencyLimit int
	sleepTime        time.Duration

	mu      sync.Mutex
	running bool
}

// NewOrderSyncTask 创建订单同步任务
func NewOrderSyncTask(orderSvc *service.OrderService, shopRepo repository.ShopRepository) *OrderSyncTask {
	return &OrderSyncTask{
		orderSvc:         orderSvc,
		shopRepo:         shopRepo,
		cron:             cron.New(cron.WithSeconds()),
		concurrencyLimit: 3,                      // 店铺级并发上限（API 限流）
		sleepTime:        200 * time.Millisecond, // 协程启动间隔
	}
}

// SetConcurrency 设置并发参数
func (t *OrderSyncTask) SetConcurrency(limit int, sleep time.Duration) {
	t.concurrencyLimit = limit
	t.sleepTime = sleep
}

// Start 启动定时任务
func (t *OrderSyncTask) Start() {
	// 定时策略：每 10 分钟执行
	_, err := t.cron.AddFunc("0 */10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 9*time.Minute)
		defer cancel()
		if _, err := t.RunOnce(ctx); err != nil {
			log.Printf("[OrderSyncTask] 本轮同步失败: %v", err)
		}
	})

	if err != nil {
		log.Fatalf("[OrderSyncTask] 无法启动定时任务: %v", err)
	}

	t.cron.Start()
	log.Println("[OrderSyncTask] 订单同步任务已启动 (每 10 分钟)")

	// 启动后立即补一轮，不等首个整点
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 9*time.Minute)
		defer cancel()
		if _, err := t.RunOnce(ctx); err != nil {
			log.Printf("[OrderSyncTask] 启动轮同步失败: %v", err)
		}
	}()
}

// Stop 停止任务
func (t *OrderSyncTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[OrderSyncTask] 已停止")
}

// RunOnce 同步所有在售店铺最近 24 小时（按 create_time）的订单
// 返回逐店结论；只有在轮次级错误（店铺查询失败、重复触发）时才返回 error
func (t *OrderSyncTask) RunOnce(ctx context.Context) (map[string]string, error) {
	end := time.Now().Unix()
	start := end - 24*3600
	return t.Run(ctx, service.TimeRangeCreate, start, end)
}

// Run 按给定时间窗同步所有在售店铺
func (t *OrderSyncTask) Run(ctx context.Context, timeRangeField string, startTime, endTime int64) (map[string]string, error) {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil, fmt.Errorf("上一轮同步尚未结束")
	}
	t.running = true
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	t.publishStatus(&SyncStatus{
		Running:        true,
		LastRunAt:      time.Now(),
		TimeRangeField: timeRangeField,
		StartTime:      startTime,
		EndTime:        endTime,
	})

	shops, err := t.shopRepo.ListActive(ctx)
	if err != nil {
		t.publishStatus(&SyncStatus{LastRunAt: time.Now()})
		return nil, fmt.Errorf("查询在售店铺失败: %w", err)
	}

	log.Printf("[OrderSyncTask] 开始同步 %d 家店铺，窗口 [%d, %d] (%s)",
		len(shops), startTime, endTime, timeRangeField)

	// 信号量控制并发
	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	summary := make(map[string]string, len(shops))
	var mu sync.Mutex

	for i := range shops {
		shop := shops[i]
		key := fmt.Sprintf("%s (%d)", shop.ShopName, shop.ShopID)

		sem <- struct{}{}
		wg.Add(1)
		time.Sleep(t.sleepTime)

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			count, err := t.orderSvc.SyncOrders(ctx, shop.ShopID, service.SyncOptions{
				TimeRangeField: timeRangeField,
				StartTime:      startTime,
				EndTime:        endTime,
				OnProgress: func(current, total int) {
					log.Printf("[OrderSyncTask] 店铺 %d 进度 %d/%d", shop.ShopID, current, total)
				},
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// 单店失败不影响其他店铺
				log.Printf("[OrderSyncTask] 店铺 %d 同步失败: %v", shop.ShopID, err)
				summary[key] = ResultRejected
				return
			}
			log.Printf("[OrderSyncTask] 店铺 %d 同步完成，共 %d 单", shop.ShopID, count)
			summary[key] = ResultFulfilled
		}()
	}

	wg.Wait()

	t.publishStatus(&SyncStatus{
		LastRunAt:      time.Now(),
		TimeRangeField: timeRangeField,
		StartTime:      startTime,
		EndTime:        endTime,
		Summary:        summary,
	})

	log.Printf("[OrderSyncTask] 本轮结束: %v", summary)
	return summary, nil
}

func (t *OrderSyncTask) publishStatus(s *SyncStatus) {
	utils.SetCache(CacheKeySyncStatus, s, 0)
}

// LastStatus 最近一轮同步状态，未跑过时返回 nil
func LastStatus() *SyncStatus {
	val, ok := utils.GetCache(CacheKeySyncStatus)
	if !ok {
		return nil
	}
	status, ok := val.(*SyncStatus)
	if !ok {
		return nil
	}
	return status
}
