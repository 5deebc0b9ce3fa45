package task

import (
	"context"
	"log"
	"sync"
	"time"

	"shopee_dash_v1_202608/internal/repository"
	"shopee_dash_v1_202608/internal/service"

	"github.com/robfig/cron/v3"
)

// ==================== TokenTask 凭证保活任务 ====================

// access_token 4 小时过期，提前 30 分钟续期
const tokenRefreshAhead = 30 * time.Minute

// TokenTask 定时刷新临近过期的店铺凭证
type TokenTask struct {
	shopRepo repository.ShopRepository
	authSvc  *service.AuthService
	cron     *cron.Cron

	// 控制并发刷新数量，避免集中打爆开放平台限流
	concurrencyLimit int
	sleepTime        time.Duration
}

// NewTokenTask 创建凭证保活任务
func NewTokenTask(shopRepo repository.ShopRepository, authSvc *service.AuthService) *TokenTask {
	return &TokenTask{
		shopRepo:         shopRepo,
		authSvc:          authSvc,
		cron:             cron.New(cron.WithSeconds()), // 支持秒级控制
		concurrencyLimit: 10,
		sleepTime:        50 * time.Millisecond, // 每个协程启动间隔，平滑波峰
	}
}

// Start 启动定时任务
func (t *TokenTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		log.Println("[TokenTask] 服务启动，正在执行首次凭证检查...")
		t.refreshJob(ctx)
	}()

	// 定时策略：每 20 分钟检查
	_, err := t.cron.AddFunc("0 0/20 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.refreshJob(ctx)
	})

	if err != nil {
		log.Fatalf("[TokenTask] 无法启动定时任务: %v", err)
	}

	t.cron.Start()
	log.Println("[TokenTask] 凭证保活任务已启动 (每 20 分钟检查)")
}

// Stop 停止任务
func (t *TokenTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[TokenTask] 已停止")
}

// refreshJob 刷新所有临近过期的店铺凭证
func (t *TokenTask) refreshJob(ctx context.Context) {
	shops, err := t.shopRepo.FindExpiring(ctx, tokenRefreshAhead)
	if err != nil {
		log.Printf("[TokenTask] 过期凭证查询失败: %v", err)
		return
	}
	if len(shops) == 0 {
		return
	}

	log.Printf("[TokenTask] 开始刷新 %d 家店铺凭证，并发上限: %d", len(shops), t.concurrencyLimit)

	// 信号量控制并发
	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	for i := range shops {
		select {
		case <-ctx.Done():
			log.Println("[TokenTask] 任务超时停止")
			wg.Wait()
			return
		default:
		}

		shopID := shops[i].ShopID

		sem <- struct{}{}
		wg.Add(1)
		time.Sleep(t.sleepTime)

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := t.authSvc.RefreshShopToken(ctx, shopID); err != nil {
				log.Printf("[TokenTask] 店铺 %d 凭证刷新失败: %v", shopID, err)
			}
		}()
	}

	wg.Wait()
	log.Println("[TokenTask] 本轮凭证检查结束")
}
