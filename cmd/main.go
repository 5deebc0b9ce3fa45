package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"shopee_dash_v1_202608/internal/config"
	"shopee_dash_v1_202608/internal/controller"
	"shopee_dash_v1_202608/internal/middleware"
	"shopee_dash_v1_202608/internal/model"
	"shopee_dash_v1_202608/internal/relay"
	"shopee_dash_v1_202608/internal/repository"
	"shopee_dash_v1_202608/internal/router"
	"shopee_dash_v1_202608/internal/service"
	"shopee_dash_v1_202608/internal/task"
	"shopee_dash_v1_202608/pkg/database"
	"shopee_dash_v1_202608/pkg/shopee"
)

func main() {
	// 1. 加载配置（.env + 环境变量）
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 启动定时任务
	initTasks(deps)

	// 5. 初始化路由
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	router.InitRoutes(r,
		deps.Controllers.Auth,
		deps.Controllers.Sync,
		deps.Controllers.Order,
		deps.Controllers.Product,
		deps.Controllers.Msg,
		deps.Controllers.Webhook,
	)

	// 6. 启动服务
	startServer(cfg.Port, r, deps)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Hub         *relay.Hub
	Repos       *Repositories
	Services    *Services
	Tasks       *Tasks
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Shop    repository.ShopRepository
	Order   repository.OrderRepository
	Product repository.ProductRepository
	User    repository.UserRepository
}

// Services 服务集合
type Services struct {
	Order   *service.OrderService
	Product *service.ProductService
	Chat    *service.ChatService
	Auth    *service.AuthService
}

// Tasks 定时任务集合
type Tasks struct {
	OrderSync *task.OrderSyncTask
	Token     *task.TokenTask
}

// Controllers 控制器集合
type Controllers struct {
	Auth    *controller.AuthController
	Sync    *controller.SyncController
	Order   *controller.OrderController
	Product *controller.ProductController
	Msg     *controller.MsgController
	Webhook *controller.WebhookController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	dsn := database.DSN(
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.DBName, cfg.Database.SSLMode,
	)
	return database.InitDB(dsn,
		// Manager
		&model.SysUser{},
		// Shop
		&model.ShopeeToken{},
		// Order
		&model.Order{},
		// Product
		&model.Item{}, &model.ItemVariation{}, &model.ItemModel{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- JWT 配置 --------
	jwtCfg := middleware.DefaultJWTConfig()
	jwtCfg.SecretKey = cfg.JWT.SecretKey
	jwtCfg.Issuer = cfg.JWT.Issuer
	middleware.SetJWTConfig(jwtCfg)

	// -------- Shopee 客户端 --------
	client := shopee.NewClient(&shopee.Config{
		BaseURL:    cfg.Shopee.BaseURL,
		PartnerID:  cfg.Shopee.PartnerID,
		PartnerKey: cfg.Shopee.PartnerKey,
	})

	// -------- Repo 层 --------
	repos := &Repositories{
		Shop:    repository.NewShopRepository(db),
		Order:   repository.NewOrderRepository(db),
		Product: repository.NewProductRepository(db),
		User:    repository.NewUserRepository(db),
	}

	// -------- 推送中心 --------
	hub := relay.NewHub()

	// -------- 业务服务 --------
	services := &Services{
		Order:   service.NewOrderService(repos.Order, repos.Shop, client),
		Product: service.NewProductService(repos.Product, repos.Shop, client),
		Chat:    service.NewChatService(repos.Shop, client, hub),
		Auth:    service.NewAuthService(repos.User, repos.Shop, client),
	}

	// -------- 定时任务 --------
	tasks := &Tasks{
		OrderSync: task.NewOrderSyncTask(services.Order, repos.Shop),
		Token:     task.NewTokenTask(repos.Shop, services.Auth),
	}

	// -------- 控制器 --------
	controllers := &Controllers{
		Auth:    controller.NewAuthController(services.Auth),
		Sync:    controller.NewSyncController(tasks.OrderSync),
		Order:   controller.NewOrderController(services.Order),
		Product: controller.NewProductController(services.Product),
		Msg:     controller.NewMsgController(services.Chat),
		Webhook: controller.NewWebhookController(hub, services.Chat, cfg.Shopee.PushSecret),
	}

	return &Dependencies{
		DB:          db,
		Hub:         hub,
		Repos:       repos,
		Services:    services,
		Tasks:       tasks,
		Controllers: controllers,
	}
}

// initTasks 启动定时任务
func initTasks(deps *Dependencies) {
	deps.Tasks.Token.Start()
	deps.Tasks.OrderSync.Start()
}

// ==================== 服务启动 ====================

// startServer 启动 HTTP 服务并处理优雅退出
func startServer(port string, handler http.Handler, deps *Dependencies) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	go func() {
		log.Printf("服务启动，监听 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("收到退出信号，开始优雅关闭...")

	deps.Tasks.OrderSync.Stop()
	deps.Tasks.Token.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP 服务关闭异常: %v", err)
	}

	log.Println("服务已退出")
}
