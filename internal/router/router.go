package router

import (
	"github.com/gin-gonic/gin"

	"shopee_dash_v1_202608/internal/controller"
	"shopee_dash_v1_202608/internal/middleware"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	authCtl *controller.AuthController,
	syncCtl *controller.SyncController,
	orderCtl *controller.OrderController,
	productCtl *controller.ProductController,
	msgCtl *controller.MsgController,
	webhookCtl *controller.WebhookController) {
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			// POST /api/auth/login
			auth.POST("/login", authCtl.Login)
			// POST /api/auth/refresh
			auth.POST("/refresh", authCtl.Refresh)
		}

		// 订单同步（手动触发走限流，平滑 Shopee API 配额）
		api.GET("/auto-sync",
			middleware.JWTAuth(),
			middleware.SyncRateLimit(middleware.SyncTypeOrder, 0),
			syncCtl.AutoSync)
		api.GET("/sync/status", middleware.JWTAuth(), syncCtl.Status)

		// order 订单组
		orders := api.Group("/orders")
		orders.Use(middleware.JWTAuth())
		{
			// GET /api/orders
			orders.GET("", orderCtl.List)
			// GET /api/orders/search?q=
			orders.GET("/search", orderCtl.Search)
			// GET /api/orders/stats
			orders.GET("/stats", orderCtl.Stats)
		}

		// product 商品组
		// GET /api/produk?shop_id= 触发全量商品同步（历史路径，前端沿用）
		api.GET("/produk",
			middleware.JWTAuth(),
			middleware.SyncRateLimit(middleware.SyncTypeProduct, 0),
			productCtl.Sync)
		products := api.Group("/products")
		products.Use(middleware.JWTAuth())
		{
			products.GET("", productCtl.List)
			products.GET("/:item_id/stock-prices", productCtl.StockPrices)
		}

		// msg 聊天组
		msg := api.Group("/msg")
		msg.Use(middleware.JWTAuth())
		{
			// GET /api/msg/get_message
			msg.GET("/get_message", msgCtl.GetMessage)
			// GET /api/msg/get_conversation_list
			msg.GET("/get_conversation_list", msgCtl.GetConversationList)
		}

		// webhook：下行 SSE 订阅 + 上行 Shopee 推送
		// EventSource 无法携带 Authorization 头，上行靠推送签名校验
		api.GET("/webhook", webhookCtl.Stream)
		api.POST("/webhook", webhookCtl.Ingest)
	}
}
