package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopee_dash_v1_202608/internal/api/dto"
	"shopee_dash_v1_202608/internal/service"
)

// OrderController 订单控制器
type OrderController struct {
	svc *service.OrderService
}

// NewOrderController 创建订单控制器
func NewOrderController(svc *service.OrderService) *OrderController {
	return &OrderController{svc: svc}
}

// ==================== 订单列表 ====================

// List 订单列表
// GET /api/orders
func (c *OrderController) List(ctx *gin.Context) {
	var req dto.ListOrdersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := c.svc.ListOrders(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

// ==================== 订单搜索 ====================

// Search 订单搜索：订单号 / 买家名 / 运单号
// GET /api/orders/search?q=xxxx
// 关键词不足 4 个字符直接 400，不触库
func (c *OrderController) Search(ctx *gin.Context) {
	var req dto.SearchOrdersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := c.svc.SearchOrders(ctx, req.Keyword)
	if err != nil {
		if errors.Is(err, service.ErrKeywordTooShort) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

// ==================== 订单统计 ====================

// Stats 状态桶统计
// GET /api/orders/stats?shop_id=
func (c *OrderController) Stats(ctx *gin.Context) {
	shopID, _ := strconv.ParseInt(ctx.Query("shop_id"), 10, 64)

	stats, err := c.svc.GetStats(ctx, shopID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": stats})
}
