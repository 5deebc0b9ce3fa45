package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopee_dash_v1_202608/internal/api/dto"
	"shopee_dash_v1_202608/internal/service"
)

// ProductController 商品控制器
type ProductController struct {
	svc *service.ProductService
}

// NewProductController 创建商品控制器
func NewProductController(svc *service.ProductService) *ProductController {
	return &ProductController{svc: svc}
}

// ==================== 商品同步 ====================

// Sync 全量同步指定店铺商品，阻塞到同步结束
// GET /api/produk?shop_id=
func (c *ProductController) Sync(ctx *gin.Context) {
	shopID, err := strconv.ParseInt(ctx.Query("shop_id"), 10, 64)
	if err != nil || shopID <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "shop_id 参数缺失或非法"})
		return
	}

	count, err := c.svc.SyncItems(ctx, shopID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sync completed",
		"count":   count,
	})
}

// ==================== 商品查询 ====================

// List 本地商品列表
// GET /api/products
func (c *ProductController) List(ctx *gin.Context) {
	var req dto.ListProductsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := c.svc.ListProducts(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

// StockPrices 单品的变体与型号明细
// GET /api/products/:item_id/stock-prices
func (c *ProductController) StockPrices(ctx *gin.Context) {
	itemID, err := strconv.ParseInt(ctx.Param("item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "item_id 非法"})
		return
	}

	resp, err := c.svc.GetStockPrices(ctx, itemID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if resp == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "商品不存在"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}
