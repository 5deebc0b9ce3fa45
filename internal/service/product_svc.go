package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"shopee_dash_v1_202608/internal/api/dto"
	"shopee_dash_v1_202608/internal/model"
	"shopee_dash_v1_202608/internal/repository"
	"shopee_dash_v1_202608/pkg/shopee"

	"gorm.io/datatypes"
)

// ==================== 依赖接口 ====================

// ItemGateway 商品侧用到的 Shopee 接口
type ItemGateway interface {
	GetItemPage(ctx context.Context, cred *shopee.Credential, offset, pageSize int) (*shopee.ItemPageResult, error)
}

// ==================== ProductService ====================

// 商品列表页大小
const itemPageSize = 50

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
	shopRepo    repository.ShopRepository
	gateway     ItemGateway
}

// NewProductService 创建商品服务
func NewProductService(
	productRepo repository.ProductRepository,
	shopRepo repository.ShopRepository,
	gateway ItemGateway,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		shopRepo:    shopRepo,
		gateway:     gateway,
	}
}

// ==================== 商品同步 ====================

// SyncItems 全量同步单店商品：offset 翻页，商品/变体/型号三表各自幂等 upsert
// 返回实际处理的商品数
func (s *ProductService) SyncItems(ctx context.Context, shopID int64) (int, error) {
	shop, err := s.shopRepo.GetByShopID(ctx, shopID)
	if err != nil {
		return 0, fmt.Errorf("查询店铺失败: %w", err)
	}
	if shop == nil || !shop.IsActive {
		return 0, fmt.Errorf("%w: shop_id=%d", ErrShopNotFound, shopID)
	}

	cred := &shopee.Credential{ShopID: shop.ShopID, AccessToken: shop.AccessToken}

	processed := 0
	offset := 0
	for {
		page, err := s.gateway.GetItemPage(ctx, cred, offset, itemPageSize)
		if err != nil {
			return processed, fmt.Errorf("拉取商品列表失败: %w", err)
		}

		for i := range page.Items {
			if err := s.upsertItemTree(ctx, shop.ShopID, &page.Items[i]); err != nil {
				return processed, err
			}
			processed++
		}

		if !page.HasNextPage {
			break
		}
		// offset 不前进按终止处理，与订单游标同一口径
		if page.NextOffset <= offset {
			log.Printf("[ItemSync] 店铺 %d offset 停滞 (%d -> %d)，提前终止，已处理 %d 件",
				shopID, offset, page.NextOffset, processed)
			break
		}
		offset = page.NextOffset
	}

	return processed, nil
}

// upsertItemTree 落库单个商品及其变体、型号
func (s *ProductService) upsertItemTree(ctx context.Context, shopID int64, data *shopee.ItemData) error {
	item := buildItem(shopID, data)
	if err := s.productRepo.UpsertItem(ctx, item); err != nil {
		return fmt.Errorf("商品 %d 落库失败: %w", data.ItemID, err)
	}

	if len(data.Variations) > 0 {
		variations := make([]model.ItemVariation, 0, len(data.Variations))
		for i := range data.Variations {
			v := &data.Variations[i]
			option, _ := json.Marshal(map[string]interface{}{
				"group_id": v.VariationGroupID,
				"options":  v.OptionList,
			})
			variations = append(variations, model.ItemVariation{
				ItemID:          data.ItemID,
				VariationID:     v.VariationID,
				VariationName:   v.VariationName,
				VariationOption: datatypes.JSON(option),
			})
		}
		if err := s.productRepo.UpsertVariations(ctx, variations); err != nil {
			return fmt.Errorf("商品 %d 变体落库失败: %w", data.ItemID, err)
		}
	}

	if len(data.Models) > 0 {
		models := make([]model.ItemModel, 0, len(data.Models))
		for i := range data.Models {
			m := &data.Models[i]
			stock, _ := json.Marshal(m.StockInfo)
			models = append(models, model.ItemModel{
				ItemID:        data.ItemID,
				ModelID:       m.ModelID,
				ModelName:     m.ModelName,
				ModelStatus:   m.ModelStatus,
				CurrentPrice:  m.PriceInfo.CurrentPrice,
				OriginalPrice: m.PriceInfo.OriginalPrice,
				StockInfo:     datatypes.JSON(stock),
			})
		}
		if err := s.productRepo.UpsertModels(ctx, models); err != nil {
			return fmt.Errorf("商品 %d 型号落库失败: %w", data.ItemID, err)
		}
	}

	return nil
}

// buildItem 压平商品主表行，嵌套结构序列化为 JSONB
func buildItem(shopID int64, d *shopee.ItemData) *model.Item {
	image, _ := json.Marshal(d.Image)
	logistic, _ := json.Marshal(d.LogisticInfo)
	preOrder, _ := json.Marshal(d.PreOrder)
	brand, _ := json.Marshal(d.Brand)

	return &model.Item{
		ItemID:            d.ItemID,
		ShopID:            shopID,
		CategoryID:        d.CategoryID,
		ItemName:          d.ItemName,
		Description:       d.Description,
		ItemSKU:           d.ItemSKU,
		CreateTime:        d.CreateTime,
		UpdateTime:        d.UpdateTime,
		Weight:            d.Weight,
		Image:             datatypes.JSON(image),
		LogisticInfo:      datatypes.JSON(logistic),
		PreOrder:          datatypes.JSON(preOrder),
		Brand:             datatypes.JSON(brand),
		Condition:         d.Condition,
		ItemStatus:        d.ItemStatus,
		HasModel:          d.HasModel,
		ItemDangerous:     d.ItemDangerous,
		DescriptionType:   d.DescriptionType,
		SizeChartID:       d.SizeChartID,
		AuthorisedBrandID: d.AuthorisedBrandID,
	}
}

// ==================== 查询 ====================

// ListProducts 本地商品列表
func (s *ProductService) ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	filter := repository.ItemFilter{
		ItemStatus: req.Status,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if req.ShopID > 0 {
		filter.ShopIDs = []int64{req.ShopID}
	}

	items, totalCount, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("查询商品列表失败: %w", err)
	}

	list := make([]dto.ProductListItem, len(items))
	for i, item := range items {
		list[i] = dto.ProductListItem{
			ID:         item.ID,
			ItemID:     item.ItemID,
			ShopID:     item.ShopID,
			ItemName:   item.ItemName,
			ItemSKU:    item.ItemSKU,
			ItemStatus: item.ItemStatus,
			Condition:  item.Condition,
			Weight:     item.Weight,
			Image:      item.Image,
			HasModel:   item.HasModel,
			Deboost:    item.Deboost,
			CreateTime: item.CreateTime,
			UpdateTime: item.UpdateTime,
			UpdatedAt:  item.UpdatedAt,
		}
	}

	return &dto.ListProductsResponse{Total: totalCount, List: list}, nil
}

// GetStockPrices 单品的变体与型号明细
func (s *ProductService) GetStockPrices(ctx context.Context, itemID int64) (*dto.StockPricesResponse, error) {
	item, err := s.productRepo.GetByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}
	if item == nil {
		return nil, nil
	}

	variations, err := s.productRepo.GetVariationsByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("查询变体失败: %w", err)
	}
	models, err := s.productRepo.GetModelsByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("查询型号失败: %w", err)
	}

	resp := &dto.StockPricesResponse{
		ItemID:     itemID,
		Variations: make([]dto.VariationVO, len(variations)),
		Models:     make([]dto.ModelVO, len(models)),
	}
	for i, v := range variations {
		resp.Variations[i] = dto.VariationVO{
			VariationID: v.VariationID,
			Name:        v.VariationName,
			Option:      v.VariationOption,
		}
	}
	for i, m := range models {
		resp.Models[i] = dto.ModelVO{
			ModelID:       m.ModelID,
			ModelName:     m.ModelName,
			ModelStatus:   m.ModelStatus,
			CurrentPrice:  m.CurrentPrice,
			OriginalPrice: m.OriginalPrice,
			StockInfo:     m.StockInfo,
		}
	}
	return resp, nil
}
