package service

import (
	"context"

	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/model"
)

type ProductService struct {
	productDao *dao.ProductDao
}

func NewProductService(productDao *dao.ProductDao) *ProductService {
	return &ProductService{
		productDao: productDao,
	}
}

// ListProducts 商品列表。categorySlug 为空不过滤，
// "top" 按订单量排序（市场页的热销榜）
func (s *ProductService) ListProducts(ctx context.Context, categorySlug string) ([]*model.Product, error) {
	return s.productDao.ListProducts(ctx, categorySlug)
}

// GetProduct 商品详情
func (s *ProductService) GetProduct(ctx context.Context, slug string) (*model.Product, error) {
	return s.productDao.GetProductBySlug(ctx, slug)
}

// ListCategories 分类列表
func (s *ProductService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.productDao.ListCategories(ctx)
}
