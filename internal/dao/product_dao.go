package dao

import (
	"context"

	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/pkg/utils"
	"gorm.io/gorm"
)

type ProductDao struct {
	db *gorm.DB
}

func NewProductDao(db *gorm.DB) *ProductDao {
	return &ProductDao{
		db: db,
	}
}

// CreateProduct 创建商品，slug 由标题生成，冲突时追加 "-1" 直到唯一
func (d *ProductDao) CreateProduct(ctx context.Context, product *model.Product) error {
	slug := utils.Slugify(product.Title)
	for {
		var count int64
		if err := d.db.WithContext(ctx).Model(&model.Product{}).
			Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			break
		}
		slug += "-1"
	}
	product.Slug = slug
	return d.db.WithContext(ctx).Create(product).Error
}

// GetProductByID 根据ID获取商品
func (d *ProductDao) GetProductByID(ctx context.Context, productID int64) (*model.Product, error) {
	var product model.Product
	err := d.db.WithContext(ctx).Preload("Category").Where("id = ?", productID).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySlug 根据slug获取商品
func (d *ProductDao) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := d.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts 商品列表，可按分类 slug 过滤；categorySlug == "top" 时按订单量倒序
func (d *ProductDao) ListProducts(ctx context.Context, categorySlug string) ([]*model.Product, error) {
	var products []*model.Product
	query := d.db.WithContext(ctx).Model(&model.Product{}).Preload("Category")

	switch categorySlug {
	case "":
		// 不过滤
	case "top":
		query = query.
			Joins("LEFT JOIN orders ON orders.product_id = products.id").
			Group("products.id").
			Order("COUNT(orders.id) DESC")
	default:
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", categorySlug)
	}

	err := query.Find(&products).Error
	return products, err
}

// ListCategories 分类列表
func (d *ProductDao) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := d.db.WithContext(ctx).Find(&categories).Error
	return categories, err
}

// ReserveStock 原子预扣库存（compare-and-decrement）。
// 库存不够时一行都不更新，返回 ErrInsufficientStock，
// 两个并发下单不会同时通过检查后超卖
func (d *ProductDao) ReserveStock(ctx context.Context, productID int64, quantity int) error {
	result := d.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", productID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// ReturnStock 归还库存（下单后续步骤失败时回滚）
func (d *ProductDao) ReturnStock(ctx context.Context, productID int64, quantity int) error {
	return d.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
}
