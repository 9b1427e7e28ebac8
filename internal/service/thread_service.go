package service

import (
	"context"

	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/pkg/e"
	"github.com/shopspring/decimal"
)

type ThreadService struct {
	threadDao  *dao.ThreadDao
	productDao *dao.ProductDao
}

func NewThreadService(threadDao *dao.ThreadDao, productDao *dao.ProductDao) *ThreadService {
	return &ThreadService{
		threadDao:  threadDao,
		productDao: productDao,
	}
}

// CreateThread 创建推广链接。折扣必须严格小于商品的 seller_price，
// 否则代理自己的利润被折扣吃掉，拒绝创建
func (s *ThreadService) CreateThread(ctx context.Context, ownerID, productID int64, name string, discount decimal.Decimal) (*model.Thread, error) {
	fieldErrs := e.FieldErrors{}

	if name == "" {
		fieldErrs.Add("name", "名称不能为空")
	}
	if discount.IsNegative() {
		fieldErrs.Add("discount", "折扣不能为负")
	}

	product, err := s.productDao.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if discount.GreaterThanOrEqual(product.SellerPrice) {
		fieldErrs.Add("discount", "折扣超过允许上限")
	}

	if fieldErrs.Has() {
		return nil, fieldErrs
	}

	thread := &model.Thread{
		OwnerID:   ownerID,
		ProductID: productID,
		Name:      name,
		Discount:  discount,
	}
	if err := s.threadDao.CreateThread(ctx, thread); err != nil {
		return nil, err
	}
	thread.Product = product
	return thread, nil
}

// ListThreads 代理的链接列表
func (s *ThreadService) ListThreads(ctx context.Context, ownerID int64) ([]*model.Thread, error) {
	return s.threadDao.ListThreadsByOwner(ctx, ownerID)
}

// VisitThread 访问链接详情页：计数+1后返回链接和商品。
// 表达式更新保证并发访问N次正好+N，计数只增不减
func (s *ThreadService) VisitThread(ctx context.Context, threadID int64) (*model.Thread, error) {
	if err := s.threadDao.IncrementVisit(ctx, threadID); err != nil {
		return nil, err
	}
	return s.threadDao.GetThreadByID(ctx, threadID)
}
