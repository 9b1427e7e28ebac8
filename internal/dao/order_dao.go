package dao

import (
	"context"
	"time"

	"github.com/qwertyllionman/Alijahon/internal/model"
	"gorm.io/gorm"
)

type OrderDao struct {
	db *gorm.DB
}

func NewOrderDao(db *gorm.DB) *OrderDao {
	return &OrderDao{
		db: db,
	}
}

// CreateOrder 创建订单
func (d *OrderDao) CreateOrder(ctx context.Context, order *model.Order) error {
	return d.db.WithContext(ctx).Create(order).Error
}

// GetOrderByID 根据ID获取订单（带商品/链接/操作员）
func (d *OrderDao) GetOrderByID(ctx context.Context, orderID int64) (*model.Order, error) {
	var order model.Order
	err := d.db.WithContext(ctx).
		Preload("Product").
		Preload("Thread").
		Preload("Thread.Product").
		Preload("Operator").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderFilter 操作员队列过滤条件
type OrderFilter struct {
	Status     string
	CategoryID int64
	DistrictID int64
	// 非 new 状态的队列只看归属自己的订单
	OperatorID int64
}

// ListOrders 操作员队列。new 队列全局可见（持有者也照常返回），
// 其他状态只返回归属该操作员的订单
func (d *OrderDao) ListOrders(ctx context.Context, f OrderFilter) ([]*model.Order, error) {
	var orders []*model.Order
	query := d.db.WithContext(ctx).Model(&model.Order{}).
		Preload("Product").
		Order("created_at DESC")

	if f.CategoryID > 0 {
		query = query.
			Joins("JOIN products ON products.id = orders.product_id").
			Where("products.category_id = ?", f.CategoryID)
	}
	if f.DistrictID > 0 {
		query = query.Where("orders.district_id = ?", f.DistrictID)
	}
	if f.Status == model.OrderStatusNew {
		query = query.Where("orders.status = ?", model.OrderStatusNew)
	} else {
		query = query.Where("orders.status = ? AND orders.operator_id = ?", f.Status, f.OperatorID)
	}

	err := query.Find(&orders).Error
	return orders, err
}

// ListOrdersByCustomer 客户自己的订单
func (d *OrderDao) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]*model.Order, error) {
	var orders []*model.Order
	err := d.db.WithContext(ctx).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// AcquireHold 认领编辑租约。租约空闲、已过期或本来就属于自己时成功；
// 被别人有效持有时 RowsAffected==0，返回 ErrOrderHeld。
// 过期判定用调用方传入的 now，和租约时长来自同一个时钟
func (d *OrderDao) AcquireHold(ctx context.Context, orderID, operatorID int64, now, until time.Time) error {
	result := d.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND (held_by IS NULL OR held_until IS NULL OR held_until < ? OR held_by = ?)",
			orderID, now, operatorID).
		Updates(map[string]interface{}{
			"held_by":    operatorID,
			"held_until": until,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderHeld
	}
	return nil
}

// ReleaseHolds 释放指定操作员的所有租约（操作员回到 new 队列前调用，
// 防止被放弃的编辑一直占着订单）
func (d *OrderDao) ReleaseHolds(ctx context.Context, operatorID int64) error {
	return d.db.WithContext(ctx).Model(&model.Order{}).
		Where("held_by = ?", operatorID).
		Updates(map[string]interface{}{
			"held_by":    nil,
			"held_until": nil,
		}).Error
}

// UpdateOrder 更新订单字段
func (d *OrderDao) UpdateOrder(ctx context.Context, orderID int64, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

// CreateOrderEvent 写入订单事件审计行（event_id 唯一，重复插入报错由调用方忽略）
func (d *OrderDao) CreateOrderEvent(ctx context.Context, event *model.OrderEvent) error {
	return d.db.WithContext(ctx).Create(event).Error
}

// OrderEventExists 事件是否已落库（消费端幂等兜底）
func (d *OrderDao) OrderEventExists(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.OrderEvent{}).
		Where("event_id = ?", eventID).Count(&count).Error
	return count > 0, err
}
