// Package service 业务逻辑层：定价、订单流转、台账、统计、推广链接
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qwertyllionman/Alijahon/config"
	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/pkg/e"
	"github.com/qwertyllionman/Alijahon/pkg/logger"
	"github.com/qwertyllionman/Alijahon/pkg/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var ErrDuplicateOrder = errors.New("请勿重复提交订单")

type OrderService struct {
	orderDao    *dao.OrderDao
	productDao  *dao.ProductDao
	threadDao   *dao.ThreadDao
	settingsDao *dao.SettingsDao
	redisDB     redis.UniversalClient
	events      *EventPublisher
	holdTTL     time.Duration
	dupLockTTL  time.Duration
	now         func() time.Time
}

func NewOrderService(
	orderDao *dao.OrderDao,
	productDao *dao.ProductDao,
	threadDao *dao.ThreadDao,
	settingsDao *dao.SettingsDao,
	redisDB redis.UniversalClient,
	events *EventPublisher,
	cfg *config.OrderConfig,
) *OrderService {
	holdTTL := 15 * time.Minute
	dupLockTTL := 10 * time.Second
	if cfg != nil {
		if cfg.HoldTTLMinutes > 0 {
			holdTTL = time.Duration(cfg.HoldTTLMinutes) * time.Minute
		}
		if cfg.DuplicateLockSeconds > 0 {
			dupLockTTL = time.Duration(cfg.DuplicateLockSeconds) * time.Second
		}
	}
	return &OrderService{
		orderDao:    orderDao,
		productDao:  productDao,
		threadDao:   threadDao,
		settingsDao: settingsDao,
		redisDB:     redisDB,
		events:      events,
		holdTTL:     holdTTL,
		dupLockTTL:  dupLockTTL,
		now:         time.Now,
	}
}

// PlaceOrderInput 客户下单入参
type PlaceOrderInput struct {
	CustomerID  int64
	ProductSlug string
	Fullname    string
	PhoneNumber string
	ThreadID    *int64
}

// PlaceOrder 客户下单：解析商品/链接 -> 防重复锁 -> 原子预扣库存 ->
// 定价引擎算总价 -> 落库 new 状态 -> 发布创建事件。
// 创建时数量固定为1
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*model.Order, error) {
	fieldErrs := e.FieldErrors{}

	phone := utils.NormalizePhone(in.PhoneNumber)
	if phone == "" {
		fieldErrs.Add("phone_number", "手机号不能为空")
	}
	if in.Fullname == "" {
		fieldErrs.Add("fullname", "姓名不能为空")
	}
	if fieldErrs.Has() {
		return nil, fieldErrs
	}

	product, err := s.productDao.GetProductBySlug(ctx, in.ProductSlug)
	if err != nil {
		return nil, err
	}

	// 配送费来自站点配置单例，缺行按部署故障处理
	settings, err := s.settingsDao.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	// 链接解析失败（不存在或不属于该商品）静默回退到原价
	thread := s.resolveThread(ctx, in.ThreadID, product.ID)

	// 防重复下单锁：同一用户同一商品短时间内只允许一单
	lockKey := fmt.Sprintf("order:lock:user:%d:product:%d", in.CustomerID, product.ID)
	unlock, err := s.tryLock(ctx, lockKey, s.dupLockTTL)
	if err != nil {
		return nil, err
	}
	if unlock == nil {
		return nil, ErrDuplicateOrder
	}
	defer unlock()

	// 原子预扣库存，检查和扣减是同一条语句，不会两单同时通过检查
	if err := s.productDao.ReserveStock(ctx, product.ID, 1); err != nil {
		return nil, err
	}

	total := ComputeTotal(product, thread, 1, settings.DeliveryPrice)

	customerID := in.CustomerID
	order := &model.Order{
		CustomerID:  &customerID,
		ProductID:   &product.ID,
		Fullname:    in.Fullname,
		PhoneNumber: phone,
		Quantity:    1,
		Total:       total,
		Status:      model.OrderStatusNew,
	}
	if thread != nil {
		order.ThreadID = &thread.ID
	}

	if err := s.orderDao.CreateOrder(ctx, order); err != nil {
		// 落库失败归还库存
		if rerr := s.productDao.ReturnStock(context.Background(), product.ID, 1); rerr != nil {
			logger.Error("归还库存失败", "product_id", product.ID, "err", rerr)
		}
		return nil, err
	}

	s.events.PublishOrderCreated(order.ID, in.CustomerID)

	return order, nil
}

// resolveThread 解析推广链接：不存在或商品不匹配都返回 nil
func (s *OrderService) resolveThread(ctx context.Context, threadID *int64, productID int64) *model.Thread {
	if threadID == nil {
		return nil
	}
	thread, err := s.threadDao.GetThreadByID(ctx, *threadID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("推广链接查询失败", "thread_id", *threadID, "err", err)
		}
		return nil
	}
	if thread.ProductID != productID {
		return nil
	}
	return thread
}

// tryLock Redis SetNX 锁，拿不到返回 nil。redis 未配置时视为直接拿到
func (s *OrderService) tryLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if s.redisDB == nil {
		return func() {}, nil
	}
	lctx, lcancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer lcancel()
	locked, err := s.redisDB.SetNX(lctx, key, "1", ttl).Result()
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, nil
	}
	return func() {
		c, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_ = s.redisDB.Del(c, key).Err()
	}, nil
}

// GetOrder 获取订单详情
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	return s.orderDao.GetOrderByID(ctx, orderID)
}

// ListMyOrders 客户自己的订单列表
func (s *OrderService) ListMyOrders(ctx context.Context, customerID int64) ([]*model.Order, error) {
	return s.orderDao.ListOrdersByCustomer(ctx, customerID)
}

// ClaimOrder 操作员打开编辑页时认领租约，到期自动失效，
// 不是写锁：两个操作员仍可能先后提交，后写覆盖先写
func (s *OrderService) ClaimOrder(ctx context.Context, orderID, operatorID int64) (*model.Order, error) {
	now := s.now()
	if err := s.orderDao.AcquireHold(ctx, orderID, operatorID, now, now.Add(s.holdTTL)); err != nil {
		return nil, err
	}
	return s.orderDao.GetOrderByID(ctx, orderID)
}

// ReleaseHeldOrders 释放该操作员的全部租约
func (s *OrderService) ReleaseHeldOrders(ctx context.Context, operatorID int64) error {
	return s.orderDao.ReleaseHolds(ctx, operatorID)
}

// ListOrders 操作员队列。请求 new 队列前先释放自己的所有租约，
// 防止被放弃的编辑把订单一直挡在队列外；返回所有 new 订单，不管持有人是谁
func (s *OrderService) ListOrders(ctx context.Context, f dao.OrderFilter, operatorID int64) ([]*model.Order, error) {
	f.OperatorID = operatorID
	if f.Status == "" {
		f.Status = model.OrderStatusNew
	}
	if f.Status == model.OrderStatusNew {
		if err := s.orderDao.ReleaseHolds(ctx, operatorID); err != nil {
			return nil, err
		}
	}
	return s.orderDao.ListOrders(ctx, f)
}

// UpdateOrderInput 操作员/配送员改单入参，nil 表示该字段未提交
type UpdateOrderInput struct {
	OrderID      int64
	Actor        *model.User
	OperatorID   *int64
	Quantity     *int
	Status       *string
	DistrictID   *int64
	Comment      *string
	DeliveryDate *time.Time
}

// UpdateOrder 按 (角色, 字段) 权限表处理改单。
// 所有违反的规则一次性收集返回，而不是只报第一条。
// 数量校验通过时立刻预扣差额并重算总价落库（字段校验带写副作用，
// 即使其他字段校验失败该写入也保留）
func (s *OrderService) UpdateOrder(ctx context.Context, in UpdateOrderInput) (*model.Order, error) {
	if in.Actor == nil {
		return nil, errors.New("缺少操作者")
	}

	order, err := s.orderDao.GetOrderByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}

	fieldErrs := e.FieldErrors{}
	updates := map[string]interface{}{}
	role := in.Actor.Role

	// operator 字段按权限表处置
	switch FieldRuleFor(role, FieldOperator) {
	case RuleForceSelf:
		updates["operator_id"] = in.Actor.ID
	case RuleForceConfiguredOperator:
		if in.Actor.OperatorID != nil {
			updates["operator_id"] = *in.Actor.OperatorID
		}
	case RuleAllow:
		if in.OperatorID != nil {
			updates["operator_id"] = *in.OperatorID
		}
	case RuleReject:
		if in.OperatorID != nil {
			fieldErrs.Add(FieldOperator, "没有权限修改该字段")
		}
	}

	if in.Quantity != nil {
		s.applyQuantity(ctx, order, *in.Quantity, role, fieldErrs)
	}

	if in.Status != nil {
		switch {
		case FieldRuleFor(role, FieldStatus) != RuleAllow:
			fieldErrs.Add(FieldStatus, "没有权限修改该字段")
		case !model.IsValidOrderStatus(*in.Status):
			fieldErrs.Add(FieldStatus, "未知的订单状态")
		default:
			updates["status"] = *in.Status
		}
	}

	if in.DistrictID != nil {
		if FieldRuleFor(role, FieldDistrict) != RuleAllow {
			fieldErrs.Add(FieldDistrict, "没有权限修改该字段")
		} else {
			updates["district_id"] = *in.DistrictID
		}
	}

	if in.Comment != nil {
		if FieldRuleFor(role, FieldComment) != RuleAllow {
			fieldErrs.Add(FieldComment, "没有权限修改该字段")
		} else {
			updates["comment"] = *in.Comment
		}
	}

	if in.DeliveryDate != nil {
		switch {
		case FieldRuleFor(role, FieldDeliveryDate) != RuleAllow:
			fieldErrs.Add(FieldDeliveryDate, "没有权限修改该字段")
		case in.DeliveryDate.Before(s.today()):
			// 过去的日期拒绝，今天允许
			fieldErrs.Add(FieldDeliveryDate, "配送日期不能早于今天")
		default:
			updates["delivery_date"] = *in.DeliveryDate
		}
	}

	if fieldErrs.Has() {
		return nil, fieldErrs
	}

	if len(updates) > 0 {
		if err := s.orderDao.UpdateOrder(ctx, order.ID, updates); err != nil {
			return nil, err
		}
	}

	if newStatus, ok := updates["status"].(string); ok && newStatus != order.Status {
		s.events.PublishOrderStatusChanged(order.ID, order.Status, newStatus, in.Actor.ID)
	}

	return s.orderDao.GetOrderByID(ctx, in.OrderID)
}

// applyQuantity 数量字段的校验+写副作用：预扣差额库存，重算总价并立刻落库
func (s *OrderService) applyQuantity(ctx context.Context, order *model.Order, quantity int, role string, fieldErrs e.FieldErrors) {
	if FieldRuleFor(role, FieldQuantity) != RuleAllow {
		fieldErrs.Add(FieldQuantity, "没有权限修改该字段")
		return
	}
	if quantity < 1 {
		fieldErrs.Add(FieldQuantity, "数量必须大于0")
		return
	}
	if order.ProductID == nil || order.Product == nil {
		fieldErrs.Add(FieldQuantity, "订单商品已不存在")
		return
	}

	delta := quantity - order.Quantity
	switch {
	case delta > 0:
		if err := s.productDao.ReserveStock(ctx, *order.ProductID, delta); err != nil {
			if errors.Is(err, dao.ErrInsufficientStock) {
				fieldErrs.Add(FieldQuantity, "库存不足")
			} else {
				fieldErrs.Add(FieldQuantity, "库存检查失败")
			}
			return
		}
	case delta < 0:
		if err := s.productDao.ReturnStock(ctx, *order.ProductID, -delta); err != nil {
			fieldErrs.Add(FieldQuantity, "库存归还失败")
			return
		}
	}

	settings, err := s.settingsDao.GetSettings(ctx)
	if err != nil {
		fieldErrs.Add(FieldQuantity, "站点配置缺失")
		return
	}

	total := ComputeTotal(order.Product, order.Thread, quantity, settings.DeliveryPrice)

	if err := s.orderDao.UpdateOrder(ctx, order.ID, map[string]interface{}{
		"quantity": quantity,
		"total":    total,
	}); err != nil {
		fieldErrs.Add(FieldQuantity, "保存数量失败")
		return
	}
	order.Quantity = quantity
	order.Total = total
}

// today 当天零点
func (s *OrderService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
