package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPlaceOrder(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	agent := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, 50000, 10000, 10)
	thread := seedThread(t, db, agent.ID, product.ID, 5000)
	svc := newOrderServiceForTest(db)
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		CustomerID:  customer.ID,
		ProductSlug: product.Slug,
		Fullname:    "Test Customer",
		PhoneNumber: "+998 90 123-45-67",
		ThreadID:    &thread.ID,
	})
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusNew, order.Status)
	require.Equal(t, 1, order.Quantity)
	// (50000-5000)*1 + 3000
	require.True(t, order.Total.Equal(decimal.NewFromInt(48000)), "got %s", order.Total)
	require.NotNil(t, order.ThreadID)
	// 手机号入库前规整为纯数字
	require.Equal(t, "998901234567", order.PhoneNumber)

	// 库存已预扣
	got, err := dao.NewProductDao(db).GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 9, got.Quantity)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	svc := newOrderServiceForTest(db)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerID:  1,
		ProductSlug: "whatever",
	})

	// 两个字段的错误一次返回
	var fieldErrs e.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.True(t, fieldErrs.Has())
	_, hasPhone := fieldErrs["phone_number"]
	_, hasName := fieldErrs["fullname"]
	require.True(t, hasPhone)
	require.True(t, hasName)
}

func TestPlaceOrderThreadMismatch(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	agent := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, 50000, 10000, 10)
	other := seedProduct(t, db, 70000, 10000, 10)
	// 链接挂在另一个商品上
	thread := seedThread(t, db, agent.ID, other.ID, 5000)
	svc := newOrderServiceForTest(db)

	order, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerID:  customer.ID,
		ProductSlug: product.Slug,
		Fullname:    "Test Customer",
		PhoneNumber: "998901234567",
		ThreadID:    &thread.ID,
	})
	require.NoError(t, err)

	// 静默回退到原价，不挂链接
	require.Nil(t, order.ThreadID)
	require.True(t, order.Total.Equal(decimal.NewFromInt(53000)), "got %s", order.Total)
}

func TestPlaceOrderOutOfStock(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, 50000, 10000, 0)
	svc := newOrderServiceForTest(db)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerID:  customer.ID,
		ProductSlug: product.Slug,
		Fullname:    "Test Customer",
		PhoneNumber: "998901234567",
	})
	require.ErrorIs(t, err, dao.ErrInsufficientStock)
}

func placeTestOrder(t *testing.T, db *gorm.DB, svc *OrderService, customerID int64, slug string) *model.Order {
	t.Helper()
	order, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerID:  customerID,
		ProductSlug: slug,
		Fullname:    "Test Customer",
		PhoneNumber: "998901234567",
	})
	require.NoError(t, err)
	return order
}

func TestClaimOrderLease(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	op1 := seedUser(t, db, model.RoleOperator)
	op2 := seedUser(t, db, model.RoleOperator)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newOrderServiceForTest(db)
	ctx := context.Background()

	base := time.Now()
	svc.now = func() time.Time { return base }

	order := placeTestOrder(t, db, svc, customer.ID, product.Slug)

	// op1 认领成功
	held, err := svc.ClaimOrder(ctx, order.ID, op1.ID)
	require.NoError(t, err)
	require.NotNil(t, held.HeldBy)
	require.Equal(t, op1.ID, *held.HeldBy)

	// 租约有效期内 op2 认领失败
	_, err = svc.ClaimOrder(ctx, order.ID, op2.ID)
	require.ErrorIs(t, err, dao.ErrOrderHeld)

	// 持有人自己可以续租
	_, err = svc.ClaimOrder(ctx, order.ID, op1.ID)
	require.NoError(t, err)

	// 租约过期后 op2 可以抢到
	svc.now = func() time.Time { return base.Add(16 * time.Minute) }
	held, err = svc.ClaimOrder(ctx, order.ID, op2.ID)
	require.NoError(t, err)
	require.Equal(t, op2.ID, *held.HeldBy)
}

func TestListOrdersReleasesOwnHolds(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	op1 := seedUser(t, db, model.RoleOperator)
	op2 := seedUser(t, db, model.RoleOperator)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newOrderServiceForTest(db)
	ctx := context.Background()

	order := placeTestOrder(t, db, svc, customer.ID, product.Slug)
	_, err := svc.ClaimOrder(ctx, order.ID, op1.ID)
	require.NoError(t, err)

	// new 队列返回所有 new 订单，不管持有人是谁
	orders, err := svc.ListOrders(ctx, dao.OrderFilter{}, op2.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	// op1 自己请求队列时释放自己的租约
	orders, err = svc.ListOrders(ctx, dao.OrderFilter{}, op1.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Nil(t, orders[0].HeldBy)
}

func TestUpdateOrderOperatorForcedToSelf(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	operator := seedUser(t, db, model.RoleOperator)
	other := seedUser(t, db, model.RoleOperator)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newOrderServiceForTest(db)
	ctx := context.Background()

	order := placeTestOrder(t, db, svc, customer.ID, product.Slug)

	// 操作员提交别人的ID也会被改写成自己
	status := model.OrderStatusReadyToDelivery
	updated, err := svc.UpdateOrder(ctx, UpdateOrderInput{
		OrderID:    order.ID,
		Actor:      operator,
		OperatorID: &other.ID,
		Status:     &status,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.OperatorID)
	require.Equal(t, operator.ID, *updated.OperatorID)
	require.Equal(t, model.OrderStatusReadyToDelivery, updated.Status)
}

func TestUpdateOrderDeliverUsesConfiguredOperator(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	operator := seedUser(t, db, model.RoleOperator)
	deliver := seedUser(t, db, model.RoleDeliver)
	deliver.OperatorID = &operator.ID
	require.NoError(t, db.Save(deliver).Error)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newOrderServiceForTest(db)

	order := placeTestOrder(t, db, svc, customer.ID, product.Slug)

	status := model.OrderStatusDelivering
	updated, err := svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID: order.ID,
		Actor:   deliver,
		Status:  &status,
	})
	require.NoError(t, err)
	// 配送员改单归属到其绑定的操作员
	require.NotNil(t, updated.OperatorID)
	require.Equal(t, operator.ID, *updated.OperatorID)
}

func TestUpdateOrderUserRejected(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newOrderServiceForTest(db)

	order := placeTestOrder(t, db, svc, customer.ID, product.Slug)

	status := model.OrderStatusCanceled
	quantity := 3
	_, err := svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID:  order.ID,
		Actor:    customer,
		Status:   &status,
		Quantity: &quantity,
	})

	// 每个被拒字段都出现在错误里
	var fieldErrs e.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	_, hasStatus := fieldErrs[FieldStatus]
	_, hasQuantity := fieldErrs[FieldQuantity]
	require.True(t, hasStatus)
	require.True(t, hasQuantity)
}

func TestUpdateOrderQuantitySideEffect(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	operator := seedUser(t, db, model.RoleOperator)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newOrderServiceForTest(db)
	ctx := context.Background()

	order := placeTestOrder(t, db, svc, customer.ID, product.Slug)

	// 数量合法但状态非法：请求整体报错
	quantity := 3
	badStatus := "no_such_status"
	_, err := svc.UpdateOrder(ctx, UpdateOrderInput{
		OrderID:  order.ID,
		Actor:    operator,
		Quantity: &quantity,
		Status:   &badStatus,
	})
	var fieldErrs e.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	_, hasStatus := fieldErrs[FieldStatus]
	require.True(t, hasStatus)

	// 但数量的写副作用已经落库：数量、总价、库存都变了
	got, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.Quantity)
	// 50000*3 + 3000
	require.True(t, got.Total.Equal(decimal.NewFromInt(153000)), "got %s", got.Total)

	p, err := dao.NewProductDao(db).GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 7, p.Quantity)
}

func TestUpdateOrderQuantityReturnsStock(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	operator := seedUser(t, db, model.RoleOperator)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newOrderServiceForTest(db)
	ctx := context.Background()

	order := placeTestOrder(t, db, svc, customer.ID, product.Slug)

	quantity := 5
	_, err := svc.UpdateOrder(ctx, UpdateOrderInput{OrderID: order.ID, Actor: operator, Quantity: &quantity})
	require.NoError(t, err)

	// 改小归还差额
	quantity = 2
	updated, err := svc.UpdateOrder(ctx, UpdateOrderInput{OrderID: order.ID, Actor: operator, Quantity: &quantity})
	require.NoError(t, err)
	require.Equal(t, 2, updated.Quantity)

	p, err := dao.NewProductDao(db).GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 8, p.Quantity)
}

func TestUpdateOrderDeliveryDate(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	operator := seedUser(t, db, model.RoleOperator)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newOrderServiceForTest(db)
	ctx := context.Background()

	order := placeTestOrder(t, db, svc, customer.ID, product.Slug)

	// 昨天拒绝
	yesterday := time.Now().AddDate(0, 0, -1)
	_, err := svc.UpdateOrder(ctx, UpdateOrderInput{OrderID: order.ID, Actor: operator, DeliveryDate: &yesterday})
	var fieldErrs e.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	_, hasDate := fieldErrs[FieldDeliveryDate]
	require.True(t, hasDate)

	// 今天允许
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	updated, err := svc.UpdateOrder(ctx, UpdateOrderInput{OrderID: order.ID, Actor: operator, DeliveryDate: &today})
	require.NoError(t, err)
	require.NotNil(t, updated.DeliveryDate)
}

func TestUpdateOrderUnknownStatus(t *testing.T) {
	require.False(t, model.IsValidOrderStatus("paid"))
	require.True(t, model.IsValidOrderStatus(model.OrderStatusArchived))
}

func TestReleaseHeldOrders(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 3000)
	customer := seedUser(t, db, model.RoleUser)
	operator := seedUser(t, db, model.RoleOperator)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newOrderServiceForTest(db)
	ctx := context.Background()

	order := placeTestOrder(t, db, svc, customer.ID, product.Slug)
	_, err := svc.ClaimOrder(ctx, order.ID, operator.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ReleaseHeldOrders(ctx, operator.ID))

	got, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Nil(t, got.HeldBy)
	require.Nil(t, got.HeldUntil)
}

func TestPlaceOrderMissingSettings(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newOrderServiceForTest(db)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerID:  customer.ID,
		ProductSlug: product.Slug,
		Fullname:    "Test Customer",
		PhoneNumber: "998901234567",
	})
	require.True(t, errors.Is(err, dao.ErrSiteSettingsMissing))
}
