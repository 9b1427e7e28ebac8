package service

import (
	"context"
	"testing"

	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newThreadServiceForTest(db *gorm.DB) *ThreadService {
	return NewThreadService(dao.NewThreadDao(db), dao.NewProductDao(db))
}

func TestCreateThreadDiscountBound(t *testing.T) {
	db := newTestDB(t)
	agent := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newThreadServiceForTest(db)
	ctx := context.Background()

	// 折扣等于 seller_price 拒绝
	_, err := svc.CreateThread(ctx, agent.ID, product.ID, "test", decimal.NewFromInt(10000))
	var fieldErrs e.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	_, hasDiscount := fieldErrs["discount"]
	require.True(t, hasDiscount)

	// 负折扣拒绝
	_, err = svc.CreateThread(ctx, agent.ID, product.ID, "test", decimal.NewFromInt(-1))
	require.ErrorAs(t, err, &fieldErrs)

	// 小于上限的折扣通过
	thread, err := svc.CreateThread(ctx, agent.ID, product.ID, "test", decimal.RequireFromString("9999.99"))
	require.NoError(t, err)
	require.True(t, thread.Discount.Equal(decimal.RequireFromString("9999.99")))
	// 折后价
	require.True(t, thread.DiscountPrice().Equal(decimal.RequireFromString("40000.01")),
		"got %s", thread.DiscountPrice())
}

func TestCreateThreadEmptyName(t *testing.T) {
	db := newTestDB(t)
	agent := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, 50000, 10000, 10)
	svc := newThreadServiceForTest(db)

	_, err := svc.CreateThread(context.Background(), agent.ID, product.ID, "", decimal.Zero)
	var fieldErrs e.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	_, hasName := fieldErrs["name"]
	require.True(t, hasName)
}

func TestVisitThreadIncrements(t *testing.T) {
	db := newTestDB(t)
	agent := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, 50000, 10000, 10)
	thread := seedThread(t, db, agent.ID, product.ID, 5000)
	svc := newThreadServiceForTest(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.VisitThread(ctx, thread.ID)
		require.NoError(t, err)
	}

	got, err := svc.VisitThread(ctx, thread.ID)
	require.NoError(t, err)
	require.Equal(t, int64(4), got.VisitCount)
	require.NotNil(t, got.Product)
}

func TestListThreadsScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	agent1 := seedUser(t, db, model.RoleUser)
	agent2 := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, 50000, 10000, 10)
	seedThread(t, db, agent1.ID, product.ID, 1000)
	seedThread(t, db, agent1.ID, product.ID, 2000)
	seedThread(t, db, agent2.ID, product.ID, 3000)
	svc := newThreadServiceForTest(db)

	threads, err := svc.ListThreads(context.Background(), agent1.ID)
	require.NoError(t, err)
	require.Len(t, threads, 2)
}
