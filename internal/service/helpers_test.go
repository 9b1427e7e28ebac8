package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/dao/mysql"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

func seedSettings(t *testing.T, db *gorm.DB, deliveryPrice int64) {
	t.Helper()
	require.NoError(t, dao.NewSettingsDao(db).SaveSettings(context.Background(), &model.SiteSettings{
		DeliveryPrice: decimal.NewFromInt(deliveryPrice),
	}))
}

func seedUser(t *testing.T, db *gorm.DB, role string) *model.User {
	t.Helper()
	user := &model.User{
		PhoneNumber:  fmt.Sprintf("9989%08d", seq(db)),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, price, sellerPrice int64, quantity int) *model.Product {
	t.Helper()
	category := &model.Category{Name: "test", Slug: fmt.Sprintf("cat-%d", seq(db))}
	require.NoError(t, db.Create(category).Error)
	product := &model.Product{
		Title:       "test product",
		Slug:        fmt.Sprintf("product-%d", seq(db)),
		CategoryID:  category.ID,
		Price:       decimal.NewFromInt(price),
		SellerPrice: decimal.NewFromInt(sellerPrice),
		Quantity:    quantity,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedThread(t *testing.T, db *gorm.DB, ownerID, productID, discount int64) *model.Thread {
	t.Helper()
	thread := &model.Thread{
		OwnerID:   ownerID,
		ProductID: productID,
		Name:      "test thread",
		Discount:  decimal.NewFromInt(discount),
	}
	require.NoError(t, db.Create(thread).Error)
	return thread
}

var seqCounter int64

func seq(_ *gorm.DB) int64 {
	seqCounter++
	return seqCounter
}

// newOrderServiceForTest 依赖内存库，不接 Redis 和 MQ
func newOrderServiceForTest(db *gorm.DB) *OrderService {
	return NewOrderService(
		dao.NewOrderDao(db),
		dao.NewProductDao(db),
		dao.NewThreadDao(db),
		dao.NewSettingsDao(db),
		nil,
		nil,
		nil,
	)
}
