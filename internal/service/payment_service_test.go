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

func newPaymentServiceForTest(db *gorm.DB) (*PaymentService, *dao.UserDao) {
	userDao := dao.NewUserDao(db)
	return NewPaymentService(dao.NewPaymentDao(db), userDao, nil), userDao
}

func seedBalance(t *testing.T, db *gorm.DB, userID int64, balance int64) {
	t.Helper()
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", userID).
		Update("balance", decimal.NewFromInt(balance)).Error)
}

func TestSubmitPaymentValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, model.RoleUser)
	svc, _ := newPaymentServiceForTest(db)
	ctx := context.Background()

	// 金额和卡号的错误一起返回
	_, err := svc.SubmitPayment(ctx, user.ID, decimal.RequireFromString("999.99"), "1234")
	var fieldErrs e.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	_, hasAmount := fieldErrs["amount"]
	_, hasCard := fieldErrs["card_number"]
	require.True(t, hasAmount)
	require.True(t, hasCard)

	// 15位卡号不行
	_, err = svc.SubmitPayment(ctx, user.ID, decimal.NewFromInt(1000), "123456789012345")
	require.ErrorAs(t, err, &fieldErrs)
	_, hasCard = fieldErrs["card_number"]
	require.True(t, hasCard)

	// 卡号里的空格剔除后16位数字合法
	seedBalance(t, db, user.ID, 5000)
	payment, err := svc.SubmitPayment(ctx, user.ID, decimal.NewFromInt(1000), "8600 1234 5678 9012")
	require.NoError(t, err)
	require.Equal(t, "8600123456789012", payment.CardNumber)
	require.Equal(t, model.PaymentStatusReview, payment.Status)
}

func TestSubmitPaymentDebitsBalance(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, model.RoleUser)
	seedBalance(t, db, user.ID, 5000)
	svc, userDao := newPaymentServiceForTest(db)
	ctx := context.Background()

	_, err := svc.SubmitPayment(ctx, user.ID, decimal.NewFromInt(3000), "8600123456789012")
	require.NoError(t, err)

	got, err := userDao.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(2000)), "got %s", got.Balance)

	// 余额不足的提交被条件更新挡住，余额不变
	_, err = svc.SubmitPayment(ctx, user.ID, decimal.NewFromInt(3000), "8600123456789012")
	require.ErrorIs(t, err, dao.ErrInsufficientBalance)

	got, err = userDao.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(2000)), "got %s", got.Balance)
}

func TestResolvePaymentCompleted(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, model.RoleUser)
	seedBalance(t, db, user.ID, 5000)
	svc, userDao := newPaymentServiceForTest(db)
	ctx := context.Background()

	payment, err := svc.SubmitPayment(ctx, user.ID, decimal.NewFromInt(3000), "8600123456789012")
	require.NoError(t, err)

	// completed 不动余额（提交时已扣）
	resolved, err := svc.ResolvePayment(ctx, payment.ID, model.PaymentStatusCompleted, "打款完成")
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusCompleted, resolved.Status)

	got, err := userDao.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(2000)), "got %s", got.Balance)
}

func TestResolvePaymentCancelRefundsOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, model.RoleUser)
	seedBalance(t, db, user.ID, 5000)
	svc, userDao := newPaymentServiceForTest(db)
	ctx := context.Background()

	payment, err := svc.SubmitPayment(ctx, user.ID, decimal.NewFromInt(3000), "8600123456789012")
	require.NoError(t, err)

	// cancel 返还一次
	resolved, err := svc.ResolvePayment(ctx, payment.ID, model.PaymentStatusCancel, "卡号有误")
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusCancel, resolved.Status)

	got, err := userDao.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(5000)), "got %s", got.Balance)

	// 重复 cancel 被终态守卫拦下，不会二次入账
	_, err = svc.ResolvePayment(ctx, payment.ID, model.PaymentStatusCancel, "再取消一次")
	require.ErrorIs(t, err, dao.ErrPaymentFinalized)

	got, err = userDao.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(5000)), "got %s", got.Balance)
}

func TestResolvePaymentInvalidStatus(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newPaymentServiceForTest(db)

	// review 不是终态，其他乱值也不行
	_, err := svc.ResolvePayment(context.Background(), 1, model.PaymentStatusReview, "")
	require.ErrorIs(t, err, ErrInvalidPaymentStatus)

	_, err = svc.ResolvePayment(context.Background(), 1, "refunded", "")
	require.ErrorIs(t, err, ErrInvalidPaymentStatus)
}
