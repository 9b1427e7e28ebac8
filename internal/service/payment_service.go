package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/pkg/e"
	"github.com/qwertyllionman/Alijahon/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// 最小提现金额
var minPaymentAmount = decimal.NewFromInt(1000)

var ErrInvalidPaymentStatus = errors.New("非法的付款单终态")

type PaymentService struct {
	paymentDao *dao.PaymentDao
	userDao    *dao.UserDao
	redisDB    redis.UniversalClient
}

func NewPaymentService(paymentDao *dao.PaymentDao, userDao *dao.UserDao, redisDB redis.UniversalClient) *PaymentService {
	return &PaymentService{
		paymentDao: paymentDao,
		userDao:    userDao,
		redisDB:    redisDB,
	}
}

// SubmitPayment 提交提现申请：金额和卡号的校验错误一起收集返回；
// 校验通过后余额立即原子扣减（提交即托管，不是挂账），
// 之后创建 review 状态的付款单等人工终审
func (s *PaymentService) SubmitPayment(ctx context.Context, userID int64, amount decimal.Decimal, cardNumber string) (*model.Payment, error) {
	fieldErrs := e.FieldErrors{}

	if amount.LessThan(minPaymentAmount) {
		fieldErrs.Add("amount", "最小金额为1000")
	}

	card := strings.ReplaceAll(cardNumber, " ", "")
	if len(card) != 16 || !isDigits(card) {
		fieldErrs.Add("card_number", "卡号必须是16位数字")
	}

	if fieldErrs.Has() {
		return nil, fieldErrs
	}

	// 同一用户短时间内只允许一笔在途提交
	if s.redisDB != nil {
		lockKey := fmt.Sprintf("payment:lock:user:%d", userID)
		lctx, lcancel := context.WithTimeout(ctx, 200*time.Millisecond)
		locked, err := s.redisDB.SetNX(lctx, lockKey, "1", 5*time.Second).Result()
		lcancel()
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrDuplicateOrder
		}
		defer func() {
			c, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			_ = s.redisDB.Del(c, lockKey).Err()
		}()
	}

	// 余额检查和扣减是同一条条件更新，超额提交不会把余额扣负
	if err := s.userDao.DebitBalance(ctx, userID, amount); err != nil {
		return nil, err
	}

	payment := &model.Payment{
		UserID:     &userID,
		Amount:     amount,
		CardNumber: card,
		Status:     model.PaymentStatusReview,
	}
	if err := s.paymentDao.CreatePayment(ctx, payment); err != nil {
		// 建单失败把钱退回去
		if cerr := s.userDao.CreditBalance(context.Background(), userID, amount); cerr != nil {
			logger.Error("付款单创建失败后退款失败", "user_id", userID, "err", cerr)
		}
		return nil, err
	}

	return payment, nil
}

// ResolvePayment 管理员终审。completed 不动余额（提交时已扣），
// cancel 补偿入账一次。条件更新保证已终审的单再处理会失败，
// 重复 cancel 不可能二次入账
func (s *PaymentService) ResolvePayment(ctx context.Context, paymentID int64, newStatus, comment string) (*model.Payment, error) {
	if newStatus != model.PaymentStatusCompleted && newStatus != model.PaymentStatusCancel {
		return nil, ErrInvalidPaymentStatus
	}

	payment, err := s.paymentDao.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := s.paymentDao.FinalizePayment(ctx, paymentID, newStatus, comment); err != nil {
		return nil, err
	}

	if newStatus == model.PaymentStatusCancel && payment.UserID != nil {
		if err := s.userDao.CreditBalance(ctx, *payment.UserID, payment.Amount); err != nil {
			// 终态已落库但补偿失败，记日志等人工对账
			logger.Error("付款单取消补偿入账失败", "payment_id", paymentID, "user_id", *payment.UserID, "err", err)
			return nil, err
		}
	}

	return s.paymentDao.GetPaymentByID(ctx, paymentID)
}

// ListPayments 用户的付款单列表
func (s *PaymentService) ListPayments(ctx context.Context, userID int64) ([]*model.Payment, error) {
	return s.paymentDao.ListPaymentsByUser(ctx, userID)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
