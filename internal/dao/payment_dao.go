package dao

import (
	"context"

	"github.com/qwertyllionman/Alijahon/internal/model"
	"gorm.io/gorm"
)

type PaymentDao struct {
	db *gorm.DB
}

func NewPaymentDao(db *gorm.DB) *PaymentDao {
	return &PaymentDao{
		db: db,
	}
}

// CreatePayment 创建付款单
func (d *PaymentDao) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return d.db.WithContext(ctx).Create(payment).Error
}

// GetPaymentByID 根据ID获取付款单
func (d *PaymentDao) GetPaymentByID(ctx context.Context, paymentID int64) (*model.Payment, error) {
	var payment model.Payment
	err := d.db.WithContext(ctx).Where("id = ?", paymentID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPaymentsByUser 用户的付款单列表
func (d *PaymentDao) ListPaymentsByUser(ctx context.Context, userID int64) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("pay_at DESC").
		Find(&payments).Error
	return payments, err
}

// FinalizePayment 终审：只允许 review -> completed/cancel 单向流转。
// 已终审的单 RowsAffected==0，返回 ErrPaymentFinalized，
// 重复 cancel 不可能二次入账
func (d *PaymentDao) FinalizePayment(ctx context.Context, paymentID int64, toStatus, comment string) error {
	result := d.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status = ?", paymentID, model.PaymentStatusReview).
		Updates(map[string]interface{}{
			"status":  toStatus,
			"comment": comment,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentFinalized
	}
	return nil
}
