package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 付款单状态。review 是唯一可变状态，completed/cancel 为终态
const (
	PaymentStatusReview    = "review"
	PaymentStatusCompleted = "completed"
	PaymentStatusCancel    = "cancel"
)

// Payment 提现申请：提交时立即从余额扣款（托管），终审 cancel 时原路退回
type Payment struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *int64          `gorm:"index" json:"user_id"`
	User       *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount     decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"amount"`
	CardNumber string          `gorm:"size:20;not null" json:"card_number"`
	Status     string          `gorm:"size:20;not null;default:review;index" json:"status"`
	ReceiptURL string          `gorm:"size:255" json:"receipt_url"`
	Comment    string          `gorm:"type:text" json:"comment"`
	PayAt      time.Time       `gorm:"autoCreateTime" json:"pay_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*Payment) TableName() string {
	return "payments"
}
