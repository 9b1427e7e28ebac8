package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Thread 推广链接（"oqim"）：代理对某个商品的带折扣引流链接。
// 折扣必须小于商品的 seller_price，否则代理自己的利润会被吃掉。
type Thread struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID    int64           `gorm:"not null;index" json:"owner_id"`
	Owner      *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	ProductID  int64           `gorm:"not null;index" json:"product_id"`
	Product    *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Discount   decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"discount"`
	VisitCount int64           `gorm:"not null;default:0" json:"visit_count"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (*Thread) TableName() string {
	return "threads"
}

// DiscountPrice 折后单价 = 商品价格 - 折扣
func (t *Thread) DiscountPrice() decimal.Decimal {
	if t.Product == nil {
		return decimal.Zero
	}
	return t.Product.Price.Sub(t.Discount)
}
