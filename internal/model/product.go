package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
	Slug string `gorm:"size:255;uniqueIndex" json:"slug"`
	Icon string `gorm:"size:255" json:"icon"`
}

func (*Category) TableName() string {
	return "categories"
}

// Product 商品模型。seller_price 是代理的进货价，约束 seller_price <= price，
// 同时是推广链接折扣的上限。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Slug        string          `gorm:"size:255;uniqueIndex" json:"slug"`
	CategoryID  int64           `gorm:"not null;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	SellerPrice decimal.Decimal `gorm:"type:decimal(9,2);not null;default:0" json:"seller_price"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	ImageURL    string          `gorm:"size:255" json:"image_url"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*Product) TableName() string {
	return "products"
}
