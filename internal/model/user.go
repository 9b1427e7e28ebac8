package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 用户角色
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleDeliver  = "deliver"
	RoleUser     = "user"
)

// User 用户模型：手机号是唯一登录标识，余额由台账原子调整
type User struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	PhoneNumber  string          `gorm:"size:20;not null;uniqueIndex" json:"phone_number"`
	PasswordHash string          `gorm:"size:255;not null" json:"-"`
	Role         string          `gorm:"size:20;not null;default:user" json:"role"`
	FirstName    string          `gorm:"size:100" json:"first_name"`
	LastName     string          `gorm:"size:100" json:"last_name"`
	TelegramID   string          `gorm:"size:255" json:"telegram_id"`
	About        string          `gorm:"type:text" json:"about"`
	Address      string          `gorm:"size:255" json:"address"`
	DistrictID   *int64          `gorm:"index" json:"district_id"`
	Balance      decimal.Decimal `gorm:"type:decimal(11,2);not null;default:0" json:"balance"`
	// 配送员绑定的操作员，配送员改单时订单归属回这个操作员
	OperatorID *int64    `gorm:"index" json:"operator_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*User) TableName() string {
	return "users"
}

type Region struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

func (*Region) TableName() string {
	return "regions"
}

type District struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	RegionID int64  `gorm:"not null;index" json:"region_id"`
}

func (*District) TableName() string {
	return "districts"
}

// WishList 收藏：同一用户同一商品只允许一条
type WishList struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64 `gorm:"not null;uniqueIndex:uniq_wishlist_user_product" json:"user_id"`
	ProductID int64 `gorm:"not null;uniqueIndex:uniq_wishlist_user_product" json:"product_id"`
}

func (*WishList) TableName() string {
	return "wishlists"
}
