package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 订单状态。new 之后的状态之间可以任意流转（扁平重指派，不是严格的状态图）
const (
	OrderStatusNew             = "new"
	OrderStatusReadyToDelivery = "ready_to_delivery"
	OrderStatusDelivering      = "delivering"
	OrderStatusDelivered       = "delivered"
	OrderStatusNotCall         = "not_call"
	OrderStatusCanceled        = "canceled"
	OrderStatusArchived        = "archived"
)

// OrderStatuses 全部合法状态，校验用
var OrderStatuses = []string{
	OrderStatusNew,
	OrderStatusReadyToDelivery,
	OrderStatusDelivering,
	OrderStatusDelivered,
	OrderStatusNotCall,
	OrderStatusCanceled,
	OrderStatusArchived,
}

// IsValidOrderStatus 状态是否合法
func IsValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order 订单模型。customer/product/thread 删除后置空，订单记录保留。
// hold 不是布尔标志而是租约：held_by + held_until，到期自动视为释放。
type Order struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID   *int64          `gorm:"index" json:"customer_id"`
	Customer     *User           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ProductID    *int64          `gorm:"index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ThreadID     *int64          `gorm:"index" json:"thread_id"`
	Thread       *Thread         `gorm:"foreignKey:ThreadID" json:"thread,omitempty"`
	Fullname     string          `gorm:"size:255;not null" json:"fullname"`
	PhoneNumber  string          `gorm:"size:20;not null" json:"phone_number"`
	Quantity     int             `gorm:"not null;default:1" json:"quantity"`
	Total        decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"total"`
	Status       string          `gorm:"size:30;not null;default:new;index" json:"status"`
	OperatorID   *int64          `gorm:"index" json:"operator_id"`
	Operator     *User           `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
	DistrictID   *int64          `gorm:"index" json:"district_id"`
	DeliveryDate *time.Time      `json:"delivery_date"`
	Comment      string          `gorm:"type:text" json:"comment"`
	HeldBy       *int64          `gorm:"index" json:"held_by"`
	HeldUntil    *time.Time      `json:"held_until"`
	CreatedAt    time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime;index" json:"updated_at"`
}

func (*Order) TableName() string {
	return "orders"
}

// HeldAt 租约在 at 时刻是否有效
func (o *Order) HeldAt(at time.Time) bool {
	return o.HeldBy != nil && o.HeldUntil != nil && o.HeldUntil.After(at)
}

// OrderEvent 订单事件审计表，由消费者异步落库
type OrderEvent struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID    string    `gorm:"size:100;not null;uniqueIndex" json:"event_id"`
	OrderID    int64     `gorm:"not null;index" json:"order_id"`
	FromStatus string    `gorm:"size:30" json:"from_status"`
	ToStatus   string    `gorm:"size:30;not null" json:"to_status"`
	ActorID    int64     `json:"actor_id"`
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (*OrderEvent) TableName() string {
	return "order_events"
}
