package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SiteSettings 站点配置单例行：每笔订单总价都叠加 delivery_price。
// 不做进程内可变单例，由调用方显式注入到定价计算。
type SiteSettings struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	DeliveryPrice decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"delivery_price"`
	// 推广竞赛配置（排行榜时间窗口）
	CompetitionStart  *time.Time `json:"competition_start"`
	CompetitionFinish *time.Time `json:"competition_finish"`
	CompetitionInfo   string     `gorm:"type:text" json:"competition_info"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*SiteSettings) TableName() string {
	return "site_settings"
}
