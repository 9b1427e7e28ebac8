package dao

import "errors"

// dao 层统一错误：条件更新 RowsAffected==0 时返回对应错误，
// 由 service/handler 映射为错误码
var (
	ErrInsufficientStock   = errors.New("库存不足")
	ErrInsufficientBalance = errors.New("余额不足")
	ErrOrderHeld           = errors.New("订单已被其他操作员持有")
	ErrPaymentFinalized    = errors.New("付款单已终审")
	ErrSiteSettingsMissing = errors.New("站点配置缺失")
)
