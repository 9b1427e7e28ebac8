package e

// 错误码定义
const (
	SUCCESS        = 0
	ERROR          = 1
	INVALID_PARAMS = 2

	ERROR_AUTH_CHECK_TOKEN_FAIL    = 10001
	ERROR_AUTH_CHECK_TOKEN_TIMEOUT = 10002
	ERROR_AUTH_TOKEN               = 10003
	ERROR_AUTH                     = 10004
	ERROR_FORBIDDEN                = 10005

	ERROR_USER_NOT_EXISTS = 20001
	ERROR_PASSWORD        = 20002

	ERROR_PRODUCT_NOT_EXISTS = 30001
	ERROR_STOCK_NOT_ENOUGH   = 30002

	ERROR_ORDER_NOT_EXISTS    = 40001
	ERROR_ORDER_HELD          = 40002
	ERROR_ORDER_VALIDATION    = 40003
	ERROR_ORDER_DUPLICATE     = 40004

	ERROR_PAYMENT_NOT_EXISTS     = 50001
	ERROR_PAYMENT_MIN_AMOUNT     = 50002
	ERROR_PAYMENT_CARD_NUMBER    = 50003
	ERROR_PAYMENT_BALANCE        = 50004
	ERROR_PAYMENT_FINALIZED      = 50005

	ERROR_THREAD_NOT_EXISTS = 60001
	ERROR_THREAD_DISCOUNT   = 60002

	// 站点配置缺失属于部署故障，与用户输入错误区分开
	ERROR_SITE_SETTINGS_MISSING = 70001
)

var MsgFlags = map[int]string{
	SUCCESS:        "成功",
	ERROR:          "失败",
	INVALID_PARAMS: "请求参数错误",

	ERROR_AUTH_CHECK_TOKEN_FAIL:    "Token验证失败",
	ERROR_AUTH_CHECK_TOKEN_TIMEOUT: "Token已超时",
	ERROR_AUTH_TOKEN:               "Token生成失败",
	ERROR_AUTH:                     "认证失败",
	ERROR_FORBIDDEN:                "没有操作权限",

	ERROR_USER_NOT_EXISTS: "用户不存在",
	ERROR_PASSWORD:        "密码错误",

	ERROR_PRODUCT_NOT_EXISTS: "商品不存在",
	ERROR_STOCK_NOT_ENOUGH:   "库存不足",

	ERROR_ORDER_NOT_EXISTS: "订单不存在",
	ERROR_ORDER_HELD:       "订单正被其他操作员处理",
	ERROR_ORDER_VALIDATION: "订单字段校验失败",
	ERROR_ORDER_DUPLICATE:  "请勿重复提交订单",

	ERROR_PAYMENT_NOT_EXISTS:  "付款单不存在",
	ERROR_PAYMENT_MIN_AMOUNT:  "低于最小提现金额",
	ERROR_PAYMENT_CARD_NUMBER: "银行卡号无效",
	ERROR_PAYMENT_BALANCE:     "余额不足",
	ERROR_PAYMENT_FINALIZED:   "付款单已终审，不能重复处理",

	ERROR_THREAD_NOT_EXISTS: "推广链接不存在",
	ERROR_THREAD_DISCOUNT:   "折扣超过允许上限",

	ERROR_SITE_SETTINGS_MISSING: "站点配置缺失",
}

func GetMsg(code int) string {
	msg, ok := MsgFlags[code]
	if ok {
		return msg
	}
	return MsgFlags[ERROR]
}
