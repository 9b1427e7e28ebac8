package service

import (
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/shopspring/decimal"
)

// UnitPrice 订单单价：有推广链接用折后价，否则用商品原价。
// 链接解析失败时调用方传 nil，静默回退到原价，不算错误
func UnitPrice(product *model.Product, thread *model.Thread) decimal.Decimal {
	if thread != nil {
		return product.Price.Sub(thread.Discount)
	}
	return product.Price
}

// ComputeTotal 订单总价 = 单价 * 数量 + 全站配送费。
// 创建和改数量两条路径都走这一个公式（创建时数量为1）
func ComputeTotal(product *model.Product, thread *model.Thread, quantity int, deliveryPrice decimal.Decimal) decimal.Decimal {
	return UnitPrice(product, thread).
		Mul(decimal.NewFromInt(int64(quantity))).
		Add(deliveryPrice)
}
