package service

import "github.com/qwertyllionman/Alijahon/internal/model"

// FieldRule 描述某个角色对订单某个字段的处置方式。
// 用数据表代替散落的条件分支：(role, field) -> 规则
type FieldRule int

const (
	// RuleReject 不允许该角色改这个字段
	RuleReject FieldRule = iota
	// RuleAllow 照提交值接受
	RuleAllow
	// RuleForceSelf 忽略提交值，强制写成操作者自己（操作员改单时归属自己）
	RuleForceSelf
	// RuleForceConfiguredOperator 忽略提交值，写成配送员绑定的操作员
	RuleForceConfiguredOperator
)

// 订单可变字段名
const (
	FieldOperator     = "operator"
	FieldQuantity     = "quantity"
	FieldStatus       = "status"
	FieldDistrict     = "district"
	FieldComment      = "comment"
	FieldDeliveryDate = "delivery_date"
)

// orderFieldPolicy 订单字段的角色权限表
var orderFieldPolicy = map[string]map[string]FieldRule{
	model.RoleAdmin: {
		FieldOperator:     RuleAllow,
		FieldQuantity:     RuleAllow,
		FieldStatus:       RuleAllow,
		FieldDistrict:     RuleAllow,
		FieldComment:      RuleAllow,
		FieldDeliveryDate: RuleAllow,
	},
	model.RoleOperator: {
		FieldOperator:     RuleForceSelf,
		FieldQuantity:     RuleAllow,
		FieldStatus:       RuleAllow,
		FieldDistrict:     RuleAllow,
		FieldComment:      RuleAllow,
		FieldDeliveryDate: RuleAllow,
	},
	model.RoleDeliver: {
		FieldOperator:     RuleForceConfiguredOperator,
		FieldQuantity:     RuleAllow,
		FieldStatus:       RuleAllow,
		FieldDistrict:     RuleAllow,
		FieldComment:      RuleAllow,
		FieldDeliveryDate: RuleAllow,
	},
	// 普通用户不能改任何字段
	model.RoleUser: {},
}

// FieldRuleFor 查询角色对字段的规则，未知角色/字段一律拒绝
func FieldRuleFor(role, field string) FieldRule {
	fields, ok := orderFieldPolicy[role]
	if !ok {
		return RuleReject
	}
	rule, ok := fields[field]
	if !ok {
		return RuleReject
	}
	return rule
}
