package e

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	require.False(t, fe.Has())

	fe.Add("quantity", "数量必须大于0")
	fe.Add("status", "未知的订单状态")
	// 同一字段只保留第一条
	fe.Add("quantity", "另一条")

	require.True(t, fe.Has())
	require.Equal(t, "数量必须大于0", fe["quantity"])

	// 错误串按字段名排序，输出稳定
	require.Equal(t, "quantity: 数量必须大于0; status: 未知的订单状态", fe.Error())
}
