package e

import (
	"sort"
	"strings"
)

// FieldErrors 字段级校验错误集合：field -> message。
// 一次操作中所有违反的规则都收集进来一起返回，而不是只返回第一条。
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

// Add 记录一个字段错误，同一字段只保留第一条
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Has 是否有错误
func (f FieldErrors) Has() bool {
	return len(f) > 0
}
