package utils

import (
	"regexp"
	"strings"
)

var slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 把标题转成URL slug（小写、非字母数字折叠成连字符）
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugInvalidRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
