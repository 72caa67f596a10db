package service

import (
	"strings"
	"unicode"
)

// Slugify 将标题转换为 URL 安全的别名：
// 小写化，字母数字保留，其余字符折叠为单个连字符。
// 同一标题总是产生同一别名，不做冲突消解（唯一索引会拦截冲突）。
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true // 抑制开头的连字符

	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
