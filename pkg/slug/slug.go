// Package slug 把标题转换为 URL 安全的 slug
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength slug 的最大字节数，与 terms.slug 列宽一致
const MaxLength = 200

// Sanitize 生成 slug：
// 去掉重音符号，转小写，非字母数字的连续字符折叠为单个 '-'，去掉首尾 '-'
func Sanitize(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		title,
	)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case r == '_':
			// 保留下划线
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	return truncate(strings.Trim(b.String(), "-"), MaxLength)
}

// truncate 按字节截断，但不切断多字节字符
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := 0
	for i := range s {
		if i > max {
			break
		}
		cut = i
	}
	return strings.TrimRight(s[:cut], "-")
}

// WithSuffix 拼接 base 和 suffix，必要时截短 base 使结果不超过 MaxLength
func WithSuffix(base, suffix string) string {
	if len(base)+len(suffix) <= MaxLength {
		return base + suffix
	}
	if len(suffix) >= MaxLength {
		return truncate(base+suffix, MaxLength)
	}
	return truncate(base, MaxLength-len(suffix)) + suffix
}
