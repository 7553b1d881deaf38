package slug

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldName 返回名称的大小写折叠形式，用于大小写不敏感的比较
// 按 Unicode 规则折叠，"Éclair" 与 "éclair" 得到相同结果
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
