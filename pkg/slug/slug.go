/*
 * @Description: slug 生成与校验
 * @Author: 李志伟
 * @Date: 2025-11-04 10:33:29
 * @LastEditTime: 2026-03-27 20:15:08
 * @LastEditors: 李志伟
 */
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/mozillazg/go-pinyin"
)

// validPattern 允许字母、数字、汉字与连字符，大小写不敏感。
var (
	validPattern    = regexp.MustCompile(`(?i)^[a-z0-9\p{Han}-]+$`)
	collapsePattern = regexp.MustCompile(`-+`)
)

// IsValid 校验一个手工指定的 slug 是否合法。
func IsValid(s string) bool {
	return validPattern.MatchString(s)
}

// Derive 从标题派生 slug：汉字转为拼音，其余字符小写化，
// 无法表示的字符折叠为连字符。派生结果为空时返回空串，由调用方决定兜底策略。
func Derive(title string) string {
	args := pinyin.NewArgs()

	var sb strings.Builder
	for _, r := range title {
		switch {
		case unicode.Is(unicode.Han, r):
			// 多音字取首个读音
			if py := pinyin.SinglePinyin(r, args); len(py) > 0 {
				if sb.Len() > 0 {
					sb.WriteByte('-')
				}
				sb.WriteString(py[0])
				sb.WriteByte('-')
			}
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteByte('-')
		}
	}

	// 折叠连续的连字符并去除首尾
	collapsed := collapsePattern.ReplaceAllString(sb.String(), "-")
	return strings.Trim(collapsed, "-")
}

// RandomToken 返回一段随机短标识，用于派生结果为空时的兜底 slug。
func RandomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
