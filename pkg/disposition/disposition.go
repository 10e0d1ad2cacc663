// Package disposition 解析 Content-Disposition 头 (RFC 6266 / RFC 5987)。
//
// 为什么不用标准库 mime.ParseMediaType？
// 因为它对畸形参数是整体拒绝的 (返回 error)，而我们要的是"尽力而为"：
// 单个引号不动、残缺的 %XX 原样保留、未知参数直接忽略。
package disposition

import (
	"strings"
	"unicode/utf8"
)

// Disposition 是一次解析的瞬态结果，由采集流程立即消费。
type Disposition struct {
	// Type 是小写的处置类型，例如 "attachment"、"inline"
	Type string
	// Filename 是解析出的文件名；filename* 优先于 filename
	Filename string
}

// Parse 解析一个头部值。
// 空白输入返回 ok=false；其余情况总能解析出一个 Disposition。
func Parse(header string) (Disposition, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Disposition{}, false
	}

	// 1. 第一个分号之前是处置类型 token，统一转小写
	typ, params, _ := strings.Cut(header, ";")
	d := Disposition{Type: strings.ToLower(strings.TrimSpace(typ))}

	var filename, filenameStar string

	// 2. 逐个解析 ";" 分隔的参数，key 统一小写，只认识两个 key
	for _, param := range strings.Split(params, ";") {
		param = strings.TrimSpace(param)
		if param == "" {
			continue
		}
		key, value, found := strings.Cut(param, "=")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "filename":
			filename = unquote(value)
		case "filename*":
			// RFC 5987 扩展形式: charset'language'value
			// 只取第二个单引号之后的部分，再做百分号解码
			if idx := strings.LastIndex(value, "'"); idx >= 0 {
				value = value[idx+1:]
			}
			// 解码结果按 UTF-8 解释；非法序列替换成 U+FFFD 而不是拒绝
			filenameStar = strings.ToValidUTF8(percentDecode(value), string(utf8.RuneError))
		}
	}

	// 3. 【优先级】filename* 胜过 filename
	if filenameStar != "" {
		d.Filename = filenameStar
	} else {
		d.Filename = filename
	}
	return d, true
}

// unquote 剥掉一层成对的双引号。
// 孤零零的一个引号保持原样 (不是我们该修的数据)。
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// percentDecode 逐字节做 %XX 解码。
// "%" 后面凑不齐两个合法十六进制位时 (包括缓冲区末尾的孤立 %)，
// 按字面量原样拷贝，不报错。
func percentDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) {
			hi := unhex(s[i+1])
			lo := unhex(s[i+2])
			if hi >= 0 && lo >= 0 {
				b.WriteByte(byte(hi<<4 | lo))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func unhex(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}
