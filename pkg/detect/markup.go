// pkg/detect/markup.go
package detect

import (
	"strings"
	"unicode/utf8"
)

// 文本探测最多看的前缀长度。
// 整个缓冲区不是合法 UTF-8 时，只重试开头这一段 (SVG/XML 的标记都在最前面)。
const markupProbeLimit = 4096

// sniffMarkup 通过结构前缀识别 SVG / XML / HTML。
// 二进制签名表在这类文本格式上是靠不住的 (SVG 和普通 XML 开头字节一致)，
// 所以必须看解码后的文本。
func sniffMarkup(data []byte) (Result, bool) {
	text, ok := decodeProbe(data)
	if !ok {
		return Result{}, false
	}
	trimmed := strings.TrimLeft(text, " \t\r\n")

	// 1. SVG: 直接以 <svg 开头，或 XML 序言 + 正文里出现 <svg
	if strings.HasPrefix(trimmed, "<svg") ||
		(strings.HasPrefix(trimmed, "<?xml") && strings.Contains(trimmed, "<svg")) {
		return Result{MIME: "image/svg+xml", Extension: "svg"}, true
	}

	// 2. 普通 XML: XML 序言或 DOCTYPE 声明。
	// 注意优先级：<!DOCTYPE html 也落在这条规则里，判成 XML —— DOCTYPE
	// 本身就是一个 SGML/XML 声明，HTML 规则只认裸的 <html 前缀
	if strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<!DOCTYPE") {
		return Result{MIME: "application/xml", Extension: "xml"}, true
	}

	// 3. HTML
	if strings.HasPrefix(trimmed, "<html") {
		return Result{MIME: "text/html", Extension: "html"}, true
	}

	return Result{}, false
}

// decodeProbe 尝试把整个缓冲区按 UTF-8 解码；
// 失败则退回只解码前 markupProbeLimit 字节；再失败就放弃。
func decodeProbe(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	if utf8.Valid(data) {
		return string(data), true
	}
	limit := min(len(data), markupProbeLimit)
	if utf8.Valid(data[:limit]) {
		return string(data[:limit]), true
	}
	return "", false
}
