// Package detect 把三种探测策略组合成一条确定性的流水线：
//
//  1. 签名探测 (magic bytes) —— 委托给 gabriel-vasile/mimetype
//  2. 标记探测 (SVG/XML/HTML 文本前缀)
//  3. 扩展名表 (仅当调用方提供了文件名)
//
// 三个策略全部落空时返回零值 Result，这不是错误。
package detect

import (
	"github.com/gabriel-vasile/mimetype"
)

// OctetStream 是"未知二进制"的通用占位类型。
// 签名探测返回它时视为没探出来；元数据解析时它也不算一个有信息量的类型。
const OctetStream = "application/octet-stream"

// Result 是一次探测的瞬态结果，只会被合并进属性集，从不单独持久化。
type Result struct {
	// MIME 是探出的媒体类型，可能带参数 (如 "text/plain; charset=utf-8")
	MIME string
	// Extension 是不带点的扩展名 (如 "png")
	Extension string
}

// Empty 表示三个策略都没给出任何信息
func (r Result) Empty() bool { return r.MIME == "" && r.Extension == "" }

// Detect 对字节缓冲区执行完整流水线，filename 可以为空。
// 对相同输入的重复调用永远返回相同结果。
func Detect(data []byte, filename string) Result {
	// 1. 签名探测
	if r, ok := sniffSignature(data); ok {
		// 【关键】签名表对 XML 一族只能停在"这是 XML"。
		// 真正的 SVG/HTML 要靠文本标记再细分一层；细分不出来才保留原判。
		if base := BaseMIME(r.MIME); base == "text/xml" || base == "application/xml" {
			if refined, ok := sniffMarkup(data); ok {
				return refined
			}
		}
		return r
	}

	// 2. 签名没中，直接做标记探测
	if r, ok := sniffMarkup(data); ok {
		return r
	}

	// 3. 最后只看文件名
	if filename != "" {
		return FromFilename(filename)
	}

	return Result{}
}

// sniffSignature 用已知的二进制签名匹配缓冲区前缀。
// mimetype 探不出来时会回退到 application/octet-stream (二进制)
// 或 text/plain (任意合法文本)；它的 text/html 判定同样是扫文本
// 内容得出的。这三个都不是二进制签名命中，当作"没匹配"处理，
// 把 HTML/XML 的裁决权完整留给标记探测那一层。
func sniffSignature(data []byte) (Result, bool) {
	if len(data) == 0 {
		return Result{}, false
	}
	mtype := mimetype.Detect(data)
	if mtype == nil {
		return Result{}, false
	}
	switch base := BaseMIME(mtype.String()); base {
	case OctetStream, "text/plain", "text/html":
		return Result{}, false
	}
	r := Result{MIME: mtype.String()}
	if ext := mtype.Extension(); ext != "" && ext != ".bin" {
		r.Extension = ext[1:] // 去掉前导点
	}
	return r, true
}

// IsGenericMIME 判断一个类型是否"没有信息量"：
// 为空，或等于通用的 octet-stream 占位符。
// 来源声明的类型只是这种占位时，允许内容探测结果覆盖它。
func IsGenericMIME(mimeType string) bool {
	return mimeType == "" || BaseMIME(mimeType) == OctetStream
}
