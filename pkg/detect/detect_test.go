package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// PNG 文件头: 89 50 4E 47 0D 0A 1A 0A + IHDR 块开头
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

// 一段签名表认不出的二进制垃圾 (会落到 octet-stream)
var garbageBytes = []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE, 0x80, 0x81}

func TestDetectSignatures(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantMIME string
		wantExt  string
	}{
		{
			name:     "PNG 魔数",
			data:     pngHeader,
			wantMIME: "image/png",
			wantExt:  "png",
		},
		{
			name:     "JPEG 魔数",
			data:     []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00},
			wantMIME: "image/jpeg",
			wantExt:  "jpg",
		},
		{
			name:     "PDF 头",
			data:     []byte("%PDF-1.4 some content here enough bytes"),
			wantMIME: "application/pdf",
			wantExt:  "pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Detect(tt.data, "")
			assert.Equal(t, tt.wantMIME, r.MIME)
			assert.Equal(t, tt.wantExt, r.Extension)
		})
	}
}

func TestDetectMarkup(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantMIME string
		wantExt  string
	}{
		{
			name:     "裸 SVG",
			data:     []byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect/></svg>`),
			wantMIME: "image/svg+xml",
			wantExt:  "svg",
		},
		{
			// 【容易回归】XML 序言 + SVG 正文必须判成 SVG 而不是普通 XML
			name:     "XML 序言包着的 SVG",
			data:     []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"><rect/></svg>`),
			wantMIME: "image/svg+xml",
			wantExt:  "svg",
		},
		{
			name:     "普通 XML",
			data:     []byte(`<?xml version="1.0"?><root><item/></root>`),
			wantMIME: "application/xml",
			wantExt:  "xml",
		},
		{
			name:     "DOCTYPE 声明的 XML",
			data:     []byte(`<!DOCTYPE note SYSTEM "note.dtd"><note></note>`),
			wantMIME: "application/xml",
			wantExt:  "xml",
		},
		{
			// 【容易回归】DOCTYPE 规则在 HTML 规则之前：
			// <!DOCTYPE html 也是一个 DOCTYPE 声明，判成 XML 而不是 HTML
			name:     "HTML doctype 落进 DOCTYPE 规则",
			data:     []byte(`<!DOCTYPE html><html><body>hello</body></html>`),
			wantMIME: "application/xml",
			wantExt:  "xml",
		},
		{
			name:     "裸 <html> 前缀",
			data:     []byte(`<html><body>hello</body></html>`),
			wantMIME: "text/html",
			wantExt:  "html",
		},
		{
			name:     "前导空白不影响判定",
			data:     []byte("\n\t  <svg></svg>"),
			wantMIME: "image/svg+xml",
			wantExt:  "svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Detect(tt.data, "")
			assert.Equal(t, tt.wantMIME, r.MIME)
			assert.Equal(t, tt.wantExt, r.Extension)
		})
	}
}

func TestDetectFilenameFallback(t *testing.T) {
	// 认不出的字节 + 文件名 -> 走扩展名表
	r := Detect(garbageBytes, "notes.txt")
	assert.Equal(t, "text/plain", r.MIME)
	assert.Equal(t, "txt", r.Extension)

	// 认不出的字节 + 没有文件名 -> 两个字段都为空，但不是错误
	r = Detect(garbageBytes, "")
	assert.True(t, r.Empty())

	// 普通文本不算签名命中：没有文件名就什么都探不出
	r = Detect([]byte("some random text content"), "")
	assert.True(t, r.Empty())
	r = Detect([]byte("some random text content"), "notes.txt")
	assert.Equal(t, "text/plain", r.MIME)
	assert.Equal(t, "txt", r.Extension)

	// 内容能认出来时，文件名完全不参与
	r = Detect(pngHeader, "misleading.txt")
	assert.Equal(t, "image/png", r.MIME)
	assert.Equal(t, "png", r.Extension)
}

func TestDetectDeterministic(t *testing.T) {
	// 相同输入必须得到相同输出
	inputs := [][]byte{pngHeader, garbageBytes, []byte(`<svg/>`), nil}
	for _, in := range inputs {
		first := Detect(in, "a.dat")
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Detect(in, "a.dat"))
		}
	}
}

func TestDetectEmptyBuffer(t *testing.T) {
	r := Detect(nil, "")
	assert.True(t, r.Empty())
	// 空缓冲区 + 文件名：仍然可以走扩展名表
	r = Detect(nil, "photo.png")
	assert.Equal(t, "image/png", r.MIME)
	assert.Equal(t, "png", r.Extension)
}

func TestMIMEFromExtension(t *testing.T) {
	tests := []struct {
		ext    string
		want   string
		wantOK bool
	}{
		{"txt", "text/plain", true},
		{".txt", "text/plain", true}, // 容忍带点形式
		{"PNG", "image/png", true},   // 大小写不敏感
		{"pdf", "application/pdf", true},
		{"", "", false},
		{"zzzzunknown", "", false},
	}
	for _, tt := range tests {
		got, ok := MIMEFromExtension(tt.ext)
		assert.Equal(t, tt.wantOK, ok, "ext=%q", tt.ext)
		assert.Equal(t, tt.want, got, "ext=%q", tt.ext)
	}
}

func TestExtensionFromMIME(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
		wantOK   bool
	}{
		{"image/png", "png", true},
		{"application/pdf", "pdf", true},
		// 参数要先剥掉
		{"text/plain; charset=utf-8", "txt", true},
		// jpeg 有两个扩展名，必须确定性地取表里先出现的
		{"image/jpeg", "jpg", true},
		{"totally/unknown-mime", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtensionFromMIME(tt.mimeType)
		assert.Equal(t, tt.wantOK, ok, "mime=%q", tt.mimeType)
		assert.Equal(t, tt.want, got, "mime=%q", tt.mimeType)
	}
}

func TestFromFilename(t *testing.T) {
	r := FromFilename("archive.tar.gz")
	assert.Equal(t, "gz", r.Extension)
	assert.Equal(t, "application/gzip", r.MIME)

	// 没有后缀 -> 零值
	assert.True(t, FromFilename("noext").Empty())
	assert.True(t, FromFilename("").Empty())
}

func TestIsGenericMIME(t *testing.T) {
	assert.True(t, IsGenericMIME(""))
	assert.True(t, IsGenericMIME("application/octet-stream"))
	assert.True(t, IsGenericMIME("application/octet-stream; foo=bar"))
	assert.False(t, IsGenericMIME("image/png"))
}
