// pkg/detect/exttable.go
package detect

import (
	"mime"
	"path/filepath"
	"strings"
)

// 静态的 扩展名 <-> MIME 双向表。
// 维护成有序切片而不是裸 map：反向查找 (MIME -> 扩展名) 必须是确定性的，
// 同一个 MIME 对应多个扩展名时 (如 jpg/jpeg)，永远取先出现的那个。
var tableEntries = []struct {
	ext      string
	mimeType string
}{
	{"txt", "text/plain"},
	{"html", "text/html"},
	{"htm", "text/html"},
	{"css", "text/css"},
	{"js", "text/javascript"},
	{"json", "application/json"},
	{"xml", "application/xml"},
	{"csv", "text/csv"},
	{"md", "text/markdown"},
	{"jpg", "image/jpeg"},
	{"jpeg", "image/jpeg"},
	{"png", "image/png"},
	{"gif", "image/gif"},
	{"svg", "image/svg+xml"},
	{"webp", "image/webp"},
	{"bmp", "image/bmp"},
	{"ico", "image/x-icon"},
	{"tif", "image/tiff"},
	{"tiff", "image/tiff"},
	{"mp3", "audio/mpeg"},
	{"ogg", "audio/ogg"},
	{"wav", "audio/wav"},
	{"flac", "audio/flac"},
	{"mp4", "video/mp4"},
	{"webm", "video/webm"},
	{"avi", "video/x-msvideo"},
	{"mov", "video/quicktime"},
	{"pdf", "application/pdf"},
	{"zip", "application/zip"},
	{"gz", "application/gzip"},
	{"tar", "application/x-tar"},
	{"7z", "application/x-7z-compressed"},
	{"rar", "application/vnd.rar"},
	{"doc", "application/msword"},
	{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	{"xls", "application/vnd.ms-excel"},
	{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	{"ppt", "application/vnd.ms-powerpoint"},
	{"pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
	{"woff", "font/woff"},
	{"woff2", "font/woff2"},
	{"ttf", "font/ttf"},
	{"otf", "font/otf"},
	{"wasm", "application/wasm"},
	{"bin", "application/octet-stream"},
}

var (
	extToMIME = make(map[string]string, len(tableEntries))
	mimeToExt = make(map[string]string, len(tableEntries))
)

func init() {
	for _, e := range tableEntries {
		extToMIME[e.ext] = e.mimeType
		if _, seen := mimeToExt[e.mimeType]; !seen {
			mimeToExt[e.mimeType] = e.ext
		}
	}
}

// BaseMIME 去掉媒体类型的参数部分 ("text/plain; charset=utf-8" -> "text/plain")
func BaseMIME(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.TrimSpace(strings.ToLower(mimeType))
}

// MIMEFromExtension 扩展名 -> MIME 类型 (扩展名不带点)。
// 查不到返回 ok=false，永远不报错。
func MIMEFromExtension(ext string) (string, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return "", false
	}
	if mt, ok := extToMIME[ext]; ok {
		return mt, true
	}
	// 静态表没覆盖的冷门扩展名，交给标准库兜底
	if mt := mime.TypeByExtension("." + ext); mt != "" {
		return BaseMIME(mt), true
	}
	return "", false
}

// ExtensionFromMIME MIME 类型 -> 首选扩展名 (不带点)。
func ExtensionFromMIME(mimeType string) (string, bool) {
	base := BaseMIME(mimeType)
	if base == "" {
		return "", false
	}
	if ext, ok := mimeToExt[base]; ok {
		return ext, true
	}
	exts, err := mime.ExtensionsByType(base)
	if err != nil || len(exts) == 0 {
		return "", false
	}
	return strings.TrimPrefix(exts[0], "."), true
}

// FromFilename 只看文件名后缀，完全不看内容。
// 没有后缀或后缀不认识时返回零值 Result。
func FromFilename(name string) Result {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return Result{}
	}
	r := Result{Extension: strings.ToLower(ext)}
	if mt, ok := MIMEFromExtension(ext); ok {
		r.MIME = mt
	}
	return r
}
