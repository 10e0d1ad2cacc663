// Package metadata 定义文件的描述性属性集 (Attribute Set)。
//
// 核心约定：每个字段都是独立可选的 (零值 = 未设置)，
// 属性集从不捏造一个没有信号来源的值。
// 信号的优先级靠两种合并语义保证：
//
//   - Merge (提示合并): 只填充尚未设置的字段，绝不覆盖
//   - Patch (显式修补): 调用方给了值就无条件覆盖
package metadata

import (
	"strconv"
	"time"
)

// Metadata 是一个文件值的属性记录。
type Metadata struct {
	// Name 展示用的文件名 (如 "example.txt")
	Name string `json:"name,omitempty"`
	// MimeType 媒体类型 (如 "text/plain")
	MimeType string `json:"mime_type,omitempty"`
	// Size 字节长度
	Size int64 `json:"size,omitempty"`
	// Extension 不带点的扩展名 (如 "txt")
	Extension string `json:"extension,omitempty"`
	// URL 来源定位符：HTTP(S) URL，或 "s3://bucket/key"
	URL string `json:"url,omitempty"`
	// Path 本地文件系统路径，仅文件系统来源
	Path string `json:"path,omitempty"`
	// Hash 来源提供的内容指纹 (ETag / Content-MD5 等)，可能缺席
	Hash string `json:"hash,omitempty"`
	// LastModified 来源或文件系统报告的修改时间
	LastModified time.Time `json:"last_modified,omitzero"`
	// CreatedAt 创建时间，仅文件系统来源可能提供
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Hint 是调用方在采集前提供的部分属性，结构与 Metadata 完全一致。
type Hint = Metadata

// IsZero 判断属性集是否完全为空
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// -----------------------------------------------------------------------------
// 合并语义
// -----------------------------------------------------------------------------

// Merge 把 h 中已设置的字段填进 m 中【尚未设置】的字段。
// 这是一个对有序信号源的纯归约：先合并的信号优先级更高。
// 所有采集路径统一走这一个入口，保证优先级表不会在某条路径上走样。
func (m *Metadata) Merge(h Hint) {
	fillStr(&m.Name, h.Name)
	fillStr(&m.MimeType, h.MimeType)
	fillInt64(&m.Size, h.Size)
	fillStr(&m.Extension, h.Extension)
	fillStr(&m.URL, h.URL)
	fillStr(&m.Path, h.Path)
	fillStr(&m.Hash, h.Hash)
	fillTime(&m.LastModified, h.LastModified)
	fillTime(&m.CreatedAt, h.CreatedAt)
}

// Patch 与 Merge 相反：h 里给了值的字段无条件覆盖 m。
// 用于采集完成后的显式修补 (SetMetadata)。
func (m *Metadata) Patch(h Hint) {
	setStr(&m.Name, h.Name)
	setStr(&m.MimeType, h.MimeType)
	if h.Size > 0 {
		m.Size = h.Size
	}
	setStr(&m.Extension, h.Extension)
	setStr(&m.URL, h.URL)
	setStr(&m.Path, h.Path)
	setStr(&m.Hash, h.Hash)
	if !h.LastModified.IsZero() {
		m.LastModified = h.LastModified
	}
	if !h.CreatedAt.IsZero() {
		m.CreatedAt = h.CreatedAt
	}
}

func fillStr(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func fillInt64(dst *int64, v int64) {
	if *dst == 0 && v > 0 {
		*dst = v
	}
}

func fillTime(dst *time.Time, v time.Time) {
	if dst.IsZero() && !v.IsZero() {
		*dst = v
	}
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// -----------------------------------------------------------------------------
// 扁平化输出 (仅用于日志/调试，不是稳定的机器契约)
// -----------------------------------------------------------------------------

// Pairs 按固定顺序返回所有【已设置】字段的 key/value 对，未设置的字段省略。
func (m Metadata) Pairs() [][2]string {
	var pairs [][2]string
	add := func(k, v string) {
		if v != "" {
			pairs = append(pairs, [2]string{k, v})
		}
	}
	add("name", m.Name)
	add("mime", m.MimeType)
	if m.Size > 0 {
		pairs = append(pairs, [2]string{"size", strconv.FormatInt(m.Size, 10)})
	}
	add("ext", m.Extension)
	add("url", m.URL)
	add("path", m.Path)
	add("hash", m.Hash)
	if !m.LastModified.IsZero() {
		add("modified", m.LastModified.Format(time.RFC3339))
	}
	if !m.CreatedAt.IsZero() {
		add("created", m.CreatedAt.Format(time.RFC3339))
	}
	return pairs
}
