package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"unifile/pkg/metadata"
)

// 规范化编码选项：
// 保证相同的属性记录在任何机器上都编出完全相同的字节序列，
// 这样 RecordDigest 才能当作属性层面的内容地址用
var encOptions = cbor.EncOptions{
	// 1. 强制 Map Key 排序 (Canonical)
	Sort: cbor.SortCanonical,

	// 2. 浮点数固定表示
	ShortestFloat: cbor.ShortestFloatNone,

	// 3. 时间编码为 Unix 整数，禁止自动生成 Tag 0/1 (RFC 3339 字符串)
	Time:    cbor.TimeUnix,
	TimeTag: cbor.EncTagNone,

	// 4. 禁止不定长编码 (Indefinite Length)
	IndefLength: cbor.IndefLengthForbidden,
}

// 全局复用的编码模式
var em, _ = encOptions.EncMode()

// recordView 是参与摘要计算的属性投影。
// 【关键】只收内容本身决定的字段：Path/URL 这类定位信息随采集方式变化，
// 放进来会让同一份内容从不同来源采出不同的 RecordDigest
type recordView struct {
	Name      string `cbor:"name,omitempty"`
	MimeType  string `cbor:"mime,omitempty"`
	Size      int64  `cbor:"size,omitempty"`
	Extension string `cbor:"ext,omitempty"`
	Hash      string `cbor:"hash,omitempty"`
}

// RecordDigest 计算属性记录的规范化摘要 (64 字符十六进制) 和序列化数据
func RecordDigest(m metadata.Metadata) (string, []byte, error) {
	view := recordView{
		Name:      m.Name,
		MimeType:  m.MimeType,
		Size:      m.Size,
		Extension: m.Extension,
		Hash:      m.Hash,
	}
	data, err := em.Marshal(view)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal attribute record: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), data, nil
}
