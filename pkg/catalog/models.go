package catalog

import (
	"time"

	"gorm.io/datatypes"
)

// FileRecord 是一次采集解析结果在关系型数据库中的投影 (索引)
// 以内容摘要为自然键：相同内容的文件只登记一条记录
type FileRecord struct {
	// ID 是主键，UUID 字符串
	ID string `gorm:"primaryKey;type:char(36)"`

	// Digest 内容的 SHA-256 摘要 (64 字符小写)，唯一
	Digest string `gorm:"uniqueIndex;type:char(64);not null"`

	// 基础元数据 (B-Tree 索引，适合排序和精确查找)
	Name     string `gorm:"index;type:varchar(255)"`
	MimeType string `gorm:"type:varchar(127)"`
	Size     int64  `gorm:"index"`

	// Source 采集来源标记 ("bytes"/"stream"/"file"/"url"/"s3")
	Source string `gorm:"type:varchar(16)"`

	// Attributes: 完整的已解析元数据快照，JSON 存储
	// 关键：结构化列只放常用查询字段，其余细节都收在这里
	Attributes datatypes.JSON

	// RecordDigest 属性记录的规范化 CBOR 摘要
	// 两条记录的 RecordDigest 相同 <=> 解析出的属性完全相同
	RecordDigest string `gorm:"type:char(64)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 强制指定表名
func (FileRecord) TableName() string {
	return "file_records"
}
