package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"unifile/pkg/metadata"
	"unifile/pkg/types"
)

var (
	ErrRecordNotFound = errors.New("file record not found")
)

// Catalog 是登记层对上暴露的最小接口，缓存装饰器和测试假件都实现它
type Catalog interface {
	Save(ctx context.Context, rec *FileRecord) error
	GetByDigest(ctx context.Context, digest string) (*FileRecord, error)
	Has(ctx context.Context, digest string) (bool, error)
	List(ctx context.Context, limit int) ([]FileRecord, error)
	Delete(ctx context.Context, digest string) error
}

// Repository 封装所有对 SQL 数据库的操作
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

var _ Catalog = (*Repository)(nil)

// NewRecord 把一次采集的结果打包成可入库的登记记录：
// 结构化列放常用查询字段，完整元数据快照收进 Attributes，
// 并计算属性记录的规范化摘要
func NewRecord(source types.Source, digest string, m metadata.Metadata) (*FileRecord, error) {
	attrs, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attributes: %w", err)
	}
	recDigest, _, err := RecordDigest(m)
	if err != nil {
		return nil, err
	}
	return &FileRecord{
		ID:           uuid.NewString(),
		Digest:       digest,
		Name:         m.Name,
		MimeType:     m.MimeType,
		Size:         m.Size,
		Source:       string(source),
		Attributes:   datatypes.JSON(attrs),
		RecordDigest: recDigest,
	}, nil
}

// Save 幂等写入：内容摘要相同的记录已存在时什么都不做 (Do Nothing)
// 相同摘要意味着相同内容，重复登记没有意义
func (r *Repository) Save(ctx context.Context, rec *FileRecord) error {
	err := r.db.GetConn().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "digest"}}, // 冲突列
			DoNothing: true,
		}).
		Create(rec).Error

	if err != nil {
		return fmt.Errorf("failed to save file record: %w", err)
	}
	return nil
}

// GetByDigest 按内容摘要取记录
func (r *Repository) GetByDigest(ctx context.Context, digest string) (*FileRecord, error) {
	var rec FileRecord
	err := r.db.GetConn().WithContext(ctx).
		Where("digest = ?", digest).
		First(&rec).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Has 只判断记录是否存在，不取整行
func (r *Repository) Has(ctx context.Context, digest string) (bool, error) {
	var count int64
	err := r.db.GetConn().WithContext(ctx).
		Model(&FileRecord{}).
		Where("digest = ?", digest).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 按登记时间倒序取最近的记录
func (r *Repository) List(ctx context.Context, limit int) ([]FileRecord, error) {
	var recs []FileRecord
	err := r.db.GetConn().WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

// FindByName 示例：利用 SQL 能力按文件名检索
func (r *Repository) FindByName(ctx context.Context, name string, limit int) ([]FileRecord, error) {
	var recs []FileRecord
	err := r.db.GetConn().WithContext(ctx).
		Where("name = ?", name).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

// Delete 按内容摘要删除记录
func (r *Repository) Delete(ctx context.Context, digest string) error {
	result := r.db.GetConn().WithContext(ctx).
		Where("digest = ?", digest).
		Delete(&FileRecord{})

	if result.Error != nil {
		return result.Error
	}
	// 关键检查：影响行数为 0 说明记录本来就不存在
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
