package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("object not found")
)

// IsNotFound 判断错误链里是否包含"对象不存在"
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Object 是对象存储一次 Get 的结果：
// 正文字节 + 协议层能带回来的那几个描述字段 (都可能缺席)。
type Object struct {
	Body []byte

	ContentType        string
	ContentLength      int64
	ETag               string
	LastModified       time.Time
	ContentDisposition string
}

// PutOptions 是上传时随对象写入的协议层元数据，零值字段不发送。
type PutOptions struct {
	ContentType        string
	ContentLength      int64
	ContentDisposition string
}

// ObjectStore 定义对象存储后端的字节传输契约。
// 实现可以是 S3、MinIO，或测试里的内存假件。
type ObjectStore interface {
	// Get 下载对象正文和协议元数据
	Get(ctx context.Context, bucket, key string) (*Object, error)

	// Put 上传对象
	Put(ctx context.Context, bucket, key string, data []byte, opts PutOptions) error

	// Delete 删除对象
	Delete(ctx context.Context, bucket, key string) error

	// PresignGet 生成限时的预签名访问 URL
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}
