// pkg/types/common.go
package types

import (
	"fmt"
	"strings"
)

// Source 代表文件的来源 (Origin)
// 这是一个“值对象”，决定了哪些操作对该文件合法 (比如只有 S3 来源能签名)。
type Source string

const (
	SourceBytes  Source = "bytes"  // 内存字节
	SourceStream Source = "stream" // 已打开的字节流
	SourceFile   Source = "file"   // 本地文件系统
	SourceURL    Source = "url"    // HTTP(S) 资源
	SourceS3     Source = "s3"     // 对象存储
)

func (s Source) String() string { return string(s) }

// Valid 验证 Source 合法性
func (s Source) Valid() bool {
	switch s {
	case SourceBytes, SourceStream, SourceFile, SourceURL, SourceS3:
		return true
	default:
		return false
	}
}

// S3Locator 是 "s3://bucket/key" 形式的对象定位符
// 它只负责解析和格式化，不发起任何网络请求。
type S3Locator struct {
	Bucket string
	Key    string
}

func (l S3Locator) String() string {
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
}

// ParseS3Locator 解析 "s3://bucket/key"
// 缺少 bucket 或 key 都算格式错误 (ok=false)，由调用方决定报哪类错。
func ParseS3Locator(uri string) (S3Locator, bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return S3Locator{}, false
	}
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return S3Locator{}, false
	}
	return S3Locator{Bucket: bucket, Key: key}, true
}
