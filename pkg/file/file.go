// Package file 把五种来源 (内存字节、流、本地文件、HTTP URL、S3 对象)
// 的数据统一成一个携带完整元数据的 File 值。
//
// 采集要么整体成功、要么返回错误，不存在半初始化的 File；采集成功后
// File 的内容与元数据都不可变 (SetMetadata 显式补丁除外)，读取类操作
// 可以任意并发调用。
package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"unifile/pkg/metadata"
	"unifile/pkg/storage"
	"unifile/pkg/storage/disk"
	"unifile/pkg/types"
)

// Doer 是发 HTTP 请求的最小接口，测试时可以替换成假实现
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient 是 NewFromURL 使用的客户端，默认为 http.DefaultClient
var HTTPClient Doer = http.DefaultClient

// File 表示一个已采集完成的文件：来源标记、已归并的元数据、完整内容。
// 内容在构造时一次性读入内存，之后所有读取都不再触碰来源。
type File struct {
	source types.Source
	meta   metadata.Metadata
	data   []byte

	// S3 来源时保留底层存储句柄，供 SignedURL 复用
	store  storage.ObjectStore
	bucket string
	key    string
}

// NewFromBytes 从内存字节构造文件。调用方移交 data 的所有权，
// 构造之后不得再修改该切片。
func NewFromBytes(data []byte, hints ...metadata.Hint) (*File, error) {
	return &File{
		source: types.SourceBytes,
		meta:   resolveFromBytes(data, mergeHints(hints)),
		data:   data,
	}, nil
}

// NewFromStream 把 reader 完整读入内存后构造文件。
// 流只被消费一次，之后的读取全部走内存缓冲。
func NewFromStream(r io.Reader, hints ...metadata.Hint) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: drain stream: %w", ErrRead, err)
	}
	return &File{
		source: types.SourceStream,
		meta:   resolveFromBytes(data, mergeHints(hints)),
		data:   data,
	}, nil
}

// NewFromPath 从本地文件系统构造文件
func NewFromPath(path string, hints ...metadata.Hint) (*File, error) {
	info, err := disk.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", ErrRead, path, err)
	}
	data, err := disk.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrRead, path, err)
	}
	return &File{
		source: types.SourceFile,
		meta:   resolveFromFile(path, info, data, mergeHints(hints)),
		data:   data,
	}, nil
}

// NewFromURL 通过 HTTP GET 下载 URL 并构造文件。
// 非 2xx 状态码视为采集失败。
func NewFromURL(ctx context.Context, rawURL string, hints ...metadata.Hint) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %w", ErrHTTP, rawURL, err)
	}
	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrHTTP, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: unexpected status %d", ErrHTTP, rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body of %s: %w", ErrRead, rawURL, err)
	}
	return &File{
		source: types.SourceURL,
		meta:   resolveFromHTTP(resp, rawURL, data, mergeHints(hints)),
		data:   data,
	}, nil
}

// NewFromS3 从对象存储拉取 bucket/key 并构造文件。
// store 句柄会被保留，之后 SignedURL 直接复用。
func NewFromS3(ctx context.Context, store storage.ObjectStore, bucket, key string, hints ...metadata.Hint) (*File, error) {
	obj, err := store.Get(ctx, bucket, key)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: s3://%s/%s: %w", ErrNotFound, bucket, key, err)
		}
		return nil, fmt.Errorf("%w: get s3://%s/%s: %w", ErrS3, bucket, key, err)
	}
	data := obj.Body
	loc := types.S3Locator{Bucket: bucket, Key: key}
	return &File{
		source: types.SourceS3,
		meta:   resolveFromObject(loc, obj, data, mergeHints(hints)),
		data:   data,
		store:  store,
		bucket: bucket,
		key:    key,
	}, nil
}

// --- 只读访问 ---

// Source 返回采集来源
func (f *File) Source() types.Source { return f.source }

// Metadata 返回已归并的元数据副本
func (f *File) Metadata() metadata.Metadata { return f.meta }

// Name 返回解析出的文件名，可能为空
func (f *File) Name() string { return f.meta.Name }

// MimeType 返回解析出的 MIME 类型，可能为空
func (f *File) MimeType() string { return f.meta.MimeType }

// Size 返回内容字节数
func (f *File) Size() int64 { return f.meta.Size }

// Extension 返回不带点号的扩展名，可能为空
func (f *File) Extension() string { return f.meta.Extension }

// Read 返回完整内容。幂等：任意次调用结果完全一致，不触碰来源。
func (f *File) Read() ([]byte, error) {
	if f.data == nil {
		return nil, fmt.Errorf("%w: no content loaded", ErrRead)
	}
	return f.data, nil
}

// Text 以 UTF-8 字符串形式返回内容
func (f *File) Text() (string, error) {
	data, err := f.Read()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Checksum 返回内容的 SHA-256 十六进制摘要 (64 字符小写)
func (f *File) Checksum() (string, error) {
	data, err := f.Read()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// SetMetadata 用补丁覆盖元数据：补丁里已设置的字段生效，未设置的保持原值
func (f *File) SetMetadata(patch metadata.Hint) {
	f.meta.Patch(patch)
}

// --- 持久化与删除 ---

// Save 把内容写到 destPath (原子写)，然后以文件系统来源重新采集一份
// 返回。原值保持不变，两份的内容指纹必然一致。
func (f *File) Save(destPath string) (*File, error) {
	data, err := f.Read()
	if err != nil {
		return nil, err
	}
	if err := disk.Write(destPath, data); err != nil {
		return nil, fmt.Errorf("%w: save to %s: %w", ErrWrite, destPath, err)
	}
	return NewFromPath(destPath)
}

// Move 等价于 Save 后删除原磁盘文件。只有文件系统来源才有原文件可删，
// 其余来源的删除是无操作。
func (f *File) Move(destPath string) (*File, error) {
	moved, err := f.Save(destPath)
	if err != nil {
		return nil, err
	}
	if f.source == types.SourceFile && f.meta.Path != "" && f.meta.Path != destPath {
		if err := disk.Remove(f.meta.Path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: remove original %s: %w", ErrWrite, f.meta.Path, err)
		}
	}
	return moved, nil
}

// Delete 删除文件系统来源对应的磁盘文件。
// 其余来源没有持久副本可删，直接成功返回 (无操作)。
func (f *File) Delete() error {
	if f.source != types.SourceFile || f.meta.Path == "" {
		return nil
	}
	if err := disk.Remove(f.meta.Path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, f.meta.Path)
		}
		return fmt.Errorf("%w: delete %s: %w", ErrWrite, f.meta.Path, err)
	}
	return nil
}

// --- 对象存储交互 ---

// Upload 把内容上传到对象存储的 bucket/key，
// 已解析的类型/大小/文件名作为对象元数据一并带上
func (f *File) Upload(ctx context.Context, store storage.ObjectStore, bucket, key string) error {
	data, err := f.Read()
	if err != nil {
		return err
	}
	opts := storage.PutOptions{
		ContentType:   f.meta.MimeType,
		ContentLength: int64(len(data)),
	}
	if f.meta.Name != "" {
		opts.ContentDisposition = fmt.Sprintf("attachment; filename=%q", f.meta.Name)
	}
	if err := store.Put(ctx, bucket, key, data, opts); err != nil {
		return fmt.Errorf("%w: put s3://%s/%s: %w", ErrS3, bucket, key, err)
	}
	return nil
}

// SignedURL 为 S3 来源的文件生成限时下载链接。
// 非对象存储来源的文件没有可签名的对象，返回 ErrInvalidSource。
func (f *File) SignedURL(ctx context.Context, expiry time.Duration) (string, error) {
	bucket, key := f.bucket, f.key
	if bucket == "" || key == "" {
		loc, ok := types.ParseS3Locator(f.meta.URL)
		if !ok {
			return "", fmt.Errorf("%w: cannot sign a %s-sourced file", ErrInvalidSource, f.source)
		}
		bucket, key = loc.Bucket, loc.Key
	}
	if f.store == nil {
		return "", fmt.Errorf("%w: no object store attached", ErrInvalidSource)
	}
	signed, err := f.store.PresignGet(ctx, bucket, key, expiry)
	if err != nil {
		return "", fmt.Errorf("%w: presign s3://%s/%s: %w", ErrS3, bucket, key, err)
	}
	return signed, nil
}

// --- 原地内容编辑 (仅文件系统来源) ---

// Append 在磁盘文件末尾追加 data，然后原地重新采集刷新内容与元数据
func (f *File) Append(data []byte) error {
	return f.rewrite(func(cur []byte) []byte {
		return append(append([]byte{}, cur...), data...)
	})
}

// Prepend 在磁盘文件开头插入 data，然后原地重新采集
func (f *File) Prepend(data []byte) error {
	return f.rewrite(func(cur []byte) []byte {
		return append(append([]byte{}, data...), cur...)
	})
}

// Truncate 清空磁盘文件内容，然后原地重新采集
func (f *File) Truncate() error {
	return f.rewrite(func([]byte) []byte { return nil })
}

// rewrite 读-改-原子写回，最后重新采集并整体替换自身状态
func (f *File) rewrite(mutate func([]byte) []byte) error {
	if f.source != types.SourceFile || f.meta.Path == "" {
		return fmt.Errorf("%w: in-place edit requires a filesystem-sourced file", ErrInvalidSource)
	}
	cur, err := f.Read()
	if err != nil {
		return err
	}
	if err := disk.Write(f.meta.Path, mutate(cur)); err != nil {
		return fmt.Errorf("%w: rewrite %s: %w", ErrWrite, f.meta.Path, err)
	}
	fresh, err := NewFromPath(f.meta.Path)
	if err != nil {
		return err
	}
	*f = *fresh
	return nil
}

// --- 展示 ---

// String 返回一行摘要，方便日志输出
func (f *File) String() string {
	name := f.meta.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("File{source=%s name=%s type=%s size=%d}", f.source, name, f.meta.MimeType, f.meta.Size)
}

// Render 逐行渲染来源与所有已解析的元数据字段
func (f *File) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "source: %s\n", f.source)
	for _, kv := range f.meta.Pairs() {
		fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
	}
	return b.String()
}

func mergeHints(hints []metadata.Hint) metadata.Hint {
	var h metadata.Hint
	for _, hint := range hints {
		h.Merge(hint)
	}
	return h
}
