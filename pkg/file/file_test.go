package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifile/pkg/metadata"
	"unifile/pkg/storage"
	"unifile/pkg/types"
)

// PNG 文件头 + IHDR 标记，足够触发签名探测
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00,
}

// 不匹配任何签名、也不是合法 UTF-8 文本的字节
var garbageBytes = []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0xFF, 0xFE, 0x80}

// --- 采集：内存字节 ---

func TestNewFromBytes_DetectsContent(t *testing.T) {
	f, err := NewFromBytes(pngBytes)
	require.NoError(t, err)

	assert.Equal(t, types.SourceBytes, f.Source())
	assert.Equal(t, "image/png", f.MimeType())
	assert.Equal(t, "png", f.Extension())
	assert.Equal(t, int64(len(pngBytes)), f.Size())
	assert.Empty(t, f.Name()) // 没有任何文件名信号，保持空
}

func TestNewFromBytes_HintNeverOverwritten(t *testing.T) {
	// 【关键】hint 优先级最高：即使内容探测出 image/png，
	// 调用方给的具体类型也不能被顶掉
	f, err := NewFromBytes(pngBytes, metadata.Hint{
		Name:     "report.pdf",
		MimeType: "application/pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", f.Name())
	assert.Equal(t, "application/pdf", f.MimeType())
}

func TestNewFromBytes_GenericHintYieldsToDetection(t *testing.T) {
	// 通用占位类型不携带信息，允许被探测出的具体类型顶掉
	f, err := NewFromBytes(pngBytes, metadata.Hint{MimeType: "application/octet-stream"})
	require.NoError(t, err)

	assert.Equal(t, "image/png", f.MimeType())
	assert.Equal(t, "png", f.Extension())
}

func TestNewFromBytes_FilenameFallback(t *testing.T) {
	// 内容认不出来时退回扩展名表
	f, err := NewFromBytes(garbageBytes, metadata.Hint{Name: "notes.txt"})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", f.MimeType())
	assert.Equal(t, "txt", f.Extension())

	// 连文件名都没有：类型和扩展名都保持空，绝不编造
	f2, err := NewFromBytes(garbageBytes)
	require.NoError(t, err)
	assert.Empty(t, f2.MimeType())
	assert.Empty(t, f2.Extension())
}

func TestNewFromBytes_ExtensionFromType(t *testing.T) {
	// 兜底链：类型已知时反查出扩展名
	f, err := NewFromBytes([]byte("plain words"), metadata.Hint{MimeType: "application/json"})
	require.NoError(t, err)
	assert.Equal(t, "json", f.Extension())
}

// --- 采集：流 ---

func TestNewFromStream(t *testing.T) {
	payload := []byte("hello from a stream")
	f, err := NewFromStream(bytes.NewReader(payload), metadata.Hint{Name: "greeting.txt"})
	require.NoError(t, err)

	assert.Equal(t, types.SourceStream, f.Source())
	assert.Equal(t, int64(len(payload)), f.Size())
	assert.Equal(t, "text/plain", f.MimeType())

	// 流只消费一次，之后的读取全部来自内存缓冲
	got1, err := f.Read()
	require.NoError(t, err)
	got2, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, payload, got1)
	assert.Equal(t, got1, got2)
}

// --- 采集：文件系统 ---

func TestNewFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(path, pngBytes, 0o644))

	f, err := NewFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, types.SourceFile, f.Source())
	assert.Equal(t, "photo.png", f.Name())
	assert.Equal(t, path, f.Metadata().Path)
	assert.Equal(t, "image/png", f.MimeType())
	assert.Equal(t, int64(len(pngBytes)), f.Size())
	assert.False(t, f.Metadata().LastModified.IsZero())
	// stat 拿不到可移植的创建时间，必须保持未设置
	assert.True(t, f.Metadata().CreatedAt.IsZero())
}

func TestNewFromPath_NotFound(t *testing.T) {
	_, err := NewFromPath(filepath.Join(t.TempDir(), "nope.bin"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- 采集：HTTP URL ---

func TestNewFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `attachment; filename="served.png"`)
		w.Header().Set("ETag", `"abc123etag"`)
		w.Header().Set("Last-Modified", "Wed, 21 Oct 2015 07:28:00 GMT")
		_, _ = w.Write(pngBytes)
	}))
	defer srv.Close()

	f, err := NewFromURL(context.Background(), srv.URL+"/ignored-path.bin")
	require.NoError(t, err)

	assert.Equal(t, types.SourceURL, f.Source())
	// 【关键】Content-Disposition 的 filename 优先于 URL 最后一段
	assert.Equal(t, "served.png", f.Name())
	assert.Equal(t, "image/png", f.MimeType())
	assert.Equal(t, "abc123etag", f.Metadata().Hash) // ETag 去掉引号
	assert.Equal(t, srv.URL+"/ignored-path.bin", f.Metadata().URL)
	assert.Equal(t, 2015, f.Metadata().LastModified.Year())
}

func TestNewFromURL_NameFromPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngBytes)
	}))
	defer srv.Close()

	f, err := NewFromURL(context.Background(), srv.URL+"/assets/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "logo.png", f.Name())
}

func TestNewFromURL_GenericContentTypeOverridden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(pngBytes)
	}))
	defer srv.Close()

	f, err := NewFromURL(context.Background(), srv.URL+"/blob")
	require.NoError(t, err)
	// 来源声明的占位类型被内容探测出的具体类型顶掉
	assert.Equal(t, "image/png", f.MimeType())
}

func TestNewFromURL_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewFromURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTP)
}

// --- 采集：对象存储 ---

func TestNewFromS3(t *testing.T) {
	store := newFakeStore()
	store.seed("media", "pics/cat.png", &storage.Object{
		Body:         pngBytes,
		ContentType:  "image/png",
		ETag:         `"s3etag99"`,
		LastModified: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	f, err := NewFromS3(context.Background(), store, "media", "pics/cat.png")
	require.NoError(t, err)

	assert.Equal(t, types.SourceS3, f.Source())
	assert.Equal(t, "cat.png", f.Name()) // key 的最后一段
	assert.Equal(t, "image/png", f.MimeType())
	assert.Equal(t, "s3etag99", f.Metadata().Hash)
	assert.Equal(t, "s3://media/pics/cat.png", f.Metadata().URL)
}

func TestNewFromS3_DispositionBeatsKey(t *testing.T) {
	store := newFakeStore()
	store.seed("media", "blobs/7f3a", &storage.Object{
		Body:               pngBytes,
		ContentDisposition: `attachment; filename="original-name.png"`,
	})

	f, err := NewFromS3(context.Background(), store, "media", "blobs/7f3a")
	require.NoError(t, err)
	assert.Equal(t, "original-name.png", f.Name())
}

func TestNewFromS3_NotFound(t *testing.T) {
	_, err := NewFromS3(context.Background(), newFakeStore(), "media", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- 读取与指纹 ---

func TestChecksum(t *testing.T) {
	payload := []byte("fingerprint me")
	f, err := NewFromBytes(payload)
	require.NoError(t, err)

	sum, err := f.Checksum()
	require.NoError(t, err)
	assert.Len(t, sum, 64)

	want := sha256.Sum256(payload)
	assert.Equal(t, hex.EncodeToString(want[:]), sum)

	// 幂等：重复计算结果一致
	again, err := f.Checksum()
	require.NoError(t, err)
	assert.Equal(t, sum, again)
}

func TestText(t *testing.T) {
	f, err := NewFromBytes([]byte("你好 world"))
	require.NoError(t, err)
	text, err := f.Text()
	require.NoError(t, err)
	assert.Equal(t, "你好 world", text)
}

// --- 持久化 / 移动 / 删除 ---

func TestSave_RoundTripKeepsFingerprint(t *testing.T) {
	f, err := NewFromBytes(pngBytes, metadata.Hint{Name: "cat.png"})
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "saved.png")
	saved, err := f.Save(dest)
	require.NoError(t, err)

	// 原值不变
	assert.Equal(t, types.SourceBytes, f.Source())
	// 新值是重新采集出来的文件系统文件
	assert.Equal(t, types.SourceFile, saved.Source())
	assert.Equal(t, dest, saved.Metadata().Path)

	// 内存值与磁盘值指纹一致
	sum1, err := f.Checksum()
	require.NoError(t, err)
	sum2, err := saved.Checksum()
	require.NoError(t, err)
	assert.Equal(t, sum1, sum2)
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("move me"), 0o644))

	f, err := NewFromPath(src)
	require.NoError(t, err)

	moved, err := f.Move(dst)
	require.NoError(t, err)
	assert.Equal(t, dst, moved.Metadata().Path)

	// 原磁盘文件已被移除
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, dst)
}

func TestMove_NonFileSourceLeavesNothingBehind(t *testing.T) {
	// 非文件系统来源没有原文件可删，Move 退化为 Save
	f, err := NewFromBytes([]byte("ephemeral"))
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "out.bin")
	moved, err := f.Move(dst)
	require.NoError(t, err)
	assert.Equal(t, types.SourceFile, moved.Source())
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doomed.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	f, err := NewFromPath(path)
	require.NoError(t, err)

	require.NoError(t, f.Delete())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// 再删一次：底层文件已不存在
	err = f.Delete()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_NonFileSourceIsNoop(t *testing.T) {
	f, err := NewFromBytes([]byte("nothing to delete"))
	require.NoError(t, err)
	assert.NoError(t, f.Delete())
}

// --- 元数据补丁 ---

func TestSetMetadata(t *testing.T) {
	f, err := NewFromBytes(pngBytes, metadata.Hint{Name: "old.png"})
	require.NoError(t, err)

	f.SetMetadata(metadata.Hint{Name: "new.png"})
	assert.Equal(t, "new.png", f.Name())
	// 补丁未提及的字段保持不变
	assert.Equal(t, "image/png", f.MimeType())
}

// --- 对象存储交互 ---

func TestUpload(t *testing.T) {
	store := newFakeStore()
	f, err := NewFromBytes(pngBytes, metadata.Hint{Name: "up.png"})
	require.NoError(t, err)

	require.NoError(t, f.Upload(context.Background(), store, "media", "up/up.png"))

	obj, err := store.Get(context.Background(), "media", "up/up.png")
	require.NoError(t, err)
	assert.Equal(t, pngBytes, obj.Body)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Contains(t, obj.ContentDisposition, "up.png")
}

func TestSignedURL(t *testing.T) {
	store := newFakeStore()
	store.seed("media", "a/b.png", &storage.Object{Body: pngBytes})

	f, err := NewFromS3(context.Background(), store, "media", "a/b.png")
	require.NoError(t, err)

	signed, err := f.SignedURL(context.Background(), 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, signed, "media/a/b.png")
}

func TestSignedURL_InvalidSource(t *testing.T) {
	f, err := NewFromBytes(pngBytes)
	require.NoError(t, err)

	_, err = f.SignedURL(context.Background(), time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSource)
}

// --- 原地编辑 ---

func TestAppendPrependTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("middle"), 0o644))

	f, err := NewFromPath(path)
	require.NoError(t, err)

	require.NoError(t, f.Append([]byte(" end")))
	require.NoError(t, f.Prepend([]byte("start ")))

	text, err := f.Text()
	require.NoError(t, err)
	assert.Equal(t, "start middle end", text)
	// 编辑后元数据跟着刷新
	assert.Equal(t, int64(len("start middle end")), f.Size())

	require.NoError(t, f.Truncate())
	assert.Equal(t, int64(0), f.Size())
}

func TestAppend_InvalidSource(t *testing.T) {
	f, err := NewFromBytes([]byte("immutable"))
	require.NoError(t, err)
	err = f.Append([]byte("more"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSource)
}

// --- 展示 ---

func TestRender(t *testing.T) {
	f, err := NewFromBytes(pngBytes, metadata.Hint{Name: "cat.png"})
	require.NoError(t, err)

	out := f.Render()
	assert.Contains(t, out, "source: bytes")
	assert.Contains(t, out, "name: cat.png")
	assert.Contains(t, out, "mime: image/png")
	// 未解析出的字段不渲染
	assert.NotContains(t, out, "url:")
}

// --- 测试用的内存对象存储 ---

type fakeStore struct {
	objects map[string]*storage.Object
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]*storage.Object{}}
}

func (s *fakeStore) seed(bucket, key string, obj *storage.Object) {
	obj.ContentLength = int64(len(obj.Body))
	s.objects[bucket+"/"+key] = obj
}

func (s *fakeStore) Get(_ context.Context, bucket, key string) (*storage.Object, error) {
	obj, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", bucket, key, storage.ErrNotFound)
	}
	return obj, nil
}

func (s *fakeStore) Put(_ context.Context, bucket, key string, data []byte, opts storage.PutOptions) error {
	s.objects[bucket+"/"+key] = &storage.Object{
		Body:               data,
		ContentType:        opts.ContentType,
		ContentLength:      int64(len(data)),
		ContentDisposition: opts.ContentDisposition,
	}
	return nil
}

func (s *fakeStore) Delete(_ context.Context, bucket, key string) error {
	if _, ok := s.objects[bucket+"/"+key]; !ok {
		return fmt.Errorf("%s/%s: %w", bucket, key, storage.ErrNotFound)
	}
	delete(s.objects, bucket+"/"+key)
	return nil
}

func (s *fakeStore) PresignGet(_ context.Context, bucket, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://signed.example/%s/%s?expires=%d", bucket, key, int(expiry.Seconds())), nil
}

var _ storage.ObjectStore = (*fakeStore)(nil)

// 哨兵错误可以同时按"类别"和"根因"匹配
func TestErrorWrapping(t *testing.T) {
	_, err := NewFromS3(context.Background(), newFakeStore(), "b", "k")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}
