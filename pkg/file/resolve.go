package file

import (
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"unifile/pkg/detect"
	"unifile/pkg/disposition"
	"unifile/pkg/metadata"
	"unifile/pkg/storage"
	"unifile/pkg/storage/disk"
	"unifile/pkg/types"
)

// 元数据归并的统一次序，所有来源都走同一条流水线：
//
//	1. 调用方 hint (最高优先级，后续任何阶段不得覆盖已设置的字段)
//	2. 来源信号 (响应头 / stat / 对象元数据，只填还空着的字段)
//	3. 内容探测 (只填空字段；【关键】例外：通用占位类型可被探测结果顶掉)
//	4. 兜底链  (扩展名←类型、类型←文件名、类型←扩展名，各步只在目标为空时生效)
//
// 每个来源的 resolveFromXxx 负责第 2 步的来源信号，其余三步完全共用。

func resolveFromBytes(data []byte, hint metadata.Hint) metadata.Metadata {
	var m metadata.Metadata
	m.Merge(hint)
	m.Merge(metadata.Hint{Size: int64(len(data))})
	applyDetection(&m, data)
	applyFallbacks(&m)
	return m
}

func resolveFromFile(filePath string, info disk.FileInfo, data []byte, hint metadata.Hint) metadata.Metadata {
	var m metadata.Metadata
	m.Merge(hint)
	m.Merge(metadata.Hint{
		Name:         filepath.Base(filePath),
		Path:         filePath,
		Size:         info.Size,
		LastModified: info.ModTime,
		// CreatedAt 故意不填：POSIX stat 拿不到可移植的创建时间
	})
	m.Merge(metadata.Hint{Size: int64(len(data))})
	applyDetection(&m, data)
	applyFallbacks(&m)
	return m
}

func resolveFromHTTP(resp *http.Response, rawURL string, data []byte, hint metadata.Hint) metadata.Metadata {
	var m metadata.Metadata
	m.Merge(hint)

	// 文件名优先级：Content-Disposition 里的 filename > URL 路径最后一段
	name := ""
	if d, ok := disposition.Parse(resp.Header.Get("Content-Disposition")); ok && d.Filename != "" {
		name = d.Filename
	}
	if name == "" {
		name = lastURLSegment(rawURL)
	}

	sig := metadata.Hint{
		Name:     name,
		URL:      rawURL,
		MimeType: resp.Header.Get("Content-Type"),
		Hash:     headerHash(resp.Header),
	}
	if n, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err == nil && n > 0 {
		sig.Size = n
	}
	if t, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
		sig.LastModified = t
	}
	m.Merge(sig)
	m.Merge(metadata.Hint{Size: int64(len(data))})

	applyDetection(&m, data)
	applyFallbacks(&m)
	return m
}

func resolveFromObject(loc types.S3Locator, obj *storage.Object, data []byte, hint metadata.Hint) metadata.Metadata {
	var m metadata.Metadata
	m.Merge(hint)

	name := ""
	if d, ok := disposition.Parse(obj.ContentDisposition); ok && d.Filename != "" {
		name = d.Filename
	}
	if name == "" {
		name = path.Base(loc.Key)
	}

	m.Merge(metadata.Hint{
		Name:         name,
		URL:          loc.String(),
		MimeType:     obj.ContentType,
		Size:         obj.ContentLength,
		Hash:         strings.Trim(obj.ETag, `"`),
		LastModified: obj.LastModified,
	})
	m.Merge(metadata.Hint{Size: int64(len(data))})

	applyDetection(&m, data)
	applyFallbacks(&m)
	return m
}

// applyDetection 跑内容探测并把结果并入元数据。
// 通常探测只能填补空字段；唯一的例外：当前类型是通用占位
// (application/octet-stream) 或缺失时，允许探测出的更具体类型顶掉它 ——
// 占位类型不携带任何信息，没有保留价值。
// 注意：这里只看当前值是不是占位，不追溯它来自 hint 还是来源信号。
// 调用方显式给的 octet-stream 同样会被替换，hint 字段的不可覆盖性
// 在这一个点上让位于占位类型的无信息性。
func applyDetection(m *metadata.Metadata, data []byte) {
	r := detect.Detect(data, m.Name)
	if r.Empty() {
		return
	}
	if r.MIME != "" && detect.IsGenericMIME(m.MimeType) {
		m.MimeType = r.MIME
	}
	m.Merge(metadata.Hint{MimeType: r.MIME, Extension: r.Extension})
}

// applyFallbacks 逐级推导仍然缺失的字段，每一步只在目标为空时生效：
// 扩展名←类型，类型←文件名，类型←扩展名。推不出来就保持空，绝不编造。
func applyFallbacks(m *metadata.Metadata) {
	if m.Extension == "" && m.MimeType != "" {
		if ext, ok := detect.ExtensionFromMIME(m.MimeType); ok {
			m.Extension = ext
		}
	}
	if m.MimeType == "" && m.Name != "" {
		if r := detect.FromFilename(m.Name); r.MIME != "" {
			m.MimeType = r.MIME
		}
	}
	if m.MimeType == "" && m.Extension != "" {
		if mt, ok := detect.MIMEFromExtension(m.Extension); ok {
			m.MimeType = mt
		}
	}
}

// lastURLSegment 取 URL 路径的最后一段作为候选文件名，取不到就返回空串
func lastURLSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return ""
	}
	return base
}

// headerHash 从响应头里挖内容指纹：ETag (去引号) 优先，其次 Content-MD5
func headerHash(h http.Header) string {
	if etag := strings.Trim(h.Get("ETag"), `"`); etag != "" && !strings.HasPrefix(etag, "W/") {
		return etag
	}
	return h.Get("Content-MD5")
}
