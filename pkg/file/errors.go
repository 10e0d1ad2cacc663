package file

import "errors"

// 错误分类只有两族：
//
//   - 传输失败 (HTTP / 对象存储 / 磁盘读写)：原样上抛，采集整体失败
//   - 非法来源：对当前来源不支持的操作 (如给非 S3 文件签名)
//
// 探测/解析永远不会产生错误 —— 每一步都是"取不到就留空"。
var (
	// ErrInvalidSource 对该文件来源不支持此操作
	ErrInvalidSource = errors.New("invalid or unsupported source for this operation")

	// ErrNotFound 文件系统上不存在该文件
	ErrNotFound = errors.New("file not found")

	// ErrHTTP HTTP 请求失败
	ErrHTTP = errors.New("http request failed")

	// ErrS3 对象存储操作失败
	ErrS3 = errors.New("object storage operation failed")

	// ErrRead 读取内容失败
	ErrRead = errors.New("read operation failed")

	// ErrWrite 写入内容失败
	ErrWrite = errors.New("write operation failed")
)
