// Package disk 是文件系统的字节传输层：整块读、stat、原子写、删除。
// 这里只做机械的系统调用委托，属性解析完全不在这一层。
package disk

import (
	"os"
	"path/filepath"
	"time"
)

// FileInfo 是 stat 的结果里我们关心的那部分
type FileInfo struct {
	Size    int64
	ModTime time.Time
}

// Read 把整个文件读进内存
func Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat 返回文件的大小和修改时间。
// 注意：可移植的 os.FileInfo 拿不到创建时间 (birthtime)，
// 所以创建时间字段由调用方自行决定留空。
func Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Write 原子地写入文件。
// 技巧：先写到同目录的临时文件再 Rename，
// 保证目标路径上要么没有文件，要么是完整的文件。
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(dir, "temp-*")
	if err != nil {
		return err
	}
	// Rename 成功后这个删除会失效，无害
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Chmod(0o644); err != nil {
		tempFile.Close()
		return err
	}
	// 必须先关闭才能 Rename
	if err := tempFile.Close(); err != nil {
		return err
	}

	return os.Rename(tempFile.Name(), path)
}

// Remove 删除文件
func Remove(path string) error {
	return os.Remove(path)
}
