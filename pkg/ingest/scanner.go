// Package ingest 实现目录批量采集：
// 遍历目录树，跳过忽略规则命中的路径，对剩下的每个文件
// 并发执行一次完整的采集解析，并视情况把结果登记进 catalog。
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"unifile/pkg/catalog"
	"unifile/pkg/file"
	"unifile/pkg/ignore"
)

// DefaultConcurrency 并发采集的默认上限。
// 采集是 IO + SHA-256 混合负载，适度并发即可打满磁盘
const DefaultConcurrency = 4

// Options 控制一次扫描的行为
type Options struct {
	// Concurrency 并发采集的 worker 数，<=0 时用 DefaultConcurrency
	Concurrency int

	// Catalog 非 nil 时，每个采集成功的文件都会登记进去
	Catalog catalog.Catalog
}

// Result 是单个文件的扫描结果
type Result struct {
	// RelPath 相对于扫描根目录的路径
	RelPath string

	// File 采集解析完成的文件值
	File *file.File

	// Digest 内容的 SHA-256 摘要
	Digest string
}

// Scanner 执行目录扫描
type Scanner struct {
	root    string
	matcher *ignore.Matcher
	opts    Options
}

// NewScanner 构建扫描器，加载 root 下的 .ufignore (如果有)
func NewScanner(root string, opts Options) (*Scanner, error) {
	matcher, err := ignore.NewMatcher(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore rules: %w", err)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Scanner{root: root, matcher: matcher, opts: opts}, nil
}

// Scan 遍历根目录并采集所有未被忽略的文件。
// 遍历本身是串行的 (文件系统元数据操作很便宜)，
// 真正耗时的采集+摘要计算交给 errgroup 并发执行。
// 任何一个文件失败都会取消整批并返回该错误。
func (s *Scanner) Scan(ctx context.Context) ([]Result, error) {
	// 1. 先串行收集路径，保证结果顺序与遍历顺序一致
	var relPaths []string

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err // 权限错误等
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		// 忽略规则命中：目录整棵跳过，文件单个跳过
		if s.matcher.Matches(filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		// .ufignore 本身是配置，不算数据
		if !d.IsDir() && d.Name() == ".ufignore" {
			return nil
		}
		if d.IsDir() {
			return nil
		}

		relPaths = append(relPaths, rel)
		return nil
	}

	if err := filepath.WalkDir(s.root, walkFn); err != nil {
		return nil, fmt.Errorf("walk failed: %w", err)
	}

	// 2. 并发采集。按下标写入预分配的结果切片，不需要额外加锁
	results := make([]Result, len(relPaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i, rel := range relPaths {
		g.Go(func() error {
			f, err := file.NewFromPath(filepath.Join(s.root, rel))
			if err != nil {
				return fmt.Errorf("failed to ingest %s: %w", rel, err)
			}
			digest, err := f.Checksum()
			if err != nil {
				return err
			}

			if s.opts.Catalog != nil {
				rec, err := catalog.NewRecord(f.Source(), digest, f.Metadata())
				if err != nil {
					return err
				}
				if err := s.opts.Catalog.Save(gctx, rec); err != nil {
					return fmt.Errorf("failed to register %s: %w", rel, err)
				}
			}

			results[i] = Result{RelPath: rel, File: f, Digest: digest}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
