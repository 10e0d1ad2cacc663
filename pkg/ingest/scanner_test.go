package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifile/pkg/catalog"
	"unifile/pkg/types"
)

// memCatalog 测试用的内存登记层，带锁保护并发写
type memCatalog struct {
	mu      sync.Mutex
	records map[string]*catalog.FileRecord
}

func newMemCatalog() *memCatalog {
	return &memCatalog{records: map[string]*catalog.FileRecord{}}
}

func (m *memCatalog) Save(_ context.Context, rec *catalog.FileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.Digest]; !ok {
		m.records[rec.Digest] = rec
	}
	return nil
}

func (m *memCatalog) GetByDigest(_ context.Context, digest string) (*catalog.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[digest]
	if !ok {
		return nil, catalog.ErrRecordNotFound
	}
	return rec, nil
}

func (m *memCatalog) Has(_ context.Context, digest string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[digest]
	return ok, nil
}

func (m *memCatalog) List(_ context.Context, limit int) ([]catalog.FileRecord, error) {
	return nil, nil
}

func (m *memCatalog) Delete(_ context.Context, digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, digest)
	return nil
}

var _ catalog.Catalog = (*memCatalog)(nil)

// writeTree 搭建测试目录树
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"readme.md":      "# hello",
		"data/a.txt":     "alpha",
		"data/b.txt":     "beta",
		"logs/debug.log": "noise",
		".ufignore":      "*.log\n",
		".env":           "SECRET=1",
	})

	s, err := NewScanner(root, Options{Concurrency: 2})
	require.NoError(t, err)

	results, err := s.Scan(context.Background())
	require.NoError(t, err)

	var paths []string
	for _, r := range results {
		paths = append(paths, filepath.ToSlash(r.RelPath))
	}
	// *.log 被用户规则忽略，.env 被默认规则忽略，.ufignore 本身不算数据
	assert.ElementsMatch(t, []string{"readme.md", "data/a.txt", "data/b.txt"}, paths)

	// 每个结果都带完整的采集产物
	for _, r := range results {
		require.NotNil(t, r.File)
		assert.Equal(t, types.SourceFile, r.File.Source())
		assert.Len(t, r.Digest, 64)
	}
}

func TestScanner_RegistersIntoCatalog(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"one.txt": "first",
		"two.txt": "second",
	})

	cat := newMemCatalog()
	s, err := NewScanner(root, Options{Catalog: cat})
	require.NoError(t, err)

	results, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		ok, err := cat.Has(context.Background(), r.Digest)
		require.NoError(t, err)
		assert.True(t, ok, "every scanned file must be registered")

		rec, err := cat.GetByDigest(context.Background(), r.Digest)
		require.NoError(t, err)
		assert.Equal(t, r.File.Name(), rec.Name)
	}
}

func TestScanner_EmptyDir(t *testing.T) {
	s, err := NewScanner(t.TempDir(), Options{})
	require.NoError(t, err)

	results, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}
