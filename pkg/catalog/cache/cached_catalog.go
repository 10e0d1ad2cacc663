// Package cache 给登记层加一层 Redis 存在性缓存。
// 只缓存"某个内容摘要是否已登记"这一个比特，不缓存文件内容：
// 文件正文可能很大，Redis 内存极其宝贵，只存 Existence 性价比最高。
package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"unifile/pkg/catalog"
)

// CachedCatalog 是一个装饰器，为底层的 catalog.Catalog 添加 Redis 缓存层
type CachedCatalog struct {
	backend catalog.Catalog // 被装饰的底层登记层 (SQL)
	client  *redis.Client   // Redis 客户端
	ttl     time.Duration   // 缓存过期时间 (例如 24h)
}

type Config struct {
	RedisURL string        // 标准连接字符串: redis://<user>:<password>@<host>:<port>/<db>
	TTL      time.Duration // 过期时间
}

func NewCachedCatalog(backend catalog.Catalog, cfg Config) (*CachedCatalog, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Fail-fast 连接检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CachedCatalog{
		backend: backend,
		client:  client,
		ttl:     cfg.TTL,
	}, nil
}

var _ catalog.Catalog = (*CachedCatalog)(nil)

// cacheKey 生成 Redis Key，添加前缀防止冲突
func (c *CachedCatalog) cacheKey(digest string) string {
	return "uf:rec:" + digest
}

// Has 优先查 Redis，实现毫秒级去重判断
func (c *CachedCatalog) Has(ctx context.Context, digest string) (bool, error) {
	key := c.cacheKey(digest)

	// 1. 查 Redis
	val, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		// 缓存故障降级：Redis 挂了就退化为无缓存模式直接查 SQL，
		// 绝不让缓存层的故障拖垮主流程
		log.Printf("WARN: redis error, falling back to catalog: %v", err)
	} else if val > 0 {
		// Cache Hit! 无需发起 SQL 查询
		return true, nil
	}

	// 2. 缓存未命中 (Cache Miss)，查底层登记层
	found, err := c.backend.Has(ctx, digest)
	if err != nil {
		return false, err
	}

	// 3. 缓存回填 (Cache Fill)
	if found {
		// 异步写入 Redis，不阻塞主流程。
		// 使用 context.Background() 确保即使上层 ctx 取消，回填也能完成
		go func() {
			fillCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			c.client.Set(fillCtx, key, "1", c.ttl)
		}()
	}

	return found, nil
}

// Save 登记记录。利用 Has 的缓存能力进行预检。
func (c *CachedCatalog) Save(ctx context.Context, rec *catalog.FileRecord) error {
	// 1. Redis 里已有：这一步耗时 < 1ms，直接跳过写库 (登记本身就是幂等的)
	exists, err := c.Has(ctx, rec.Digest)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// 2. 穿透到底层登记层
	if err := c.backend.Save(ctx, rec); err != nil {
		return err
	}

	// 3. 只有写库成功了才写 Redis。Set 的错误可以忽略，不影响主流程
	c.client.Set(ctx, c.cacheKey(rec.Digest), "1", c.ttl)

	return nil
}

// GetByDigest 透传 - 整行记录不缓存
func (c *CachedCatalog) GetByDigest(ctx context.Context, digest string) (*catalog.FileRecord, error) {
	return c.backend.GetByDigest(ctx, digest)
}

// List 透传
func (c *CachedCatalog) List(ctx context.Context, limit int) ([]catalog.FileRecord, error) {
	return c.backend.List(ctx, limit)
}

// Delete 删除记录并同步失效缓存
func (c *CachedCatalog) Delete(ctx context.Context, digest string) error {
	if err := c.backend.Delete(ctx, digest); err != nil {
		return err
	}
	// 先删库再删缓存，Del 失败只会导致一次多余的 Cache Hit 预检
	c.client.Del(ctx, c.cacheKey(digest))
	return nil
}
