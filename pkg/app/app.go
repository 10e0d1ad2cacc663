// pkg/app/app.go
package app

import (
	"context"
	"fmt"

	"unifile/pkg/catalog"
	"unifile/pkg/catalog/cache"
	"unifile/pkg/storage"
	"unifile/pkg/storage/s3"

	"github.com/spf13/viper"
)

// App 是整个应用程序的依赖容器 (Dependency Container)
// 它持有所有"单例"服务。
// 【关键】所有外部依赖 (对象存储 / 数据库 / Redis) 都是惰性初始化的：
// 本地操作 (inspect / cp) 不应该因为 Postgres 没起来而失败
type App struct {
	store storage.ObjectStore
	cat   catalog.Catalog
}

// NewApp 是工厂函数。它遵循 Viper 的配置，但不知道具体的 CLI 命令
func NewApp() *App {
	return &App{}
}

// ObjectStore 返回 S3 适配器，首次调用时按配置构建
func (a *App) ObjectStore(ctx context.Context) (storage.ObjectStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := s3.NewAdapter(ctx, s3.Config{
		Endpoint:        viper.GetString("s3.endpoint"),
		Region:          viper.GetString("s3.region"),
		AccessKeyID:     viper.GetString("s3.access_key"),
		SecretAccessKey: viper.GetString("s3.secret_key"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init object store: %w", err)
	}
	a.store = store
	return a.store, nil
}

// Bucket 返回配置的默认 bucket
func (a *App) Bucket() string {
	return viper.GetString("s3.bucket")
}

// Catalog 返回登记层，首次调用时连接数据库并自动迁移表结构。
// 配置了 redis.url 时再裹一层存在性缓存装饰器。
func (a *App) Catalog(ctx context.Context) (catalog.Catalog, error) {
	if a.cat != nil {
		return a.cat, nil
	}

	db, err := catalog.NewDB(ctx, catalog.Config{
		Host:     viper.GetString("database.host"),
		Port:     viper.GetInt("database.port"),
		User:     viper.GetString("database.user"),
		Password: viper.GetString("database.password"),
		DBName:   viper.GetString("database.dbname"),
		SSLMode:  viper.GetString("database.sslmode"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init catalog: %w", err)
	}

	var cat catalog.Catalog = catalog.NewRepository(db)

	// Redis 是可选的加速层，配了才启用
	if redisURL := viper.GetString("redis.url"); redisURL != "" {
		cached, err := cache.NewCachedCatalog(cat, cache.Config{
			RedisURL: redisURL,
			TTL:      viper.GetDuration("redis.ttl"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init catalog cache: %w", err)
		}
		cat = cached
	}

	a.cat = cat
	return a.cat, nil
}
