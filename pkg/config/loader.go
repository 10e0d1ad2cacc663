package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
func Load(cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		// 用户指定了文件，直接使用
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// 搜索顺序：
		// 1. 当前目录
		viper.AddConfigPath(".")
		// 2. 当前目录下的 .uf
		viper.AddConfigPath(".uf")
		// 3. 用户主目录下的 .uf
		viper.AddConfigPath(filepath.Join(home, ".uf"))

		viper.SetConfigType("yaml")
		viper.SetConfigName("config") // 找 config.yaml
	}

	// 3. 读取环境变量 (UF_DATABASE_HOST 等)
	viper.SetEnvPrefix("UF")
	viper.AutomaticEnv()

	// 4. 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		// 没找到配置文件不算错 (可能全靠环境变量/默认值)，
		// 但找到了却解析失败必须报错
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	}

	return nil
}

func setDefaults() {
	// 数据库默认值
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "unifile")
	viper.SetDefault("database.dbname", "unifile")
	viper.SetDefault("database.sslmode", "disable")

	// 对象存储默认值 (endpoint 为空时走 AWS 默认域名)
	viper.SetDefault("s3.endpoint", "")
	viper.SetDefault("s3.region", "us-east-1")
	viper.SetDefault("s3.bucket", "unifile")

	// Redis 存在性缓存 (url 为空时不启用)
	viper.SetDefault("redis.url", "")
	viper.SetDefault("redis.ttl", "24h")

	// 目录扫描
	viper.SetDefault("scan.concurrency", 4)
}
