package commands

import (
	"fmt"
	"os"
	"unifile/pkg/app"
	"unifile/pkg/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// 全局应用实例，供子命令使用
	UF *app.App
)

var rootCmd = &cobra.Command{
	Use:   "uf",
	Short: "unifile: unified file acquisition and metadata resolution",
	// 【关键】PersistentPreRunE 会在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 统一初始化 App。外部依赖都是惰性的，这里不会连任何服务
		UF = app.NewApp()
		return nil
	},
}

// Execute 是入口
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// 在初始化时，加载配置
	cobra.OnInitialize(initConfig)

	// 1. 定义全局参数 --config
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.uf/config.yaml)")

	// 2. 定义 s3.bucket 参数，并绑定到 Viper
	// 这样用户既可以在 yaml 里写，也可以用 --bucket 覆盖
	rootCmd.PersistentFlags().String("bucket", "", "Default object storage bucket")
	if err := viper.BindPFlag("s3.bucket", rootCmd.PersistentFlags().Lookup("bucket")); err != nil {
		fmt.Println("Failed to bind flag:", err)
		os.Exit(1)
	}
}

// initConfig 读取配置文件和环境变量
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Println("Config error:", err)
		os.Exit(1)
	}
}
