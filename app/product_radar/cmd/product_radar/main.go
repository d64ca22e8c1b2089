package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/config"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/engine"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/logger"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/render"
)

var version = "dev"

var (
	configPath string
	htmlPath   string
	jsonOutput bool
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "product_radar",
	Short:   "产品雷达：根据主题调研 Product Hunt 上的同类产品",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		config.LoadDotEnv(".env")
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("无法加载配置文件: %w", err)
		}
		if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
			return fmt.Errorf("无法初始化日志: %w", err)
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "配置文件路径")

	researchCmd.Flags().StringVar(&htmlPath, "html", "", "将报告渲染为 HTML 文件")
	researchCmd.Flags().BoolVar(&jsonOutput, "json", false, "以 JSON 输出完整结果")

	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "打印版本号",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "product_radar %s\n", version)
	},
}

var researchCmd = &cobra.Command{
	Use:   "research <topic>",
	Short: "对一个产品主题执行一次调研",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.TrimSpace(strings.Join(args, " "))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := engine.NewEngine(cfg, nil)
		if err != nil {
			return err
		}

		res, err := e.Run(ctx, engine.RunOptions{
			Topic: topic,
			ProgressCallback: func(status string, progress int) {
				logger.Log.Infof("[%3d%%] %s", progress, status)
			},
		})
		if err != nil {
			return fmt.Errorf("调研失败: %w", err)
		}

		if htmlPath != "" {
			if err := render.WriteFile(htmlPath, topic, res, time.Now()); err != nil {
				return fmt.Errorf("生成 HTML 失败: %w", err)
			}
			logger.Log.Infof("报告已生成: %s", htmlPath)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			data, err := sonic.ConfigStd.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "关键词: %s\n产品数: %d\n\n%s\n", strings.Join(res.Keywords, ", "), len(res.Products), res.Content)
		return nil
	},
}
