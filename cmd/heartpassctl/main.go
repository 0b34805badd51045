package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lodymel/heartpass/config"
	applogger "github.com/lodymel/heartpass/pkg/logger"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "heartpassctl",
		Version: version,
		Usage:   "HeartPass 运维命令行：迁移、导出、目录与祝福语调试",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      "config",
				Aliases:   []string{"c"},
				Usage:     "配置文件路径，默认读取 ./config.yaml",
				TakesFile: true,
				EnvVars:   []string{"HEARTPASS_CONFIG"},
			},
		},
	}
	mountDatabaseCommands(app)
	mountPassCommands(app)

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "heartpassctl: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap 加载配置并初始化日志
func bootstrap(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, logger, nil
}
