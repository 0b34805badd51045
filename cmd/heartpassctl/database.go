package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lodymel/heartpass/pkg/database"
)

func mountDatabaseCommands(app *cli.App) {
	app.Commands = append(app.Commands, migrateCommand)
}

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "执行数据库迁移",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "rollback",
			Usage: "回滚而不是升级",
		},
		&cli.IntFlag{
			Name:  "steps",
			Usage: "回滚的版本数",
			Value: 1,
		},
	},
	Action: func(c *cli.Context) error {
		cfg, logger, err := bootstrap(c)
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return fmt.Errorf("数据库连接失败: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if c.Bool("rollback") {
			steps := c.Int("steps")
			if steps <= 0 {
				return fmt.Errorf("steps 必须大于 0")
			}
			if err := database.RollbackMigrations(sqlDB, steps, logger); err != nil {
				return err
			}
			logger.Info("回滚完成", zap.Int("steps", steps))
			return nil
		}

		return database.RunMigrations(sqlDB, logger)
	},
}
