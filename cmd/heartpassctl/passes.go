package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lodymel/heartpass/internal/catalog"
	"github.com/lodymel/heartpass/internal/repository"
	"github.com/lodymel/heartpass/internal/service"
	"github.com/lodymel/heartpass/pkg/ai"
	"github.com/lodymel/heartpass/pkg/database"
)

func mountPassCommands(app *cli.App) {
	app.Commands = append(app.Commands,
		exportCommand,
		catalogCommand,
		genMessageCommand,
	)
}

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "导出某个用户发出的卡券（xlsx）",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "owner",
			Aliases:  []string{"o"},
			Usage:    "卡券所有者的用户 ID",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "输出目录或文件路径，默认当前目录",
			Value: ".",
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
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		svc := service.NewExportService(cfg, repository.NewRepository(db), logger)
		buf, filename, err := svc.ExportSent(c.Context, c.String("owner"))
		if err != nil {
			return err
		}

		out := c.String("out")
		if info, err := os.Stat(out); err == nil && info.IsDir() {
			out = filepath.Join(out, filename)
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("写入文件失败: %w", err)
		}

		logger.Info("导出完成", zap.String("file", out))
		fmt.Println(out)
		return nil
	},
}

var catalogCommand = &cli.Command{
	Name:  "catalog",
	Usage: "列出礼物类型与语气",
	Action: func(c *cli.Context) error {
		fmt.Println("Gifts:")
		for _, g := range catalog.GiftTypes {
			fmt.Printf("\t%-20s %s %s\n", g.ID, g.Emoji, g.Title)
		}
		fmt.Println("Moods:")
		for _, m := range catalog.Moods {
			fmt.Printf("\t%-20s %s\n", m.ID, m.Label)
		}
		return nil
	},
}

var genMessageCommand = &cli.Command{
	Name:  "gen-message",
	Usage: "按当前配置生成一条祝福语（AI 不可用时使用模板）",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "gift",
			Aliases:  []string{"g"},
			Usage:    "礼物类型 ID",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "mood",
			Aliases: []string{"m"},
			Usage:   "语气：cute | fun | heartfelt | event",
			Value:   string(catalog.MoodCute),
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "收件人称呼",
		},
		&cli.StringFlag{
			Name:  "from",
			Usage: "发送人称呼",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, logger, err := bootstrap(c)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if _, ok := catalog.LookupGift(c.String("gift")); !ok {
			return fmt.Errorf("未知礼物类型: %s", c.String("gift"))
		}
		if !catalog.IsValidMood(c.String("mood")) {
			return fmt.Errorf("未知语气: %s", c.String("mood"))
		}

		var completer ai.Completer
		if cfg.AI.APIKey != "" {
			completer = ai.NewClient(&cfg.AI)
		}

		msg := service.NewMessageGenerator(cfg, completer, logger).Generate(c.Context, service.MessageRequest{
			GiftType:      c.String("gift"),
			Mood:          c.String("mood"),
			RecipientName: c.String("to"),
			SenderName:    c.String("from"),
		})

		fmt.Printf("[%s] %s\n", msg.Source, msg.Text)
		return nil
	},
}
