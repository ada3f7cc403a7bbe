package main

import (
	"context"
	"flag"
	"os"

	"github.com/JoeShih716/go-mem-market/internal/app/core/adapter/in/console"
	"github.com/JoeShih716/go-mem-market/internal/app/core/bootstrap"
	"github.com/JoeShih716/go-mem-market/internal/config"
	"github.com/JoeShih716/go-mem-market/internal/logger"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	// 1. 載入設定
	cfg, err := config.Load(*configPath, ".env")
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.NewWithLevel(cfg.Log.Level)

	// 2. 組裝核心 (含 WAL 恢復)
	ctx := logger.WithContext(context.Background(), log)
	app, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start market")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close resources")
		}
	}()

	// 3. 互動選單，離開時匯出交易紀錄
	menu := console.NewMenu(app.Core, os.Stdin, os.Stdout, app.ExportTarget)
	if err := menu.Run(ctx); err != nil {
		log.Error().Err(err).Msg("read input failed")
	}
}
