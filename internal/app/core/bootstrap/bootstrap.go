package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-mem-market/internal/app/core/adapter/out/file"
	"github.com/JoeShih716/go-mem-market/internal/app/core/adapter/out/journal"
	"github.com/JoeShih716/go-mem-market/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-mem-market/internal/app/core/adapter/out/mysql"
	"github.com/JoeShih716/go-mem-market/internal/app/core/adapter/out/rabbitmq"
	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-market/internal/config"
	"github.com/JoeShih716/go-mem-market/pkg/mysql"
	"github.com/JoeShih716/go-mem-market/pkg/wal"
)

// App 組裝好的核心與需要關閉的資源
type App struct {
	Core *usecase.CoreUseCase
	// ExportTarget 匯出目的地的描述 (檔案路徑或資料表)
	ExportTarget string

	closers []func() error
	log     zerolog.Logger
}

// Build 依設定組裝 CoreUseCase
//
// 1. 帳本實作 (mutex / lmax)，lmax 的迴圈在 Close 時停止
// 2. 匯出目的地 (file / mysql)
// 3. WAL (journal.path 有設定時)
// 4. 購買事件發布 (rabbitmq.url 有設定時，連不上改用 Fallback)
// 5. 從 WAL 恢復狀態
func Build(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	app := &App{log: log}
	opts := []usecase.Option{usecase.WithLogger(log)}

	var ledger usecase.Ledger
	switch cfg.Ledger.Type {
	case config.LedgerLMAX:
		l := memory.NewLMAXLedger(cfg.Ledger.BufferSize)
		// 迴圈生命週期跟著 App，不跟著 ctx
		l.Start(context.Background())
		app.closers = append(app.closers, func() error {
			l.Stop()
			return nil
		})
		ledger = l
	default:
		ledger = memory.NewMutexLedger()
	}
	log.Info().Str("ledger", cfg.Ledger.Type).Msg("ledger selected")

	switch cfg.Export.Sink {
	case config.SinkMySQL:
		client, err := mysql.NewClient(ctx, cfg.MySQL, log)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, client.Close)
		archive := mysql_adapter.NewArchive(client)
		if err := archive.Migrate(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrate transactions table: %w", err)
		}
		opts = append(opts, usecase.WithExporter(archive))
		app.ExportTarget = fmt.Sprintf("mysql %s.transactions", cfg.MySQL.DBName)
	default:
		opts = append(opts, usecase.WithExporter(file.NewExporter(cfg.Export.Path)))
		app.ExportTarget = cfg.Export.Path
	}

	if cfg.Journal.Path != "" {
		w, err := wal.NewWAL(cfg.Journal.Path)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("open journal: %w", err)
		}
		app.closers = append(app.closers, w.Close)
		opts = append(opts, usecase.WithJournal(journal.NewWALJournal(w)))
	}

	if cfg.RabbitMQ.URL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey, log)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, purchase events disabled")
			opts = append(opts, usecase.WithPublisher(rabbitmq.NewFallback(log)))
		} else {
			app.closers = append(app.closers, func() error {
				pub.Close()
				return nil
			})
			opts = append(opts, usecase.WithPublisher(pub))
		}
	}

	app.Core = usecase.NewCoreUseCase(ledger, memory.NewStore(), opts...)
	if _, err := app.Core.Recover(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("recover from journal: %w", err)
	}
	return app, nil
}

// Close 以建立的相反順序關閉資源
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
