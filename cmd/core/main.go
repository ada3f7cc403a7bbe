package main

import (
	"context"
	"flag"
	"net"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	grpc_adapter "github.com/JoeShih716/go-mem-market/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-mem-market/internal/app/core/adapter/in/schedule"
	"github.com/JoeShih716/go-mem-market/internal/app/core/bootstrap"
	"github.com/JoeShih716/go-mem-market/internal/config"
	"github.com/JoeShih716/go-mem-market/internal/logger"
	grpcpkg "github.com/JoeShih716/go-mem-market/pkg/grpc"
)

// shutdownTimeout 關機時匯出的時間上限
const shutdownTimeout = 30 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 組裝核心 (含 WAL 恢復)
	app, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start market")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close resources")
		}
	}()

	// 3. 定期匯出 (Optional)
	var scheduler *schedule.Scheduler
	if cfg.Export.Schedule != "" {
		scheduler = schedule.NewScheduler(app.Core, cfg.Export.Schedule, log)
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start scheduler")
		}
	}

	// 4. 啟動 gRPC Server
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPC.Addr).Msg("failed to listen")
	}
	s := grpc.NewServer(grpc.UnaryInterceptor(grpcpkg.LoggingServerInterceptor(log)))
	grpc_adapter.RegisterMarketServiceServer(s, grpc_adapter.NewGrpcServer(app.Core))

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.GRPC.Addr).Str("export", app.ExportTarget).Msg("starting grpc server")
		serveErr <- s.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	case err := <-serveErr:
		log.Error().Err(err).Msg("grpc server stopped")
	}

	s.GracefulStop()
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	// 5. 關機前匯出一次
	exportCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if n, err := app.Core.ExportTransactions(exportCtx); err != nil {
		log.Error().Err(err).Msg("export on shutdown failed")
	} else {
		log.Info().Int("transactions", n).Str("target", app.ExportTarget).Msg("transactions exported")
	}
	log.Info().Msg("server exited")
}
