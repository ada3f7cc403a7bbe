package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// exportTimeout 單次匯出的時間上限
const exportTimeout = time.Minute

// TransactionExporter 由 usecase.CoreUseCase 實作
type TransactionExporter interface {
	ExportTransactions(ctx context.Context) (int, error)
}

// Scheduler 依 cron 表示式定期匯出交易紀錄 (server 模式)
type Scheduler struct {
	cron     *cron.Cron
	exporter TransactionExporter
	spec     string
	log      zerolog.Logger
}

func NewScheduler(exporter TransactionExporter, spec string, log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	cronLogger := cron.PrintfLogger(&log)
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:     c,
		exporter: exporter,
		spec:     spec,
		log:      log,
	}
}

// Start 註冊匯出工作並啟動排程
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunExport); err != nil {
		return fmt.Errorf("schedule export %q: %w", s.spec, err)
	}
	s.log.Info().Str("schedule", s.spec).Msg("scheduled transaction export job")
	s.cron.Start()
	return nil
}

// RunExport 執行一次匯出，失敗只記錄
func (s *Scheduler) RunExport() {
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	n, err := s.exporter.ExportTransactions(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled export failed")
		return
	}
	s.log.Debug().Int("transactions", n).Msg("scheduled export done")
}

// Stop 停止排程，回傳的 context 在執行中的工作結束後 Done
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
