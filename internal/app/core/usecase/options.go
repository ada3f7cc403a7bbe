package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Option 定義了 CoreUseCase 的配置選項函數
type Option func(*CoreUseCase)

// WithJournal 啟用 WAL
func WithJournal(journal Journal) Option {
	return func(c *CoreUseCase) {
		c.journal = journal
	}
}

// WithExporter 設定交易紀錄匯出目的地
func WithExporter(exporter Exporter) Option {
	return func(c *CoreUseCase) {
		c.exporter = exporter
	}
}

// WithPublisher 設定購買事件發布者
func WithPublisher(publisher Publisher) Option {
	return func(c *CoreUseCase) {
		c.publisher = publisher
	}
}

// WithClock 替換時間來源 (測試用)
func WithClock(now func() time.Time) Option {
	return func(c *CoreUseCase) {
		c.now = now
	}
}

// WithIDGenerator 替換交易 ID 產生器 (測試用)
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(c *CoreUseCase) {
		c.newID = newID
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *CoreUseCase) {
		c.log = log
	}
}
