package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-market/pkg/wal"
)

// WALJournal 把 domain.Event 寫入 WAL，並在啟動時重放
type WALJournal struct {
	wal *wal.WAL
}

func NewWALJournal(w *wal.WAL) *WALJournal {
	return &WALJournal{wal: w}
}

// Append 寫入記憶體後立即刷入硬碟 (Critical Path)
func (j *WALJournal) Append(ctx context.Context, event *domain.Event) error {
	if err := j.wal.Write(event); err != nil {
		return err
	}
	return j.wal.Flush()
}

// Replay 依寫入順序解碼並回呼每一筆事件
func (j *WALJournal) Replay(ctx context.Context, apply func(event *domain.Event) error) error {
	return j.wal.ReadAll(func(jsonRaw []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var event domain.Event
		if err := json.Unmarshal(jsonRaw, &event); err != nil {
			return fmt.Errorf("decode journal event: %w", err)
		}
		return apply(&event)
	})
}

var _ usecase.Journal = (*WALJournal)(nil)
