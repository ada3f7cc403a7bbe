package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
)

// Ledger 是帳務系統的介面
type Ledger interface {
	// CreateAccount 建立餘額為 0 的帳戶，已存在回傳 ErrAccountAlreadyExists
	CreateAccount(ctx context.Context, owner string) error
	// Credit 入帳
	Credit(ctx context.Context, owner string, amount decimal.Decimal) error
	// Debit 扣款，餘額不足回傳 ErrInsufficientBalance
	Debit(ctx context.Context, owner string, amount decimal.Decimal) error
	// GetAccount 取得帳戶快照 (含歷史紀錄)
	GetAccount(ctx context.Context, owner string) (domain.Account, error)
	// ListAccounts 列出所有帳戶名稱 (已排序)
	ListAccounts(ctx context.Context) ([]string, error)
}
