package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
)

// MutexLedger 是一個使用 Mutex 實現的帳本
//
// 結構:
//
//	accounts: 帳戶資料 Map (帳戶名稱 -> 帳戶)
//	mu: RWMutex 用於保護帳戶資料
type MutexLedger struct {
	accounts map[string]*domain.Account
	mu       sync.RWMutex
}

// NewMutexLedger 建立一個空的 MutexLedger 實例
func NewMutexLedger() *MutexLedger {
	return &MutexLedger{
		accounts: make(map[string]*domain.Account),
	}
}

// CreateAccount 建立餘額為 0 的帳戶
func (m *MutexLedger) CreateAccount(ctx context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[owner]; ok {
		return domain.ErrAccountAlreadyExists
	}
	m.accounts[owner] = domain.NewAccount(owner)
	return nil
}

// Credit 處理入帳邏輯
//
// 參數:
//
//	owner: 帳戶名稱
//	amount: 入帳金額
//
// 回傳:
//
//	error: 處理錯誤 (如帳戶不存在)
func (m *MutexLedger) Credit(ctx context.Context, owner string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[owner]
	if !ok {
		return domain.ErrAccountNotFound
	}
	return account.Credit(amount)
}

// Debit 處理扣款邏輯
//
// 參數:
//
//	owner: 帳戶名稱
//	amount: 扣款金額
//
// 回傳:
//
//	error: 處理錯誤 (如餘額不足)
func (m *MutexLedger) Debit(ctx context.Context, owner string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[owner]
	if !ok {
		return domain.ErrAccountNotFound
	}
	return account.Debit(amount)
}

// GetAccount 取得指定帳戶的快照 (深拷貝)
func (m *MutexLedger) GetAccount(ctx context.Context, owner string) (domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[owner]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account.Clone(), nil
}

// ListAccounts 列出所有帳戶名稱，依名稱排序
func (m *MutexLedger) ListAccounts(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.accounts))
	for name := range m.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

var _ usecase.Ledger = (*MutexLedger)(nil)
