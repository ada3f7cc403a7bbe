package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
)

// DefaultLMAXBufferSize 輸送帶預設長度
const DefaultLMAXBufferSize = 1000

// ErrLedgerStopped 帳本迴圈已停止，不再接受請求
var ErrLedgerStopped = errors.New("ledger loop stopped")

type ledgerOp uint8

const (
	opCreateAccount ledgerOp = iota + 1
	opCredit
	opDebit
	opGetAccount
	opListAccounts
)

// ledgerRequest 是送上輸送帶的請求
type ledgerRequest struct {
	op     ledgerOp
	owner  string
	amount decimal.Decimal
	result chan ledgerResult
}

type ledgerResult struct {
	err     error
	account domain.Account
	owners  []string
}

// LMAXLedger 是一個使用 LMAX 架構 (單一消費者) 實現的帳本
//
// 結構:
//
//	accounts: 帳戶資料 Map，只有 run 迴圈會存取，不需要鎖
//	requests: 請求輸送帶
//	requestPool: 請求物件池，減少 GC 壓力
type LMAXLedger struct {
	accounts    map[string]*domain.Account
	requests    chan *ledgerRequest
	requestPool sync.Pool

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewLMAXLedger 建立一個新的 LMAXLedger 實例，需呼叫 Start 後才會處理請求
//
// 參數:
//
//	bufferSize: 輸送帶長度，<= 0 時使用 DefaultLMAXBufferSize
func NewLMAXLedger(bufferSize int) *LMAXLedger {
	if bufferSize <= 0 {
		bufferSize = DefaultLMAXBufferSize
	}
	return &LMAXLedger{
		accounts: make(map[string]*domain.Account),
		requests: make(chan *ledgerRequest, bufferSize),
		requestPool: sync.Pool{
			New: func() any {
				return &ledgerRequest{
					result: make(chan ledgerResult, 1),
				}
			},
		},
		cancel: func() {},
		done:   make(chan struct{}),
	}
}

// Start 啟動消費者迴圈，重複呼叫只會啟動一次
func (l *LMAXLedger) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		ctx, l.cancel = context.WithCancel(ctx)
		go l.run(ctx)
	})
}

// Stop 停止消費者迴圈並等待輸送帶上的請求處理完
func (l *LMAXLedger) Stop() {
	// 從未 Start 時直接關閉，讓等待中的呼叫者得到 ErrLedgerStopped
	l.startOnce.Do(func() { close(l.done) })
	l.cancel()
	<-l.done
}

// CreateAccount 建立餘額為 0 的帳戶
func (l *LMAXLedger) CreateAccount(ctx context.Context, owner string) error {
	res, err := l.submit(ctx, opCreateAccount, owner, decimal.Zero)
	if err != nil {
		return err
	}
	return res.err
}

// Credit 處理入帳邏輯
func (l *LMAXLedger) Credit(ctx context.Context, owner string, amount decimal.Decimal) error {
	res, err := l.submit(ctx, opCredit, owner, amount)
	if err != nil {
		return err
	}
	return res.err
}

// Debit 處理扣款邏輯
func (l *LMAXLedger) Debit(ctx context.Context, owner string, amount decimal.Decimal) error {
	res, err := l.submit(ctx, opDebit, owner, amount)
	if err != nil {
		return err
	}
	return res.err
}

// GetAccount 取得指定帳戶的快照 (深拷貝)
func (l *LMAXLedger) GetAccount(ctx context.Context, owner string) (domain.Account, error) {
	res, err := l.submit(ctx, opGetAccount, owner, decimal.Zero)
	if err != nil {
		return domain.Account{}, err
	}
	return res.account, res.err
}

// ListAccounts 列出所有帳戶名稱，依名稱排序
func (l *LMAXLedger) ListAccounts(ctx context.Context) ([]string, error) {
	res, err := l.submit(ctx, opListAccounts, "", decimal.Zero)
	if err != nil {
		return nil, err
	}
	return res.owners, res.err
}

// submit 把請求放上輸送帶並等待結果
//
// 回傳:
//
//	ledgerResult: 迴圈處理結果
//	error: ctx 取消或迴圈已停止
func (l *LMAXLedger) submit(ctx context.Context, op ledgerOp, owner string, amount decimal.Decimal) (ledgerResult, error) {
	req := l.requestPool.Get().(*ledgerRequest)
	req.op = op
	req.owner = owner
	req.amount = amount

	select {
	case l.requests <- req:
	case <-l.done:
		l.requestPool.Put(req)
		return ledgerResult{}, ErrLedgerStopped
	case <-ctx.Done():
		l.requestPool.Put(req)
		return ledgerResult{}, ctx.Err()
	}

	select {
	case res := <-req.result:
		l.requestPool.Put(req)
		return res, nil
	case <-l.done:
		// 停止前 drain 可能已處理此請求
		select {
		case res := <-req.result:
			l.requestPool.Put(req)
			return res, nil
		default:
			return ledgerResult{}, ErrLedgerStopped
		}
	case <-ctx.Done():
		// 請求仍在輸送帶上，不放回 Pool
		return ledgerResult{}, ctx.Err()
	}
}

func (l *LMAXLedger) run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.drain()
			return
		case req := <-l.requests:
			req.result <- l.process(req)
		}
	}
}

// drain 處理輸送帶上剩餘的請求
func (l *LMAXLedger) drain() {
	for {
		select {
		case req := <-l.requests:
			req.result <- l.process(req)
		default:
			return
		}
	}
}

func (l *LMAXLedger) process(req *ledgerRequest) ledgerResult {
	switch req.op {
	case opCreateAccount:
		return ledgerResult{err: l.handleCreate(req.owner)}
	case opCredit:
		return ledgerResult{err: l.handleCredit(req.owner, req.amount)}
	case opDebit:
		return ledgerResult{err: l.handleDebit(req.owner, req.amount)}
	case opGetAccount:
		account, ok := l.accounts[req.owner]
		if !ok {
			return ledgerResult{err: domain.ErrAccountNotFound}
		}
		return ledgerResult{account: account.Clone()}
	case opListAccounts:
		return ledgerResult{owners: l.handleList()}
	default:
		return ledgerResult{err: errors.New("unknown ledger operation")}
	}
}

func (l *LMAXLedger) handleCreate(owner string) error {
	if _, ok := l.accounts[owner]; ok {
		return domain.ErrAccountAlreadyExists
	}
	l.accounts[owner] = domain.NewAccount(owner)
	return nil
}

func (l *LMAXLedger) handleCredit(owner string, amount decimal.Decimal) error {
	account, ok := l.accounts[owner]
	if !ok {
		return domain.ErrAccountNotFound
	}
	return account.Credit(amount)
}

func (l *LMAXLedger) handleDebit(owner string, amount decimal.Decimal) error {
	account, ok := l.accounts[owner]
	if !ok {
		return domain.ErrAccountNotFound
	}
	return account.Debit(amount)
}

func (l *LMAXLedger) handleList() []string {
	names := make([]string, 0, len(l.accounts))
	for name := range l.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ usecase.Ledger = (*LMAXLedger)(nil)
