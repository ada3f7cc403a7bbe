package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
)

// publishTimeout 單次購買事件發布的上限
const publishTimeout = 5 * time.Second

// CoreUseCase 是核心業務邏輯層 (銀行 + 商店)
//
// 所有操作都在同一把鎖內序列化執行，等同單執行緒：
// 先驗證全部前置條件 -> 寫入 WAL -> 套用狀態變更。
// 驗證失敗時不會有任何副作用。
type CoreUseCase struct {
	mu        sync.Mutex
	ledger    Ledger
	store     Store
	journal   Journal
	exporter  Exporter
	publisher Publisher
	now       func() time.Time
	newID     func() uuid.UUID
	log       zerolog.Logger
}

func NewCoreUseCase(ledger Ledger, store Store, opts ...Option) *CoreUseCase {
	c := &CoreUseCase{
		ledger: ledger,
		store:  store,
		now:    time.Now,
		newID:  uuid.New,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recover 從 WAL 重放所有事件以恢復狀態 (不再寫入 WAL)
//
// 回傳:
//
//	int: 重放的事件數
//	error: 恢復過程錯誤
func (c *CoreUseCase) Recover(ctx context.Context) (int, error) {
	if c.journal == nil {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	err := c.journal.Replay(ctx, func(event *domain.Event) error {
		if err := c.applyEvent(ctx, event); err != nil {
			return fmt.Errorf("replay event %d (%s): %w", count+1, event.Type, err)
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	c.log.Info().Int("events", count).Msg("state recovered from journal")
	return count, nil
}

// CreateAccount 建立銀行帳戶
func (c *CoreUseCase) CreateAccount(ctx context.Context, owner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if owner == "" {
		return domain.ErrEmptyName
	}
	if _, err := c.ledger.GetAccount(ctx, owner); err == nil {
		return fmt.Errorf("account %q: %w", owner, domain.ErrAccountAlreadyExists)
	}
	return c.commit(ctx, &domain.Event{Type: domain.EventAccountCreated, Owner: owner})
}

// Credit 入帳 (儲值)
func (c *CoreUseCase) Credit(ctx context.Context, owner string, amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if amount.IsNegative() {
		return domain.ErrAmountMustBePositive
	}
	if _, err := c.ledger.GetAccount(ctx, owner); err != nil {
		return fmt.Errorf("account %q: %w", owner, err)
	}
	return c.commit(ctx, &domain.Event{Type: domain.EventCredited, Owner: owner, Amount: amount})
}

// Debit 扣款 (提領)
func (c *CoreUseCase) Debit(ctx context.Context, owner string, amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if amount.IsNegative() {
		return domain.ErrAmountMustBePositive
	}
	account, err := c.ledger.GetAccount(ctx, owner)
	if err != nil {
		return fmt.Errorf("account %q: %w", owner, err)
	}
	if account.Balance.LessThan(amount) {
		return fmt.Errorf("account %q: %w", owner, domain.ErrInsufficientBalance)
	}
	return c.commit(ctx, &domain.Event{Type: domain.EventDebited, Owner: owner, Amount: amount})
}

// GetAccount 取得帳戶快照
func (c *CoreUseCase) GetAccount(ctx context.Context, owner string) (domain.Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.GetAccount(ctx, owner)
}

// ListAccounts 列出所有帳戶名稱
func (c *CoreUseCase) ListAccounts(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.ListAccounts(ctx)
}

// RegisterSeller 註冊賣家，賣家必須先有銀行帳戶
func (c *CoreUseCase) RegisterSeller(ctx context.Context, seller string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.ledger.GetAccount(ctx, seller); err != nil {
		return fmt.Errorf("seller %q needs a bank account: %w", seller, err)
	}
	if c.store.IsSeller(ctx, seller) {
		return fmt.Errorf("seller %q: %w", seller, domain.ErrSellerAlreadyRegistered)
	}
	return c.commit(ctx, &domain.Event{Type: domain.EventSellerRegistered, Owner: seller})
}

// ListItem 上架商品，同名商品會被覆蓋且銷量歸零
func (c *CoreUseCase) ListItem(ctx context.Context, seller, item string, price decimal.Decimal, stock int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.store.IsSeller(ctx, seller) {
		return fmt.Errorf("seller %q: %w", seller, domain.ErrSellerNotRegistered)
	}
	if item == "" {
		return domain.ErrEmptyName
	}
	if _, err := domain.NewItem(item, price, stock); err != nil {
		return fmt.Errorf("item %q: %w", item, err)
	}
	return c.commit(ctx, &domain.Event{
		Type:   domain.EventItemListed,
		Seller: seller,
		Item:   item,
		Price:  price,
		Stock:  stock,
	})
}

// GetItem 取得商品快照
func (c *CoreUseCase) GetItem(ctx context.Context, seller, item string) (domain.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.GetItem(ctx, seller, item)
}

// ListItems 列出賣家的商品
func (c *CoreUseCase) ListItems(ctx context.Context, seller string) ([]domain.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.ListItems(ctx, seller)
}

// Purchase 購買商品
//
// 依序檢查：買賣雙方帳戶存在 -> 賣家已註冊且有此商品 -> 庫存足夠 -> 買家餘額足夠。
// 全部通過後才扣款、入帳、扣庫存並記錄交易。
//
// 參數:
//
//	ctx: 上下文
//	buyer, seller: 帳戶名稱
//	item: 商品名稱
//	qty: 購買數量 (必須 > 0)
//
// 回傳:
//
//	domain.Transaction: 完成的交易
//	error: 任一檢查失敗時回傳，狀態不變
func (c *CoreUseCase) Purchase(ctx context.Context, buyer, seller, item string, qty int) (domain.Transaction, error) {
	tran, err := c.purchase(ctx, buyer, seller, item, qty)
	if err != nil {
		return domain.Transaction{}, err
	}
	// 發布在鎖外進行，broker 卡住時其他操作不受影響
	if c.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := c.publisher.PublishPurchase(pubCtx, tran); err != nil {
			c.log.Warn().Err(err).Str("transaction_id", tran.TransactionID.String()).Msg("publish purchase event failed")
		}
	}
	return tran, nil
}

// purchase 驗證並提交購買，回傳已提交交易的副本
func (c *CoreUseCase) purchase(ctx context.Context, buyer, seller, item string, qty int) (domain.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if qty <= 0 {
		return domain.Transaction{}, domain.ErrInvalidQuantity
	}
	buyerAccount, err := c.ledger.GetAccount(ctx, buyer)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("buyer %q: %w", buyer, err)
	}
	if _, err := c.ledger.GetAccount(ctx, seller); err != nil {
		return domain.Transaction{}, fmt.Errorf("seller %q: %w", seller, err)
	}
	it, err := c.store.GetItem(ctx, seller, item)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("item %q from %q: %w", item, seller, err)
	}
	if it.Stock < qty {
		return domain.Transaction{}, fmt.Errorf("item %q has %d left: %w", item, it.Stock, domain.ErrInsufficientStock)
	}
	total := it.Total(qty)
	if buyerAccount.Balance.LessThan(total) {
		return domain.Transaction{}, fmt.Errorf("buyer %q: %w", buyer, domain.ErrInsufficientBalance)
	}

	tran := &domain.Transaction{
		TransactionID: c.newID(),
		Buyer:         buyer,
		Seller:        seller,
		Item:          item,
		Qty:           qty,
		Total:         total,
		Status:        domain.StatusPaid,
		Date:          c.now(),
	}
	event := &domain.Event{Type: domain.EventPurchased, Transaction: tran}
	if err := c.commit(ctx, event); err != nil {
		return domain.Transaction{}, err
	}

	c.log.Info().
		Str("transaction_id", tran.TransactionID.String()).
		Str("buyer", buyer).
		Str("seller", seller).
		Str("item", item).
		Int("qty", qty).
		Str("total", total.String()).
		Msg("purchase completed")
	return *event.Transaction, nil
}

// ListTransactions 依完成順序回傳所有交易
func (c *CoreUseCase) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.ListTransactions(ctx)
}

// TopItems 依銷售數量排行
func (c *CoreUseCase) TopItems(ctx context.Context) ([]domain.ItemSales, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	transactions, err := c.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return domain.RankItems(transactions), nil
}

// ExportTransactions 將交易紀錄匯出到設定的 Exporter (覆蓋)
func (c *CoreUseCase) ExportTransactions(ctx context.Context) (int, error) {
	if c.exporter == nil {
		return 0, fmt.Errorf("%w: no exporter configured", domain.ErrExportFailed)
	}

	transactions, err := c.ListTransactions(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.exporter.Export(ctx, transactions); err != nil {
		if errors.Is(err, domain.ErrExportFailed) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	c.log.Info().Int("transactions", len(transactions)).Msg("transactions exported")
	return len(transactions), nil
}

// commit 寫入 WAL 後套用事件，呼叫前必須已完成驗證並持有鎖
func (c *CoreUseCase) commit(ctx context.Context, event *domain.Event) error {
	event.At = c.now()
	if c.journal != nil {
		if err := c.journal.Append(ctx, event); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrJournalWriteFailed, err)
		}
	}
	if err := c.applyEvent(ctx, event); err != nil {
		return err
	}
	c.log.Debug().Str("event", event.Type.String()).Msg("event applied")
	return nil
}

// applyEvent 套用單筆事件至記憶體 (不寫入 WAL)，Recover 與 commit 共用
func (c *CoreUseCase) applyEvent(ctx context.Context, event *domain.Event) error {
	switch event.Type {
	case domain.EventAccountCreated:
		return c.ledger.CreateAccount(ctx, event.Owner)
	case domain.EventCredited:
		return c.ledger.Credit(ctx, event.Owner, event.Amount)
	case domain.EventDebited:
		return c.ledger.Debit(ctx, event.Owner, event.Amount)
	case domain.EventSellerRegistered:
		return c.store.RegisterSeller(ctx, event.Owner)
	case domain.EventItemListed:
		item, err := domain.NewItem(event.Item, event.Price, event.Stock)
		if err != nil {
			return err
		}
		return c.store.PutItem(ctx, event.Seller, item)
	case domain.EventPurchased:
		return c.applyPurchase(ctx, event)
	default:
		return fmt.Errorf("unknown event type %d", event.Type)
	}
}

func (c *CoreUseCase) applyPurchase(ctx context.Context, event *domain.Event) error {
	tran := event.Transaction
	if tran == nil {
		return errors.New("purchase event without transaction")
	}
	if err := c.ledger.Debit(ctx, tran.Buyer, tran.Total); err != nil {
		return err
	}
	if err := c.ledger.Credit(ctx, tran.Seller, tran.Total); err != nil {
		return err
	}
	if err := c.store.RecordSale(ctx, tran.Seller, tran.Item, tran.Qty); err != nil {
		return err
	}
	recorded, err := c.store.AppendTransaction(ctx, *tran)
	if err != nil {
		return err
	}
	*tran = recorded
	return nil
}
