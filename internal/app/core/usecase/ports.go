package usecase

import (
	"context"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
)

// Store 管理賣家商品目錄與交易紀錄
type Store interface {
	// RegisterSeller 建立空的商品目錄，已註冊回傳 ErrSellerAlreadyRegistered
	RegisterSeller(ctx context.Context, seller string) error
	// IsSeller 是否為已註冊賣家
	IsSeller(ctx context.Context, seller string) bool
	// PutItem 新增或覆蓋商品
	PutItem(ctx context.Context, seller string, item *domain.Item) error
	// GetItem 取得商品快照
	GetItem(ctx context.Context, seller, item string) (domain.Item, error)
	// ListItems 列出賣家所有商品 (依名稱排序)
	ListItems(ctx context.Context, seller string) ([]domain.Item, error)
	// RecordSale 扣庫存、累加銷量
	RecordSale(ctx context.Context, seller, item string, qty int) error
	// AppendTransaction 依完成順序附加交易並分配 Sequence
	AppendTransaction(ctx context.Context, tran domain.Transaction) (domain.Transaction, error)
	// ListTransactions 依附加順序回傳所有交易
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// Journal Write-Ahead Log，成功的狀態變更在套用前先寫入
type Journal interface {
	Append(ctx context.Context, event *domain.Event) error
	// Replay 依寫入順序逐筆回呼
	Replay(ctx context.Context, apply func(event *domain.Event) error) error
}

// Exporter 交易紀錄匯出目的地，每次匯出都覆蓋先前內容
type Exporter interface {
	Export(ctx context.Context, transactions []domain.Transaction) error
}

// Publisher 對外發布購買事件
type Publisher interface {
	PublishPurchase(ctx context.Context, tran domain.Transaction) error
}
