package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType WAL 中記錄的狀態變更類型
type EventType uint8

const (
	EventAccountCreated EventType = iota + 1
	EventCredited
	EventDebited
	EventSellerRegistered
	EventItemListed
	EventPurchased
)

func (t EventType) String() string {
	switch t {
	case EventAccountCreated:
		return "account_created"
	case EventCredited:
		return "credited"
	case EventDebited:
		return "debited"
	case EventSellerRegistered:
		return "seller_registered"
	case EventItemListed:
		return "item_listed"
	case EventPurchased:
		return "purchased"
	default:
		return "unknown"
	}
}

// Event 一筆成功的狀態變更，寫入 WAL 供重啟時重放
// 依 Type 只會用到部分欄位
type Event struct {
	Type EventType `json:"type"`
	// 帳戶相關 (AccountCreated / Credited / Debited / SellerRegistered)
	Owner  string          `json:"owner,omitempty"`
	Amount decimal.Decimal `json:"amount"`
	// 商品相關 (ItemListed)
	Seller string          `json:"seller,omitempty"`
	Item   string          `json:"item,omitempty"`
	Price  decimal.Decimal `json:"price"`
	Stock  int             `json:"stock,omitempty"`
	// 購買 (Purchased)
	Transaction *Transaction `json:"transaction,omitempty"`
	At          time.Time    `json:"at"`
}
