package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus 交易狀態，目前只有 paid
type TransactionStatus string

const StatusPaid TransactionStatus = "paid"

// DateLayout 匯出檔與列表使用的日期格式
const DateLayout = "2006-01-02"

// Transaction 一筆完成的購買紀錄，建立後不可變
type Transaction struct {
	// Sequence: 由 Store 依完成順序分配 (1, 2, 3...)
	Sequence uint64 `json:"sequence"`
	// TransactionID: 外部追蹤號 (UUID)
	TransactionID uuid.UUID         `json:"transaction_id"`
	Buyer         string            `json:"buyer"`
	Seller        string            `json:"seller"`
	Item          string            `json:"item"`
	Qty           int               `json:"qty"`
	Total         decimal.Decimal   `json:"total"`
	Status        TransactionStatus `json:"status"`
	Date          time.Time         `json:"date"`
}

// DateString 以 YYYY-MM-DD (本地時間) 表示交易日期
func (t *Transaction) DateString() string {
	return t.Date.Local().Format(DateLayout)
}
