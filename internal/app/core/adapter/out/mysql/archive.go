package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-market/pkg/mysql"
)

// batchSize 每批寫入筆數
const batchSize = 500

// sqlTransaction 對應資料庫的 transactions 表
type sqlTransaction struct {
	ID       int64           `gorm:"primaryKey;autoIncrement"`
	RefID    []byte          `gorm:"column:ref_id;type:binary(16);uniqueIndex"` // 對應 domain.Transaction.TransactionID
	Sequence uint64          `gorm:"index"`
	Date     string          `gorm:"type:char(10)"` // YYYY-MM-DD
	Buyer    string          `gorm:"size:191;index"`
	Seller   string          `gorm:"size:191;index"`
	Item     string          `gorm:"size:191"`
	Qty      int             `gorm:"not null"`
	Total    decimal.Decimal `gorm:"type:decimal(20,4)"`
	Status   string          `gorm:"size:16"`
	// 匯出時間
	CreatedAt int64 `gorm:"autoCreateTime:milli"`
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

// Archive 把交易紀錄匯出到 MySQL
// 每次匯出在同一個 DB transaction 內先清空再寫入，等同覆蓋檔案
type Archive struct {
	client *mysql.Client
}

func NewArchive(client *mysql.Client) *Archive {
	return &Archive{
		client: client,
	}
}

// Migrate 建立或更新 transactions 表
func (a *Archive) Migrate(ctx context.Context) error {
	return a.client.DB().WithContext(ctx).AutoMigrate(&sqlTransaction{})
}

func (a *Archive) Export(ctx context.Context, transactions []domain.Transaction) error {
	rows := toRows(transactions)
	return a.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&sqlTransaction{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, batchSize).Error
	})
}

func toRows(transactions []domain.Transaction) []sqlTransaction {
	rows := make([]sqlTransaction, 0, len(transactions))
	for i := range transactions {
		t := &transactions[i]
		id := t.TransactionID
		rows = append(rows, sqlTransaction{
			RefID:    id[:],
			Sequence: t.Sequence,
			Date:     t.DateString(),
			Buyer:    t.Buyer,
			Seller:   t.Seller,
			Item:     t.Item,
			Qty:      t.Qty,
			Total:    t.Total,
			Status:   string(t.Status),
		})
	}
	return rows
}

var _ usecase.Exporter = (*Archive)(nil)
