// Package file 將交易紀錄匯出為純文字檔。
//
// 每行一筆交易，七個欄位以 "|" 連接，順序固定：
//
//	date|buyer|seller|item|qty|total|status
//
// 沒有標題列、不做跳脫，每筆以 "\n" 結尾。每次匯出都會覆蓋整個檔案：
// 先寫入 path+".tmp"，完成後以 rename 取代原檔，寫入中斷時原檔不會損壞。
package file

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-market/pkg/wal"
)

// Delimiter 欄位分隔字元
const Delimiter = "|"

// Exporter 匯出到本機檔案
type Exporter struct {
	path string
}

func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// Export 覆蓋寫入所有交易
func (e *Exporter) Export(ctx context.Context, transactions []domain.Transaction) error {
	tmp := e.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, wal.FileModeDefault)
	if err != nil {
		return err
	}

	if err := WriteTransactions(f, transactions); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	// 原子替換
	return os.Rename(tmp, e.path)
}

// WriteTransactions 依序寫出每筆交易
func WriteTransactions(w io.Writer, transactions []domain.Transaction) error {
	bw := bufio.NewWriter(w)
	for i := range transactions {
		if _, err := bw.WriteString(FormatLine(&transactions[i])); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatLine 將單筆交易格式化為一行 (不含換行)
func FormatLine(t *domain.Transaction) string {
	return strings.Join([]string{
		t.DateString(),
		t.Buyer,
		t.Seller,
		t.Item,
		strconv.Itoa(t.Qty),
		t.Total.String(),
		string(t.Status),
	}, Delimiter)
}

var _ usecase.Exporter = (*Exporter)(nil)
