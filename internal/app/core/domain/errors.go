package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAmountMustBePositive 金額不可為負數
	ErrAmountMustBePositive = errors.New("amount must not be negative")

	// ErrEmptyName 帳戶、賣家或商品名稱不可為空
	ErrEmptyName = errors.New("name must not be empty")

	// ErrInvalidQuantity 購買數量必須大於 0
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidItem 上架商品的價格或庫存不合法
	ErrInvalidItem = errors.New("price and stock must not be negative")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientStock 庫存不足
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists 帳戶已存在
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrSellerNotRegistered 賣家尚未註冊
	ErrSellerNotRegistered = errors.New("seller not registered")

	// ErrSellerAlreadyRegistered 賣家已註冊
	ErrSellerAlreadyRegistered = errors.New("seller already registered")

	// ErrItemNotFound 賣家沒有這個商品
	ErrItemNotFound = errors.New("item not available")

	// ErrJournalWriteFailed 寫入 WAL 失敗
	ErrJournalWriteFailed = errors.New("journal write failed")

	// ErrExportFailed 匯出交易紀錄失敗
	ErrExportFailed = errors.New("export failed")
)

// FailureKind 錯誤分類，給上層 (console / grpc) 決定怎麼呈現
type FailureKind uint8

const (
	KindNone FailureKind = iota
	KindNotFound
	KindAlreadyExists
	KindInsufficient
	KindInvalidArgument
	KindIO
	KindInternal
)

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindInsufficient:
		return "insufficient"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindIO:
		return "io"
	default:
		return "internal"
	}
}

// KindOf 依照 sentinel error 判斷錯誤分類，nil 回傳 KindNone
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrSellerNotRegistered),
		errors.Is(err, ErrItemNotFound):
		return KindNotFound
	case errors.Is(err, ErrAccountAlreadyExists),
		errors.Is(err, ErrSellerAlreadyRegistered):
		return KindAlreadyExists
	case errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrInsufficientStock):
		return KindInsufficient
	case errors.Is(err, ErrAmountMustBePositive),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidItem),
		errors.Is(err, ErrEmptyName):
		return KindInvalidArgument
	case errors.Is(err, ErrJournalWriteFailed),
		errors.Is(err, ErrExportFailed):
		return KindIO
	default:
		return KindInternal
	}
}

// Result 每個操作的結構化結果
type Result struct {
	OK     bool
	Kind   FailureKind
	Reason string
}

// ResultOf 把 error 轉成 Result
func ResultOf(err error) Result {
	if err == nil {
		return Result{OK: true, Kind: KindNone}
	}
	return Result{OK: false, Kind: KindOf(err), Reason: err.Error()}
}

func (r Result) String() string {
	if r.OK {
		return "ok"
	}
	return fmt.Sprintf("%s: %s", r.Kind, r.Reason)
}
