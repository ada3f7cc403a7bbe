package domain

import "github.com/shopspring/decimal"

// EntryKind 帳戶歷史紀錄類型
type EntryKind string

const (
	EntryCredit EntryKind = "credit"
	EntryDebit  EntryKind = "debit"
)

// Entry 帳戶的一筆異動，Amount 有正負號 (入帳為正，扣款為負)
type Entry struct {
	Kind   EntryKind       `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// Account 銀行帳戶，Owner 為唯一鍵
type Account struct {
	Owner   string          `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
	History []Entry         `json:"history"`
}

func NewAccount(owner string) *Account {
	return &Account{
		Owner:   owner,
		Balance: decimal.Zero,
		History: make([]Entry, 0),
	}
}

// Credit 入帳
func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrAmountMustBePositive
	}

	a.Balance = a.Balance.Add(amount)
	a.History = append(a.History, Entry{Kind: EntryCredit, Amount: amount})
	return nil
}

// Debit 扣款，餘額不足時不做任何變更
func (a *Account) Debit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrAmountMustBePositive
	}

	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}

	a.Balance = a.Balance.Sub(amount)
	a.History = append(a.History, Entry{Kind: EntryDebit, Amount: amount.Neg()})
	return nil
}

// HistoryTotal 歷史紀錄加總，應與 Balance 相等
func (a *Account) HistoryTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range a.History {
		total = total.Add(e.Amount)
	}
	return total
}

// Clone 回傳深拷貝，避免呼叫端改到內部狀態
func (a *Account) Clone() Account {
	cp := *a
	cp.History = make([]Entry, len(a.History))
	copy(cp.History, a.History)
	return cp
}
