package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
)

// 每個操作的結果轉成一行使用者看得到的訊息，domain 層不產生文字

const (
	tagBank  = "[BANK]"
	tagStore = "[STORE]"
	tagError = "[ERROR]"
)

func createAccountMessage(owner string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("%s Bank account for %s created.", tagBank, owner)
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return tagBank + " Account already exists."
	default:
		return failureLine(tagBank, err)
	}
}

func topUpMessage(owner string, amount decimal.Decimal, balance decimal.Decimal, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("%s Topup %s to %s (balance %s).", tagBank, amount, owner, balance)
	case errors.Is(err, domain.ErrAccountNotFound):
		return tagBank + " Account not found."
	default:
		return failureLine(tagBank, err)
	}
}

func withdrawMessage(owner string, amount decimal.Decimal, balance decimal.Decimal, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("%s %s withdrew %s (balance %s).", tagBank, owner, amount, balance)
	case errors.Is(err, domain.ErrAccountNotFound):
		return tagBank + " Account not found."
	case errors.Is(err, domain.ErrInsufficientBalance):
		return tagBank + " Insufficient balance."
	default:
		return failureLine(tagBank, err)
	}
}

func registerSellerMessage(seller string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("%s Seller %s registered.", tagStore, seller)
	case errors.Is(err, domain.ErrAccountNotFound):
		return tagStore + " Seller needs a bank account first."
	case errors.Is(err, domain.ErrSellerAlreadyRegistered):
		return tagStore + " Seller already registered."
	default:
		return failureLine(tagStore, err)
	}
}

func listItemMessage(item string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("%s Item %s added.", tagStore, item)
	case errors.Is(err, domain.ErrSellerNotRegistered):
		return tagStore + " Seller not registered."
	default:
		return failureLine(tagStore, err)
	}
}

func purchaseMessage(tran domain.Transaction, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("%s Purchase completed: %s bought %d %s from %s.", tagStore, tran.Buyer, tran.Qty, tran.Item, tran.Seller)
	case errors.Is(err, domain.ErrAccountNotFound):
		return tagStore + " Buyer/seller bank account not found."
	case errors.Is(err, domain.ErrSellerNotRegistered), errors.Is(err, domain.ErrItemNotFound):
		return tagStore + " Item not available."
	case errors.Is(err, domain.ErrInsufficientStock):
		return tagStore + " Insufficient stock."
	case errors.Is(err, domain.ErrInsufficientBalance):
		return tagStore + " Buyer balance too low."
	default:
		return failureLine(tagStore, err)
	}
}

func transactionsBlock(transactions []domain.Transaction) string {
	var b strings.Builder
	b.WriteString("=== All Transactions ===\n")
	for i := range transactions {
		t := &transactions[i]
		fmt.Fprintf(&b, "%s | %s -> %s | %s x%d | %s | %s\n",
			t.DateString(), t.Buyer, t.Seller, t.Item, t.Qty, t.Total, t.Status)
	}
	return b.String()
}

func topItemsBlock(ranking []domain.ItemSales) string {
	var b strings.Builder
	b.WriteString("=== Top Items ===\n")
	for _, r := range ranking {
		fmt.Fprintf(&b, "%s : %d sold\n", r.Item, r.Qty)
	}
	return b.String()
}

func customersBlock(owners []string) string {
	var b strings.Builder
	b.WriteString("=== Customers ===\n")
	for _, o := range owners {
		fmt.Fprintf(&b, "- %s\n", o)
	}
	return b.String()
}

func exportMessage(target string, n int, err error) string {
	if err != nil {
		return fmt.Sprintf("%s Could not save transactions to %s: %v", tagError, target, err)
	}
	return fmt.Sprintf("%s %d transaction(s) saved to %s.", tagStore, n, target)
}

// failureLine 沒有專屬訊息的錯誤 (參數不合法、WAL 失敗等)
func failureLine(tag string, err error) string {
	r := domain.ResultOf(err)
	switch r.Kind {
	case domain.KindInvalidArgument:
		return fmt.Sprintf("%s Invalid input: %s.", tag, r.Reason)
	case domain.KindIO:
		return fmt.Sprintf("%s %s Operation not saved: %s.", tagError, tag, r.Reason)
	default:
		return fmt.Sprintf("%s %s.", tag, r.Reason)
	}
}
