package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-market/internal/logger"
)

const menuText = `
=== MENU ===
1. Create bank account
2. Topup
3. Withdraw
4. Register seller
5. Add item
6. Buy item
7. List transactions
8. Top items
9. List customers
10. Exit
Choice: `

const (
	choiceCreateAccount = iota + 1
	choiceTopUp
	choiceWithdraw
	choiceRegisterSeller
	choiceAddItem
	choicePurchase
	choiceTransactions
	choiceTopItems
	choiceCustomers
	choiceExit
)

// Menu 互動式選單
//
// 輸入以空白分隔的 token 讀取：先讀選項編號，再依序讀參數。
// 無法解析的選項會被略過；輸入結束 (EOF) 視同選擇離開。
type Menu struct {
	core         *usecase.CoreUseCase
	scanner      *bufio.Scanner
	out          io.Writer
	exportTarget string
	log          zerolog.Logger
}

// NewMenu 建立選單
//
// 參數:
//
//	core: 業務邏輯
//	in, out: 輸入與輸出 (通常為 stdin / stdout)
//	exportTarget: 離開時顯示的匯出目的地 (檔名或資料表)
//
// 操作日誌取自 Run 的 context (logger.WithContext)
func NewMenu(core *usecase.CoreUseCase, in io.Reader, out io.Writer, exportTarget string) *Menu {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &Menu{
		core:         core,
		scanner:      scanner,
		out:          out,
		exportTarget: exportTarget,
		log:          zerolog.Nop(),
	}
}

// Run 執行選單直到選擇離開或輸入結束，離開前匯出交易紀錄
func (m *Menu) Run(ctx context.Context) error {
	m.log = logger.WithFields(logger.FromContext(ctx), map[string]any{
		"component":     "console",
		"export_target": m.exportTarget,
	})
	for {
		m.print(menuText)
		token, ok := m.next()
		if !ok {
			break
		}
		choice, err := strconv.Atoi(token)
		if err != nil {
			m.log.Debug().Str("input", token).Msg("skip unparsable choice")
			continue
		}
		if choice == choiceExit {
			break
		}
		if !m.dispatch(ctx, choice) {
			break
		}
	}

	m.exit(ctx)
	return m.scanner.Err()
}

// dispatch 執行一個選項，輸入在參數讀完前結束時回傳 false
func (m *Menu) dispatch(ctx context.Context, choice int) bool {
	switch choice {
	case choiceCreateAccount:
		name, ok := m.ask("Name: ")
		if !ok {
			return false
		}
		m.println(createAccountMessage(name, m.core.CreateAccount(ctx, name)))

	case choiceTopUp, choiceWithdraw:
		name, ok := m.ask("Name: ")
		if !ok {
			return false
		}
		amount, ok, valid := m.askDecimal("Amount: ")
		if !ok {
			return false
		}
		if !valid {
			return true
		}
		if choice == choiceTopUp {
			err := m.core.Credit(ctx, name, amount)
			m.println(topUpMessage(name, amount, m.balance(ctx, name), err))
		} else {
			err := m.core.Debit(ctx, name, amount)
			m.println(withdrawMessage(name, amount, m.balance(ctx, name), err))
		}

	case choiceRegisterSeller:
		name, ok := m.ask("Seller name: ")
		if !ok {
			return false
		}
		m.println(registerSellerMessage(name, m.core.RegisterSeller(ctx, name)))

	case choiceAddItem:
		seller, ok := m.ask("Seller: ")
		if !ok {
			return false
		}
		item, ok := m.ask("Item: ")
		if !ok {
			return false
		}
		price, ok, validPrice := m.askDecimal("Price: ")
		if !ok {
			return false
		}
		stock, ok, validStock := m.askInt("Stock: ")
		if !ok {
			return false
		}
		if !validPrice || !validStock {
			return true
		}
		m.println(listItemMessage(item, m.core.ListItem(ctx, seller, item, price, stock)))

	case choicePurchase:
		buyer, ok := m.ask("Buyer: ")
		if !ok {
			return false
		}
		seller, ok := m.ask("Seller: ")
		if !ok {
			return false
		}
		item, ok := m.ask("Item: ")
		if !ok {
			return false
		}
		qty, ok, valid := m.askInt("Qty: ")
		if !ok {
			return false
		}
		if !valid {
			return true
		}
		tran, err := m.core.Purchase(ctx, buyer, seller, item, qty)
		m.println(purchaseMessage(tran, err))

	case choiceTransactions:
		transactions, err := m.core.ListTransactions(ctx)
		if err != nil {
			m.println(failureLine(tagStore, err))
			return true
		}
		m.print(transactionsBlock(transactions))

	case choiceTopItems:
		ranking, err := m.core.TopItems(ctx)
		if err != nil {
			m.println(failureLine(tagStore, err))
			return true
		}
		m.print(topItemsBlock(ranking))

	case choiceCustomers:
		owners, err := m.core.ListAccounts(ctx)
		if err != nil {
			m.println(failureLine(tagBank, err))
			return true
		}
		m.print(customersBlock(owners))

	default:
		m.println("Invalid choice.")
	}
	return true
}

func (m *Menu) exit(ctx context.Context) {
	n, err := m.core.ExportTransactions(ctx)
	if err != nil {
		m.log.Error().Err(err).Str("target", m.exportTarget).Msg("export on exit failed")
	}
	m.println(exportMessage(m.exportTarget, n, err))
	m.println("Exiting...")
}

// balance 取最新餘額給訊息使用，帳戶不存在時為 0
func (m *Menu) balance(ctx context.Context, owner string) decimal.Decimal {
	account, err := m.core.GetAccount(ctx, owner)
	if err != nil {
		return decimal.Zero
	}
	return account.Balance
}

func (m *Menu) next() (string, bool) {
	if !m.scanner.Scan() {
		return "", false
	}
	return m.scanner.Text(), true
}

func (m *Menu) ask(prompt string) (string, bool) {
	m.print(prompt)
	return m.next()
}

// askDecimal 回傳 (值, 是否讀到 token, 是否可解析)
func (m *Menu) askDecimal(prompt string) (decimal.Decimal, bool, bool) {
	token, ok := m.ask(prompt)
	if !ok {
		return decimal.Zero, false, false
	}
	d, err := decimal.NewFromString(token)
	if err != nil {
		m.println(fmt.Sprintf("Invalid number %q.", token))
		return decimal.Zero, true, false
	}
	return d, true, true
}

// askInt 回傳 (值, 是否讀到 token, 是否可解析)
func (m *Menu) askInt(prompt string) (int, bool, bool) {
	token, ok := m.ask(prompt)
	if !ok {
		return 0, false, false
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		m.println(fmt.Sprintf("Invalid number %q.", token))
		return 0, true, false
	}
	return n, true, true
}

func (m *Menu) print(s string) {
	fmt.Fprint(m.out, s)
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}
