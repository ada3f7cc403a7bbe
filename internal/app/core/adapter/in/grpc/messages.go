package grpc

// 以 JSON codec 傳輸的訊息，金額一律以十進位字串表示

// Result 寫入類操作的結果 (soft failure)
type Result struct {
	OK      bool   `json:"ok"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// GetResult 內嵌 Result 的回應都能取得結果
func (r Result) GetResult() Result {
	return r
}

type Entry struct {
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
}

type Account struct {
	Owner   string  `json:"owner"`
	Balance string  `json:"balance"`
	History []Entry `json:"history"`
}

type Item struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int    `json:"stock"`
	Sold  int    `json:"sold"`
}

type Transaction struct {
	TransactionID string `json:"transaction_id"`
	Sequence      uint64 `json:"sequence"`
	Date          string `json:"date"`
	Buyer         string `json:"buyer"`
	Seller        string `json:"seller"`
	Item          string `json:"item"`
	Qty           int    `json:"qty"`
	Total         string `json:"total"`
	Status        string `json:"status"`
}

type ItemSales struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

type CreateAccountRequest struct {
	Owner string `json:"owner"`
}

// AmountRequest 儲值 (TopUp) 與提領 (Withdraw) 共用
type AmountRequest struct {
	Owner  string `json:"owner"`
	Amount string `json:"amount"`
}

// AccountResponse 成功時附上最新的帳戶快照
type AccountResponse struct {
	Result
	Account *Account `json:"account,omitempty"`
}

type GetAccountRequest struct {
	Owner string `json:"owner"`
}

type ListAccountsRequest struct{}

type ListAccountsResponse struct {
	Owners []string `json:"owners"`
}

type RegisterSellerRequest struct {
	Seller string `json:"seller"`
}

type ResultResponse struct {
	Result
}

type ListItemRequest struct {
	Seller string `json:"seller"`
	Item   string `json:"item"`
	Price  string `json:"price"`
	Stock  int    `json:"stock"`
}

type GetItemRequest struct {
	Seller string `json:"seller"`
	Item   string `json:"item"`
}

type ListItemsRequest struct {
	Seller string `json:"seller"`
}

type ListItemsResponse struct {
	Items []Item `json:"items"`
}

type PurchaseRequest struct {
	Buyer  string `json:"buyer"`
	Seller string `json:"seller"`
	Item   string `json:"item"`
	Qty    int    `json:"qty"`
}

type PurchaseResponse struct {
	Result
	Transaction *Transaction `json:"transaction,omitempty"`
}

type ListTransactionsRequest struct{}

type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type TopItemsRequest struct{}

type TopItemsResponse struct {
	Items []ItemSales `json:"items"`
}

type ExportRequest struct{}

type ExportResponse struct {
	Result
	Exported int `json:"exported"`
}
