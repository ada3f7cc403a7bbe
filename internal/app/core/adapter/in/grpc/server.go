package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
)

// errInvalidNumber 金額或價格字串無法解析
var errInvalidNumber = errors.New("invalid number")

// GrpcServer MarketService 的實作
//
// 寫入類操作的業務錯誤以 Result (ok=false) 回傳，不走 gRPC error；
// 查詢類操作把 not found / invalid argument 轉成對應的 status code。
type GrpcServer struct {
	core *usecase.CoreUseCase
}

func NewGrpcServer(core *usecase.CoreUseCase) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*AccountResponse, error) {
	if err := s.core.CreateAccount(ctx, req.Owner); err != nil {
		return &AccountResponse{Result: resultOf(err)}, nil
	}
	return s.accountResponse(ctx, req.Owner), nil
}

func (s *GrpcServer) TopUp(ctx context.Context, req *AmountRequest) (*AccountResponse, error) {
	amount, err := parseDecimal("amount", req.Amount)
	if err == nil {
		err = s.core.Credit(ctx, req.Owner, amount)
	}
	if err != nil {
		return &AccountResponse{Result: resultOf(err)}, nil
	}
	return s.accountResponse(ctx, req.Owner), nil
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *AmountRequest) (*AccountResponse, error) {
	amount, err := parseDecimal("amount", req.Amount)
	if err == nil {
		err = s.core.Debit(ctx, req.Owner, amount)
	}
	if err != nil {
		return &AccountResponse{Result: resultOf(err)}, nil
	}
	return s.accountResponse(ctx, req.Owner), nil
}

func (s *GrpcServer) GetAccount(ctx context.Context, req *GetAccountRequest) (*Account, error) {
	account, err := s.core.GetAccount(ctx, req.Owner)
	if err != nil {
		return nil, toStatus(err)
	}
	return toAccount(account), nil
}

func (s *GrpcServer) ListAccounts(ctx context.Context, _ *ListAccountsRequest) (*ListAccountsResponse, error) {
	owners, err := s.core.ListAccounts(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListAccountsResponse{Owners: owners}, nil
}

func (s *GrpcServer) RegisterSeller(ctx context.Context, req *RegisterSellerRequest) (*ResultResponse, error) {
	return &ResultResponse{Result: resultOf(s.core.RegisterSeller(ctx, req.Seller))}, nil
}

func (s *GrpcServer) ListItem(ctx context.Context, req *ListItemRequest) (*ResultResponse, error) {
	price, err := parseDecimal("price", req.Price)
	if err == nil {
		err = s.core.ListItem(ctx, req.Seller, req.Item, price, req.Stock)
	}
	return &ResultResponse{Result: resultOf(err)}, nil
}

func (s *GrpcServer) GetItem(ctx context.Context, req *GetItemRequest) (*Item, error) {
	item, err := s.core.GetItem(ctx, req.Seller, req.Item)
	if err != nil {
		return nil, toStatus(err)
	}
	out := toItem(item)
	return &out, nil
}

func (s *GrpcServer) ListItems(ctx context.Context, req *ListItemsRequest) (*ListItemsResponse, error) {
	items, err := s.core.ListItems(ctx, req.Seller)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &ListItemsResponse{Items: make([]Item, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, toItem(it))
	}
	return resp, nil
}

func (s *GrpcServer) Purchase(ctx context.Context, req *PurchaseRequest) (*PurchaseResponse, error) {
	tran, err := s.core.Purchase(ctx, req.Buyer, req.Seller, req.Item, req.Qty)
	if err != nil {
		return &PurchaseResponse{Result: resultOf(err)}, nil
	}
	out := toTransaction(tran)
	return &PurchaseResponse{Result: resultOf(nil), Transaction: &out}, nil
}

func (s *GrpcServer) ListTransactions(ctx context.Context, _ *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	transactions, err := s.core.ListTransactions(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &ListTransactionsResponse{Transactions: make([]Transaction, 0, len(transactions))}
	for _, t := range transactions {
		resp.Transactions = append(resp.Transactions, toTransaction(t))
	}
	return resp, nil
}

func (s *GrpcServer) TopItems(ctx context.Context, _ *TopItemsRequest) (*TopItemsResponse, error) {
	ranking, err := s.core.TopItems(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &TopItemsResponse{Items: make([]ItemSales, 0, len(ranking))}
	for _, r := range ranking {
		resp.Items = append(resp.Items, ItemSales{Item: r.Item, Qty: r.Qty})
	}
	return resp, nil
}

func (s *GrpcServer) ExportTransactions(ctx context.Context, _ *ExportRequest) (*ExportResponse, error) {
	n, err := s.core.ExportTransactions(ctx)
	return &ExportResponse{Result: resultOf(err), Exported: n}, nil
}

// accountResponse 操作成功後附上帳戶快照 (Best Effort)
func (s *GrpcServer) accountResponse(ctx context.Context, owner string) *AccountResponse {
	resp := &AccountResponse{Result: resultOf(nil)}
	if account, err := s.core.GetAccount(ctx, owner); err == nil {
		resp.Account = toAccount(account)
	}
	return resp
}

// resultOf 把 error 轉成 Result，nil 代表成功
func resultOf(err error) Result {
	if errors.Is(err, errInvalidNumber) {
		return Result{OK: false, Kind: domain.KindInvalidArgument.String(), Message: err.Error()}
	}
	r := domain.ResultOf(err)
	if r.OK {
		return Result{OK: true}
	}
	return Result{OK: false, Kind: r.Kind.String(), Message: r.Reason}
}

// toStatus 查詢類錯誤對應的 gRPC status
func toStatus(err error) error {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case domain.KindInvalidArgument:
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", field, raw, errInvalidNumber)
	}
	return d, nil
}

func toAccount(a domain.Account) *Account {
	out := &Account{
		Owner:   a.Owner,
		Balance: a.Balance.String(),
		History: make([]Entry, 0, len(a.History)),
	}
	for _, e := range a.History {
		out.History = append(out.History, Entry{Kind: string(e.Kind), Amount: e.Amount.String()})
	}
	return out
}

func toItem(it domain.Item) Item {
	return Item{
		Name:  it.Name,
		Price: it.Price.String(),
		Stock: it.Stock,
		Sold:  it.Sold,
	}
}

func toTransaction(t domain.Transaction) Transaction {
	return Transaction{
		TransactionID: t.TransactionID.String(),
		Sequence:      t.Sequence,
		Date:          t.DateString(),
		Buyer:         t.Buyer,
		Seller:        t.Seller,
		Item:          t.Item,
		Qty:           t.Qty,
		Total:         t.Total.String(),
		Status:        string(t.Status),
	}
}

var _ MarketServiceServer = (*GrpcServer)(nil)
