package grpc

import (
	"context"

	"google.golang.org/grpc"

	grpcpkg "github.com/JoeShih716/go-mem-market/pkg/grpc"
)

// ServiceName gRPC 服務全名
const ServiceName = "market.v1.MarketService"

// MarketServiceServer 伺服器端需實作的方法
type MarketServiceServer interface {
	CreateAccount(context.Context, *CreateAccountRequest) (*AccountResponse, error)
	TopUp(context.Context, *AmountRequest) (*AccountResponse, error)
	Withdraw(context.Context, *AmountRequest) (*AccountResponse, error)
	GetAccount(context.Context, *GetAccountRequest) (*Account, error)
	ListAccounts(context.Context, *ListAccountsRequest) (*ListAccountsResponse, error)
	RegisterSeller(context.Context, *RegisterSellerRequest) (*ResultResponse, error)
	ListItem(context.Context, *ListItemRequest) (*ResultResponse, error)
	GetItem(context.Context, *GetItemRequest) (*Item, error)
	ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error)
	Purchase(context.Context, *PurchaseRequest) (*PurchaseResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	TopItems(context.Context, *TopItemsRequest) (*TopItemsResponse, error)
	ExportTransactions(context.Context, *ExportRequest) (*ExportResponse, error)
}

// ServiceDesc 手寫的服務描述，訊息以 JSON codec 編碼
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAccount", Handler: unaryHandler("CreateAccount", MarketServiceServer.CreateAccount)},
		{MethodName: "TopUp", Handler: unaryHandler("TopUp", MarketServiceServer.TopUp)},
		{MethodName: "Withdraw", Handler: unaryHandler("Withdraw", MarketServiceServer.Withdraw)},
		{MethodName: "GetAccount", Handler: unaryHandler("GetAccount", MarketServiceServer.GetAccount)},
		{MethodName: "ListAccounts", Handler: unaryHandler("ListAccounts", MarketServiceServer.ListAccounts)},
		{MethodName: "RegisterSeller", Handler: unaryHandler("RegisterSeller", MarketServiceServer.RegisterSeller)},
		{MethodName: "ListItem", Handler: unaryHandler("ListItem", MarketServiceServer.ListItem)},
		{MethodName: "GetItem", Handler: unaryHandler("GetItem", MarketServiceServer.GetItem)},
		{MethodName: "ListItems", Handler: unaryHandler("ListItems", MarketServiceServer.ListItems)},
		{MethodName: "Purchase", Handler: unaryHandler("Purchase", MarketServiceServer.Purchase)},
		{MethodName: "ListTransactions", Handler: unaryHandler("ListTransactions", MarketServiceServer.ListTransactions)},
		{MethodName: "TopItems", Handler: unaryHandler("TopItems", MarketServiceServer.TopItems)},
		{MethodName: "ExportTransactions", Handler: unaryHandler("ExportTransactions", MarketServiceServer.ExportTransactions)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterMarketServiceServer 註冊到 grpc.Server
func RegisterMarketServiceServer(s grpc.ServiceRegistrar, srv MarketServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryHandler[Req, Resp any](method string, call func(MarketServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MarketServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MarketServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// MarketServiceClient 型別安全的客戶端，每次呼叫都帶 JSON content-subtype
type MarketServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMarketServiceClient(cc grpc.ClientConnInterface) *MarketServiceClient {
	return &MarketServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpcpkg.JSONCallOption()}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketServiceClient) CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, c.cc, "CreateAccount", in, opts)
}

func (c *MarketServiceClient) TopUp(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, c.cc, "TopUp", in, opts)
}

func (c *MarketServiceClient) Withdraw(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, c.cc, "Withdraw", in, opts)
}

func (c *MarketServiceClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, "GetAccount", in, opts)
}

func (c *MarketServiceClient) ListAccounts(ctx context.Context, in *ListAccountsRequest, opts ...grpc.CallOption) (*ListAccountsResponse, error) {
	return invoke[ListAccountsResponse](ctx, c.cc, "ListAccounts", in, opts)
}

func (c *MarketServiceClient) RegisterSeller(ctx context.Context, in *RegisterSellerRequest, opts ...grpc.CallOption) (*ResultResponse, error) {
	return invoke[ResultResponse](ctx, c.cc, "RegisterSeller", in, opts)
}

func (c *MarketServiceClient) ListItem(ctx context.Context, in *ListItemRequest, opts ...grpc.CallOption) (*ResultResponse, error) {
	return invoke[ResultResponse](ctx, c.cc, "ListItem", in, opts)
}

func (c *MarketServiceClient) GetItem(ctx context.Context, in *GetItemRequest, opts ...grpc.CallOption) (*Item, error) {
	return invoke[Item](ctx, c.cc, "GetItem", in, opts)
}

func (c *MarketServiceClient) ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c.cc, "ListItems", in, opts)
}

func (c *MarketServiceClient) Purchase(ctx context.Context, in *PurchaseRequest, opts ...grpc.CallOption) (*PurchaseResponse, error) {
	return invoke[PurchaseResponse](ctx, c.cc, "Purchase", in, opts)
}

func (c *MarketServiceClient) ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c.cc, "ListTransactions", in, opts)
}

func (c *MarketServiceClient) TopItems(ctx context.Context, in *TopItemsRequest, opts ...grpc.CallOption) (*TopItemsResponse, error) {
	return invoke[TopItemsResponse](ctx, c.cc, "TopItems", in, opts)
}

func (c *MarketServiceClient) ExportTransactions(ctx context.Context, in *ExportRequest, opts ...grpc.CallOption) (*ExportResponse, error) {
	return invoke[ExportResponse](ctx, c.cc, "ExportTransactions", in, opts)
}
