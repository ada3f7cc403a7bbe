package grpc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/JoeShih716/go-mem-market/internal/app/core/adapter/out/file"
	"github.com/JoeShih716/go-mem-market/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
)

func newTestClient(t *testing.T, opts ...usecase.Option) *MarketServiceClient {
	t.Helper()

	core := usecase.NewCoreUseCase(memory.NewMutexLedger(), memory.NewStore(), opts...)

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	RegisterMarketServiceServer(s, NewGrpcServer(core))
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewMarketServiceClient(conn)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func mustOK(t *testing.T, step string, r Result, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: rpc error: %v", step, err)
	}
	if !r.OK {
		t.Fatalf("%s: %s: %s", step, r.Kind, r.Message)
	}
}

func TestPurchaseFlow(t *testing.T) {
	c := newTestClient(t)
	ctx := testContext(t)

	r1, err := c.CreateAccount(ctx, &CreateAccountRequest{Owner: "alice"})
	mustOK(t, "create alice", r1.Result, err)
	r2, err := c.CreateAccount(ctx, &CreateAccountRequest{Owner: "bob"})
	mustOK(t, "create bob", r2.Result, err)

	top, err := c.TopUp(ctx, &AmountRequest{Owner: "alice", Amount: "100"})
	mustOK(t, "topup", top.Result, err)
	if top.Account == nil || top.Account.Balance != "100" {
		t.Fatalf("topup account=%+v", top.Account)
	}

	reg, err := c.RegisterSeller(ctx, &RegisterSellerRequest{Seller: "bob"})
	mustOK(t, "register", reg.Result, err)
	listed, err := c.ListItem(ctx, &ListItemRequest{Seller: "bob", Item: "pen", Price: "10", Stock: 5})
	mustOK(t, "list item", listed.Result, err)

	buy, err := c.Purchase(ctx, &PurchaseRequest{Buyer: "alice", Seller: "bob", Item: "pen", Qty: 3})
	mustOK(t, "purchase", buy.Result, err)
	if buy.Transaction == nil || buy.Transaction.Total != "30" || buy.Transaction.Status != "paid" || buy.Transaction.Sequence != 1 {
		t.Fatalf("transaction=%+v", buy.Transaction)
	}

	alice, err := c.GetAccount(ctx, &GetAccountRequest{Owner: "alice"})
	if err != nil || alice.Balance != "70" || len(alice.History) != 2 {
		t.Fatalf("alice=%+v err=%v", alice, err)
	}
	bob, err := c.GetAccount(ctx, &GetAccountRequest{Owner: "bob"})
	if err != nil || bob.Balance != "30" {
		t.Fatalf("bob=%+v err=%v", bob, err)
	}
	pen, err := c.GetItem(ctx, &GetItemRequest{Seller: "bob", Item: "pen"})
	if err != nil || pen.Stock != 2 || pen.Sold != 3 {
		t.Fatalf("pen=%+v err=%v", pen, err)
	}

	txs, err := c.ListTransactions(ctx, &ListTransactionsRequest{})
	if err != nil || len(txs.Transactions) != 1 {
		t.Fatalf("transactions=%+v err=%v", txs, err)
	}
	ranking, err := c.TopItems(ctx, &TopItemsRequest{})
	if err != nil || len(ranking.Items) != 1 || ranking.Items[0] != (ItemSales{Item: "pen", Qty: 3}) {
		t.Fatalf("top items=%+v err=%v", ranking, err)
	}
	accounts, err := c.ListAccounts(ctx, &ListAccountsRequest{})
	if err != nil || len(accounts.Owners) != 2 || accounts.Owners[0] != "alice" {
		t.Fatalf("accounts=%+v err=%v", accounts, err)
	}
}

func TestSoftFailures(t *testing.T) {
	c := newTestClient(t)
	ctx := testContext(t)

	r, err := c.CreateAccount(ctx, &CreateAccountRequest{Owner: "alice"})
	mustOK(t, "create", r.Result, err)

	dup, err := c.CreateAccount(ctx, &CreateAccountRequest{Owner: "alice"})
	if err != nil || dup.OK || dup.Kind != "already_exists" {
		t.Fatalf("duplicate=%+v err=%v", dup, err)
	}

	bad, err := c.TopUp(ctx, &AmountRequest{Owner: "alice", Amount: "ten"})
	if err != nil || bad.OK || bad.Kind != "invalid_argument" {
		t.Fatalf("bad amount=%+v err=%v", bad, err)
	}

	short, err := c.Withdraw(ctx, &AmountRequest{Owner: "alice", Amount: "1"})
	if err != nil || short.OK || short.Kind != "insufficient" {
		t.Fatalf("withdraw=%+v err=%v", short, err)
	}

	reg, err := c.RegisterSeller(ctx, &RegisterSellerRequest{Seller: "carol"})
	if err != nil || reg.OK || reg.Kind != "not_found" {
		t.Fatalf("register=%+v err=%v", reg, err)
	}

	buy, err := c.Purchase(ctx, &PurchaseRequest{Buyer: "alice", Seller: "bob", Item: "pen", Qty: 1})
	if err != nil || buy.OK || buy.Transaction != nil {
		t.Fatalf("purchase=%+v err=%v", buy, err)
	}

	exp, err := c.ExportTransactions(ctx, &ExportRequest{})
	if err != nil || exp.OK || exp.Kind != "io" {
		t.Fatalf("export without exporter=%+v err=%v", exp, err)
	}
}

func TestLookupStatusCodes(t *testing.T) {
	c := newTestClient(t)
	ctx := testContext(t)

	_, err := c.GetAccount(ctx, &GetAccountRequest{Owner: "nobody"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("GetAccount code=%v want NotFound", status.Code(err))
	}
	_, err = c.ListItems(ctx, &ListItemsRequest{Seller: "nobody"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("ListItems code=%v want NotFound", status.Code(err))
	}
}

func TestExportTransactions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	c := newTestClient(t, usecase.WithExporter(file.NewExporter(path)))
	ctx := testContext(t)

	exp, err := c.ExportTransactions(ctx, &ExportRequest{})
	mustOK(t, "export", exp.Result, err)
	if exp.Exported != 0 {
		t.Fatalf("exported=%d want=0", exp.Exported)
	}
}
