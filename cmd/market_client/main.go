package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	grpc_adapter "github.com/JoeShih716/go-mem-market/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-mem-market/internal/logger"
	grpcpkg "github.com/JoeShih716/go-mem-market/pkg/grpc"
)

// 對 cmd/core 跑一次完整的購買流程：
// 建立買家與賣家 -> 儲值 -> 註冊賣家 -> 上架 -> 購買 -> 查詢結果
func main() {
	addr := flag.String("addr", "localhost:50051", "market server address")
	timeout := flag.Duration("timeout", 10*time.Second, "overall timeout")
	verbose := flag.Bool("v", false, "log every rpc")
	flag.Parse()

	log := logger.New()
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	} else {
		log = log.Level(zerolog.DebugLevel)
	}

	pool := grpcpkg.NewPool(grpcpkg.WithInterceptor(grpcpkg.LoggingClientInterceptor(log)))
	defer pool.Close()

	conn, err := pool.GetConnection(*addr)
	if err != nil {
		log.Fatal().Err(err).Msg("did not connect")
	}
	client := grpc_adapter.NewMarketServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := runScenario(ctx, client); err != nil {
		log.Error().Err(err).Msg("scenario failed")
		cancel()
		os.Exit(1)
	}
}

func runScenario(ctx context.Context, c *grpc_adapter.MarketServiceClient) error {
	// 名稱加上亂數後綴，可對同一台 server 重複執行
	suffix := uuid.NewString()[:8]
	buyer, seller, item := "alice-"+suffix, "bob-"+suffix, "pen"

	check := func(step string, resp resultCarrier, err error) error {
		if err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
		if r := resp.GetResult(); !r.OK {
			return fmt.Errorf("%s: %s: %s", step, r.Kind, r.Message)
		}
		fmt.Printf("%-16s ok\n", step)
		return nil
	}

	r, err := c.CreateAccount(ctx, &grpc_adapter.CreateAccountRequest{Owner: buyer})
	if err := check("create buyer", r, err); err != nil {
		return err
	}
	r, err = c.CreateAccount(ctx, &grpc_adapter.CreateAccountRequest{Owner: seller})
	if err := check("create seller", r, err); err != nil {
		return err
	}
	r, err = c.TopUp(ctx, &grpc_adapter.AmountRequest{Owner: buyer, Amount: "100"})
	if err := check("topup", r, err); err != nil {
		return err
	}
	reg, err := c.RegisterSeller(ctx, &grpc_adapter.RegisterSellerRequest{Seller: seller})
	if err := check("register seller", reg, err); err != nil {
		return err
	}
	listed, err := c.ListItem(ctx, &grpc_adapter.ListItemRequest{Seller: seller, Item: item, Price: "10", Stock: 5})
	if err := check("list item", listed, err); err != nil {
		return err
	}

	over, err := c.Purchase(ctx, &grpc_adapter.PurchaseRequest{Buyer: buyer, Seller: seller, Item: item, Qty: 6})
	if err != nil {
		return fmt.Errorf("purchase over stock: %w", err)
	}
	fmt.Printf("%-16s rejected (%s: %s)\n", "buy 6", over.Kind, over.Message)

	buy, err := c.Purchase(ctx, &grpc_adapter.PurchaseRequest{Buyer: buyer, Seller: seller, Item: item, Qty: 3})
	if err := check("buy 3", buy, err); err != nil {
		return err
	}
	t := buy.Transaction
	fmt.Printf("transaction      %s|%s|%s|%s|%d|%s|%s\n", t.Date, t.Buyer, t.Seller, t.Item, t.Qty, t.Total, t.Status)

	for _, owner := range []string{buyer, seller} {
		account, err := c.GetAccount(ctx, &grpc_adapter.GetAccountRequest{Owner: owner})
		if err != nil {
			return fmt.Errorf("get account %s: %w", owner, err)
		}
		fmt.Printf("balance          %s = %s\n", owner, account.Balance)
	}
	pen, err := c.GetItem(ctx, &grpc_adapter.GetItemRequest{Seller: seller, Item: item})
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	fmt.Printf("item             %s stock=%d sold=%d\n", pen.Name, pen.Stock, pen.Sold)

	top, err := c.TopItems(ctx, &grpc_adapter.TopItemsRequest{})
	if err != nil {
		return fmt.Errorf("top items: %w", err)
	}
	for _, s := range top.Items {
		fmt.Printf("top              %s : %d sold\n", s.Item, s.Qty)
	}
	return nil
}

// resultCarrier 寫入類回應都內嵌 Result
type resultCarrier interface {
	GetResult() grpc_adapter.Result
}
