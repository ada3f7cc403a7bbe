package domain

import "github.com/shopspring/decimal"

// Item 賣家上架的商品
type Item struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	Sold  int             `json:"sold"`
}

// NewItem 建立 (或重新上架) 商品，Sold 一律從 0 開始
func NewItem(name string, price decimal.Decimal, stock int) (*Item, error) {
	if price.IsNegative() || stock < 0 {
		return nil, ErrInvalidItem
	}
	return &Item{Name: name, Price: price, Stock: stock}, nil
}

// Total 計算購買 qty 件的總價
func (i *Item) Total(qty int) decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(qty)))
}

// Sell 扣庫存並累加銷量
func (i *Item) Sell(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if i.Stock < qty {
		return ErrInsufficientStock
	}
	i.Stock -= qty
	i.Sold += qty
	return nil
}

// Catalog 單一賣家的商品目錄 (商品名稱 -> 商品)
type Catalog map[string]*Item
