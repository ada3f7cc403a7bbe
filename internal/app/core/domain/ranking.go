package domain

import "sort"

// ItemSales 單一商品的累計銷售數量
type ItemSales struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

// RankItems 依交易紀錄統計各商品 (以商品名稱彙總，不分賣家) 的銷售數量。
// 數量由大到小排序，數量相同時依商品名稱字典序，確保結果固定。
func RankItems(transactions []Transaction) []ItemSales {
	counts := make(map[string]int)
	for _, t := range transactions {
		counts[t.Item] += t.Qty
	}

	ranking := make([]ItemSales, 0, len(counts))
	for item, qty := range counts {
		ranking = append(ranking, ItemSales{Item: item, Qty: qty})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Qty != ranking[j].Qty {
			return ranking[i].Qty > ranking[j].Qty
		}
		return ranking[i].Item < ranking[j].Item
	})
	return ranking
}
