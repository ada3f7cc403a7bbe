package domain

import (
	"reflect"
	"testing"
)

func TestRankItems(t *testing.T) {
	txs := []Transaction{
		{Item: "pen", Qty: 3},
		{Item: "book", Qty: 1},
		{Item: "cup", Qty: 4},
		{Item: "pen", Qty: 2},
		{Item: "book", Qty: 4},
		{Item: "apple", Qty: 4},
	}

	got := RankItems(txs)
	want := []ItemSales{
		{Item: "book", Qty: 5},
		{Item: "pen", Qty: 5},
		{Item: "apple", Qty: 4},
		{Item: "cup", Qty: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranking=%+v want=%+v", got, want)
	}
}

func TestRankItemsEmpty(t *testing.T) {
	if got := RankItems(nil); len(got) != 0 {
		t.Fatalf("want empty ranking, got %+v", got)
	}
}
