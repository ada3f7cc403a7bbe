package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
)

// Store 記憶體中的商品目錄與交易紀錄
type Store struct {
	mu      sync.RWMutex
	sellers map[string]domain.Catalog
	// 依完成順序附加，不會修改或刪除
	transactions []domain.Transaction
	sequence     uint64
}

func NewStore() *Store {
	return &Store{
		sellers:      make(map[string]domain.Catalog),
		transactions: make([]domain.Transaction, 0),
	}
}

func (s *Store) RegisterSeller(ctx context.Context, seller string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sellers[seller]; ok {
		return domain.ErrSellerAlreadyRegistered
	}
	s.sellers[seller] = make(domain.Catalog)
	return nil
}

func (s *Store) IsSeller(ctx context.Context, seller string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sellers[seller]
	return ok
}

// PutItem 直接覆蓋同名商品 (不合併)
func (s *Store) PutItem(ctx context.Context, seller string, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	catalog, ok := s.sellers[seller]
	if !ok {
		return domain.ErrSellerNotRegistered
	}
	cp := *item
	catalog[item.Name] = &cp
	return nil
}

func (s *Store) GetItem(ctx context.Context, seller, item string) (domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, err := s.lookup(seller, item)
	if err != nil {
		return domain.Item{}, err
	}
	return *it, nil
}

func (s *Store) ListItems(ctx context.Context, seller string) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	catalog, ok := s.sellers[seller]
	if !ok {
		return nil, domain.ErrSellerNotRegistered
	}
	items := make([]domain.Item, 0, len(catalog))
	for _, it := range catalog {
		items = append(items, *it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *Store) RecordSale(ctx context.Context, seller, item string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, err := s.lookup(seller, item)
	if err != nil {
		return err
	}
	return it.Sell(qty)
}

func (s *Store) AppendTransaction(ctx context.Context, tran domain.Transaction) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	tran.Sequence = s.sequence
	s.transactions = append(s.transactions, tran)
	return tran, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out, nil
}

// lookup 呼叫前需持有鎖
func (s *Store) lookup(seller, item string) (*domain.Item, error) {
	catalog, ok := s.sellers[seller]
	if !ok {
		return nil, domain.ErrSellerNotRegistered
	}
	it, ok := catalog[item]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return it, nil
}

var _ usecase.Store = (*Store)(nil)
