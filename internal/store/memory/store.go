// Package memory is an in-process implementation of store.Store.
//
// A single mutex serializes every call. RunInTx holds it for the whole unit of
// work and runs fn against a copy of the state; the copy replaces the live
// state only when fn succeeds.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/store"
)

type state struct {
	products     map[string]models.Product
	orders       map[string]models.Order
	wallets      map[string]models.Wallet
	transactions []models.Transaction
}

func newState() *state {
	return &state{
		products: make(map[string]models.Product),
		orders:   make(map[string]models.Order),
		wallets:  make(map[string]models.Wallet),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:     make(map[string]models.Product, len(s.products)),
		orders:       make(map[string]models.Order, len(s.orders)),
		wallets:      make(map[string]models.Wallet, len(s.wallets)),
		transactions: append([]models.Transaction(nil), s.transactions...),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.wallets {
		c.wallets[k] = v
	}
	return c
}

// Store is the shared in-memory record store.
type Store struct {
	mu    sync.Mutex
	state *state
	newID func() string
}

func New() *Store {
	return &Store{state: newState(), newID: uuid.NewString}
}

// view binds the repositories to a state. The root view locks the store on
// every call; a transaction view runs while RunInTx already holds the lock.
type view struct {
	root *Store
	st   func() *state
	lock func() func()
	inTx bool
}

func (s *Store) root() *view {
	return &view{
		root: s,
		st:   func() *state { return s.state },
		lock: func() func() {
			s.mu.Lock()
			return s.mu.Unlock
		},
	}
}

func (s *Store) Products() store.ProductRepository         { return productRepo{s.root()} }
func (s *Store) Orders() store.OrderRepository             { return orderRepo{s.root()} }
func (s *Store) Wallets() store.WalletRepository           { return walletRepo{s.root()} }
func (s *Store) Transactions() store.TransactionRepository { return transactionRepo{s.root()} }

func (s *Store) RunInTx(ctx context.Context, fn func(tx store.Store) error) error {
	return s.root().RunInTx(ctx, fn)
}

func (v *view) Products() store.ProductRepository         { return productRepo{v} }
func (v *view) Orders() store.OrderRepository             { return orderRepo{v} }
func (v *view) Wallets() store.WalletRepository           { return walletRepo{v} }
func (v *view) Transactions() store.TransactionRepository { return transactionRepo{v} }

func (v *view) RunInTx(ctx context.Context, fn func(tx store.Store) error) error {
	if v.inTx {
		return fn(v)
	}
	unlock := v.lock()
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := v.root.state.clone()
	tx := &view{
		root: v.root,
		st:   func() *state { return work },
		lock: func() func() { return func() {} },
		inTx: true,
	}
	if err := fn(tx); err != nil {
		return err
	}
	v.root.state = work
	return nil
}

type productRepo struct{ v *view }

func (r productRepo) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	defer r.v.lock()()
	query := strings.ToLower(filter.Query)
	products := []models.Product{}
	for _, p := range r.v.st().products {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.SKU), query) &&
			!strings.Contains(strings.ToLower(p.Category), query) {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.Before(products[j].CreatedAt) ||
			(products[i].CreatedAt.Equal(products[j].CreatedAt) && products[i].ID < products[j].ID)
	})
	return products, nil
}

func (r productRepo) Get(ctx context.Context, id string) (*models.Product, error) {
	defer r.v.lock()()
	p, ok := r.v.st().products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (r productRepo) GetForUpdate(ctx context.Context, id string) (*models.Product, error) {
	return r.Get(ctx, id)
}

func (r productRepo) Create(ctx context.Context, product *models.Product) error {
	defer r.v.lock()()
	st := r.v.st()
	if skuTaken(st, product.SKU, "") {
		return store.ErrDuplicate
	}
	product.ID = r.v.root.newID()
	product.Version = 1
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = product.CreatedAt
	}
	st.products[product.ID] = *product
	return nil
}

func (r productRepo) Patch(ctx context.Context, id string, patch models.ProductPatch, updatedAt time.Time) (*models.Product, error) {
	defer r.v.lock()()
	st := r.v.st()
	p, ok := st.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Version != nil && *patch.Version != p.Version {
		return nil, store.ErrConflict
	}
	if patch.SKU != nil && skuTaken(st, *patch.SKU, id) {
		return nil, store.ErrDuplicate
	}
	patch.Apply(&p)
	p.Version++
	p.UpdatedAt = updatedAt
	st.products[id] = p
	return &p, nil
}

func (r productRepo) Delete(ctx context.Context, id string) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, ok := st.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(st.products, id)
	return nil
}

func skuTaken(st *state, sku, exceptID string) bool {
	for id, p := range st.products {
		if id != exceptID && p.SKU == sku {
			return true
		}
	}
	return false
}

type orderRepo struct{ v *view }

func (r orderRepo) List(ctx context.Context) ([]models.Order, error) {
	defer r.v.lock()()
	orders := []models.Order{}
	for _, o := range r.v.st().orders {
		orders = append(orders, copyOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt) ||
			(orders[i].CreatedAt.Equal(orders[j].CreatedAt) && orders[i].ID < orders[j].ID)
	})
	return orders, nil
}

func (r orderRepo) Get(ctx context.Context, id string) (*models.Order, error) {
	defer r.v.lock()()
	o, ok := r.v.st().orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o = copyOrder(o)
	return &o, nil
}

func (r orderRepo) GetForUpdate(ctx context.Context, id string) (*models.Order, error) {
	return r.Get(ctx, id)
}

func (r orderRepo) Create(ctx context.Context, order *models.Order) error {
	defer r.v.lock()()
	order.ID = r.v.root.newID()
	r.v.st().orders[order.ID] = copyOrder(*order)
	return nil
}

func (r orderRepo) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	defer r.v.lock()()
	st := r.v.st()
	o, ok := st.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	if o.Status != models.OrderStatusPlaced {
		return store.ErrConflict
	}
	o.Status = models.OrderStatusCancelled
	o.CancelledAt = &at
	st.orders[id] = o
	return nil
}

func (r orderRepo) Delete(ctx context.Context, id string) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, ok := st.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(st.orders, id)
	return nil
}

func copyOrder(o models.Order) models.Order {
	o.Items = append(models.OrderItems(nil), o.Items...)
	if o.CancelledAt != nil {
		at := *o.CancelledAt
		o.CancelledAt = &at
	}
	return o
}

type walletRepo struct{ v *view }

func (r walletRepo) List(ctx context.Context) ([]models.Wallet, error) {
	defer r.v.lock()()
	wallets := []models.Wallet{}
	for _, w := range r.v.st().wallets {
		wallets = append(wallets, w)
	}
	sort.Slice(wallets, func(i, j int) bool {
		return wallets[i].CreatedAt.Before(wallets[j].CreatedAt) ||
			(wallets[i].CreatedAt.Equal(wallets[j].CreatedAt) && wallets[i].ID < wallets[j].ID)
	})
	return wallets, nil
}

func (r walletRepo) Get(ctx context.Context, id string) (*models.Wallet, error) {
	defer r.v.lock()()
	w, ok := r.v.st().wallets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &w, nil
}

func (r walletRepo) GetForUpdate(ctx context.Context, id string) (*models.Wallet, error) {
	return r.Get(ctx, id)
}

func (r walletRepo) Create(ctx context.Context, wallet *models.Wallet) error {
	defer r.v.lock()()
	wallet.ID = r.v.root.newID()
	wallet.Version = 1
	if wallet.UpdatedAt.IsZero() {
		wallet.UpdatedAt = wallet.CreatedAt
	}
	r.v.st().wallets[wallet.ID] = *wallet
	return nil
}

func (r walletRepo) Patch(ctx context.Context, id string, patch models.WalletPatch, updatedAt time.Time) (*models.Wallet, error) {
	defer r.v.lock()()
	st := r.v.st()
	w, ok := st.wallets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Version != nil && *patch.Version != w.Version {
		return nil, store.ErrConflict
	}
	if patch.Balance != nil {
		w.Balance = *patch.Balance
	}
	w.Version++
	w.UpdatedAt = updatedAt
	st.wallets[id] = w
	return &w, nil
}

type transactionRepo struct{ v *view }

func (r transactionRepo) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	defer r.v.lock()()
	query := strings.ToLower(filter.Query)
	all := r.v.st().transactions
	txns := []models.Transaction{}
	// walk backwards so equal timestamps come out newest insert first
	for i := len(all) - 1; i >= 0; i-- {
		t := all[i]
		if filter.WalletID != "" && t.WalletID != filter.WalletID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Reference), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		txns = append(txns, t)
	}
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	return txns, nil
}

func (r transactionRepo) Get(ctx context.Context, id string) (*models.Transaction, error) {
	defer r.v.lock()()
	for _, t := range r.v.st().transactions {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r transactionRepo) Create(ctx context.Context, txn *models.Transaction) error {
	defer r.v.lock()()
	st := r.v.st()
	if _, ok := st.wallets[txn.WalletID]; !ok {
		return store.ErrNotFound
	}
	txn.ID = r.v.root.newID()
	st.transactions = append(st.transactions, *txn)
	return nil
}
