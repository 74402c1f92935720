package services

import (
	"context"
	"sort"

	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/store"
)

const overviewTopN = 5

// Overview holds the dashboard aggregates.
type Overview struct {
	ProductCount        int              `json:"productCount"`
	InStockProductCount int              `json:"inStockProductCount"`
	OrderCount          int              `json:"orderCount"`
	Revenue             models.Money     `json:"revenue"`
	WalletCount         int              `json:"walletCount"`
	TotalBalance        models.Money     `json:"totalBalance"`
	TransactionCount    int              `json:"transactionCount"`
	TotalDeposits       models.Money     `json:"totalDeposits"`
	TotalWithdrawals    models.Money     `json:"totalWithdrawals"`
	TopProducts         []models.Product `json:"topProducts"`
	TopWallets          []models.Wallet  `json:"topWallets"`
}

type OverviewService struct {
	store store.Store
}

func NewOverviewService(s store.Store) *OverviewService {
	return &OverviewService{store: s}
}

// Get computes the aggregates from one consistent read of every collection.
func (s *OverviewService) Get(ctx context.Context) (*Overview, error) {
	var ov Overview
	err := s.store.RunInTx(ctx, func(tx store.Store) error {
		products, err := tx.Products().List(ctx, models.ProductFilter{})
		if err != nil {
			return err
		}
		orders, err := tx.Orders().List(ctx)
		if err != nil {
			return err
		}
		wallets, err := tx.Wallets().List(ctx)
		if err != nil {
			return err
		}
		txns, err := tx.Transactions().List(ctx, models.TransactionFilter{})
		if err != nil {
			return err
		}

		ov.ProductCount = len(products)
		for _, p := range products {
			if p.Quantity > 0 {
				ov.InStockProductCount++
			}
		}

		ov.OrderCount = len(orders)
		for _, o := range orders {
			if o.Status != models.OrderStatusCancelled {
				ov.Revenue += o.TotalAmount
			}
		}

		ov.WalletCount = len(wallets)
		for _, w := range wallets {
			ov.TotalBalance += w.Balance
		}

		ov.TransactionCount = len(txns)
		for _, t := range txns {
			switch t.Type {
			case models.TransactionDeposit:
				ov.TotalDeposits += t.Amount
			case models.TransactionWithdraw:
				ov.TotalWithdrawals += t.Amount
			}
		}

		sort.SliceStable(products, func(i, j int) bool { return products[i].Quantity > products[j].Quantity })
		ov.TopProducts = products[:min(overviewTopN, len(products))]

		sort.SliceStable(wallets, func(i, j int) bool { return wallets[i].Balance > wallets[j].Balance })
		ov.TopWallets = wallets[:min(overviewTopN, len(wallets))]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ov, nil
}
