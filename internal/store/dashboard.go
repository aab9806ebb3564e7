package store

import (
	"github.com/avelan/rationd/internal/model"
)

// DashboardStore aggregates summary counts across the other stores. No
// caching: the numbers are cheap at this scale and always reflect the
// current snapshot.
type DashboardStore struct {
	families *FamilyStore
	stock    *StockStore
	sales    *SaleStore
}

func NewDashboardStore(fs *FamilyStore, ss *StockStore, sl *SaleStore) *DashboardStore {
	return &DashboardStore{families: fs, stock: ss, sales: sl}
}

func (s *DashboardStore) Stats() (*model.DashboardStats, error) {
	totalItems, err := s.stock.Count()
	if err != nil {
		return nil, err
	}

	families, err := s.families.Count()
	if err != nil {
		return nil, err
	}

	lowStock, err := s.stock.CountLowStock()
	if err != nil {
		return nil, err
	}

	amount, count, err := s.sales.TodayTotals()
	if err != nil {
		return nil, err
	}

	return &model.DashboardStats{
		TotalStockItems:    totalItems,
		TodaySalesAmount:   amount,
		TodaySalesCount:    count,
		RegisteredFamilies: families,
		LowStockItems:      lowStock,
	}, nil
}
