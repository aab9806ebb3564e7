package store

import (
	"testing"

	"github.com/avelan/rationd/internal/database"
)

func TestDashboardStats(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	families := NewFamilyStore(db)
	stock := NewStockStore(db)
	sales := NewSaleStore(db)
	dashboard := NewDashboardStore(families, stock, sales)

	// Empty database: everything zero
	stats, err := dashboard.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalStockItems != 0 || stats.RegisteredFamilies != 0 ||
		stats.TodaySalesCount != 0 || stats.LowStockItems != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}

	if _, err := families.Create(testFamily("FAM001")); err != nil {
		t.Fatalf("create family: %v", err)
	}
	if _, err := families.Create(testFamily("FAM002")); err != nil {
		t.Fatalf("create family: %v", err)
	}

	rice, err := stock.Create("Rice", "Grains", 100, 50, 10)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := stock.Create("Oil", "Cooking", 50, 5, 10); err != nil {
		t.Fatalf("create item: %v", err)
	}

	if _, err := sales.RecordSale("FAM001", rice.ID, 10, 4, 40); err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if _, err := sales.RecordSale("FAM002", rice.ID, 5, 4, 20); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	stats, err = dashboard.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalStockItems != 2 {
		t.Errorf("totalStockItems = %d, want 2", stats.TotalStockItems)
	}
	if stats.RegisteredFamilies != 2 {
		t.Errorf("registeredFamilies = %d, want 2", stats.RegisteredFamilies)
	}
	if stats.LowStockItems != 1 {
		t.Errorf("lowStockItems = %d, want 1", stats.LowStockItems)
	}
	if stats.TodaySalesCount != 2 {
		t.Errorf("todaySalesCount = %d, want 2", stats.TodaySalesCount)
	}
	if stats.TodaySalesAmount != 60 {
		t.Errorf("todaySalesAmount = %g, want 60", stats.TodaySalesAmount)
	}
}
