package store

import (
	"database/sql"
	"fmt"

	"github.com/avelan/rationd/internal/model"
)

type SaleStore struct {
	db *sql.DB
}

func NewSaleStore(db *sql.DB) *SaleStore {
	return &SaleStore{db: db}
}

const saleCols = `id, family_id, item_id, item_name, quantity, unit_price, total_amount, sale_date`

func scanSale(scanner interface{ Scan(...any) error }) (*model.Sale, error) {
	var sale model.Sale
	err := scanner.Scan(&sale.ID, &sale.FamilyID, &sale.ItemID, &sale.ItemName,
		&sale.Quantity, &sale.UnitPrice, &sale.TotalAmount, &sale.SaleDate)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// RecordSale validates the family and item, appends the sale, and decrements
// stock — all in one transaction. The decrement is conditional on sufficient
// stock remaining, so two concurrent sales can never drive current_stock
// negative: the commit that loses the race sees zero rows changed and rolls
// back with InsufficientStockError.
func (s *SaleStore) RecordSale(familyID string, itemID int64, quantity, unitPrice, totalAmount float64) (*model.Sale, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var itemName string
	var currentStock float64
	err = tx.QueryRow(
		`SELECT item_name, current_stock FROM stock_items WHERE id = ?`, itemID,
	).Scan(&itemName, &currentStock)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stock item: %w", err)
	}

	if quantity > currentStock {
		return nil, &InsufficientStockError{Available: currentStock}
	}

	var familyCount int
	err = tx.QueryRow(`SELECT COUNT(*) FROM families WHERE family_id = ?`, familyID).Scan(&familyCount)
	if err != nil {
		return nil, fmt.Errorf("check family: %w", err)
	}
	if familyCount == 0 {
		return nil, ErrFamilyNotFound
	}

	result, err := tx.Exec(
		`UPDATE stock_items SET current_stock = current_stock - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND current_stock >= ?`,
		quantity, itemID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	changed, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if changed == 0 {
		// Another sale won the race between the read above and this write.
		return nil, &InsufficientStockError{Available: currentStock}
	}

	res, err := tx.Exec(
		`INSERT INTO sales (family_id, item_id, item_name, quantity, unit_price, total_amount)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		familyID, itemID, itemName, quantity, unitPrice, totalAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}
	saleID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}

	return s.GetByID(saleID)
}

func (s *SaleStore) GetByID(id int64) (*model.Sale, error) {
	row := s.db.QueryRow(`SELECT `+saleCols+` FROM sales WHERE id = ?`, id)
	sale, err := scanSale(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

func (s *SaleStore) List() ([]model.Sale, error) {
	rows, err := s.db.Query(`SELECT ` + saleCols + ` FROM sales ORDER BY sale_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, *sale)
	}
	return sales, rows.Err()
}

// TodayTotals sums sales whose sale_date falls on the server's local
// calendar day.
func (s *SaleStore) TodayTotals() (amount float64, count int, err error) {
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		 FROM sales
		 WHERE DATE(sale_date, 'localtime') = DATE('now', 'localtime')`,
	).Scan(&amount, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("today totals: %w", err)
	}
	return amount, count, nil
}
