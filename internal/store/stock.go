package store

import (
	"database/sql"
	"fmt"

	"github.com/avelan/rationd/internal/model"
)

type StockStore struct {
	db *sql.DB
}

func NewStockStore(db *sql.DB) *StockStore {
	return &StockStore{db: db}
}

const stockCols = `id, item_name, category, total_stock, current_stock, threshold, created_at, updated_at`

func scanStockItem(scanner interface{ Scan(...any) error }) (*model.StockItem, error) {
	var item model.StockItem
	err := scanner.Scan(&item.ID, &item.ItemName, &item.Category, &item.TotalStock,
		&item.CurrentStock, &item.Threshold, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *StockStore) Create(itemName, category string, totalStock, currentStock, threshold float64) (*model.StockItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO stock_items (item_name, category, total_stock, current_stock, threshold)
		 VALUES (?, ?, ?, ?, ?)`,
		itemName, category, totalStock, currentStock, threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("insert stock item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *StockStore) List() ([]model.StockItem, error) {
	rows, err := s.db.Query(`SELECT ` + stockCols + ` FROM stock_items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query stock items: %w", err)
	}
	defer rows.Close()

	var items []model.StockItem
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *StockStore) GetByID(id int64) (*model.StockItem, error) {
	row := s.db.QueryRow(`SELECT `+stockCols+` FROM stock_items WHERE id = ?`, id)
	item, err := scanStockItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return item, nil
}

// Update writes all editable fields. The current <= total invariant is
// validated at the handler boundary; the schema check backstops it.
func (s *StockStore) Update(id int64, itemName, category string, totalStock, currentStock, threshold float64) (*model.StockItem, error) {
	result, err := s.db.Exec(
		`UPDATE stock_items SET item_name = ?, category = ?, total_stock = ?, current_stock = ?,
		 threshold = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		itemName, category, totalStock, currentStock, threshold, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update stock item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	// Row may have been deleted since the caller's existence check
	if rows == 0 {
		return nil, nil
	}
	return s.GetByID(id)
}

func (s *StockStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM stock_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete stock item: %w", err)
	}
	return nil
}

func (s *StockStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM stock_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count stock items: %w", err)
	}
	return count, nil
}

// CountLowStock counts items at or below their threshold.
func (s *StockStore) CountLowStock() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM stock_items WHERE current_stock <= threshold`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count low stock items: %w", err)
	}
	return count, nil
}
