package model

import "time"

// StockItem is an inventory line. CurrentStock is mutated by direct edits and
// by recorded sales; it stays within [0, TotalStock].
type StockItem struct {
	ID           int64     `json:"id"`
	ItemName     string    `json:"itemName"`
	Category     string    `json:"category"`
	TotalStock   float64   `json:"totalStock"`
	CurrentStock float64   `json:"currentStock"`
	Threshold    float64   `json:"threshold"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LowStock reports whether the item is at or below its alert threshold.
func (s *StockItem) LowStock() bool {
	return s.CurrentStock <= s.Threshold
}
