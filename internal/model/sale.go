package model

import "time"

// Sale is an immutable, append-only record. ItemName is snapshotted from the
// stock item at sale time so history survives later renames and deletes.
type Sale struct {
	ID          int64     `json:"id"`
	FamilyID    string    `json:"familyId"`
	ItemID      int64     `json:"itemId"`
	ItemName    string    `json:"itemName"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	TotalAmount float64   `json:"totalAmount"`
	SaleDate    time.Time `json:"date"`
}
