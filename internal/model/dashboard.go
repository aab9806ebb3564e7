package model

// DashboardStats is recomputed from the store on every request.
type DashboardStats struct {
	TotalStockItems    int     `json:"totalStockItems"`
	TodaySalesAmount   float64 `json:"todaySalesAmount"`
	TodaySalesCount    int     `json:"todaySalesCount"`
	RegisteredFamilies int     `json:"registeredFamilies"`
	LowStockItems      int     `json:"lowStockItems"`
}
