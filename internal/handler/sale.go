package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/avelan/rationd/internal/model"
	"github.com/avelan/rationd/internal/push"
	"github.com/avelan/rationd/internal/store"
	ws "github.com/avelan/rationd/internal/websocket"
)

type SaleHandler struct {
	sales    *store.SaleStore
	stock    *store.StockStore
	hub      *ws.Hub
	notifier *push.Notifier
	logger   *slog.Logger
}

func NewSaleHandler(sales *store.SaleStore, stock *store.StockStore, hub *ws.Hub, notifier *push.Notifier, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{sales: sales, stock: stock, hub: hub, notifier: notifier, logger: logger}
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.List()
	if err != nil {
		h.logger.Error("list sales", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list sales"})
		return
	}
	if sales == nil {
		sales = []model.Sale{}
	}
	writeJSON(w, http.StatusOK, sales)
}

func (h *SaleHandler) Today(w http.ResponseWriter, r *http.Request) {
	amount, count, err := h.sales.TodayTotals()
	if err != nil {
		h.logger.Error("today totals", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute today's sales"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"todaySalesAmount": amount,
		"todaySalesCount":  count,
	})
}

// Create records a sale and decrements stock in one transaction. TotalAmount
// is client-supplied, as in the original front end; the server does not
// recompute it from quantity and unitPrice.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FamilyID    string  `json:"familyId"`
		ItemID      int64   `json:"itemId"`
		Quantity    float64 `json:"quantity"`
		UnitPrice   float64 `json:"unitPrice"`
		TotalAmount float64 `json:"totalAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	var msg string
	switch {
	case req.FamilyID == "":
		msg = "familyId is required"
	case req.ItemID == 0:
		msg = "itemId is required"
	case req.Quantity <= 0:
		msg = "quantity is required"
	case req.UnitPrice <= 0:
		msg = "unitPrice is required"
	case req.TotalAmount <= 0:
		msg = "totalAmount is required"
	}
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	sale, err := h.sales.RecordSale(req.FamilyID, req.ItemID, req.Quantity, req.UnitPrice, req.TotalAmount)
	if err != nil {
		var insufficient *store.InsufficientStockError
		switch {
		case errors.Is(err, store.ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Stock item not found"})
		case errors.Is(err, store.ErrFamilyNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Family not found"})
		case errors.As(err, &insufficient):
			writeJSON(w, http.StatusConflict, map[string]string{
				"error": fmt.Sprintf("Insufficient stock. Available: %g", insufficient.Available),
			})
		default:
			h.logger.Error("record sale", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record sale"})
		}
		return
	}

	h.hub.Broadcast(ws.NewMessage("sale", "created", sale.ID, map[string]any{
		"itemId": sale.ItemID,
	}))

	// The decrement may have crossed the item's threshold
	if item, err := h.stock.GetByID(sale.ItemID); err == nil {
		h.notifier.StockChanged(item)
	}

	writeJSON(w, http.StatusCreated, sale)
}
