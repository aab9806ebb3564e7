package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/avelan/rationd/internal/model"
	"github.com/avelan/rationd/internal/push"
	"github.com/avelan/rationd/internal/store"
	ws "github.com/avelan/rationd/internal/websocket"
)

type StockHandler struct {
	store    *store.StockStore
	hub      *ws.Hub
	notifier *push.Notifier
	logger   *slog.Logger
}

func NewStockHandler(s *store.StockStore, hub *ws.Hub, notifier *push.Notifier, logger *slog.Logger) *StockHandler {
	return &StockHandler{store: s, hub: hub, notifier: notifier, logger: logger}
}

// Numeric fields are pointers so a missing field is distinguishable from an
// explicit zero.
type stockRequest struct {
	ItemName     string   `json:"itemName"`
	Category     string   `json:"category"`
	TotalStock   *float64 `json:"totalStock"`
	CurrentStock *float64 `json:"currentStock"`
	Threshold    *float64 `json:"threshold"`
}

func (req *stockRequest) validate() string {
	req.ItemName = strings.TrimSpace(req.ItemName)
	req.Category = strings.TrimSpace(req.Category)

	switch {
	case req.ItemName == "":
		return "itemName is required"
	case req.Category == "":
		return "category is required"
	case req.TotalStock == nil:
		return "totalStock is required"
	case req.CurrentStock == nil:
		return "currentStock is required"
	case req.Threshold == nil:
		return "threshold is required"
	case *req.TotalStock < 0:
		return "totalStock cannot be negative"
	case *req.CurrentStock < 0:
		return "currentStock cannot be negative"
	case *req.Threshold < 0:
		return "threshold cannot be negative"
	case *req.CurrentStock > *req.TotalStock:
		return "Current stock cannot be greater than total stock"
	}
	return ""
}

func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List()
	if err != nil {
		h.logger.Error("list stock items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list stock items"})
		return
	}
	if items == nil {
		items = []model.StockItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	item, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get stock item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get stock item"})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Stock item not found"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	item, err := h.store.Create(req.ItemName, req.Category, *req.TotalStock, *req.CurrentStock, *req.Threshold)
	if err != nil {
		h.logger.Error("create stock item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create stock item"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("stock", "created", item.ID, nil))
	h.notifier.StockChanged(item)
	writeJSON(w, http.StatusCreated, item)
}

func (h *StockHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get stock item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get stock item"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Stock item not found"})
		return
	}

	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	item, err := h.store.Update(id, req.ItemName, req.Category, *req.TotalStock, *req.CurrentStock, *req.Threshold)
	if err != nil {
		h.logger.Error("update stock item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update stock item"})
		return
	}
	// Deleted between the existence check and the update
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Stock item not found"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("stock", "updated", item.ID, nil))
	h.notifier.StockChanged(item)
	writeJSON(w, http.StatusOK, item)
}

func (h *StockHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get stock item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get stock item"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Stock item not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete stock item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete stock item"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("stock", "deleted", id, nil))
	h.notifier.ItemDeleted(id)
	w.WriteHeader(http.StatusNoContent)
}
