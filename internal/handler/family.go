package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/avelan/rationd/internal/model"
	"github.com/avelan/rationd/internal/store"
	ws "github.com/avelan/rationd/internal/websocket"
)

type FamilyHandler struct {
	store  *store.FamilyStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewFamilyHandler(s *store.FamilyStore, hub *ws.Hub, logger *slog.Logger) *FamilyHandler {
	return &FamilyHandler{store: s, hub: hub, logger: logger}
}

type familyRequest struct {
	FamilyID     string   `json:"familyId"`
	HeadOfFamily string   `json:"headOfFamily"`
	NumMembers   int      `json:"numMembers"`
	MemberList   []string `json:"memberList"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Aadhaar      string   `json:"aadhaar"`
	CardType     string   `json:"cardType"`
}

// validate checks required fields. NumMembers is client-supplied and not
// recomputed from the member list; the original trusted it the same way.
func (req *familyRequest) validate() string {
	req.FamilyID = strings.TrimSpace(req.FamilyID)
	req.HeadOfFamily = strings.TrimSpace(req.HeadOfFamily)
	req.Address = strings.TrimSpace(req.Address)
	req.Phone = strings.TrimSpace(req.Phone)

	switch {
	case req.FamilyID == "":
		return "familyId is required"
	case req.HeadOfFamily == "":
		return "headOfFamily is required"
	case req.NumMembers <= 0:
		return "numMembers is required"
	case len(req.MemberList) == 0:
		return "memberList is required"
	case req.Address == "":
		return "address is required"
	case req.Phone == "":
		return "phone is required"
	}
	return ""
}

func (req *familyRequest) toModel() *model.Family {
	return &model.Family{
		FamilyID:     req.FamilyID,
		HeadOfFamily: req.HeadOfFamily,
		NumMembers:   req.NumMembers,
		MemberList:   req.MemberList,
		Address:      req.Address,
		Phone:        req.Phone,
		Aadhaar:      req.Aadhaar,
		CardType:     req.CardType,
	}
}

func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	families, err := h.store.List()
	if err != nil {
		h.logger.Error("list families", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list families"})
		return
	}
	if families == nil {
		families = []model.Family{}
	}
	writeJSON(w, http.StatusOK, families)
}

func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	family, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get family", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get family"})
		return
	}
	if family == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Family not found"})
		return
	}
	writeJSON(w, http.StatusOK, family)
}

// GetByFamilyID looks a family up by its external natural key, the id
// printed on the ration card.
func (h *FamilyHandler) GetByFamilyID(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("familyId")
	if familyID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "familyId is required"})
		return
	}

	family, err := h.store.GetByFamilyID(familyID)
	if err != nil {
		h.logger.Error("get family by family_id", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get family"})
		return
	}
	if family == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Family not found"})
		return
	}
	writeJSON(w, http.StatusOK, family)
}

func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req familyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	exists, err := h.store.FamilyIDExists(req.FamilyID, 0)
	if err != nil {
		h.logger.Error("check family_id", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check family ID"})
		return
	}
	if exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Family ID already exists"})
		return
	}

	family, err := h.store.Create(req.toModel())
	if errors.Is(err, store.ErrDuplicateFamilyID) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Family ID already exists"})
		return
	}
	if err != nil {
		h.logger.Error("create family", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create family"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("family", "created", family.ID, nil))
	writeJSON(w, http.StatusCreated, family)
}

func (h *FamilyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get family", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get family"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Family not found"})
		return
	}

	var req familyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	exists, err := h.store.FamilyIDExists(req.FamilyID, id)
	if err != nil {
		h.logger.Error("check family_id", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check family ID"})
		return
	}
	if exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Family ID already exists"})
		return
	}

	family, err := h.store.Update(id, req.toModel())
	if errors.Is(err, store.ErrDuplicateFamilyID) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Family ID already exists"})
		return
	}
	if err != nil {
		h.logger.Error("update family", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update family"})
		return
	}
	// Deleted between the existence check and the update
	if family == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Family not found"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("family", "updated", family.ID, nil))
	writeJSON(w, http.StatusOK, family)
}

func (h *FamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get family", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get family"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Family not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete family", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete family"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("family", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
