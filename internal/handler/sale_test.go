package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avelan/rationd/internal/model"
)

func saleTestSetup(t *testing.T) (*SaleHandler, *handlerFixture, *model.StockItem) {
	t.Helper()
	f := setupHandlerTest(t)
	h := NewSaleHandler(f.sales, f.stock, f.hub, f.notifier, f.logger)

	item, err := f.stock.Create("Rice", "Grains", 100, 50, 10)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := f.families.Create(&model.Family{
		FamilyID:     "FAM001",
		HeadOfFamily: "Raman",
		NumMembers:   4,
		MemberList:   []string{"Raman", "Lakshmi", "Arun", "Devi"},
		Address:      "12 Market Road",
		Phone:        "9876543210",
	}); err != nil {
		t.Fatalf("create family: %v", err)
	}
	return h, f, item
}

func TestSaleCreate(t *testing.T) {
	h, f, item := saleTestSetup(t)

	body := `{"familyId":"FAM001","itemId":1,"quantity":20,"unitPrice":2.5,"totalAmount":50}`
	req := httptest.NewRequest("POST", "/api/sales", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var sale model.Sale
	if err := json.NewDecoder(rec.Body).Decode(&sale); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if sale.ItemName != "Rice" {
		t.Errorf("itemName = %q, want %q", sale.ItemName, "Rice")
	}
	if sale.TotalAmount != 50 {
		t.Errorf("totalAmount = %g, want 50", sale.TotalAmount)
	}

	got, _ := f.stock.GetByID(item.ID)
	if got.CurrentStock != 30 {
		t.Errorf("currentStock = %g, want 30", got.CurrentStock)
	}
}

func TestSaleCreateValidation(t *testing.T) {
	h, _, _ := saleTestSetup(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing familyId", `{"itemId":1,"quantity":5,"unitPrice":2,"totalAmount":10}`},
		{"missing itemId", `{"familyId":"FAM001","quantity":5,"unitPrice":2,"totalAmount":10}`},
		{"zero quantity", `{"familyId":"FAM001","itemId":1,"quantity":0,"unitPrice":2,"totalAmount":10}`},
		{"negative quantity", `{"familyId":"FAM001","itemId":1,"quantity":-5,"unitPrice":2,"totalAmount":10}`},
		{"zero unitPrice", `{"familyId":"FAM001","itemId":1,"quantity":5,"unitPrice":0,"totalAmount":10}`},
		{"zero totalAmount", `{"familyId":"FAM001","itemId":1,"quantity":5,"unitPrice":2,"totalAmount":0}`},
		{"invalid JSON", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/sales", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestSaleCreateUnknownFamily(t *testing.T) {
	h, f, item := saleTestSetup(t)

	body := `{"familyId":"FAM999","itemId":1,"quantity":5,"unitPrice":2,"totalAmount":10}`
	req := httptest.NewRequest("POST", "/api/sales", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "Family not found" {
		t.Errorf("error = %q, want %q", resp["error"], "Family not found")
	}

	got, _ := f.stock.GetByID(item.ID)
	if got.CurrentStock != 50 {
		t.Errorf("currentStock = %g, want unchanged 50", got.CurrentStock)
	}
}

func TestSaleCreateUnknownItem(t *testing.T) {
	h, _, _ := saleTestSetup(t)

	body := `{"familyId":"FAM001","itemId":99,"quantity":5,"unitPrice":2,"totalAmount":10}`
	req := httptest.NewRequest("POST", "/api/sales", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "Stock item not found" {
		t.Errorf("error = %q, want %q", resp["error"], "Stock item not found")
	}
}

func TestSaleCreateInsufficientStock(t *testing.T) {
	h, f, item := saleTestSetup(t)

	body := `{"familyId":"FAM001","itemId":1,"quantity":80,"unitPrice":2,"totalAmount":160}`
	req := httptest.NewRequest("POST", "/api/sales", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "Insufficient stock. Available: 50" {
		t.Errorf("error = %q, want availability message", resp["error"])
	}

	got, _ := f.stock.GetByID(item.ID)
	if got.CurrentStock != 50 {
		t.Errorf("currentStock = %g, want unchanged 50", got.CurrentStock)
	}
}

func TestSaleList(t *testing.T) {
	h, f, item := saleTestSetup(t)

	// Empty list serializes as [] rather than null
	req := httptest.NewRequest("GET", "/api/sales", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty list body = %q, want []", body)
	}

	if _, err := f.sales.RecordSale("FAM001", item.ID, 5, 2, 10); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/api/sales", nil))
	var sales []model.Sale
	if err := json.NewDecoder(rec.Body).Decode(&sales); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(sales))
	}
}

func TestSaleToday(t *testing.T) {
	h, f, item := saleTestSetup(t)

	if _, err := f.sales.RecordSale("FAM001", item.ID, 10, 10.05, 100.50); err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if _, err := f.sales.RecordSale("FAM001", item.ID, 5, 10, 50); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/sales/today", nil)
	rec := httptest.NewRecorder()
	h.Today(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp struct {
		TodaySalesAmount float64 `json:"todaySalesAmount"`
		TodaySalesCount  int     `json:"todaySalesCount"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TodaySalesAmount != 150.50 {
		t.Errorf("todaySalesAmount = %g, want 150.50", resp.TodaySalesAmount)
	}
	if resp.TodaySalesCount != 2 {
		t.Errorf("todaySalesCount = %d, want 2", resp.TodaySalesCount)
	}
}
