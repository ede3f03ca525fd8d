package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"inventory/internal/models"
	"inventory/internal/service"
	"inventory/internal/store"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := service.NewProductService(store.NewMemoryStore())
	RegisterProductRoutes(r, svc)
	return r
}

func TestGetProductInvalidIDReturns400(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/products/not-an-id", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetProductMissingReturns404(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/products/65f1a0b2c3d4e5f601020304", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Product not found") {
		t.Fatalf("expected not-found message, got %s", w.Body.String())
	}
}

func TestCreateThenGetProduct(t *testing.T) {
	r := newTestRouter()

	body := bytes.NewBufferString(`{"name":"Wrench","price":9.5,"cost":4,"stockQuantity":12,"unit":"pcs"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/products", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("expected assigned id in create response")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/products/"+created.ID.Hex(), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"name":"Wrench"`) {
		t.Fatalf("expected product body, got %s", w.Body.String())
	}
}

func TestUpdateProductMissingReturns404(t *testing.T) {
	r := newTestRouter()

	body := bytes.NewBufferString(`{"price":5}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/products/65f1a0b2c3d4e5f601020304", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBulkImportReturnsPartialFailureDetails(t *testing.T) {
	r := newTestRouter()

	body := bytes.NewBufferString(`[
		{"price":1,"cost":1,"stockQuantity":1},
		{"name":"Bolt","price":"0.10","cost":0.04,"stockQuantity":"500"}
	]`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/products/import", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result models.BulkImportResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if !result.Success {
		t.Fatal("expected success=true for a partially failed import")
	}
	if result.InsertedCount != 1 {
		t.Fatalf("expected insertedCount=1, got %d", result.InsertedCount)
	}
	if len(result.Errors) != 1 || result.Errors[0].Index != 0 {
		t.Fatalf("expected one error for input index 0, got %+v", result.Errors)
	}
}

func TestGetProductsAllFlagReturnsFullList(t *testing.T) {
	r := newTestRouter()

	for _, payload := range []string{
		`{"name":"One","price":1,"cost":1,"stockQuantity":1}`,
		`{"name":"Two","price":2,"cost":1,"stockQuantity":1}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/products", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("seed create failed: %d", w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/products?all=true", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var products []models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
}

func TestParsePaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		pageStr   string
		limitStr  string
		wantPage  int64
		wantLimit int64
		wantErr   bool
	}{
		{"defaults", "", "", 1, 10, false},
		{"explicit", "3", "25", 3, 25, false},
		{"zero page", "0", "10", 0, 0, true},
		{"negative limit", "1", "-5", 0, 0, true},
		{"garbage", "abc", "10", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit, err := parsePaginationParams(tt.pageStr, tt.limitStr)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Fatalf("got page=%d limit=%d, want page=%d limit=%d", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}
