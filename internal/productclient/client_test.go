package productclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestGetProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/products/42/" {
			t.Errorf("Expected path /products/42/, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":42,"name":"Widget","price":"19.99","stock":7}`)
	}))
	defer server.Close()

	client := New(server.URL + "/products")

	product, err := client.GetProduct(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}

	if product.ID != 42 {
		t.Errorf("Expected id 42, got %d", product.ID)
	}
	if product.Name != "Widget" {
		t.Errorf("Expected name Widget, got %s", product.Name)
	}
	if !product.Price.Equal(decimal.RequireFromString("19.99")) {
		t.Errorf("Expected price 19.99, got %s", product.Price)
	}
	if product.Stock != 7 {
		t.Errorf("Expected stock 7, got %d", product.Stock)
	}
}

func TestGetProductNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"Product not found"}`)
	}))
	defer server.Close()

	client := New(server.URL + "/products")

	_, err := client.GetProduct(context.Background(), 99)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdateStock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("Expected PATCH, got %s", r.Method)
		}
		if r.URL.Path != "/products/42/stock/" {
			t.Errorf("Expected path /products/42/stock/, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", ct)
		}

		var body map[string]int
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Decode request body: %v", err)
		}
		if body["stock"] != 3 {
			t.Errorf("Expected stock 3 in body, got %d", body["stock"])
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":42,"name":"Widget","price":"19.99","stock":3}`)
	}))
	defer server.Close()

	client := New(server.URL + "/products")

	product, err := client.UpdateStock(context.Background(), 42, 3)
	if err != nil {
		t.Fatalf("UpdateStock: %v", err)
	}
	if product.Stock != 3 {
		t.Errorf("Expected stock 3, got %d", product.Stock)
	}
}

func TestUpdateStockFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"Stock cannot be negative"}`)
	}))
	defer server.Close()

	client := New(server.URL + "/products")

	_, err := client.UpdateStock(context.Background(), 42, -1)
	if !errors.Is(err, ErrStockUpdateFailed) {
		t.Fatalf("Expected ErrStockUpdateFailed, got %v", err)
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	client := New("http://localhost:8080/products/")
	if client.BaseURL != "http://localhost:8080/products" {
		t.Errorf("Expected trimmed base URL, got %s", client.BaseURL)
	}
}
