package httpx

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/safar/go-shop-services/internal/database"
	"github.com/safar/go-shop-services/internal/store"
	"github.com/shopspring/decimal"
)

type ProductsHandler struct {
	DB *sql.DB
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products/", h.list)
	r.Post("/products/", h.create)
	r.Get("/products/{id}/", h.get)
	r.Delete("/products/{id}/", h.delete)
	r.Patch("/products/{id}/stock/", h.updateStock)
}

type createProductRequest struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Stock *json.Number     `json:"stock"`
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	products, err := store.ListProducts(r.Context(), h.DB)
	if err != nil {
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == nil || *req.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Price == nil {
		respondError(w, http.StatusBadRequest, "Price is required")
		return
	}
	if req.Price.IsNegative() {
		respondError(w, http.StatusBadRequest, "Price cannot be negative")
		return
	}
	if req.Price.Exponent() < -2 {
		respondError(w, http.StatusBadRequest, "Price cannot have more than 2 decimal places")
		return
	}

	stock, err := parseStock(req.Stock)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := store.CreateProduct(r.Context(), h.DB, *req.Name, *req.Price, stock)
	if err != nil {
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := store.DeleteProduct(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		respondInternalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductsHandler) updateStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	// Existence is checked before the body is validated, so an unknown id is
	// always a 404 even when the payload is garbage.
	if _, err := store.GetProduct(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		respondInternalError(w, err)
		return
	}

	var req struct {
		Stock *json.Number `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Stock must be a valid integer")
		return
	}

	stock, err := parseStock(req.Stock)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := store.UpdateStock(r.Context(), h.DB, id, stock)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func parseStock(raw *json.Number) (int, error) {
	if raw == nil {
		return 0, errors.New("Stock must be a valid integer")
	}
	stock, err := raw.Int64()
	if err != nil {
		return 0, errors.New("Stock must be a valid integer")
	}
	if stock < 0 {
		return 0, errors.New("Stock cannot be negative")
	}
	return int(stock), nil
}
