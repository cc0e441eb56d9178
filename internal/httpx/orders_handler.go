package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/safar/go-shop-services/internal/database"
	"github.com/safar/go-shop-services/internal/orders"
)

type OrdersHandler struct {
	Store   orders.OrderStore
	Service *orders.Service
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/orders/", h.list)
	r.Post("/orders/", h.create)
	r.Get("/orders/{id}/", h.get)
	r.Delete("/orders/{id}/", h.delete)
}

type createOrderRequest struct {
	Items []orders.ItemInput `json:"items"`
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.Store.List(r.Context())
	if err != nil {
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, all)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.Service.CreateOrder(r.Context(), req.Items)
	if err != nil {
		status := statusForOrderError(err)
		if status == http.StatusInternalServerError {
			respondInternalError(w, err)
			return
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		respondInternalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		respondInternalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// statusForOrderError translates workflow errors into the API's status codes:
// validation and stock problems are 400, a missing remote product is 404,
// anything else is a 500.
func statusForOrderError(err error) int {
	var (
		validationErr *orders.ValidationError
		notFoundErr   *orders.NotFoundError
		stockErr      *orders.InsufficientStockError
		updateErr     *orders.StockUpdateError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &stockErr):
		return http.StatusBadRequest
	case errors.As(err, &updateErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
