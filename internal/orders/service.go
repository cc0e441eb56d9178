package orders

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/safar/go-shop-services/internal/models"
	"github.com/shopspring/decimal"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OrderStore is the persistence the workflow needs. *store.OrderRepo
// implements it.
type OrderStore interface {
	Create(ctx context.Context) (*models.Order, error)
	AddItem(ctx context.Context, orderID, productID int64, quantity int, price decimal.Decimal) error
	Get(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Delete(ctx context.Context, id int64) error
}

// ProductAPI is the remote product service. *productclient.Client
// implements it.
type ProductAPI interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int) (*models.Product, error)
}

type Service struct {
	Store    OrderStore
	Products ProductAPI
}

// CreateOrder runs the order-creation workflow: validate and group the
// requested items, create an empty order, then for each distinct product
// fetch it from the product service, check stock, deduct stock remotely and
// snapshot an order item. Any failure deletes the order and returns the
// triggering error, so no partially populated order stays visible. Stock
// already deducted for earlier products is not re-incremented when a later
// product fails.
func (s *Service) CreateOrder(ctx context.Context, items []ItemInput) (*models.Order, error) {
	grouped, err := ValidateAndGroupItems(items)
	if err != nil {
		return nil, err
	}

	order, err := s.Store.Create(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		return nil, err
	}

	for productID, quantity := range grouped {
		product, err := s.Products.GetProduct(ctx, productID)
		if err != nil {
			logger.Warn().Err(err).Int64("product_id", productID).Msg("Product lookup failed")
			s.rollback(ctx, order.ID)
			return nil, &NotFoundError{ProductID: productID}
		}

		if product.Stock < quantity {
			logger.Warn().Int64("product_id", productID).
				Int("stock", product.Stock).Int("requested", quantity).
				Msg("Insufficient stock")
			s.rollback(ctx, order.ID)
			return nil, &InsufficientStockError{ProductID: productID}
		}

		if _, err := s.Products.UpdateStock(ctx, productID, product.Stock-quantity); err != nil {
			logger.Error().Err(err).Int64("product_id", productID).Msg("Stock update failed")
			s.rollback(ctx, order.ID)
			return nil, &StockUpdateError{ProductID: productID}
		}

		if err := s.Store.AddItem(ctx, order.ID, productID, quantity, product.Price); err != nil {
			logger.Error().Err(err).Int64("order_id", order.ID).Msg("Error adding order item")
			s.rollback(ctx, order.ID)
			return nil, err
		}
	}

	return s.Store.Get(ctx, order.ID)
}

// rollback is a compensating delete of the partially built order. It is
// best effort: a failed delete is logged, the original error still wins.
func (s *Service) rollback(ctx context.Context, orderID int64) {
	if err := s.Store.Delete(ctx, orderID); err != nil {
		logger.Error().Err(err).Int64("order_id", orderID).Msg("Error rolling back order")
	}
}
