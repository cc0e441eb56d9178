package orders

import (
	"encoding/json"
	"fmt"
)

// ItemInput is one entry of a create-order request body. Pointers and
// json.Number keep "field missing" distinguishable from "field not an
// integer" during validation.
type ItemInput struct {
	ProductID *json.Number `json:"product_id"`
	Quantity  *json.Number `json:"quantity"`
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type NotFoundError struct {
	ProductID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Product %d not found", e.ProductID)
}

type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product %d", e.ProductID)
}

type StockUpdateError struct {
	ProductID int64
}

func (e *StockUpdateError) Error() string {
	return fmt.Sprintf("Failed to update stock for product %d", e.ProductID)
}

// ValidateAndGroupItems checks every entry and folds duplicates into one
// quantity per product id. Zero quantities pass validation; negatives do not.
func ValidateAndGroupItems(items []ItemInput) (map[int64]int, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Message: "No items provided"}
	}

	grouped := make(map[int64]int, len(items))

	for _, item := range items {
		if item.ProductID == nil || item.Quantity == nil {
			return nil, &ValidationError{Message: "Each item must contain 'product_id' and 'quantity'."}
		}

		productID, err := item.ProductID.Int64()
		if err != nil {
			return nil, &ValidationError{Message: "'product_id' and 'quantity' must be valid integers."}
		}

		quantity, err := item.Quantity.Int64()
		if err != nil {
			return nil, &ValidationError{Message: "'product_id' and 'quantity' must be valid integers."}
		}

		if productID < 0 || quantity < 0 {
			return nil, &ValidationError{Message: "'product_id' and 'quantity' must be non-negative."}
		}

		grouped[productID] += int(quantity)
	}

	return grouped, nil
}
