package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/go-shop-services/internal/database"
	"github.com/safar/go-shop-services/internal/models"
	"github.com/shopspring/decimal"
)

type OrderRepo struct {
	DB *sql.DB
}

// Create inserts an empty order row. Items are appended one at a time by the
// creation workflow; an order that fails mid-population is deleted, not
// rolled back in a single transaction.
func (r *OrderRepo) Create(ctx context.Context) (*models.Order, error) {
	order := &models.Order{}

	query := `
		INSERT INTO orders DEFAULT VALUES
		RETURNING id, created_at`

	err := r.DB.QueryRowContext(ctx, query).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	order.Items = []models.OrderItem{}
	return order, nil
}

func (r *OrderRepo) AddItem(ctx context.Context, orderID, productID int64, quantity int, price decimal.Decimal) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)`

	_, err := r.DB.ExecContext(ctx, query, orderID, productID, quantity, price)
	if err != nil {
		return fmt.Errorf("add order item: %w", err)
	}

	return nil
}

// Get reads the order and its items inside a read-only transaction so the
// computed total always matches the item rows it was derived from.
func (r *OrderRepo) Get(ctx context.Context, id int64) (*models.Order, error) {
	order := &models.Order{}

	opts := database.TxOptions{
		IsolationLevel: sql.LevelReadCommitted,
		ReadOnly:       true,
	}

	err := database.WithTransaction(ctx, r.DB, opts, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT id, created_at FROM orders WHERE id = $1`,
			id).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrOrderNotFound
			}
			return fmt.Errorf("get order: %w", err)
		}

		items, err := scanItems(ctx, tx, id)
		if err != nil {
			return err
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.TotalPrice = order.ComputeTotal()
	return order, nil
}

func (r *OrderRepo) List(ctx context.Context) ([]models.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, created_at FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range orders {
		items, err := scanItems(ctx, r.DB, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
		orders[i].TotalPrice = orders[i].ComputeTotal()
	}

	return orders, nil
}

// Delete removes the order and its items. The schema cascades too, but the
// explicit item delete keeps the behavior independent of the FK definition.
// Retried on transient conflicts with concurrent item appends.
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	return database.WithRetry(ctx, r.DB, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete order: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			return database.ErrOrderNotFound
		}

		return nil
	})
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanItems(ctx context.Context, q querier, orderID int64) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT product_id, quantity, price
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}
