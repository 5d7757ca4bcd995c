package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SohithNarnavaram/BeautyHub/internal/models"
)

// ErrOrderNotFound is returned when an order id does not exist.
var ErrOrderNotFound = errors.New("order not found")

// CreateOrder inserts a completed checkout. Items and the shipping form
// are stored as JSON documents.
func (db *DB) CreateOrder(ctx context.Context, o *models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	shipping, err := json.Marshal(o.Shipping)
	if err != nil {
		return fmt.Errorf("marshal shipping: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO orders
			(id, order_code, user_id, items, subtotal, delivery, total, shipping, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.OrderCode, o.UserID, string(items), o.Subtotal, o.Delivery, o.Total,
		string(shipping), o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetOrder fetches an order by id.
func (db *DB) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, order_code, user_id, items, subtotal, delivery, total, shipping, created_at
		 FROM orders WHERE id = ?`, id)

	var o models.Order
	var items, shipping string
	err := row.Scan(&o.ID, &o.OrderCode, &o.UserID, &items, &o.Subtotal, &o.Delivery,
		&o.Total, &shipping, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal([]byte(shipping), &o.Shipping); err != nil {
		return nil, fmt.Errorf("unmarshal shipping: %w", err)
	}
	return &o, nil
}

// ListUserOrders returns a user's orders, newest first.
func (db *DB) ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, order_code, user_id, items, subtotal, delivery, total, shipping, created_at
		 FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var items, shipping string
		if err := rows.Scan(&o.ID, &o.OrderCode, &o.UserID, &items, &o.Subtotal,
			&o.Delivery, &o.Total, &shipping, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
		if err := json.Unmarshal([]byte(shipping), &o.Shipping); err != nil {
			return nil, fmt.Errorf("unmarshal shipping: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
