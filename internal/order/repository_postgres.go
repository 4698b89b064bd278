package order

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	orderColumns = `id, total_amount, total_items, status, paid, created_at, updated_at`

	insertOrderQuery = `
		INSERT INTO orders (id, total_amount, total_items)
		VALUES ($1, $2, $3)
		RETURNING ` + orderColumns

	insertOrderItemQuery = `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
	`

	getOrderByIDQuery = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	listOrderItemsQuery = `
		SELECT product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	countOrdersQuery         = `SELECT count(*) FROM orders`
	countOrdersByStatusQuery = `SELECT count(*) FROM orders WHERE status = $1`

	listOrdersQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`
	listOrdersByStatusQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`

	updateOrderStatusQuery = `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + orderColumns

	markOrderPaidQuery = `
		UPDATE orders
		SET status = $2, paid = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING ` + orderColumns
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, ord Order) (Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Order{}, fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	row := tx.QueryRowContext(ctx, insertOrderQuery, id, ord.TotalAmount, ord.TotalItems)
	created, err := scanOrder(row)
	if err != nil {
		return Order{}, fmt.Errorf("insert order header: %w", err)
	}

	for _, item := range ord.Items {
		if _, err := tx.ExecContext(ctx, insertOrderItemQuery, id, item.ProductID, item.Quantity, item.Price); err != nil {
			return Order{}, fmt.Errorf("insert order item %d: %w", item.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, fmt.Errorf("commit create order: %w", err)
	}

	created.Items = ord.Items
	return created, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, getOrderByIDQuery, id)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx, listOrderItemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list items of order %s: %w", id, err)
	}
	defer rows.Close()

	ord.Items = make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan item of order %s: %w", id, err)
		}
		ord.Items = append(ord.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items of order %s: %w", id, err)
	}

	return &ord, nil
}

func (r *PostgresRepository) Count(ctx context.Context, status Status) (int, error) {
	var (
		total int
		err   error
	)
	if status == "" {
		err = r.db.QueryRowContext(ctx, countOrdersQuery).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx, countOrdersByStatusQuery, status).Scan(&total)
	}
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

func (r *PostgresRepository) List(ctx context.Context, status Status, page, limit int) ([]Order, error) {
	offset := (page - 1) * limit

	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = r.db.QueryContext(ctx, listOrdersQuery, offset, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, listOrdersByStatusQuery, status, offset, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	row := r.db.QueryRowContext(ctx, updateOrderStatusQuery, id, status)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("update status of order %s: %w", id, err)
	}
	return ord, nil
}

func (r *PostgresRepository) MarkPaid(ctx context.Context, id string) (Order, error) {
	row := r.db.QueryRowContext(ctx, markOrderPaidQuery, id, StatusPaid)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("mark order %s paid: %w", id, err)
	}
	return ord, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (Order, error) {
	var ord Order
	err := s.Scan(&ord.ID, &ord.TotalAmount, &ord.TotalItems, &ord.Status, &ord.Paid, &ord.CreatedAt, &ord.UpdatedAt)
	return ord, err
}
