package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jmcadiz/sari-store/internal/domain/order"
	"github.com/jmcadiz/sari-store/internal/domain/product"
)

const (
	createOrderSQL = `INSERT INTO orders (id, product_id, user_id, buyer_name, payment_proof_url, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	getOrderByIDSQL = `SELECT id, product_id, user_id, buyer_name, payment_proof_url, status, denial_reason, created_at
		FROM orders WHERE id = $1`

	// Orders join products with a LEFT JOIN: a deleted product shows up as a
	// NULL row, not a missing order.
	listOrdersSQL = `SELECT o.id, o.product_id, o.user_id, o.buyer_name, o.payment_proof_url, o.status, o.denial_reason, o.created_at,
			p.id, p.name, p.description, p.price, p.image_url, p.stocks, p.created_at
		FROM orders o
		LEFT JOIN products p ON p.id = o.product_id
		ORDER BY o.created_at DESC`

	listOrdersByUserSQL = `SELECT o.id, o.product_id, o.user_id, o.buyer_name, o.payment_proof_url, o.status, o.denial_reason, o.created_at,
			p.id, p.name, p.description, p.price, p.image_url, p.stocks, p.created_at
		FROM orders o
		LEFT JOIN products p ON p.id = o.product_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC`

	setDeniedSQL   = `UPDATE orders SET status = 'denied', denial_reason = $2 WHERE id = $1`
	keepDeniedSQL  = `UPDATE orders SET status = 'denied' WHERE id = $1`
	clearDenialSQL = `UPDATE orders SET status = $2, denial_reason = NULL WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order and fills in its creation timestamp.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	err := r.pool.QueryRow(ctx, createOrderSQL,
		o.ID, o.ProductID, o.UserID, o.BuyerName, o.PaymentProofURL, o.Status,
	).Scan(&o.CreatedAt)
	if err != nil {
		return errors.Wrapf(err, "create order %q", o.ID)
	}
	return nil
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %q", id)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", id)
	}
	return &o, nil
}

// List returns all orders newest first, each with its product when it still
// exists.
func (r *OrderRepository) List(ctx context.Context) ([]order.WithProduct, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return pgx.CollectRows(rows, scanOrderWithProduct)
}

// ListByUser returns one user's orders newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.WithProduct, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "list orders for user %q", userID)
	}
	return pgx.CollectRows(rows, scanOrderWithProduct)
}

// ApplyChange writes the status fields for one planned transition variant.
// The variant picks the SQL shape: only SetDenied writes a reason, and only
// ClearDenial nulls it out.
func (r *OrderRepository) ApplyChange(ctx context.Context, id string, change order.FieldChange) error {
	var (
		tag pgconn.CommandTag
		err error
	)
	switch c := change.(type) {
	case order.SetDenied:
		tag, err = r.pool.Exec(ctx, setDeniedSQL, id, c.Reason)
	case order.KeepDenied:
		tag, err = r.pool.Exec(ctx, keepDeniedSQL, id)
	case order.ClearDenial:
		tag, err = r.pool.Exec(ctx, clearDenialSQL, id, c.To)
	default:
		return errors.Errorf("unknown field change %T", change)
	}
	if err != nil {
		return errors.Wrapf(err, "update order %q", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o            order.Order
		productID    *string
		denialReason *string
	)
	err := row.Scan(
		&o.ID, &productID, &o.UserID, &o.BuyerName, &o.PaymentProofURL,
		&o.Status, &denialReason, &o.CreatedAt,
	)
	if productID != nil {
		o.ProductID = *productID
	}
	if denialReason != nil {
		o.DenialReason = *denialReason
	}
	return o, err
}

func scanOrderWithProduct(row pgx.CollectableRow) (order.WithProduct, error) {
	var (
		o            order.Order
		productID    *string
		denialReason *string

		pID, pName, pDescription, pImageURL *string
		pPrice                              *decimal.Decimal
		pStocks                             *int
		pCreatedAt                          *time.Time
	)
	err := row.Scan(
		&o.ID, &productID, &o.UserID, &o.BuyerName, &o.PaymentProofURL,
		&o.Status, &denialReason, &o.CreatedAt,
		&pID, &pName, &pDescription, &pPrice, &pImageURL, &pStocks, &pCreatedAt,
	)
	if err != nil {
		return order.WithProduct{}, err
	}
	if productID != nil {
		o.ProductID = *productID
	}
	if denialReason != nil {
		o.DenialReason = *denialReason
	}

	wp := order.WithProduct{Order: o}
	if pID != nil {
		p := product.Product{
			ID:        *pID,
			Name:      *pName,
			Price:     *pPrice,
			Stocks:    *pStocks,
			CreatedAt: *pCreatedAt,
		}
		if pDescription != nil {
			p.Description = *pDescription
		}
		if pImageURL != nil {
			p.ImageURL = *pImageURL
		}
		wp.Product = &p
	}
	return wp, nil
}
