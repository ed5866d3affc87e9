package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmcadiz/sari-store/internal/domain/product"
	"github.com/jmcadiz/sari-store/internal/domain/stock"
)

const (
	listProductsSQL = `SELECT id, name, description, price, image_url, stocks, created_at
		FROM products ORDER BY created_at DESC`

	getProductByIDSQL = `SELECT id, name, description, price, image_url, stocks, created_at
		FROM products WHERE id = $1`

	createProductSQL = `INSERT INTO products (name, description, price, image_url, stocks)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	getStocksSQL = `SELECT stocks FROM products WHERE id = $1`
	setStocksSQL = `UPDATE products SET stocks = $2 WHERE id = $1`
)

var (
	_ product.Repository = (*ProductRepository)(nil)
	_ stock.Store        = (*ProductRepository)(nil)
)

// ProductRepository implements product.Repository and stock.Store backed by
// PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return &p, nil
}

// Create inserts a new product and returns it with the generated id and
// timestamp filled in.
func (r *ProductRepository) Create(ctx context.Context, params product.CreateParams) (*product.Product, error) {
	p := product.Product{
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		ImageURL:    params.ImageURL,
		Stocks:      params.Stocks,
	}

	var imageURL *string
	if params.ImageURL != "" {
		imageURL = &params.ImageURL
	}
	err := r.pool.QueryRow(ctx, createProductSQL,
		params.Name, params.Description, params.Price, imageURL, params.Stocks,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return &p, nil
}

// Update applies a partial update; nil fields keep their stored value.
func (r *ProductRepository) Update(ctx context.Context, id string, params product.UpdateParams) error {
	sets := make([]string, 0, 5)
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if params.Name != nil {
		add("name", *params.Name)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Price != nil {
		add("price", *params.Price)
	}
	if params.ImageURL != nil {
		add("image_url", *params.ImageURL)
	}
	if params.Stocks != nil {
		add("stocks", *params.Stocks)
	}
	if len(sets) == 0 {
		return nil
	}

	sql := "UPDATE products SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return errors.Wrapf(err, "update product %q", id)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes a product. Orders referencing it are left alone.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete product %q", id)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// GetStocks reads the current stock counter.
func (r *ProductRepository) GetStocks(ctx context.Context, id string) (int, error) {
	var stocks int
	err := r.pool.QueryRow(ctx, getStocksSQL, id).Scan(&stocks)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, product.ErrNotFound
		}
		return 0, errors.Wrapf(err, "get stocks for product %q", id)
	}
	return stocks, nil
}

// SetStocks overwrites the stock counter with a caller-computed value.
func (r *ProductRepository) SetStocks(ctx context.Context, id string, stocks int) error {
	tag, err := r.pool.Exec(ctx, setStocksSQL, id, stocks)
	if err != nil {
		return errors.Wrapf(err, "set stocks for product %q", id)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p        product.Product
		imageURL *string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &imageURL, &p.Stocks, &p.CreatedAt)
	if imageURL != nil {
		p.ImageURL = *imageURL
	}
	return p, err
}
