package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item sold by the shop. Stocks counts the units
// currently available for purchase; the placement and denial workflows
// mutate it one unit at a time.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Stocks      int
	CreatedAt   time.Time
}

// CreateParams holds the fields for a new product. Stocks defaults to zero
// when the admin leaves it blank.
type CreateParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Stocks      int
}

// UpdateParams holds a partial product update; nil fields are left untouched.
type UpdateParams struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	Stocks      *int
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, params CreateParams) (*Product, error)
	Update(ctx context.Context, id string, params UpdateParams) error
	Delete(ctx context.Context, id string) error

	// SetStocks overwrites the stock counter with a value the caller computed
	// from its last read. The workflow is read-then-write; there is no
	// server-side atomic increment.
	SetStocks(ctx context.Context, id string, stocks int) error
}
