package order

import (
	"context"
	"time"

	"github.com/jmcadiz/sari-store/internal/domain/product"
)

// Status is the review state of an order. All four states are directly
// selectable by the admin; none of them is terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusDenied    Status = "denied"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusDenied:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Order is a single-product purchase backed by an uploaded payment proof.
// ProductID is a weak reference: the product may have been deleted since.
type Order struct {
	ID              string
	ProductID       string
	UserID          string
	BuyerName       string
	PaymentProofURL string
	Status          Status
	DenialReason    string
	CreatedAt       time.Time
}

// WithProduct pairs an order with its product for listings. Product is nil
// when the referenced product no longer exists.
type WithProduct struct {
	Order
	Product *product.Product
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]WithProduct, error)
	ListByUser(ctx context.Context, userID string) ([]WithProduct, error)

	// ApplyChange writes the status fields of a planned transition.
	ApplyChange(ctx context.Context, id string, change FieldChange) error
}
