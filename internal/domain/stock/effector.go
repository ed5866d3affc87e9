// Package stock applies single-unit inventory adjustments.
//
// Adjustments are read-then-write from the calling client, with no
// transaction, locking, or retry. Serial callers observe exact accounting;
// concurrent callers on the same product can lose updates. That matches the
// workflow's consistency model and is documented rather than hidden.
package stock

import (
	"context"

	"github.com/go-faster/errors"
)

// Delta is a signed single-unit stock adjustment.
type Delta int

const (
	None      Delta = 0
	Increment Delta = 1
	Decrement Delta = -1
)

// Store is the subset of product persistence the effector needs.
type Store interface {
	GetStocks(ctx context.Context, productID string) (int, error)
	SetStocks(ctx context.Context, productID string, stocks int) error
}

// Effector reads a product's current stock count and writes back the
// adjusted value.
type Effector struct {
	store Store
}

// NewEffector returns an Effector backed by the given store.
func NewEffector(store Store) *Effector {
	return &Effector{store: store}
}

// Apply adjusts the product's stock by delta. Increments always go through.
// Decrements are clamped at zero: when the current count is already zero the
// write is skipped and applied is false with a nil error. A None delta is a
// no-op.
func (e *Effector) Apply(ctx context.Context, productID string, delta Delta) (applied bool, err error) {
	if delta == None {
		return false, nil
	}

	current, err := e.store.GetStocks(ctx, productID)
	if err != nil {
		return false, errors.Wrap(err, "read stocks")
	}

	next := current + int(delta)
	if next < 0 {
		return false, nil
	}

	if err := e.store.SetStocks(ctx, productID, next); err != nil {
		return false, errors.Wrap(err, "write stocks")
	}
	return true, nil
}
