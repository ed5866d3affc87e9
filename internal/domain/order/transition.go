package order

import (
	"strings"

	"github.com/go-faster/errors"

	"github.com/jmcadiz/sari-store/internal/domain/stock"
)

// Sentinel errors for lookups and transition planning.
var (
	ErrNotFound      = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrDenialReasonRequired is returned when a transition into denied lacks
	// a reason. The order is left untouched; the caller re-submits once the
	// admin confirms with a reason.
	ErrDenialReasonRequired = errors.New("denial reason required")
)

// FieldChange describes the order-row mutation of a planned transition.
// Modelling the denial reason as a tagged variant keeps a reason from ever
// being written outside a denial.
type FieldChange interface {
	Status() Status

	fieldChange()
}

// SetDenied marks the order denied and records the reason.
type SetDenied struct {
	Reason string
}

// KeepDenied re-selects denied on an already-denied order. The status column
// is rewritten, the existing reason stays in place.
type KeepDenied struct{}

// ClearDenial moves the order to a non-denied status and nulls out any
// denial reason, whatever its prior value.
type ClearDenial struct {
	To Status
}

func (SetDenied) Status() Status     { return StatusDenied }
func (KeepDenied) Status() Status    { return StatusDenied }
func (c ClearDenial) Status() Status { return c.To }

func (SetDenied) fieldChange()   {}
func (KeepDenied) fieldChange()  {}
func (ClearDenial) fieldChange() {}

// Plan is the outcome of planning one status transition: the fields to write
// on the order and the stock effect to apply afterwards.
type Plan struct {
	Change FieldChange

	// StockDelta is +1 entering denied, -1 leaving it, 0 otherwise.
	// Decrements are clamped at zero by the effector.
	StockDelta stock.Delta
}

// PlanTransition decides what a requested status change does. Only
// transitions that cross the denied boundary carry a stock effect; comparing
// prev against next (rather than looking at next alone) keeps a repeated
// selection of the same status from double-applying it.
func PlanTransition(prev, next Status, reason string) (Plan, error) {
	if _, err := ParseStatus(string(next)); err != nil {
		return Plan{}, err
	}

	enteringDenied := next == StatusDenied && prev != StatusDenied
	leavingDenied := prev == StatusDenied && next != StatusDenied

	var p Plan
	switch {
	case enteringDenied:
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return Plan{}, ErrDenialReasonRequired
		}
		p.Change = SetDenied{Reason: reason}
		p.StockDelta = stock.Increment

	case leavingDenied:
		p.Change = ClearDenial{To: next}
		p.StockDelta = stock.Decrement

	case next == StatusDenied:
		// denied -> denied: no reason prompt, no stock effect.
		p.Change = KeepDenied{}

	default:
		p.Change = ClearDenial{To: next}
	}

	return p, nil
}
