package order

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmcadiz/sari-store/internal/domain/auth"
	"github.com/jmcadiz/sari-store/internal/domain/product"
	"github.com/jmcadiz/sari-store/internal/domain/stock"
)

// Sentinel errors for order placement.
var (
	ErrBuyerNameRequired = errors.New("buyer name required")
	ErrProofRequired     = errors.New("payment proof required")
	ErrOutOfStock        = errors.New("product out of stock")
)

// ProofUploader stores a payment-proof image and returns its public URL.
type ProofUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (publicURL string, err error)
}

// ProofFile is an uploaded payment-proof image.
type ProofFile struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	ProductID string
	BuyerName string
	Proof     *ProofFile
}

// PlaceOrderResult is the outcome of a successful placement. StockWarning is
// non-nil when the order was created but the follow-up stock decrement
// failed; the order stands regardless.
type PlaceOrderResult struct {
	Order        *Order
	StockWarning error
}

// ChangeStatusResult is the outcome of a successful status transition.
// StockRestored reports that a denial returned a unit to inventory, which
// the admin UI surfaces as a confirmation notice. StockWarning carries a
// failed secondary stock update; the status change stands.
type ChangeStatusResult struct {
	Order         *Order
	StockRestored bool
	StockWarning  error
}

// Service implements the order placement flow and the status transition
// engine on top of the product catalog, order store, proof storage, and the
// stock effector.
type Service struct {
	products product.Repository
	orders   Repository
	stock    *stock.Effector
	proofs   ProofUploader
}

// NewService creates an order Service with the required dependencies.
func NewService(
	products product.Repository,
	orders Repository,
	effector *stock.Effector,
	proofs ProofUploader,
) *Service {
	return &Service{
		products: products,
		orders:   orders,
		stock:    effector,
		proofs:   proofs,
	}
}

// PlaceOrder validates the request, uploads the payment proof, inserts the
// order in pending state, and then consumes one unit of stock.
//
// The three steps run in order with no compensation: a failed upload aborts
// before anything is written, a failed insert leaves the uploaded file
// behind, and a failed stock decrement leaves the order in place with the
// stale count reported as a warning.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, auth.ErrUnauthenticated
	}

	buyerName := strings.TrimSpace(req.BuyerName)
	if buyerName == "" {
		return nil, ErrBuyerNameRequired
	}
	if req.Proof == nil || req.Proof.Content == nil {
		return nil, ErrProofRequired
	}

	p, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %s", req.ProductID)
	}
	if p.Stocks <= 0 {
		return nil, ErrOutOfStock
	}

	proofURL, err := s.proofs.Upload(ctx, proofObjectPath(req.Proof.Filename), req.Proof.ContentType, req.Proof.Content)
	if err != nil {
		return nil, errors.Wrap(err, "upload payment proof")
	}

	o := &Order{
		ID:              uuid.New().String(),
		ProductID:       p.ID,
		UserID:          identity.UserID,
		BuyerName:       buyerName,
		PaymentProofURL: proofURL,
		Status:          StatusPending,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		// The uploaded proof is not removed; orphaned files are accepted.
		return nil, errors.Wrap(err, "create order")
	}

	result := &PlaceOrderResult{Order: o}
	if _, err := s.stock.Apply(ctx, p.ID, stock.Decrement); err != nil {
		zctx.From(ctx).Warn("Order placed but stock update failed",
			zap.String("order_id", o.ID),
			zap.String("product_id", p.ID),
			zap.Error(err),
		)
		result.StockWarning = err
	}

	return result, nil
}

// ChangeStatus applies an admin-requested status transition. The order
// fields are written first; only when that succeeds is the compensating
// stock effect attempted. A failed stock effect downgrades to a warning.
func (s *Service) ChangeStatus(ctx context.Context, orderID string, next Status, reason string) (*ChangeStatusResult, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %s", orderID)
	}

	plan, err := PlanTransition(o.Status, next, reason)
	if err != nil {
		return nil, err
	}

	if err := s.orders.ApplyChange(ctx, o.ID, plan.Change); err != nil {
		return nil, errors.Wrap(err, "update order status")
	}

	o.Status = plan.Change.Status()
	switch c := plan.Change.(type) {
	case SetDenied:
		o.DenialReason = c.Reason
	case ClearDenial:
		o.DenialReason = ""
	}

	result := &ChangeStatusResult{Order: o}
	if plan.StockDelta == stock.None {
		return result, nil
	}

	applied, err := s.stock.Apply(ctx, o.ProductID, plan.StockDelta)
	if err != nil {
		zctx.From(ctx).Warn("Status updated but stock adjustment failed",
			zap.String("order_id", o.ID),
			zap.String("product_id", o.ProductID),
			zap.Int("delta", int(plan.StockDelta)),
			zap.Error(err),
		)
		result.StockWarning = err
		return result, nil
	}

	result.StockRestored = applied && plan.StockDelta == stock.Increment
	return result, nil
}

// proofObjectPath builds a unique storage path for a payment proof,
// preserving the original file extension.
func proofObjectPath(filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("orders/%s%s", uuid.New().String(), ext)
}
