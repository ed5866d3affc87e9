package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jmcadiz/sari-store/internal/domain/auth"
	"github.com/jmcadiz/sari-store/internal/domain/order"
)

// maxProofSize caps payment-proof uploads at 8 MiB; clients compress images
// before submitting.
const maxProofSize = 8 << 20

type orderJSON struct {
	ID              string       `json:"id"`
	ProductID       string       `json:"product_id,omitempty"`
	BuyerName       string       `json:"buyer_name"`
	PaymentProofURL string       `json:"payment_proof_url"`
	Status          order.Status `json:"status"`
	DenialReason    string       `json:"denial_reason,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	Product         *productJSON `json:"product,omitempty"`
}

func toOrderJSON(o *order.Order) orderJSON {
	return orderJSON{
		ID:              o.ID,
		ProductID:       o.ProductID,
		BuyerName:       o.BuyerName,
		PaymentProofURL: o.PaymentProofURL,
		Status:          o.Status,
		DenialReason:    o.DenialReason,
		CreatedAt:       o.CreatedAt,
	}
}

func toOrderListJSON(items []order.WithProduct) []orderJSON {
	out := make([]orderJSON, len(items))
	for i, wp := range items {
		out[i] = toOrderJSON(&wp.Order)
		if wp.Product != nil {
			p := toProductJSON(wp.Product)
			out[i].Product = &p
		}
	}
	return out
}

type placeOrderResponse struct {
	Order        orderJSON `json:"order"`
	StockWarning string    `json:"stock_warning,omitempty"`
}

// placeOrder accepts a multipart checkout form: product_id, buyer_name, and
// the payment_proof file.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxProofSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("payment_proof")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, order.ErrProofRequired.Error())
		return
	}
	defer file.Close()

	result, err := h.service.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		ProductID: r.FormValue("product_id"),
		BuyerName: r.FormValue("buyer_name"),
		Proof: &order.ProofFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     file,
		},
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := placeOrderResponse{Order: toOrderJSON(result.Order)}
	if result.StockWarning != nil {
		resp.StockWarning = "order placed, but stock update failed"
	}
	writeJSON(w, http.StatusCreated, resp)
}

// listMyOrders returns the caller's orders, newest first.
func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	items, err := h.orders.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListJSON(items))
}

// listAllOrders returns every order for the admin console.
func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	items, err := h.orders.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListJSON(items))
}

type changeStatusRequest struct {
	Status       string `json:"status"`
	DenialReason string `json:"denial_reason"`
}

type changeStatusResponse struct {
	Order         orderJSON `json:"order"`
	StockRestored bool      `json:"stock_restored"`
	StockWarning  string    `json:"stock_warning,omitempty"`
}

// changeOrderStatus applies an admin status transition. A request moving the
// order into denied without a reason is rejected with 422 and no state
// change; the admin UI re-submits after the confirmation dialog.
func (h *Handler) changeOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	next, err := order.ParseStatus(req.Status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := h.service.ChangeStatus(r.Context(), chi.URLParam(r, "id"), next, req.DenialReason)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := changeStatusResponse{
		Order:         toOrderJSON(result.Order),
		StockRestored: result.StockRestored,
	}
	if result.StockWarning != nil {
		resp.StockWarning = "status updated, but stock update failed"
	}
	writeJSON(w, http.StatusOK, resp)
}
