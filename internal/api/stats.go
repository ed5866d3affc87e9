package api

import (
	"net/http"

	"github.com/jmcadiz/sari-store/internal/domain/order"
)

type statsResponse struct {
	Products       int            `json:"products"`
	Orders         int            `json:"orders"`
	OrdersByStatus map[string]int `json:"orders_by_status"`
}

// stats aggregates dashboard counters from the product and order lists.
func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	byStatus := map[string]int{
		string(order.StatusPending):   0,
		string(order.StatusConfirmed): 0,
		string(order.StatusCompleted): 0,
		string(order.StatusDenied):    0,
	}
	for _, o := range orders {
		byStatus[string(o.Status)]++
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Products:       len(products),
		Orders:         len(orders),
		OrdersByStatus: byStatus,
	})
}
