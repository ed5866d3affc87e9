// Package api exposes the storefront and admin console over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmcadiz/sari-store/internal/domain/auth"
	"github.com/jmcadiz/sari-store/internal/domain/order"
	"github.com/jmcadiz/sari-store/internal/domain/product"
)

// ImageUploader stores product images and returns their public URL.
type ImageUploader = order.ProofUploader

// Handler serves the API routes, delegating business logic to the order
// service and repositories.
type Handler struct {
	products product.Repository
	orders   order.Repository
	service  *order.Service
	profiles *auth.Profiles
	verifier *auth.Verifier
	images   ImageUploader
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	products product.Repository,
	orders order.Repository,
	service *order.Service,
	profiles *auth.Profiles,
	verifier *auth.Verifier,
	images ImageUploader,
) *Handler {
	return &Handler{
		products: products,
		orders:   orders,
		service:  service,
		profiles: profiles,
		verifier: verifier,
		images:   images,
	}
}

// Routes builds the API router. Product reads are public; placing and
// listing orders needs a signed-in user; everything under /admin needs the
// admin role.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Post("/orders", h.placeOrder)
		r.Get("/orders", h.listMyOrders)
		r.Post("/auth/signout", h.signOut)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.requireAdmin)

			r.Get("/orders", h.listAllOrders)
			r.Patch("/orders/{id}/status", h.changeOrderStatus)

			r.Post("/products", h.createProduct)
			r.Patch("/products/{id}", h.updateProduct)
			r.Delete("/products/{id}", h.deleteProduct)

			r.Get("/stats", h.stats)
		})
	})

	return r
}

// signOut drops the caller's cached profile so a role change is picked up on
// the next sign-in. The token itself is revoked by the external auth
// platform.
func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	h.profiles.Invalidate(identity.UserID)
	w.WriteHeader(http.StatusNoContent)
}
