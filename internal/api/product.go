package api

import (
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcadiz/sari-store/internal/domain/product"
)

const maxProductImageSize = 8 << 20

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Stocks      int             `json:"stocks"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toProductJSON(p *product.Product) productJSON {
	return productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Stocks:      p.Stocks,
		CreatedAt:   p.CreatedAt,
	}
}

// listProducts returns the catalog, newest first.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.products.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]productJSON, len(items))
	for i := range items {
		out[i] = toProductJSON(&items[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// getProduct returns a single product.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(p))
}

// createProduct accepts a multipart form: name, description, price, stocks,
// and an optional image file that is pushed to object storage first.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxProductImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name required")
		return
	}
	price, err := decimal.NewFromString(r.FormValue("price"))
	if err != nil || price.IsNegative() {
		writeError(w, http.StatusUnprocessableEntity, "price must be a non-negative number")
		return
	}

	stocks := 0
	if raw := r.FormValue("stocks"); raw != "" {
		stocks, err = strconv.Atoi(raw)
		if err != nil || stocks < 0 {
			writeError(w, http.StatusUnprocessableEntity, "stocks must be a non-negative integer")
			return
		}
	}

	imageURL := ""
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()

		objectPath := fmt.Sprintf("products/%s%s", uuid.New().String(), path.Ext(header.Filename))
		imageURL, err = h.images.Upload(r.Context(), objectPath, header.Header.Get("Content-Type"), file)
		if err != nil {
			writeError(w, http.StatusBadGateway, "image upload failed")
			return
		}
	}

	p, err := h.products.Create(r.Context(), product.CreateParams{
		Name:        name,
		Description: r.FormValue("description"),
		Price:       price,
		ImageURL:    imageURL,
		Stocks:      stocks,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductJSON(p))
}

// updateProduct applies a partial update from a multipart form; absent
// fields keep their stored value. Stock edits through this path share the
// same unguarded last-write-wins semantics as the order workflow.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxProductImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var params product.UpdateParams
	if _, ok := r.MultipartForm.Value["name"]; ok {
		name := r.FormValue("name")
		params.Name = &name
	}
	if _, ok := r.MultipartForm.Value["description"]; ok {
		description := r.FormValue("description")
		params.Description = &description
	}
	if _, ok := r.MultipartForm.Value["price"]; ok {
		price, err := decimal.NewFromString(r.FormValue("price"))
		if err != nil || price.IsNegative() {
			writeError(w, http.StatusUnprocessableEntity, "price must be a non-negative number")
			return
		}
		params.Price = &price
	}
	if _, ok := r.MultipartForm.Value["stocks"]; ok {
		stocks, err := strconv.Atoi(r.FormValue("stocks"))
		if err != nil || stocks < 0 {
			writeError(w, http.StatusUnprocessableEntity, "stocks must be a non-negative integer")
			return
		}
		params.Stocks = &stocks
	}
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()

		objectPath := fmt.Sprintf("products/%s%s", uuid.New().String(), path.Ext(header.Filename))
		imageURL, err := h.images.Upload(r.Context(), objectPath, header.Header.Get("Content-Type"), file)
		if err != nil {
			writeError(w, http.StatusBadGateway, "image upload failed")
			return
		}
		params.ImageURL = &imageURL
	}

	if err := h.products.Update(r.Context(), chi.URLParam(r, "id"), params); err != nil {
		writeDomainError(w, r, err)
		return
	}

	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(p))
}

// deleteProduct removes a product. Existing orders keep their reference and
// show up as "Unknown Product" in listings.
func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
