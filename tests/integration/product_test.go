//go:build integration

package integration

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != seededProducts {
		t.Fatalf("expected %d products, got %d", seededProducts, len(products))
	}
	for _, p := range products {
		if p.ID == "" || p.Name == "" {
			t.Errorf("product missing fields: %+v", p)
		}
	}
}

func TestGetProduct(t *testing.T) {
	want := firstProduct(t)

	resp := doGet(t, "/api/products/" + want.ID)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := decodeJSON[productResponse](t, resp)
	if got.ID != want.ID || got.Name != want.Name {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/facade00-dead-4000-a000-000000000000")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Error == "" {
		t.Error("expected error message")
	}
}

func TestCreateProduct_AdminOnly(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if err := mw.WriteField("name", "Guava Jelly 300g"); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("price", "95.00"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	resp := doRequest(t, http.MethodPost, "/api/admin/products", buyerUserID, buf, mw.FormDataContentType())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestCreateAndUpdateProduct(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range map[string]string{
		"name":        "Peanut Brittle 180g",
		"description": "Baguio-style panutsa.",
		"price":       "75.00",
		"stocks":      "12",
	} {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	resp := doRequest(t, http.MethodPost, "/api/admin/products", adminUserID, buf, mw.FormDataContentType())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeJSON[productResponse](t, resp)
	resp.Body.Close()

	if created.Stocks != 12 {
		t.Fatalf("expected 12 stocks, got %d", created.Stocks)
	}

	// Partial update: only stocks.
	buf = &bytes.Buffer{}
	mw = multipart.NewWriter(buf)
	if err := mw.WriteField("stocks", "3"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	resp = doRequest(t, http.MethodPatch, "/api/admin/products/"+created.ID, adminUserID, buf, mw.FormDataContentType())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	updated := decodeJSON[productResponse](t, resp)
	resp.Body.Close()

	if updated.Stocks != 3 {
		t.Errorf("expected 3 stocks, got %d", updated.Stocks)
	}
	if updated.Name != created.Name {
		t.Errorf("name changed by partial update: %q -> %q", created.Name, updated.Name)
	}
}

func TestDeleteProduct_LeavesOrdersBehind(t *testing.T) {
	// Create a throwaway product, order it directly, then delete it. The
	// order listing must keep working and surface the missing product.
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if err := mw.WriteField("name", "Throwaway Item"); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("price", "10.00"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	resp := doRequest(t, http.MethodPost, "/api/admin/products", adminUserID, buf, mw.FormDataContentType())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeJSON[productResponse](t, resp)
	resp.Body.Close()

	orderID := insertOrder(t, created.ID, buyerUserID, "pending", "")

	resp = doRequest(t, http.MethodDelete, "/api/admin/products/"+created.ID, adminUserID, nil, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp = doGetAs(t, "/api/admin/orders", adminUserID)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	orders := decodeJSON[[]orderResponse](t, resp)
	found := false
	for _, o := range orders {
		if o.ID == orderID {
			found = true
			if o.Product != nil {
				t.Errorf("expected no product on orphaned order, got %+v", o.Product)
			}
		}
	}
	if !found {
		t.Error("orphaned order missing from admin listing")
	}
}
