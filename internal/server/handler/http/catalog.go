package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arvachan/solestore/internal/models"
)

// CatalogService defines the read-only catalog operations required by the
// HTTP handlers.
type CatalogService interface {
	// Products lists catalog entries, optionally filtered by category.
	Products(ctx context.Context, category string) ([]models.Product, error)
	// ProductByID fetches one entry, or (nil, nil) when absent.
	ProductByID(ctx context.Context, id string) (*models.Product, error)
}

// CatalogHandler handles HTTP requests for the product catalog.
type CatalogHandler struct {
	// Catalog performs the underlying catalog reads.
	Catalog CatalogService
}

// List handles GET /api/products, optionally filtered with ?category=.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.Products(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, models.E(models.KindRemoteFailure, "Failed to load products", err))
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// Get handles GET /api/products/{id}.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.Catalog.ProductByID(r.Context(), id)
	if err != nil {
		writeError(w, models.E(models.KindRemoteFailure, "Failed to load product details", err))
		return
	}
	if product == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
