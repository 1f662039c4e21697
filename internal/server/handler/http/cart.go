package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/arvachan/solestore/internal/models"
	"github.com/arvachan/solestore/internal/service"
)

// CartService defines the cart operations required by the HTTP handlers.
type CartService interface {
	// Fetch reads the authoritative line list and replaces the client view.
	Fetch(ctx context.Context) ([]models.CartLine, error)
	// Add puts one unit of the product variant into the cart.
	Add(ctx context.Context, productID, size, color string) (*models.Notice, error)
	// SetQuantity sets the quantity of the matching line; qty < 1 is a no-op.
	SetQuantity(ctx context.Context, productID string, quantity int, size, color string) error
	// Remove deletes the matching line.
	Remove(ctx context.Context, productID, size, color string) (*models.Notice, error)
	// Clear deletes every line of the current user.
	Clear(ctx context.Context) error
	// Lines returns the current client-visible snapshot.
	Lines() []models.CartLine
	// Loading reports whether a fetch is outstanding.
	Loading() bool
}

// CartHandler handles HTTP requests for the current user's cart.
type CartHandler struct {
	// Cart performs the underlying cart operations.
	Cart CartService
}

// cartPayload is the cart view surfaced to the UI: the line list plus the
// metrics derived from it.
type cartPayload struct {
	Items   []models.CartLine `json:"items"`
	Count   int               `json:"count"`
	Total   float64           `json:"total"`
	Loading bool              `json:"loading"`
	Notice  *models.Notice    `json:"notice,omitempty"`
}

// payload derives the response from the given snapshot.
func (h *CartHandler) payload(lines []models.CartLine, notice *models.Notice) cartPayload {
	if lines == nil {
		lines = []models.CartLine{}
	}
	return cartPayload{
		Items:   lines,
		Count:   service.Count(lines),
		Total:   service.Total(lines),
		Loading: h.Cart.Loading(),
		Notice:  notice,
	}
}

// View handles GET /api/cart: a full authoritative read.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Cart.Fetch(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.payload(lines, nil))
}

// cartItemRequest is the JSON payload addressing one cart line variant.
type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Add handles POST /api/cart/items.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	notice, err := h.Cart.Add(r.Context(), req.ProductID, req.Size, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.payload(h.Cart.Lines(), notice))
}

// SetQuantity handles PUT /api/cart/items.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Cart.SetQuantity(r.Context(), req.ProductID, req.Quantity, req.Size, req.Color); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.payload(h.Cart.Lines(), nil))
}

// Remove handles DELETE /api/cart/items. The variant is addressed through
// query parameters: product_id, size, color.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product_id")
	if productID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	notice, err := h.Cart.Remove(r.Context(), productID, r.URL.Query().Get("size"), r.URL.Query().Get("color"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.payload(h.Cart.Lines(), notice))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Cart.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.payload(h.Cart.Lines(), nil))
}
