package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/arvachan/solestore/internal/models"
	"github.com/arvachan/solestore/internal/variant"
)

// CartRepository defines the persistence operations required by the cart
// synchronizer. Every operation is scoped to one owning user.
type CartRepository interface {
	// LinesByUser fetches all lines owned by userID with catalog snapshots.
	LinesByUser(ctx context.Context, userID string) ([]models.CartLine, error)
	// FindLine fetches the line matching the variant key, or (nil, nil).
	FindLine(ctx context.Context, userID string, key variant.Key) (*models.CartLine, error)
	// InsertLine creates a new line with the given quantity.
	InsertLine(ctx context.Context, userID string, key variant.Key, quantity int) error
	// UpdateQuantity sets the quantity of the matching line.
	UpdateQuantity(ctx context.Context, userID string, key variant.Key, quantity int) error
	// DeleteLine removes the matching line.
	DeleteLine(ctx context.Context, userID string, key variant.Key) error
	// DeleteAllLines removes every line owned by userID.
	DeleteAllLines(ctx context.Context, userID string) error
}

// ProductReader provides the read-only catalog access the cart needs.
type ProductReader interface {
	// ProductByID fetches a catalog entry, or (nil, nil) when absent.
	ProductByID(ctx context.Context, id string) (*models.Product, error)
}

// IdentitySource reports the currently authenticated identity, if any.
type IdentitySource interface {
	Identity() *models.Identity
}

// CartService is the sole reader and writer of the current user's cart
// lines. Every mutation is a remote write trailed by a full refetch, so the
// client-visible line list is always the last successful remote read — local
// state is never patched and trusted as final.
//
// Mutations are serialized: one in-flight operation at a time, the rest
// blocked behind it. This closes the stale-read window a rapid
// double-increment would otherwise hit.
type CartService struct {
	repo     CartRepository
	products ProductReader
	session  IdentitySource
	log      *zap.Logger

	// mu serializes mutation-then-refetch sequences.
	mu sync.Mutex

	// viewMu guards the client-visible snapshot below.
	viewMu  sync.RWMutex
	lines   []models.CartLine
	loading bool
}

// NewCartService constructs a CartService bound to the given session.
func NewCartService(repo CartRepository, products ProductReader, session IdentitySource, log *zap.Logger) *CartService {
	return &CartService{repo: repo, products: products, session: session, log: log}
}

// OnSessionChange refreshes the cart for the new identity. The cart is
// user-scoped, so any session transition invalidates it; signed out means an
// empty cart.
func (c *CartService) OnSessionChange(ctx context.Context) {
	if _, err := c.Fetch(ctx); err != nil {
		c.log.Error("cart refresh after session change failed", zap.Error(err))
	}
}

// Fetch reads all lines owned by the current user and replaces the
// client-visible list entirely. With no session it yields an empty list.
func (c *CartService) Fetch(ctx context.Context) ([]models.CartLine, error) {
	user := c.session.Identity()
	if user == nil {
		c.replace(nil)
		return nil, nil
	}

	c.setLoading(true)
	defer c.setLoading(false)

	lines, err := c.repo.LinesByUser(ctx, user.ID)
	if err != nil {
		c.log.Error("cart fetch failed", zap.Error(err))
		return nil, models.E(models.KindRemoteFailure, "Failed to load cart items", err)
	}
	c.replace(lines)
	return lines, nil
}

// Add puts one unit of the product variant into the cart. If a line with the
// resolved key already exists this is a silent quantity increment; otherwise
// a new line with quantity 1 is created and acknowledged. Products that
// declare sizes require an explicit size.
func (c *CartService) Add(ctx context.Context, productID, size, color string) (*models.Notice, error) {
	user := c.session.Identity()
	if user == nil {
		return nil, models.E(models.KindUnauthenticated, "You need to login to add items to cart", nil)
	}

	product, err := c.products.ProductByID(ctx, productID)
	if err != nil {
		return nil, models.E(models.KindRemoteFailure, "Failed to add item to cart", err)
	}
	if product == nil {
		return nil, models.E(models.KindValidation, "Product not found", nil)
	}
	if size == "" && len(product.Sizes) > 0 {
		return nil, models.E(models.KindValidation, "Choose a size before adding to cart", nil)
	}

	key := variant.Resolve(productID, size, color)

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.repo.FindLine(ctx, user.ID, key)
	if err != nil {
		return nil, models.E(models.KindRemoteFailure, "Failed to add item to cart", err)
	}

	if existing != nil {
		// Same variant again: a silent quantity bump, like set-quantity.
		if err := c.repo.UpdateQuantity(ctx, user.ID, key, existing.Quantity+1); err != nil {
			return nil, models.E(models.KindRemoteFailure, "Failed to update quantity", err)
		}
		if _, err := c.refetch(ctx, user.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := c.repo.InsertLine(ctx, user.ID, key, 1); err != nil {
		return nil, models.E(models.KindRemoteFailure, "Failed to add item to cart", err)
	}
	if _, err := c.refetch(ctx, user.ID); err != nil {
		return nil, err
	}
	return &models.Notice{
		Title:       "Added to cart",
		Description: "Product has been added to your cart",
		Variant:     models.NoticeInfo,
	}, nil
}

// SetQuantity sets the quantity of the line matching the resolved variant
// key. Quantities below 1 are a silent no-op: decrementing to zero is not a
// remove path, callers must use Remove for that. The update is silent.
func (c *CartService) SetQuantity(ctx context.Context, productID string, quantity int, size, color string) error {
	user := c.session.Identity()
	if user == nil || quantity < 1 {
		return nil
	}

	key := variant.Resolve(productID, size, color)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repo.UpdateQuantity(ctx, user.ID, key, quantity); err != nil {
		return models.E(models.KindRemoteFailure, "Failed to update quantity", err)
	}
	_, err := c.refetch(ctx, user.ID)
	return err
}

// Remove deletes the line matching the resolved variant key. A no-op when
// signed out.
func (c *CartService) Remove(ctx context.Context, productID, size, color string) (*models.Notice, error) {
	user := c.session.Identity()
	if user == nil {
		return nil, nil
	}

	key := variant.Resolve(productID, size, color)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repo.DeleteLine(ctx, user.ID, key); err != nil {
		return nil, models.E(models.KindRemoteFailure, "Failed to remove item from cart", err)
	}
	if _, err := c.refetch(ctx, user.ID); err != nil {
		return nil, err
	}
	return &models.Notice{
		Title:       "Removed from cart",
		Description: "Product has been removed from your cart",
		Variant:     models.NoticeInfo,
	}, nil
}

// Clear deletes every line owned by the current user, silently. A no-op when
// signed out.
func (c *CartService) Clear(ctx context.Context) error {
	user := c.session.Identity()
	if user == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repo.DeleteAllLines(ctx, user.ID); err != nil {
		return models.E(models.KindRemoteFailure, "Failed to clear cart", err)
	}
	_, err := c.refetch(ctx, user.ID)
	return err
}

// Lines returns a copy of the client-visible line list.
func (c *CartService) Lines() []models.CartLine {
	c.viewMu.RLock()
	defer c.viewMu.RUnlock()
	lines := make([]models.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Loading reports whether a cart fetch is outstanding.
func (c *CartService) Loading() bool {
	c.viewMu.RLock()
	defer c.viewMu.RUnlock()
	return c.loading
}

// refetch reloads the user's lines and replaces the client view. Called with
// c.mu held, directly after a successful mutation.
func (c *CartService) refetch(ctx context.Context, userID string) ([]models.CartLine, error) {
	c.setLoading(true)
	defer c.setLoading(false)

	lines, err := c.repo.LinesByUser(ctx, userID)
	if err != nil {
		c.log.Error("cart refetch failed", zap.Error(err))
		return nil, models.E(models.KindRemoteFailure, "Failed to load cart items", err)
	}
	c.replace(lines)
	return lines, nil
}

// replace swaps in a fresh snapshot of the line list.
func (c *CartService) replace(lines []models.CartLine) {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	c.lines = lines
}

// setLoading flips the loading indicator.
func (c *CartService) setLoading(v bool) {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	c.loading = v
}

// Count is the total number of items across lines.
func Count(lines []models.CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}

// Total is the cart price across lines, quantity times unit price.
func Total(lines []models.CartLine) float64 {
	var sum float64
	for _, line := range lines {
		sum += float64(line.Quantity) * line.Product.Price
	}
	return sum
}
