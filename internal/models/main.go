// Package models defines the core data structures for the storefront:
// identities, profiles, catalog products, cart lines, and user notices.
package models

// Role identifies the access level granted to a profile.
type Role string

const (
	// RoleCustomer is the default role assigned to every new profile.
	RoleCustomer Role = "customer"
	// RoleAdmin grants access to admin-only views.
	RoleAdmin Role = "admin"
)

// Identity is the opaque authenticated-user handle issued by the identity
// provider. It is absent (nil) for anonymous visitors.
type Identity struct {
	// ID is the provider-assigned user identifier.
	ID string `json:"id"`
	// Email is the address the identity was registered with.
	Email string `json:"email"`
}

// Profile is the application-owned record backing an identity.
// It is only ever populated for an existing identity.
type Profile struct {
	// ID matches the identity ID of the owning user.
	ID string `json:"id"`
	// Email mirrors the identity email.
	Email string `json:"email"`
	// FullName is the optional display name chosen at sign-up.
	FullName string `json:"full_name"`
	// Role determines which views the user may reach.
	Role Role `json:"role"`
}

// Product is a catalog entry. The catalog is read-only shared state from the
// storefront's perspective.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category"`
	// Sizes lists the selectable sizes. Empty means the product is one-size.
	Sizes []string `json:"sizes"`
	// Colors lists the selectable colors. Empty means a single default color.
	Colors []string `json:"colors"`
}

// ProductSnapshot is the denormalized catalog data attached to a cart line at
// read time. It is owned by the catalog, not the cart.
type ProductSnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

// CartLine is one row of a user's cart. Its natural key is the
// (user, product, size, color) tuple, not the row ID.
type CartLine struct {
	// ID is the store-assigned row identifier.
	ID string `json:"id"`
	// ProductID references the catalog entry.
	ProductID string `json:"product_id"`
	// Quantity is always at least 1.
	Quantity int `json:"quantity"`
	// SelectedSize is never empty; unset sizes are normalized to "One Size".
	SelectedSize string `json:"selected_size"`
	// SelectedColor is never empty; unset colors are normalized to "Default".
	SelectedColor string `json:"selected_color"`
	// Product is the catalog snapshot for display and pricing.
	Product ProductSnapshot `json:"products"`
}

// NoticeVariant selects the presentation of a user notice.
type NoticeVariant string

const (
	// NoticeInfo is the default acknowledgment style.
	NoticeInfo NoticeVariant = "default"
	// NoticeDestructive marks an error acknowledgment.
	NoticeDestructive NoticeVariant = "destructive"
)

// Notice is a transient user-facing acknowledgment surfaced after an
// operation, e.g. "Added to cart".
type Notice struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Variant     NoticeVariant `json:"variant"`
}
