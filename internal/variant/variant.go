// Package variant derives the canonical identity of a cart line from a
// product and its selected size and color.
package variant

const (
	// DefaultSize is substituted when no size was chosen.
	DefaultSize = "One Size"
	// DefaultColor is substituted when no color was chosen.
	DefaultColor = "Default"
)

// Key uniquely identifies one cart line for a user. Size and Color are never
// empty: an omitted selection and an explicit default selection resolve to
// the same key.
type Key struct {
	ProductID string
	Size      string
	Color     string
}

// Resolve normalizes the (product, size, color) triple into a Key,
// substituting the defaults for omitted size or color.
func Resolve(productID, size, color string) Key {
	if size == "" {
		size = DefaultSize
	}
	if color == "" {
		color = DefaultColor
	}
	return Key{ProductID: productID, Size: size, Color: color}
}
