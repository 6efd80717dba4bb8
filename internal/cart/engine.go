package cart

import (
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/catalog"
	"github.com/koryushka0/shopfront/internal/domain"
	"github.com/koryushka0/shopfront/internal/store"
	"github.com/koryushka0/shopfront/pkg/errors"
)

// QuantityDirection adjusts a cart line by one.
type QuantityDirection string

const (
	QuantityIncrease QuantityDirection = "increase"
	QuantityDecrease QuantityDirection = "decrease"
)

// IsValid checks if the direction is valid.
func (d QuantityDirection) IsValid() bool {
	return d == QuantityIncrease || d == QuantityDecrease
}

// Engine owns the cart and wishlist state. Every mutation persists through
// the store before returning, so a subsequent read always observes the
// latest write.
type Engine struct {
	mu       sync.Mutex
	store    *store.Store
	catalog  *catalog.Catalog
	lines    []domain.CartLine
	wishlist domain.Wishlist
	logger   *zap.Logger
}

// NewEngine loads the persisted state and prunes cart lines whose product
// no longer resolves in the catalog; the pruned cart is re-saved once
// rather than carrying dead lines forever.
func NewEngine(st *store.Store, cat *catalog.Catalog, logger *zap.Logger) *Engine {
	e := &Engine{
		store:    st,
		catalog:  cat,
		lines:    st.LoadCart(),
		wishlist: st.LoadWishlist(),
		logger:   logger,
	}

	kept := e.lines[:0:0]
	for _, line := range e.lines {
		if _, ok := cat.Lookup(line.ProductID); ok {
			kept = append(kept, line)
		} else {
			logger.Warn("Dropping cart line for unknown product",
				zap.Int("product_id", line.ProductID),
			)
		}
	}
	if len(kept) != len(e.lines) {
		e.lines = kept
		st.SaveCart(e.lines)
	}
	return e
}

// Add merges the product into the cart: an existing line gains one unit,
// otherwise a new selected quantity-1 line is appended.
func (e *Engine) Add(productID int) error {
	if _, ok := e.catalog.Lookup(productID); !ok {
		return &errors.ErrNotFound{Resource: "product", ID: strconv.Itoa(productID)}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lines {
		if e.lines[i].ProductID == productID {
			e.lines[i].Quantity++
			e.persistLocked()
			return nil
		}
	}
	e.lines = append(e.lines, domain.CartLine{ProductID: productID, Quantity: 1, Selected: true})
	e.persistLocked()
	return nil
}

// Remove deletes the line unconditionally.
func (e *Engine) Remove(productID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(productID)
	e.persistLocked()
}

// ChangeQuantity adjusts a line by one unit. Increase has no upper bound;
// decrease removes the line entirely when the quantity was already 1.
func (e *Engine) ChangeQuantity(productID int, direction QuantityDirection) error {
	if !direction.IsValid() {
		return &errors.ErrValidation{Fields: map[string]string{
			"direction": "must be increase or decrease",
		}}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lines {
		if e.lines[i].ProductID != productID {
			continue
		}
		if direction == QuantityIncrease {
			e.lines[i].Quantity++
		} else if e.lines[i].Quantity > 1 {
			e.lines[i].Quantity--
		} else {
			e.removeLocked(productID)
		}
		e.persistLocked()
		return nil
	}
	return &errors.ErrNotFound{Resource: "cart line", ID: strconv.Itoa(productID)}
}

// SetSelected toggles one line's selection flag.
func (e *Engine) SetSelected(productID int, selected bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lines {
		if e.lines[i].ProductID == productID {
			e.lines[i].Selected = selected
			e.persistLocked()
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "cart line", ID: strconv.Itoa(productID)}
}

// SetAllSelected applies the bulk select-all checkbox to every line.
func (e *Engine) SetAllSelected(selected bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lines {
		e.lines[i].Selected = selected
	}
	e.persistLocked()
}

// ToggleWishlist flips set membership and returns the new state:
// true when the product is now in the wishlist.
func (e *Engine) ToggleWishlist(productID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, id := range e.wishlist {
		if id == productID {
			e.wishlist = append(e.wishlist[:i], e.wishlist[i+1:]...)
			e.store.SaveWishlist(e.wishlist)
			return false
		}
	}
	e.wishlist = append(e.wishlist, productID)
	e.store.SaveWishlist(e.wishlist)
	return true
}

// Lines returns a copy of the cart.
func (e *Engine) Lines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.CartLine, len(e.lines))
	copy(out, e.lines)
	return out
}

// WishlistIDs returns a copy of the wishlist.
func (e *Engine) WishlistIDs() domain.Wishlist {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(domain.Wishlist, len(e.wishlist))
	copy(out, e.wishlist)
	return out
}

// SelectedLines returns only the selected cart lines.
func (e *Engine) SelectedLines() []domain.CartLine {
	var out []domain.CartLine
	for _, line := range e.Lines() {
		if line.Selected {
			out = append(out, line)
		}
	}
	return out
}

// RemoveSelected deletes every selected line, leaving unselected lines
// intact, and persists the reduced cart. Called after a successful order.
func (e *Engine) RemoveSelected() {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.lines[:0:0]
	for _, line := range e.lines {
		if !line.Selected {
			kept = append(kept, line)
		}
	}
	e.lines = kept
	e.persistLocked()
}

// Summary recomputes the derived totals over the selected lines. Lines
// whose product is missing from the catalog are skipped. A weight detail
// that is absent or unparsable counts as zero.
func (e *Engine) Summary(method domain.DeliveryMethod) domain.CartSummary {
	e.mu.Lock()
	lines := make([]domain.CartLine, len(e.lines))
	copy(lines, e.lines)
	e.mu.Unlock()

	s := domain.CartSummary{AllSelected: len(lines) > 0}
	for _, line := range lines {
		if !line.Selected {
			s.AllSelected = false
			continue
		}
		product, ok := e.catalog.Lookup(line.ProductID)
		if !ok {
			continue
		}
		s.ItemCount += line.Quantity
		s.Subtotal += product.Price * line.Quantity
		if weight, err := strconv.ParseFloat(product.Details[domain.WeightDetail], 64); err == nil {
			s.WeightGrams += weight * float64(line.Quantity)
		}
	}

	s.DeliveryCost = DeliveryCost(method, s.Subtotal)
	s.Total = s.Subtotal + s.DeliveryCost
	return s
}

// DeliveryCost applies the flat courier fee below the free-delivery
// threshold; pickup is always free.
func DeliveryCost(method domain.DeliveryMethod, subtotal int) int {
	if method == domain.DeliveryCourier && subtotal < domain.FreeDeliveryThreshold {
		return domain.DeliveryFee
	}
	return 0
}

// Counts returns the header badge numbers: total units across all cart
// lines regardless of selection, and wishlist size.
func (e *Engine) Counts() (cartItems, wishlistItems int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, line := range e.lines {
		cartItems += line.Quantity
	}
	return cartItems, len(e.wishlist)
}

func (e *Engine) removeLocked(productID int) {
	kept := e.lines[:0:0]
	for _, line := range e.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	e.lines = kept
}

func (e *Engine) persistLocked() {
	e.store.SaveCart(e.lines)
}
