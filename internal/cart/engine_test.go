package cart

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/catalog"
	"github.com/koryushka0/shopfront/internal/domain"
	"github.com/koryushka0/shopfront/internal/store"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]domain.Product{
		{ID: 1, Name: "Folding Knife", Price: 1200, Details: map[string]string{domain.WeightDetail: "150"}},
		{ID: 2, Name: "Spinning Rod", Price: 4500, Details: map[string]string{domain.WeightDetail: "300"}},
		{ID: 3, Name: "Camp Stove", Price: 2500, Details: map[string]string{domain.WeightDetail: "not-a-number"}},
		{ID: 4, Name: "Sticker", Price: 50},
	}, zap.NewNop())
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	st := store.Open(filepath.Join(t.TempDir(), "state.json"), zap.NewNop())
	return NewEngine(st, testCatalog(), zap.NewNop())
}

func TestAdd_MergesByProduct(t *testing.T) {
	e := testEngine(t)
	if err := e.Add(1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := e.Add(1); err != nil {
		t.Fatalf("Add: %v", err)
	}

	lines := e.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 || !lines[0].Selected {
		t.Fatalf("unexpected line: %+v", lines[0])
	}
}

func TestAdd_UnknownProduct(t *testing.T) {
	e := testEngine(t)
	if err := e.Add(99); err == nil {
		t.Fatal("expected error for unknown product")
	}
}

func TestChangeQuantity_DecreaseRemovesAtOne(t *testing.T) {
	e := testEngine(t)
	e.Add(1)

	if err := e.ChangeQuantity(1, QuantityDecrease); err != nil {
		t.Fatalf("ChangeQuantity: %v", err)
	}
	if lines := e.Lines(); len(lines) != 0 {
		t.Fatalf("expected empty cart, got %v", lines)
	}
}

func TestChangeQuantity_NeverBelowOne(t *testing.T) {
	e := testEngine(t)
	e.Add(1)
	e.Add(1)
	e.ChangeQuantity(1, QuantityDecrease)
	e.ChangeQuantity(1, QuantityIncrease)
	e.ChangeQuantity(1, QuantityIncrease)

	for _, line := range e.Lines() {
		if line.Quantity <= 0 {
			t.Fatalf("cart contains non-positive quantity: %+v", line)
		}
	}
	if lines := e.Lines(); lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}
}

func TestChangeQuantity_MissingLine(t *testing.T) {
	e := testEngine(t)
	if err := e.ChangeQuantity(1, QuantityIncrease); err == nil {
		t.Fatal("expected error for missing line")
	}
}

func TestToggleWishlist_DoubleToggleRestores(t *testing.T) {
	e := testEngine(t)
	if !e.ToggleWishlist(2) {
		t.Fatal("first toggle should add")
	}
	if !e.WishlistIDs().Contains(2) {
		t.Fatal("expected membership after first toggle")
	}
	if e.ToggleWishlist(2) {
		t.Fatal("second toggle should remove")
	}
	if len(e.WishlistIDs()) != 0 {
		t.Fatal("expected empty wishlist after double toggle")
	}
}

func TestSelection(t *testing.T) {
	e := testEngine(t)
	e.Add(1)
	e.Add(2)

	if err := e.SetSelected(1, false); err != nil {
		t.Fatalf("SetSelected: %v", err)
	}
	if s := e.Summary(domain.DeliveryPickup); s.AllSelected {
		t.Fatal("partial selection must not report all-selected")
	}

	e.SetAllSelected(true)
	if s := e.Summary(domain.DeliveryPickup); !s.AllSelected {
		t.Fatal("expected all-selected after bulk set")
	}

	e.SetAllSelected(false)
	for _, line := range e.Lines() {
		if line.Selected {
			t.Fatalf("expected no selected lines, got %+v", line)
		}
	}
}

func TestSummary_SelectedOnly(t *testing.T) {
	e := testEngine(t)
	e.Add(1) // 1200, 150 g
	e.Add(1)
	e.Add(2) // 4500, 300 g
	e.SetSelected(2, false)

	s := e.Summary(domain.DeliveryPickup)
	if s.ItemCount != 2 {
		t.Fatalf("expected 2 items, got %d", s.ItemCount)
	}
	if s.Subtotal != 2400 {
		t.Fatalf("expected subtotal 2400, got %d", s.Subtotal)
	}
	if s.WeightGrams != 300 {
		t.Fatalf("expected 300 g, got %v", s.WeightGrams)
	}
}

func TestSummary_UnparsableWeightCountsZero(t *testing.T) {
	e := testEngine(t)
	e.Add(3) // weight not a number
	e.Add(4) // no details at all

	if s := e.Summary(domain.DeliveryPickup); s.WeightGrams != 0 {
		t.Fatalf("expected zero weight, got %v", s.WeightGrams)
	}
}

func TestDeliveryCost(t *testing.T) {
	cases := []struct {
		method   domain.DeliveryMethod
		subtotal int
		want     int
	}{
		{domain.DeliveryCourier, 4999, 300},
		{domain.DeliveryCourier, 5000, 0},
		{domain.DeliveryCourier, 5001, 0},
		{domain.DeliveryPickup, 4999, 0},
		{domain.DeliveryPickup, 5000, 0},
	}
	for _, tc := range cases {
		if got := DeliveryCost(tc.method, tc.subtotal); got != tc.want {
			t.Fatalf("%s/%d: expected %d, got %d", tc.method, tc.subtotal, tc.want, got)
		}
	}
}

func TestRemoveSelected_KeepsUnselected(t *testing.T) {
	e := testEngine(t)
	e.Add(1)
	e.Add(2)
	e.Add(3)
	e.SetSelected(2, false)

	e.RemoveSelected()

	lines := e.Lines()
	if len(lines) != 1 || lines[0].ProductID != 2 {
		t.Fatalf("expected only the unselected line to survive, got %v", lines)
	}
}

func TestNewEngine_PurgesDanglingLines(t *testing.T) {
	st := store.Open(filepath.Join(t.TempDir(), "state.json"), zap.NewNop())
	st.SaveCart([]domain.CartLine{
		{ProductID: 1, Quantity: 1, Selected: true},
		{ProductID: 99, Quantity: 2, Selected: true}, // not in the catalog
	})

	e := NewEngine(st, testCatalog(), zap.NewNop())
	lines := e.Lines()
	if len(lines) != 1 || lines[0].ProductID != 1 {
		t.Fatalf("expected dangling line purged, got %v", lines)
	}
	if persisted := st.LoadCart(); len(persisted) != 1 {
		t.Fatalf("expected pruned cart re-saved, got %v", persisted)
	}
}

func TestNewEngine_LegacyCartUpgrade(t *testing.T) {
	st := store.Open(filepath.Join(t.TempDir(), "state.json"), zap.NewNop())
	st.Save(store.KeyCart, []int{1, 2, 3})

	e := NewEngine(st, testCatalog(), zap.NewNop())
	lines := e.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 upgraded lines, got %v", lines)
	}
	for _, line := range lines {
		if line.Quantity != 1 || !line.Selected {
			t.Fatalf("unexpected upgraded line: %+v", line)
		}
	}
}

func TestCounts_IgnoreSelection(t *testing.T) {
	e := testEngine(t)
	e.Add(1)
	e.Add(1)
	e.Add(2)
	e.SetSelected(2, false)
	e.ToggleWishlist(3)

	cartItems, wishlistItems := e.Counts()
	if cartItems != 3 {
		t.Fatalf("expected 3 cart items, got %d", cartItems)
	}
	if wishlistItems != 1 {
		t.Fatalf("expected 1 wishlist item, got %d", wishlistItems)
	}
}
