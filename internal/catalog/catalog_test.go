package catalog

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/domain"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Folding Knife", Price: 1200, Category: "knives"},
		{ID: 2, Name: "Spinning Rod", Price: 4500, Category: "fishing"},
		{ID: 3, Name: "Fillet Knife", Price: 900, Category: "knives"},
		{ID: 4, Name: "Thermal Jacket", Price: 7800, Category: "clothing"},
	}
}

func TestLookup(t *testing.T) {
	c := New(testProducts(), zap.NewNop())
	p, ok := c.Lookup(2)
	if !ok || p.Name != "Spinning Rod" {
		t.Fatalf("unexpected lookup result: %+v, %v", p, ok)
	}
	if _, ok := c.Lookup(99); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestFind_CategoryAndPriceRange(t *testing.T) {
	c := New(testProducts(), zap.NewNop())
	min, max := 1000, 5000
	got := c.Find(Query{Category: "knives", MinPrice: &min, MaxPrice: &max})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected result: %v", got)
	}

	// "all" is the no-filter category.
	if got := c.Find(Query{Category: "all"}); len(got) != 4 {
		t.Fatalf("expected all products, got %d", len(got))
	}
}

func TestFind_Sort(t *testing.T) {
	c := New(testProducts(), zap.NewNop())

	asc := c.Find(Query{SortBy: SortPriceAsc})
	if asc[0].ID != 3 || asc[len(asc)-1].ID != 4 {
		t.Fatalf("unexpected price-asc order: %v", asc)
	}

	desc := c.Find(Query{SortBy: SortPriceDesc})
	if desc[0].ID != 4 {
		t.Fatalf("unexpected price-desc order: %v", desc)
	}

	byName := c.Find(Query{SortBy: SortNameAsc})
	if byName[0].Name != "Fillet Knife" {
		t.Fatalf("unexpected name order: %v", byName)
	}
}

func TestFind_SearchIsCaseInsensitive(t *testing.T) {
	c := New(testProducts(), zap.NewNop())
	got := c.Find(Query{Search: "KNIFE"})
	if len(got) != 2 {
		t.Fatalf("expected 2 knife matches, got %v", got)
	}
}

func TestSuggest(t *testing.T) {
	c := New(testProducts(), zap.NewNop())

	if got, total := c.Suggest("k"); got != nil || total != 0 {
		t.Fatalf("short query should yield nothing, got %v (%d)", got, total)
	}

	got, total := c.Suggest("knife")
	if total != 2 || len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v (%d)", got, total)
	}
}

func TestSuggest_CapsAtLimit(t *testing.T) {
	products := make([]domain.Product, 0, SuggestionLimit+3)
	for i := 0; i < SuggestionLimit+3; i++ {
		products = append(products, domain.Product{ID: i + 1, Name: "Camp Lantern"})
	}
	c := New(products, zap.NewNop())

	got, total := c.Suggest("lantern")
	if len(got) != SuggestionLimit {
		t.Fatalf("expected %d suggestions, got %d", SuggestionLimit, len(got))
	}
	if total != SuggestionLimit+3 {
		t.Fatalf("expected total %d, got %d", SuggestionLimit+3, total)
	}
}

func TestDebouncer_LatestWins(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var calls []int

	for i := 1; i <= 3; i++ {
		i := i
		d.Trigger(func() {
			mu.Lock()
			calls = append(calls, i)
			mu.Unlock()
		})
	}

	time.Sleep(120 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != 3 {
		t.Fatalf("expected only the last trigger to fire, got %v", calls)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	fired := make(chan struct{}, 1)
	d.Trigger(func() { fired <- struct{}{} })
	d.Stop()

	select {
	case <-fired:
		t.Fatal("stopped debouncer must not fire")
	case <-time.After(80 * time.Millisecond):
	}
}
