package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/catalog"
	"github.com/koryushka0/shopfront/internal/config"
	"github.com/koryushka0/shopfront/internal/store"
)

// catalog-check validates the catalog file and reports persisted cart
// lines that reference products the catalog no longer knows. It never
// mutates state; the engine prunes dangling lines itself on startup.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := zap.NewNop()

	cat, err := catalog.LoadFile(cfg.CatalogFile, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Catalog file is invalid: %v\n", err)
		os.Exit(1)
	}

	products := cat.All()
	fmt.Printf("Catalog OK: %d products (%s)\n", len(products), cfg.CatalogFile)

	seen := make(map[int]bool, len(products))
	for _, p := range products {
		if seen[p.ID] {
			fmt.Printf("  duplicate product id: %d (%s)\n", p.ID, p.Name)
		}
		seen[p.ID] = true
		if p.Price < 0 {
			fmt.Printf("  negative price on product %d (%s)\n", p.ID, p.Name)
		}
	}

	st := store.Open(cfg.StateFile, logger)
	dangling := 0
	for _, line := range st.LoadCart() {
		if _, ok := cat.Lookup(line.ProductID); !ok {
			fmt.Printf("  cart line references unknown product %d (quantity %d)\n",
				line.ProductID, line.Quantity)
			dangling++
		}
	}

	if dangling > 0 {
		fmt.Printf("%d dangling cart line(s); they will be pruned on next startup\n", dangling)
		os.Exit(1)
	}
	fmt.Println("Cart state OK")
}
