package memory

import (
	"context"
	"sort"

	"storefront/domain/catalog"
	"storefront/domain/shared"
)

// ProductRepository catalog backed by the store.
type ProductRepository struct {
	store *Store
}

// NewProductRepository creates a product repository over store.
func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

// Put inserts or replaces products.
func (r *ProductRepository) Put(products ...catalog.Product) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range products {
		r.store.products[p.ID] = p
	}
}

// Remove delists products; unknown ids are ignored.
func (r *ProductRepository) Remove(productIDs ...string) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, id := range productIDs {
		delete(r.store.products, id)
	}
}

// FindProduct returns a copy of the stored product.
func (r *ProductRepository) FindProduct(ctx context.Context, productID string) (*catalog.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[productID]
	if !ok {
		return nil, catalog.NewProductNotFoundError(productID)
	}
	return &p, nil
}

// List ordered by name.
func (r *ProductRepository) List(ctx context.Context, filter catalog.Filter) ([]*catalog.Product, error) {
	spec := filter.Specification()
	r.store.mu.RLock()
	products := make([]*catalog.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		p := p
		if spec.IsSatisfiedBy(&p) {
			products = append(products, &p)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(products, func(i, j int) bool {
		if products[i].Name == products[j].Name {
			return products[i].ID < products[j].ID
		}
		return products[i].Name < products[j].Name
	})

	if filter.Offset >= len(products) {
		return []*catalog.Product{}, nil
	}
	products = products[filter.Offset:]
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// SeedProducts demo catalog for the mock database mode.
func SeedProducts(currency string) []catalog.Product {
	price := func(s string) shared.Money { return shared.MustParseMoney(s, currency) }
	return []catalog.Product{
		{ID: "gpu-rtx4070", Name: "GeForce RTX 4070", Category: "gpu", Description: "12GB GDDR6X", Price: price("549.99"), Stock: 12},
		{ID: "gpu-rx7800", Name: "Radeon RX 7800 XT", Category: "gpu", Description: "16GB GDDR6", Price: price("499.99"), Stock: 8},
		{ID: "cpu-r7-7800x3d", Name: "Ryzen 7 7800X3D", Category: "cpu", Description: "8 cores, AM5", Price: price("449.00"), Stock: 20},
		{ID: "cpu-i5-14600k", Name: "Core i5-14600K", Category: "cpu", Description: "14 cores, LGA1700", Price: price("319.99"), Stock: 15},
		{ID: "ram-ddr5-32", Name: "DDR5-6000 32GB Kit", Category: "ram", Description: "2x16GB CL30", Price: price("109.99"), Stock: 40},
		{ID: "mb-b650", Name: "B650 ATX Motherboard", Category: "motherboard", Description: "AM5, PCIe 4.0", Price: price("189.99"), Stock: 10},
		{ID: "ssd-2tb", Name: "NVMe SSD 2TB", Category: "storage", Description: "PCIe 4.0 x4", Price: price("129.99"), Stock: 30},
		{ID: "psu-850", Name: "850W 80+ Gold PSU", Category: "psu", Description: "Fully modular", Price: price("119.99"), Stock: 18},
		{ID: "case-mid", Name: "Mid Tower Airflow Case", Category: "case", Description: "Mesh front panel", Price: price("89.99"), Stock: 9},
		{ID: "kb-tkl", Name: "TKL Mechanical Keyboard", Category: "peripherals", Description: "Hot-swap switches", Price: price("79.99"), Stock: 0},
	}
}

var _ catalog.Repository = (*ProductRepository)(nil)
