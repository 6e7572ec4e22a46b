package catalog

// Specification a product predicate. The memory store evaluates it directly;
// SQL stores translate it into a query.
type Specification interface {
	IsSatisfiedBy(p *Product) bool
}

// ByCategory products of one category.
type ByCategory struct {
	Category string
}

func (s ByCategory) IsSatisfiedBy(p *Product) bool { return p.Category == s.Category }

// InStock products that can currently be bought.
type InStock struct{}

func (InStock) IsSatisfiedBy(p *Product) bool { return p.Available() }

// And matches when every member matches; the empty And matches everything.
type And []Specification

func (a And) IsSatisfiedBy(p *Product) bool {
	for _, spec := range a {
		if !spec.IsSatisfiedBy(p) {
			return false
		}
	}
	return true
}

// Specification the predicate part of the filter.
func (f Filter) Specification() Specification {
	spec := And{}
	if f.Category != "" {
		spec = append(spec, ByCategory{Category: f.Category})
	}
	if f.InStockOnly {
		spec = append(spec, InStock{})
	}
	return spec
}
