package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterSpecification(t *testing.T) {
	gpu := &Product{ID: "g", Category: "gpu", Stock: 2}
	soldOut := &Product{ID: "s", Category: "gpu", Stock: 0}
	cpu := &Product{ID: "c", Category: "cpu", Stock: 5}

	tests := []struct {
		name   string
		filter Filter
		want   map[string]bool
	}{
		{"no filter", Filter{}, map[string]bool{"g": true, "s": true, "c": true}},
		{"category", Filter{Category: "gpu"}, map[string]bool{"g": true, "s": true, "c": false}},
		{"in stock", Filter{InStockOnly: true}, map[string]bool{"g": true, "s": false, "c": true}},
		{"both", Filter{Category: "gpu", InStockOnly: true}, map[string]bool{"g": true, "s": false, "c": false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := tt.filter.Specification()
			for _, p := range []*Product{gpu, soldOut, cpu} {
				assert.Equal(t, tt.want[p.ID], spec.IsSatisfiedBy(p), p.ID)
			}
		})
	}
}
