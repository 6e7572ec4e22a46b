package po

import (
	"time"

	"storefront/domain/catalog"
	"storefront/domain/shared"

	"github.com/shopspring/decimal"
)

// ProductPO catalog row. Owned by the catalog; this service only reads it.
type ProductPO struct {
	ID          string          `gorm:"primaryKey;size:64"`
	Name        string          `gorm:"size:255;not null"`
	Category    string          `gorm:"size:32;index;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"size:3;not null"`
	Stock       int             `gorm:"not null;default:0"`
	SellerID    string          `gorm:"size:64;index"`
	ImageURL    string          `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName Specify table name
func (ProductPO) TableName() string {
	return "products"
}

// ToDomain Convert to the catalog read model
func (po *ProductPO) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:          po.ID,
		Name:        po.Name,
		Category:    po.Category,
		Description: po.Description,
		ImageURL:    po.ImageURL,
		Price:       shared.NewMoney(po.Price, po.Currency),
		Stock:       po.Stock,
	}
}

// FromProductDomain Convert a catalog product, used for seeding tests and fixtures
func FromProductDomain(p *catalog.Product) *ProductPO {
	return &ProductPO{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price.Amount(),
		Currency:    p.Price.Currency(),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
	}
}
