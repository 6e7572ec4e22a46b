package mysql

import (
	"context"
	"errors"

	"storefront/domain/catalog"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/mysql/po"
	"storefront/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

const defaultProductPageSize = 50

// ProductRepository read-only catalog access over the products table.
type ProductRepository struct {
	db         *gorm.DB
	translator specification.Translator
}

// NewProductRepository Create product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db, translator: specification.NewGormTranslator()}
}

func (r *ProductRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindProduct resolves a product id to its current state.
func (r *ProductRepository) FindProduct(ctx context.Context, productID string) (*catalog.Product, error) {
	var productPO po.ProductPO
	if err := r.getDB(ctx).Where("id = ?", productID).First(&productPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NewProductNotFoundError(productID)
		}
		return nil, err
	}
	return productPO.ToDomain(), nil
}

// List returns products matching the filter, ordered by name.
func (r *ProductRepository) List(ctx context.Context, filter catalog.Filter) ([]*catalog.Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultProductPageSize
	}

	scope, err := r.translator.Translate(filter.Specification())
	if err != nil {
		return nil, err
	}
	query := r.getDB(ctx).Model(&po.ProductPO{}).Scopes(scope)

	var productPOs []po.ProductPO
	if err := query.Order("name ASC").Limit(limit).Offset(filter.Offset).Find(&productPOs).Error; err != nil {
		return nil, err
	}

	products := make([]*catalog.Product, len(productPOs))
	for i := range productPOs {
		products[i] = productPOs[i].ToDomain()
	}
	return products, nil
}

// Compile-time interface implementation check
var _ catalog.Repository = (*ProductRepository)(nil)
