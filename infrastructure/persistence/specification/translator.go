// Package specification translates catalog specifications into GORM scopes.
package specification

import (
	"fmt"

	"storefront/domain/catalog"

	"gorm.io/gorm"
)

// Scope a GORM query refinement.
type Scope func(*gorm.DB) *gorm.DB

// Translator converts domain specifications to GORM queries.
type Translator interface {
	Translate(spec catalog.Specification) (Scope, error)
}

// GormTranslator implements Translator for the products table.
type GormTranslator struct{}

func NewGormTranslator() *GormTranslator {
	return &GormTranslator{}
}

// Translate returns an error for specifications with no SQL form, so a
// repository never silently widens a query.
func (t *GormTranslator) Translate(spec catalog.Specification) (Scope, error) {
	switch s := spec.(type) {
	case nil:
		return identity, nil
	case catalog.And:
		return t.translateAnd(s)
	case catalog.ByCategory:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("category = ?", s.Category)
		}, nil
	case catalog.InStock:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("stock > ?", 0)
		}, nil
	default:
		return nil, fmt.Errorf("specification %T has no SQL translation", spec)
	}
}

func (t *GormTranslator) translateAnd(and catalog.And) (Scope, error) {
	scopes := make([]Scope, 0, len(and))
	for _, member := range and {
		scope, err := t.Translate(member)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, scope)
	}
	return func(db *gorm.DB) *gorm.DB {
		for _, scope := range scopes {
			db = scope(db)
		}
		return db
	}, nil
}

func identity(db *gorm.DB) *gorm.DB { return db }

var _ Translator = (*GormTranslator)(nil)
