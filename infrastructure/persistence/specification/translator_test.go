package specification

import (
	"testing"

	"storefront/domain/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type product struct {
	ID       string
	Category string
	Stock    int
}

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Discard, DryRun: true})
	require.NoError(t, err)
	return db
}

func renderSQL(t *testing.T, db *gorm.DB, spec catalog.Specification) (string, []interface{}) {
	t.Helper()
	scope, err := NewGormTranslator().Translate(spec)
	require.NoError(t, err)
	stmt := db.Scopes(scope).Find(&[]product{}).Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestTranslate(t *testing.T) {
	db := newDryRunDB(t)

	tests := []struct {
		name     string
		spec     catalog.Specification
		wantSQL  string
		wantVars []interface{}
	}{
		{
			name:    "nil matches all",
			spec:    nil,
			wantSQL: "SELECT * FROM `products`",
		},
		{
			name:    "empty and matches all",
			spec:    catalog.And{},
			wantSQL: "SELECT * FROM `products`",
		},
		{
			name:     "category",
			spec:     catalog.ByCategory{Category: "gpu"},
			wantSQL:  "SELECT * FROM `products` WHERE category = ?",
			wantVars: []interface{}{"gpu"},
		},
		{
			name:     "category and stock",
			spec:     catalog.And{catalog.ByCategory{Category: "cpu"}, catalog.InStock{}},
			wantSQL:  "SELECT * FROM `products` WHERE category = ? AND stock > ?",
			wantVars: []interface{}{"cpu", 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, vars := renderSQL(t, db, tt.spec)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantVars != nil {
				assert.Equal(t, tt.wantVars, vars)
			}
		})
	}
}

type cheap struct{}

func (cheap) IsSatisfiedBy(p *catalog.Product) bool { return true }

func TestTranslate_Unsupported(t *testing.T) {
	tr := NewGormTranslator()

	_, err := tr.Translate(cheap{})
	assert.Error(t, err)

	_, err = tr.Translate(catalog.And{catalog.InStock{}, cheap{}})
	assert.Error(t, err)
}
