package repo

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nhattran/retail_shop/internal/models"
	"github.com/nhattran/retail_shop/pkg/db"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	// sqlite has no isolation levels to pick from
	return &GormRepo{DB: gdb}
}

func seedProduct(t *testing.T, r *GormRepo, name, price string) models.Product {
	t.Helper()

	p := models.Product{
		Name:        name,
		Description: name + " description",
		Image:       name + ".png",
		Price:       decimal.RequireFromString(price),
		Count:       100,
	}
	require.NoError(t, r.DB.Create(&p).Error)
	return p
}

func seedProductWithID(t *testing.T, r *GormRepo, id uint, name, price string) models.Product {
	t.Helper()

	p := models.Product{
		ID:    id,
		Name:  name,
		Image: name + ".png",
		Price: decimal.RequireFromString(price),
		Count: 100,
	}
	require.NoError(t, r.DB.Create(&p).Error)
	return p
}

func countRows(t *testing.T, r *GormRepo, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, r.DB.Model(model).Count(&n).Error)
	return n
}
