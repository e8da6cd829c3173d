package service

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nhattran/retail_shop/internal/models"
	"github.com/nhattran/retail_shop/internal/repo"
	"github.com/nhattran/retail_shop/pkg/db"
)

type testEnv struct {
	repo   *repo.GormRepo
	cart   *CartService
	orders *OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	r := &repo.GormRepo{DB: gdb}
	return &testEnv{
		repo:   r,
		cart:   &CartService{Repo: r, Catalog: r},
		orders: &OrderService{Repo: r},
	}
}

func (e *testEnv) seedProduct(t *testing.T, id uint, name, price string) models.Product {
	t.Helper()

	p := models.Product{
		ID:    id,
		Name:  name,
		Image: name + ".png",
		Price: decimal.RequireFromString(price),
		Count: 100,
	}
	require.NoError(t, e.repo.DB.Create(&p).Error)
	return p
}
