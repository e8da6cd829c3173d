package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nhattran/retail_shop/internal/models"
)

// GetProduct is the catalog lookup: current name, price, description and
// image for one product id.
func (r *GormRepo) GetProduct(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
		}
		return nil, translate(err)
	}
	return &product, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var products []models.Product
	if err := r.DB.WithContext(ctx).
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, translate(err)
	}
	return products, total, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return translate(r.DB.WithContext(ctx).Create(product).Error)
}

func (r *GormRepo) SaveProduct(ctx context.Context, product *models.Product) error {
	return translate(r.DB.WithContext(ctx).Save(product).Error)
}

// DeleteProduct removes a product from the live catalog. Historic order line
// items keep their snapshots; existing cart lines keep referencing the id and
// surface without product data on the next read.
func (r *GormRepo) DeleteProduct(ctx context.Context, productID uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, productID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	return nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	return translate(r.DB.WithContext(ctx).Create(category).Error)
}

func (r *GormRepo) DeleteCategory(ctx context.Context, categoryID uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, categoryID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrCategoryNotFound, categoryID)
	}
	return nil
}
