package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nhattran/retail_shop/internal/models"
)

// PlaceOrder converts the account's selected cart lines into an order inside
// one transaction: create the order, snapshot every product into a line item
// while accumulating the total, then delete the consumed cart rows. Any
// failure rolls the whole thing back, so a half-created order is never
// visible.
func (r *GormRepo) PlaceOrder(ctx context.Context, accountID uint, cartLineIDs []uint) (*models.Order, error) {
	var order models.Order

	err := r.transaction(ctx, func(tx *gorm.DB) error {
		var lines []models.CartLine
		if err := tx.Where("id IN ? AND account_id = ?", cartLineIDs, accountID).
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) != len(cartLineIDs) {
			return fmt.Errorf("%w: requested %d, resolved %d", ErrLinesUnresolved, len(cartLineIDs), len(lines))
		}

		order = models.Order{
			AccountID:  accountID,
			Status:     models.StatusPlaced,
			TotalPrice: decimal.Zero,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]models.OrderLineItem, 0, len(lines))
		for _, line := range lines {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %d", ErrProductNotFound, line.ProductID)
				}
				return err
			}

			item := models.OrderLineItem{
				OrderID:      order.ID,
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductPrice: product.Price,
				Image:        product.Image,
				Quantity:     line.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, item)
		}

		if err := tx.Model(&order).Update("total_price", total).Error; err != nil {
			return err
		}
		order.TotalPrice = total
		order.Items = items

		return tx.Where("id IN ? AND account_id = ?", cartLineIDs, accountID).
			Delete(&models.CartLine{}).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
		}
		return nil, translate(err)
	}
	return &order, nil
}

func (r *GormRepo) OrdersByAccount(ctx context.Context, accountID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

// AdvanceStatus moves an order along the status machine. Only the status and
// the update timestamp change; line items and the total are never touched.
func (r *GormRepo) AdvanceStatus(ctx context.Context, orderID uint, target models.OrderStatus) (*models.Order, error) {
	var order models.Order

	err := r.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
			}
			return err
		}
		if !order.Status.CanTransition(target) {
			return fmt.Errorf("%w: %s -> %s", ErrTransitionDenied, order.Status, target)
		}
		if err := tx.Model(&order).Update("status", target).Error; err != nil {
			return err
		}
		order.Status = target
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// DeleteOrder removes an order together with its line items. Administrative
// operation; nothing else ever deletes order rows.
func (r *GormRepo) DeleteOrder(ctx context.Context, orderID uint) error {
	err := r.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&models.Order{}, orderID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: id %d", ErrOrderNotFound, orderID)
		}
		return tx.Where("order_id = ?", orderID).Delete(&models.OrderLineItem{}).Error
	})
	return translate(err)
}

// ReceivedOrdersInYear returns the received orders created in the given year.
// Aggregation into monthly buckets happens in the service so the query stays
// portable across dialects.
func (r *GormRepo) ReceivedOrdersInYear(ctx context.Context, year int) ([]models.Order, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND created_at >= ? AND created_at < ?", models.StatusReceived, start, end).
		Find(&orders).Error; err != nil {
		return nil, translate(err)
	}
	return orders, nil
}
