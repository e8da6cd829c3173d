package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nhattran/retail_shop/internal/models"
)

// AddLine merges quantity into the account's existing line for the product,
// or creates one. The increment is a single UPDATE so two concurrent adds
// cannot both observe "no line yet"; a create that still loses the race hits
// the unique (account_id, product_id) index and the whole attempt is retried
// as a merge.
func (r *GormRepo) AddLine(ctx context.Context, accountID, productID, quantity uint) (*models.CartLine, error) {
	for attempt := 0; ; attempt++ {
		line, err := r.addLineOnce(ctx, accountID, productID, quantity)
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt == 0 {
			continue
		}
		if err != nil {
			return nil, translate(err)
		}
		return line, nil
	}
}

func (r *GormRepo) addLineOnce(ctx context.Context, accountID, productID, quantity uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&models.CartLine{}).
			Where("account_id = ? AND product_id = ?", accountID, productID).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("account_id = ? AND product_id = ?", accountID, productID).First(&line).Error
		}

		line = models.CartLine{
			AccountID: accountID,
			ProductID: productID,
			Quantity:  quantity,
			Active:    true,
		}
		return tx.Create(&line).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// AdjustLine applies a +1/-1 quantity change. Decrementing a line at quantity
// 1 deletes it instead of leaving a zero-quantity row; the returned flag
// reports that case.
func (r *GormRepo) AdjustLine(ctx context.Context, accountID, lineID uint, delta int) (*models.CartLine, bool, error) {
	var (
		line    models.CartLine
		deleted bool
	)

	err := r.transaction(ctx, func(tx *gorm.DB) error {
		if delta > 0 {
			res := tx.Model(&models.CartLine{}).
				Where("id = ? AND account_id = ?", lineID, accountID).
				Update("quantity", gorm.Expr("quantity + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: id %d", ErrCartLineNotFound, lineID)
			}
			return tx.Where("id = ?", lineID).First(&line).Error
		}

		res := tx.Where("id = ? AND account_id = ? AND quantity <= 1", lineID, accountID).
			Delete(&models.CartLine{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			deleted = true
			return nil
		}

		res = tx.Model(&models.CartLine{}).
			Where("id = ? AND account_id = ? AND quantity > 1", lineID, accountID).
			Update("quantity", gorm.Expr("quantity - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: id %d", ErrCartLineNotFound, lineID)
		}
		return tx.Where("id = ?", lineID).First(&line).Error
	})
	if err != nil {
		return nil, false, translate(err)
	}
	if deleted {
		return nil, true, nil
	}
	return &line, false, nil
}

func (r *GormRepo) RemoveLine(ctx context.Context, accountID, lineID uint) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND account_id = ?", lineID, accountID).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrCartLineNotFound, lineID)
	}
	return nil
}

// RemoveLines deletes every listed line still owned by the account and
// reports how many rows actually went away. Ids that no longer exist are
// skipped, not errors.
func (r *GormRepo) RemoveLines(ctx context.Context, accountID uint, lineIDs []uint) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("id IN ? AND account_id = ?", lineIDs, accountID).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GormRepo) CartLinesByAccount(ctx context.Context, accountID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.DB.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error; err != nil {
		return nil, translate(err)
	}
	return lines, nil
}
