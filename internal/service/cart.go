package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhattran/retail_shop/internal/models"
	"github.com/nhattran/retail_shop/internal/repo"
	"github.com/nhattran/retail_shop/internal/transport"
)

// CatalogLookup is the read-only product source the cart validates and
// enriches against.
type CatalogLookup interface {
	GetProduct(ctx context.Context, productID uint) (*models.Product, error)
}

type CartService struct {
	Repo    *repo.GormRepo
	Catalog CatalogLookup
}

// AddItem puts quantity of a product into the account's cart, merging into an
// existing line for the same product rather than duplicating it.
func (s *CartService) AddItem(ctx context.Context, accountID, productID, quantity uint) (*models.CartLine, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product id required", ErrInvalidRequest)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidRequest)
	}

	if _, err := s.Catalog.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}

	line, err := s.Repo.AddLine(ctx, accountID, productID, quantity)
	if err != nil {
		if errors.Is(err, repo.ErrSerialization) {
			return nil, fmt.Errorf("%w: concurrent cart update", ErrConflict)
		}
		return nil, fmt.Errorf("add cart line: %w", err)
	}
	return line, nil
}

// AdjustQuantity applies a single +1/-1 step to a line. A -1 at quantity 1
// deletes the line; the returned flag reports that.
func (s *CartService) AdjustQuantity(ctx context.Context, accountID, lineID uint, delta int) (*models.CartLine, bool, error) {
	if delta != 1 && delta != -1 {
		return nil, false, fmt.Errorf("%w: delta must be +1 or -1", ErrInvalidRequest)
	}

	line, deleted, err := s.Repo.AdjustLine(ctx, accountID, lineID, delta)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrCartLineNotFound):
			return nil, false, fmt.Errorf("%w: cart line %d", ErrNotFound, lineID)
		case errors.Is(err, repo.ErrSerialization):
			return nil, false, fmt.Errorf("%w: concurrent cart update", ErrConflict)
		}
		return nil, false, fmt.Errorf("adjust cart line: %w", err)
	}
	return line, deleted, nil
}

func (s *CartService) RemoveItem(ctx context.Context, accountID, lineID uint) error {
	err := s.Repo.RemoveLine(ctx, accountID, lineID)
	if err != nil {
		if errors.Is(err, repo.ErrCartLineNotFound) {
			return fmt.Errorf("%w: cart line %d", ErrNotFound, lineID)
		}
		return fmt.Errorf("remove cart line: %w", err)
	}
	return nil
}

// RemoveMany deletes the listed lines, silently skipping ids that are already
// gone. It fails only when the whole batch resolves to nothing.
func (s *CartService) RemoveMany(ctx context.Context, accountID uint, lineIDs []uint) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, fmt.Errorf("%w: no cart line ids provided", ErrInvalidRequest)
	}

	removed, err := s.Repo.RemoveLines(ctx, accountID, dedup(lineIDs))
	if err != nil {
		return 0, fmt.Errorf("remove cart lines: %w", err)
	}
	if removed == 0 {
		return 0, fmt.Errorf("%w: no cart lines matched", ErrNotFound)
	}
	return removed, nil
}

// ListByAccount returns the account's lines enriched with live catalog data.
// A line whose product has since been deleted is returned without product
// data rather than dropped, so the client still sees the row it owns.
func (s *CartService) ListByAccount(ctx context.Context, accountID uint) ([]transport.CartLineView, error) {
	lines, err := s.Repo.CartLinesByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}

	views := make([]transport.CartLineView, 0, len(lines))
	for _, line := range lines {
		view := transport.CartLineView{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Active:    line.Active,
			CreatedAt: line.CreatedAt,
			UpdatedAt: line.UpdatedAt,
		}

		product, err := s.Catalog.GetProduct(ctx, line.ProductID)
		switch {
		case err == nil:
			view.Product = &transport.ProductView{
				ID:          product.ID,
				CategoryID:  product.CategoryID,
				Name:        product.Name,
				Description: product.Description,
				Image:       product.Image,
				Price:       product.Price,
			}
		case errors.Is(err, repo.ErrProductNotFound):
			// deleted from the catalog after it was added to the cart
		default:
			return nil, fmt.Errorf("catalog lookup: %w", err)
		}

		views = append(views, view)
	}
	return views, nil
}

func dedup(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
