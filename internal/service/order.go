package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nhattran/retail_shop/internal/models"
	"github.com/nhattran/retail_shop/internal/repo"
	"github.com/nhattran/retail_shop/internal/transport"
)

type OrderService struct {
	Repo *repo.GormRepo
}

// PlaceOrder validates the request and hands the atomic conversion to the
// repo. Every id must resolve to a line owned by the account; otherwise
// nothing is created and nothing is deleted.
func (s *OrderService) PlaceOrder(ctx context.Context, accountID uint, cartLineIDs []uint) (*models.Order, error) {
	if len(cartLineIDs) == 0 {
		return nil, fmt.Errorf("%w: cart line ids required", ErrInvalidRequest)
	}

	order, err := s.Repo.PlaceOrder(ctx, accountID, dedup(cartLineIDs))
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrLinesUnresolved):
			return nil, fmt.Errorf("%w: one or more cart lines do not belong to this account", ErrInvalidRequest)
		case errors.Is(err, repo.ErrProductNotFound):
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		case errors.Is(err, repo.ErrSerialization):
			return nil, fmt.Errorf("%w: concurrent checkout, retry", ErrConflict)
		}
		return nil, fmt.Errorf("place order: %w", err)
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (s *OrderService) ListByAccount(ctx context.Context, accountID uint, offset, limit int) ([]models.Order, error) {
	orders, err := s.Repo.OrdersByAccount(ctx, accountID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Advance moves an order to the requested status, enforcing both membership
// in the closed status set and the machine's allowed edges.
func (s *OrderService) Advance(ctx context.Context, orderID uint, target models.OrderStatus) (*models.Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	order, err := s.Repo.AdvanceStatus(ctx, orderID, target)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrOrderNotFound):
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		case errors.Is(err, repo.ErrTransitionDenied):
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		case errors.Is(err, repo.ErrSerialization):
			return nil, fmt.Errorf("%w: concurrent status update", ErrConflict)
		}
		return nil, fmt.Errorf("advance order: %w", err)
	}
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, orderID uint) error {
	if err := s.Repo.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// MonthlyRevenue sums the totals of received orders per month of the given
// year. All twelve months are present in the result; months without orders
// report a zero total, not an absence.
func (s *OrderService) MonthlyRevenue(ctx context.Context, year int) ([]transport.MonthlyRevenue, error) {
	if year < 1 {
		return nil, fmt.Errorf("%w: invalid year %d", ErrInvalidRequest, year)
	}

	orders, err := s.Repo.ReceivedOrdersInYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("revenue query: %w", err)
	}

	totals := make([]decimal.Decimal, 12)
	for i := range totals {
		totals[i] = decimal.Zero
	}
	for _, order := range orders {
		m := int(order.CreatedAt.UTC().Month()) - 1
		totals[m] = totals[m].Add(order.TotalPrice)
	}

	report := make([]transport.MonthlyRevenue, 12)
	for i, total := range totals {
		report[i] = transport.MonthlyRevenue{Month: i + 1, Total: total}
	}
	return report, nil
}
