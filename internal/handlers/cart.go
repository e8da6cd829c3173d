package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nhattran/retail_shop/internal/events"
	"github.com/nhattran/retail_shop/internal/identity"
	"github.com/nhattran/retail_shop/internal/service"
)

type CartHandler struct {
	Service  *service.CartService
	Producer *events.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	accountID, err := identity.AccountID(c)
	if err != nil {
		return err
	}

	views, err := h.Service.ListByAccount(c.Request().Context(), accountID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	accountID, err := identity.AccountID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	line, err := h.Service.AddItem(c.Request().Context(), accountID, req.ProductID, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicCartEvents, fmt.Sprint(accountID), map[string]any{
		"type":       "cart_line_added",
		"account_id": accountID,
		"product_id": line.ProductID,
		"quantity":   line.Quantity,
	})
	return c.JSON(http.StatusOK, line)
}

// AdjustCart bumps a line by one unit in either direction, matching the
// storefront's plus/minus buttons. Minus on a single-unit line removes it.
func (h *CartHandler) AdjustCart(c echo.Context) error {
	accountID, err := identity.AccountID(c)
	if err != nil {
		return err
	}

	lineID, err := strconv.Atoi(c.Param("id"))
	if err != nil || lineID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cart line id")
	}

	var delta int
	switch c.QueryParam("type") {
	case "plus":
		delta = 1
	case "minus":
		delta = -1
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "type must be 'plus' or 'minus'")
	}

	line, deleted, err := h.Service.AdjustQuantity(c.Request().Context(), accountID, uint(lineID), delta)
	if err != nil {
		return httpError(err)
	}

	if deleted {
		publish(c, h.Producer, events.TopicCartEvents, fmt.Sprint(accountID), map[string]any{
			"type":       "cart_line_removed",
			"account_id": accountID,
			"line_id":    lineID,
		})
		return c.NoContent(http.StatusNoContent)
	}

	publish(c, h.Producer, events.TopicCartEvents, fmt.Sprint(accountID), map[string]any{
		"type":       "cart_line_adjusted",
		"account_id": accountID,
		"line_id":    lineID,
		"quantity":   line.Quantity,
	})
	return c.JSON(http.StatusOK, line)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	accountID, err := identity.AccountID(c)
	if err != nil {
		return err
	}

	lineID, err := strconv.Atoi(c.Param("id"))
	if err != nil || lineID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cart line id")
	}

	if err := h.Service.RemoveItem(c.Request().Context(), accountID, uint(lineID)); err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicCartEvents, fmt.Sprint(accountID), map[string]any{
		"type":       "cart_line_removed",
		"account_id": accountID,
		"line_id":    lineID,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) RemoveManyFromCart(c echo.Context) error {
	accountID, err := identity.AccountID(c)
	if err != nil {
		return err
	}

	var req struct {
		LineIDs []uint `json:"line_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	removed, err := h.Service.RemoveMany(c.Request().Context(), accountID, req.LineIDs)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicCartEvents, fmt.Sprint(accountID), map[string]any{
		"type":       "cart_lines_removed",
		"account_id": accountID,
		"removed":    removed,
	})
	return c.JSON(http.StatusOK, map[string]any{"removed": removed})
}
