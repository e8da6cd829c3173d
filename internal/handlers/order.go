package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nhattran/retail_shop/internal/events"
	"github.com/nhattran/retail_shop/internal/identity"
	"github.com/nhattran/retail_shop/internal/models"
	"github.com/nhattran/retail_shop/internal/service"
	"github.com/nhattran/retail_shop/internal/util"
)

type OrderHandler struct {
	Service  *service.OrderService
	Producer *events.Producer
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	accountID, err := identity.AccountID(c)
	if err != nil {
		return err
	}

	var req struct {
		CartLineIDs []uint `json:"cart_line_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.Service.PlaceOrder(c.Request().Context(), accountID, req.CartLineIDs)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicOrderEvents, fmt.Sprint(accountID), map[string]any{
		"type":        "order_placed",
		"account_id":  accountID,
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
		"items":       len(order.Items),
	})
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	accountID, err := identity.AccountID(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Paginate(page, size)

	orders, err := h.Service.ListByAccount(c.Request().Context(), accountID, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	accountID, err := identity.AccountID(c)
	if err != nil {
		return err
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Service.GetOrder(c.Request().Context(), uint(orderID))
	if err != nil {
		return httpError(err)
	}

	// owners see their own orders, admins see everything
	if order.AccountID != accountID && identity.Role(c) != "admin" {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.Service.Advance(c.Request().Context(), uint(orderID), models.OrderStatus(req.Status))
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicOrderEvents, fmt.Sprint(order.AccountID), map[string]any{
		"type":     "order_status_changed",
		"order_id": order.ID,
		"status":   order.Status,
	})
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	if err := h.Service.Delete(c.Request().Context(), uint(orderID)); err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicOrderEvents, fmt.Sprint(orderID), map[string]any{
		"type":     "order_deleted",
		"order_id": orderID,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) MonthlyRevenue(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}

	report, err := h.Service.MonthlyRevenue(c.Request().Context(), year)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"year":   year,
		"months": report,
	})
}
