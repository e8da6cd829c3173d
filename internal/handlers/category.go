package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nhattran/retail_shop/internal/events"
	"github.com/nhattran/retail_shop/internal/models"
	"github.com/nhattran/retail_shop/internal/repo"
)

type CategoryHandler struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.Repo.ListCategories(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name required")
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := h.Repo.CreateCategory(c.Request().Context(), &category); err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(category.ID), map[string]any{
		"type":        "category_created",
		"category_id": category.ID,
		"name":        category.Name,
	})
	return c.JSON(http.StatusCreated, category)
}

// DeleteCategory removes the category only. Products keep their category id,
// and historical orders are untouched.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	if err := h.Repo.DeleteCategory(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
