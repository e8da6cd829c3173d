package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nhattran/retail_shop/internal/events"
	"github.com/nhattran/retail_shop/internal/hash"
	"github.com/nhattran/retail_shop/internal/identity"
	"github.com/nhattran/retail_shop/internal/models"
)

type AuthHandler struct {
	DB       *gorm.DB
	Identity *identity.Service
	Producer *events.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password required")
	}

	var existing models.Account
	err := h.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "account already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	passwordHash, err := hash.Password(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	account := models.Account{
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         "user",
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
	}
	if err := h.DB.Create(&account).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, events.TopicAccountEvents, fmt.Sprint(account.ID), map[string]any{
		"type":       "account_registered",
		"account_id": account.ID,
		"username":   account.Username,
	})
	return c.JSON(http.StatusCreated, account)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var account models.Account
	if err := h.DB.Where("username = ?", req.Username).First(&account).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !hash.Check(account.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	accessToken, err := h.Identity.SignAccessToken(account.ID, account.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create access token")
	}
	refreshToken, err := h.Identity.SignRefreshToken(account.ID, account.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create refresh token")
	}
	if err := h.Identity.SaveRefreshToken(refreshToken, account.ID, account.Role); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.SetCookie(identity.CreateCookie("accessToken", accessToken, "/", time.Now().Add(identity.AccessTokenTTL)))
	c.SetCookie(identity.CreateCookie("refreshToken", refreshToken, "/", time.Now().Add(identity.RefreshTokenTTL)))

	publish(c, h.Producer, events.TopicAccountEvents, fmt.Sprint(account.ID), map[string]any{
		"type":       "account_logged_in",
		"account_id": account.ID,
		"username":   account.Username,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"is_admin":      account.Role == "admin",
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh token missing")
	}

	if err := h.Identity.RevokeRefreshToken(refreshCookie.Value); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	expired := time.Now().Add(-time.Hour)
	c.SetCookie(identity.CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(identity.CreateCookie("refreshToken", "", "/", expired))

	return c.NoContent(http.StatusNoContent)
}
