package identity

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nhattran/retail_shop/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.RefreshToken{}))

	return &Service{
		DB:            gdb,
		JWTSecret:     []byte("jwt-secret"),
		RefreshSecret: []byte("refresh-secret"),
	}
}

func request(cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return rec, echo.New().NewContext(req, rec)
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRequireLogin_ValidAccessToken(t *testing.T) {
	s := newTestService(t)

	access, err := s.SignAccessToken(7, "user")
	require.NoError(t, err)

	rec, c := request(&http.Cookie{Name: "accessToken", Value: access})
	require.NoError(t, s.RequireLogin(okHandler)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	id, err := AccountID(c)
	require.NoError(t, err)
	require.Equal(t, uint(7), id)
	require.Equal(t, "user", Role(c))
}

func TestRequireLogin_NoCookies(t *testing.T) {
	s := newTestService(t)

	_, c := request()
	err := s.RequireLogin(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireLogin_RotatesExpiredAccess(t *testing.T) {
	s := newTestService(t)

	expired := jwt.MapClaims{
		"sub":  float64(7),
		"role": "user",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	}
	expiredAccess, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString(s.JWTSecret)
	require.NoError(t, err)

	refresh, err := s.SignRefreshToken(7, "user")
	require.NoError(t, err)
	require.NoError(t, s.SaveRefreshToken(refresh, 7, "user"))

	rec, c := request(
		&http.Cookie{Name: "accessToken", Value: expiredAccess},
		&http.Cookie{Name: "refreshToken", Value: refresh},
	)
	require.NoError(t, s.RequireLogin(okHandler)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	id, err := AccountID(c)
	require.NoError(t, err)
	require.Equal(t, uint(7), id)

	// rotation hands out a fresh pair
	var fresh string
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refreshToken" {
			fresh = ck.Value
		}
	}
	require.NotEmpty(t, fresh)
	require.NotEqual(t, refresh, fresh)
}

func TestRequireLogin_RevokedRefresh(t *testing.T) {
	s := newTestService(t)

	refresh, err := s.SignRefreshToken(7, "user")
	require.NoError(t, err)
	require.NoError(t, s.SaveRefreshToken(refresh, 7, "user"))
	require.NoError(t, s.RevokeRefreshToken(refresh))

	_, c := request(&http.Cookie{Name: "refreshToken", Value: refresh})
	err = s.RequireLogin(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAdminOnly(t *testing.T) {
	s := newTestService(t)

	userAccess, err := s.SignAccessToken(1, "user")
	require.NoError(t, err)
	_, c := request(&http.Cookie{Name: "accessToken", Value: userAccess})
	err = s.AdminOnly(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)

	adminAccess, err := s.SignAccessToken(1, "admin")
	require.NoError(t, err)
	rec, cAdmin := request(&http.Cookie{Name: "accessToken", Value: adminAccess})
	require.NoError(t, s.AdminOnly(okHandler)(cAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
}
