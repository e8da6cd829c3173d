package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nhattran/retail_shop/internal/hash"
	"github.com/nhattran/retail_shop/internal/identity"
	"github.com/nhattran/retail_shop/internal/models"
	"github.com/nhattran/retail_shop/internal/repo"
	"github.com/nhattran/retail_shop/internal/service"
	"github.com/nhattran/retail_shop/pkg/db"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Identity *identity.Service
	Auth     *AuthHandler
	Cart     *CartHandler
	Orders   *OrderHandler
	Products *ProductHandler
}

// Producer stays nil everywhere: event publishing is a no-op without a broker
// and the handlers must not care.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	ident := &identity.Service{
		DB:            gdb,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	r := &repo.GormRepo{DB: gdb}
	return &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       gdb,
		Identity: ident,
		Auth:     &AuthHandler{DB: gdb, Identity: ident},
		Cart:     &CartHandler{Service: &service.CartService{Repo: r, Catalog: r}},
		Orders:   &OrderHandler{Service: &service.OrderService{Repo: r}},
		Products: &ProductHandler{Repo: r},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// authed runs a handler behind the login middleware, the way the router
// mounts it.
func (env *testEnv) authed(h echo.HandlerFunc) echo.HandlerFunc {
	return env.Identity.RequireLogin(h)
}

func (env *testEnv) admin(h echo.HandlerFunc) echo.HandlerFunc {
	return env.Identity.AdminOnly(h)
}

func login(t *testing.T, env *testEnv) []*http.Cookie {
	t.Helper()

	payload := map[string]string{"username": "test_user", "password": "password"}
	recRegister, cRegister := env.doJSONRequest(http.MethodPost, "/api/v1/register", payload)
	require.NoError(t, env.Auth.Register(cRegister))
	require.Equal(t, http.StatusCreated, recRegister.Code)

	recLogin, cLogin := env.doJSONRequest(http.MethodPost, "/api/v1/login", payload)
	require.NoError(t, env.Auth.Login(cLogin))
	require.Equal(t, http.StatusOK, recLogin.Code)

	cookies := recLogin.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func loginAdmin(t *testing.T, env *testEnv) []*http.Cookie {
	t.Helper()

	passwordHash, err := hash.Password("admin_password")
	require.NoError(t, err)
	require.NoError(t, env.DB.Create(&models.Account{
		Username:     "admin_user",
		PasswordHash: passwordHash,
		Role:         "admin",
	}).Error)

	payload := map[string]string{"username": "admin_user", "password": "admin_password"}
	recLogin, cLogin := env.doJSONRequest(http.MethodPost, "/api/v1/login", payload)
	require.NoError(t, env.Auth.Login(cLogin))
	require.Equal(t, http.StatusOK, recLogin.Code)

	cookies := recLogin.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (env *testEnv) seedProduct(t *testing.T, id uint, name, price string) models.Product {
	t.Helper()

	p := models.Product{
		ID:    id,
		Name:  name,
		Image: name + ".png",
		Price: decimal.RequireFromString(price),
		Count: 100,
	}
	require.NoError(t, env.DB.Create(&p).Error)
	return p
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}
