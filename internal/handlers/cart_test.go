package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhattran/retail_shop/internal/models"
	"github.com/nhattran/retail_shop/internal/transport"
)

func TestAddToCart_Merges(t *testing.T) {
	env := newTestEnv(t)
	cookies := login(t, env)
	env.seedProduct(t, 42, "headphones", "10.00")

	payload := map[string]uint{"product_id": 42, "quantity": 2}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, cookies...)
	require.NoError(t, env.authed(env.Cart.AddToCart)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	payload["quantity"] = 3
	rec2, c2 := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, cookies...)
	require.NoError(t, env.authed(env.Cart.AddToCart)(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var line models.CartLine
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &line))
	require.Equal(t, uint(5), line.Quantity)

	var count int64
	require.NoError(t, env.DB.Model(&models.CartLine{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	cookies := login(t, env)

	payload := map[string]uint{"product_id": 999, "quantity": 1}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, cookies...)
	requireHTTPError(t, env.authed(env.Cart.AddToCart)(c), http.StatusNotFound)
}

func TestGetCart(t *testing.T) {
	env := newTestEnv(t)
	cookies := login(t, env)
	env.seedProduct(t, 1, "mouse", "19.90")

	payload := map[string]uint{"product_id": 1, "quantity": 3}
	_, cAdd := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, cookies...)
	require.NoError(t, env.authed(env.Cart.AddToCart)(cAdd))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, cookies...)
	require.NoError(t, env.authed(env.Cart.GetCart)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []transport.CartLineView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, uint(1), resp[0].ProductID)
	require.Equal(t, uint(3), resp[0].Quantity)
	require.NotNil(t, resp[0].Product)
	require.Equal(t, "mouse", resp[0].Product.Name)
}

func TestAdjustCart(t *testing.T) {
	env := newTestEnv(t)
	cookies := login(t, env)
	env.seedProduct(t, 1, "mouse", "19.90")

	payload := map[string]uint{"product_id": 1, "quantity": 1}
	recAdd, cAdd := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, cookies...)
	require.NoError(t, env.authed(env.Cart.AddToCart)(cAdd))

	var line models.CartLine
	require.NoError(t, json.Unmarshal(recAdd.Body.Bytes(), &line))
	id := fmt.Sprint(line.ID)

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/cart/"+id+"?type=plus", nil, cookies...)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, env.authed(env.Cart.AdjustCart)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var adjusted models.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &adjusted))
	require.Equal(t, uint(2), adjusted.Quantity)

	_, cBad := env.doJSONRequest(http.MethodPatch, "/api/v1/cart/"+id+"?type=double", nil, cookies...)
	cBad.SetParamNames("id")
	cBad.SetParamValues(id)
	requireHTTPError(t, env.authed(env.Cart.AdjustCart)(cBad), http.StatusBadRequest)

	// two minus steps empty the line and then the cart
	for i := 0; i < 2; i++ {
		recMinus, cMinus := env.doJSONRequest(http.MethodPatch, "/api/v1/cart/"+id+"?type=minus", nil, cookies...)
		cMinus.SetParamNames("id")
		cMinus.SetParamValues(id)
		require.NoError(t, env.authed(env.Cart.AdjustCart)(cMinus))
		if i == 1 {
			require.Equal(t, http.StatusNoContent, recMinus.Code)
		}
	}

	var count int64
	require.NoError(t, env.DB.Model(&models.CartLine{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv(t)
	cookies := login(t, env)
	env.seedProduct(t, 1, "mouse", "19.90")

	payload := map[string]uint{"product_id": 1, "quantity": 2}
	recAdd, cAdd := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, cookies...)
	require.NoError(t, env.authed(env.Cart.AddToCart)(cAdd))

	var line models.CartLine
	require.NoError(t, json.Unmarshal(recAdd.Body.Bytes(), &line))
	id := fmt.Sprint(line.ID)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart/"+id, nil, cookies...)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, env.authed(env.Cart.RemoveFromCart)(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, cAgain := env.doJSONRequest(http.MethodDelete, "/api/v1/cart/"+id, nil, cookies...)
	cAgain.SetParamNames("id")
	cAgain.SetParamValues(id)
	requireHTTPError(t, env.authed(env.Cart.RemoveFromCart)(cAgain), http.StatusNotFound)
}

func TestRemoveManyFromCart(t *testing.T) {
	env := newTestEnv(t)
	cookies := login(t, env)
	env.seedProduct(t, 1, "mouse", "19.90")
	env.seedProduct(t, 2, "stand", "5.00")

	var ids []uint
	for _, productID := range []uint{1, 2} {
		payload := map[string]uint{"product_id": productID, "quantity": 1}
		recAdd, cAdd := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, cookies...)
		require.NoError(t, env.authed(env.Cart.AddToCart)(cAdd))

		var line models.CartLine
		require.NoError(t, json.Unmarshal(recAdd.Body.Bytes(), &line))
		ids = append(ids, line.ID)
	}

	payload := map[string][]uint{"line_ids": append(ids, 999)}
	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart", payload, cookies...)
	require.NoError(t, env.authed(env.Cart.RemoveManyFromCart)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 2, resp["removed"])

	empty := map[string][]uint{"line_ids": {}}
	_, cEmpty := env.doJSONRequest(http.MethodDelete, "/api/v1/cart", empty, cookies...)
	requireHTTPError(t, env.authed(env.Cart.RemoveManyFromCart)(cEmpty), http.StatusBadRequest)
}
