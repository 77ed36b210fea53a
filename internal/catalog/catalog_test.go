package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-teller/internal/catalog"
)

func TestCatalogAddAndLookup(t *testing.T) {
	c := catalog.New()
	apples := catalog.NewProduct("apples", catalog.UnitKilo)
	require.NoError(t, c.Add(apples, 1.99))

	price, err := c.UnitPrice(apples)
	require.NoError(t, err)
	require.Equal(t, 1.99, price)

	found, err := c.Lookup(" apples ")
	require.NoError(t, err)
	require.Equal(t, apples.ID, found.ID)
	require.True(t, found.SoldByWeight())
}

func TestCatalogIdentityIsByID(t *testing.T) {
	c := catalog.New()
	rice := catalog.NewProduct("rice", catalog.UnitEach)
	require.NoError(t, c.Add(rice, 2.49))

	impostor := catalog.Product{ID: uuid.New(), Name: "rice", Unit: catalog.UnitEach}
	_, err := c.UnitPrice(impostor)
	require.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestCatalogRejectsInvalidProducts(t *testing.T) {
	c := catalog.New()
	require.ErrorIs(t, c.Add(catalog.NewProduct("", catalog.UnitEach), 1), catalog.ErrInvalidProduct)
	require.ErrorIs(t, c.Add(catalog.NewProduct("milk", catalog.UnitEach), -1), catalog.ErrInvalidProduct)
	require.ErrorIs(t, c.Add(catalog.NewProduct("milk", "crate"), 1), catalog.ErrInvalidProduct)
	require.ErrorIs(t, c.Add(catalog.NewProduct("milk", catalog.UnitEach), 1e300), catalog.ErrInvalidProduct)

	require.NoError(t, c.Add(catalog.NewProduct("milk", catalog.UnitEach), 1))
	require.ErrorIs(t, c.Add(catalog.NewProduct("milk", catalog.UnitKilo), 2), catalog.ErrDuplicateProduct)
	require.Equal(t, 1, c.Len())
}

func TestCatalogListKeepsRegistrationOrder(t *testing.T) {
	c := catalog.New()
	for _, name := range []string{"toothbrush", "apples", "cereal"} {
		require.NoError(t, c.Add(catalog.NewProduct(name, catalog.UnitEach), 1))
	}
	entries := c.List()
	require.Len(t, entries, 3)
	require.Equal(t, "toothbrush", entries[0].Product.Name)
	require.Equal(t, "cereal", entries[2].Product.Name)
}

func TestParseUnit(t *testing.T) {
	unit, err := catalog.ParseUnit(" KILO ")
	require.NoError(t, err)
	require.Equal(t, catalog.UnitKilo, unit)

	_, err = catalog.ParseUnit("litre")
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)
}

func TestHandlerCreateAndList(t *testing.T) {
	c := catalog.New()
	h := catalog.NewHandler(catalog.HandlerConfig{Catalog: c})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"name":"gum","unit":"each","price":0.75}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"name":"gum","unit":"each","price":0.80}`))
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec = httptest.NewRecorder()
	h.Products(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []catalog.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "gum", body.Data[0].Product.Name)
	require.Equal(t, 0.75, body.Data[0].Price)
}

func TestHandlerCreateValidation(t *testing.T) {
	h := catalog.NewHandler(catalog.HandlerConfig{Catalog: catalog.New()})

	cases := map[string]string{
		"missing price": `{"name":"gum","unit":"each"}`,
		"bad unit":      `{"name":"gum","unit":"litre","price":1}`,
		"negative":      `{"name":"gum","unit":"each","price":-1}`,
		"unknown field": `{"name":"gum","unit":"each","price":1,"tax":2}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			h.Create(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
