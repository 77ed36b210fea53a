package checkout_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-teller/internal/catalog"
	"github.com/noah-isme/backend-teller/internal/checkout"
	"github.com/noah-isme/backend-teller/internal/common"
	"github.com/noah-isme/backend-teller/internal/receipt"
	"github.com/noah-isme/backend-teller/internal/teller"
)

type errorResponse struct {
	Error common.ErrorBody `json:"error"`
}

type cartResponse struct {
	Data checkout.CartView `json:"data"`
}

type checkoutResponse struct {
	Data struct {
		Receipt struct {
			Items     []receipt.Item     `json:"items"`
			Discounts []receipt.Discount `json:"discounts"`
			Total     float64            `json:"total"`
		} `json:"receipt"`
		Text string `json:"text"`
	} `json:"data"`
}

func newRouter(t *testing.T) (http.Handler, *checkout.Session) {
	t.Helper()
	cat := catalog.New()
	require.NoError(t, cat.Add(catalog.NewProduct("toothbrush", catalog.UnitEach), 0.99))
	require.NoError(t, cat.Add(catalog.NewProduct("apples", catalog.UnitKilo), 1.99))

	tl, err := teller.New(teller.Config{Catalog: cat})
	require.NoError(t, err)
	session, err := checkout.NewSession(checkout.SessionConfig{Catalog: cat, Teller: tl})
	require.NoError(t, err)

	h := &checkout.Handler{Session: session}
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cart", h.Cart)
		r.Delete("/cart", h.ResetCart)
		r.Post("/cart/items", h.AddItem)
		r.Post("/offers", h.RegisterOffer)
		r.Delete("/offers/{name}", h.RemoveOffer)
		r.Post("/checkout", h.Checkout)
	})
	return r, session
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutFlow(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/offers", `{"name":"toothbrush","type":"THREE_FOR_TWO"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/cart/items", `{"name":"toothbrush","quantity":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, router, http.MethodPost, "/api/v1/cart/items", `{"name":"apples","quantity":0.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var cr cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cr))
	require.Len(t, cr.Data.Lines, 2)
	require.Len(t, cr.Data.Quantities, 2)

	rec = do(t, router, http.MethodPost, "/api/v1/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Data.Receipt.Items, 2)
	require.Len(t, out.Data.Receipt.Discounts, 1)
	require.Equal(t, "3 for 2", out.Data.Receipt.Discounts[0].Description)
	require.InDelta(t, 0.99*3+0.995-0.99, out.Data.Receipt.Total, 1e-9)
	require.Contains(t, out.Data.Text, "Total:")
	require.Contains(t, out.Data.Text, "3 for 2 (toothbrush)")

	rec = do(t, router, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cr = cartResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cr))
	require.Empty(t, cr.Data.Lines)
}

func TestRemoveOffer(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/offers", `{"name":"toothbrush","type":"THREE_FOR_TWO"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, router, http.MethodDelete, "/api/v1/offers/toothbrush", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/offers/toothbrush", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, router, http.MethodDelete, "/api/v1/offers/caviar", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/cart/items", `{"name":"toothbrush","quantity":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, router, http.MethodPost, "/api/v1/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Empty(t, out.Data.Receipt.Discounts)
	require.InDelta(t, 2.97, out.Data.Receipt.Total, 1e-9)
}

func TestCheckoutEmptyCart(t *testing.T) {
	router, _ := newRouter(t)
	rec := do(t, router, http.MethodPost, "/api/v1/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Empty(t, out.Data.Receipt.Items)
	require.Zero(t, out.Data.Receipt.Total)
}

func TestResetCart(t *testing.T) {
	router, session := newRouter(t)
	rec := do(t, router, http.MethodPost, "/api/v1/cart/items", `{"name":"apples","quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/cart", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, session.Cart().Lines)
}

func TestHandlerErrors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "unknown product", path: "/api/v1/cart/items", body: `{"name":"caviar","quantity":1}`, status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "zero quantity", path: "/api/v1/cart/items", body: `{"name":"apples","quantity":0}`, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "quantity above ceiling", path: "/api/v1/cart/items", body: `{"name":"apples","quantity":1e19}`, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "negative quantity", path: "/api/v1/cart/items", body: `{"name":"apples","quantity":-2}`, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "missing name", path: "/api/v1/cart/items", body: `{"quantity":1}`, status: http.StatusBadRequest, code: "VALIDATION_FAILED"},
		{name: "malformed body", path: "/api/v1/cart/items", body: `{"name":`, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "unknown field", path: "/api/v1/cart/items", body: `{"name":"apples","quantity":1,"colour":"red"}`, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "unknown offer type", path: "/api/v1/offers", body: `{"name":"apples","type":"BOGOF"}`, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "percent out of range", path: "/api/v1/offers", body: `{"name":"apples","type":"TEN_PERCENT_DISCOUNT","argument":120}`, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "bundle price missing", path: "/api/v1/offers", body: `{"name":"apples","type":"TWO_FOR_AMOUNT"}`, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "offer for unknown product", path: "/api/v1/offers", body: `{"name":"caviar","type":"THREE_FOR_TWO"}`, status: http.StatusNotFound, code: "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newRouter(t)
			rec := do(t, router, http.MethodPost, tc.path, tc.body)
			require.Equal(t, tc.status, rec.Code)
			var er errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
			require.Equal(t, tc.code, er.Error.Code)
		})
	}
}

func TestNilSessionIsInternalError(t *testing.T) {
	h := &checkout.Handler{}
	rec := httptest.NewRecorder()
	h.Checkout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
