package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dwikikusuma/shopping-cart/internal/cart/app"
	"github.com/dwikikusuma/shopping-cart/internal/cart/infra/memory"
	"github.com/dwikikusuma/shopping-cart/internal/server/middleware"
	"github.com/dwikikusuma/shopping-cart/internal/server/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type stubCatalog map[string]app.Item

func (s stubCatalog) FindByID(ctx context.Context, id string) (app.Item, bool, error) {
	it, ok := s[id]
	return it, ok, nil
}

type client struct {
	t      *testing.T
	r      *gin.Engine
	cookie *http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := stubCatalog{
		"mug": {ID: "mug", Name: "Coffee Mug", Kind: "PRODUCT", Price: decimal.RequireFromString("12.499"), Stock: 5},
		"gig": {ID: "gig", Name: "Jazz Night", Kind: "EVENT", Price: decimal.RequireFromString("45"), Stock: 2},
	}
	svc := app.NewService(memory.NewCartStore(), catalog, nil, nil)

	r := gin.New()
	api := r.Group("/api/v1", middleware.Session(middleware.SessionOptions{CookieName: "cart_session", MaxAge: time.Hour}))
	NewHandler(svc).Register(api)
	return &client{t: t, r: r}
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.r.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "cart_session" {
			c.cookie = ck
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestCartFlow(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodGet, "/api/v1/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get cart: %d", rec.Code)
	}
	empty := decode[cartResponse](t, rec)
	if empty.ID != "" || len(empty.Items) != 0 || empty.TotalPrice != 0 || empty.SessionID != c.cookie.Value || empty.CreatedAt.IsZero() {
		t.Fatalf("unexpected empty cart %+v", empty)
	}

	rec = c.do(http.MethodPost, "/api/v1/cart/items", `{"itemId":"mug","quantity":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: %d %s", rec.Code, rec.Body.String())
	}
	cart := decode[cartResponse](t, rec)
	if cart.ID == "" || cart.TotalQuantity != 2 || cart.Items[0].UnitPrice != 12.5 || cart.TotalPrice != 25 {
		t.Fatalf("unexpected cart %+v", cart)
	}

	rec = c.do(http.MethodPost, "/api/v1/cart/items", `{"itemId":"gig","quantity":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add gig: %d", rec.Code)
	}

	rec = c.do(http.MethodPatch, "/api/v1/cart/items/mug", `{"quantity":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	if got := decode[cartResponse](t, rec); got.TotalQuantity != 6 || got.Items[0].ItemID != "mug" {
		t.Fatalf("unexpected cart after update %+v", got)
	}

	rec = c.do(http.MethodGet, "/api/v1/cart/summary", "")
	sum := decode[summaryResponse](t, rec)
	if sum.TotalQuantity != 6 || sum.TotalPrice != 107.5 || sum.Items[1].Subtotal != 45 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	rec = c.do(http.MethodGet, "/api/v1/cart/availability", "")
	if av := decode[availabilityResponse](t, rec); !av.AllAvailable || len(av.Items) != 2 {
		t.Fatalf("unexpected availability %+v", av)
	}

	rec = c.do(http.MethodDelete, "/api/v1/cart/items/gig", "")
	if got := decode[cartResponse](t, rec); rec.Code != http.StatusOK || len(got.Items) != 1 {
		t.Fatalf("remove: %d %+v", rec.Code, got)
	}

	if rec = c.do(http.MethodDelete, "/api/v1/cart", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear: %d", rec.Code)
	}
	if rec = c.do(http.MethodDelete, "/api/v1/cart", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second clear: %d", rec.Code)
	}
}

func TestCartErrors(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/v1/cart/items", `{"itemId":"gig","quantity":2}`)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"zero quantity", http.MethodPost, "/api/v1/cart/items", `{"itemId":"mug","quantity":0}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"missing item id", http.MethodPost, "/api/v1/cart/items", `{"quantity":1}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"malformed json", http.MethodPost, "/api/v1/cart/items", `{`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"unknown item", http.MethodPost, "/api/v1/cart/items", `{"itemId":"nope","quantity":1}`, http.StatusNotFound, "NOT_FOUND"},
		{"over stock", http.MethodPost, "/api/v1/cart/items", `{"itemId":"gig","quantity":1}`, http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"negative update", http.MethodPatch, "/api/v1/cart/items/gig", `{"quantity":-1}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"missing quantity", http.MethodPatch, "/api/v1/cart/items/gig", `{}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"update missing line", http.MethodPatch, "/api/v1/cart/items/mug", `{"quantity":1}`, http.StatusNotFound, "NOT_FOUND"},
		{"update over stock", http.MethodPatch, "/api/v1/cart/items/gig", `{"quantity":3}`, http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"remove missing line", http.MethodDelete, "/api/v1/cart/items/mug", "", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do(tt.method, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if env := decode[response.ErrorEnvelope](t, rec); env.Error.Code != tt.wantErr {
				t.Fatalf("code = %q, want %q", env.Error.Code, tt.wantErr)
			}
		})
	}
}

func TestUpdateToZeroRemovesLine(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/v1/cart/items", `{"itemId":"mug","quantity":4}`)

	rec := c.do(http.MethodPatch, "/api/v1/cart/items/mug", `{"quantity":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[cartResponse](t, rec)
	if len(got.Items) != 0 || got.TotalQuantity != 0 || got.TotalPrice != 0 || got.ID == "" {
		t.Fatalf("unexpected cart %+v", got)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	a := newClient(t)
	a.do(http.MethodPost, "/api/v1/cart/items", `{"itemId":"mug","quantity":1}`)

	b := &client{t: t, r: a.r}
	rec := b.do(http.MethodGet, "/api/v1/cart", "")
	if got := decode[cartResponse](t, rec); len(got.Items) != 0 || got.SessionID == a.cookie.Value {
		t.Fatalf("session leaked: %+v", got)
	}
}
