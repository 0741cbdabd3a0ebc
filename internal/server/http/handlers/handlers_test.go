package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
	"github.com/polkiloo/tableside/internal/server/http/dto"
	"github.com/polkiloo/tableside/internal/server/stream"
	testhelpers "github.com/polkiloo/tableside/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func performRequest(t *testing.T, method, route, path string, handler gin.HandlerFunc, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, handler)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", resp.Body.String(), err)
	}
	return out
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domainErrors.ErrInvalidTransition, http.StatusConflict},
		{domainErrors.ErrAlreadyExists, http.StatusConflict},
		{domainErrors.ErrOrderNotFound, http.StatusNotFound},
		{domainErrors.ErrMenuItemNotFound, http.StatusNotFound},
		{domainErrors.ErrCartNotFound, http.StatusNotFound},
		{domainErrors.ErrEmptyOrder, http.StatusBadRequest},
		{domainErrors.ErrInvalidTable, http.StatusBadRequest},
		{domainErrors.ErrInvalidQuantity, http.StatusBadRequest},
		{domainErrors.ErrInvalidStatus, http.StatusUnprocessableEntity},
		{domainErrors.ErrInvalidKitchenLoad, http.StatusUnprocessableEntity},
		{domainErrors.ErrInvalidFeedback, http.StatusUnprocessableEntity},
		{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{domainErrors.ErrPersistenceUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/", "/", func(c *gin.Context) {
		respondError(c, errors.New("pq: password authentication failed"))
	}, nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if got := decode[dto.ErrorResponse](t, resp).Error; got != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("internal error leaked: %q", got)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	login := testhelpers.RandomASCIIString(5, 12)
	password := testhelpers.RandomASCIIString(8, 24)
	body, _ := json.Marshal(dto.AuthRequest{Login: login, Password: password})
	facade := &testhelpers.RestaurantFacadeStub{LoginFn: func(_ context.Context, gotLogin, gotPassword string) (string, error) {
		if gotLogin != login || gotPassword != password {
			t.Fatalf("unexpected credentials passed to facade: %q %q", gotLogin, gotPassword)
		}
		return "session-token", nil
	}}

	resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(facade).Login, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Authorization"); got != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	token := decode[dto.TokenResponse](t, resp)
	if token.Token != "session-token" || token.Role != string(model.RoleAdmin) {
		t.Fatalf("unexpected token response %+v", token)
	}

	result := resp.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	found := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "tableside_token" && cookie.Value == "session-token" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected auth cookie named tableside_token")
	}
}

func TestAuthHandlerLoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade *testhelpers.RestaurantFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", facade: &testhelpers.RestaurantFacadeStub{}, body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid", body: []byte(`{"login":"a","password":"b"}`), facade: &testhelpers.RestaurantFacadeStub{LoginFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusUnauthorized},
		{name: "internal", body: []byte(`{"login":"a","password":"b"}`), facade: &testhelpers.RestaurantFacadeStub{LoginFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(tt.facade).Login, tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerLogout(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/logout", "/logout", NewAuthHandler(&testhelpers.RestaurantFacadeStub{}).Logout, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	result := resp.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	if cookies := result.Cookies(); len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cookies)
	}
}

func TestMenuHandler(t *testing.T) {
	var gotCategory, gotQuery string
	facade := &testhelpers.RestaurantFacadeStub{MenuFn: func(category, query string) []model.MenuItem {
		gotCategory, gotQuery = category, query
		return testhelpers.SampleMenu().All()[:1]
	}}
	h := NewMenuHandler(facade)

	resp := performRequest(t, http.MethodGet, "/menu", "/menu?category=Burgers&q=veg", h.List, nil, nil)
	if resp.Code != http.StatusOK || gotCategory != "Burgers" || gotQuery != "veg" {
		t.Fatalf("unexpected list call: %d %q %q", resp.Code, gotCategory, gotQuery)
	}
	if items := decode[[]model.MenuItem](t, resp); len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}

	resp = performRequest(t, http.MethodGet, "/menu/categories", "/menu/categories", h.Categories, nil, nil)
	if categories := decode[[]string](t, resp); len(categories) != 3 {
		t.Fatalf("unexpected categories %v", categories)
	}

	resp = performRequest(t, http.MethodGet, "/menu/:id", "/menu/3", h.Get, nil, nil)
	if item := decode[model.MenuItem](t, resp); item.Name != "Masala Fries" {
		t.Fatalf("unexpected item %+v", item)
	}

	resp = performRequest(t, http.MethodGet, "/menu/:id", "/menu/99", h.Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/menu/:id/recommendations", "/menu/1/recommendations", h.Recommendations, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestMenuHandlerEstimate(t *testing.T) {
	var got []model.LineItem
	facade := &testhelpers.RestaurantFacadeStub{EstimateFn: func(items []model.LineItem) (int, error) {
		got = items
		return 14, nil
	}}
	body := []byte(`{"items":[{"id":"1","quantity":2},{"id":"4","quantity":1}]}`)
	resp := performRequest(t, http.MethodPost, "/estimate", "/estimate", NewMenuHandler(facade).Estimate, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if decode[dto.EstimateResponse](t, resp).EstimatedTime != 14 {
		t.Fatal("unexpected estimate")
	}
	if len(got) != 2 || got[0].ID != "1" || got[0].Quantity != 2 {
		t.Fatalf("unexpected line items %+v", got)
	}

	resp = performRequest(t, http.MethodPost, "/estimate", "/estimate", NewMenuHandler(facade).Estimate, []byte(`{"items":[{"id":"1","quantity":0}]}`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", resp.Code)
	}
}

func TestCartHandlerAddItem(t *testing.T) {
	var gotQuantity int
	facade := &testhelpers.RestaurantFacadeStub{AddItemFn: func(_ context.Context, id, itemID string, quantity int) (*model.CartSummary, error) {
		gotQuantity = quantity
		if itemID == "99" {
			return nil, domainErrors.ErrMenuItemNotFound
		}
		return &model.CartSummary{Cart: model.Cart{ID: id}}, nil
	}}
	h := NewCartHandler(facade)

	resp := performRequest(t, http.MethodPost, "/carts/:id/items", "/carts/c1/items", h.AddItem, []byte(`{"itemId":"1"}`), jsonHeaders)
	if resp.Code != http.StatusOK || gotQuantity != 1 {
		t.Fatalf("expected default quantity 1, got %d (status %d)", gotQuantity, resp.Code)
	}
	if cart := decode[model.CartSummary](t, resp); cart.ID != "c1" {
		t.Fatalf("unexpected cart %+v", cart)
	}

	resp = performRequest(t, http.MethodPost, "/carts/:id/items", "/carts/c1/items", h.AddItem, []byte(`{"itemId":"99","quantity":2}`), jsonHeaders)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/carts/:id/items", "/carts/c1/items", h.AddItem, []byte(`{}`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without item id, got %d", resp.Code)
	}
}

func TestCartHandlerUpdateItem(t *testing.T) {
	var gotQuantity = -1
	facade := &testhelpers.RestaurantFacadeStub{UpdateFn: func(_ context.Context, id, _ string, quantity int) (*model.CartSummary, error) {
		gotQuantity = quantity
		return &model.CartSummary{Cart: model.Cart{ID: id}}, nil
	}}
	h := NewCartHandler(facade)

	resp := performRequest(t, http.MethodPatch, "/carts/:id/items/:itemId", "/carts/c1/items/1", h.UpdateItem, []byte(`{"quantity":0}`), jsonHeaders)
	if resp.Code != http.StatusOK || gotQuantity != 0 {
		t.Fatalf("zero quantity must reach the facade, got %d (status %d)", gotQuantity, resp.Code)
	}

	resp = performRequest(t, http.MethodPatch, "/carts/:id/items/:itemId", "/carts/c1/items/1", h.UpdateItem, []byte(`{}`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without quantity, got %d", resp.Code)
	}
}

func TestCartHandlerEndpoints(t *testing.T) {
	facade := &testhelpers.RestaurantFacadeStub{
		SetTableFn: func(_ context.Context, _ string, n int) (*model.CartSummary, error) {
			if n > 50 {
				return nil, domainErrors.ErrInvalidTable
			}
			return &model.CartSummary{Cart: model.Cart{TableNumber: n}}, nil
		},
		CheckoutFn: func(_ context.Context, id string) (*model.Order, error) {
			return &model.Order{ID: "o-" + id, Status: model.OrderStatusPending}, nil
		},
	}
	h := NewCartHandler(facade)

	tests := []struct {
		name    string
		method  string
		route   string
		path    string
		handler gin.HandlerFunc
		body    string
		status  int
	}{
		{"create", http.MethodPost, "/carts", "/carts", h.Create, "", http.StatusCreated},
		{"get", http.MethodGet, "/carts/:id", "/carts/c1", h.Get, "", http.StatusOK},
		{"clear", http.MethodDelete, "/carts/:id", "/carts/c1", h.Clear, "", http.StatusOK},
		{"remove item", http.MethodDelete, "/carts/:id/items/:itemId", "/carts/c1/items/1", h.RemoveItem, "", http.StatusOK},
		{"set table", http.MethodPut, "/carts/:id/table", "/carts/c1/table", h.SetTable, `{"tableNumber":4}`, http.StatusOK},
		{"invalid table", http.MethodPut, "/carts/:id/table", "/carts/c1/table", h.SetTable, `{"tableNumber":99}`, http.StatusBadRequest},
		{"missing table", http.MethodPut, "/carts/:id/table", "/carts/c1/table", h.SetTable, `{}`, http.StatusBadRequest},
		{"empty payment", http.MethodGet, "/carts/:id/payment", "/carts/c1/payment", h.Payment, "", http.StatusBadRequest},
		{"checkout", http.MethodPost, "/carts/:id/checkout", "/carts/c1/checkout", h.Checkout, "", http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			if tt.body != "" {
				body = []byte(tt.body)
			}
			resp := performRequest(t, tt.method, tt.route, tt.path, tt.handler, body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestOrderHandlerPlace(t *testing.T) {
	var gotTable int
	facade := &testhelpers.RestaurantFacadeStub{PlaceFn: func(_ context.Context, items []model.LineItem, table int) (*model.Order, error) {
		gotTable = table
		return &model.Order{ID: "o1", Items: items, TableNumber: table, Status: model.OrderStatusPending}, nil
	}}
	h := NewOrderHandler(facade)

	body := []byte(`{"items":[{"id":"1","quantity":1}],"tableNumber":3}`)
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", h.Place, body, jsonHeaders)
	if resp.Code != http.StatusCreated || gotTable != 3 {
		t.Fatalf("unexpected response %d table=%d", resp.Code, gotTable)
	}
	if order := decode[model.Order](t, resp); order.Status != model.OrderStatusPending {
		t.Fatalf("unexpected order %+v", order)
	}

	for _, bad := range []string{`{"items":[],"tableNumber":3}`, `{"items":[{"id":"1","quantity":1}]}`, `nope`} {
		resp = performRequest(t, http.MethodPost, "/orders", "/orders", h.Place, []byte(bad), jsonHeaders)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", bad, resp.Code)
		}
	}
}

func TestOrderHandlerGet(t *testing.T) {
	facade := &testhelpers.RestaurantFacadeStub{OrderFn: func(_ context.Context, id string) (*model.OrderView, error) {
		if id == "missing" {
			return nil, domainErrors.ErrOrderNotFound
		}
		return &model.OrderView{
			Order:    model.Order{ID: id, Status: model.OrderStatusPreparing},
			Progress: model.Progress{Percent: 50, MinutesRemaining: 4},
			Load:     model.KitchenLoadHigh,
			Stale:    true,
		}, nil
	}}
	h := NewOrderHandler(facade)

	resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/o1", h.Get, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	status := decode[dto.OrderStatusResponse](t, resp)
	if status.Progress.Percent != 50 || status.KitchenLoad != "high" || !status.Stale || status.LoadMessage == "" {
		t.Fatalf("unexpected status %+v", status)
	}

	resp = performRequest(t, http.MethodGet, "/orders/:id", "/orders/missing", h.Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestOrderHandlerAcknowledge(t *testing.T) {
	facade := &testhelpers.RestaurantFacadeStub{AcknowledgeFn: func(_ context.Context, id string) (*model.Order, error) {
		if id == "done" {
			return nil, domainErrors.ErrOrderNotFound
		}
		if id == "early" {
			return nil, domainErrors.ErrInvalidTransition
		}
		return &model.Order{ID: id, Status: model.OrderStatusCompleted}, nil
	}}
	h := NewOrderHandler(facade)

	cases := map[string]int{"o1": http.StatusOK, "done": http.StatusNotFound, "early": http.StatusConflict}
	for id, want := range cases {
		resp := performRequest(t, http.MethodPost, "/orders/:id/ack", "/orders/"+id+"/ack", h.Acknowledge, nil, nil)
		if resp.Code != want {
			t.Fatalf("%s: expected %d, got %d", id, want, resp.Code)
		}
	}
}

func TestOrderHandlerStream(t *testing.T) {
	facade := &testhelpers.RestaurantFacadeStub{OrderFn: func(_ context.Context, id string) (*model.OrderView, error) {
		if id == "missing" {
			return nil, domainErrors.ErrOrderNotFound
		}
		return &model.OrderView{Order: model.Order{ID: id}}, nil
	}}
	h := NewOrderHandler(facade)

	resp := performRequest(t, http.MethodGet, "/orders/:id/stream", "/orders/o1/stream", h.Stream, nil, nil)
	if resp.Code != http.StatusNoContent || resp.Header().Get("X-Stream-Key") != "o1" {
		t.Fatalf("expected stream keyed by order, got %d %q", resp.Code, resp.Header().Get("X-Stream-Key"))
	}

	resp = performRequest(t, http.MethodGet, "/orders/:id/stream", "/orders/missing/stream", h.Stream, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", resp.Code)
	}
}

func TestAdminHandlerOrders(t *testing.T) {
	var got []model.OrderStatus
	facade := &testhelpers.RestaurantFacadeStub{OrdersFn: func(_ context.Context, statuses []model.OrderStatus) ([]model.OrderView, error) {
		got = statuses
		return []model.OrderView{{Order: model.Order{ID: "o1", Status: model.OrderStatusPending}}}, nil
	}}
	h := NewAdminHandler(facade, facade)

	resp := performRequest(t, http.MethodGet, "/orders", "/orders?status=pending,preparing&status=ready", h.Orders, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	want := []model.OrderStatus{model.OrderStatusPending, model.OrderStatusPreparing, model.OrderStatusReady}
	if len(got) != len(want) {
		t.Fatalf("expected statuses %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected statuses %v, got %v", want, got)
		}
	}
	if views := decode[[]dto.OrderStatusResponse](t, resp); len(views) != 1 || views[0].Order.ID != "o1" {
		t.Fatalf("unexpected views %+v", views)
	}

	resp = performRequest(t, http.MethodGet, "/orders", "/orders?status=cancelled", h.Orders, nil, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown status, got %d", resp.Code)
	}
}

func TestAdminHandlerStatusChanges(t *testing.T) {
	facade := &testhelpers.RestaurantFacadeStub{
		UpdateStatusFn: func(_ context.Context, id string, status model.OrderStatus) (*model.Order, error) {
			if status == model.OrderStatusPending {
				return nil, domainErrors.ErrInvalidTransition
			}
			return &model.Order{ID: id, Status: status}, nil
		},
		AdvanceFn: func(_ context.Context, id string) (*model.Order, error) {
			if id == "done" {
				return nil, domainErrors.ErrOrderNotFound
			}
			return &model.Order{ID: id, Status: model.OrderStatusPreparing}, nil
		},
	}
	h := NewAdminHandler(facade, facade)

	tests := []struct {
		name    string
		path    string
		route   string
		handler gin.HandlerFunc
		body    string
		status  int
	}{
		{"update", "/orders/o1/status", "/orders/:id/status", h.UpdateStatus, `{"status":"ready"}`, http.StatusOK},
		{"backwards", "/orders/o1/status", "/orders/:id/status", h.UpdateStatus, `{"status":"pending"}`, http.StatusConflict},
		{"unknown status", "/orders/o1/status", "/orders/:id/status", h.UpdateStatus, `{"status":"lost"}`, http.StatusUnprocessableEntity},
		{"missing status", "/orders/o1/status", "/orders/:id/status", h.UpdateStatus, `{}`, http.StatusBadRequest},
		{"advance", "/orders/o1/advance", "/orders/:id/advance", h.Advance, "", http.StatusOK},
		{"advance completed", "/orders/done/advance", "/orders/:id/advance", h.Advance, "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			if tt.body != "" {
				body = []byte(tt.body)
			}
			resp := performRequest(t, http.MethodPost, tt.route, tt.path, tt.handler, body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAdminHandlerKitchenLoad(t *testing.T) {
	facade := &testhelpers.RestaurantFacadeStub{}
	h := NewAdminHandler(facade, facade)

	resp := performRequest(t, http.MethodGet, "/load", "/load", h.KitchenLoad, nil, nil)
	if load := decode[dto.KitchenLoadResponse](t, resp); load.Load != "medium" || load.Pinned {
		t.Fatalf("unexpected initial load %+v", load)
	}

	resp = performRequest(t, http.MethodPut, "/load", "/load", h.SetKitchenLoad, []byte(`{"load":"high"}`), jsonHeaders)
	if load := decode[dto.KitchenLoadResponse](t, resp); load.Load != "high" || !load.Pinned || load.Message == "" {
		t.Fatalf("expected pinned high load, got %+v", load)
	}

	resp = performRequest(t, http.MethodPut, "/load", "/load", h.SetKitchenLoad, []byte(`{"pinned":false}`), jsonHeaders)
	if load := decode[dto.KitchenLoadResponse](t, resp); load.Pinned {
		t.Fatalf("expected load to be released, got %+v", load)
	}

	resp = performRequest(t, http.MethodPut, "/load", "/load", h.SetKitchenLoad, []byte(`{"load":"extreme"}`), jsonHeaders)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestAdminHandlerDashboardAndFeedback(t *testing.T) {
	var gotLimit = -1
	facade := &testhelpers.RestaurantFacadeStub{
		DashboardFn: func(context.Context) (*model.DashboardMetrics, error) {
			return &model.DashboardMetrics{TotalOrders: 2, TotalRevenue: 398}, nil
		},
		FeedbackFn: func(_ context.Context, limit int) ([]model.Feedback, error) {
			gotLimit = limit
			return []model.Feedback{{ID: "f1", Rating: 5}}, nil
		},
	}
	h := NewAdminHandler(facade, facade)

	resp := performRequest(t, http.MethodGet, "/dashboard", "/dashboard", h.Dashboard, nil, nil)
	if metrics := decode[model.DashboardMetrics](t, resp); metrics.TotalOrders != 2 || metrics.TotalRevenue != 398 {
		t.Fatalf("unexpected metrics %+v", metrics)
	}

	resp = performRequest(t, http.MethodGet, "/feedback", "/feedback?limit=10", h.Feedback, nil, nil)
	if resp.Code != http.StatusOK || gotLimit != 10 {
		t.Fatalf("unexpected feedback call %d limit=%d", resp.Code, gotLimit)
	}

	resp = performRequest(t, http.MethodGet, "/feedback", "/feedback?limit=abc", h.Feedback, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", resp.Code)
	}
}

func TestAdminHandlerStream(t *testing.T) {
	facade := &testhelpers.RestaurantFacadeStub{}
	resp := performRequest(t, http.MethodGet, "/stream", "/stream", NewAdminHandler(facade, facade).Stream, nil, nil)
	if got := resp.Header().Get("X-Stream-Key"); got != stream.AllOrders {
		t.Fatalf("expected wildcard subscription, got %q", got)
	}
}

func TestFeedbackHandlerSubmit(t *testing.T) {
	facade := &testhelpers.RestaurantFacadeStub{SubmitFn: func(_ context.Context, fb model.Feedback) (*model.Feedback, error) {
		if fb.Rating == 0 {
			return nil, domainErrors.ErrInvalidFeedback
		}
		fb.ID = "f1"
		return &fb, nil
	}}
	h := NewFeedbackHandler(facade)

	resp := performRequest(t, http.MethodPost, "/feedback", "/feedback", h.Submit, []byte(`{"name":"Asha","rating":4,"comment":"great"}`), jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if fb := decode[model.Feedback](t, resp); fb.ID != "f1" || fb.Name != "Asha" {
		t.Fatalf("unexpected feedback %+v", fb)
	}

	resp = performRequest(t, http.MethodPost, "/feedback", "/feedback", h.Submit, []byte(`{"name":"Asha"}`), jsonHeaders)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(&testhelpers.RestaurantFacadeStub{}).Check, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	facade := &testhelpers.RestaurantFacadeStub{HealthErr: domainErrors.ErrPersistenceUnavailable}
	resp = performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(facade).Check, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
