package stream

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/tableside/internal/domain/model"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func change(orderID string, from, to model.OrderStatus) model.StatusChange {
	return model.StatusChange{OrderID: orderID, TableNumber: 2, OldStatus: from, NewStatus: to, ChangedBy: model.ActorStaff, Timestamp: time.Now()}
}

func receive(t *testing.T, ch <-chan model.StatusChange) model.StatusChange {
	t.Helper()
	select {
	case c, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		return c
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
	}
	return model.StatusChange{}
}

func TestHubDeliversToOrderAndWildcardSubscribers(t *testing.T) {
	hub := newTestHub()

	orderCh, cancelOrder := hub.Subscribe("ORD-1")
	defer cancelOrder()
	otherCh, cancelOther := hub.Subscribe("ORD-2")
	defer cancelOther()
	allCh, cancelAll := hub.Subscribe(AllOrders)
	defer cancelAll()

	if err := hub.StatusChanged(context.Background(), change("ORD-1", model.OrderStatusPending, model.OrderStatusPreparing)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := receive(t, orderCh); got.NewStatus != model.OrderStatusPreparing {
		t.Fatalf("unexpected change for order subscriber: %+v", got)
	}
	if got := receive(t, allCh); got.OrderID != "ORD-1" {
		t.Fatalf("unexpected change for wildcard subscriber: %+v", got)
	}
	select {
	case c := <-otherCh:
		t.Fatalf("unrelated subscriber received %+v", c)
	default:
	}
}

func TestHubCancelIsIdempotentAndReleases(t *testing.T) {
	hub := newTestHub()

	ch, cancel := hub.Subscribe("ORD-1")
	if hub.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.Subscribers())
	}

	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after cancel")
	}
	if hub.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", hub.Subscribers())
	}

	if err := hub.StatusChanged(context.Background(), change("ORD-1", model.OrderStatusPending, model.OrderStatusPreparing)); err != nil {
		t.Fatalf("publishing without subscribers: %v", err)
	}
}

func TestHubDropsEventsForSlowSubscribers(t *testing.T) {
	hub := newTestHub()
	hub.buffer = 1

	ch, cancel := hub.Subscribe("ORD-1")
	defer cancel()

	_ = hub.StatusChanged(context.Background(), change("ORD-1", model.OrderStatusPending, model.OrderStatusPreparing))
	_ = hub.StatusChanged(context.Background(), change("ORD-1", model.OrderStatusPreparing, model.OrderStatusReady))

	if got := receive(t, ch); got.NewStatus != model.OrderStatusPreparing {
		t.Fatalf("expected first change kept, got %+v", got)
	}
	select {
	case c := <-ch:
		t.Fatalf("expected second change dropped, got %+v", c)
	default:
	}
}

func TestHubClose(t *testing.T) {
	hub := newTestHub()
	ch, cancel := hub.Subscribe(AllOrders)

	hub.Close()
	if _, ok := <-ch; ok {
		t.Fatal("expected channel closed by hub")
	}
	cancel()

	late, lateCancel := hub.Subscribe("ORD-1")
	defer lateCancel()
	if _, ok := <-late; ok {
		t.Fatal("expected late subscription closed immediately")
	}
}

func TestServeStreamsChanges(t *testing.T) {
	hub := newTestHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, "ORD-1")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription was not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_ = hub.StatusChanged(context.Background(), model.StatusChange{OrderID: "ORD-1", NewStatus: model.OrderStatusPending})
	_ = hub.StatusChanged(context.Background(), change("ORD-1", model.OrderStatusPending, model.OrderStatusPreparing))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var placed, moved Message
	if err := conn.ReadJSON(&placed); err != nil {
		t.Fatalf("read placed: %v", err)
	}
	if err := conn.ReadJSON(&moved); err != nil {
		t.Fatalf("read moved: %v", err)
	}
	if placed.Event != "orderPlaced" || placed.Payload.NewStatus != model.OrderStatusPending {
		t.Fatalf("unexpected placed message: %+v", placed)
	}
	if moved.Event != "statusChanged" || moved.Payload.NewStatus != model.OrderStatusPreparing {
		t.Fatalf("unexpected moved message: %+v", moved)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription not released after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeRejectsPlainHTTP(t *testing.T) {
	hub := newTestHub()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	hub.Serve(rec, req, AllOrders)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-websocket request, got %d", rec.Code)
	}
	if hub.Subscribers() != 0 {
		t.Fatal("expected no subscription for failed upgrade")
	}
}

func TestModuleClosesHubOnStop(t *testing.T) {
	var hub *Hub
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(slog.New(slog.NewJSONHandler(io.Discard, nil))),
		Module,
		fx.Populate(&hub),
	)
	app.RequireStart()
	ch, _ := hub.Subscribe(AllOrders)
	app.RequireStop()

	if _, ok := <-ch; ok {
		t.Fatal("expected subscription closed on stop")
	}
}
