package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/storefront/internal/catalog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mocks ---

type mockGateway struct {
	placeOrderFn func(ctx context.Context, req catalog.OrderRequest) (*catalog.PlaceOrderResponse, error)
	calls        int
}

func (m *mockGateway) PlaceOrder(ctx context.Context, req catalog.OrderRequest) (*catalog.PlaceOrderResponse, error) {
	m.calls++
	return m.placeOrderFn(ctx, req)
}

type navCall struct {
	viewID uuid.UUID
	nav    Navigation
}

type mockNavigator struct {
	calls []navCall
	err   error
}

func (m *mockNavigator) Navigate(ctx context.Context, viewID uuid.UUID, nav Navigation) error {
	m.calls = append(m.calls, navCall{viewID: viewID, nav: nav})
	return m.err
}

// --- Helpers ---

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return zap.New(core), logs
}

func testOrder() catalog.OrderRequest {
	return catalog.OrderRequest{
		UserID: "u-1",
		Items: []catalog.LineItem{{
			ItemID: "itm-1", Item: "Veg Thali", Quantity: 1,
			TotalPrice: catalog.NewMoney(100), Customizations: []catalog.Customization{},
		}},
	}
}

func respond(status int, body string) func(context.Context, catalog.OrderRequest) (*catalog.PlaceOrderResponse, error) {
	return func(context.Context, catalog.OrderRequest) (*catalog.PlaceOrderResponse, error) {
		resp := &catalog.PlaceOrderResponse{StatusCode: status, Body: []byte(body)}
		var env struct {
			Order json.RawMessage `json:"order"`
		}
		if json.Unmarshal([]byte(body), &env) == nil {
			resp.Order = env.Order
		}
		return resp, nil
	}
}

// --- Tests ---

func TestSubmit_CreatedNavigatesWithOrder(t *testing.T) {
	gw := &mockGateway{placeOrderFn: respond(http.StatusCreated, `{"order":{"_id":"ord-1","status":"placed"}}`)}
	nav := &mockNavigator{}
	log, logs := observedLogger()
	s := NewSubmitter(gw, nav, time.Second, log)
	viewID := uuid.New()

	placement, err := s.Submit(context.Background(), viewID, testOrder())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if placement.Route != "/cartpage" {
		t.Errorf("route: got %q", placement.Route)
	}
	if string(placement.Order) != `{"_id":"ord-1","status":"placed"}` {
		t.Errorf("order: got %s", placement.Order)
	}

	if len(nav.calls) != 1 {
		t.Fatalf("navigations: got %d, want 1", len(nav.calls))
	}
	if nav.calls[0].viewID != viewID {
		t.Errorf("navigated view: got %s, want %s", nav.calls[0].viewID, viewID)
	}
	if string(nav.calls[0].nav.Order) != string(placement.Order) {
		t.Errorf("navigation payload: got %s", nav.calls[0].nav.Order)
	}
	if logs.FilterMessage("order placed successfully").Len() != 1 {
		t.Error("expected success log entry")
	}
}

func TestSubmit_BadRequestDoesNotNavigate(t *testing.T) {
	gw := &mockGateway{placeOrderFn: respond(http.StatusBadRequest, `{"message":"invalid cart"}`)}
	nav := &mockNavigator{}
	log, logs := observedLogger()
	s := NewSubmitter(gw, nav, time.Second, log)

	_, err := s.Submit(context.Background(), uuid.New(), testOrder())

	var se *SubmissionError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SubmissionError, got %v", err)
	}
	if se.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d", se.StatusCode)
	}
	if se.Retryable {
		t.Error("4xx should not be retryable")
	}
	if len(nav.calls) != 0 {
		t.Errorf("navigations: got %d, want 0", len(nav.calls))
	}

	entries := logs.FilterMessage("error placing order").All()
	if len(entries) != 1 {
		t.Fatalf("failure log entries: got %d, want 1", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Errorf("log level: got %s", entries[0].Level)
	}
	if got := entries[0].ContextMap()["status"]; got != int64(http.StatusBadRequest) {
		t.Errorf("logged status: got %v", got)
	}
}

func TestSubmit_OKIsNotCreated(t *testing.T) {
	gw := &mockGateway{placeOrderFn: respond(http.StatusOK, `{"order":{"_id":"ord-2"}}`)}
	nav := &mockNavigator{}
	s := NewSubmitter(gw, nav, time.Second, zap.NewNop())

	if _, err := s.Submit(context.Background(), uuid.New(), testOrder()); err == nil {
		t.Fatal("200 must not count as success")
	}
	if len(nav.calls) != 0 {
		t.Error("200 must not navigate")
	}
}

func TestSubmit_ServerErrorIsRetryable(t *testing.T) {
	gw := &mockGateway{placeOrderFn: respond(http.StatusServiceUnavailable, ``)}
	s := NewSubmitter(gw, &mockNavigator{}, time.Second, zap.NewNop())

	_, err := s.Submit(context.Background(), uuid.New(), testOrder())

	var se *SubmissionError
	if !errors.As(err, &se) || !se.Retryable {
		t.Fatalf("expected retryable SubmissionError, got %v", err)
	}
}

func TestSubmit_TransportErrorLoggedAndRetryable(t *testing.T) {
	netErr := errors.New("connection refused")
	gw := &mockGateway{placeOrderFn: func(context.Context, catalog.OrderRequest) (*catalog.PlaceOrderResponse, error) {
		return nil, netErr
	}}
	nav := &mockNavigator{}
	log, logs := observedLogger()
	s := NewSubmitter(gw, nav, time.Second, log)

	_, err := s.Submit(context.Background(), uuid.New(), testOrder())

	if !errors.Is(err, netErr) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	var se *SubmissionError
	if !errors.As(err, &se) || !se.Retryable || se.StatusCode != 0 {
		t.Errorf("submission error: got %+v", se)
	}
	if logs.FilterMessage("network error placing order").Len() != 1 {
		t.Error("expected transport failure to be logged")
	}
	if gw.calls != 1 {
		t.Errorf("gateway calls: got %d, want exactly 1 (no retries)", gw.calls)
	}
	if len(nav.calls) != 0 {
		t.Error("transport failure must not navigate")
	}
}

func TestSubmit_AppliesTimeout(t *testing.T) {
	gw := &mockGateway{placeOrderFn: func(ctx context.Context, _ catalog.OrderRequest) (*catalog.PlaceOrderResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	s := NewSubmitter(gw, &mockNavigator{}, 20*time.Millisecond, zap.NewNop())

	start := time.Now()
	_, err := s.Submit(context.Background(), uuid.New(), testOrder())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout not applied")
	}
}

func TestSubmit_NavigationFailureStillPlaced(t *testing.T) {
	gw := &mockGateway{placeOrderFn: respond(http.StatusCreated, `{"order":{"_id":"ord-3"}}`)}
	nav := &mockNavigator{err: errors.New("no listeners")}
	log, logs := observedLogger()
	s := NewSubmitter(gw, nav, time.Second, log)

	placement, err := s.Submit(context.Background(), uuid.New(), testOrder())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if placement == nil {
		t.Fatal("expected placement")
	}
	if logs.FilterMessage("navigation not delivered").Len() != 1 {
		t.Error("expected navigation failure to be logged")
	}
}
