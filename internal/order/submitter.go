package order

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/storefront/internal/catalog"
	"github.com/kiwari-pos/storefront/internal/enum"
	"go.uber.org/zap"
)

// Gateway places orders. Satisfied by *catalog.Client.
type Gateway interface {
	PlaceOrder(ctx context.Context, req catalog.OrderRequest) (*catalog.PlaceOrderResponse, error)
}

// Navigation tells the client which screen to show next.
type Navigation struct {
	Route string          `json:"route"`
	Order json.RawMessage `json:"order"`
}

// Navigator delivers a navigation to the view that placed the order.
type Navigator interface {
	Navigate(ctx context.Context, viewID uuid.UUID, nav Navigation) error
}

// SubmissionError is any outcome of a place-order call other than 201.
type SubmissionError struct {
	StatusCode int // 0 on transport failure
	Retryable  bool
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("place order: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("place order: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Placement is a successfully placed order.
type Placement struct {
	Route string
	Order json.RawMessage
}

// Submitter sends composed carts to the gateway and reacts to the answer.
type Submitter struct {
	gateway   Gateway
	navigator Navigator
	timeout   time.Duration
	log       *zap.Logger
}

// NewSubmitter creates a Submitter. A zero timeout means the caller's context
// alone bounds the call.
func NewSubmitter(gateway Gateway, navigator Navigator, timeout time.Duration, log *zap.Logger) *Submitter {
	return &Submitter{
		gateway:   gateway,
		navigator: navigator,
		timeout:   timeout,
		log:       log.Named("order"),
	}
}

// Submit posts req once. Only HTTP 201 counts as success; it triggers
// navigation to the cart page carrying the order the gateway returned.
func (s *Submitter) Submit(ctx context.Context, viewID uuid.UUID, req catalog.OrderRequest) (*Placement, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log := s.log.With(zap.String("view_id", viewID.String()), zap.String("user_id", req.UserID))

	resp, err := s.gateway.PlaceOrder(ctx, req)
	if err != nil {
		log.Error("network error placing order", zap.Error(err))
		return nil, &SubmissionError{Retryable: true, Err: err}
	}

	if resp.StatusCode != http.StatusCreated {
		log.Error("error placing order",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", resp.Body),
		)
		return nil, &SubmissionError{
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode >= http.StatusInternalServerError,
		}
	}

	log.Info("order placed successfully", zap.ByteString("order", resp.Order))

	placement := &Placement{Route: enum.RouteCartPage, Order: resp.Order}
	if s.navigator != nil {
		nav := Navigation{Route: placement.Route, Order: placement.Order}
		if err := s.navigator.Navigate(ctx, viewID, nav); err != nil {
			log.Warn("navigation not delivered", zap.Error(err))
		}
	}
	return placement, nil
}
