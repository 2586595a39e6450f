package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiwari-pos/storefront/internal/enum"
	"github.com/kiwari-pos/storefront/internal/order"
)

// ErrNoSubscribers means no socket is watching the view.
var ErrNoSubscribers = errors.New("no socket subscribed to view")

// Navigator pushes navigation events to the sockets of a view.
// It implements order.Navigator.
type Navigator struct {
	hub *Hub
}

func NewNavigator(hub *Hub) *Navigator {
	return &Navigator{hub: hub}
}

// Navigate sends {"type":"navigate","payload":{"route":...,"order":...}}.
func (n *Navigator) Navigate(ctx context.Context, viewID uuid.UUID, nav order.Navigation) error {
	if n.hub.Subscribers(viewID) == 0 {
		return ErrNoSubscribers
	}
	payload, err := json.Marshal(nav)
	if err != nil {
		return fmt.Errorf("marshal navigation: %w", err)
	}
	return n.hub.BroadcastToView(ctx, viewID, Event{Type: enum.EventNavigate, Payload: payload})
}
