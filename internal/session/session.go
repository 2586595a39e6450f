// Package session persists item-detail views between requests.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/storefront/internal/cart"
	"github.com/kiwari-pos/storefront/internal/catalog"
	"github.com/kiwari-pos/storefront/internal/customize"
	"github.com/kiwari-pos/storefront/internal/enum"
)

// ErrNotFound is returned for unknown or expired views.
var ErrNotFound = errors.New("view not found")

// View is the server-held state of one item detail screen.
type View struct {
	ID            uuid.UUID        `json:"id"`
	UserID        string           `json:"user_id"`
	ItemID        string           `json:"item_id"`
	Item          *catalog.Item    `json:"item"`
	Profile       *catalog.Profile `json:"profile,omitempty"`
	Message       string           `json:"message,omitempty"`
	Quantity      cart.Quantity    `json:"quantity"`
	DialogStatus  string           `json:"dialog_status"`
	Customization customize.State  `json:"customization"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewView starts a view for a freshly fetched item.
func NewView(userID string, item *catalog.Item) *View {
	now := time.Now().UTC()
	return &View{
		ID:            uuid.New(),
		UserID:        userID,
		ItemID:        item.ID,
		Item:          item,
		Quantity:      cart.NewQuantity(),
		DialogStatus:  enum.DialogClosed,
		Customization: customize.NewEngine(item.Customizations).Snapshot(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Dialog rebuilds the customization dialog from the stored state.
func (v *View) Dialog() *customize.Dialog {
	var groups []catalog.CustomizationGroup
	if v.Item != nil {
		groups = v.Item.Customizations
	}
	return customize.NewDialog(customize.Restore(groups, v.Customization), v.DialogStatus)
}

// SetDialog stores the dialog's state back on the view.
func (v *View) SetDialog(d *customize.Dialog) {
	v.DialogStatus = d.Status()
	v.Customization = d.Engine().Snapshot()
}

// Store persists views.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	Save(ctx context.Context, v *View) error
	Delete(ctx context.Context, id uuid.UUID) error
}
