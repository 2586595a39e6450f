// Package cart turns a customized item into the line items of a place-order
// request.
package cart

import (
	"errors"
	"fmt"

	"github.com/kiwari-pos/storefront/internal/catalog"
	"github.com/kiwari-pos/storefront/internal/customize"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingItem  = errors.New("item has no id")
	ErrMissingPrice = errors.New("item has no price")
)

// Quantity is always >= 1.
type Quantity int

func NewQuantity() Quantity { return 1 }

func (q Quantity) Increment() Quantity { return q + 1 }

// Decrement subtracts one but never goes below 1.
func (q Quantity) Decrement() Quantity {
	if q > 1 {
		return q - 1
	}
	return 1
}

// Valid reports whether q can be sent to the gateway.
func (q Quantity) Valid() bool { return q >= 1 }

// Label renders the counter as shown on the detail screen ("01", "12").
func (q Quantity) Label() string {
	return fmt.Sprintf("%02d", int(q))
}

// Compose builds the single line item for one add-to-cart action.
//
// totalPrice is price × quantity. Option extra rates are listed on the line
// but not added to the total. Steps without a selection are skipped.
func Compose(item *catalog.Item, qty Quantity, sel customize.Selections) ([]catalog.LineItem, error) {
	if item == nil || item.ID == "" {
		return nil, ErrMissingItem
	}
	if item.Price == nil {
		return nil, fmt.Errorf("%s: %w", item.ID, ErrMissingPrice)
	}
	if !qty.Valid() {
		qty = NewQuantity()
	}

	total := item.Price.Decimal.Mul(decimal.NewFromInt(int64(qty)))

	chosen := sel.Ordered()
	customizations := make([]catalog.Customization, len(chosen))
	for i, opt := range chosen {
		customizations[i] = catalog.Customization{
			Title:     opt.Name,
			Option:    opt.Detail,
			ExtraRate: opt.ExtraRate,
		}
	}

	return []catalog.LineItem{{
		ItemID:         item.ID,
		Item:           item.ItemName,
		Quantity:       int(qty),
		TotalPrice:     catalog.Money{Decimal: total},
		Customizations: customizations,
	}}, nil
}

// NewOrder wraps composed lines into the place-order body.
func NewOrder(userID string, lines []catalog.LineItem) catalog.OrderRequest {
	return catalog.OrderRequest{UserID: userID, Items: lines}
}
