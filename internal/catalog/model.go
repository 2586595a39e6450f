package catalog

import (
	"encoding/json"
	"strings"

	"github.com/kiwari-pos/storefront/internal/enum"
	"github.com/shopspring/decimal"
)

// Money is a price that travels as a bare JSON number ("price": 120.5).
// Decoding also accepts quoted numbers.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps an integer amount.
func NewMoney(v int64) Money {
	return Money{decimal.NewFromInt(v)}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Decimal.UnmarshalJSON(b)
}

// Option is one choice inside a customization group.
type Option struct {
	Name      string `json:"name"`
	Detail    string `json:"detail"`
	ExtraRate Money  `json:"extraRate"`
}

// Key identifies an option within its group. Options are compared by name,
// never by identity.
func (o Option) Key() string {
	return o.Name
}

// UnmarshalJSON accepts the option text under either "detail" or "description".
func (o *Option) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name        string `json:"name"`
		Detail      string `json:"detail"`
		Description string `json:"description"`
		ExtraRate   Money  `json:"extraRate"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	o.Name = raw.Name
	o.Detail = raw.Detail
	if o.Detail == "" {
		o.Detail = raw.Description
	}
	o.ExtraRate = raw.ExtraRate
	return nil
}

// CustomizationGroup is one step of the customization dialog.
type CustomizationGroup struct {
	Title   string   `json:"title"`
	Options []Option `json:"options"`
}

// Find returns the option whose name equals name.
func (g CustomizationGroup) Find(name string) (Option, bool) {
	for _, o := range g.Options {
		if o.Key() == name {
			return o, true
		}
	}
	return Option{}, false
}

// Item is the detail record returned by the gateway.
type Item struct {
	ID             string               `json:"_id"`
	ItemName       string               `json:"itemName"`
	Price          *Money               `json:"price"`
	ItemType       string               `json:"itemType"`
	SpiceLevel     string               `json:"spiceLevel"`
	Ingredients    string               `json:"ingredients"`
	ImageURL       string               `json:"imageUrl"`
	Customizations []CustomizationGroup `json:"customizations"`
}

func (i Item) IsVeg() bool {
	return i.ItemType == enum.ItemTypeVeg
}

// Steps is the number of customization groups.
func (i Item) Steps() int {
	return len(i.Customizations)
}

// IngredientList splits the comma-separated ingredients and trims each entry.
func (i Item) IngredientList() []string {
	if strings.TrimSpace(i.Ingredients) == "" {
		return []string{}
	}
	parts := strings.Split(i.Ingredients, ",")
	out := make([]string, len(parts))
	for n, p := range parts {
		out[n] = strings.TrimSpace(p)
	}
	return out
}

// Category is one tile of the category grid.
type Category struct {
	CategoryName string `json:"categoryName"`
	Image        string `json:"image"`
}

// CleanImageURL strips the first "/" from the stored image path so it
// resolves relative to the asset host.
func (c Category) CleanImageURL() string {
	return strings.Replace(c.Image, "/", "", 1)
}

// Profile is the signed-in customer as returned by GET /api/customer/.
type Profile struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Customization is a chosen option as it appears in an order line.
type Customization struct {
	Title     string `json:"title"`
	Option    string `json:"option"`
	ExtraRate Money  `json:"extraRate"`
}

// LineItem is one entry of a place-order request.
type LineItem struct {
	ItemID         string          `json:"itemId"`
	Item           string          `json:"item"`
	Quantity       int             `json:"quantity"`
	TotalPrice     Money           `json:"totalPrice"`
	Customizations []Customization `json:"customizations"`
}

// OrderRequest is the body of POST /api/place-order/.
type OrderRequest struct {
	UserID string     `json:"userId"`
	Items  []LineItem `json:"items"`
}

// PlaceOrderResponse is the raw outcome of a place-order call. Order is only
// populated when the gateway returned an {"order": ...} envelope.
type PlaceOrderResponse struct {
	StatusCode int
	Order      json.RawMessage
	Body       []byte
}
