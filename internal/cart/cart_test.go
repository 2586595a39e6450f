package cart_test

import (
	"encoding/json"
	"testing"

	"github.com/kiwari-pos/storefront/internal/cart"
	"github.com/kiwari-pos/storefront/internal/catalog"
	"github.com/kiwari-pos/storefront/internal/customize"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priced(v int64) *catalog.Money {
	m := catalog.NewMoney(v)
	return &m
}

func TestQuantity_DecrementNeverBelowOne(t *testing.T) {
	for start := 1; start <= 20; start++ {
		q := cart.Quantity(start)
		for i := 0; i < start+5; i++ {
			q = q.Decrement()
			require.GreaterOrEqual(t, int(q), 1, "start=%d step=%d", start, i)
		}
		assert.Equal(t, cart.Quantity(1), q)
	}
}

func TestQuantity_IncrementAndLabel(t *testing.T) {
	q := cart.NewQuantity()
	assert.Equal(t, "01", q.Label())

	for i := 0; i < 11; i++ {
		q = q.Increment()
	}
	assert.Equal(t, cart.Quantity(12), q)
	assert.Equal(t, "12", q.Label())
}

func TestCompose_EmptySelections(t *testing.T) {
	item := &catalog.Item{ID: "itm-1", ItemName: "Veg Thali", Price: priced(100)}

	lines, err := cart.Compose(item, 3, customize.Selections{})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, "itm-1", line.ItemID)
	assert.Equal(t, "Veg Thali", line.Item)
	assert.Equal(t, 3, line.Quantity)
	assert.True(t, line.TotalPrice.Equal(decimal.NewFromInt(300)), "total: %s", line.TotalPrice)
	assert.Empty(t, line.Customizations)
	assert.NotNil(t, line.Customizations, "customizations must encode as [] not null")
}

func TestCompose_SkippedStep(t *testing.T) {
	item := &catalog.Item{
		ID: "itm-2", ItemName: "Wrap", Price: priced(80),
		Customizations: []catalog.CustomizationGroup{
			{Title: "Group 1", Options: []catalog.Option{{Name: "A", Detail: "option a", ExtraRate: catalog.NewMoney(20)}}},
			{Title: "Group 2", Options: []catalog.Option{{Name: "B", Detail: "option b"}}},
		},
	}
	engine := customize.NewEngine(item.Customizations)
	_, err := engine.SelectByName("A")
	require.NoError(t, err)
	engine.Advance()
	require.True(t, engine.Advance(), "finish at step 2")

	lines, err := cart.Compose(item, 1, engine.Selections())
	require.NoError(t, err)

	got := lines[0].Customizations
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "option a", got[0].Option)
	assert.Equal(t, "20", got[0].ExtraRate.String())
}

func TestCompose_ExtraRatesExcludedFromTotal(t *testing.T) {
	item := &catalog.Item{ID: "itm-3", ItemName: "Biryani", Price: priced(250)}
	sel := customize.Selections{
		1: {Name: "Large", ExtraRate: catalog.NewMoney(60)},
		2: {Name: "Raita", ExtraRate: catalog.NewMoney(30)},
	}

	for q := 1; q <= 5; q++ {
		lines, err := cart.Compose(item, cart.Quantity(q), sel)
		require.NoError(t, err)
		want := decimal.NewFromInt(int64(250 * q))
		assert.True(t, lines[0].TotalPrice.Equal(want), "q=%d: got %s want %s", q, lines[0].TotalPrice, want)
	}
}

func TestCompose_StepOrder(t *testing.T) {
	item := &catalog.Item{ID: "itm-4", ItemName: "Pizza", Price: priced(300)}
	sel := customize.Selections{
		4: {Name: "Olives"},
		2: {Name: "Thin crust"},
		1: {Name: "Medium"},
	}

	lines, err := cart.Compose(item, 1, sel)
	require.NoError(t, err)

	var titles []string
	for _, c := range lines[0].Customizations {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"Medium", "Thin crust", "Olives"}, titles)
}

func TestCompose_FractionalPrice(t *testing.T) {
	price := catalog.Money{Decimal: decimal.RequireFromString("99.5")}
	item := &catalog.Item{ID: "itm-5", ItemName: "Lassi", Price: &price}

	lines, err := cart.Compose(item, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, "298.5", lines[0].TotalPrice.String())
}

func TestCompose_MissingPrice(t *testing.T) {
	_, err := cart.Compose(&catalog.Item{ID: "itm-6"}, 1, nil)
	assert.ErrorIs(t, err, cart.ErrMissingPrice)
}

func TestCompose_MissingItem(t *testing.T) {
	_, err := cart.Compose(nil, 1, nil)
	assert.ErrorIs(t, err, cart.ErrMissingItem)
}

func TestNewOrder_WireShape(t *testing.T) {
	item := &catalog.Item{ID: "itm-1", ItemName: "Veg Thali", Price: priced(100)}
	lines, err := cart.Compose(item, 2, customize.Selections{
		1: {Name: "Extra rice", Detail: "one bowl", ExtraRate: catalog.NewMoney(25)},
	})
	require.NoError(t, err)

	body, err := json.Marshal(cart.NewOrder("u-42", lines))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"userId": "u-42",
		"items": [{
			"itemId": "itm-1",
			"item": "Veg Thali",
			"quantity": 2,
			"totalPrice": 200,
			"customizations": [{"title": "Extra rice", "option": "one bowl", "extraRate": 25}]
		}]
	}`, string(body))
}
