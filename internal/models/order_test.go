package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderItems_Total(t *testing.T) {
	items := OrderItems{
		{ProductID: "a", Quantity: 2, Price: 1999},
		{ProductID: "b", Quantity: 1, Price: 500},
	}
	total, err := items.Total()
	require.NoError(t, err)
	assert.Equal(t, Money(4498), total)

	total, err = OrderItems(nil).Total()
	require.NoError(t, err)
	assert.Equal(t, Money(0), total)
}

func TestOrderItems_TotalOverflow(t *testing.T) {
	huge := OrderItems{{ProductID: "a", Quantity: 3, Price: math.MaxInt64 / 2}}
	_, err := huge.Total()
	assert.ErrorIs(t, err, ErrOverflow)

	twoLines := OrderItems{
		{ProductID: "a", Quantity: 1, Price: math.MaxInt64 - 10},
		{ProductID: "b", Quantity: 1, Price: 11},
	}
	_, err = twoLines.Total()
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestOrderItems_ValueScan(t *testing.T) {
	items := OrderItems{{ProductID: "a", ProductName: "Mouse", Quantity: 2, Price: 2550}}

	v, err := items.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"a","productName":"Mouse","quantity":2,"price":25.50}]`, string(v.([]byte)))

	var fromBytes OrderItems
	require.NoError(t, fromBytes.Scan(v))
	assert.Equal(t, items, fromBytes)

	var fromString OrderItems
	require.NoError(t, fromString.Scan(string(v.([]byte))))
	assert.Equal(t, items, fromString)

	empty, err := OrderItems(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), empty)

	var bad OrderItems
	assert.Error(t, bad.Scan(42))
}

func TestProductPatch_Apply(t *testing.T) {
	p := Product{SKU: "A", Name: "Old", Price: 100, Quantity: 1}
	name := "New"
	qty := 0
	patch := ProductPatch{Name: &name, Quantity: &qty}
	assert.False(t, patch.IsEmpty())

	patch.Apply(&p)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, "A", p.SKU)
	assert.Equal(t, Money(100), p.Price)

	version := 3
	assert.True(t, ProductPatch{Version: &version}.IsEmpty())
}
