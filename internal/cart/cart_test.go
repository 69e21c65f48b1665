package cart

import (
	"testing"

	"farm-market/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	carrot = domain.Product{ID: 1, Name: "Carrot", Category: "Vegetables", Price: decimal.NewFromInt(500), ImageURL: "carrot.png"}
	leeks  = domain.Product{ID: 2, Name: "Leeks", Category: "Vegetables", Price: decimal.NewFromInt(300)}
)

func TestAdd_MergesRepeatedProduct(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		c := New()
		for i := 0; i < n; i++ {
			c.Add(carrot)
		}
		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, n, lines[0].Quantity)
		assert.Equal(t, uint64(1), lines[0].ProductID)
	}
}

func TestAdd_SnapshotsPriceAndKeepsOrder(t *testing.T) {
	c := New()
	first := c.Add(carrot)
	_, err := uuid.Parse(first.ID)
	assert.NoError(t, err)

	c.Add(leeks)

	repriced := carrot
	repriced.Price = decimal.NewFromInt(900)
	again := c.Add(repriced)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, decimal.NewFromInt(500).Equal(again.Price))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Carrot", lines[0].Name)
	assert.Equal(t, "Leeks", lines[1].Name)
	assert.Equal(t, "carrot.png", lines[0].ImageURL)
}

func TestSetQuantity_ClampsToOne(t *testing.T) {
	c := New()
	l := c.Add(carrot)

	for _, q := range []int{0, -1, -100} {
		got, err := c.SetQuantity(l.ID, q)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Quantity)
	}
	got, err := c.SetQuantity(l.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)

	_, err = c.SetQuantity("missing", 2)
	assert.ErrorIs(t, err, ErrLineNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetQuantityInput(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{input: "3", want: 3},
		{input: " 12 ", want: 12},
		{input: "", want: 1},
		{input: "abc", want: 1},
		{input: "0", want: 1},
		{input: "-4", want: 1},
		{input: "2.7", want: 2},
		{input: "NaN", want: 1},
		{input: "1e40", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := New()
			l := c.Add(carrot)
			got, err := c.SetQuantityInput(l.ID, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Quantity)
		})
	}
}

func TestRemove(t *testing.T) {
	c := New()
	a := c.Add(carrot)
	c.Add(leeks)

	require.NoError(t, c.Remove(a.ID))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "Leeks", c.Lines()[0].Name)
	assert.ErrorIs(t, c.Remove(a.ID), ErrLineNotFound)

	again := c.Add(carrot)
	assert.NotEqual(t, a.ID, again.ID)
	assert.Equal(t, 1, again.Quantity)
}

func TestTotal(t *testing.T) {
	c := New()
	assert.True(t, decimal.Zero.Equal(c.Total()))

	c.Add(carrot)
	c.Add(carrot)
	c.Add(leeks)
	assert.True(t, decimal.NewFromInt(1300).Equal(c.Total()), c.Total().String())

	c.Add(domain.Product{ID: 3, Name: "Beans", Price: decimal.RequireFromString("0.1")})
	c.Add(domain.Product{ID: 4, Name: "Peas", Price: decimal.RequireFromString("0.2")})
	assert.Equal(t, "1300.3", c.Total().String())
}

func TestSnapshotAndClear(t *testing.T) {
	c := New()
	c.Add(carrot)
	c.Add(carrot)
	c.Add(leeks)

	snap := c.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, domain.OrderLine{ProductID: 1, ProductName: "Carrot", Category: "Vegetables", Price: carrot.Price, Quantity: 2, ImageURL: "carrot.png"}, snap[0])
	assert.True(t, domain.Subtotal(snap).Equal(c.Total()))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Lines())
	assert.Empty(t, c.Snapshot())
}
