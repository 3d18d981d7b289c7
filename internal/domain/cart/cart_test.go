package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id int64, price string) CartItem {
	return CartItem{
		ID:       id,
		Title:    "Product",
		Price:    decimal.RequireFromString(price),
		Image:    "https://cdn.dummyjson.com/p.png",
		Quantity: 1,
	}
}

func TestNewCartItem(t *testing.T) {
	t.Run("creates item with quantity 1", func(t *testing.T) {
		it, err := NewCartItem(1, "  Essence Mascara  ", decimal.RequireFromString("9.99"), "a.png")
		require.NoError(t, err)
		assert.Equal(t, "Essence Mascara", it.Title)
		assert.Equal(t, 1, it.Quantity)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewCartItem(0, "x", decimal.Zero, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = NewCartItem(1, " ", decimal.Zero, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = NewCartItem(1, "x", decimal.NewFromInt(-1), "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestParseAddMode(t *testing.T) {
	mode, err := ParseAddMode("")
	require.NoError(t, err)
	assert.Equal(t, AddModeMerge, mode)

	mode, err = ParseAddMode("APPEND")
	require.NoError(t, err)
	assert.Equal(t, AddModeAppend, mode)

	_, err = ParseAddMode("replace")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCart_Add(t *testing.T) {
	t.Run("append mode keeps one entry per add", func(t *testing.T) {
		c := New()
		var err error
		for range 3 {
			c, err = c.Add(item(1, "10"), AddModeAppend)
			require.NoError(t, err)
		}
		assert.Equal(t, 3, c.Len())
	})

	t.Run("merge mode increments quantity", func(t *testing.T) {
		c := New()
		var err error
		for range 3 {
			c, err = c.Add(item(1, "10"), AddModeMerge)
			require.NoError(t, err)
		}
		require.Equal(t, 1, c.Len())
		assert.Equal(t, 3, c.Items[0].Quantity)
	})

	t.Run("zero quantity counts as one", func(t *testing.T) {
		it := item(2, "5")
		it.Quantity = 0
		c, err := New().Add(it, AddModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Items[0].Quantity)
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		c, _ := New().Add(item(3, "1"), AddModeMerge)
		c, _ = c.Add(item(1, "1"), AddModeMerge)
		c, _ = c.Add(item(2, "1"), AddModeMerge)
		assert.Equal(t, []int64{3, 1, 2}, ids(c))
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		before := New(item(1, "10"))
		after, err := before.Add(item(1, "10"), AddModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 1, before.Items[0].Quantity)
		assert.Equal(t, 2, after.Items[0].Quantity)
	})

	t.Run("rejects invalid item", func(t *testing.T) {
		c := New(item(1, "10"))
		next, err := c.Add(CartItem{ID: -1, Title: "x"}, AddModeMerge)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Equal(t, c, next)
	})
}

func TestCart_Remove(t *testing.T) {
	t.Run("removes every entry with the id", func(t *testing.T) {
		c := New(item(1, "1"), item(2, "1"), item(1, "1"))
		c = c.Remove(1)
		assert.Equal(t, []int64{2}, ids(c))
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		c := New(item(1, "1"))
		assert.Equal(t, []int64{1}, ids(c.Remove(99)))
	})

	t.Run("empty cart", func(t *testing.T) {
		c := New().Remove(1)
		assert.NotNil(t, c.Items)
		assert.True(t, c.IsEmpty())
	})
}

func TestCart_Quantity(t *testing.T) {
	t.Run("increment has no upper bound", func(t *testing.T) {
		c := New(item(1, "1"))
		var err error
		for range 5 {
			c, err = c.IncrementQuantity(1)
			require.NoError(t, err)
		}
		assert.Equal(t, 6, c.Items[0].Quantity)
	})

	t.Run("decrement floors at one", func(t *testing.T) {
		it := item(1, "1")
		it.Quantity = 2
		c, err := New(it).DecrementQuantity(1)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Items[0].Quantity)

		c, err = c.DecrementQuantity(1)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Items[0].Quantity)
	})

	t.Run("applies to duplicate entries", func(t *testing.T) {
		c := New(item(1, "1"), item(1, "1"))
		c, err := c.IncrementQuantity(1)
		require.NoError(t, err)
		assert.Equal(t, 2, c.Items[0].Quantity)
		assert.Equal(t, 2, c.Items[1].Quantity)
	})

	t.Run("set quantity", func(t *testing.T) {
		c, err := New(item(1, "1")).SetQuantity(1, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, c.Items[0].Quantity)

		_, err = c.SetQuantity(1, 0)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("absent id is not found", func(t *testing.T) {
		c := New(item(1, "1"))

		_, err := c.IncrementQuantity(2)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = c.DecrementQuantity(2)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = c.SetQuantity(2, 3)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCart_ContainsAndClear(t *testing.T) {
	c := New(item(1, "1"), item(4, "1"))

	assert.True(t, c.Contains(4))
	assert.False(t, c.Contains(2))

	found, ok := c.Find(4)
	assert.True(t, ok)
	assert.Equal(t, int64(4), found.ID)

	cleared := c.Clear()
	assert.True(t, cleared.IsEmpty())
	assert.False(t, cleared.Contains(1))
	assert.Equal(t, 2, c.Len())
}

func ids(c Cart) []int64 {
	out := make([]int64, 0, c.Len())
	for _, it := range c.Items {
		out = append(out, it.ID)
	}
	return out
}
