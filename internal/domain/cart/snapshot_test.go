package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "cart:abc", SnapshotKey("", "abc"))
	assert.Equal(t, "shop:abc", SnapshotKey("shop", "abc"))
}

func TestEncodeSnapshot_EmptyCartIsArray(t *testing.T) {
	data, err := EncodeSnapshot(Cart{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestDecodeSnapshot(t *testing.T) {
	t.Run("round trips quantity", func(t *testing.T) {
		c := New(CartItem{ID: 1, Title: "Mascara", Price: decimal.RequireFromString("9.99"), Image: "a.png", Quantity: 3})
		data, err := EncodeSnapshot(c)
		require.NoError(t, err)

		got, err := DecodeSnapshot(data)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, 3, got.Items[0].Quantity)
		assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("9.99")))
	})

	t.Run("legacy entries without quantity", func(t *testing.T) {
		got, err := DecodeSnapshot([]byte(`[{"id":5,"title":"Lamp","price":19.5,"image":"l.png"}]`))
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, 1, got.Items[0].Quantity)
		assert.Equal(t, "19.5", got.Items[0].Price.String())
	})

	t.Run("null decodes to empty", func(t *testing.T) {
		got, err := DecodeSnapshot([]byte(`null`))
		require.NoError(t, err)
		assert.NotNil(t, got.Items)
		assert.True(t, got.IsEmpty())
	})

	t.Run("corrupt data", func(t *testing.T) {
		_, err := DecodeSnapshot([]byte(`{not json`))
		assert.Error(t, err)
	})
}
