package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemAccumulatesQuantity(t *testing.T) {
	cart := &Cart{UserID: 1}

	require.NoError(t, cart.AddItem(100, 2, false))
	require.NoError(t, cart.AddItem(100, 3, false))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.TotalItems())
}

func TestAddItemOverrideReplacesQuantity(t *testing.T) {
	cart := &Cart{UserID: 1}

	require.NoError(t, cart.AddItem(100, 2, false))
	require.NoError(t, cart.AddItem(100, 7, true))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	cart := &Cart{UserID: 1}

	assert.ErrorIs(t, cart.AddItem(100, 0, false), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.AddItem(100, -3, false), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.AddItem(100, 0, true), ErrInvalidQuantity)
	assert.True(t, cart.IsEmpty())
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	cart := &Cart{UserID: 1}

	require.NoError(t, cart.AddItem(300, 1, false))
	require.NoError(t, cart.AddItem(100, 1, false))
	require.NoError(t, cart.AddItem(200, 1, false))
	require.NoError(t, cart.AddItem(100, 4, false))

	require.Len(t, cart.Items, 3)
	assert.Equal(t, uint(300), cart.Items[0].ProductID)
	assert.Equal(t, uint(100), cart.Items[1].ProductID)
	assert.Equal(t, uint(200), cart.Items[2].ProductID)
}

func TestUpdateItemSetsQuantity(t *testing.T) {
	cart := &Cart{UserID: 1}
	require.NoError(t, cart.AddItem(100, 2, false))

	require.NoError(t, cart.UpdateItem(100, 9))

	assert.Equal(t, 9, cart.Items[0].Quantity)
}

func TestUpdateItemWithNonPositiveQuantityRemovesLine(t *testing.T) {
	for _, quantity := range []int{0, -5} {
		cart := &Cart{UserID: 1}
		require.NoError(t, cart.AddItem(100, 2, false))
		require.NoError(t, cart.AddItem(200, 1, false))

		require.NoError(t, cart.UpdateItem(100, quantity))

		require.Len(t, cart.Items, 1)
		assert.Equal(t, uint(200), cart.Items[0].ProductID)
	}
}

func TestUpdateItemMissingLine(t *testing.T) {
	cart := &Cart{UserID: 1}

	assert.ErrorIs(t, cart.UpdateItem(999, 3), ErrItemNotFound)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	cart := &Cart{UserID: 1}
	require.NoError(t, cart.AddItem(100, 2, false))

	cart.RemoveItem(100)
	cart.RemoveItem(100)
	cart.RemoveItem(999)

	assert.True(t, cart.IsEmpty())
}

func TestClear(t *testing.T) {
	cart := &Cart{UserID: 1}
	require.NoError(t, cart.AddItem(100, 2, false))
	require.NoError(t, cart.AddItem(200, 1, false))

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.TotalItems())
}

func TestNoDuplicateLinesAfterMixedOps(t *testing.T) {
	cart := &Cart{UserID: 1}
	require.NoError(t, cart.AddItem(100, 1, false))
	require.NoError(t, cart.AddItem(100, 2, true))
	require.NoError(t, cart.UpdateItem(100, 4))
	require.NoError(t, cart.AddItem(100, 1, false))

	seen := map[uint]bool{}
	for _, item := range cart.Items {
		assert.False(t, seen[item.ProductID], "duplicate line for product %d", item.ProductID)
		seen[item.ProductID] = true
		assert.Positive(t, item.Quantity)
	}
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}
