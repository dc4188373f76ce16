package cart_test

import (
	"path/filepath"
	"testing"

	"storefront/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")
	store, err := cart.NewGormStore(path)
	require.NoError(t, err)

	lines := []cart.Line{
		{ProductID: "prod-a", Title: "Product A", Price: decimal.NewFromFloat(10.00), Quantity: 2, MaxQuantity: 5},
		{ProductID: "prod-b", Title: "Product B", Price: decimal.NewFromFloat(5.50), Quantity: 1, MaxQuantity: 3},
	}
	require.NoError(t, store.Save(lines))

	// A second store over the same file sees the same lines, as after a
	// process restart.
	reopened, err := cart.NewGormStore(path)
	require.NoError(t, err)
	loaded, err := reopened.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	byID := map[string]cart.Line{}
	for _, line := range loaded {
		byID[line.ProductID] = line
	}
	assert.Equal(t, 2, byID["prod-a"].Quantity)
	assert.True(t, decimal.NewFromFloat(5.50).Equal(byID["prod-b"].Price))
}

func TestGormStore_SaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")
	store, err := cart.NewGormStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Save([]cart.Line{
		{ProductID: "prod-a", Title: "Product A", Price: decimal.NewFromFloat(10.00), Quantity: 2, MaxQuantity: 5},
	}))
	require.NoError(t, store.Save(nil))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
