package repositories_test

import (
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every lookup that can miss wraps the shared sentinel so callers can
// tell an absent row apart from a transport failure with errors.Is.
func TestNotFoundSentinelIsMatchable(t *testing.T) {
	products := repositories.NewMockProductRepository()
	_, err := products.GetBySlug("no-such-product")
	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	err = products.DecrementStock("no-such-id", 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	categories := repositories.NewMockCategoryRepository()
	_, err = categories.GetBySlug("no-such-category")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	orders := repositories.NewMockOrderRepository()
	_, err = orders.GetBySlugForUser("no-such-order", "user-1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	users := repositories.NewMockUserRepository()
	_, err = users.GetByID("no-such-user")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	creds := repositories.NewMockCredentialRepository()
	_, err = creds.GetByEmail("nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestNotFoundIsDistinctFromOtherFailures(t *testing.T) {
	products := repositories.NewMockProductRepository()
	require.NoError(t, products.Create(&models.Product{ID: "p1", Slug: "p1", Quantity: 1}))

	// Insufficient stock is a real failure, not a missing row.
	err := products.DecrementStock("p1", 5)
	require.Error(t, err)
	assert.False(t, errors.Is(err, repositories.ErrNotFound))
}
