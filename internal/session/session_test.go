package session_test

import (
	"fmt"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestStore_BootstrapCreatesMissingUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	store := session.NewStore(mockRepo)

	assert.True(t, store.Resolving())

	notFound := fmt.Errorf("user with ID auth-1: %w", repositories.ErrNotFound)
	mockRepo.On("GetByID", "auth-1").Return(nil, notFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	store.Bootstrap(func() (*session.Identity, error) {
		return &session.Identity{ID: "auth-1", Email: "test@example.com"}, nil
	})

	assert.False(t, store.Resolving())
	identity, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, "auth-1", identity.ID)

	user := store.User()
	require.NotNil(t, user)
	assert.Equal(t, "auth-1", user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "customer", user.Type)
	mockRepo.AssertExpectations(t)
}

func TestStore_BootstrapFetchesExistingUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	store := session.NewStore(mockRepo)

	existing := &models.User{ID: "auth-1", Email: "test@example.com", Type: "customer"}
	mockRepo.On("GetByID", "auth-1").Return(existing, nil).Once()

	store.Bootstrap(func() (*session.Identity, error) {
		return &session.Identity{ID: "auth-1", Email: "test@example.com"}, nil
	})

	user := store.User()
	require.NotNil(t, user)
	assert.Equal(t, existing.ID, user.ID)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestStore_BootstrapNoSession(t *testing.T) {
	mockRepo := new(MockUserRepository)
	store := session.NewStore(mockRepo)

	store.Bootstrap(func() (*session.Identity, error) {
		return nil, nil
	})

	assert.False(t, store.Resolving())
	_, ok := store.Identity()
	assert.False(t, ok)
	assert.Nil(t, store.User())
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestStore_BootstrapFetchErrorClearsEverything(t *testing.T) {
	mockRepo := new(MockUserRepository)
	store := session.NewStore(mockRepo)

	store.Bootstrap(func() (*session.Identity, error) {
		return nil, fmt.Errorf("session backend unavailable")
	})

	assert.False(t, store.Resolving())
	_, ok := store.Identity()
	assert.False(t, ok)
	assert.Nil(t, store.User())
}

func TestStore_FetchErrorOtherThanNotFoundClearsUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	store := session.NewStore(mockRepo)

	mockRepo.On("GetByID", "auth-1").Return(nil, fmt.Errorf("connection reset")).Once()

	store.Bootstrap(func() (*session.Identity, error) {
		return &session.Identity{ID: "auth-1", Email: "test@example.com"}, nil
	})

	// The identity stands but the user row is unavailable; no row is
	// created for a non-"not found" failure.
	_, ok := store.Identity()
	assert.True(t, ok)
	assert.Nil(t, store.User())
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestStore_HandleAuthChangeNotifiesSubscribers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	store := session.NewStore(mockRepo)
	store.Bootstrap(func() (*session.Identity, error) { return nil, nil })

	changes := store.Subscribe()

	existing := &models.User{ID: "auth-2", Email: "new@example.com"}
	mockRepo.On("GetByID", "auth-2").Return(existing, nil).Once()

	store.HandleAuthChange(&session.Identity{ID: "auth-2", Email: "new@example.com"})

	change := <-changes
	require.NotNil(t, change.Identity)
	assert.Equal(t, "auth-2", change.Identity.ID)
	require.NotNil(t, change.User)
	assert.Equal(t, "new@example.com", change.User.Email)

	// Resolving is only for the bootstrap, not later changes.
	assert.False(t, store.Resolving())

	// Sign-out clears identity and user.
	store.HandleAuthChange(nil)
	change = <-changes
	assert.Nil(t, change.Identity)
	assert.Nil(t, change.User)
	_, ok := store.Identity()
	assert.False(t, ok)
	mockRepo.AssertExpectations(t)
}

func TestStore_SubscriberSeesLatestStateOnly(t *testing.T) {
	mockRepo := new(MockUserRepository)
	store := session.NewStore(mockRepo)
	store.Bootstrap(func() (*session.Identity, error) { return nil, nil })

	changes := store.Subscribe()

	first := &models.User{ID: "auth-1", Email: "a@example.com"}
	second := &models.User{ID: "auth-2", Email: "b@example.com"}
	mockRepo.On("GetByID", "auth-1").Return(first, nil).Once()
	mockRepo.On("GetByID", "auth-2").Return(second, nil).Once()

	// Two changes without an intervening receive: the stale notification
	// is replaced, never observed after the second event resolves.
	store.HandleAuthChange(&session.Identity{ID: "auth-1", Email: "a@example.com"})
	store.HandleAuthChange(&session.Identity{ID: "auth-2", Email: "b@example.com"})

	change := <-changes
	require.NotNil(t, change.Identity)
	assert.Equal(t, "auth-2", change.Identity.ID)
	mockRepo.AssertExpectations(t)
}
