package repositories

import (
	"fmt"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user profile row.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a user by their ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

// MockCredentialRepository is an in-memory implementation of CredentialRepository.
type MockCredentialRepository struct {
	credentials map[string]models.Credential // keyed by email
	mu          sync.RWMutex
}

// NewMockCredentialRepository creates a new instance of MockCredentialRepository.
func NewMockCredentialRepository() *MockCredentialRepository {
	return &MockCredentialRepository{
		credentials: make(map[string]models.Credential),
	}
}

// Create adds a new credential.
func (r *MockCredentialRepository) Create(credential *models.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if credential.ID == "" {
		credential.ID = uuid.New().String()
	}
	if _, ok := r.credentials[credential.Email]; ok {
		return fmt.Errorf("credential for %s already exists", credential.Email)
	}
	r.credentials[credential.Email] = *credential
	return nil
}

// GetByEmail returns a credential by its email.
func (r *MockCredentialRepository) GetByEmail(email string) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	credential, ok := r.credentials[email]
	if !ok {
		return nil, fmt.Errorf("credential for %s: %w", email, ErrNotFound)
	}
	return &credential, nil
}
