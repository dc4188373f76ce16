package repositories

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user profile row. The ID is expected to match the
// auth identity; it is only generated when the caller left it empty.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GORMCredentialRepository is a GORM implementation of CredentialRepository.
type GORMCredentialRepository struct {
	db *gorm.DB
}

// NewGORMCredentialRepository creates a new instance of GORMCredentialRepository.
func NewGORMCredentialRepository(db *gorm.DB) *GORMCredentialRepository {
	return &GORMCredentialRepository{
		db: db,
	}
}

// Create creates a new auth-identity row.
func (r *GORMCredentialRepository) Create(credential *models.Credential) error {
	if credential.ID == "" {
		credential.ID = uuid.New().String()
	}
	if err := r.db.Create(credential).Error; err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

// GetByEmail retrieves a credential by its email.
func (r *GORMCredentialRepository) GetByEmail(email string) (*models.Credential, error) {
	var credential models.Credential
	if err := r.db.First(&credential, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("credential for %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get credential for %s: %w", email, err)
	}
	return &credential, nil
}
