package repositories

import "storefront/internal/models"

// UserRepository defines the interface for user profile data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
}

// CredentialRepository defines the interface for auth-identity data access.
type CredentialRepository interface {
	Create(credential *models.Credential) error
	GetByEmail(email string) (*models.Credential, error)
}
