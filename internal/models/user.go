package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the application-level profile row. Its ID is shared with the
// auth identity; the row is created lazily on the first authenticated
// session if absent.
type User struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email            string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	AvatarURL        string    `json:"avatar_url" validate:"omitempty,url"`
	StripeCustomerID *string   `json:"stripe_customer_id" gorm:"type:varchar(64)"`
	Type             string    `json:"type" gorm:"type:varchar(20)"`
	CreatedAt        time.Time `json:"created_at"`
}

// Credential is the auth-identity row, kept separate from the profile
// the way hosted auth keeps its identity table apart from user data.
type Credential struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email        string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	PasswordHash string `gorm:"type:varchar(255)"` // No json tag for security
	gorm.Model
}
