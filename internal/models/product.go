package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the storefront catalog.
// Stock is only ever reduced through the decrement_product_quantity
// routine; this codebase never writes Quantity directly.
type Product struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Slug       string          `json:"slug" gorm:"uniqueIndex;type:varchar(120)" validate:"required"`
	Title      string          `json:"title" validate:"required,min=3,max=100"`
	Price      decimal.Decimal `json:"price" gorm:"type:numeric(12,2)" validate:"required"`
	Quantity   int             `json:"quantity" validate:"gte=0"`
	HeroImage  string          `json:"hero_image" validate:"omitempty,url"`
	CategoryID string          `json:"category" gorm:"type:varchar(36);index"`
	gorm.Model                 // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Category groups products. Read-only from this system's perspective.
type Category struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Slug     string `json:"slug" gorm:"uniqueIndex;type:varchar(120)" validate:"required"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	gorm.Model
}
