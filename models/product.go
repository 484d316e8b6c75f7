package models

import (
	"time"

	"storefront/cart"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `gorm:"not null" json:"description"`
	Slug          string    `gorm:"uniqueIndex;not null" json:"slug"`
	CurrentPrice  float64   `gorm:"type:numeric(10,2);not null" json:"currentPrice"`
	OriginalPrice *float64  `gorm:"type:numeric(10,2)" json:"originalPrice,omitempty"`
	Images        []string  `gorm:"type:jsonb;serializer:json;not null" json:"images"`

	// InStock has no column default: gorm would skip a false zero value and
	// let the database default win.
	InStock         bool         `gorm:"not null" json:"inStock"`
	Rating          *float64     `gorm:"type:numeric(3,2)" json:"rating,omitempty"`
	ReviewCount     int          `json:"reviewCount"`
	AvailableColors []cart.Color `gorm:"type:jsonb;serializer:json" json:"availableColors"`
	AvailableSizes  []string     `gorm:"type:jsonb;serializer:json" json:"availableSizes"`
	Categories      []Category   `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (p Product) OnSale() bool {
	return p.OriginalPrice != nil
}

// Ref is the snapshot a cart line keeps of p.
func (p Product) Ref() cart.ProductRef {
	return cart.ProductRef{
		ID:              p.ID.String(),
		Title:           p.Title,
		Slug:            p.Slug,
		CurrentPrice:    p.CurrentPrice,
		OriginalPrice:   p.OriginalPrice,
		Images:          p.Images,
		InStock:         p.InStock,
		AvailableColors: p.AvailableColors,
		AvailableSizes:  p.AvailableSizes,
	}
}
