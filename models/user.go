package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

// Roles lists the assignable roles, least privileged first.
var Roles = []string{RoleUser, RoleAdmin, RoleOwner}

type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"not null" json:"-"`
	EmailVerified bool       `gorm:"not null" json:"emailVerified"`
	Phone         *string    `json:"phone,omitempty"`
	DateOfBirth   *time.Time `gorm:"type:date" json:"dateOfBirth,omitempty"`
	Role          string     `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleOwner
}

type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Street    string    `gorm:"not null" json:"street"`
	City      string    `gorm:"not null" json:"city"`
	State     string    `gorm:"not null" json:"state"`
	ZipCode   string    `gorm:"not null" json:"zipCode"`
	Country   string    `gorm:"not null" json:"country"`
	IsDefault bool      `gorm:"not null" json:"isDefault"`
	Label     *string   `json:"label,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Seeder records a data seeder that has already run.
type Seeder struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"uniqueIndex;not null"`
	ExecutedAt time.Time `gorm:"autoCreateTime"`
}
