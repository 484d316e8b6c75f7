package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

var OrderStatuses = []string{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
	OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded,
}

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

var PaymentStatuses = []string{PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded}

// AddressSnapshot is the delivery address copied onto an order.
type AddressSnapshot struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

type Order struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            *uuid.UUID       `gorm:"type:uuid;index" json:"userId"`
	OrderNumber       string           `gorm:"uniqueIndex;not null" json:"orderNumber"`
	Status            string           `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Subtotal          float64          `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	Shipping          float64          `gorm:"type:numeric(10,2);not null" json:"shipping"`
	Total             float64          `gorm:"type:numeric(10,2);not null" json:"total"`
	ShippingAddress   *AddressSnapshot `gorm:"type:jsonb;serializer:json" json:"shippingAddress"`
	BillingAddress    *AddressSnapshot `gorm:"type:jsonb;serializer:json" json:"billingAddress"`
	PaymentMethod     string           `json:"paymentMethod"`
	PaymentStatus     string           `gorm:"type:varchar(20);not null;default:'pending'" json:"paymentStatus"`
	Notes             *string          `json:"notes,omitempty"`
	TrackingNumber    *string          `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time       `json:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
	Items             []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type ProductAttributes struct {
	SelectedSize  string `json:"selectedSize,omitempty"`
	SelectedColor string `json:"selectedColor,omitempty"`
}

// OrderItem snapshots the product as it was when the order was placed.
type OrderItem struct {
	ID                uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID           uuid.UUID          `gorm:"type:uuid;not null;index" json:"orderId"`
	ProductID         uuid.UUID          `gorm:"type:uuid;not null" json:"productId"`
	ProductTitle      string             `gorm:"not null" json:"productTitle"`
	ProductSlug       string             `gorm:"not null" json:"productSlug"`
	ProductImage      *string            `json:"productImage,omitempty"`
	Quantity          int                `gorm:"not null" json:"quantity"`
	UnitPrice         float64            `gorm:"type:numeric(10,2);not null" json:"unitPrice"`
	TotalPrice        float64            `gorm:"type:numeric(10,2);not null" json:"totalPrice"`
	ProductAttributes *ProductAttributes `gorm:"type:jsonb;serializer:json" json:"productAttributes,omitempty"`
	CreatedAt         time.Time          `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time          `gorm:"autoUpdateTime" json:"updatedAt"`
}
