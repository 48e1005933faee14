package models

import (
	"time"
)

const (
	OrderStatusPending  = "PENDING"
	OrderStatusApproved = "APPROVED"
	OrderStatusRejected = "REJECTED"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusCancelled = "CANCELLED"
	PaymentStatusRefunded  = "REFUNDED"
)

const (
	CartStatusActive    = "ACTIVE"
	CartStatusCompleted = "COMPLETED"
	CartStatusAbandoned = "ABANDONED"
)

const (
	DeliveryStatusPending   = "PENDING"
	DeliveryStatusApproved  = "APPROVED"
	DeliveryStatusDelivered = "DELIVERED"
	DeliveryStatusCanceled  = "CANCELED"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	Orders []Order `json:"-"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type Product struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name         string    `gorm:"not null"                  json:"name"`
	Description  string    `json:"description"`
	Price        float64   `gorm:"not null"                  json:"price"`
	StockInitial uint      `gorm:"not null"                  json:"stock_initial"`
	StockFinal   uint      `gorm:"not null"                  json:"stock_final"`
	IsAvailable  bool      `gorm:"not null;default:true"     json:"is_available"`
	CategoryID   uint      `gorm:"index;not null"            json:"category_id"`
	UserID       uint      `gorm:"index;not null"            json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UnitPrice and Total are snapshots taken when the order is created; later
// product price changes never touch existing orders.
type Order struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	ProductID    uint      `gorm:"index;not null"            json:"product_id"`
	UserID       uint      `gorm:"index;not null"            json:"user_id"`
	Quantity     uint      `gorm:"not null;check:quantity>0" json:"quantity"`
	UnitPrice    float64   `gorm:"not null"                  json:"unit_price"`
	Total        float64   `gorm:"not null"                  json:"total"`
	Status       string    `gorm:"not null;default:PENDING"  json:"status"`
	StatusReason string    `json:"status_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Payments []Payment `json:"payments,omitempty"`
}

// Refund rows carry a negative Amount and status REFUNDED; completed rows are
// never edited or deleted, only new rows are appended.
type Payment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint      `gorm:"index;not null"           json:"order_id"`
	Amount    float64   `gorm:"not null"                 json:"amount"`
	Status    string    `gorm:"not null;default:PENDING" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Cart struct {
	ID     uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint    `gorm:"uniqueIndex;not null"     json:"user_id"`
	Status string  `gorm:"not null;default:ACTIVE"  json:"status"`
	Total  float64 `gorm:"not null;default:0"       json:"total"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement"   json:"id"`
	CartID    uint `gorm:"index;not null"             json:"cart_id"`
	ProductID uint `gorm:"not null"                   json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0" json:"quantity"`
}

type Delivery struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      uint       `gorm:"index;not null"           json:"order_id"`
	Address      string     `gorm:"not null"                 json:"address"`
	Method       string     `json:"method,omitempty"`
	Status       string     `gorm:"not null;default:PENDING" json:"status"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Product{},
		&Order{},
		&Payment{},
		&Cart{},
		&CartItem{},
		&Delivery{},
	}
}
