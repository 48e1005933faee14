package transport

import "time"

type CreateOrderRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type CreatePaymentRequest struct {
	OrderID uint    `json:"order_id"`
	Amount  float64 `json:"amount"`
}

type RefundRequest struct {
	Amount *float64 `json:"amount"`
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type ChangeCartStatusRequest struct {
	Status string `json:"status"`
}

type CreateProductRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	StockInitial int     `json:"stock_initial"`
	CategoryID   uint    `json:"category_id"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	IsAvailable *bool    `json:"is_available"`
	CategoryID  *uint    `json:"category_id"`
}

type CreateDeliveryRequest struct {
	OrderID      uint       `json:"order_id"`
	Address      string     `json:"address"`
	Method       string     `json:"method"`
	Status       string     `json:"status"`
	DeliveryDate *time.Time `json:"delivery_date"`
	DeliveredAt  *time.Time `json:"delivered_at"`
}

type UpdateDeliveryRequest struct {
	Address      *string    `json:"address"`
	Method       *string    `json:"method"`
	Status       *string    `json:"status"`
	DeliveryDate *time.Time `json:"delivery_date"`
	DeliveredAt  *time.Time `json:"delivered_at"`
}

type BalanceResponse struct {
	OrderID uint    `json:"order_id"`
	Total   float64 `json:"total"`
	Balance float64 `json:"balance"`
}

type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}
