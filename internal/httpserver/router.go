package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/mbrou/shop-backend/internal/middleware/auth"
)

type Deps struct {
	JWTSecret []byte

	Products   *ProductHTTP
	Orders     *OrderHTTP
	Payments   *PaymentHTTP
	Carts      *CartHTTP
	Deliveries *DeliveryHTTP
	Search     *SearchHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.GET("/products", d.Products.GetProducts)
	v1.GET("/products/:id", d.Products.GetProduct)
	v1.GET("/search", d.Search.Search)

	user := v1.Group("", auth.RequireLogin(d.JWTSecret))

	user.GET("/cart", d.Carts.GetCart)
	user.POST("/cart/items", d.Carts.AddItem)
	user.DELETE("/cart/items/:id", d.Carts.RemoveItem)
	user.DELETE("/cart", d.Carts.Clear)
	user.PATCH("/cart/status", d.Carts.ChangeStatus)

	user.POST("/orders", d.Orders.CreateOrder)
	user.GET("/orders", d.Orders.ListOrders)
	user.GET("/orders/:id", d.Orders.GetOrder)
	user.GET("/orders/:id/balance", d.Payments.Balance)

	user.POST("/payments", d.Payments.CreatePayment)
	user.GET("/payments/history", d.Payments.History)
	user.GET("/payments/:id", d.Payments.GetPayment)
	user.POST("/payments/:id/cancel", d.Payments.CancelPayment)

	user.GET("/deliveries/:id", d.Deliveries.GetDelivery)

	admin := v1.Group("/admin", auth.AdminOnly(d.JWTSecret))

	admin.POST("/products", d.Products.CreateProduct)
	admin.PATCH("/products/:id", d.Products.PatchProduct)
	admin.DELETE("/products/:id", d.Products.DeleteProduct)

	admin.GET("/orders", d.Orders.ListAllOrders)
	admin.PATCH("/orders/:id/status", d.Orders.UpdateStatus)
	admin.DELETE("/orders/:id", d.Orders.DeleteOrder)

	admin.POST("/payments/:id/confirm", d.Payments.ConfirmPayment)
	admin.POST("/payments/:id/refund", d.Payments.Refund)
	admin.GET("/payments/statistics", d.Payments.Statistics)
	admin.GET("/users/balances", d.Payments.UsersWithBalances)

	admin.POST("/deliveries", d.Deliveries.CreateDelivery)
	admin.GET("/deliveries", d.Deliveries.ListDeliveries)
	admin.PATCH("/deliveries/:id", d.Deliveries.PatchDelivery)
	admin.DELETE("/deliveries/:id", d.Deliveries.DeleteDelivery)
}
