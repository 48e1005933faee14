package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mbrou/shop-backend/internal/middleware/auth"
	"github.com/mbrou/shop-backend/internal/mykafka"
	"github.com/mbrou/shop-backend/internal/service"
	"github.com/mbrou/shop-backend/internal/transport"
	"github.com/mbrou/shop-backend/internal/util"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Create(c.Request().Context(), p.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "order_created",
		"userID":  p.UserID,
		"orderID": order.ID,
		"total":   order.Total,
	})
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if order.UserID != p.UserID && p.Role != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "not your order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Svc.ListByUser(c.Request().Context(), p.UserID, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": meta(page, limit, total),
	})
}

func (h *OrderHTTP) ListAllOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Svc.ListAll(c.Request().Context(), offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": meta(page, limit, total),
	})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(c.Request().Context(), id, req.Status, req.Reason)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "order_status_updated",
		"userID":  order.UserID,
		"orderID": order.ID,
		"status":  order.Status,
	})
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "order_deleted",
		"orderID": id,
	})
	return c.NoContent(http.StatusNoContent)
}
