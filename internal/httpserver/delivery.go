package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mbrou/shop-backend/internal/service"
	"github.com/mbrou/shop-backend/internal/transport"
	"github.com/mbrou/shop-backend/internal/util"
)

type DeliveryHTTP struct {
	Svc *service.DeliveryService
}

func (h *DeliveryHTTP) CreateDelivery(c echo.Context) error {
	var req transport.CreateDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Address == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "address is required")
	}

	delivery, err := h.Svc.Create(c.Request().Context(), service.CreateDeliveryInput{
		OrderID:      req.OrderID,
		Address:      req.Address,
		Method:       req.Method,
		Status:       req.Status,
		DeliveryDate: req.DeliveryDate,
		DeliveredAt:  req.DeliveredAt,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, delivery)
}

func (h *DeliveryHTTP) GetDelivery(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	delivery, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, delivery)
}

func (h *DeliveryHTTP) ListDeliveries(c echo.Context) error {
	if day := c.QueryParam("date"); day != "" {
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
		deliveries, err := h.Svc.ListByDate(c.Request().Context(), parsed)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, map[string]any{"data": deliveries})
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	deliveries, total, err := h.Svc.List(c.Request().Context(), offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": deliveries,
		"meta": meta(page, limit, total),
	})
}

func (h *DeliveryHTTP) PatchDelivery(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	delivery, err := h.Svc.Update(c.Request().Context(), id, service.UpdateDeliveryInput{
		Address:      req.Address,
		Method:       req.Method,
		Status:       req.Status,
		DeliveryDate: req.DeliveryDate,
		DeliveredAt:  req.DeliveredAt,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, delivery)
}

func (h *DeliveryHTTP) DeleteDelivery(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
