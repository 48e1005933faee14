package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mbrou/shop-backend/internal/middleware/auth"
	"github.com/mbrou/shop-backend/internal/mykafka"
	"github.com/mbrou/shop-backend/internal/service"
	"github.com/mbrou/shop-backend/internal/transport"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}

	contents, err := h.Svc.Get(c.Request().Context(), p.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, contents)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}

	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	contents, err := h.Svc.AddItem(c.Request().Context(), p.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":      "cart_item_added",
		"userID":    p.UserID,
		"productID": req.ProductID,
		"quantity":  req.Quantity,
		"total":     contents.Cart.Total,
	})
	return c.JSON(http.StatusOK, contents)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	contents, err := h.Svc.RemoveItem(c.Request().Context(), p.UserID, id)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":   "cart_item_removed",
		"userID": p.UserID,
		"itemID": id,
		"total":  contents.Cart.Total,
	})
	return c.JSON(http.StatusOK, contents)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}

	contents, err := h.Svc.Get(c.Request().Context(), p.UserID)
	if err != nil {
		return httpError(err)
	}
	if contents.Cart.ID == 0 {
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.Svc.Clear(c.Request().Context(), contents.Cart.ID); err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":   "cart_cleared",
		"userID": p.UserID,
		"cartID": contents.Cart.ID,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ChangeStatus(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}

	var req transport.ChangeCartStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	contents, err := h.Svc.Get(c.Request().Context(), p.UserID)
	if err != nil {
		return httpError(err)
	}
	if contents.Cart.ID == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no cart")
	}

	cart, err := h.Svc.ChangeStatus(c.Request().Context(), contents.Cart.ID, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cart)
}
