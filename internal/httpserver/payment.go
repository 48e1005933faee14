package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mbrou/shop-backend/internal/middleware/auth"
	"github.com/mbrou/shop-backend/internal/mykafka"
	"github.com/mbrou/shop-backend/internal/service"
	"github.com/mbrou/shop-backend/internal/transport"
	"github.com/mbrou/shop-backend/internal/util"
)

type PaymentHTTP struct {
	Svc      *service.PaymentService
	Orders   *service.OrderService
	Producer *mykafka.Producer
}

// ownerID narrows ledger access to the caller's own orders; admins see all.
func ownerID(p auth.Principal) *uint {
	if p.Role == "admin" {
		return nil
	}
	id := p.UserID
	return &id
}

func (h *PaymentHTTP) CreatePayment(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}

	var req transport.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	payment, err := h.Svc.Create(c.Request().Context(), req.OrderID, req.Amount, ownerID(p))
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "payment_events", map[string]any{
		"type":      "payment_created",
		"userID":    p.UserID,
		"paymentID": payment.ID,
		"orderID":   payment.OrderID,
		"amount":    payment.Amount,
	})
	return c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHTTP) GetPayment(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payment, err := h.Svc.GetByID(c.Request().Context(), id, ownerID(p))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHTTP) ConfirmPayment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payment, err := h.Svc.Confirm(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "payment_events", map[string]any{
		"type":      "payment_confirmed",
		"paymentID": payment.ID,
		"orderID":   payment.OrderID,
	})
	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHTTP) CancelPayment(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payment, err := h.Svc.Cancel(c.Request().Context(), id, ownerID(p))
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "payment_events", map[string]any{
		"type":      "payment_cancelled",
		"userID":    p.UserID,
		"paymentID": payment.ID,
	})
	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHTTP) Refund(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.RefundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	refund, err := h.Svc.Refund(c.Request().Context(), id, req.Amount)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "payment_events", map[string]any{
		"type":      "payment_refunded",
		"paymentID": id,
		"refundID":  refund.ID,
		"amount":    refund.Amount,
	})
	return c.JSON(http.StatusCreated, refund)
}

func (h *PaymentHTTP) Balance(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Orders.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if order.UserID != p.UserID && p.Role != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "not your order")
	}

	balance, err := h.Svc.Balance(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.BalanceResponse{
		OrderID: id,
		Total:   order.Total,
		Balance: balance,
	})
}

func (h *PaymentHTTP) Statistics(c echo.Context) error {
	var userID *uint
	if s := c.QueryParam("user_id"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
		}
		id := uint(v)
		userID = &id
	}

	stats, err := h.Svc.Statistics(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *PaymentHTTP) History(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, summary, err := h.Svc.UserPaymentHistory(c.Request().Context(), p.UserID, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"orders":  orders,
		"summary": summary,
		"meta":    meta(page, limit, total),
	})
}

func (h *PaymentHTTP) UsersWithBalances(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	balances, total, err := h.Svc.UsersWithBalances(c.Request().Context(), offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": balances,
		"meta": meta(page, limit, total),
	})
}
