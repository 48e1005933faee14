package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mbrou/shop-backend/internal/logging"
	"github.com/mbrou/shop-backend/internal/models"
)

// PaymentService keeps the payment ledger for orders. Completed entries are
// immutable; refunds are appended as new rows with a negative amount.
type PaymentService struct {
	DB *gorm.DB
}

// netPaid sums COMPLETED and REFUNDED rows for an order. Refund rows carry
// negative amounts and a fully refunded original is flipped to REFUNDED while
// keeping its positive amount, so the pair nets to zero and partial refunds
// subtract from the still-COMPLETED original.
func netPaid(tx *gorm.DB, orderID uint) (float64, error) {
	var paid float64
	err := tx.Model(&models.Payment{}).
		Where("order_id = ? AND status IN ?", orderID,
			[]string{models.PaymentStatusCompleted, models.PaymentStatusRefunded}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error
	return paid, err
}

// Create records a PENDING payment against an order. Confirmation is a
// separate, explicit step. userID, when set, must match the order's owner.
func (s *PaymentService) Create(ctx context.Context, orderID uint, amount float64, userID *uint) (*models.Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	var payment models.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}
		if userID != nil && order.UserID != *userID {
			return fmt.Errorf("%w: order %d belongs to another user", ErrForbidden, orderID)
		}

		paid, err := netPaid(tx, orderID)
		if err != nil {
			return err
		}
		if remaining := order.Total - paid; amount > remaining {
			return fmt.Errorf("%w: remaining %.2f", ErrAmountExceedsBalance, remaining)
		}

		payment = models.Payment{
			OrderID: orderID,
			Amount:  amount,
			Status:  models.PaymentStatusPending,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("payment_created",
		"payment_id", payment.ID, "order_id", orderID, "amount", amount)
	return &payment, nil
}

func (s *PaymentService) GetByID(ctx context.Context, paymentID uint, userID *uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.DB.WithContext(ctx).First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment %d", ErrNotFound, paymentID)
		}
		return nil, err
	}
	if userID != nil {
		var order models.Order
		if err := s.DB.WithContext(ctx).First(&order, payment.OrderID).Error; err != nil {
			return nil, err
		}
		if order.UserID != *userID {
			return nil, fmt.Errorf("%w: payment %d belongs to another user", ErrForbidden, paymentID)
		}
	}
	return &payment, nil
}

// Confirm moves a PENDING payment to COMPLETED. Not idempotent: confirming a
// payment twice fails the second time. The ceiling is re-checked here because
// another payment may have completed since this one was created.
func (s *PaymentService) Confirm(ctx context.Context, paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment %d", ErrNotFound, paymentID)
			}
			return err
		}
		if payment.Status != models.PaymentStatusPending {
			return fmt.Errorf("%w: payment %d is %s", ErrInvalidTransition, paymentID, payment.Status)
		}

		var order models.Order
		if err := tx.First(&order, payment.OrderID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", paymentID, models.PaymentStatusPending).
			Update("status", models.PaymentStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: payment %d was updated concurrently", ErrInvalidTransition, paymentID)
		}
		payment.Status = models.PaymentStatusCompleted

		// Ceiling is verified after the flip, with this payment counted in,
		// so the whole transaction rolls back on an overpayment.
		paid, err := netPaid(tx, payment.OrderID)
		if err != nil {
			return err
		}
		if paid > order.Total {
			return fmt.Errorf("%w: remaining %.2f", ErrAmountExceedsBalance, order.Total-(paid-payment.Amount))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("payment_confirmed", "payment_id", paymentID)
	return &payment, nil
}

// Cancel voids a payment that never completed. Completed payments must go
// through Refund; refund entries are immutable ledger rows.
func (s *PaymentService) Cancel(ctx context.Context, paymentID uint, userID *uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment %d", ErrNotFound, paymentID)
			}
			return err
		}
		if userID != nil {
			var order models.Order
			if err := tx.First(&order, payment.OrderID).Error; err != nil {
				return err
			}
			if order.UserID != *userID {
				return fmt.Errorf("%w: payment %d belongs to another user", ErrForbidden, paymentID)
			}
		}
		switch payment.Status {
		case models.PaymentStatusCompleted:
			return fmt.Errorf("%w: completed payments must be refunded, not cancelled", ErrInvalidTransition)
		case models.PaymentStatusRefunded:
			return fmt.Errorf("%w: refund entries cannot be cancelled", ErrInvalidTransition)
		}

		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", paymentID, payment.Status).
			Update("status", models.PaymentStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: payment %d was updated concurrently", ErrInvalidTransition, paymentID)
		}
		payment.Status = models.PaymentStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("payment_cancelled", "payment_id", paymentID)
	return &payment, nil
}

// Refund appends a negative ledger entry against the order. amount defaults to
// the full original amount; a full refund also flips the original row's status
// to REFUNDED. The original amount is never edited.
func (s *PaymentService) Refund(ctx context.Context, paymentID uint, amount *float64) (*models.Payment, error) {
	var refund models.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment %d", ErrNotFound, paymentID)
			}
			return err
		}
		if payment.Status != models.PaymentStatusCompleted {
			return fmt.Errorf("%w: only completed payments can be refunded", ErrInvalidTransition)
		}

		amt := payment.Amount
		if amount != nil {
			amt = *amount
		}
		if amt <= 0 {
			return fmt.Errorf("%w: refund amount must be positive", ErrInvalidAmount)
		}
		if amt > payment.Amount {
			return fmt.Errorf("%w: original amount %.2f", ErrAmountExceedsOriginal, payment.Amount)
		}

		refund = models.Payment{
			OrderID: payment.OrderID,
			Amount:  -amt,
			Status:  models.PaymentStatusRefunded,
		}
		if err := tx.Create(&refund).Error; err != nil {
			return err
		}

		// Full refunds flip the original to REFUNDED; partial refunds leave it
		// COMPLETED. Either way the update is conditional on the original still
		// being COMPLETED, which rejects a racing second refund.
		next := models.PaymentStatusCompleted
		if amt == payment.Amount {
			next = models.PaymentStatusRefunded
		}
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", paymentID, models.PaymentStatusCompleted).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: payment %d was refunded concurrently", ErrInvalidTransition, paymentID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("payment_refunded",
		"payment_id", paymentID, "refund_id", refund.ID, "amount", refund.Amount)
	return &refund, nil
}

// Balance is the order total minus net completed payments.
func (s *PaymentService) Balance(ctx context.Context, orderID uint) (float64, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return 0, err
	}

	paid, err := netPaid(s.DB.WithContext(ctx), orderID)
	if err != nil {
		return 0, err
	}
	return order.Total - paid, nil
}

type PaymentStatistics struct {
	TotalPayments  int64            `json:"total_payments"`
	TotalAmount    float64          `json:"total_amount"`
	AverageAmount  float64          `json:"average_amount"`
	ByStatus       map[string]int64 `json:"payments_by_status"`
	MonthlyRevenue float64          `json:"monthly_revenue"`
}

// Statistics aggregates the ledger, optionally filtered to one user's orders.
// Netting follows the same COMPLETED/REFUNDED rule as Balance.
func (s *PaymentService) Statistics(ctx context.Context, userID *uint) (*PaymentStatistics, error) {
	q := s.DB.WithContext(ctx).Model(&models.Payment{})
	if userID != nil {
		q = q.Joins("JOIN orders ON orders.id = payments.order_id").
			Where("orders.user_id = ?", *userID)
	}

	var payments []models.Payment
	if err := q.Find(&payments).Error; err != nil {
		return nil, err
	}

	stats := &PaymentStatistics{
		TotalPayments: int64(len(payments)),
		ByStatus: map[string]int64{
			models.PaymentStatusPending:   0,
			models.PaymentStatusCompleted: 0,
			models.PaymentStatusCancelled: 0,
			models.PaymentStatusRefunded:  0,
		},
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var netted int64
	for _, p := range payments {
		stats.ByStatus[p.Status]++
		if p.Status != models.PaymentStatusCompleted && p.Status != models.PaymentStatusRefunded {
			continue
		}
		netted++
		stats.TotalAmount += p.Amount
		if !p.CreatedAt.Before(startOfMonth) {
			stats.MonthlyRevenue += p.Amount
		}
	}
	if netted > 0 {
		stats.AverageAmount = stats.TotalAmount / float64(netted)
	}

	return stats, nil
}

type PaymentHistorySummary struct {
	TotalOrdered float64 `json:"total_ordered"`
	TotalPaid    float64 `json:"total_paid"`
	Remaining    float64 `json:"remaining"`
	SettledUp    bool    `json:"settled_up"`
}

// UserPaymentHistory returns the user's orders newest first with their
// payments, plus a paid/remaining summary over the returned page.
func (s *PaymentService) UserPaymentHistory(ctx context.Context, userID uint, offset, limit int) ([]models.Order, int64, *PaymentHistorySummary, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, nil, err
	}

	var orders []models.Order
	if err := s.DB.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, nil, err
	}

	summary := &PaymentHistorySummary{}
	for _, o := range orders {
		summary.TotalOrdered += o.Total
		for _, p := range o.Payments {
			if p.Status == models.PaymentStatusCompleted || p.Status == models.PaymentStatusRefunded {
				summary.TotalPaid += p.Amount
			}
		}
	}
	summary.Remaining = summary.TotalOrdered - summary.TotalPaid
	summary.SettledUp = summary.Remaining <= 0

	return orders, total, summary, nil
}

type UserBalance struct {
	UserID       uint    `json:"user_id"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	TotalOrdered float64 `json:"total_ordered"`
	TotalPaid    float64 `json:"total_paid"`
	Remaining    float64 `json:"remaining"`
}

// UsersWithBalances lists every user with order totals netted against the
// payment ledger. Admin reporting endpoint.
func (s *PaymentService) UsersWithBalances(ctx context.Context, offset, limit int) ([]UserBalance, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := s.DB.WithContext(ctx).
		Preload("Orders.Payments").
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	balances := make([]UserBalance, 0, len(users))
	for _, u := range users {
		b := UserBalance{
			UserID:    u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		}
		for _, o := range u.Orders {
			b.TotalOrdered += o.Total
			for _, p := range o.Payments {
				if p.Status == models.PaymentStatusCompleted || p.Status == models.PaymentStatusRefunded {
					b.TotalPaid += p.Amount
				}
			}
		}
		b.Remaining = b.TotalOrdered - b.TotalPaid
		balances = append(balances, b)
	}

	return balances, total, nil
}
