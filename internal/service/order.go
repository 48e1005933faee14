package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mbrou/shop-backend/internal/logging"
	"github.com/mbrou/shop-backend/internal/models"
)

// OrderService drives the PENDING -> APPROVED/REJECTED state machine. Both
// target states are terminal.
type OrderService struct {
	DB        *gorm.DB
	Inventory *InventoryService
}

// Create reserves stock and inserts the order row in one transaction. If the
// reservation fails nothing is written; a reservation without an order must
// never persist.
func (s *OrderService) Create(ctx context.Context, userID, productID uint, quantity int) (*models.Order, error) {
	var order models.Order

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		price, err := s.Inventory.Reserve(tx, productID, quantity)
		if err != nil {
			return err
		}

		order = models.Order{
			ProductID: productID,
			UserID:    userID,
			Quantity:  uint(quantity),
			UnitPrice: price,
			Total:     price * float64(quantity),
			Status:    models.OrderStatusPending,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order_created",
		"order_id", order.ID, "user_id", userID, "product_id", productID, "total", order.Total)
	return &order, nil
}

// UpdateStatus applies a terminal transition. Rejection restores the reserved
// stock in the same transaction; approval makes the debit final and touches
// nothing else.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status, reason string) (*models.Order, error) {
	if status != models.OrderStatusApproved && status != models.OrderStatusRejected {
		return nil, fmt.Errorf("%w: status must be APPROVED or REJECTED", ErrInvalidStatus)
	}
	if status == models.OrderStatusRejected && strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: a reason is required to reject an order", ErrMissingReason)
	}

	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}
		if order.Status != models.OrderStatusPending {
			return fmt.Errorf("%w: order %d is already %s", ErrInvalidTransition, orderID, order.Status)
		}

		updates := map[string]any{"status": status}
		if status == models.OrderStatusRejected {
			updates["status_reason"] = reason
		}
		// The transition is conditional on the order still being PENDING, so a
		// racing transition loses here instead of double-applying.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d was updated concurrently", ErrInvalidTransition, orderID)
		}

		if status == models.OrderStatusRejected {
			if err := s.Inventory.Release(tx, order.ProductID, int(order.Quantity)); err != nil {
				return err
			}
			order.StatusReason = reason
		}
		order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order_status_updated", "order_id", orderID, "status", status)
	return &order, nil
}

// Delete removes an order. A PENDING order still holds a reservation, so its
// stock is restored first; an APPROVED order is a final sale and cannot be
// deleted; a REJECTED order already restored its stock at rejection time.
func (s *OrderService) Delete(ctx context.Context, orderID uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}

		if order.Status == models.OrderStatusApproved {
			return fmt.Errorf("%w: approved orders cannot be deleted", ErrInvalidTransition)
		}

		// Deleting conditionally on the observed status keeps the release
		// honest: if the order was approved or rejected meanwhile, nothing is
		// deleted and nothing is released.
		res := tx.Where("id = ? AND status = ?", orderID, order.Status).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d was updated concurrently", ErrInvalidTransition, orderID)
		}

		if order.Status == models.OrderStatusPending {
			return s.Inventory.Release(tx, order.ProductID, int(order.Quantity))
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info("order_deleted", "order_id", orderID)
	return nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Order, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *OrderService) ListAll(ctx context.Context, offset, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
