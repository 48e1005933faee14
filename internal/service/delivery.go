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

type DeliveryService struct {
	DB *gorm.DB
}

type CreateDeliveryInput struct {
	OrderID      uint
	Address      string
	Method       string
	Status       string
	DeliveryDate *time.Time
	DeliveredAt  *time.Time
}

type UpdateDeliveryInput struct {
	Address      *string
	Method       *string
	Status       *string
	DeliveryDate *time.Time
	DeliveredAt  *time.Time
}

func validDeliveryStatus(status string) bool {
	switch status {
	case models.DeliveryStatusPending, models.DeliveryStatusApproved,
		models.DeliveryStatusDelivered, models.DeliveryStatusCanceled:
		return true
	}
	return false
}

func (s *DeliveryService) Create(ctx context.Context, in CreateDeliveryInput) (*models.Delivery, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, in.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, in.OrderID)
		}
		return nil, err
	}

	status := in.Status
	if !validDeliveryStatus(status) {
		status = models.DeliveryStatusPending
	}

	delivery := models.Delivery{
		OrderID:      in.OrderID,
		Address:      in.Address,
		Method:       in.Method,
		Status:       status,
		DeliveryDate: in.DeliveryDate,
		DeliveredAt:  in.DeliveredAt,
	}
	if err := s.DB.WithContext(ctx).Create(&delivery).Error; err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("delivery_created", "delivery_id", delivery.ID, "order_id", in.OrderID)
	return &delivery, nil
}

func (s *DeliveryService) GetByID(ctx context.Context, deliveryID uint) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := s.DB.WithContext(ctx).First(&delivery, deliveryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: delivery %d", ErrNotFound, deliveryID)
		}
		return nil, err
	}
	return &delivery, nil
}

func (s *DeliveryService) List(ctx context.Context, offset, limit int) ([]models.Delivery, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Delivery{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deliveries []models.Delivery
	if err := s.DB.WithContext(ctx).Model(&models.Delivery{}).
		Order("id ASC").Offset(offset).Limit(limit).Find(&deliveries).Error; err != nil {
		return nil, 0, err
	}
	return deliveries, total, nil
}

// ListByDate returns deliveries scheduled on the given calendar day.
func (s *DeliveryService) ListByDate(ctx context.Context, day time.Time) ([]models.Delivery, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)

	var deliveries []models.Delivery
	if err := s.DB.WithContext(ctx).
		Where("delivery_date BETWEEN ? AND ?", start, end).
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (s *DeliveryService) Update(ctx context.Context, deliveryID uint, in UpdateDeliveryInput) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := s.DB.WithContext(ctx).First(&delivery, deliveryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: delivery %d", ErrNotFound, deliveryID)
		}
		return nil, err
	}

	updates := map[string]any{}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.Method != nil {
		updates["method"] = *in.Method
	}
	if in.Status != nil {
		if !validDeliveryStatus(*in.Status) {
			return nil, fmt.Errorf("%w: unknown delivery status %q", ErrInvalidStatus, *in.Status)
		}
		updates["status"] = *in.Status
	}
	if in.DeliveryDate != nil {
		updates["delivery_date"] = *in.DeliveryDate
	}
	if in.DeliveredAt != nil {
		updates["delivered_at"] = *in.DeliveredAt
	}

	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&delivery).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	logging.FromContext(ctx).Info("delivery_updated", "delivery_id", deliveryID)
	return &delivery, nil
}

func (s *DeliveryService) Delete(ctx context.Context, deliveryID uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Delivery{}, deliveryID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: delivery %d", ErrNotFound, deliveryID)
	}
	return nil
}
