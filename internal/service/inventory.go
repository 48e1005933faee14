package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mbrou/shop-backend/internal/models"
)

// InventoryService owns the available stock of products. Reserve and Release
// run inside the caller's transaction: a stock change must never be committed
// without the order write that motivated it.
type InventoryService struct {
	DB *gorm.DB
}

// Reserve debits quantity from the product's available stock and returns the
// unit price at the instant of the debit. The decrement is conditional
// ("stock_final >= quantity") and re-checked through RowsAffected, so two
// concurrent reservations of the last unit cannot both succeed.
func (s *InventoryService) Reserve(tx *gorm.DB, productID uint, quantity int) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be > 0", ErrInvalidQuantity)
	}

	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return 0, err
	}

	if !product.IsAvailable {
		return 0, fmt.Errorf("%w: product %d", ErrUnavailable, productID)
	}
	if product.StockFinal == 0 || uint(quantity) > product.StockFinal {
		return 0, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, product.StockFinal)
	}

	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_final >= ?", productID, quantity).
		Update("stock_final", gorm.Expr("stock_final - ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, product.StockFinal)
	}

	return product.Price, nil
}

// Release credits quantity back, unconditionally. At-most-once per order is
// guaranteed by the order workflow's terminal-state check.
func (s *InventoryService) Release(tx *gorm.DB, productID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be > 0", ErrInvalidQuantity)
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock_final", gorm.Expr("stock_final + ?", quantity)).Error
}

// CheckStock is the read-only variant used by the cart: it applies the same
// availability policy as Reserve but never debits anything.
func (s *InventoryService) CheckStock(ctx context.Context, tx *gorm.DB, productID uint, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrInvalidQuantity)
	}

	var product models.Product
	if err := tx.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}
	if !product.IsAvailable {
		return nil, fmt.Errorf("%w: product %d", ErrUnavailable, productID)
	}
	if product.StockFinal < uint(quantity) {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, product.StockFinal)
	}
	return &product, nil
}
