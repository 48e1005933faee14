package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mbrou/shop-backend/internal/logging"
	"github.com/mbrou/shop-backend/internal/models"
)

// CartService keeps one cart per user. Adding an already-present product
// merges into the existing row; the stored total is recomputed from the rows
// on every mutation and never taken from client input.
type CartService struct {
	DB        *gorm.DB
	Inventory *InventoryService
}

type CartContents struct {
	Cart  models.Cart       `json:"cart"`
	Items []models.CartItem `json:"items"`
}

// recomputeTotal derives the cart total from its rows and current product
// prices and persists it.
func recomputeTotal(tx *gorm.DB, cart *models.Cart) error {
	var total float64
	if err := tx.Model(&models.CartItem{}).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cart.ID).
		Select("COALESCE(SUM(cart_items.quantity * products.price), 0)").
		Scan(&total).Error; err != nil {
		return err
	}
	if err := tx.Model(cart).Update("total", total).Error; err != nil {
		return err
	}
	cart.Total = total
	return nil
}

func (s *CartService) contents(tx *gorm.DB, cart models.Cart) (*CartContents, error) {
	var items []models.CartItem
	if err := tx.Where("cart_id = ?", cart.ID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return &CartContents{Cart: cart, Items: items}, nil
}

// AddItem validates stock read-only (the debit happens at order time), then
// creates the user's cart on first use and merges duplicate products.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*CartContents, error) {
	var result *CartContents

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Inventory.CheckStock(ctx, tx, productID, quantity); err != nil {
			return err
		}

		// One cart per user is enforced by the unique index on user_id, so a
		// racing first-use create fails instead of duplicating the cart.
		var cart models.Cart
		err := tx.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{UserID: userID, Status: models.CartStatusActive}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		switch {
		case err == nil:
			item.Quantity += uint(quantity)
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: uint(quantity)}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if err := recomputeTotal(tx, &cart); err != nil {
			return err
		}

		result, err = s.contents(tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("cart_item_added",
		"user_id", userID, "product_id", productID, "quantity", quantity)
	return result, nil
}

func (s *CartService) Get(ctx context.Context, userID uint) (*CartContents, error) {
	var cart models.Cart
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &CartContents{
			Cart:  models.Cart{UserID: userID, Status: models.CartStatusActive},
			Items: []models.CartItem{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.contents(s.DB.WithContext(ctx), cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (*CartContents, error) {
	var result *CartContents

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: cart for user %d", ErrNotFound, userID)
			}
			return err
		}

		var item models.CartItem
		if err := tx.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
			}
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}

		if err := recomputeTotal(tx, &cart); err != nil {
			return err
		}

		var err error
		result, err = s.contents(tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("cart_item_removed", "user_id", userID, "item_id", itemID)
	return result, nil
}

// Clear empties the cart and resets its total to zero.
func (s *CartService) Clear(ctx context.Context, cartID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.First(&cart, cartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: cart %d", ErrNotFound, cartID)
			}
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&cart).Update("total", 0).Error
	})
}

// ChangeStatus overwrites the cart status. The status is informational, so
// there are no transition restrictions beyond the value being known.
func (s *CartService) ChangeStatus(ctx context.Context, cartID uint, status string) (*models.Cart, error) {
	switch status {
	case models.CartStatusActive, models.CartStatusCompleted, models.CartStatusAbandoned:
	default:
		return nil, fmt.Errorf("%w: unknown cart status %q", ErrInvalidStatus, status)
	}

	var cart models.Cart
	if err := s.DB.WithContext(ctx).First(&cart, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart %d", ErrNotFound, cartID)
		}
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&cart).Update("status", status).Error; err != nil {
		return nil, err
	}
	cart.Status = status
	return &cart, nil
}
