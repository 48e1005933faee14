package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mbrou/shop-backend/internal/logging"
	"github.com/mbrou/shop-backend/internal/models"
)

type ProductService struct {
	DB *gorm.DB
}

type CreateProductInput struct {
	Name         string
	Description  string
	Price        float64
	StockInitial int
	CategoryID   uint
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	IsAvailable *bool
	CategoryID  *uint
}

// Create inserts a product with stock_final starting equal to stock_initial.
func (s *ProductService) Create(ctx context.Context, userID uint, in CreateProductInput) (*models.Product, error) {
	if in.StockInitial <= 0 {
		return nil, fmt.Errorf("%w: initial stock must be > 0", ErrInvalidQuantity)
	}
	if in.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidAmount)
	}

	var category models.Category
	if err := s.DB.WithContext(ctx).First(&category, in.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, in.CategoryID)
		}
		return nil, err
	}

	product := models.Product{
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		StockInitial: uint(in.StockInitial),
		StockFinal:   uint(in.StockInitial),
		IsAvailable:  true,
		CategoryID:   in.CategoryID,
		UserID:       userID,
	}
	if err := s.DB.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("product_created", "product_id", product.ID, "name", product.Name)
	return &product, nil
}

func (s *ProductService) GetByID(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	if err := s.DB.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) List(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).
		Order("id ASC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *ProductService) Update(ctx context.Context, productID uint, in UpdateProductInput) (*models.Product, error) {
	var product models.Product
	if err := s.DB.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", ErrInvalidAmount)
		}
		updates["price"] = *in.Price
	}
	if in.IsAvailable != nil {
		updates["is_available"] = *in.IsAvailable
	}
	if in.CategoryID != nil {
		var category models.Category
		if err := s.DB.WithContext(ctx).First(&category, *in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: category %d", ErrNotFound, *in.CategoryID)
			}
			return nil, err
		}
		updates["category_id"] = *in.CategoryID
	}

	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	logging.FromContext(ctx).Info("product_updated", "product_id", product.ID)
	return &product, nil
}

func (s *ProductService) Delete(ctx context.Context, productID uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Product{}, productID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}

	logging.FromContext(ctx).Info("product_deleted", "product_id", productID)
	return nil
}
