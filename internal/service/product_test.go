package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbrou/shop-backend/internal/models"
)

func TestCreateProduct(t *testing.T) {
	db := newTestDB(t)
	svc := &ProductService{DB: db}
	category := models.Category{Name: "books"}
	require.NoError(t, db.Create(&category).Error)

	product, err := svc.Create(testCtx(), 1, CreateProductInput{
		Name:         "paperback",
		Price:        12.5,
		StockInitial: 7,
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	require.Equal(t, uint(7), product.StockInitial)
	require.Equal(t, uint(7), product.StockFinal)
	require.True(t, product.IsAvailable)
}

func TestCreateProductValidation(t *testing.T) {
	db := newTestDB(t)
	svc := &ProductService{DB: db}
	category := models.Category{Name: "books"}
	require.NoError(t, db.Create(&category).Error)

	_, err := svc.Create(testCtx(), 1, CreateProductInput{Name: "x", Price: 10, StockInitial: 0, CategoryID: category.ID})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Create(testCtx(), 1, CreateProductInput{Name: "x", Price: 0, StockInitial: 5, CategoryID: category.ID})
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Create(testCtx(), 1, CreateProductInput{Name: "x", Price: 10, StockInitial: 5, CategoryID: 99})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProductPartial(t *testing.T) {
	db := newTestDB(t)
	svc := &ProductService{DB: db}
	product := seedProduct(t, db, 10, 5)

	price := 15.0
	updated, err := svc.Update(testCtx(), product.ID, UpdateProductInput{Price: &price})
	require.NoError(t, err)
	require.Equal(t, product.Name, updated.Name)

	got, err := svc.GetByID(testCtx(), product.ID)
	require.NoError(t, err)
	require.Equal(t, 15.0, got.Price)
	require.Equal(t, uint(5), got.StockFinal)
}

func TestUpdateProductInvalidPrice(t *testing.T) {
	db := newTestDB(t)
	svc := &ProductService{DB: db}
	product := seedProduct(t, db, 10, 5)

	price := -1.0
	_, err := svc.Update(testCtx(), product.ID, UpdateProductInput{Price: &price})
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDeleteProduct(t *testing.T) {
	db := newTestDB(t)
	svc := &ProductService{DB: db}
	product := seedProduct(t, db, 10, 5)

	require.NoError(t, svc.Delete(testCtx(), product.ID))
	require.ErrorIs(t, svc.Delete(testCtx(), product.ID), ErrNotFound)
}

func TestListProducts(t *testing.T) {
	db := newTestDB(t)
	svc := &ProductService{DB: db}
	seedProduct(t, db, 10, 5)
	seedProduct(t, db, 20, 6)

	products, total, err := svc.List(testCtx(), 0, 1)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, products, 1)
}
