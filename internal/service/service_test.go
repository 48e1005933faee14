package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mbrou/shop-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "x", Role: "user"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedProduct(t *testing.T, db *gorm.DB, price float64, stock uint) *models.Product {
	t.Helper()
	category := models.Category{Name: fmt.Sprintf("category-%d-%d", int(price), stock)}
	require.NoError(t, db.Create(&category).Error)

	product := models.Product{
		Name:         fmt.Sprintf("product-%d", stock),
		Price:        price,
		StockInitial: stock,
		StockFinal:   stock,
		IsAvailable:  true,
		CategoryID:   category.ID,
		UserID:       1,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func productStock(t *testing.T, db *gorm.DB, productID uint) uint {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	return product.StockFinal
}

func testCtx() context.Context {
	return context.Background()
}
