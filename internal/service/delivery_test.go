package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mbrou/shop-backend/internal/models"
)

func seedDeliveryOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()
	user := seedUser(t, db, "recipient@example.com")
	product := seedProduct(t, db, 10, 10)
	order, err := newOrderService(db).Create(testCtx(), user.ID, product.ID, 1)
	require.NoError(t, err)
	return order
}

func TestCreateDelivery(t *testing.T) {
	db := newTestDB(t)
	svc := &DeliveryService{DB: db}
	order := seedDeliveryOrder(t, db)

	delivery, err := svc.Create(testCtx(), CreateDeliveryInput{
		OrderID: order.ID,
		Address: "1 Main St",
		Method:  "courier",
		Status:  models.DeliveryStatusApproved,
	})
	require.NoError(t, err)
	require.Equal(t, models.DeliveryStatusApproved, delivery.Status)
}

func TestCreateDeliveryDefaultsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := &DeliveryService{DB: db}
	order := seedDeliveryOrder(t, db)

	delivery, err := svc.Create(testCtx(), CreateDeliveryInput{
		OrderID: order.ID,
		Address: "1 Main St",
		Status:  "TELEPORTED",
	})
	require.NoError(t, err)
	require.Equal(t, models.DeliveryStatusPending, delivery.Status)
}

func TestCreateDeliveryUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	svc := &DeliveryService{DB: db}

	_, err := svc.Create(testCtx(), CreateDeliveryInput{OrderID: 42, Address: "1 Main St"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListDeliveriesByDate(t *testing.T) {
	db := newTestDB(t)
	svc := &DeliveryService{DB: db}
	order := seedDeliveryOrder(t, db)

	day := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	other := day.AddDate(0, 0, 2)
	for _, d := range []time.Time{day, day.Add(2 * time.Hour), other} {
		date := d
		_, err := svc.Create(testCtx(), CreateDeliveryInput{
			OrderID:      order.ID,
			Address:      "1 Main St",
			DeliveryDate: &date,
		})
		require.NoError(t, err)
	}

	deliveries, err := svc.ListByDate(testCtx(), day)
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
}

func TestUpdateDelivery(t *testing.T) {
	db := newTestDB(t)
	svc := &DeliveryService{DB: db}
	order := seedDeliveryOrder(t, db)

	delivery, err := svc.Create(testCtx(), CreateDeliveryInput{OrderID: order.ID, Address: "1 Main St"})
	require.NoError(t, err)

	status := models.DeliveryStatusDelivered
	now := time.Now()
	_, err = svc.Update(testCtx(), delivery.ID, UpdateDeliveryInput{Status: &status, DeliveredAt: &now})
	require.NoError(t, err)

	got, err := svc.GetByID(testCtx(), delivery.ID)
	require.NoError(t, err)
	require.Equal(t, models.DeliveryStatusDelivered, got.Status)
	require.NotNil(t, got.DeliveredAt)

	bad := "TELEPORTED"
	_, err = svc.Update(testCtx(), delivery.ID, UpdateDeliveryInput{Status: &bad})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteDelivery(t *testing.T) {
	db := newTestDB(t)
	svc := &DeliveryService{DB: db}
	order := seedDeliveryOrder(t, db)

	delivery, err := svc.Create(testCtx(), CreateDeliveryInput{OrderID: order.ID, Address: "1 Main St"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(testCtx(), delivery.ID))
	require.ErrorIs(t, svc.Delete(testCtx(), delivery.ID), ErrNotFound)
}
