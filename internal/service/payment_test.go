package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mbrou/shop-backend/internal/models"
)

// seedOrder creates a user, a product priced at 50 with plenty of stock, and
// an order of two units, so every test starts from an order total of 100.
func seedOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()
	user := seedUser(t, db, "payer@example.com")
	product := seedProduct(t, db, 50, 100)

	order, err := newOrderService(db).Create(testCtx(), user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 100.0, order.Total)
	return order
}

func completedPayment(t *testing.T, db *gorm.DB, svc *PaymentService, orderID uint, amount float64) *models.Payment {
	t.Helper()
	payment, err := svc.Create(testCtx(), orderID, amount, nil)
	require.NoError(t, err)
	payment, err = svc.Confirm(testCtx(), payment.ID)
	require.NoError(t, err)
	return payment
}

func TestCreateAndConfirmPayment(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)

	payment, err := svc.Create(testCtx(), order.ID, 60, nil)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPending, payment.Status)

	// Pending payments do not count against the balance.
	balance, err := svc.Balance(testCtx(), order.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, balance)

	payment, err = svc.Confirm(testCtx(), payment.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusCompleted, payment.Status)

	balance, err = svc.Balance(testCtx(), order.ID)
	require.NoError(t, err)
	require.Equal(t, 40.0, balance)
}

func TestCreatePaymentExceedingBalance(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)
	completedPayment(t, db, svc, order.ID, 60)

	_, err := svc.Create(testCtx(), order.ID, 50, nil)
	require.ErrorIs(t, err, ErrAmountExceedsBalance)

	_, err = svc.Create(testCtx(), order.ID, 40, nil)
	require.NoError(t, err)
}

func TestCreatePaymentNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)

	for _, amount := range []float64{0, -5} {
		_, err := svc.Create(testCtx(), order.ID, amount, nil)
		require.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestCreatePaymentUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}

	_, err := svc.Create(testCtx(), 42, 10, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePaymentForeignOrder(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)
	stranger := seedUser(t, db, "stranger@example.com")

	_, err := svc.Create(testCtx(), order.ID, 10, &stranger.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestConfirmTwiceFails(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)
	payment := completedPayment(t, db, svc, order.ID, 60)

	_, err := svc.Confirm(testCtx(), payment.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirmRechecksCeiling(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)

	// Two pending payments of 60 are both accepted: the ceiling only counts
	// completed money. Confirming the second must fail and roll back.
	first, err := svc.Create(testCtx(), order.ID, 60, nil)
	require.NoError(t, err)
	second, err := svc.Create(testCtx(), order.ID, 60, nil)
	require.NoError(t, err)

	_, err = svc.Confirm(testCtx(), first.ID)
	require.NoError(t, err)
	_, err = svc.Confirm(testCtx(), second.ID)
	require.ErrorIs(t, err, ErrAmountExceedsBalance)

	got, err := svc.GetByID(testCtx(), second.ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPending, got.Status)

	balance, err := svc.Balance(testCtx(), order.ID)
	require.NoError(t, err)
	require.Equal(t, 40.0, balance)
}

func TestCancelPendingPayment(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)

	payment, err := svc.Create(testCtx(), order.ID, 60, nil)
	require.NoError(t, err)

	payment, err = svc.Cancel(testCtx(), payment.ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusCancelled, payment.Status)

	_, err = svc.Confirm(testCtx(), payment.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelCompletedPaymentFails(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)
	payment := completedPayment(t, db, svc, order.ID, 60)

	_, err := svc.Cancel(testCtx(), payment.ID, nil)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFullRefundDefaultsToOriginalAmount(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)
	payment := completedPayment(t, db, svc, order.ID, 60)

	refund, err := svc.Refund(testCtx(), payment.ID, nil)
	require.NoError(t, err)
	require.Equal(t, -60.0, refund.Amount)
	require.Equal(t, models.PaymentStatusRefunded, refund.Status)

	// The original keeps its amount but flips to REFUNDED, so the pair nets
	// to zero and the full balance is owed again.
	original, err := svc.GetByID(testCtx(), payment.ID, nil)
	require.NoError(t, err)
	require.Equal(t, 60.0, original.Amount)
	require.Equal(t, models.PaymentStatusRefunded, original.Status)

	balance, err := svc.Balance(testCtx(), order.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, balance)
}

func TestPartialRefund(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)
	payment := completedPayment(t, db, svc, order.ID, 60)

	amount := 20.0
	refund, err := svc.Refund(testCtx(), payment.ID, &amount)
	require.NoError(t, err)
	require.Equal(t, -20.0, refund.Amount)

	original, err := svc.GetByID(testCtx(), payment.ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusCompleted, original.Status)

	balance, err := svc.Balance(testCtx(), order.ID)
	require.NoError(t, err)
	require.Equal(t, 60.0, balance)
}

func TestRefundExceedingOriginal(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)
	payment := completedPayment(t, db, svc, order.ID, 60)

	amount := 70.0
	_, err := svc.Refund(testCtx(), payment.ID, &amount)
	require.ErrorIs(t, err, ErrAmountExceedsOriginal)
}

func TestRefundPendingPaymentFails(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)

	payment, err := svc.Create(testCtx(), order.ID, 60, nil)
	require.NoError(t, err)

	_, err = svc.Refund(testCtx(), payment.ID, nil)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRefundEntryCannotBeCancelled(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)
	payment := completedPayment(t, db, svc, order.ID, 60)

	refund, err := svc.Refund(testCtx(), payment.ID, nil)
	require.NoError(t, err)

	_, err = svc.Cancel(testCtx(), refund.ID, nil)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStatistics(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)

	completedPayment(t, db, svc, order.ID, 60)
	pending, err := svc.Create(testCtx(), order.ID, 10, nil)
	require.NoError(t, err)
	_, err = svc.Cancel(testCtx(), pending.ID, nil)
	require.NoError(t, err)

	stats, err := svc.Statistics(testCtx(), nil)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.TotalPayments)
	require.Equal(t, 60.0, stats.TotalAmount)
	require.Equal(t, 60.0, stats.AverageAmount)
	require.EqualValues(t, 1, stats.ByStatus[models.PaymentStatusCompleted])
	require.EqualValues(t, 1, stats.ByStatus[models.PaymentStatusCancelled])
	require.Equal(t, 60.0, stats.MonthlyRevenue)
}

func TestStatisticsFilteredByUser(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)
	completedPayment(t, db, svc, order.ID, 60)

	other := seedUser(t, db, "other@example.com")
	product := seedProduct(t, db, 5, 10)
	otherOrder, err := newOrderService(db).Create(testCtx(), other.ID, product.ID, 1)
	require.NoError(t, err)
	completedPayment(t, db, svc, otherOrder.ID, 5)

	stats, err := svc.Statistics(testCtx(), &other.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.TotalPayments)
	require.Equal(t, 5.0, stats.TotalAmount)
}

func TestUserPaymentHistory(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)
	completedPayment(t, db, svc, order.ID, 60)

	orders, total, summary, err := svc.UserPaymentHistory(testCtx(), order.UserID, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Payments, 1)
	require.Equal(t, 100.0, summary.TotalOrdered)
	require.Equal(t, 60.0, summary.TotalPaid)
	require.Equal(t, 40.0, summary.Remaining)
	require.False(t, summary.SettledUp)
}

func TestUsersWithBalances(t *testing.T) {
	db := newTestDB(t)
	svc := &PaymentService{DB: db}
	order := seedOrder(t, db)
	completedPayment(t, db, svc, order.ID, 100)

	balances, total, err := svc.UsersWithBalances(testCtx(), 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, balances, 1)
	require.Equal(t, order.UserID, balances[0].UserID)
	require.Equal(t, 100.0, balances[0].TotalOrdered)
	require.Equal(t, 100.0, balances[0].TotalPaid)
	require.Zero(t, balances[0].Remaining)
}
