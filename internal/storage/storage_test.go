package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SohithNarnavaram/BeautyHub/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleBooking(id, code string) *models.Booking {
	return &models.Booking{
		ID:          id,
		VendorID:    "vendor-1",
		VendorName:  "Glow Studio",
		ServiceID:   "svc-1",
		ServiceName: "Haircut",
		Date:        "2026-09-07",
		Time:        "09:00",
		VisitType:   models.VisitSalon,
		Address:     "12 MG Road",
		Status:      models.StatusPending,
		BookingCode: code,
		Price:       500,
		CreatedAt:   time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBookingRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	b := sampleBooking("b-1", "BHAAAAAA")
	require.NoError(t, db.CreateBooking(ctx, b))

	got, err := db.GetBooking(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "Glow Studio", got.VendorName)
	assert.Equal(t, models.VisitSalon, got.VisitType)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, 500.0, got.Price)

	byCode, err := db.GetBookingByCode(ctx, "BHAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, "b-1", byCode.ID)
}

func TestGetBookingNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetBooking(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListVendorBookings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := sampleBooking("b-1", "BHAAAAAA")
	second := sampleBooking("b-2", "BHBBBBBB")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	other := sampleBooking("b-3", "BHCCCCCC")
	other.VendorID = "vendor-2"

	require.NoError(t, db.CreateBooking(ctx, first))
	require.NoError(t, db.CreateBooking(ctx, second))
	require.NoError(t, db.CreateBooking(ctx, other))

	got, err := db.ListVendorBookings(ctx, "vendor-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b-2", got[0].ID, "newest first")

	all, err := db.ListBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateBookingStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateBooking(ctx, sampleBooking("b-1", "BHAAAAAA")))
	require.NoError(t, db.UpdateBookingStatus(ctx, "b-1", models.StatusCancelled))

	got, err := db.GetBooking(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	assert.ErrorIs(t, db.UpdateBookingStatus(ctx, "missing", models.StatusCancelled), ErrBookingNotFound)
}

func TestOrderRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	order := &models.Order{
		ID:        "o-1",
		OrderCode: "BH1X2Y3Z",
		UserID:    42,
		Items: []models.CartItem{
			{Product: models.Product{ID: "p-1", Name: "Argan Oil", Price: 450}, Quantity: 2},
		},
		Subtotal:  900,
		Delivery:  100,
		Total:     1000,
		Shipping:  models.Shipping{Name: "Asha", City: "Bengaluru", PaymentMethod: "card"},
		CreatedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.CreateOrder(ctx, order))

	got, err := db.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, 1000.0, got.Total)
	assert.Equal(t, "card", got.Shipping.PaymentMethod)

	orders, err := db.ListUserOrders(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = db.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
