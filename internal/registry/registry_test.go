package registry

import (
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SohithNarnavaram/BeautyHub/internal/events"
	"github.com/SohithNarnavaram/BeautyHub/internal/models"
	"github.com/SohithNarnavaram/BeautyHub/internal/storage"
)

var codePattern = regexp.MustCompile(`^BH[A-Z0-9]{6}$`)

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, nil, zerolog.New(io.Discard), opts...)
}

func sampleRequest() CreateRequest {
	return CreateRequest{
		VendorID:    "vendor-1",
		VendorName:  "Glow Studio",
		ServiceID:   "svc-1",
		ServiceName: "Bridal Makeup",
		Date:        "2026-09-07",
		Time:        "09:00",
		VisitType:   models.VisitHome,
		Address:     "12 MG Road",
		Price:       500,
	}
}

func TestCreateBookingMintsIdentity(t *testing.T) {
	created := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	reg := newTestRegistry(t, WithClock(func() time.Time { return created }))

	booking, err := reg.CreateBooking(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Regexp(t, codePattern, booking.BookingCode)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, created, booking.CreatedAt)

	// Request fields pass through verbatim.
	assert.Equal(t, "12 MG Road", booking.Address)
	assert.Equal(t, 500.0, booking.Price)
	assert.Equal(t, models.VisitHome, booking.VisitType)
}

func TestCreateBookingPersists(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	booking, err := reg.CreateBooking(ctx, sampleRequest())
	require.NoError(t, err)

	got, err := reg.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingCode, got.BookingCode)

	byCode, err := reg.GetBookingByCode(ctx, booking.BookingCode)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, byCode.ID)
}

func TestCreateBookingValidation(t *testing.T) {
	reg := newTestRegistry(t)

	req := sampleRequest()
	req.ServiceID = ""
	_, err := reg.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCreateBookingPublishesEvent(t *testing.T) {
	bus := events.NewBus()
	var published []events.Event
	bus.Subscribe(events.TypeBookingCreated, func(e events.Event) { published = append(published, e) })

	reg := newTestRegistry(t, WithEventBus(bus))
	booking, err := reg.CreateBooking(context.Background(), sampleRequest())
	require.NoError(t, err)

	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(*models.Booking)
	require.True(t, ok)
	assert.Equal(t, booking.ID, payload.ID)
}

func TestCancelBooking(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	booking, err := reg.CreateBooking(ctx, sampleRequest())
	require.NoError(t, err)

	require.NoError(t, reg.CancelBooking(ctx, booking.ID))

	got, err := reg.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	assert.ErrorIs(t, reg.CancelBooking(ctx, "missing"), ErrNotFound)
}

func TestListVendorBookings(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.CreateBooking(ctx, sampleRequest())
	require.NoError(t, err)

	other := sampleRequest()
	other.VendorID = "vendor-2"
	_, err = reg.CreateBooking(ctx, other)
	require.NoError(t, err)

	got, err := reg.ListVendorBookings(ctx, "vendor-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	all, err := reg.ListBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBookingCodesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := newBookingCode()
		require.Regexp(t, codePattern, code)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
