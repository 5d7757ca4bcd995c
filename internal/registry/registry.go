// Package registry is the booking system of record: it mints booking
// ids, display codes, and timestamps for requests submitted by the
// booking wizard.
package registry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SohithNarnavaram/BeautyHub/internal/events"
	"github.com/SohithNarnavaram/BeautyHub/internal/latency"
	"github.com/SohithNarnavaram/BeautyHub/internal/metrics"
	"github.com/SohithNarnavaram/BeautyHub/internal/models"
	"github.com/SohithNarnavaram/BeautyHub/internal/storage"
)

// Operation names for the latency simulator.
const (
	OpCreateBooking = "create_booking"
	OpListBookings  = "list_bookings"
	OpCancel        = "cancel_booking"
)

var (
	// ErrInvalidRequest is returned when a create request misses
	// required fields.
	ErrInvalidRequest = errors.New("invalid booking request")

	// ErrNotFound is returned when a booking id is unknown.
	ErrNotFound = errors.New("booking not found")
)

// Store persists bookings for the registry.
type Store interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	GetBookingByCode(ctx context.Context, code string) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	ListVendorBookings(ctx context.Context, vendorID string) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id, status string) error
}

// CreateRequest carries the wizard's draft fields verbatim. The
// registry fills in id, code, status, and creation time.
type CreateRequest struct {
	VendorID    string
	VendorName  string
	ServiceID   string
	ServiceName string
	Date        string
	Time        string
	VisitType   models.VisitType
	Address     string
	Price       float64
}

// Registry assigns identity to bookings and owns their lifecycle.
type Registry struct {
	store  Store
	sim    *latency.Simulator
	bus    *events.Bus
	logger zerolog.Logger
	now    func() time.Time
}

// Option customises a Registry.
type Option func(*Registry)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithEventBus publishes booking lifecycle events on the bus.
func WithEventBus(bus *events.Bus) Option {
	return func(r *Registry) { r.bus = bus }
}

// New creates a registry over the store. sim may be nil for immediate
// resolution.
func New(store Store, sim *latency.Simulator, logger zerolog.Logger, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		sim:    sim,
		logger: logger.With().Str("component", "registry").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateBooking mints a new pending booking from the request. All
// request fields are copied verbatim; only id, booking code, status,
// and created-at are synthesized here.
func (r *Registry) CreateBooking(ctx context.Context, req CreateRequest) (*models.Booking, error) {
	if err := r.sim.Wait(ctx, OpCreateBooking); err != nil {
		return nil, err
	}
	if req.VendorID == "" || req.ServiceID == "" || req.Date == "" || req.Time == "" {
		return nil, fmt.Errorf("%w: vendor, service, date and time are required", ErrInvalidRequest)
	}

	booking := &models.Booking{
		ID:          uuid.NewString(),
		VendorID:    req.VendorID,
		VendorName:  req.VendorName,
		ServiceID:   req.ServiceID,
		ServiceName: req.ServiceName,
		Date:        req.Date,
		Time:        req.Time,
		VisitType:   req.VisitType,
		Address:     req.Address,
		Status:      models.StatusPending,
		BookingCode: newBookingCode(),
		Price:       req.Price,
		CreatedAt:   r.now(),
	}

	if err := r.store.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.IncBookingCreated(booking.Status)
	r.bus.Publish(events.TypeBookingCreated, booking)
	r.logger.Info().
		Str("booking_id", booking.ID).
		Str("code", booking.BookingCode).
		Str("vendor_id", booking.VendorID).
		Msg("booking created")

	return booking, nil
}

// GetBooking returns a booking by id.
func (r *Registry) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := r.store.GetBooking(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return b, nil
}

// GetBookingByCode returns a booking by its display code.
func (r *Registry) GetBookingByCode(ctx context.Context, code string) (*models.Booking, error) {
	b, err := r.store.GetBookingByCode(ctx, code)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return b, nil
}

// ListBookings returns every booking known to the registry.
func (r *Registry) ListBookings(ctx context.Context) ([]models.Booking, error) {
	if err := r.sim.Wait(ctx, OpListBookings); err != nil {
		return nil, err
	}
	return r.store.ListBookings(ctx)
}

// ListVendorBookings returns a vendor's bookings.
func (r *Registry) ListVendorBookings(ctx context.Context, vendorID string) ([]models.Booking, error) {
	if err := r.sim.Wait(ctx, OpListBookings); err != nil {
		return nil, err
	}
	return r.store.ListVendorBookings(ctx, vendorID)
}

// CancelBooking moves a booking to cancelled.
func (r *Registry) CancelBooking(ctx context.Context, id string) error {
	if err := r.sim.Wait(ctx, OpCancel); err != nil {
		return err
	}
	if err := r.store.UpdateBookingStatus(ctx, id, models.StatusCancelled); err != nil {
		return mapNotFound(err)
	}

	metrics.IncBookingCancelled()
	r.bus.Publish(events.TypeBookingCancelled, id)
	r.logger.Info().Str("booking_id", id).Msg("booking cancelled")
	return nil
}

// mapNotFound surfaces store-level not-found errors as the registry's
// sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, storage.ErrBookingNotFound) {
		return ErrNotFound
	}
	return err
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newBookingCode generates a display code like "BH7K2Q9X".
func newBookingCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// a uuid-derived suffix just in case.
		return "BH" + uuid.NewString()[:6]
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return "BH" + string(buf)
}
