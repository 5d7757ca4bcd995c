// Package app composes the marketplace services into one in-process
// application: vendor discovery, the booking wizard, the booking
// registry, carts, and reporting.
package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/SohithNarnavaram/BeautyHub/internal/availability"
	"github.com/SohithNarnavaram/BeautyHub/internal/cart"
	"github.com/SohithNarnavaram/BeautyHub/internal/catalog"
	"github.com/SohithNarnavaram/BeautyHub/internal/export"
	"github.com/SohithNarnavaram/BeautyHub/internal/registry"
	"github.com/SohithNarnavaram/BeautyHub/internal/wizard"
)

// ErrNoSession is returned when a user has no open booking wizard.
var ErrNoSession = errors.New("no open booking session")

// App is the marketplace entry point used by front ends.
type App struct {
	catalog  *catalog.Catalog
	bookings *registry.Registry
	carts    *cart.Service
	sessions *wizard.SessionStore
	logger   zerolog.Logger
}

// New wires the application from its services.
func New(cat *catalog.Catalog, bookings *registry.Registry, carts *cart.Service, sessions *wizard.SessionStore, logger zerolog.Logger) *App {
	return &App{
		catalog:  cat,
		bookings: bookings,
		carts:    carts,
		sessions: sessions,
		logger:   logger.With().Str("component", "app").Logger(),
	}
}

// Catalog exposes vendor discovery.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// Bookings exposes the booking registry.
func (a *App) Bookings() *registry.Registry { return a.bookings }

// Carts exposes cart and checkout operations.
func (a *App) Carts() *cart.Service { return a.carts }

// Sessions exposes the wizard session store.
func (a *App) Sessions() *wizard.SessionStore { return a.sessions }

// StartBooking opens a booking wizard for the user on the given vendor,
// replacing any session already open.
func (a *App) StartBooking(ctx context.Context, userID int64, vendorID string) (*wizard.Wizard, error) {
	vendor, err := a.catalog.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	w := wizard.New(vendor, a.bookings, a.logger)
	a.logger.Debug().Int64("user_id", userID).Str("vendor_id", vendorID).Msg("booking session opened")
	return a.sessions.Open(userID, w), nil
}

// Wizard returns the user's open booking session.
func (a *App) Wizard(userID int64) (*wizard.Wizard, error) {
	w := a.sessions.Get(userID)
	if w == nil {
		return nil, ErrNoSession
	}
	return w, nil
}

// AbandonBooking discards the user's open session and its draft.
func (a *App) AbandonBooking(userID int64) {
	a.sessions.Close(userID)
}

// VendorAvailability resolves a vendor's bookable days for the week
// starting at ref.
func (a *App) VendorAvailability(ctx context.Context, vendorID string, ref time.Time) ([]availability.Day, error) {
	vendor, err := a.catalog.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return availability.Resolve(vendor.Availability, ref), nil
}

// ExportVendorBookings writes a vendor's bookings as an Excel workbook.
func (a *App) ExportVendorBookings(ctx context.Context, vendorID string, w io.Writer) error {
	bookings, err := a.bookings.ListVendorBookings(ctx, vendorID)
	if err != nil {
		return err
	}
	report, err := export.BookingsReport(bookings)
	if err != nil {
		return err
	}
	defer report.Close()
	return report.Save(w)
}

// ExportUserOrders writes a user's order history as an Excel workbook.
func (a *App) ExportUserOrders(ctx context.Context, userID int64, w io.Writer) error {
	orders, err := a.carts.Orders(ctx, userID)
	if err != nil {
		return err
	}
	report, err := export.OrdersReport(orders)
	if err != nil {
		return err
	}
	defer report.Close()
	return report.Save(w)
}
