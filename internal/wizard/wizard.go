// Package wizard implements the four-step booking flow: service
// selection, date/time selection, location selection, confirmation.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SohithNarnavaram/BeautyHub/internal/availability"
	"github.com/SohithNarnavaram/BeautyHub/internal/metrics"
	"github.com/SohithNarnavaram/BeautyHub/internal/models"
	"github.com/SohithNarnavaram/BeautyHub/internal/registry"
)

// Step identifies the wizard's current screen.
type Step string

const (
	StepService   Step = "select_service"
	StepSchedule  Step = "select_datetime"
	StepLocation  Step = "select_location"
	StepConfirm   Step = "confirm"
	StepSubmitted Step = "submitted"
)

var (
	// ErrGateNotSatisfied means a forward transition was attempted while
	// the current step's completion predicate is false. Callers should
	// disable the "next" control via CanProceed instead of hitting this.
	ErrGateNotSatisfied = errors.New("step requirements not met")

	// ErrWrongStep means the operation is not valid on the current step.
	ErrWrongStep = errors.New("operation not valid on current step")

	// ErrSubmissionInFlight means a confirm is already outstanding.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrSubmitted means the wizard has reached its terminal state.
	ErrSubmitted = errors.New("booking already submitted")

	// ErrUnknownService means the selected service is not offered.
	ErrUnknownService = errors.New("service not offered")

	// ErrSlotNotOffered means the date/time pair is not bookable.
	ErrSlotNotOffered = errors.New("slot not offered")

	// ErrVisitTypeUnavailable means the vendor does not support the
	// chosen visit type.
	ErrVisitTypeUnavailable = errors.New("visit type not offered by vendor")
)

// Registry submits the finished draft and mints the booking.
type Registry interface {
	CreateBooking(ctx context.Context, req registry.CreateRequest) (*models.Booking, error)
}

// Draft is the in-progress booking accumulated across steps. It lives
// for one wizard session and is never persisted.
type Draft struct {
	Service   *models.Service
	Date      string // YYYY-MM-DD, "" until chosen
	Time      string // slot token, "" until chosen
	VisitType models.VisitType
	Address   string
}

// LocationOptions describes which step-3 choices the vendor offers.
type LocationOptions struct {
	Home  bool
	Salon bool
}

// Wizard drives one booking session against a single vendor.
type Wizard struct {
	mu sync.Mutex

	vendor *models.Vendor
	reg    Registry
	logger zerolog.Logger
	now    func() time.Time

	step        Step
	draft       Draft
	submitting  bool
	bookingCode string
	onSubmitted func(code string)

	updatedAt time.Time
}

// Option customises a Wizard.
type Option func(*Wizard)

// WithClock substitutes the availability reference clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// WithSubmitHook registers a callback invoked with the booking code
// after a successful confirm, before New's caller sees the result. The
// presentation layer uses it as its close-and-display signal.
func WithSubmitHook(fn func(code string)) Option {
	return func(w *Wizard) { w.onSubmitted = fn }
}

// New opens a wizard session for the vendor. The draft starts with a
// salon visit type, so all services are offered on first entry.
func New(vendor *models.Vendor, reg Registry, logger zerolog.Logger, opts ...Option) *Wizard {
	w := &Wizard{
		vendor: vendor,
		reg:    reg,
		logger: logger.With().Str("component", "wizard").Str("vendor_id", vendor.ID).Logger(),
		now:    time.Now,
		step:   StepService,
		draft:  Draft{VisitType: models.VisitSalon},
	}
	for _, opt := range opts {
		opt(w)
	}
	w.updatedAt = w.now()
	return w
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a snapshot of the accumulated draft.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// BookingCode returns the registry's code after a successful confirm.
func (w *Wizard) BookingCode() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bookingCode
}

// Vendor returns the session's vendor.
func (w *Wizard) Vendor() *models.Vendor { return w.vendor }

// OfferedServices returns the vendor's services visible on step 1: a
// service is listed when it supports home visits or the draft's visit
// type is salon. The visit type defaults to salon before step 3, so
// every service is visible on first entry; after choosing a home visit
// and navigating back, salon-only services disappear. The original flow
// behaves exactly this way, so it is preserved rather than fixed.
func (w *Wizard) OfferedServices() []models.Service {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.offeredServicesLocked()
}

func (w *Wizard) offeredServicesLocked() []models.Service {
	var offered []models.Service
	for _, s := range w.vendor.Services {
		if s.HomeVisit || w.draft.VisitType == models.VisitSalon {
			offered = append(offered, s)
		}
	}
	return offered
}

// SelectService records the chosen service. Valid only on step 1.
func (w *Wizard) SelectService(serviceID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepService {
		return fmt.Errorf("%w: %s", ErrWrongStep, w.step)
	}
	for _, s := range w.offeredServicesLocked() {
		if s.ID == serviceID {
			s := s
			w.draft.Service = &s
			w.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownService, serviceID)
}

// AvailableDays resolves the vendor's availability for the next seven
// days, anchored at the wizard's clock.
func (w *Wizard) AvailableDays() []availability.Day {
	return availability.Resolve(w.vendor.Availability, w.now())
}

// SelectSlot records the chosen date and time. Valid only on step 2;
// the pair must be offered within the current availability window.
func (w *Wizard) SelectSlot(date, slot string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepSchedule {
		return fmt.Errorf("%w: %s", ErrWrongStep, w.step)
	}

	offered := availability.SlotsOn(w.vendor.Availability, w.now(), date)
	for _, s := range offered {
		if s == slot {
			w.draft.Date = date
			w.draft.Time = slot
			w.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s", ErrSlotNotOffered, date, slot)
}

// Locations reports which visit types the vendor offers on step 3.
func (w *Wizard) Locations() LocationOptions {
	return LocationOptions{
		Home:  w.vendor.HomeVisit,
		Salon: w.vendor.SalonAddress != "",
	}
}

// ChooseVisitType records the location choice. Valid only on step 3.
func (w *Wizard) ChooseVisitType(vt models.VisitType) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepLocation {
		return fmt.Errorf("%w: %s", ErrWrongStep, w.step)
	}

	opts := w.Locations()
	switch vt {
	case models.VisitHome:
		if !opts.Home {
			return fmt.Errorf("%w: home", ErrVisitTypeUnavailable)
		}
	case models.VisitSalon:
		if !opts.Salon {
			return fmt.Errorf("%w: salon", ErrVisitTypeUnavailable)
		}
	default:
		return fmt.Errorf("%w: %q", ErrVisitTypeUnavailable, vt)
	}

	w.draft.VisitType = vt
	w.touch()
	return nil
}

// SetAddress stores the free-text home address. The value is only used
// at submission when the visit type is home.
func (w *Wizard) SetAddress(address string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Address = address
	w.touch()
}

// CanProceed reports whether the current step's completion predicate
// holds. The presentation layer uses it to disable the next/confirm
// control, which is how gate failures are prevented proactively.
func (w *Wizard) CanProceed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canProceedLocked()
}

func (w *Wizard) canProceedLocked() bool {
	switch w.step {
	case StepService:
		return w.draft.Service != nil
	case StepSchedule:
		return w.draft.Date != "" && w.draft.Time != ""
	case StepLocation:
		return w.draft.VisitType == models.VisitSalon ||
			(w.draft.VisitType == models.VisitHome && strings.TrimSpace(w.draft.Address) != "")
	case StepConfirm:
		return true
	default:
		return false
	}
}

// Next advances to the following step if the gate allows it. Confirm is
// not reachable through Next past step 4; use Confirm.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == StepConfirm || w.step == StepSubmitted {
		return fmt.Errorf("%w: %s", ErrWrongStep, w.step)
	}
	if !w.canProceedLocked() {
		return fmt.Errorf("%w: %s", ErrGateNotSatisfied, w.step)
	}

	switch w.step {
	case StepService:
		w.step = StepSchedule
	case StepSchedule:
		w.step = StepLocation
	case StepLocation:
		w.step = StepConfirm
	}
	w.touch()
	metrics.IncWizardTransition(string(w.step))
	return nil
}

// Back returns to the previous step. Selections already made are kept
// untouched so they remain visible when moving forward again.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepSchedule:
		w.step = StepService
	case StepLocation:
		w.step = StepSchedule
	case StepConfirm:
		w.step = StepLocation
	default:
		return fmt.Errorf("%w: %s", ErrWrongStep, w.step)
	}
	w.touch()
	metrics.IncWizardTransition(string(w.step))
	return nil
}

// Confirm submits the draft to the booking registry and returns the
// minted booking code. At most one submission can be outstanding per
// session: a confirm while another is in flight fails without reaching
// the registry. On registry failure the wizard stays on the confirm
// step so the user may retry.
func (w *Wizard) Confirm(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.step == StepSubmitted {
		w.mu.Unlock()
		return "", ErrSubmitted
	}
	if w.step != StepConfirm {
		step := w.step
		w.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrWrongStep, step)
	}
	if w.submitting {
		w.mu.Unlock()
		return "", ErrSubmissionInFlight
	}
	w.submitting = true
	req := w.buildRequestLocked()
	w.mu.Unlock()

	booking, err := w.reg.CreateBooking(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		metrics.IncSubmissionFailed()
		w.logger.Warn().Err(err).Msg("booking submission failed")
		return "", fmt.Errorf("submit booking: %w", err)
	}

	w.step = StepSubmitted
	w.bookingCode = booking.BookingCode
	w.touch()
	metrics.IncWizardTransition(string(StepSubmitted))
	w.logger.Info().Str("code", booking.BookingCode).Msg("booking submitted")

	if w.onSubmitted != nil {
		w.onSubmitted(booking.BookingCode)
	}
	return booking.BookingCode, nil
}

// buildRequestLocked assembles the registry request from the draft. A
// salon visit always carries the vendor's configured salon address,
// regardless of any text typed into the home address field.
func (w *Wizard) buildRequestLocked() registry.CreateRequest {
	address := w.draft.Address
	if w.draft.VisitType == models.VisitSalon {
		address = w.vendor.SalonAddress
	}

	return registry.CreateRequest{
		VendorID:    w.vendor.ID,
		VendorName:  w.vendor.Name,
		ServiceID:   w.draft.Service.ID,
		ServiceName: w.draft.Service.Name,
		Date:        w.draft.Date,
		Time:        w.draft.Time,
		VisitType:   w.draft.VisitType,
		Address:     address,
		Price:       w.draft.Service.Price,
	}
}

func (w *Wizard) touch() {
	w.updatedAt = w.now()
}
