// Package cart implements per-user shopping carts and product checkout.
package cart

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SohithNarnavaram/BeautyHub/internal/events"
	"github.com/SohithNarnavaram/BeautyHub/internal/latency"
	"github.com/SohithNarnavaram/BeautyHub/internal/metrics"
	"github.com/SohithNarnavaram/BeautyHub/internal/models"
)

// OpCheckout names the checkout operation for the latency simulator.
const OpCheckout = "checkout"

// DeliveryFee is the flat delivery charge added to every order.
const DeliveryFee = 100.0

var (
	// ErrEmptyCart is returned when checking out with no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidShipping is returned when the shipping form misses
	// required fields.
	ErrInvalidShipping = errors.New("invalid shipping details")

	// ErrCheckoutInFlight is returned when a checkout for the same user
	// is already being processed.
	ErrCheckoutInFlight = errors.New("checkout already in progress")
)

// OrderStore persists completed orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error)
}

// Service manages carts keyed by user id.
type Service struct {
	mu       sync.Mutex
	carts    map[int64][]models.CartItem
	checking map[int64]bool

	store  OrderStore
	sim    *latency.Simulator
	bus    *events.Bus
	logger zerolog.Logger
	now    func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithEventBus publishes order events on the bus.
func WithEventBus(bus *events.Bus) Option {
	return func(s *Service) { s.bus = bus }
}

// New creates a cart service over the order store. sim may be nil for
// immediate resolution.
func New(store OrderStore, sim *latency.Simulator, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		carts:    make(map[int64][]models.CartItem),
		checking: make(map[int64]bool),
		store:    store,
		sim:      sim,
		logger:   logger.With().Str("component", "cart").Logger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add puts a product in the user's cart. Adding a product already in
// the cart merges quantities.
func (s *Service) Add(userID int64, product models.Product, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	for i := range items {
		if items[i].Product.ID == product.ID {
			items[i].Quantity += quantity
			return
		}
	}
	s.carts[userID] = append(items, models.CartItem{Product: product, Quantity: quantity})
}

// UpdateQuantity sets the quantity for a product. A quantity of zero or
// less removes the item.
func (s *Service) UpdateQuantity(userID int64, productID string, quantity int) {
	if quantity <= 0 {
		s.Remove(userID, productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes a product from the user's cart.
func (s *Service) Remove(userID int64, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	for i := range items {
		if items[i].Product.ID == productID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			return
		}
	}
}

// Clear empties the user's cart.
func (s *Service) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// Items returns a snapshot of the user's cart.
func (s *Service) Items(userID int64) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartItem(nil), s.carts[userID]...)
}

// Subtotal returns the sum of line totals in the user's cart.
func (s *Service) Subtotal(userID int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.carts[userID] {
		total += item.LineTotal()
	}
	return total
}

// Checkout turns the user's cart into a persisted order and clears the
// cart on success. At most one checkout per user is in flight at a
// time; concurrent attempts return ErrCheckoutInFlight.
func (s *Service) Checkout(ctx context.Context, userID int64, shipping models.Shipping) (*models.Order, error) {
	s.mu.Lock()
	if s.checking[userID] {
		s.mu.Unlock()
		return nil, ErrCheckoutInFlight
	}
	items := append([]models.CartItem(nil), s.carts[userID]...)
	if len(items) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if err := validateShipping(shipping); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.checking[userID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.checking[userID] = false
		s.mu.Unlock()
	}()

	if err := s.sim.Wait(ctx, OpCheckout); err != nil {
		return nil, err
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal()
	}

	order := &models.Order{
		ID:        uuid.NewString(),
		OrderCode: newOrderCode(),
		UserID:    userID,
		Items:     items,
		Subtotal:  subtotal,
		Delivery:  DeliveryFee,
		Total:     subtotal + DeliveryFee,
		Shipping:  shipping,
		CreatedAt: s.now(),
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.Clear(userID)
	metrics.IncOrderPlaced()
	s.bus.Publish(events.TypeOrderPlaced, order)
	s.logger.Info().
		Str("order_id", order.ID).
		Str("code", order.OrderCode).
		Int64("user_id", userID).
		Float64("total", order.Total).
		Msg("order placed")

	return order, nil
}

// Orders returns the user's past orders.
func (s *Service) Orders(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.store.ListUserOrders(ctx, userID)
}

func validateShipping(sh models.Shipping) error {
	if strings.TrimSpace(sh.Name) == "" ||
		strings.TrimSpace(sh.Phone) == "" ||
		strings.TrimSpace(sh.Address) == "" ||
		strings.TrimSpace(sh.City) == "" ||
		strings.TrimSpace(sh.Pincode) == "" {
		return fmt.Errorf("%w: name, phone, address, city and pincode are required", ErrInvalidShipping)
	}
	return nil
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newOrderCode generates a display code like "OR4N8PT2".
func newOrderCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "OR" + uuid.NewString()[:6]
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return "OR" + string(buf)
}
