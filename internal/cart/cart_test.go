package cart

import (
	"context"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SohithNarnavaram/BeautyHub/internal/events"
	"github.com/SohithNarnavaram/BeautyHub/internal/models"
	"github.com/SohithNarnavaram/BeautyHub/internal/storage"
)

const testUser int64 = 42

var oil = models.Product{ID: "prd-1", VendorID: "vnd-1", Name: "Argan Oil", Price: 650}
var clay = models.Product{ID: "prd-2", VendorID: "vnd-1", Name: "Matte Clay", Price: 450}

func validShipping() models.Shipping {
	return models.Shipping{
		Name:          "Asha Rao",
		Phone:         "+91 98450 00000",
		Address:       "12 MG Road",
		City:          "Bengaluru",
		Pincode:       "560001",
		PaymentMethod: "upi",
	}
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, nil, zerolog.New(io.Discard), opts...)
}

func TestAddMergesQuantities(t *testing.T) {
	s := newTestService(t)

	s.Add(testUser, oil, 1)
	s.Add(testUser, clay, 2)
	s.Add(testUser, oil, 2)

	items := s.Items(testUser)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 2, items[1].Quantity)
	assert.InDelta(t, 650*3+450*2, s.Subtotal(testUser), 0.001)
}

func TestUpdateQuantity(t *testing.T) {
	s := newTestService(t)
	s.Add(testUser, oil, 1)

	s.UpdateQuantity(testUser, oil.ID, 5)
	items := s.Items(testUser)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	// Zero quantity removes the item.
	s.UpdateQuantity(testUser, oil.ID, 0)
	assert.Empty(t, s.Items(testUser))
}

func TestRemoveAndClear(t *testing.T) {
	s := newTestService(t)
	s.Add(testUser, oil, 1)
	s.Add(testUser, clay, 1)

	s.Remove(testUser, oil.ID)
	require.Len(t, s.Items(testUser), 1)

	s.Clear(testUser)
	assert.Empty(t, s.Items(testUser))
	assert.Zero(t, s.Subtotal(testUser))
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	s := newTestService(t)
	s.Add(testUser, oil, 1)
	s.Add(testUser+1, clay, 1)

	require.Len(t, s.Items(testUser), 1)
	require.Len(t, s.Items(testUser+1), 1)
	assert.Equal(t, "prd-1", s.Items(testUser)[0].Product.ID)
	assert.Equal(t, "prd-2", s.Items(testUser+1)[0].Product.ID)
}

func TestCheckout(t *testing.T) {
	fixed := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	bus := events.NewBus()
	var published *models.Order
	bus.Subscribe(events.TypeOrderPlaced, func(e events.Event) {
		published = e.Payload.(*models.Order)
	})

	s := newTestService(t, WithClock(func() time.Time { return fixed }), WithEventBus(bus))
	s.Add(testUser, oil, 2)
	s.Add(testUser, clay, 1)

	order, err := s.Checkout(context.Background(), testUser, validShipping())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^OR[A-Z0-9]{6}$`), order.OrderCode)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, testUser, order.UserID)
	assert.InDelta(t, 1750.0, order.Subtotal, 0.001)
	assert.InDelta(t, DeliveryFee, order.Delivery, 0.001)
	assert.InDelta(t, 1850.0, order.Total, 0.001)
	assert.Equal(t, fixed, order.CreatedAt)

	// Cart is cleared and the order is persisted and published.
	assert.Empty(t, s.Items(testUser))
	require.NotNil(t, published)
	assert.Equal(t, order.ID, published.ID)

	stored, err := s.Orders(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, order.OrderCode, stored[0].OrderCode)
}

func TestCheckoutValidation(t *testing.T) {
	s := newTestService(t)

	_, err := s.Checkout(context.Background(), testUser, validShipping())
	assert.ErrorIs(t, err, ErrEmptyCart)

	s.Add(testUser, oil, 1)
	bad := validShipping()
	bad.Pincode = "  "
	_, err = s.Checkout(context.Background(), testUser, bad)
	assert.ErrorIs(t, err, ErrInvalidShipping)

	// Failed checkout keeps the cart intact.
	assert.Len(t, s.Items(testUser), 1)
}

type blockingStore struct {
	OrderStore
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (b *blockingStore) CreateOrder(ctx context.Context, o *models.Order) error {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-b.release
	return b.OrderStore.CreateOrder(ctx, o)
}

func TestCheckoutDebounce(t *testing.T) {
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := &blockingStore{OrderStore: db, release: make(chan struct{})}
	s := New(store, nil, zerolog.New(io.Discard))
	s.Add(testUser, oil, 1)

	done := make(chan error, 1)
	go func() {
		_, err := s.Checkout(context.Background(), testUser, validShipping())
		done <- err
	}()

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.calls == 1
	}, time.Second, 5*time.Millisecond)

	_, err = s.Checkout(context.Background(), testUser, validShipping())
	assert.ErrorIs(t, err, ErrCheckoutInFlight)

	close(store.release)
	require.NoError(t, <-done)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.calls)
}
