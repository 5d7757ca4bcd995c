package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(TypeBookingCreated, func(e Event) { got = append(got, e) })
	bus.Subscribe(TypeOrderPlaced, func(e Event) { t.Error("wrong type delivered") })

	bus.Publish(TypeBookingCreated, "payload")

	assert.Len(t, got, 1)
	assert.Equal(t, TypeBookingCreated, got[0].Type)
	assert.Equal(t, "payload", got[0].Payload)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestPublishOnNilBus(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() { bus.Publish(TypeOrderPlaced, nil) })
}

func TestMultipleHandlersRunInOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	bus.Subscribe(TypeBookingCancelled, func(Event) { order = append(order, 1) })
	bus.Subscribe(TypeBookingCancelled, func(Event) { order = append(order, 2) })

	bus.Publish(TypeBookingCancelled, nil)
	assert.Equal(t, []int{1, 2}, order)
}
