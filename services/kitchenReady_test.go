package services

import (
	"context"
	"testing"

	"github.com/balamurugesan03/Kotbilling/events"
	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readyFixture struct {
	orders   *fakeOrderStore
	kitchen  *fakeKitchenStore
	hub      *fakeBroadcaster
	notifier *fakeNotifier
	agg      *ReadyAggregator
}

func newReadyFixture(order *models.Order, itemStatuses ...string) *readyFixture {
	f := &readyFixture{
		orders:   newFakeOrderStore(),
		kitchen:  &fakeKitchenStore{},
		hub:      &fakeBroadcaster{},
		notifier: &fakeNotifier{},
	}
	f.orders.existing[order.Order_id] = order
	for _, status := range itemStatuses {
		f.kitchen.inserted = append(f.kitchen.inserted, models.KitchenItem{
			Order_id: order.Order_id,
			Status:   status,
		})
	}
	f.agg = NewReadyAggregator(f.orders, f.kitchen, f.hub, f.notifier)
	return f
}

func onlineOrder(status string) *models.Order {
	return &models.Order{
		Order_id:          "ord-1",
		Order_number:      1001,
		Type:              models.OrderTypeOnline,
		Status:            status,
		Platform:          models.PlatformSwiggy,
		Platform_order_id: "SWG-1001",
	}
}

func TestReadyAggregationWaitsForAllItems(t *testing.T) {
	f := newReadyFixture(onlineOrder(models.OrderStatusPreparing),
		models.KitchenStatusReady, models.KitchenStatusCooking)

	transitioned, err := f.agg.OnKitchenItemReady(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, models.OrderStatusPreparing, f.orders.existing["ord-1"].Status)
	assert.Empty(t, f.hub.events)
	assert.Empty(t, f.notifier.calls)
}

func TestReadyAggregationLastItemFlipsOrder(t *testing.T) {
	f := newReadyFixture(onlineOrder(models.OrderStatusPreparing),
		models.KitchenStatusReady, models.KitchenStatusReady)

	transitioned, err := f.agg.OnKitchenItemReady(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, models.OrderStatusReady, f.orders.existing["ord-1"].Status)
	assert.Equal(t, []string{events.EventOrderStatusUpdated}, f.hub.events)
	assert.Equal(t, []string{"swiggy/SWG-1001/ready"}, f.notifier.calls)
}

func TestReadyAggregationFiresExactlyOnce(t *testing.T) {
	f := newReadyFixture(onlineOrder(models.OrderStatusPreparing),
		models.KitchenStatusReady)

	first, err := f.agg.OnKitchenItemReady(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.True(t, first)

	// A repeat delivery of the same ready update must not re-fire anything.
	second, err := f.agg.OnKitchenItemReady(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.False(t, second)

	assert.Equal(t, 1, f.orders.readyTransitions)
	assert.Len(t, f.hub.events, 1)
	assert.Len(t, f.notifier.calls, 1)
}

func TestReadyAggregationLocalOrderSkipsCallback(t *testing.T) {
	order := &models.Order{
		Order_id:     "ord-2",
		Order_number: 1002,
		Type:         models.OrderTypeDineIn,
		Status:       models.OrderStatusPreparing,
	}
	f := newReadyFixture(order, models.KitchenStatusReady)

	transitioned, err := f.agg.OnKitchenItemReady(context.Background(), "ord-2")
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, []string{events.EventOrderStatusUpdated}, f.hub.events)
	assert.Empty(t, f.notifier.calls)
}
