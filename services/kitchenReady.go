package services

import (
	"context"

	"github.com/balamurugesan03/Kotbilling/events"
	"github.com/balamurugesan03/Kotbilling/models"
)

// ReadyAggregator derives an order's ready status from its kitchen items:
// the order reaches ready only once every item is ready, and the transition
// with its broadcast and platform callback happens exactly once.
type ReadyAggregator struct {
	orders   OrderStore
	kitchen  KitchenStore
	hub      Broadcaster
	notifier Notifier
}

func NewReadyAggregator(orders OrderStore, kitchen KitchenStore, hub Broadcaster, notifier Notifier) *ReadyAggregator {
	return &ReadyAggregator{
		orders:   orders,
		kitchen:  kitchen,
		hub:      hub,
		notifier: notifier,
	}
}

// OnKitchenItemReady runs after a kitchen item turns ready. When that was
// the order's last non-ready item, the order itself moves to ready, the
// change is broadcast, and platform orders notify their platform. The
// returned bool reports whether this call performed the transition; a
// repeat call for an already-ready order is a no-op.
func (agg *ReadyAggregator) OnKitchenItemReady(ctx context.Context, orderID string) (bool, error) {
	pending, err := agg.kitchen.CountPending(ctx, orderID)
	if err != nil {
		return false, err
	}
	if pending > 0 {
		return false, nil
	}

	transitioned, err := agg.orders.TransitionToReady(ctx, orderID)
	if err != nil || !transitioned {
		return false, err
	}

	order, err := agg.orders.FindByID(ctx, orderID)
	if err != nil {
		return true, err
	}
	if order == nil {
		return true, nil
	}

	agg.hub.Broadcast(events.EventOrderStatusUpdated, *order)
	if order.Platform != "" && order.Platform_order_id != "" {
		// Fire-and-forget: a failed platform callback never undoes the move.
		agg.notifier.NotifyPlatformStatus(order.Platform, order.Platform_order_id, models.OrderStatusReady, nil)
	}
	return true, nil
}
