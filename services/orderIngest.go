package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/balamurugesan03/Kotbilling/events"
	"github.com/balamurugesan03/Kotbilling/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrPlatformDisabled rejects webhooks for platforms that are absent or
	// switched off. Nothing is parsed or persisted.
	ErrPlatformDisabled = errors.New("platform integration is disabled")

	// ErrInvalidSignature rejects webhooks whose signature does not verify
	// against the configured secret.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrDuplicateOrder is returned by OrderStore.Insert when the storage
	// layer's (platform, platform_order_id) uniqueness constraint fires.
	ErrDuplicateOrder = errors.New("platform order already exists")
)

// ConfigStore reads and updates per-platform integration settings.
// GetConfig returns (nil, nil) when no config exists for the platform.
type ConfigStore interface {
	GetConfig(ctx context.Context, platform string) (*models.AggregatorConfig, error)
	SetConnectionStatus(ctx context.Context, platform, status string) error
}

// OrderStore persists orders. Insert must surface a dedup-key conflict as
// ErrDuplicateOrder; that conflict, not the pre-insert lookup, is the source
// of truth for webhook redelivery.
type OrderStore interface {
	FindByPlatformOrder(ctx context.Context, platform, platformOrderID string) (*models.Order, error)
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	Insert(ctx context.Context, order *models.Order) error
	NextOrderNumber(ctx context.Context) (int, error)
	SetStatus(ctx context.Context, orderID, status string) error
	// TransitionToReady moves the order to ready only from pending or
	// preparing, reporting whether this call performed the move.
	TransitionToReady(ctx context.Context, orderID string) (bool, error)
}

type KitchenStore interface {
	InsertMany(ctx context.Context, items []models.KitchenItem) error
	CountPending(ctx context.Context, orderID string) (int64, error)
}

type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

type Notifier interface {
	NotifyPlatformStatus(platform, platformOrderID, status string, extra map[string]interface{}) CallbackResult
}

// IngestResult references the order a webhook resolved to, whether freshly
// created or found from an earlier delivery of the same platform order.
type IngestResult struct {
	Order         *models.Order
	AlreadyExists bool
}

// OrderIngestor is the webhook entry point: it verifies, maps, dedups,
// persists and fans out a platform order delivery.
type OrderIngestor struct {
	configs  ConfigStore
	orders   OrderStore
	kitchen  KitchenStore
	menus    MenuResolver
	hub      Broadcaster
	notifier Notifier
}

func NewOrderIngestor(configs ConfigStore, orders OrderStore, kitchen KitchenStore, menus MenuResolver, hub Broadcaster, notifier Notifier) *OrderIngestor {
	return &OrderIngestor{
		configs:  configs,
		orders:   orders,
		kitchen:  kitchen,
		menus:    menus,
		hub:      hub,
		notifier: notifier,
	}
}

// Ingest processes one webhook delivery. Redelivery of a platform order is a
// safe no-op: the existing order is returned and nothing new is persisted.
func (ing *OrderIngestor) Ingest(ctx context.Context, platform string, rawBody []byte, header http.Header) (IngestResult, error) {
	config, err := ing.configs.GetConfig(ctx, platform)
	if err != nil {
		return IngestResult{}, fmt.Errorf("loading %s config: %w", platform, err)
	}
	if config == nil || !config.Is_enabled {
		return IngestResult{}, ErrPlatformDisabled
	}

	// Skipping verification when no secret is configured is an explicit
	// operator opt-out, not a verifier fallback.
	if config.Webhook_secret != "" {
		signature := SignatureFromHeaders(header, platform)
		if !VerifyWebhookSignature(config.Webhook_secret, rawBody, signature) {
			return IngestResult{}, ErrInvalidSignature
		}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return IngestResult{}, fmt.Errorf("parsing %s payload: %w", platform, err)
	}

	order, err := MapPlatformOrder(ctx, platform, payload, ing.menus)
	if err != nil {
		return IngestResult{}, err
	}

	// Fast path only; the unique index decides.
	existing, err := ing.orders.FindByPlatformOrder(ctx, platform, order.Platform_order_id)
	if err != nil {
		return IngestResult{}, fmt.Errorf("checking %s order %s: %w", platform, order.Platform_order_id, err)
	}
	if existing != nil {
		return IngestResult{Order: existing, AlreadyExists: true}, nil
	}

	orderNumber, err := ing.orders.NextOrderNumber(ctx)
	if err != nil {
		return IngestResult{}, fmt.Errorf("assigning order number: %w", err)
	}
	order.Order_number = orderNumber

	if err := ing.orders.Insert(ctx, &order); err != nil {
		if errors.Is(err, ErrDuplicateOrder) {
			// A concurrent redelivery won the race; its order is canonical.
			existing, lookupErr := ing.orders.FindByPlatformOrder(ctx, platform, order.Platform_order_id)
			if lookupErr == nil && existing != nil {
				return IngestResult{Order: existing, AlreadyExists: true}, nil
			}
			return IngestResult{}, fmt.Errorf("resolving duplicate %s order %s: %w", platform, order.Platform_order_id, err)
		}
		return IngestResult{}, fmt.Errorf("persisting %s order %s: %w", platform, order.Platform_order_id, err)
	}

	if err := ing.kitchen.InsertMany(ctx, kitchenItemsFor(&order)); err != nil {
		// The order exists but its tickets do not. There is no multi-document
		// rollback here; keep the order discoverable and flag for manual
		// reconciliation.
		log.Printf("RECONCILE: order %s (#%d) persisted but kitchen items failed: %v", order.Order_id, order.Order_number, err)
	}

	ing.hub.Broadcast(events.EventNewOnlineOrder, order)
	ing.hub.Broadcast(events.EventKitchenUpdated, map[string]interface{}{"type": "new-order", "order_id": order.Order_id})

	if config.Auto_accept {
		if err := ing.orders.SetStatus(ctx, order.Order_id, models.OrderStatusPreparing); err != nil {
			log.Printf("auto-accept: order %s status update failed: %v", order.Order_id, err)
		} else {
			order.Status = models.OrderStatusPreparing
			ing.hub.Broadcast(events.EventOrderStatusUpdated, order)
			// Fire-and-forget: a failed platform callback never fails ingestion.
			ing.notifier.NotifyPlatformStatus(platform, order.Platform_order_id, models.OrderStatusPreparing, nil)
		}
	}

	return IngestResult{Order: &order}, nil
}

// kitchenItemsFor derives one trackable kitchen ticket per order line item.
func kitchenItemsFor(order *models.Order) []models.KitchenItem {
	now := time.Now().UTC()
	items := make([]models.KitchenItem, 0, len(order.Items))
	for _, line := range order.Items {
		id := primitive.NewObjectID()
		items = append(items, models.KitchenItem{
			ID:              id,
			Kitchen_item_id: id.Hex(),
			Order_id:        order.Order_id,
			Order_number:    order.Order_number,
			Order_item_id:   line.ID.Hex(),
			Table_number:    order.Table_number,
			Item_name:       line.Name,
			Quantity:        line.Quantity,
			Status:          models.KitchenStatusQueued,
			Notes:           line.Notes,
			Is_online:       order.Type == models.OrderTypeOnline,
			Platform:        order.Platform,
			Created_at:      now,
			Updated_at:      now,
		})
	}
	return items
}
