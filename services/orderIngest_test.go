package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/balamurugesan03/Kotbilling/events"
	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	existing   map[string]*models.Order
	inserted   []*models.Order
	statuses   map[string]string
	nextNumber int
	findMisses int

	readyTransitions int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		existing:   map[string]*models.Order{},
		statuses:   map[string]string{},
		nextNumber: 1000,
	}
}

func (f *fakeOrderStore) key(platform, platformOrderID string) string {
	return platform + "/" + platformOrderID
}

func (f *fakeOrderStore) FindByPlatformOrder(ctx context.Context, platform, platformOrderID string) (*models.Order, error) {
	if f.findMisses > 0 {
		f.findMisses--
		return nil, nil
	}
	return f.existing[f.key(platform, platformOrderID)], nil
}

func (f *fakeOrderStore) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	for _, order := range f.existing {
		if order.Order_id == orderID {
			return order, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderStore) Insert(ctx context.Context, order *models.Order) error {
	if _, ok := f.existing[f.key(order.Platform, order.Platform_order_id)]; ok {
		return ErrDuplicateOrder
	}
	f.existing[f.key(order.Platform, order.Platform_order_id)] = order
	f.inserted = append(f.inserted, order)
	return nil
}

func (f *fakeOrderStore) NextOrderNumber(ctx context.Context) (int, error) {
	f.nextNumber++
	return f.nextNumber, nil
}

func (f *fakeOrderStore) SetStatus(ctx context.Context, orderID, status string) error {
	f.statuses[orderID] = status
	return nil
}

func (f *fakeOrderStore) TransitionToReady(ctx context.Context, orderID string) (bool, error) {
	order, _ := f.FindByID(ctx, orderID)
	if order == nil {
		return false, nil
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusPreparing {
		return false, nil
	}
	order.Status = models.OrderStatusReady
	f.readyTransitions++
	return true, nil
}

type fakeKitchenStore struct {
	inserted []models.KitchenItem
}

func (f *fakeKitchenStore) InsertMany(ctx context.Context, items []models.KitchenItem) error {
	f.inserted = append(f.inserted, items...)
	return nil
}

func (f *fakeKitchenStore) CountPending(ctx context.Context, orderID string) (int64, error) {
	var pending int64
	for _, item := range f.inserted {
		if item.Order_id == orderID && item.Status != models.KitchenStatusReady {
			pending++
		}
	}
	return pending, nil
}

type fakeBroadcaster struct {
	events []string
}

func (f *fakeBroadcaster) Broadcast(event string, payload interface{}) {
	f.events = append(f.events, event)
}

type fakeNotifier struct {
	calls []string
}

func (f *fakeNotifier) NotifyPlatformStatus(platform, platformOrderID, status string, extra map[string]interface{}) CallbackResult {
	f.calls = append(f.calls, platform+"/"+platformOrderID+"/"+status)
	return CallbackResult{Dispatched: true}
}

type ingestFixture struct {
	configs  *fakeConfigStore
	orders   *fakeOrderStore
	kitchen  *fakeKitchenStore
	hub      *fakeBroadcaster
	notifier *fakeNotifier
	ingestor *OrderIngestor
}

func newIngestFixture(config *models.AggregatorConfig) *ingestFixture {
	f := &ingestFixture{
		configs:  &fakeConfigStore{configs: map[string]*models.AggregatorConfig{}},
		orders:   newFakeOrderStore(),
		kitchen:  &fakeKitchenStore{},
		hub:      &fakeBroadcaster{},
		notifier: &fakeNotifier{},
	}
	if config != nil {
		f.configs.configs[config.Platform] = config
	}
	f.ingestor = NewOrderIngestor(f.configs, f.orders, f.kitchen, nil, f.hub, f.notifier)
	return f
}

const swiggyPayload = `{
	"order_id": "SWG-1001",
	"customer": {"name": "Arun", "phone": "9876543210"},
	"delivery_address": "12 MG Road",
	"items": [
		{"name": "Paneer Tikka", "quantity": 2, "unit_price": 250},
		{"name": "Butter Naan", "quantity": 4, "unit_price": 40}
	]
}`

func TestIngestCreatesOrderAndKitchenItems(t *testing.T) {
	f := newIngestFixture(&models.AggregatorConfig{
		Platform:   models.PlatformSwiggy,
		Is_enabled: true,
	})

	result, err := f.ingestor.Ingest(context.Background(), models.PlatformSwiggy, []byte(swiggyPayload), http.Header{})
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.False(t, result.AlreadyExists)

	order := result.Order
	assert.Equal(t, 1001, order.Order_number)
	assert.Equal(t, "SWG-1001", order.Platform_order_id)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 660.0, order.Subtotal)
	assert.Equal(t, 33.0, order.Tax)
	assert.Equal(t, 693.0, order.Total)

	require.Len(t, f.orders.inserted, 1)
	require.Len(t, f.kitchen.inserted, 2, "one kitchen item per line item")
	for i, item := range f.kitchen.inserted {
		assert.Equal(t, order.Order_id, item.Order_id)
		assert.Equal(t, order.Order_number, item.Order_number)
		assert.Equal(t, order.Items[i].ID.Hex(), item.Order_item_id)
		assert.Equal(t, models.KitchenStatusQueued, item.Status)
		assert.True(t, item.Is_online)
		assert.Equal(t, models.PlatformSwiggy, item.Platform)
	}

	assert.Equal(t, []string{events.EventNewOnlineOrder, events.EventKitchenUpdated}, f.hub.events)
	assert.Empty(t, f.notifier.calls, "no callback without auto-accept")
}

func TestIngestRejectsDisabledPlatform(t *testing.T) {
	cases := map[string]*models.AggregatorConfig{
		"no config":       nil,
		"disabled config": {Platform: models.PlatformSwiggy, Is_enabled: false},
	}
	for name, config := range cases {
		t.Run(name, func(t *testing.T) {
			f := newIngestFixture(config)
			_, err := f.ingestor.Ingest(context.Background(), models.PlatformSwiggy, []byte(swiggyPayload), http.Header{})
			assert.ErrorIs(t, err, ErrPlatformDisabled)
			assert.Empty(t, f.orders.inserted)
			assert.Empty(t, f.kitchen.inserted)
			assert.Empty(t, f.hub.events)
		})
	}
}

func TestIngestRejectsBadSignature(t *testing.T) {
	f := newIngestFixture(&models.AggregatorConfig{
		Platform:       models.PlatformSwiggy,
		Is_enabled:     true,
		Webhook_secret: "whsec_test",
	})

	header := http.Header{}
	header.Set("X-Swiggy-Signature", "not-a-valid-signature")
	_, err := f.ingestor.Ingest(context.Background(), models.PlatformSwiggy, []byte(swiggyPayload), header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, f.orders.inserted)

	_, err = f.ingestor.Ingest(context.Background(), models.PlatformSwiggy, []byte(swiggyPayload), http.Header{})
	assert.ErrorIs(t, err, ErrInvalidSignature, "missing header is rejected too")
}

func TestIngestAcceptsValidSignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(swiggyPayload)
	f := newIngestFixture(&models.AggregatorConfig{
		Platform:       models.PlatformSwiggy,
		Is_enabled:     true,
		Webhook_secret: secret,
	})

	header := http.Header{}
	header.Set("X-Swiggy-Signature", signBody(secret, body))
	result, err := f.ingestor.Ingest(context.Background(), models.PlatformSwiggy, body, header)
	require.NoError(t, err)
	assert.False(t, result.AlreadyExists)
}

func TestIngestRedeliveryIsIdempotent(t *testing.T) {
	f := newIngestFixture(&models.AggregatorConfig{
		Platform:   models.PlatformSwiggy,
		Is_enabled: true,
	})

	first, err := f.ingestor.Ingest(context.Background(), models.PlatformSwiggy, []byte(swiggyPayload), http.Header{})
	require.NoError(t, err)

	second, err := f.ingestor.Ingest(context.Background(), models.PlatformSwiggy, []byte(swiggyPayload), http.Header{})
	require.NoError(t, err)
	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.Order.Order_id, second.Order.Order_id)
	assert.Len(t, f.orders.inserted, 1, "redelivery persists nothing")
	assert.Len(t, f.kitchen.inserted, 2, "redelivery creates no new kitchen items")
}

func TestIngestDuplicateKeyRace(t *testing.T) {
	f := newIngestFixture(&models.AggregatorConfig{
		Platform:   models.PlatformSwiggy,
		Is_enabled: true,
	})

	// A concurrent redelivery wins between the fast-path lookup and the
	// insert: the lookup misses once, the unique constraint fires, and the
	// existing order is resolved on re-fetch.
	winner := &models.Order{Order_id: "winner", Platform: models.PlatformSwiggy, Platform_order_id: "SWG-1001"}
	f.orders.existing[f.orders.key(models.PlatformSwiggy, "SWG-1001")] = winner
	f.orders.findMisses = 1

	result, err := f.ingestor.Ingest(context.Background(), models.PlatformSwiggy, []byte(swiggyPayload), http.Header{})
	require.NoError(t, err)
	assert.True(t, result.AlreadyExists)
	assert.Equal(t, "winner", result.Order.Order_id)
	assert.Empty(t, f.orders.inserted, "loser order is not persisted")
	assert.Empty(t, f.kitchen.inserted, "loser creates no kitchen items")
}

func TestIngestAutoAccept(t *testing.T) {
	f := newIngestFixture(&models.AggregatorConfig{
		Platform:    models.PlatformSwiggy,
		Is_enabled:  true,
		Auto_accept: true,
	})

	result, err := f.ingestor.Ingest(context.Background(), models.PlatformSwiggy, []byte(swiggyPayload), http.Header{})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPreparing, result.Order.Status)
	assert.Equal(t, models.OrderStatusPreparing, f.orders.statuses[result.Order.Order_id])
	assert.Equal(t, []string{events.EventNewOnlineOrder, events.EventKitchenUpdated, events.EventOrderStatusUpdated}, f.hub.events)
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "swiggy/SWG-1001/preparing", f.notifier.calls[0])
}

func TestIngestRejectsMalformedJSON(t *testing.T) {
	f := newIngestFixture(&models.AggregatorConfig{
		Platform:   models.PlatformZomato,
		Is_enabled: true,
	})

	_, err := f.ingestor.Ingest(context.Background(), models.PlatformZomato, []byte("{not json"), http.Header{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPlatformDisabled)
	assert.NotErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, f.orders.inserted)
}

func TestIngestRejectsPayloadWithoutOrderID(t *testing.T) {
	f := newIngestFixture(&models.AggregatorConfig{
		Platform:   models.PlatformZomato,
		Is_enabled: true,
	})

	_, err := f.ingestor.Ingest(context.Background(), models.PlatformZomato, []byte(`{"items": []}`), http.Header{})
	assert.ErrorIs(t, err, ErrMissingOrderID)
	assert.Empty(t, f.orders.inserted)
}
