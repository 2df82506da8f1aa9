package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/balamurugesan03/Kotbilling/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeMenuResolver struct {
	items map[string]*models.MenuItem
}

func (f *fakeMenuResolver) ResolveByName(ctx context.Context, name string) (*models.MenuItem, error) {
	return f.items[strings.ToLower(name)], nil
}

func decodePayload(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestMapPlatformOrderSwiggy(t *testing.T) {
	payload := decodePayload(t, `{
		"order_id": "SWG-1001",
		"customer": {"name": "Arun", "phone": "9876543210"},
		"delivery_address": "12 MG Road, Bengaluru",
		"items": [
			{"name": "Paneer Tikka", "quantity": 2, "unit_price": 250, "notes": "extra spicy"}
		]
	}`)

	order, err := MapPlatformOrder(context.Background(), models.PlatformSwiggy, payload, nil)
	require.NoError(t, err)

	assert.Equal(t, models.OrderTypeOnline, order.Type)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PlatformSwiggy, order.Platform)
	assert.Equal(t, "SWG-1001", order.Platform_order_id)
	assert.Equal(t, "Arun", order.Customer_name)
	assert.Equal(t, "9876543210", order.Customer_phone)
	assert.Equal(t, "12 MG Road, Bengaluru", order.Delivery_address)
	assert.Equal(t, "online", order.Payment_method)
	assert.Equal(t, models.PaymentStatusPaid, order.Payment_status)
	assert.Equal(t, order.ID.Hex(), order.Order_id)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "Paneer Tikka", item.Name)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 250.0, item.Unit_price)
	assert.Equal(t, "extra spicy", item.Notes)
	assert.Equal(t, models.KitchenStatusQueued, item.Kitchen_status)

	assert.Equal(t, 500.0, order.Subtotal)
	assert.Equal(t, 25.0, order.Tax)
	assert.Equal(t, 525.0, order.Total)
}

func TestMapPlatformOrderZomatoAliases(t *testing.T) {
	payload := decodePayload(t, `{
		"id": 48213,
		"customer_name": "Meera",
		"customer_phone": "9123456780",
		"address": {"line1": "Flat 4B", "locality": "Indiranagar", "city": "Bengaluru", "pincode": "560038"},
		"order_items": [
			{"item_name": "Veg Biryani", "qty": 3, "price": 540, "special_instructions": "no onions"}
		]
	}`)

	order, err := MapPlatformOrder(context.Background(), models.PlatformZomato, payload, nil)
	require.NoError(t, err)

	assert.Equal(t, "48213", order.Platform_order_id, "numeric ids are coerced to strings")
	assert.Equal(t, "Meera", order.Customer_name)
	assert.Equal(t, "Flat 4B, Indiranagar, Bengaluru, 560038", order.Delivery_address)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "Veg Biryani", item.Name)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 180.0, item.Unit_price, "price is a line total, divided by quantity")
	assert.Equal(t, "no onions", item.Notes)
}

func TestMapPlatformOrderMissingOrderID(t *testing.T) {
	payload := decodePayload(t, `{"items": [{"name": "Dal Fry", "quantity": 1, "unit_price": 120}]}`)

	_, err := MapPlatformOrder(context.Background(), models.PlatformSwiggy, payload, nil)
	assert.ErrorIs(t, err, ErrMissingOrderID)
}

func TestMapPlatformOrderPlaceholderCustomer(t *testing.T) {
	payload := decodePayload(t, `{"order_id": "SWG-7", "items": []}`)
	order, err := MapPlatformOrder(context.Background(), models.PlatformSwiggy, payload, nil)
	require.NoError(t, err)
	assert.Equal(t, "Swiggy Customer", order.Customer_name)

	payload = decodePayload(t, `{"order_id": "ZOM-7", "items": []}`)
	order, err = MapPlatformOrder(context.Background(), models.PlatformZomato, payload, nil)
	require.NoError(t, err)
	assert.Equal(t, "Zomato Customer", order.Customer_name)
}

func TestMapPlatformOrderItemDefaults(t *testing.T) {
	payload := decodePayload(t, `{
		"order_id": "SWG-9",
		"items": [
			{"quantity": 0, "unit_price": 100},
			{"name": "Lime Soda"}
		]
	}`)

	order, err := MapPlatformOrder(context.Background(), models.PlatformSwiggy, payload, nil)
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	assert.Equal(t, "Unknown Item", order.Items[0].Name)
	assert.Equal(t, 1, order.Items[0].Quantity, "quantity is clamped to at least 1")
	assert.Equal(t, "Lime Soda", order.Items[1].Name)
	assert.Equal(t, 0.0, order.Items[1].Unit_price, "missing price maps to zero")
}

func TestMapPlatformOrderResolvesMenuItems(t *testing.T) {
	menuID := primitive.NewObjectID().Hex()
	menus := &fakeMenuResolver{items: map[string]*models.MenuItem{
		"paneer tikka": {Menu_item_id: menuID, Name: "Paneer Tikka"},
	}}

	payload := decodePayload(t, `{
		"order_id": "SWG-11",
		"items": [
			{"name": "paneer tikka", "quantity": 1, "unit_price": 250},
			{"name": "Not On Menu", "quantity": 1, "unit_price": 90}
		]
	}`)

	order, err := MapPlatformOrder(context.Background(), models.PlatformSwiggy, payload, menus)
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	require.NotNil(t, order.Items[0].Menu_item_id)
	assert.Equal(t, menuID, *order.Items[0].Menu_item_id)
	assert.Nil(t, order.Items[1].Menu_item_id, "unmatched items keep no catalog link")
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "plain text", formatAddress("plain text"))
	assert.Equal(t, "", formatAddress(nil))
	assert.Equal(t, "", formatAddress(42.0))

	structured := map[string]interface{}{
		"address_line_1": "221B",
		"line2":          "",
		"city":           "Mumbai",
		"zip":            "400001",
	}
	assert.Equal(t, "221B, Mumbai, 400001", formatAddress(structured))
}
