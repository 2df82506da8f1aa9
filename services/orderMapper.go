package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/balamurugesan03/Kotbilling/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrMissingOrderID rejects payloads that carry no platform order identifier.
// The webhook handler must not persist anything when mapping fails.
var ErrMissingOrderID = errors.New("payload has no platform order id")

// MenuResolver looks up a catalog item by exact, case-insensitive name.
// A nil item with a nil error means no match, which is not a failure: mapped
// items without a catalog link are still valid.
type MenuResolver interface {
	ResolveByName(ctx context.Context, name string) (*models.MenuItem, error)
}

// priceKey pairs a vendor key with whether its value is a line total that
// must be divided by the quantity to recover the unit price.
type priceKey struct {
	key       string
	lineTotal bool
}

// Vendors are inconsistent about snake_case versus nested objects, so every
// logical field is read through an ordered list of key paths (dots descend
// into nested objects). Adding a platform is a data change: a new entry in
// platformPlaceholders, not new code.
var (
	orderIDKeys       = []string{"order_id", "id"}
	itemListKeys      = []string{"items", "order_items"}
	customerNameKeys  = []string{"customer.name", "customer_name"}
	customerPhoneKeys = []string{"customer.phone", "customer_phone"}
	addressKeys       = []string{"delivery_address", "address"}
	itemNameKeys      = []string{"name", "item_name"}
	itemQuantityKeys  = []string{"quantity", "qty"}
	itemNotesKeys     = []string{"notes", "special_instructions"}
	itemPriceKeys     = []priceKey{
		{key: "unit_price"},
		{key: "price", lineTotal: true},
		{key: "total_price", lineTotal: true},
	}
	addressPartKeys = [][]string{
		{"line1", "address_line_1"},
		{"line2", "address_line_2"},
		{"landmark"},
		{"area", "locality"},
		{"city"},
		{"pincode", "zip"},
	}
)

var platformPlaceholders = map[string]string{
	models.PlatformSwiggy: "Swiggy Customer",
	models.PlatformZomato: "Zomato Customer",
}

// MapPlatformOrder normalizes a loosely structured vendor payload into an
// internal online order with its line items. Subtotal, tax and total are
// computed from the mapped items; status starts at pending and payment is
// recorded as settled by the platform.
func MapPlatformOrder(ctx context.Context, platform string, payload map[string]interface{}, menus MenuResolver) (models.Order, error) {
	platformOrderID := coerceID(firstValue(payload, orderIDKeys))
	if platformOrderID == "" {
		return models.Order{}, fmt.Errorf("mapping %s payload: %w", platform, ErrMissingOrderID)
	}

	customerName := firstString(payload, customerNameKeys)
	if customerName == "" {
		customerName = platformPlaceholders[platform]
	}

	items, err := mapOrderItems(ctx, rawItems(payload), menus)
	if err != nil {
		return models.Order{}, fmt.Errorf("mapping %s items: %w", platform, err)
	}

	now := time.Now().UTC()
	order := models.Order{
		ID:                primitive.NewObjectID(),
		Type:              models.OrderTypeOnline,
		Status:            models.OrderStatusPending,
		Platform:          platform,
		Platform_order_id: platformOrderID,
		Customer_name:     customerName,
		Customer_phone:    firstString(payload, customerPhoneKeys),
		Delivery_address:  formatAddress(firstValue(payload, addressKeys)),
		Items:             items,
		Payment_method:    "online",
		Payment_status:    models.PaymentStatusPaid,
		Created_at:        now,
		Updated_at:        now,
	}
	order.Order_id = order.ID.Hex()
	order.ComputeTotals()
	return order, nil
}

func rawItems(payload map[string]interface{}) []interface{} {
	for _, key := range itemListKeys {
		if list, ok := payload[key].([]interface{}); ok {
			return list
		}
	}
	return nil
}

func mapOrderItems(ctx context.Context, platformItems []interface{}, menus MenuResolver) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(platformItems))

	for _, raw := range platformItems {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		name := firstString(entry, itemNameKeys)
		if name == "" {
			name = "Unknown Item"
		}

		quantity := int(firstNumber(entry, itemQuantityKeys, 1))
		if quantity < 1 {
			quantity = 1
		}

		unitPrice := resolveUnitPrice(entry, quantity)

		item := models.OrderItem{
			ID:             primitive.NewObjectID(),
			Name:           name,
			Quantity:       quantity,
			Unit_price:     models.Round2(unitPrice),
			Notes:          firstString(entry, itemNotesKeys),
			Kitchen_status: models.KitchenStatusQueued,
		}

		if menus != nil {
			menuItem, err := menus.ResolveByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if menuItem != nil {
				id := menuItem.Menu_item_id
				item.Menu_item_id = &id
			}
		}

		items = append(items, item)
	}
	return items, nil
}

func resolveUnitPrice(entry map[string]interface{}, quantity int) float64 {
	for _, pk := range itemPriceKeys {
		value, ok := entry[pk.key]
		if !ok {
			continue
		}
		price, ok := toNumber(value)
		if !ok {
			continue
		}
		if pk.lineTotal && quantity > 0 {
			return price / float64(quantity)
		}
		return price
	}
	return 0
}

// formatAddress passes free-text addresses through unchanged and joins the
// non-empty components of structured addresses with ", ".
func formatAddress(value interface{}) string {
	switch addr := value.(type) {
	case string:
		return addr
	case map[string]interface{}:
		var parts []string
		for _, aliases := range addressPartKeys {
			for _, key := range aliases {
				if s, ok := addr[key].(string); ok && s != "" {
					parts = append(parts, s)
					break
				}
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// firstValue walks the ordered key paths and returns the first present value.
func firstValue(m map[string]interface{}, paths []string) interface{} {
	for _, path := range paths {
		if v, ok := lookupPath(m, path); ok {
			return v
		}
	}
	return nil
}

func firstString(m map[string]interface{}, paths []string) string {
	for _, path := range paths {
		if v, ok := lookupPath(m, path); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstNumber(m map[string]interface{}, paths []string, fallback float64) float64 {
	for _, path := range paths {
		if v, ok := lookupPath(m, path); ok {
			if n, ok := toNumber(v); ok {
				return n
			}
		}
	}
	return fallback
}

func lookupPath(m map[string]interface{}, path string) (interface{}, bool) {
	segments := strings.Split(path, ".")
	current := interface{}(m)
	for _, segment := range segments {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// coerceID turns a vendor order id into a string; vendors send both numeric
// and string ids.
func coerceID(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	default:
		return ""
	}
}
