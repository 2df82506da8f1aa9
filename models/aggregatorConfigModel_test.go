package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", MaskKey(""))
	assert.Equal(t, "****", MaskKey("abc"))
	assert.Equal(t, "****", MaskKey("abcd"))
	assert.Equal(t, "****1234", MaskKey("abcd1234"))
}

func TestMaskedConfigCarriesNoSecrets(t *testing.T) {
	config := AggregatorConfig{
		Platform:       PlatformSwiggy,
		Is_enabled:     true,
		Api_key:        "sk_live_abcd1234",
		Api_secret:     "super-secret",
		Webhook_secret: "whsec_secret",
		Store_id:       "store-42",
	}

	masked := config.Masked()
	assert.Equal(t, "****1234", masked.Api_key)
	assert.Equal(t, "store-42", masked.Store_id)

	raw, err := json.Marshal(masked)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret")
	assert.NotContains(t, string(raw), "whsec_secret")
	assert.NotContains(t, string(raw), "sk_live_abcd1234")
}

func TestAggregatorConfigJSONHidesSecrets(t *testing.T) {
	config := AggregatorConfig{
		Platform:       PlatformZomato,
		Api_key:        "sk_live_abcd1234",
		Api_secret:     "super-secret",
		Webhook_secret: "whsec_secret",
	}

	raw, err := json.Marshal(config)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk_live_abcd1234")
	assert.NotContains(t, string(raw), "super-secret")
	assert.NotContains(t, string(raw), "whsec_secret")
}

func TestMenuOverrideAvailableDefaultsTrue(t *testing.T) {
	var priceOnly MenuOverride
	require.NoError(t, json.Unmarshal([]byte(`{"menu_item_id":"m1","platform_price":120}`), &priceOnly))
	assert.True(t, priceOnly.Available(), "a price-only override must not hide the item")

	var hidden MenuOverride
	require.NoError(t, json.Unmarshal([]byte(`{"menu_item_id":"m1","is_available":false}`), &hidden))
	assert.False(t, hidden.Available())

	var shown MenuOverride
	require.NoError(t, json.Unmarshal([]byte(`{"menu_item_id":"m1","is_available":true}`), &shown))
	assert.True(t, shown.Available())
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig(PlatformSwiggy)
	assert.Equal(t, PlatformSwiggy, config.Platform)
	assert.False(t, config.Is_enabled)
	assert.False(t, config.Auto_accept)
	assert.Equal(t, 20, config.Default_prep_time)
	assert.Equal(t, ConnectionDisconnected, config.Connection_status)
	assert.NotNil(t, config.Menu_overrides)
}

func TestIsValidPlatform(t *testing.T) {
	assert.True(t, IsValidPlatform(PlatformSwiggy))
	assert.True(t, IsValidPlatform(PlatformZomato))
	assert.False(t, IsValidPlatform("ubereats"))
	assert.False(t, IsValidPlatform(""))
}
