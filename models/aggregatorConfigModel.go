package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PlatformSwiggy = "swiggy"
	PlatformZomato = "zomato"
)

const (
	ConnectionDisconnected = "disconnected"
	ConnectionConnected    = "connected"
	ConnectionError        = "error"
)

func IsValidPlatform(platform string) bool {
	return platform == PlatformSwiggy || platform == PlatformZomato
}

type MenuOverride struct {
	Menu_item_id   string   `bson:"menu_item_id" json:"menu_item_id" validate:"required"`
	Platform_price *float64 `bson:"platform_price,omitempty" json:"platform_price"`
	Is_available   *bool    `bson:"is_available,omitempty" json:"is_available"`
}

// Available treats an unset flag as available, so a price-only override
// never hides the item from the platform.
func (o MenuOverride) Available() bool {
	return o.Is_available == nil || *o.Is_available
}

// AggregatorConfig holds the per-platform integration settings. At most one
// document exists per platform (unique index, upsert semantics). The secret
// fields are never serialized outward: config responses go through Masked.
type AggregatorConfig struct {
	ID                primitive.ObjectID `bson:"_id" json:"-"`
	Platform          string             `bson:"platform" json:"platform" validate:"required,eq=swiggy|eq=zomato"`
	Is_enabled        bool               `bson:"is_enabled" json:"is_enabled"`
	Api_key           string             `bson:"api_key" json:"-"`
	Api_secret        string             `bson:"api_secret" json:"-"`
	Store_id          string             `bson:"store_id" json:"store_id"`
	Webhook_secret    string             `bson:"webhook_secret" json:"-"`
	Auto_accept       bool               `bson:"auto_accept" json:"auto_accept"`
	Default_prep_time int                `bson:"default_prep_time" json:"default_prep_time"`
	Menu_overrides    []MenuOverride     `bson:"menu_overrides" json:"menu_overrides"`
	Connection_status string             `bson:"connection_status" json:"connection_status"`
	Last_sync_at      *time.Time         `bson:"last_sync_at,omitempty" json:"last_sync_at"`
	Platform_base_url string             `bson:"platform_base_url" json:"platform_base_url"`
	Created_at        time.Time          `bson:"created_at" json:"created_at"`
	Updated_at        time.Time          `bson:"updated_at" json:"updated_at"`
}

// MaskedConfig is the outward shape of a config. It carries a masked API key
// and deliberately has no field for the API secret or the webhook secret.
type MaskedConfig struct {
	Platform          string         `json:"platform"`
	Is_enabled        bool           `json:"is_enabled"`
	Api_key           string         `json:"api_key"`
	Store_id          string         `json:"store_id"`
	Auto_accept       bool           `json:"auto_accept"`
	Default_prep_time int            `json:"default_prep_time"`
	Menu_overrides    []MenuOverride `json:"menu_overrides"`
	Connection_status string         `json:"connection_status"`
	Last_sync_at      *time.Time     `json:"last_sync_at"`
	Platform_base_url string         `json:"platform_base_url"`
}

func (c *AggregatorConfig) Masked() MaskedConfig {
	return MaskedConfig{
		Platform:          c.Platform,
		Is_enabled:        c.Is_enabled,
		Api_key:           MaskKey(c.Api_key),
		Store_id:          c.Store_id,
		Auto_accept:       c.Auto_accept,
		Default_prep_time: c.Default_prep_time,
		Menu_overrides:    c.Menu_overrides,
		Connection_status: c.Connection_status,
		Last_sync_at:      c.Last_sync_at,
		Platform_base_url: c.Platform_base_url,
	}
}

// MaskKey hides all but the last four characters of an API key.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// DefaultConfig is what admin surfaces return for a platform that has never
// been configured.
func DefaultConfig(platform string) AggregatorConfig {
	return AggregatorConfig{
		Platform:          platform,
		Is_enabled:        false,
		Auto_accept:       false,
		Default_prep_time: 20,
		Menu_overrides:    []MenuOverride{},
		Connection_status: ConnectionDisconnected,
	}
}
