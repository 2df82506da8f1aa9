package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	KitchenStatusQueued  = "queued"
	KitchenStatusCooking = "cooking"
	KitchenStatusReady   = "ready"
)

// KitchenItem is one trackable preparation unit, one per order line item.
type KitchenItem struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	Kitchen_item_id string             `bson:"kitchen_item_id" json:"kitchen_item_id"`
	Order_id        string             `bson:"order_id" json:"order_id" validate:"required"`
	Order_number    int                `bson:"order_number" json:"order_number"`
	Order_item_id   string             `bson:"order_item_id,omitempty" json:"order_item_id"`
	Table_number    *int               `bson:"table_number,omitempty" json:"table_number"`
	Item_name       string             `bson:"item_name" json:"item_name" validate:"required"`
	Quantity        int                `bson:"quantity" json:"quantity" validate:"required,min=1"`
	Status          string             `bson:"status" json:"status"`
	Notes           string             `bson:"notes" json:"notes"`
	Is_online       bool               `bson:"is_online" json:"is_online"`
	Platform        string             `bson:"platform,omitempty" json:"platform"`
	Priority        int                `bson:"priority" json:"priority"`
	Created_at      time.Time          `bson:"created_at" json:"created_at"`
	Updated_at      time.Time          `bson:"updated_at" json:"updated_at"`
}
