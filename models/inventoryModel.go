package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InventoryItem struct {
	ID                primitive.ObjectID `bson:"_id" json:"_id"`
	Inventory_item_id string             `bson:"inventory_item_id" json:"inventory_item_id"`
	Name              string             `bson:"name" json:"name" validate:"required"`
	Current_stock     float64            `bson:"current_stock" json:"current_stock" validate:"min=0"`
	Unit              string             `bson:"unit" json:"unit" validate:"required,eq=kg|eq=L|eq=pcs|eq=g|eq=ml"`
	Threshold         float64            `bson:"threshold" json:"threshold" validate:"min=0"`
	Price             float64            `bson:"price" json:"price" validate:"min=0"`
	Category          string             `bson:"category" json:"category"`
	Supplier          string             `bson:"supplier" json:"supplier"`
	Created_at        time.Time          `bson:"created_at" json:"created_at"`
	Updated_at        time.Time          `bson:"updated_at" json:"updated_at"`
}

func (i *InventoryItem) IsLowStock() bool {
	return i.Current_stock <= i.Threshold
}

func (i *InventoryItem) IsOutOfStock() bool {
	return i.Current_stock == 0
}
