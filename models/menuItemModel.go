package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuItem struct {
	ID               primitive.ObjectID `bson:"_id" json:"_id"`
	Menu_item_id     string             `bson:"menu_item_id" json:"menu_item_id"`
	Name             string             `bson:"name" json:"name" validate:"required"`
	Category         string             `bson:"category" json:"category" validate:"required,eq=starters|eq=main_course|eq=breads|eq=rice|eq=beverages|eq=desserts"`
	Price            float64            `bson:"price" json:"price" validate:"min=0"`
	Is_veg           bool               `bson:"is_veg" json:"is_veg"`
	Available        bool               `bson:"available" json:"available"`
	Description      string             `bson:"description" json:"description"`
	Preparation_time int                `bson:"preparation_time" json:"preparation_time"`
	Created_at       time.Time          `bson:"created_at" json:"created_at"`
	Updated_at       time.Time          `bson:"updated_at" json:"updated_at"`
}
