package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
)

type Table struct {
	ID               primitive.ObjectID `bson:"_id" json:"_id"`
	Table_id         string             `bson:"table_id" json:"table_id"`
	Table_number     int                `bson:"table_number" json:"table_number" validate:"required,min=1"`
	Capacity         int                `bson:"capacity" json:"capacity" validate:"required,min=1,max=20"`
	Status           string             `bson:"status" json:"status"`
	Section          string             `bson:"section" json:"section" validate:"required,eq=A|eq=B|eq=C|eq=D"`
	Current_order_id *string            `bson:"current_order_id,omitempty" json:"current_order_id"`
	Reservation_name string             `bson:"reservation_name,omitempty" json:"reservation_name"`
	Reservation_time string             `bson:"reservation_time,omitempty" json:"reservation_time"`
	Created_at       time.Time          `bson:"created_at" json:"created_at"`
	Updated_at       time.Time          `bson:"updated_at" json:"updated_at"`
}
