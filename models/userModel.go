package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleWaiter  = "waiter"
	RoleKitchen = "kitchen"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id" json:"_id"`
	User_id       string             `bson:"user_id" json:"user_id"`
	Name          *string            `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Password      *string            `bson:"password" json:"password,omitempty" validate:"required,min=6"`
	Email         *string            `bson:"email" json:"email" validate:"email,required"`
	Phone         *string            `bson:"phone" json:"phone"`
	User_role     *string            `bson:"user_role" json:"user_role" validate:"required,eq=admin|eq=manager|eq=cashier|eq=waiter|eq=kitchen"`
	Is_active     bool               `bson:"is_active" json:"is_active"`
	Token         *string            `bson:"token" json:"token"`
	Refresh_Token *string            `bson:"refresh_token" json:"refresh_token"`
	Created_at    time.Time          `bson:"created_at" json:"created_at"`
	Updated_at    time.Time          `bson:"updated_at" json:"updated_at"`
}
