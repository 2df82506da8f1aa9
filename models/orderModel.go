package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeaway = "takeaway"
	OrderTypeOnline   = "online"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// TaxRate is the GST applied on the order subtotal.
const TaxRate = 0.05

type OrderItem struct {
	ID             primitive.ObjectID `bson:"_id" json:"item_id"`
	Menu_item_id   *string            `bson:"menu_item_id,omitempty" json:"menu_item_id"`
	Name           string             `bson:"name" json:"name" validate:"required"`
	Quantity       int                `bson:"quantity" json:"quantity" validate:"required,min=1"`
	Unit_price     float64            `bson:"unit_price" json:"unit_price"`
	Notes          string             `bson:"notes" json:"notes"`
	Kitchen_status string             `bson:"kitchen_status" json:"kitchen_status"`
}

type Order struct {
	ID                primitive.ObjectID `bson:"_id" json:"_id"`
	Order_id          string             `bson:"order_id" json:"order_id"`
	Order_number      int                `bson:"order_number" json:"order_number"`
	Type              string             `bson:"type" json:"type" validate:"required,eq=dine_in|eq=takeaway|eq=online"`
	Status            string             `bson:"status" json:"status"`
	Table_id          *string            `bson:"table_id,omitempty" json:"table_id"`
	Table_number      *int               `bson:"table_number,omitempty" json:"table_number"`
	Items             []OrderItem        `bson:"items" json:"items"`
	Subtotal          float64            `bson:"subtotal" json:"subtotal"`
	Tax               float64            `bson:"tax" json:"tax"`
	Discount          float64            `bson:"discount" json:"discount"`
	Total             float64            `bson:"total" json:"total"`
	Payment_method    string             `bson:"payment_method,omitempty" json:"payment_method"`
	Payment_status    string             `bson:"payment_status" json:"payment_status"`
	Waiter_id         *string            `bson:"waiter_id,omitempty" json:"waiter_id"`
	Waiter_name       *string            `bson:"waiter_name,omitempty" json:"waiter_name"`
	Customer_name     string             `bson:"customer_name,omitempty" json:"customer_name"`
	Customer_phone    string             `bson:"customer_phone,omitempty" json:"customer_phone"`
	Platform          string             `bson:"platform,omitempty" json:"platform"`
	Platform_order_id string             `bson:"platform_order_id,omitempty" json:"platform_order_id"`
	Delivery_address  string             `bson:"delivery_address,omitempty" json:"delivery_address"`
	Created_at        time.Time          `bson:"created_at" json:"created_at"`
	Updated_at        time.Time          `bson:"updated_at" json:"updated_at"`
}

// ComputeTotals recomputes subtotal, tax and total from the line items.
// Called on every persist so stored figures can never drift from the items.
func (o *Order) ComputeTotals() {
	subtotal := 0.0
	for _, item := range o.Items {
		subtotal += item.Unit_price * float64(item.Quantity)
	}
	o.Subtotal = Round2(subtotal)
	o.Tax = Round2(o.Subtotal * TaxRate)
	o.Total = Round2(o.Subtotal + o.Tax - o.Discount)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
