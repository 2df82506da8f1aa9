package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Name: "Paneer Tikka", Quantity: 2, Unit_price: 250},
			{Name: "Butter Naan", Quantity: 4, Unit_price: 40},
		},
	}
	order.ComputeTotals()

	assert.Equal(t, 660.0, order.Subtotal)
	assert.Equal(t, 33.0, order.Tax)
	assert.Equal(t, 693.0, order.Total)
}

func TestComputeTotalsRounding(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Name: "Masala Chai", Quantity: 3, Unit_price: 33.33},
		},
	}
	order.ComputeTotals()

	assert.Equal(t, 99.99, order.Subtotal)
	assert.Equal(t, 5.0, order.Tax, "4.9995 rounds up")
	assert.Equal(t, 104.99, order.Total)
}

func TestComputeTotalsDiscount(t *testing.T) {
	order := Order{
		Discount: 50,
		Items: []OrderItem{
			{Name: "Veg Thali", Quantity: 1, Unit_price: 200},
		},
	}
	order.ComputeTotals()

	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 10.0, order.Tax)
	assert.Equal(t, 160.0, order.Total)
}

func TestComputeTotalsEmptyOrder(t *testing.T) {
	order := Order{}
	order.ComputeTotals()

	assert.Equal(t, 0.0, order.Subtotal)
	assert.Equal(t, 0.0, order.Tax)
	assert.Equal(t, 0.0, order.Total)
}
