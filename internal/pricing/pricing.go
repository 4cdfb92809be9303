package pricing

import (
	"math"

	"storefront-service/internal/models"
)

// Totals is the checkout money breakdown.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Fee      float64 `json:"fee"`
	Total    float64 `json:"total"`
}

// ComputeTotals derives subtotal, delivery fee, and grand total from the cart
// lines and the chosen delivery mode. The fee applies only to delivery
// orders. Pure function of its inputs.
func ComputeTotals(lines []models.CartLine, deliveryMethod string, deliveryFee float64) Totals {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Price * float64(line.Qty)
	}

	fee := 0.0
	if deliveryMethod == models.DeliveryMethodDelivery {
		fee = deliveryFee
	}

	return Totals{
		Subtotal: subtotal,
		Fee:      fee,
		Total:    subtotal + fee,
	}
}

// MinorUnits converts a decimal amount to the payment provider's minor-unit
// integer representation (pesewas for GHS).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
