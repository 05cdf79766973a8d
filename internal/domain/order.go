package domain

import (
	"math"
	"time"
)

// Order is the financial projection of a booking's quote: subtotal with the
// optional emergency surcharge, tax, total and the deposit split. It is
// mutated only by recomputation, and never after a completed payment exists.
type Order struct {
	ID            int64
	BookingID     int64
	QuoteID       int64
	BaseSubtotal  float64
	UrgentFeePct  float64 // frozen copy from the booking, 0 for regular bookings
	TaxRate       float64
	TotalSubtotal float64
	TaxAmount     float64
	TotalAmount   float64
	DepositPct    float64
	DepositAmount float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PaymentStatus represents the settlement state of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is a settlement recorded against an order. Only completed payments
// count toward the balance and lock the order against recomputation.
type Payment struct {
	ID         int64
	OrderID    int64
	Amount     float64
	Status     PaymentStatus
	RecordedAt time.Time
}

// OrderTotals is the result of a financial computation
type OrderTotals struct {
	Surcharge     float64
	TotalSubtotal float64
	TaxAmount     float64
	TotalAmount   float64
	DepositAmount float64
}

// RoundMoney rounds a monetary amount to two decimals, half up
func RoundMoney(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// ComputeOrderTotals derives the order amounts from the quote numbers and the
// booking's emergency flag:
//
//	surcharge      = isEmergency ? base * urgentFeePct/100 : 0
//	total_subtotal = base + surcharge
//	tax_amount     = total_subtotal * taxRate
//	total_amount   = total_subtotal + tax_amount
//	deposit_amount = round_half_up(total_amount * depositPct/100)
func ComputeOrderTotals(baseSubtotal, urgentFeePct, taxRate, depositPct float64, isEmergency bool) OrderTotals {
	var surcharge float64
	if isEmergency {
		surcharge = RoundMoney(baseSubtotal * urgentFeePct / 100)
	}

	totalSubtotal := RoundMoney(baseSubtotal + surcharge)
	taxAmount := RoundMoney(totalSubtotal * taxRate)
	totalAmount := RoundMoney(totalSubtotal + taxAmount)
	depositAmount := RoundMoney(totalAmount * depositPct / 100)

	return OrderTotals{
		Surcharge:     surcharge,
		TotalSubtotal: totalSubtotal,
		TaxAmount:     taxAmount,
		TotalAmount:   totalAmount,
		DepositAmount: depositAmount,
	}
}

// Apply writes the computed totals onto the order
func (o *Order) Apply(t OrderTotals) {
	o.TotalSubtotal = t.TotalSubtotal
	o.TaxAmount = t.TaxAmount
	o.TotalAmount = t.TotalAmount
	o.DepositAmount = t.DepositAmount
}

// BalanceDue returns what remains to be paid after completed payments
func (o *Order) BalanceDue(completedPayments float64) float64 {
	return RoundMoney(o.TotalAmount - completedPayments)
}
