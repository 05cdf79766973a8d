package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeOrderTotals_Regular(t *testing.T) {
	totals := ComputeOrderTotals(100, 20, 0.23, 50, false)

	assert.Equal(t, 0.0, totals.Surcharge)
	assert.Equal(t, 100.0, totals.TotalSubtotal)
	assert.Equal(t, 23.0, totals.TaxAmount)
	assert.Equal(t, 123.0, totals.TotalAmount)
	assert.Equal(t, 61.50, totals.DepositAmount)
}

func TestComputeOrderTotals_Emergency(t *testing.T) {
	totals := ComputeOrderTotals(100, 20, 0.23, 50, true)

	assert.Equal(t, 20.0, totals.Surcharge)
	assert.Equal(t, 120.0, totals.TotalSubtotal)
	assert.Equal(t, 27.60, totals.TaxAmount)
	assert.Equal(t, 147.60, totals.TotalAmount)
	assert.Equal(t, 73.80, totals.DepositAmount)
}

func TestComputeOrderTotals_DepositRoundsHalfUp(t *testing.T) {
	// 123.45 * 33% = 40.7385 -> 40.74
	totals := ComputeOrderTotals(123.45, 0, 0, 33, false)
	assert.Equal(t, 40.74, totals.DepositAmount)
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"exact", 61.50, 61.50},
		{"half rounds up", 61.505, 61.51},
		{"below half rounds down", 61.504, 61.50},
		{"integer", 123, 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundMoney(tt.in))
		})
	}
}

func TestOrderBalanceDue(t *testing.T) {
	order := &Order{TotalAmount: 147.60}

	assert.Equal(t, 147.60, order.BalanceDue(0))
	assert.Equal(t, 73.80, order.BalanceDue(73.80))
	assert.Equal(t, 0.0, order.BalanceDue(147.60))
}
