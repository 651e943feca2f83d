package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBatchStatus(t *testing.T) {
	tests := []struct {
		name      string
		paid      string
		remaining string
		want      string
	}{
		{"nothing paid", "0", "60000", BatchStatusPending},
		{"partly paid", "40000", "20000", BatchStatusPartialPaid},
		{"settled", "60000", "0", BatchStatusFullyPaid},
		{"empty batch", "0", "0", BatchStatusFullyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BatchStatus(d(tt.paid), d(tt.remaining)))
		})
	}
}

func TestDeliveryBatch_ApplyPayment(t *testing.T) {
	batch := &DeliveryBatch{
		TotalAmount:     d("60000"),
		PaidAmount:      decimal.Zero,
		RemainingAmount: d("60000"),
		Status:          BatchStatusPending,
	}

	batch.ApplyPayment(d("40000"))
	assert.True(t, batch.PaidAmount.Equal(d("40000")))
	assert.True(t, batch.RemainingAmount.Equal(d("20000")))
	assert.Equal(t, BatchStatusPartialPaid, batch.Status)

	// Overpayment: the excess is absorbed.
	batch.ApplyPayment(d("25000"))
	assert.True(t, batch.PaidAmount.Equal(d("60000")))
	assert.True(t, batch.RemainingAmount.IsZero())
	assert.Equal(t, BatchStatusFullyPaid, batch.Status)
	assert.True(t, batch.PaidAmount.Add(batch.RemainingAmount).Equal(batch.TotalAmount))

	batch.ApplyPayment(d("100"))
	assert.True(t, batch.PaidAmount.Equal(d("60000")))
	assert.True(t, batch.RemainingAmount.IsZero())
}

func TestDeliveryBatch_ApplyPaymentZero(t *testing.T) {
	batch := &DeliveryBatch{TotalAmount: d("500"), RemainingAmount: d("500"), Status: BatchStatusPending}

	batch.ApplyPayment(decimal.Zero)

	assert.True(t, batch.PaidAmount.IsZero())
	assert.True(t, batch.RemainingAmount.Equal(d("500")))
	assert.Equal(t, BatchStatusPending, batch.Status)
}
