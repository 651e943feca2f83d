package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BatchStatusPending     = "pending"
	BatchStatusPartialPaid = "partial_paid"
	BatchStatusFullyPaid   = "fully_paid"
)

// DeliveryBatch is one shipment-day grouping of vehicles from a supplier to a
// customer at a fixed coal price.
type DeliveryBatch struct {
	ID              string                `json:"id" db:"id"`
	CustomerID      string                `json:"customerId" db:"customer_id"`
	CustomerName    string                `json:"customerName" db:"customer_name"`
	SupplierID      string                `json:"supplierId" db:"supplier_id"`
	SupplierName    string                `json:"supplierName" db:"supplier_name"`
	DepartureDate   string                `json:"departureDate" db:"departure_date"`
	CoalPrice       decimal.Decimal       `json:"coalPrice" db:"coal_price"`
	Vehicles        []*DeliveryVehicle    `json:"vehicles" db:"-"`
	PaymentRecords  []*BatchPaymentRecord `json:"paymentRecords" db:"-"`
	TotalWeight     decimal.Decimal       `json:"totalWeight" db:"total_weight"`
	TotalAmount     decimal.Decimal       `json:"totalAmount" db:"total_amount"`
	PaidAmount      decimal.Decimal       `json:"paidAmount" db:"paid_amount"`
	RemainingAmount decimal.Decimal       `json:"remainingAmount" db:"remaining_amount"`
	Status          string                `json:"status" db:"status"`
	CreatedAt       time.Time             `json:"createdAt" db:"created_at"`
}

// DeliveryVehicle is a single truckload. Amount is frozen at creation.
type DeliveryVehicle struct {
	ID          string          `json:"id" db:"id"`
	BatchID     string          `json:"batchId" db:"batch_id"`
	Seq         int             `json:"-" db:"seq"`
	PlateNumber string          `json:"plateNumber" db:"plate_number"`
	DriverName  string          `json:"driverName" db:"driver_name"`
	Weight      decimal.Decimal `json:"weight" db:"weight"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// BatchPaymentRecord is append-only; it disappears only with its batch.
type BatchPaymentRecord struct {
	ID          string          `json:"id" db:"id"`
	BatchID     string          `json:"batchId" db:"batch_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate string          `json:"paymentDate" db:"payment_date"`
	Remark      string          `json:"remark" db:"remark"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// BatchStatus derives a batch status from its balances.
func BatchStatus(paid, remaining decimal.Decimal) string {
	switch {
	case !remaining.IsPositive():
		return BatchStatusFullyPaid
	case paid.IsPositive():
		return BatchStatusPartialPaid
	default:
		return BatchStatusPending
	}
}

// ApplyPayment books amount against the batch. The remainder floors at zero
// and anything tendered beyond it is absorbed, so PaidAmount never exceeds
// TotalAmount.
func (b *DeliveryBatch) ApplyPayment(amount decimal.Decimal) {
	applied := decimal.Min(amount, b.RemainingAmount)
	if applied.IsNegative() {
		applied = decimal.Zero
	}
	b.PaidAmount = b.PaidAmount.Add(applied)
	b.RemainingAmount = b.RemainingAmount.Sub(amount)
	if b.RemainingAmount.IsNegative() {
		b.RemainingAmount = decimal.Zero
	}
	b.Status = BatchStatus(b.PaidAmount, b.RemainingAmount)
}

// DTOs for requests

type CreateBatchRequest struct {
	CustomerID    string                 `json:"customerId" validate:"required"`
	CustomerName  string                 `json:"customerName"`
	SupplierID    string                 `json:"supplierId" validate:"required"`
	SupplierName  string                 `json:"supplierName"`
	DepartureDate string                 `json:"departureDate" validate:"required,datetime=2006-01-02"`
	CoalPrice     decimal.Decimal        `json:"coalPrice" validate:"gte=0"`
	Vehicles      []CreateVehicleRequest `json:"vehicles" validate:"required,min=1,dive"`
}

type CreateVehicleRequest struct {
	PlateNumber string          `json:"plateNumber" validate:"required"`
	DriverName  string          `json:"driverName"`
	Weight      decimal.Decimal `json:"weight" validate:"gte=0"`
	// Amount overrides weight × coalPrice when present.
	Amount *decimal.Decimal `json:"amount" validate:"omitempty,gte=0"`
}

type BatchPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"gte=0"`
	PaymentDate string          `json:"paymentDate" validate:"omitempty,datetime=2006-01-02"`
	Remark      string          `json:"remark"`
}
