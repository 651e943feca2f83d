package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BalancingRemarkPrefix marks a zero-amount freight entry that closes out the
// remaining balance without a cash movement.
const BalancingRemarkPrefix = "平账结算"

// FreightPayment is an append-only freight payout to a driver.
type FreightPayment struct {
	ID               string          `json:"id" db:"id"`
	DriverID         string          `json:"driverId" db:"driver_id"`
	DriverName       string          `json:"driverName" db:"driver_name"`
	PlateNumbers     StringList      `json:"plateNumbers" db:"plate_numbers"`
	CalculatedAmount decimal.Decimal `json:"calculatedAmount" db:"calculated_amount"`
	ActualAmount     decimal.Decimal `json:"actualAmount" db:"actual_amount"`
	PaymentDate      string          `json:"paymentDate" db:"payment_date"`
	Remark           string          `json:"remark" db:"remark"`
	ArrivalRecordID  *string         `json:"arrivalRecordId" db:"arrival_record_id"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
}

// IsBalancing reports whether the entry is a balancing settlement.
func (p *FreightPayment) IsBalancing() bool {
	return p.ActualAmount.IsZero() && strings.HasPrefix(strings.TrimSpace(p.Remark), BalancingRemarkPrefix)
}

// CustomerPayment is an append-only receipt from a customer.
type CustomerPayment struct {
	ID              string          `json:"id" db:"id"`
	CustomerID      string          `json:"customerId" db:"customer_id"`
	CustomerName    string          `json:"customerName" db:"customer_name"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate     string          `json:"paymentDate" db:"payment_date"`
	Remark          string          `json:"remark" db:"remark"`
	ArrivalRecordID *string         `json:"arrivalRecordId" db:"arrival_record_id"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// CargoPayment settles a single shipment outside arrival reconciliation.
type CargoPayment struct {
	ID               string          `json:"id" db:"id"`
	ShipmentID       string          `json:"shipmentId" db:"shipment_id"`
	CustomerID       string          `json:"customerId" db:"customer_id"`
	CustomerName     string          `json:"customerName" db:"customer_name"`
	CalculatedAmount decimal.Decimal `json:"calculatedAmount" db:"calculated_amount"`
	ActualAmount     decimal.Decimal `json:"actualAmount" db:"actual_amount"`
	PaymentDate      string          `json:"paymentDate" db:"payment_date"`
	Remark           string          `json:"remark" db:"remark"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
}

// DTOs for requests

type FreightPaymentRequest struct {
	DriverID         string          `json:"driverId" validate:"required"`
	DriverName       string          `json:"driverName"`
	PlateNumbers     []string        `json:"plateNumbers" validate:"omitempty,dive,required"`
	CalculatedAmount decimal.Decimal `json:"calculatedAmount" validate:"gte=0"`
	ActualAmount     decimal.Decimal `json:"actualAmount" validate:"gte=0"`
	PaymentDate      string          `json:"paymentDate" validate:"omitempty,datetime=2006-01-02"`
	Remark           string          `json:"remark"`
	ArrivalRecordID  *string         `json:"arrivalRecordId"`
}

type CustomerPaymentRequest struct {
	CustomerID      string          `json:"customerId" validate:"required"`
	CustomerName    string          `json:"customerName"`
	Amount          decimal.Decimal `json:"amount" validate:"gte=0"`
	PaymentDate     string          `json:"paymentDate" validate:"omitempty,datetime=2006-01-02"`
	Remark          string          `json:"remark"`
	ArrivalRecordID *string         `json:"arrivalRecordId"`
}

type CargoPaymentRequest struct {
	ShipmentID       string          `json:"shipmentId" validate:"required"`
	CustomerID       string          `json:"customerId" validate:"required"`
	CustomerName     string          `json:"customerName"`
	CalculatedAmount decimal.Decimal `json:"calculatedAmount" validate:"gte=0"`
	ActualAmount     decimal.Decimal `json:"actualAmount" validate:"gte=0"`
	PaymentDate      string          `json:"paymentDate" validate:"omitempty,datetime=2006-01-02"`
	Remark           string          `json:"remark"`
}
