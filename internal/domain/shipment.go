package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentStatusShipping is the only status a projected shipment carries.
const ShipmentStatusShipping = "shipping"

// Shipment is the per-vehicle view of a batch. It is rebuilt on every read
// and never persisted.
type Shipment struct {
	ID            string          `json:"id"`
	BatchID       string          `json:"batchId"`
	VehicleID     string          `json:"vehicleId"`
	PlateNumber   string          `json:"plateNumber"`
	DriverName    string          `json:"driverName"`
	DriverID      string          `json:"driverId"`
	CustomerID    string          `json:"customerId"`
	CustomerName  string          `json:"customerName"`
	SupplierID    string          `json:"supplierId"`
	SupplierName  string          `json:"supplierName"`
	CoalPrice     decimal.Decimal `json:"coalPrice"`
	FreightPrice  decimal.Decimal `json:"freightPrice"`
	Weight        decimal.Decimal `json:"weight"`
	CoalAmount    decimal.Decimal `json:"coalAmount"`
	FreightAmount decimal.Decimal `json:"freightAmount"`
	DepartureDate string          `json:"departureDate"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}
