package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/coal-settlement/pkg/utils"
)

const (
	ArrivalStatusPending   = "pending"
	ArrivalStatusCompleted = "completed"

	SettlementUnpaid  = "unpaid"
	SettlementPartial = "partial"
	SettlementPaid    = "paid"
)

// ArrivalRecord is the reconciliation event where shipped vehicles are
// weighed in and receivables and freight are settled.
type ArrivalRecord struct {
	ID                      string             `json:"id" db:"id"`
	ArrivalDate             string             `json:"arrivalDate" db:"arrival_date"`
	CustomerID              string             `json:"customerId" db:"customer_id"`
	CustomerName            string             `json:"customerName" db:"customer_name"`
	SellingPricePerTon      decimal.Decimal    `json:"sellingPricePerTon" db:"selling_price_per_ton"`
	FreightPerTon           decimal.Decimal    `json:"freightPerTon" db:"freight_per_ton"`
	TotalWeight             decimal.Decimal    `json:"totalWeight" db:"total_weight"`
	TotalLoss               decimal.Decimal    `json:"totalLoss" db:"total_loss"`
	TotalReceivable         decimal.Decimal    `json:"totalReceivable" db:"total_receivable"`
	TotalFreightPayable     decimal.Decimal    `json:"totalFreightPayable" db:"total_freight_payable"`
	ActualFreightPaid       decimal.Decimal    `json:"actualFreightPaid" db:"actual_freight_paid"`
	FreightPaymentStatus    string             `json:"freightPaymentStatus" db:"freight_payment_status"`
	ActualReceived          decimal.Decimal    `json:"actualReceived" db:"actual_received"`
	ReceivablePaymentStatus string             `json:"receivablePaymentStatus" db:"receivable_payment_status"`
	Status                  string             `json:"status" db:"status"`
	Remark                  string             `json:"remark" db:"remark"`
	RelatedShipments        []*ArrivalShipment `json:"relatedShipments" db:"-"`
	CreatedAt               time.Time          `json:"createdAt" db:"created_at"`
}

// ArrivalShipment snapshots a shipment at reconciliation time. Later changes
// to the source batch do not reach it.
type ArrivalShipment struct {
	ID               string          `json:"id" db:"id"`
	ArrivalRecordID  string          `json:"arrivalRecordId" db:"arrival_record_id"`
	ShipmentID       string          `json:"shipmentId" db:"shipment_id"`
	Seq              int             `json:"-" db:"seq"`
	PlateNumber      string          `json:"plateNumber" db:"plate_number"`
	DriverName       string          `json:"driverName" db:"driver_name"`
	OriginalWeight   decimal.Decimal `json:"originalWeight" db:"original_weight"`
	ArrivalWeight    decimal.Decimal `json:"arrivalWeight" db:"arrival_weight"`
	Loss             decimal.Decimal `json:"loss" db:"loss"`
	ReceivableAmount decimal.Decimal `json:"receivableAmount" db:"receivable_amount"`
}

// SettlementStatus derives unpaid/partial/paid from scratch; it never
// assumes the previous status. Nothing paid is unpaid, even against a zero
// total.
func SettlementStatus(paid, total decimal.Decimal) string {
	switch {
	case !paid.IsPositive():
		return SettlementUnpaid
	case paid.GreaterThanOrEqual(total):
		return SettlementPaid
	default:
		return SettlementPartial
	}
}

// Recompute refreshes every per-shipment figure and the record totals from
// the current snapshot and prices, then re-derives the receivable status.
func (r *ArrivalRecord) Recompute() {
	totalWeight, totalLoss := decimal.Zero, decimal.Zero
	totalReceivable, totalFreight := decimal.Zero, decimal.Zero

	for i, s := range r.RelatedShipments {
		s.ArrivalRecordID = r.ID
		s.Seq = i
		s.Loss = s.OriginalWeight.Sub(s.ArrivalWeight)
		s.ReceivableAmount = utils.LineAmount(s.ArrivalWeight, r.SellingPricePerTon)

		totalWeight = totalWeight.Add(s.ArrivalWeight)
		totalLoss = totalLoss.Add(s.Loss)
		totalReceivable = totalReceivable.Add(s.ReceivableAmount)
		totalFreight = totalFreight.Add(utils.LineAmount(s.ArrivalWeight, r.FreightPerTon))
	}

	r.TotalWeight = totalWeight
	r.TotalLoss = totalLoss
	r.TotalReceivable = totalReceivable
	r.TotalFreightPayable = totalFreight
	r.ReceivablePaymentStatus = SettlementStatus(r.ActualReceived, r.TotalReceivable)
}

// ApplyFreightLedger overlays the live freight ledger onto the record. The
// stored aggregate fields are never the source of truth for freight.
func (r *ArrivalRecord) ApplyFreightLedger(payments []*FreightPayment) {
	paid := decimal.Zero
	balanced := false
	for _, p := range payments {
		if p.ArrivalRecordID == nil || *p.ArrivalRecordID != r.ID {
			continue
		}
		paid = paid.Add(p.ActualAmount)
		if p.IsBalancing() {
			balanced = true
		}
	}

	r.ActualFreightPaid = paid
	r.FreightPaymentStatus = SettlementStatus(paid, r.TotalFreightPayable)
	if balanced {
		r.FreightPaymentStatus = SettlementPaid
	}
	if r.FreightPaymentStatus == SettlementPaid && r.ReceivablePaymentStatus == SettlementPaid {
		r.Status = ArrivalStatusCompleted
	}
}

// FreightRemaining is what is still owed to drivers for this record.
func (r *ArrivalRecord) FreightRemaining() decimal.Decimal {
	return utils.FloorZero(r.TotalFreightPayable.Sub(r.ActualFreightPaid))
}

// ReceivableRemaining is what the customer still owes for this record.
func (r *ArrivalRecord) ReceivableRemaining() decimal.Decimal {
	return utils.FloorZero(r.TotalReceivable.Sub(r.ActualReceived))
}

// PlateNumbers lists the plates of the related shipments in order.
func (r *ArrivalRecord) PlateNumbers() StringList {
	plates := make(StringList, 0, len(r.RelatedShipments))
	for _, s := range r.RelatedShipments {
		plates = append(plates, s.PlateNumber)
	}
	return plates.Dedup()
}

// DriverNames joins the distinct driver names of the related shipments.
func (r *ArrivalRecord) DriverNames() string {
	names := make(StringList, 0, len(r.RelatedShipments))
	for _, s := range r.RelatedShipments {
		names = append(names, s.DriverName)
	}
	return strings.Join(names.Dedup(), ", ")
}

// DTOs for requests

// ArrivalShipmentInput selects one shipment. A nil ArrivalWeight means the
// arrival weight equals the departure weight.
type ArrivalShipmentInput struct {
	ShipmentID    string           `json:"shipmentId" validate:"required"`
	ArrivalWeight *decimal.Decimal `json:"arrivalWeight" validate:"omitempty,gte=0"`
}

type CreateArrivalRecordRequest struct {
	ArrivalDate        string                 `json:"arrivalDate" validate:"required,datetime=2006-01-02"`
	CustomerID         string                 `json:"customerId" validate:"required"`
	CustomerName       string                 `json:"customerName"`
	SellingPricePerTon decimal.Decimal        `json:"sellingPricePerTon" validate:"gte=0"`
	FreightPerTon      decimal.Decimal        `json:"freightPerTon" validate:"gte=0"`
	RelatedShipments   []ArrivalShipmentInput `json:"relatedShipments" validate:"omitempty,dive"`
	// ShipmentIDs and ArrivalWeights are an alternative to RelatedShipments.
	ShipmentIDs    []string                   `json:"shipmentIds" validate:"omitempty,dive,required"`
	ArrivalWeights map[string]decimal.Decimal `json:"arrivalWeights"`
	Remark         string                     `json:"remark"`
}

// Selections merges both selection forms into one ordered list.
func (r *CreateArrivalRecordRequest) Selections() []ArrivalShipmentInput {
	return mergeSelections(r.RelatedShipments, r.ShipmentIDs, r.ArrivalWeights)
}

type UpdateArrivalRecordRequest struct {
	ArrivalDate        *string                    `json:"arrivalDate" validate:"omitempty,datetime=2006-01-02"`
	CustomerID         *string                    `json:"customerId" validate:"omitempty,min=1"`
	CustomerName       *string                    `json:"customerName"`
	SellingPricePerTon *decimal.Decimal           `json:"sellingPricePerTon" validate:"omitempty,gte=0"`
	FreightPerTon      *decimal.Decimal           `json:"freightPerTon" validate:"omitempty,gte=0"`
	Remark             *string                    `json:"remark"`
	Status             *string                    `json:"status" validate:"omitempty,oneof=pending completed"`
	RelatedShipments   *[]ArrivalShipmentInput    `json:"relatedShipments" validate:"omitempty,dive"`
	ShipmentIDs        []string                   `json:"shipmentIds" validate:"omitempty,dive,required"`
	ArrivalWeights     map[string]decimal.Decimal `json:"arrivalWeights"`
}

// Selections returns the replacement shipment list, or nil when the update
// leaves the shipments alone.
func (r *UpdateArrivalRecordRequest) Selections() []ArrivalShipmentInput {
	if r.RelatedShipments == nil && r.ShipmentIDs == nil {
		return nil
	}
	var related []ArrivalShipmentInput
	if r.RelatedShipments != nil {
		related = *r.RelatedShipments
	}
	return mergeSelections(related, r.ShipmentIDs, r.ArrivalWeights)
}

// ChangesShipments reports whether the update replaces the shipment list.
func (r *UpdateArrivalRecordRequest) ChangesShipments() bool {
	return r.RelatedShipments != nil || r.ShipmentIDs != nil
}

type ReceivablePaymentRequest struct {
	ActualReceived decimal.Decimal `json:"actualReceived" validate:"gte=0"`
	PaymentDate    string          `json:"paymentDate" validate:"omitempty,datetime=2006-01-02"`
	Remark         string          `json:"remark"`
}

func mergeSelections(related []ArrivalShipmentInput, ids []string, weights map[string]decimal.Decimal) []ArrivalShipmentInput {
	out := make([]ArrivalShipmentInput, 0, len(related)+len(ids))
	out = append(out, related...)
	for _, id := range ids {
		in := ArrivalShipmentInput{ShipmentID: id}
		if w, ok := weights[id]; ok {
			w := w
			in.ArrivalWeight = &w
		}
		out = append(out, in)
	}
	return out
}
