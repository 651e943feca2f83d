package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/internal/repository"
	customError "github.com/segyhp/coal-settlement/pkg/errors"
	"github.com/segyhp/coal-settlement/pkg/utils"
)

// ArrivalService reconciles shipped vehicles against what arrived and tracks
// the receivable and freight settlement of each arrival record.
type ArrivalService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewArrivalService(store repository.Store, logger *zap.Logger) *ArrivalService {
	return &ArrivalService{
		store:  store,
		logger: nopIfNil(logger).Named("arrival"),
	}
}

func (s *ArrivalService) CreateArrivalRecord(ctx context.Context, req *domain.CreateArrivalRecordRequest) (*domain.ArrivalRecord, error) {
	// 1. Validate inputs
	if !utils.IsDate(req.ArrivalDate) {
		return nil, customError.WrapValidation("arrivalDate must be YYYY-MM-DD, got %q", req.ArrivalDate)
	}
	if req.SellingPricePerTon.IsNegative() || req.FreightPerTon.IsNegative() {
		return nil, customError.WrapValidation("prices must not be negative")
	}

	customerName, err := resolvePartyName(ctx, s.store.References(), domain.PartyCustomer, req.CustomerID, req.CustomerName)
	if err != nil {
		return nil, err
	}

	// 2. Snapshot the selected shipments from the live projection
	selections := req.Selections()
	if len(selections) == 0 {
		return nil, customError.WrapValidation("at least one shipment is required")
	}
	shipments, err := s.snapshot(ctx, selections, nil)
	if err != nil {
		return nil, err
	}

	// 3. Build the record and derive totals
	record := &domain.ArrivalRecord{
		ID:                      uuid.NewString(),
		ArrivalDate:             req.ArrivalDate,
		CustomerID:              req.CustomerID,
		CustomerName:            customerName,
		SellingPricePerTon:      req.SellingPricePerTon,
		FreightPerTon:           req.FreightPerTon,
		ActualFreightPaid:       decimal.Zero,
		FreightPaymentStatus:    domain.SettlementUnpaid,
		ActualReceived:          decimal.Zero,
		ReceivablePaymentStatus: domain.SettlementUnpaid,
		Status:                  domain.ArrivalStatusPending,
		Remark:                  req.Remark,
		RelatedShipments:        shipments,
		CreatedAt:               time.Now().UTC(),
	}
	record.Recompute()

	// 4. Persist record and snapshots together
	if err := s.store.Arrivals().Create(ctx, record); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	s.logger.Info("arrival record created",
		zap.String("arrival_record_id", record.ID),
		zap.Int("shipments", len(record.RelatedShipments)),
		zap.String("total_receivable", record.TotalReceivable.String()),
	)

	return record, nil
}

// snapshot resolves selections into shipment snapshots. Entries already in
// existing keep their snapshot; only their arrival weight may change.
func (s *ArrivalService) snapshot(ctx context.Context, selections []domain.ArrivalShipmentInput, existing []*domain.ArrivalShipment) ([]*domain.ArrivalShipment, error) {
	kept := make(map[string]*domain.ArrivalShipment, len(existing))
	for _, sh := range existing {
		kept[sh.ShipmentID] = sh
	}

	var live map[string]*domain.Shipment
	seen := make(map[string]bool, len(selections))
	out := make([]*domain.ArrivalShipment, 0, len(selections))

	for _, sel := range selections {
		id := strings.TrimSpace(sel.ShipmentID)
		if id == "" {
			return nil, customError.WrapValidation("shipmentId is required")
		}
		if seen[id] {
			return nil, customError.WrapValidation("shipment %s is selected more than once", id)
		}
		seen[id] = true

		if sel.ArrivalWeight != nil && sel.ArrivalWeight.IsNegative() {
			return nil, customError.WrapValidation("arrival weight of shipment %s must not be negative", id)
		}

		if prev, ok := kept[id]; ok {
			sh := *prev
			if sel.ArrivalWeight != nil {
				sh.ArrivalWeight = *sel.ArrivalWeight
			}
			out = append(out, &sh)
			continue
		}

		if live == nil {
			shipments, err := listShipments(ctx, s.store)
			if err != nil {
				return nil, err
			}
			live = make(map[string]*domain.Shipment, len(shipments))
			for _, sh := range shipments {
				live[sh.ID] = sh
			}
		}

		src, ok := live[id]
		if !ok {
			return nil, customError.WrapValidation("shipment %s does not exist", id)
		}

		arrivalWeight := src.Weight
		if sel.ArrivalWeight != nil {
			arrivalWeight = *sel.ArrivalWeight
		}

		out = append(out, &domain.ArrivalShipment{
			ID:             uuid.NewString(),
			ShipmentID:     src.ID,
			PlateNumber:    src.PlateNumber,
			DriverName:     src.DriverName,
			OriginalWeight: src.Weight,
			ArrivalWeight:  arrivalWeight,
		})
	}

	return out, nil
}

func (s *ArrivalService) GetArrivalRecord(ctx context.Context, id string) (*domain.ArrivalRecord, error) {
	record, err := s.store.Arrivals().GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "arrival record", id)
	}

	payments, err := s.store.Payments().ListFreightByArrival(ctx, id)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	record.ApplyFreightLedger(payments)

	return record, nil
}

func (s *ArrivalService) ListArrivalRecords(ctx context.Context) ([]*domain.ArrivalRecord, error) {
	records, err := s.store.Arrivals().List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	payments, err := s.store.Payments().ListFreight(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	for _, r := range records {
		r.ApplyFreightLedger(payments)
	}

	return records, nil
}

// UpdateArrivalRecord merges the supplied fields and re-derives every total.
func (s *ArrivalService) UpdateArrivalRecord(ctx context.Context, id string, req *domain.UpdateArrivalRecordRequest) (*domain.ArrivalRecord, error) {
	record, err := s.store.Arrivals().GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "arrival record", id)
	}

	// 1. Merge scalar fields
	if req.ArrivalDate != nil {
		if !utils.IsDate(*req.ArrivalDate) {
			return nil, customError.WrapValidation("arrivalDate must be YYYY-MM-DD, got %q", *req.ArrivalDate)
		}
		record.ArrivalDate = *req.ArrivalDate
	}
	if req.CustomerID != nil && *req.CustomerID != record.CustomerID {
		name := ""
		if req.CustomerName != nil {
			name = *req.CustomerName
		}
		resolved, err := resolvePartyName(ctx, s.store.References(), domain.PartyCustomer, *req.CustomerID, name)
		if err != nil {
			return nil, err
		}
		record.CustomerID = *req.CustomerID
		record.CustomerName = resolved
	} else if req.CustomerName != nil && strings.TrimSpace(*req.CustomerName) != "" {
		record.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.SellingPricePerTon != nil {
		if req.SellingPricePerTon.IsNegative() {
			return nil, customError.WrapValidation("sellingPricePerTon must not be negative")
		}
		record.SellingPricePerTon = *req.SellingPricePerTon
	}
	if req.FreightPerTon != nil {
		if req.FreightPerTon.IsNegative() {
			return nil, customError.WrapValidation("freightPerTon must not be negative")
		}
		record.FreightPerTon = *req.FreightPerTon
	}
	if req.Remark != nil {
		record.Remark = *req.Remark
	}
	if req.Status != nil {
		if *req.Status != domain.ArrivalStatusPending && *req.Status != domain.ArrivalStatusCompleted {
			return nil, customError.WrapValidation("status must be pending or completed")
		}
		record.Status = *req.Status
	}

	// 2. Replace shipments when asked to
	if req.ChangesShipments() {
		selections := req.Selections()
		if len(selections) == 0 {
			return nil, customError.WrapValidation("at least one shipment is required")
		}
		shipments, err := s.snapshot(ctx, selections, record.RelatedShipments)
		if err != nil {
			return nil, err
		}
		record.RelatedShipments = shipments
	}

	// 3. Totals and receivable status always follow the merged state
	record.Recompute()

	if err := s.store.Arrivals().Update(ctx, record); err != nil {
		return nil, lookupErr(err, "arrival record", id)
	}

	s.logger.Info("arrival record updated", zap.String("arrival_record_id", id))

	return s.GetArrivalRecord(ctx, id)
}

// RecordReceivablePayment sets the absolute amount received for a record.
// The positive change is mirrored into the customer ledger on a best-effort
// basis: a failure there is logged and the record update stands.
func (s *ArrivalService) RecordReceivablePayment(ctx context.Context, id string, req *domain.ReceivablePaymentRequest) (*domain.ArrivalRecord, error) {
	if req.ActualReceived.IsNegative() {
		return nil, customError.WrapValidation("actualReceived must not be negative")
	}
	if req.PaymentDate != "" && !utils.IsDate(req.PaymentDate) {
		return nil, customError.WrapValidation("paymentDate must be YYYY-MM-DD, got %q", req.PaymentDate)
	}

	record, err := s.store.Arrivals().GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "arrival record", id)
	}

	previous := record.ActualReceived
	record.ActualReceived = req.ActualReceived
	record.ReceivablePaymentStatus = domain.SettlementStatus(record.ActualReceived, record.TotalReceivable)

	if err := s.store.Arrivals().Update(ctx, record); err != nil {
		return nil, lookupErr(err, "arrival record", id)
	}

	if delta := req.ActualReceived.Sub(previous); delta.IsPositive() {
		remark := req.Remark
		if remark == "" {
			remark = fmt.Sprintf("到货收款 %s", record.ArrivalDate)
		}
		recordID := record.ID
		payment := &domain.CustomerPayment{
			ID:              uuid.NewString(),
			CustomerID:      record.CustomerID,
			CustomerName:    record.CustomerName,
			Amount:          delta,
			PaymentDate:     utils.DateOrToday(req.PaymentDate),
			Remark:          remark,
			ArrivalRecordID: &recordID,
			CreatedAt:       time.Now().UTC(),
		}
		if err := s.store.Payments().CreateCustomer(ctx, payment); err != nil {
			s.logger.Error("customer ledger entry for receivable not written",
				zap.String("arrival_record_id", id),
				zap.String("amount", delta.String()),
				zap.Error(err),
			)
		}
	}

	return s.GetArrivalRecord(ctx, id)
}

// SettleFreight writes off the outstanding freight of a record with a
// zero-amount balancing entry.
func (s *ArrivalService) SettleFreight(ctx context.Context, id string) (*domain.FreightPayment, error) {
	record, err := s.GetArrivalRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.FreightPaymentStatus == domain.SettlementPaid {
		return nil, customError.WrapValidation("freight of arrival record %s is already settled", id)
	}
	remaining := record.TotalFreightPayable.Sub(record.ActualFreightPaid)
	if !remaining.IsPositive() {
		return nil, customError.WrapValidation("no freight remaining to settle")
	}

	driverID := "unknown"
	if len(record.RelatedShipments) > 0 {
		driverID = utils.DriverIDFromName(record.RelatedShipments[0].DriverName)
	}

	recordID := record.ID
	payment := &domain.FreightPayment{
		ID:               uuid.NewString(),
		DriverID:         driverID,
		DriverName:       record.DriverNames(),
		PlateNumbers:     record.PlateNumbers(),
		CalculatedAmount: record.TotalFreightPayable,
		ActualAmount:     decimal.Zero,
		PaymentDate:      utils.Today(),
		Remark:           fmt.Sprintf("%s - 免缴剩余运费 ¥%s", domain.BalancingRemarkPrefix, remaining.StringFixed(2)),
		ArrivalRecordID:  &recordID,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.store.Payments().CreateFreight(ctx, payment); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	s.logger.Info("freight balanced",
		zap.String("arrival_record_id", id),
		zap.String("written_off", remaining.StringFixed(2)),
	)

	return payment, nil
}

// DeleteArrivalRecord removes the record and its snapshots. Payments tagged
// with it stay in their ledgers.
func (s *ArrivalService) DeleteArrivalRecord(ctx context.Context, id string) error {
	if err := s.store.Arrivals().Delete(ctx, id); err != nil {
		return lookupErr(err, "arrival record", id)
	}
	s.logger.Info("arrival record deleted", zap.String("arrival_record_id", id))
	return nil
}
