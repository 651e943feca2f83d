package service

import (
	"context"
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

type BatchService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewBatchService(store repository.Store, logger *zap.Logger) *BatchService {
	return &BatchService{
		store:  store,
		logger: nopIfNil(logger).Named("batch"),
	}
}

// CreateBatch prices every vehicle, totals the batch and stores it with its
// vehicles as one unit.
func (s *BatchService) CreateBatch(ctx context.Context, req *domain.CreateBatchRequest) (*domain.DeliveryBatch, error) {
	// 1. Validate what the request tags cannot express
	if len(req.Vehicles) == 0 {
		return nil, customError.WrapValidation("at least one vehicle is required")
	}
	if !utils.IsDate(req.DepartureDate) {
		return nil, customError.WrapValidation("departureDate must be YYYY-MM-DD, got %q", req.DepartureDate)
	}
	if req.CoalPrice.IsNegative() {
		return nil, customError.WrapValidation("coalPrice must not be negative")
	}
	for i, v := range req.Vehicles {
		if strings.TrimSpace(v.PlateNumber) == "" {
			return nil, customError.WrapValidation("vehicles[%d]: plateNumber is required", i)
		}
		if v.Weight.IsNegative() {
			return nil, customError.WrapValidation("vehicles[%d]: weight must not be negative", i)
		}
		if v.Amount != nil && v.Amount.IsNegative() {
			return nil, customError.WrapValidation("vehicles[%d]: amount must not be negative", i)
		}
	}

	// 2. Resolve party names
	refs := s.store.References()
	customerName, err := resolvePartyName(ctx, refs, domain.PartyCustomer, req.CustomerID, req.CustomerName)
	if err != nil {
		return nil, err
	}
	supplierName, err := resolvePartyName(ctx, refs, domain.PartySupplier, req.SupplierID, req.SupplierName)
	if err != nil {
		return nil, err
	}

	// 3. Price vehicles and total the batch
	now := time.Now().UTC()
	batch := &domain.DeliveryBatch{
		ID:             uuid.NewString(),
		CustomerID:     req.CustomerID,
		CustomerName:   customerName,
		SupplierID:     req.SupplierID,
		SupplierName:   supplierName,
		DepartureDate:  req.DepartureDate,
		CoalPrice:      req.CoalPrice,
		Vehicles:       make([]*domain.DeliveryVehicle, 0, len(req.Vehicles)),
		PaymentRecords: []*domain.BatchPaymentRecord{},
		PaidAmount:     decimal.Zero,
		CreatedAt:      now,
	}

	totalWeight, totalAmount := decimal.Zero, decimal.Zero
	for i, v := range req.Vehicles {
		amount := utils.LineAmount(v.Weight, req.CoalPrice)
		if v.Amount != nil {
			amount = *v.Amount
		}

		batch.Vehicles = append(batch.Vehicles, &domain.DeliveryVehicle{
			ID:          uuid.NewString(),
			BatchID:     batch.ID,
			Seq:         i,
			PlateNumber: strings.TrimSpace(v.PlateNumber),
			DriverName:  strings.TrimSpace(v.DriverName),
			Weight:      v.Weight,
			Amount:      amount,
			CreatedAt:   now,
		})
		totalWeight = totalWeight.Add(v.Weight)
		totalAmount = totalAmount.Add(amount)
	}

	batch.TotalWeight = totalWeight
	batch.TotalAmount = totalAmount
	batch.RemainingAmount = totalAmount
	batch.Status = domain.BatchStatus(batch.PaidAmount, batch.RemainingAmount)

	// 4. Persist batch and vehicles together
	if err := s.store.Batches().Create(ctx, batch); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	s.logger.Info("batch created",
		zap.String("batch_id", batch.ID),
		zap.Int("vehicles", len(batch.Vehicles)),
		zap.String("total_amount", batch.TotalAmount.String()),
	)

	return batch, nil
}

// ApplyPayment books a supplier payment against a batch. The record keeps the
// tendered amount even when part of it is absorbed as overpayment.
func (s *BatchService) ApplyPayment(ctx context.Context, batchID string, req *domain.BatchPaymentRequest) (*domain.BatchPaymentRecord, error) {
	if req.Amount.IsNegative() {
		return nil, customError.WrapValidation("amount must not be negative")
	}
	if req.PaymentDate != "" && !utils.IsDate(req.PaymentDate) {
		return nil, customError.WrapValidation("paymentDate must be YYYY-MM-DD, got %q", req.PaymentDate)
	}

	record := &domain.BatchPaymentRecord{
		ID:          uuid.NewString(),
		BatchID:     batchID,
		Amount:      req.Amount,
		PaymentDate: utils.DateOrToday(req.PaymentDate),
		Remark:      req.Remark,
		CreatedAt:   time.Now().UTC(),
	}

	var overpaid decimal.Decimal
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		batch, err := tx.Batches().GetByID(ctx, batchID)
		if err != nil {
			return lookupErr(err, "batch", batchID)
		}

		overpaid = utils.FloorZero(req.Amount.Sub(batch.RemainingAmount))
		batch.ApplyPayment(req.Amount)

		if err := tx.Batches().AddPayment(ctx, record); err != nil {
			return err
		}
		return tx.Batches().UpdateBalance(ctx, batch)
	})
	if err != nil {
		return nil, customError.AsBusiness(err)
	}

	if overpaid.IsPositive() {
		s.logger.Warn("overpayment absorbed",
			zap.String("batch_id", batchID),
			zap.String("excess", overpaid.String()),
		)
	}

	return record, nil
}

func (s *BatchService) DeleteBatch(ctx context.Context, batchID string) error {
	if err := s.store.Batches().Delete(ctx, batchID); err != nil {
		return lookupErr(err, "batch", batchID)
	}
	s.logger.Info("batch deleted", zap.String("batch_id", batchID))
	return nil
}

func (s *BatchService) ListBatches(ctx context.Context) ([]*domain.DeliveryBatch, error) {
	batches, err := s.store.Batches().List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return batches, nil
}

func (s *BatchService) GetBatch(ctx context.Context, batchID string) (*domain.DeliveryBatch, error) {
	batch, err := s.store.Batches().GetByID(ctx, batchID)
	if err != nil {
		return nil, lookupErr(err, "batch", batchID)
	}
	return batch, nil
}
