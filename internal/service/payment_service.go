package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/internal/repository"
	customError "github.com/segyhp/coal-settlement/pkg/errors"
	"github.com/segyhp/coal-settlement/pkg/utils"
)

// PaymentService owns the cargo, freight and customer ledgers. Entries are
// append-only apart from freight deletion.
type PaymentService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewPaymentService(store repository.Store, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		store:  store,
		logger: nopIfNil(logger).Named("payment"),
	}
}

func validPaymentDate(date string) error {
	if date != "" && !utils.IsDate(date) {
		return customError.WrapValidation("paymentDate must be YYYY-MM-DD, got %q", date)
	}
	return nil
}

// RecordFreightPayment appends a freight payout. It never touches the arrival
// record it is tagged with; freight status is derived on read.
func (s *PaymentService) RecordFreightPayment(ctx context.Context, req *domain.FreightPaymentRequest) (*domain.FreightPayment, error) {
	if strings.TrimSpace(req.DriverID) == "" {
		return nil, customError.WrapValidation("driverId is required")
	}
	if req.ActualAmount.IsNegative() || req.CalculatedAmount.IsNegative() {
		return nil, customError.WrapValidation("amounts must not be negative")
	}
	if err := validPaymentDate(req.PaymentDate); err != nil {
		return nil, err
	}

	var arrivalRecordID *string
	if req.ArrivalRecordID != nil && strings.TrimSpace(*req.ArrivalRecordID) != "" {
		id := strings.TrimSpace(*req.ArrivalRecordID)
		if _, err := s.store.Arrivals().GetByID(ctx, id); err != nil {
			return nil, lookupErr(err, "arrival record", id)
		}
		arrivalRecordID = &id
	}

	driverName := strings.TrimSpace(req.DriverName)
	if driverName == "" {
		drivers, err := listDrivers(ctx, s.store)
		if err != nil {
			return nil, err
		}
		for _, d := range drivers {
			if d.ID == req.DriverID {
				driverName = d.Name
				break
			}
		}
		if driverName == "" {
			return nil, customError.WrapValidation("unknown driver %s", req.DriverID)
		}
	}

	payment := &domain.FreightPayment{
		ID:               uuid.NewString(),
		DriverID:         req.DriverID,
		DriverName:       driverName,
		PlateNumbers:     domain.StringList(req.PlateNumbers).Dedup(),
		CalculatedAmount: req.CalculatedAmount,
		ActualAmount:     req.ActualAmount,
		PaymentDate:      utils.DateOrToday(req.PaymentDate),
		Remark:           req.Remark,
		ArrivalRecordID:  arrivalRecordID,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.store.Payments().CreateFreight(ctx, payment); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	s.logger.Info("freight payment recorded",
		zap.String("payment_id", payment.ID),
		zap.String("driver_id", payment.DriverID),
		zap.String("amount", payment.ActualAmount.String()),
	)

	return payment, nil
}

func (s *PaymentService) ListFreightPayments(ctx context.Context) ([]*domain.FreightPayment, error) {
	payments, err := s.store.Payments().ListFreight(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return payments, nil
}

func (s *PaymentService) DeleteFreightPayment(ctx context.Context, id string) error {
	if err := s.store.Payments().DeleteFreight(ctx, id); err != nil {
		return lookupErr(err, "freight payment", id)
	}
	s.logger.Info("freight payment deleted", zap.String("payment_id", id))
	return nil
}

func (s *PaymentService) CreateCustomerPayment(ctx context.Context, req *domain.CustomerPaymentRequest) (*domain.CustomerPayment, error) {
	if req.Amount.IsNegative() {
		return nil, customError.WrapValidation("amount must not be negative")
	}
	if err := validPaymentDate(req.PaymentDate); err != nil {
		return nil, err
	}

	customerName, err := resolvePartyName(ctx, s.store.References(), domain.PartyCustomer, req.CustomerID, req.CustomerName)
	if err != nil {
		return nil, err
	}

	var arrivalRecordID *string
	if req.ArrivalRecordID != nil && strings.TrimSpace(*req.ArrivalRecordID) != "" {
		id := strings.TrimSpace(*req.ArrivalRecordID)
		arrivalRecordID = &id
	}

	payment := &domain.CustomerPayment{
		ID:              uuid.NewString(),
		CustomerID:      req.CustomerID,
		CustomerName:    customerName,
		Amount:          req.Amount,
		PaymentDate:     utils.DateOrToday(req.PaymentDate),
		Remark:          req.Remark,
		ArrivalRecordID: arrivalRecordID,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.store.Payments().CreateCustomer(ctx, payment); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	return payment, nil
}

func (s *PaymentService) ListCustomerPayments(ctx context.Context) ([]*domain.CustomerPayment, error) {
	payments, err := s.store.Payments().ListCustomer(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return payments, nil
}

func (s *PaymentService) CreateCargoPayment(ctx context.Context, req *domain.CargoPaymentRequest) (*domain.CargoPayment, error) {
	if req.ActualAmount.IsNegative() || req.CalculatedAmount.IsNegative() {
		return nil, customError.WrapValidation("amounts must not be negative")
	}
	if err := validPaymentDate(req.PaymentDate); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ShipmentID) == "" {
		return nil, customError.WrapValidation("shipmentId is required")
	}

	customerName, err := resolvePartyName(ctx, s.store.References(), domain.PartyCustomer, req.CustomerID, req.CustomerName)
	if err != nil {
		return nil, err
	}

	payment := &domain.CargoPayment{
		ID:               uuid.NewString(),
		ShipmentID:       req.ShipmentID,
		CustomerID:       req.CustomerID,
		CustomerName:     customerName,
		CalculatedAmount: req.CalculatedAmount,
		ActualAmount:     req.ActualAmount,
		PaymentDate:      utils.DateOrToday(req.PaymentDate),
		Remark:           req.Remark,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.store.Payments().CreateCargo(ctx, payment); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	return payment, nil
}

func (s *PaymentService) ListCargoPayments(ctx context.Context) ([]*domain.CargoPayment, error) {
	payments, err := s.store.Payments().ListCargo(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return payments, nil
}
