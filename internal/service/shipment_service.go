package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/internal/repository"
	customError "github.com/segyhp/coal-settlement/pkg/errors"
)

// ShipmentService serves the read-only views derived from batches: shipments
// and, when no roster exists, drivers.
type ShipmentService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewShipmentService(store repository.Store, logger *zap.Logger) *ShipmentService {
	return &ShipmentService{
		store:  store,
		logger: nopIfNil(logger).Named("shipment"),
	}
}

func (s *ShipmentService) ListShipments(ctx context.Context) ([]*domain.Shipment, error) {
	return listShipments(ctx, s.store)
}

func (s *ShipmentService) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return listDrivers(ctx, s.store)
}

func listShipments(ctx context.Context, store repository.Store) ([]*domain.Shipment, error) {
	batches, err := store.Batches().List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	roster, err := store.References().ListDrivers(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return ProjectShipments(batches, roster), nil
}

func listDrivers(ctx context.Context, store repository.Store) ([]*domain.Driver, error) {
	roster, err := store.References().ListDrivers(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	if len(roster) > 0 {
		return roster, nil
	}

	batches, err := store.Batches().List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return AggregateDrivers(batches), nil
}
