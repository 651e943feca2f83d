package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/pkg/response"
)

type ShipmentService interface {
	ListShipments(ctx context.Context) ([]*domain.Shipment, error)
	ListDrivers(ctx context.Context) ([]*domain.Driver, error)
}

type ShipmentHandler struct {
	service ShipmentService
	logger  *zap.Logger
}

func NewShipmentHandler(service ShipmentService, logger *zap.Logger) *ShipmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShipmentHandler{service: service, logger: logger}
}

// ListShipments handles GET /shipments
func (h *ShipmentHandler) ListShipments(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.service.ListShipments(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, shipments)
}

// ListDrivers handles GET /drivers
func (h *ShipmentHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.service.ListDrivers(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, drivers)
}
