package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/pkg/response"
)

type BatchService interface {
	CreateBatch(ctx context.Context, req *domain.CreateBatchRequest) (*domain.DeliveryBatch, error)
	ApplyPayment(ctx context.Context, batchID string, req *domain.BatchPaymentRequest) (*domain.BatchPaymentRecord, error)
	DeleteBatch(ctx context.Context, batchID string) error
	ListBatches(ctx context.Context) ([]*domain.DeliveryBatch, error)
	GetBatch(ctx context.Context, batchID string) (*domain.DeliveryBatch, error)
}

type BatchHandler struct {
	service   BatchService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewBatchHandler(service BatchService, logger *zap.Logger) *BatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchHandler{
		service:   service,
		validator: NewValidator(),
		logger:    logger,
	}
}

// CreateBatch handles POST /batches
func (h *BatchHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBatchRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	batch, err := h.service.CreateBatch(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Created(w, batch)
}

// ListBatches handles GET /batches
func (h *BatchHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.service.ListBatches(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, batches)
}

// GetBatch handles GET /batches/{id}
func (h *BatchHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := h.service.GetBatch(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, batch)
}

// ApplyPayment handles POST /batches/{id}/payments
func (h *BatchHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.BatchPaymentRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	record, err := h.service.ApplyPayment(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Created(w, record)
}

// DeleteBatch handles DELETE /batches/{id}
func (h *BatchHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBatch(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.NoContent(w)
}
