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

type ArrivalService interface {
	CreateArrivalRecord(ctx context.Context, req *domain.CreateArrivalRecordRequest) (*domain.ArrivalRecord, error)
	GetArrivalRecord(ctx context.Context, id string) (*domain.ArrivalRecord, error)
	ListArrivalRecords(ctx context.Context) ([]*domain.ArrivalRecord, error)
	UpdateArrivalRecord(ctx context.Context, id string, req *domain.UpdateArrivalRecordRequest) (*domain.ArrivalRecord, error)
	RecordReceivablePayment(ctx context.Context, id string, req *domain.ReceivablePaymentRequest) (*domain.ArrivalRecord, error)
	SettleFreight(ctx context.Context, id string) (*domain.FreightPayment, error)
	DeleteArrivalRecord(ctx context.Context, id string) error
}

type ArrivalHandler struct {
	service   ArrivalService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewArrivalHandler(service ArrivalService, logger *zap.Logger) *ArrivalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArrivalHandler{
		service:   service,
		validator: NewValidator(),
		logger:    logger,
	}
}

// CreateArrivalRecord handles POST /arrival-records
func (h *ArrivalHandler) CreateArrivalRecord(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateArrivalRecordRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	record, err := h.service.CreateArrivalRecord(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Created(w, record)
}

// ListArrivalRecords handles GET /arrival-records
func (h *ArrivalHandler) ListArrivalRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListArrivalRecords(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, records)
}

// GetArrivalRecord handles GET /arrival-records/{id}
func (h *ArrivalHandler) GetArrivalRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.GetArrivalRecord(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, record)
}

// UpdateArrivalRecord handles PUT /arrival-records/{id}
func (h *ArrivalHandler) UpdateArrivalRecord(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateArrivalRecordRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	record, err := h.service.UpdateArrivalRecord(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, record)
}

// RecordReceivablePayment handles POST /arrival-records/{id}/receivable
func (h *ArrivalHandler) RecordReceivablePayment(w http.ResponseWriter, r *http.Request) {
	var req domain.ReceivablePaymentRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	record, err := h.service.RecordReceivablePayment(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, record)
}

// SettleFreight handles POST /arrival-records/{id}/freight-settlement.
// The body is ignored.
func (h *ArrivalHandler) SettleFreight(w http.ResponseWriter, r *http.Request) {
	payment, err := h.service.SettleFreight(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Created(w, payment)
}

// DeleteArrivalRecord handles DELETE /arrival-records/{id}
func (h *ArrivalHandler) DeleteArrivalRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteArrivalRecord(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.NoContent(w)
}
