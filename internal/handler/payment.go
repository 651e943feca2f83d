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

type PaymentService interface {
	RecordFreightPayment(ctx context.Context, req *domain.FreightPaymentRequest) (*domain.FreightPayment, error)
	ListFreightPayments(ctx context.Context) ([]*domain.FreightPayment, error)
	DeleteFreightPayment(ctx context.Context, id string) error
	CreateCustomerPayment(ctx context.Context, req *domain.CustomerPaymentRequest) (*domain.CustomerPayment, error)
	ListCustomerPayments(ctx context.Context) ([]*domain.CustomerPayment, error)
	CreateCargoPayment(ctx context.Context, req *domain.CargoPaymentRequest) (*domain.CargoPayment, error)
	ListCargoPayments(ctx context.Context) ([]*domain.CargoPayment, error)
}

type PaymentHandler struct {
	service   PaymentService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewPaymentHandler(service PaymentService, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHandler{
		service:   service,
		validator: NewValidator(),
		logger:    logger,
	}
}

// RecordFreightPayment handles POST /payments/freight
func (h *PaymentHandler) RecordFreightPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.FreightPaymentRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	payment, err := h.service.RecordFreightPayment(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Created(w, payment)
}

// ListFreightPayments handles GET /payments/freight
func (h *PaymentHandler) ListFreightPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListFreightPayments(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, payments)
}

// DeleteFreightPayment handles DELETE /payments/freight/{id}
func (h *PaymentHandler) DeleteFreightPayment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteFreightPayment(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.NoContent(w)
}

// CreateCustomerPayment handles POST /payments/customer
func (h *PaymentHandler) CreateCustomerPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerPaymentRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	payment, err := h.service.CreateCustomerPayment(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Created(w, payment)
}

// ListCustomerPayments handles GET /payments/customer
func (h *PaymentHandler) ListCustomerPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListCustomerPayments(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, payments)
}

// CreateCargoPayment handles POST /payments/cargo
func (h *PaymentHandler) CreateCargoPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.CargoPaymentRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	payment, err := h.service.CreateCargoPayment(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Created(w, payment)
}

// ListCargoPayments handles GET /payments/cargo
func (h *PaymentHandler) ListCargoPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListCargoPayments(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, payments)
}
