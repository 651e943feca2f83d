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

type ReferenceService interface {
	SaveParty(ctx context.Context, kind domain.PartyKind, req *domain.SavePartyRequest) (*domain.Party, error)
	GetParty(ctx context.Context, kind domain.PartyKind, id string) (*domain.Party, error)
	ListParties(ctx context.Context, kind domain.PartyKind) ([]*domain.Party, error)
	DeleteParty(ctx context.Context, kind domain.PartyKind, id string) error
	SaveDriver(ctx context.Context, req *domain.SaveDriverRequest) (*domain.Driver, error)
	GetDriver(ctx context.Context, id string) (*domain.Driver, error)
	DeleteDriver(ctx context.Context, id string) error
}

// ReferenceHandler serves customers, suppliers and the driver roster.
// Customers and suppliers share handlers bound to a PartyKind.
type ReferenceHandler struct {
	service   ReferenceService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewReferenceHandler(service ReferenceService, logger *zap.Logger) *ReferenceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceHandler{
		service:   service,
		validator: NewValidator(),
		logger:    logger,
	}
}

func (h *ReferenceHandler) SaveParty(kind domain.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.SavePartyRequest
		if err := decodeAndValidate(r, h.validator, &req); err != nil {
			writeError(w, h.logger, r, err)
			return
		}

		party, err := h.service.SaveParty(r.Context(), kind, &req)
		if err != nil {
			writeError(w, h.logger, r, err)
			return
		}

		response.Created(w, party)
	}
}

func (h *ReferenceHandler) ListParties(kind domain.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parties, err := h.service.ListParties(r.Context(), kind)
		if err != nil {
			writeError(w, h.logger, r, err)
			return
		}

		response.Success(w, parties)
	}
}

func (h *ReferenceHandler) GetParty(kind domain.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		party, err := h.service.GetParty(r.Context(), kind, mux.Vars(r)["id"])
		if err != nil {
			writeError(w, h.logger, r, err)
			return
		}

		response.Success(w, party)
	}
}

func (h *ReferenceHandler) DeleteParty(kind domain.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.DeleteParty(r.Context(), kind, mux.Vars(r)["id"]); err != nil {
			writeError(w, h.logger, r, err)
			return
		}

		response.NoContent(w)
	}
}

// SaveDriver handles POST /drivers
func (h *ReferenceHandler) SaveDriver(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveDriverRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	driver, err := h.service.SaveDriver(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Created(w, driver)
}

// GetDriver handles GET /drivers/{id}
func (h *ReferenceHandler) GetDriver(w http.ResponseWriter, r *http.Request) {
	driver, err := h.service.GetDriver(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, driver)
}

// DeleteDriver handles DELETE /drivers/{id}
func (h *ReferenceHandler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDriver(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.NoContent(w)
}
