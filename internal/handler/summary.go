package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/pkg/response"
)

type SummaryService interface {
	Summary(ctx context.Context) (*domain.AccountSummary, error)
	Cached(ctx context.Context) (*domain.AccountSummary, error)
}

type SummaryHandler struct {
	service SummaryService
	logger  *zap.Logger
}

func NewSummaryHandler(service SummaryService, logger *zap.Logger) *SummaryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryHandler{service: service, logger: logger}
}

// Summary handles GET /summary
func (h *SummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, summary)
}

// Cached handles GET /summary/cached. It serves the summary last published
// by the scheduler and computes one when nothing is cached.
func (h *SummaryHandler) Cached(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Cached(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	response.Success(w, summary)
}
