package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/internal/repository"
	customError "github.com/segyhp/coal-settlement/pkg/errors"
	"github.com/segyhp/coal-settlement/pkg/utils"
)

// ErrCacheMiss is returned by a SummaryCache that holds no summary.
var ErrCacheMiss = errors.New("summary not cached")

// SummaryCache stores the last published summary.
type SummaryCache interface {
	Put(ctx context.Context, summary *domain.AccountSummary, ttl time.Duration) error
	Get(ctx context.Context) (*domain.AccountSummary, error)
}

type SummaryService struct {
	store  repository.Store
	cache  SummaryCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewSummaryService builds the service. cache may be nil, in which case
// Publish is a no-op and Cached always computes.
func NewSummaryService(store repository.Store, cache SummaryCache, ttl time.Duration, logger *zap.Logger) *SummaryService {
	return &SummaryService{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		logger: nopIfNil(logger).Named("summary"),
	}
}

// Summary computes the open position across all three flows from the ledgers.
func (s *SummaryService) Summary(ctx context.Context) (*domain.AccountSummary, error) {
	batches, err := s.store.Batches().List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	records, err := s.store.Arrivals().List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	freight, err := s.store.Payments().ListFreight(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	payables := decimal.Zero
	for _, b := range batches {
		payables = payables.Add(b.RemainingAmount)
	}

	receivables, freightPayables := decimal.Zero, decimal.Zero
	for _, r := range records {
		r.ApplyFreightLedger(freight)
		receivables = receivables.Add(r.ReceivableRemaining())
		if r.FreightPaymentStatus != domain.SettlementPaid {
			freightPayables = freightPayables.Add(r.FreightRemaining())
		}
	}

	return &domain.AccountSummary{
		TotalReceivables:     utils.RoundMoney(receivables),
		TotalPayables:        utils.RoundMoney(payables),
		TotalFreightPayables: utils.RoundMoney(freightPayables),
		NetPosition:          utils.RoundMoney(receivables.Sub(payables).Sub(freightPayables)),
		BatchCount:           len(batches),
		ArrivalRecordCount:   len(records),
		GeneratedAt:          time.Now().UTC(),
	}, nil
}

// Publish computes the summary and stores it in the cache.
func (s *SummaryService) Publish(ctx context.Context) (*domain.AccountSummary, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache == nil {
		return summary, nil
	}

	if err := s.cache.Put(ctx, summary, s.ttl); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	s.logger.Info("summary published",
		zap.String("net_position", summary.NetPosition.String()),
		zap.Duration("ttl", s.ttl),
	)

	return summary, nil
}

// Cached returns the last published summary, computing a fresh one when the
// cache is empty or unreachable.
func (s *SummaryService) Cached(ctx context.Context) (*domain.AccountSummary, error) {
	if s.cache != nil {
		summary, err := s.cache.Get(ctx)
		if err == nil {
			return summary, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("summary cache read failed", zap.Error(err))
		}
	}
	return s.Summary(ctx)
}
