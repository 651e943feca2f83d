package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/internal/repository"
	customError "github.com/segyhp/coal-settlement/pkg/errors"
)

// ReferenceService manages customers, suppliers and the driver roster.
type ReferenceService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewReferenceService(store repository.Store, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{
		store:  store,
		logger: nopIfNil(logger).Named("reference"),
	}
}

// resolvePartyName prefers the caller's name and falls back to the stored
// party. An unknown id without a name is rejected.
func resolvePartyName(ctx context.Context, refs repository.ReferenceRepository, kind domain.PartyKind, id, name string) (string, error) {
	if n := strings.TrimSpace(name); n != "" {
		return n, nil
	}
	if strings.TrimSpace(id) == "" {
		return "", customError.WrapValidation("%sId is required", kind)
	}

	party, err := refs.GetParty(ctx, kind, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", customError.WrapValidation("unknown %s %s", kind, id)
	}
	if err != nil {
		return "", customError.WrapStorageError(err)
	}
	return party.Name, nil
}

func (s *ReferenceService) SaveParty(ctx context.Context, kind domain.PartyKind, req *domain.SavePartyRequest) (*domain.Party, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, customError.WrapValidation("name is required")
	}

	party := &domain.Party{
		ID:        strings.TrimSpace(req.ID),
		Name:      name,
		Contact:   req.Contact,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: time.Now().UTC(),
	}
	if party.ID == "" {
		party.ID = uuid.NewString()
	}

	if err := s.store.References().SaveParty(ctx, kind, party); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	return s.GetParty(ctx, kind, party.ID)
}

func (s *ReferenceService) GetParty(ctx context.Context, kind domain.PartyKind, id string) (*domain.Party, error) {
	party, err := s.store.References().GetParty(ctx, kind, id)
	if err != nil {
		return nil, lookupErr(err, string(kind), id)
	}
	return party, nil
}

func (s *ReferenceService) ListParties(ctx context.Context, kind domain.PartyKind) ([]*domain.Party, error) {
	parties, err := s.store.References().ListParties(ctx, kind)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return parties, nil
}

func (s *ReferenceService) DeleteParty(ctx context.Context, kind domain.PartyKind, id string) error {
	if err := s.store.References().DeleteParty(ctx, kind, id); err != nil {
		return lookupErr(err, string(kind), id)
	}
	return nil
}

func (s *ReferenceService) SaveDriver(ctx context.Context, req *domain.SaveDriverRequest) (*domain.Driver, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, customError.WrapValidation("name is required")
	}

	driver := &domain.Driver{
		ID:           strings.TrimSpace(req.ID),
		Name:         name,
		Phone:        req.Phone,
		TeamName:     req.TeamName,
		PlateNumbers: domain.StringList(req.PlateNumbers).Dedup(),
		CreatedAt:    time.Now().UTC(),
	}
	if driver.ID == "" {
		driver.ID = uuid.NewString()
	}

	if err := s.store.References().SaveDriver(ctx, driver); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	return s.GetDriver(ctx, driver.ID)
}

func (s *ReferenceService) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	driver, err := s.store.References().GetDriver(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "driver", id)
	}
	return driver, nil
}

func (s *ReferenceService) DeleteDriver(ctx context.Context, id string) error {
	if err := s.store.References().DeleteDriver(ctx, id); err != nil {
		return lookupErr(err, "driver", id)
	}
	return nil
}
