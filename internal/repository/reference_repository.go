package repository

import (
	"context"
	"fmt"

	"github.com/segyhp/coal-settlement/internal/domain"
)

type referenceRepository struct {
	s *SQLStore
}

func partyTable(kind domain.PartyKind) (string, error) {
	switch kind {
	case domain.PartyCustomer:
		return "customers", nil
	case domain.PartySupplier:
		return "suppliers", nil
	default:
		return "", fmt.Errorf("unknown party kind %q", kind)
	}
}

func (r *referenceRepository) SaveParty(ctx context.Context, kind domain.PartyKind, party *domain.Party) error {
	table, err := partyTable(kind)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ` + table + ` (id, name, contact, phone, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET name = excluded.name, contact = excluded.contact, phone = excluded.phone, address = excluded.address
	`

	_, err = r.s.exec(ctx, query,
		party.ID,
		party.Name,
		party.Contact,
		party.Phone,
		party.Address,
		party.CreatedAt,
	)

	return err
}

func (r *referenceRepository) GetParty(ctx context.Context, kind domain.PartyKind, id string) (*domain.Party, error) {
	table, err := partyTable(kind)
	if err != nil {
		return nil, err
	}

	var party domain.Party
	query := `SELECT id, name, contact, phone, address, created_at FROM ` + table + ` WHERE id = ?`
	if err := r.s.get(ctx, &party, query, id); err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *referenceRepository) ListParties(ctx context.Context, kind domain.PartyKind) ([]*domain.Party, error) {
	table, err := partyTable(kind)
	if err != nil {
		return nil, err
	}

	parties := []*domain.Party{}
	query := `SELECT id, name, contact, phone, address, created_at FROM ` + table + ` ORDER BY created_at DESC, id`
	if err := r.s.selectAll(ctx, &parties, query); err != nil {
		return nil, err
	}
	return parties, nil
}

func (r *referenceRepository) DeleteParty(ctx context.Context, kind domain.PartyKind, id string) error {
	table, err := partyTable(kind)
	if err != nil {
		return err
	}
	return r.s.execOne(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
}

func (r *referenceRepository) SaveDriver(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, team_name, plate_numbers, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET name = excluded.name, phone = excluded.phone, team_name = excluded.team_name,
			plate_numbers = excluded.plate_numbers
	`

	_, err := r.s.exec(ctx, query,
		driver.ID,
		driver.Name,
		driver.Phone,
		driver.TeamName,
		driver.PlateNumbers,
		driver.CreatedAt,
	)

	return err
}

func (r *referenceRepository) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	var driver domain.Driver
	query := `SELECT id, name, phone, team_name, plate_numbers, created_at FROM drivers WHERE id = ?`
	if err := r.s.get(ctx, &driver, query, id); err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *referenceRepository) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	drivers := []*domain.Driver{}
	query := `SELECT id, name, phone, team_name, plate_numbers, created_at FROM drivers ORDER BY created_at DESC, id`
	if err := r.s.selectAll(ctx, &drivers, query); err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *referenceRepository) DeleteDriver(ctx context.Context, id string) error {
	return r.s.execOne(ctx, `DELETE FROM drivers WHERE id = ?`, id)
}
