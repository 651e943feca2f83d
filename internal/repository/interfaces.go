package repository

import (
	"context"
	"errors"

	"github.com/segyhp/coal-settlement/internal/domain"
)

// ErrNotFound is returned by every lookup or delete that matches no row.
var ErrNotFound = errors.New("record not found")

// Store groups the repositories of one backend. Repositories obtained from
// the tx argument of Atomic see and write the same unit of work.
type Store interface {
	Batches() BatchRepository
	Arrivals() ArrivalRepository
	Payments() PaymentRepository
	References() ReferenceRepository

	// Atomic runs fn as one unit: either every write inside it lands or
	// none does. Nested calls join the outer unit.
	Atomic(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
	Close() error
}

// BatchRepository defines the interface for delivery batch data operations
type BatchRepository interface {
	// Create persists a batch together with its vehicles
	Create(ctx context.Context, batch *domain.DeliveryBatch) error

	// GetByID retrieves a batch with its vehicles and payment records
	GetByID(ctx context.Context, id string) (*domain.DeliveryBatch, error)

	// List retrieves every batch, newest first, fully populated
	List(ctx context.Context) ([]*domain.DeliveryBatch, error)

	// UpdateBalance writes paid/remaining amounts and status
	UpdateBalance(ctx context.Context, batch *domain.DeliveryBatch) error

	// AddPayment appends a payment record to a batch
	AddPayment(ctx context.Context, payment *domain.BatchPaymentRecord) error

	// Delete removes a batch, its vehicles and its payment records
	Delete(ctx context.Context, id string) error
}

// ArrivalRepository defines the interface for arrival record data operations
type ArrivalRepository interface {
	// Create persists a record together with its shipment snapshots
	Create(ctx context.Context, record *domain.ArrivalRecord) error

	// GetByID retrieves a record with its shipment snapshots
	GetByID(ctx context.Context, id string) (*domain.ArrivalRecord, error)

	// List retrieves every record, newest first
	List(ctx context.Context) ([]*domain.ArrivalRecord, error)

	// Update rewrites the record and replaces its shipment snapshots
	Update(ctx context.Context, record *domain.ArrivalRecord) error

	// Delete removes a record and its shipment snapshots
	Delete(ctx context.Context, id string) error
}

// PaymentRepository defines the interface for the three payment ledgers
type PaymentRepository interface {
	CreateFreight(ctx context.Context, payment *domain.FreightPayment) error
	GetFreight(ctx context.Context, id string) (*domain.FreightPayment, error)
	ListFreight(ctx context.Context) ([]*domain.FreightPayment, error)
	ListFreightByArrival(ctx context.Context, arrivalRecordID string) ([]*domain.FreightPayment, error)
	DeleteFreight(ctx context.Context, id string) error

	CreateCustomer(ctx context.Context, payment *domain.CustomerPayment) error
	ListCustomer(ctx context.Context) ([]*domain.CustomerPayment, error)

	CreateCargo(ctx context.Context, payment *domain.CargoPayment) error
	ListCargo(ctx context.Context) ([]*domain.CargoPayment, error)
}

// ReferenceRepository is the keyed store for customers, suppliers and the
// driver roster.
type ReferenceRepository interface {
	SaveParty(ctx context.Context, kind domain.PartyKind, party *domain.Party) error
	GetParty(ctx context.Context, kind domain.PartyKind, id string) (*domain.Party, error)
	ListParties(ctx context.Context, kind domain.PartyKind) ([]*domain.Party, error)
	DeleteParty(ctx context.Context, kind domain.PartyKind, id string) error

	SaveDriver(ctx context.Context, driver *domain.Driver) error
	GetDriver(ctx context.Context, id string) (*domain.Driver, error)
	ListDrivers(ctx context.Context) ([]*domain.Driver, error)
	DeleteDriver(ctx context.Context, id string) error
}
