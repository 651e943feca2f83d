package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/domain"
)

// fileDoc is the whole dataset as it sits on disk. Vehicles, payment records
// and shipment snapshots are nested under their owners.
type fileDoc struct {
	Customers        []*domain.Party           `json:"customers"`
	Suppliers        []*domain.Party           `json:"suppliers"`
	Drivers          []*domain.Driver          `json:"drivers"`
	Batches          []*domain.DeliveryBatch   `json:"deliveryBatches"`
	ArrivalRecords   []*domain.ArrivalRecord   `json:"arrivalRecords"`
	FreightPayments  []*domain.FreightPayment  `json:"freightPayments"`
	CustomerPayments []*domain.CustomerPayment `json:"customerPayments"`
	CargoPayments    []*domain.CargoPayment    `json:"cargoPayments"`
}

type fileState struct {
	mu   sync.Mutex
	path string
	doc  *fileDoc
}

// FileStore keeps everything in one JSON document and commits by rewriting
// the file. It serializes writers within the process only; two processes on
// the same file overwrite each other (last write wins).
type FileStore struct {
	state  *fileState
	work   *fileDoc
	logger *zap.Logger
}

// OpenFile loads path, or starts empty when it does not exist yet.
func OpenFile(path string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	doc := &fileDoc{}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read data file: %w", err)
	case len(raw) > 0:
		if err := json.Unmarshal(raw, doc); err != nil {
			return nil, fmt.Errorf("decode data file %s: %w", path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	logger.Warn("file storage assumes a single writer process; concurrent processes on the same file lose writes",
		zap.String("path", path))

	return &FileStore{
		state:  &fileState{path: path, doc: doc},
		logger: logger,
	}, nil
}

func (s *FileStore) Batches() BatchRepository        { return &fileBatchRepository{s: s} }
func (s *FileStore) Arrivals() ArrivalRepository     { return &fileArrivalRepository{s: s} }
func (s *FileStore) Payments() PaymentRepository     { return &filePaymentRepository{s: s} }
func (s *FileStore) References() ReferenceRepository { return &fileReferenceRepository{s: s} }

func (s *FileStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	if s.work != nil {
		return fn(s)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	work, err := clone(s.state.doc)
	if err != nil {
		return err
	}

	if err := fn(&FileStore{state: s.state, work: work, logger: s.logger}); err != nil {
		return err
	}

	return s.commit(work)
}

func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.state.path))
	return err
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read(fn func(doc *fileDoc) error) error {
	if s.work != nil {
		return fn(s.work)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return fn(s.state.doc)
}

func (s *FileStore) write(fn func(doc *fileDoc) error) error {
	if s.work != nil {
		return fn(s.work)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	next, err := clone(s.state.doc)
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	return s.commit(next)
}

// commit must be called with the lock held.
func (s *FileStore) commit(doc *fileDoc) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.state.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := s.state.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.state.path); err != nil {
		return err
	}

	s.state.doc = doc
	return nil
}

func clone[T any](v T) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}

// newestFirst orders by createdAt descending; ties keep the latest insert first.
func newestFirst[T any](items []T, createdAt func(T) time.Time) []T {
	out := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(out[i]).After(createdAt(out[j]))
	})
	return out
}

type fileBatchRepository struct {
	s *FileStore
}

func (r *fileBatchRepository) Create(ctx context.Context, batch *domain.DeliveryBatch) error {
	for i, v := range batch.Vehicles {
		v.BatchID = batch.ID
		v.Seq = i
	}
	if batch.PaymentRecords == nil {
		batch.PaymentRecords = []*domain.BatchPaymentRecord{}
	}

	stored, err := clone(batch)
	if err != nil {
		return err
	}

	return r.s.write(func(doc *fileDoc) error {
		doc.Batches = append(doc.Batches, stored)
		return nil
	})
}

func (r *fileBatchRepository) find(doc *fileDoc, id string) *domain.DeliveryBatch {
	for _, b := range doc.Batches {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (r *fileBatchRepository) GetByID(ctx context.Context, id string) (*domain.DeliveryBatch, error) {
	var out *domain.DeliveryBatch
	err := r.s.read(func(doc *fileDoc) error {
		b := r.find(doc, id)
		if b == nil {
			return ErrNotFound
		}
		var err error
		out, err = clone(b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return withSeq(out), nil
}

func (r *fileBatchRepository) List(ctx context.Context) ([]*domain.DeliveryBatch, error) {
	var out []*domain.DeliveryBatch
	err := r.s.read(func(doc *fileDoc) error {
		var err error
		out, err = clone(doc.Batches)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, b := range out {
		withSeq(b)
	}
	return newestFirst(out, func(b *domain.DeliveryBatch) time.Time { return b.CreatedAt }), nil
}

func withSeq(b *domain.DeliveryBatch) *domain.DeliveryBatch {
	if b.Vehicles == nil {
		b.Vehicles = []*domain.DeliveryVehicle{}
	}
	if b.PaymentRecords == nil {
		b.PaymentRecords = []*domain.BatchPaymentRecord{}
	}
	for i, v := range b.Vehicles {
		v.Seq = i
	}
	// same order as the SQL store: created_at, then id
	sort.SliceStable(b.PaymentRecords, func(i, j int) bool {
		pi, pj := b.PaymentRecords[i], b.PaymentRecords[j]
		if !pi.CreatedAt.Equal(pj.CreatedAt) {
			return pi.CreatedAt.Before(pj.CreatedAt)
		}
		return pi.ID < pj.ID
	})
	return b
}

func (r *fileBatchRepository) UpdateBalance(ctx context.Context, batch *domain.DeliveryBatch) error {
	return r.s.write(func(doc *fileDoc) error {
		b := r.find(doc, batch.ID)
		if b == nil {
			return ErrNotFound
		}
		b.PaidAmount = batch.PaidAmount
		b.RemainingAmount = batch.RemainingAmount
		b.Status = batch.Status
		return nil
	})
}

func (r *fileBatchRepository) AddPayment(ctx context.Context, payment *domain.BatchPaymentRecord) error {
	stored, err := clone(payment)
	if err != nil {
		return err
	}

	return r.s.write(func(doc *fileDoc) error {
		b := r.find(doc, payment.BatchID)
		if b == nil {
			return ErrNotFound
		}
		b.PaymentRecords = append(b.PaymentRecords, stored)
		return nil
	})
}

func (r *fileBatchRepository) Delete(ctx context.Context, id string) error {
	return r.s.write(func(doc *fileDoc) error {
		for i, b := range doc.Batches {
			if b.ID == id {
				doc.Batches = append(doc.Batches[:i], doc.Batches[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

type fileArrivalRepository struct {
	s *FileStore
}

func (r *fileArrivalRepository) index(doc *fileDoc, id string) int {
	for i, rec := range doc.ArrivalRecords {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func prepareShipments(record *domain.ArrivalRecord) {
	if record.RelatedShipments == nil {
		record.RelatedShipments = []*domain.ArrivalShipment{}
	}
	for i, sh := range record.RelatedShipments {
		sh.ArrivalRecordID = record.ID
		sh.Seq = i
	}
}

func (r *fileArrivalRepository) Create(ctx context.Context, record *domain.ArrivalRecord) error {
	prepareShipments(record)
	stored, err := clone(record)
	if err != nil {
		return err
	}

	return r.s.write(func(doc *fileDoc) error {
		doc.ArrivalRecords = append(doc.ArrivalRecords, stored)
		return nil
	})
}

func (r *fileArrivalRepository) GetByID(ctx context.Context, id string) (*domain.ArrivalRecord, error) {
	var out *domain.ArrivalRecord
	err := r.s.read(func(doc *fileDoc) error {
		i := r.index(doc, id)
		if i < 0 {
			return ErrNotFound
		}
		var err error
		out, err = clone(doc.ArrivalRecords[i])
		return err
	})
	if err != nil {
		return nil, err
	}
	prepareShipments(out)
	return out, nil
}

func (r *fileArrivalRepository) List(ctx context.Context) ([]*domain.ArrivalRecord, error) {
	var out []*domain.ArrivalRecord
	err := r.s.read(func(doc *fileDoc) error {
		var err error
		out, err = clone(doc.ArrivalRecords)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range out {
		prepareShipments(rec)
	}
	return newestFirst(out, func(rec *domain.ArrivalRecord) time.Time { return rec.CreatedAt }), nil
}

func (r *fileArrivalRepository) Update(ctx context.Context, record *domain.ArrivalRecord) error {
	prepareShipments(record)
	stored, err := clone(record)
	if err != nil {
		return err
	}

	return r.s.write(func(doc *fileDoc) error {
		i := r.index(doc, record.ID)
		if i < 0 {
			return ErrNotFound
		}
		stored.CreatedAt = doc.ArrivalRecords[i].CreatedAt
		doc.ArrivalRecords[i] = stored
		return nil
	})
}

func (r *fileArrivalRepository) Delete(ctx context.Context, id string) error {
	return r.s.write(func(doc *fileDoc) error {
		i := r.index(doc, id)
		if i < 0 {
			return ErrNotFound
		}
		doc.ArrivalRecords = append(doc.ArrivalRecords[:i], doc.ArrivalRecords[i+1:]...)
		return nil
	})
}

type filePaymentRepository struct {
	s *FileStore
}

func (r *filePaymentRepository) CreateFreight(ctx context.Context, payment *domain.FreightPayment) error {
	stored, err := clone(payment)
	if err != nil {
		return err
	}
	return r.s.write(func(doc *fileDoc) error {
		doc.FreightPayments = append(doc.FreightPayments, stored)
		return nil
	})
}

func (r *filePaymentRepository) GetFreight(ctx context.Context, id string) (*domain.FreightPayment, error) {
	var out *domain.FreightPayment
	err := r.s.read(func(doc *fileDoc) error {
		for _, p := range doc.FreightPayments {
			if p.ID == id {
				var err error
				out, err = clone(p)
				return err
			}
		}
		return ErrNotFound
	})
	return out, err
}

func (r *filePaymentRepository) ListFreight(ctx context.Context) ([]*domain.FreightPayment, error) {
	return r.listFreight(func(*domain.FreightPayment) bool { return true })
}

func (r *filePaymentRepository) ListFreightByArrival(ctx context.Context, arrivalRecordID string) ([]*domain.FreightPayment, error) {
	return r.listFreight(func(p *domain.FreightPayment) bool {
		return p.ArrivalRecordID != nil && *p.ArrivalRecordID == arrivalRecordID
	})
}

func (r *filePaymentRepository) listFreight(keep func(*domain.FreightPayment) bool) ([]*domain.FreightPayment, error) {
	var all []*domain.FreightPayment
	err := r.s.read(func(doc *fileDoc) error {
		var err error
		all, err = clone(doc.FreightPayments)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := []*domain.FreightPayment{}
	for _, p := range all {
		if keep(p) {
			out = append(out, p)
		}
	}
	return newestFirst(out, func(p *domain.FreightPayment) time.Time { return p.CreatedAt }), nil
}

func (r *filePaymentRepository) DeleteFreight(ctx context.Context, id string) error {
	return r.s.write(func(doc *fileDoc) error {
		for i, p := range doc.FreightPayments {
			if p.ID == id {
				doc.FreightPayments = append(doc.FreightPayments[:i], doc.FreightPayments[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (r *filePaymentRepository) CreateCustomer(ctx context.Context, payment *domain.CustomerPayment) error {
	stored, err := clone(payment)
	if err != nil {
		return err
	}
	return r.s.write(func(doc *fileDoc) error {
		doc.CustomerPayments = append(doc.CustomerPayments, stored)
		return nil
	})
}

func (r *filePaymentRepository) ListCustomer(ctx context.Context) ([]*domain.CustomerPayment, error) {
	var out []*domain.CustomerPayment
	err := r.s.read(func(doc *fileDoc) error {
		var err error
		out, err = clone(doc.CustomerPayments)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.CustomerPayment{}
	}
	return newestFirst(out, func(p *domain.CustomerPayment) time.Time { return p.CreatedAt }), nil
}

func (r *filePaymentRepository) CreateCargo(ctx context.Context, payment *domain.CargoPayment) error {
	stored, err := clone(payment)
	if err != nil {
		return err
	}
	return r.s.write(func(doc *fileDoc) error {
		doc.CargoPayments = append(doc.CargoPayments, stored)
		return nil
	})
}

func (r *filePaymentRepository) ListCargo(ctx context.Context) ([]*domain.CargoPayment, error) {
	var out []*domain.CargoPayment
	err := r.s.read(func(doc *fileDoc) error {
		var err error
		out, err = clone(doc.CargoPayments)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.CargoPayment{}
	}
	return newestFirst(out, func(p *domain.CargoPayment) time.Time { return p.CreatedAt }), nil
}

type fileReferenceRepository struct {
	s *FileStore
}

func parties(doc *fileDoc, kind domain.PartyKind) (*[]*domain.Party, error) {
	switch kind {
	case domain.PartyCustomer:
		return &doc.Customers, nil
	case domain.PartySupplier:
		return &doc.Suppliers, nil
	default:
		return nil, fmt.Errorf("unknown party kind %q", kind)
	}
}

func (r *fileReferenceRepository) SaveParty(ctx context.Context, kind domain.PartyKind, party *domain.Party) error {
	stored, err := clone(party)
	if err != nil {
		return err
	}

	return r.s.write(func(doc *fileDoc) error {
		list, err := parties(doc, kind)
		if err != nil {
			return err
		}
		for i, p := range *list {
			if p.ID == party.ID {
				stored.CreatedAt = p.CreatedAt
				(*list)[i] = stored
				return nil
			}
		}
		*list = append(*list, stored)
		return nil
	})
}

func (r *fileReferenceRepository) GetParty(ctx context.Context, kind domain.PartyKind, id string) (*domain.Party, error) {
	var out *domain.Party
	err := r.s.read(func(doc *fileDoc) error {
		list, err := parties(doc, kind)
		if err != nil {
			return err
		}
		for _, p := range *list {
			if p.ID == id {
				out, err = clone(p)
				return err
			}
		}
		return ErrNotFound
	})
	return out, err
}

func (r *fileReferenceRepository) ListParties(ctx context.Context, kind domain.PartyKind) ([]*domain.Party, error) {
	var out []*domain.Party
	err := r.s.read(func(doc *fileDoc) error {
		list, err := parties(doc, kind)
		if err != nil {
			return err
		}
		out, err = clone(*list)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.Party{}
	}
	return newestFirst(out, func(p *domain.Party) time.Time { return p.CreatedAt }), nil
}

func (r *fileReferenceRepository) DeleteParty(ctx context.Context, kind domain.PartyKind, id string) error {
	return r.s.write(func(doc *fileDoc) error {
		list, err := parties(doc, kind)
		if err != nil {
			return err
		}
		for i, p := range *list {
			if p.ID == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (r *fileReferenceRepository) SaveDriver(ctx context.Context, driver *domain.Driver) error {
	stored, err := clone(driver)
	if err != nil {
		return err
	}

	return r.s.write(func(doc *fileDoc) error {
		for i, d := range doc.Drivers {
			if d.ID == driver.ID {
				stored.CreatedAt = d.CreatedAt
				doc.Drivers[i] = stored
				return nil
			}
		}
		doc.Drivers = append(doc.Drivers, stored)
		return nil
	})
}

func (r *fileReferenceRepository) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	var out *domain.Driver
	err := r.s.read(func(doc *fileDoc) error {
		for _, d := range doc.Drivers {
			if d.ID == id {
				var err error
				out, err = clone(d)
				return err
			}
		}
		return ErrNotFound
	})
	return out, err
}

func (r *fileReferenceRepository) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	var out []*domain.Driver
	err := r.s.read(func(doc *fileDoc) error {
		var err error
		out, err = clone(doc.Drivers)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.Driver{}
	}
	return newestFirst(out, func(d *domain.Driver) time.Time { return d.CreatedAt }), nil
}

func (r *fileReferenceRepository) DeleteDriver(ctx context.Context, id string) error {
	return r.s.write(func(doc *fileDoc) error {
		for i, d := range doc.Drivers {
			if d.ID == id {
				doc.Drivers = append(doc.Drivers[:i], doc.Drivers[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
