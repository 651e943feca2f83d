package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/coal-settlement/internal/domain"
)

const arrivalColumns = `id, arrival_date, customer_id, customer_name, selling_price_per_ton, freight_per_ton,
	total_weight, total_loss, total_receivable, total_freight_payable, actual_freight_paid,
	freight_payment_status, actual_received, receivable_payment_status, status, remark, created_at`

type arrivalRepository struct {
	s *SQLStore
}

func (r *arrivalRepository) Create(ctx context.Context, record *domain.ArrivalRecord) error {
	query := `
		INSERT INTO arrival_records (` + arrivalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return r.s.Atomic(ctx, func(tx Store) error {
		s := tx.(*SQLStore)

		_, err := s.exec(ctx, query,
			record.ID,
			record.ArrivalDate,
			record.CustomerID,
			record.CustomerName,
			record.SellingPricePerTon,
			record.FreightPerTon,
			record.TotalWeight,
			record.TotalLoss,
			record.TotalReceivable,
			record.TotalFreightPayable,
			record.ActualFreightPaid,
			record.FreightPaymentStatus,
			record.ActualReceived,
			record.ReceivablePaymentStatus,
			record.Status,
			record.Remark,
			record.CreatedAt,
		)
		if err != nil {
			return err
		}

		return insertShipments(ctx, s, record)
	})
}

func insertShipments(ctx context.Context, s *SQLStore, record *domain.ArrivalRecord) error {
	query := `
		INSERT INTO arrival_shipments (id, arrival_record_id, shipment_id, seq, plate_number, driver_name,
			original_weight, arrival_weight, loss, receivable_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, sh := range record.RelatedShipments {
		sh.ArrivalRecordID = record.ID
		sh.Seq = i
		_, err := s.exec(ctx, query,
			sh.ID,
			sh.ArrivalRecordID,
			sh.ShipmentID,
			sh.Seq,
			sh.PlateNumber,
			sh.DriverName,
			sh.OriginalWeight,
			sh.ArrivalWeight,
			sh.Loss,
			sh.ReceivableAmount,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *arrivalRepository) GetByID(ctx context.Context, id string) (*domain.ArrivalRecord, error) {
	query := `SELECT ` + arrivalColumns + ` FROM arrival_records WHERE id = ?`

	var record domain.ArrivalRecord
	if err := r.s.get(ctx, &record, query, id); err != nil {
		return nil, err
	}

	if err := r.populate(ctx, []*domain.ArrivalRecord{&record}); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *arrivalRepository) List(ctx context.Context) ([]*domain.ArrivalRecord, error) {
	query := `SELECT ` + arrivalColumns + ` FROM arrival_records ORDER BY created_at DESC, id`

	records := []*domain.ArrivalRecord{}
	if err := r.s.selectAll(ctx, &records, query); err != nil {
		return nil, err
	}

	if err := r.populate(ctx, records); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *arrivalRepository) populate(ctx context.Context, records []*domain.ArrivalRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]string, 0, len(records))
	byID := make(map[string]*domain.ArrivalRecord, len(records))
	for _, rec := range records {
		rec.RelatedShipments = []*domain.ArrivalShipment{}
		byID[rec.ID] = rec
		ids = append(ids, rec.ID)
	}

	query, args, err := sqlx.In(`
		SELECT id, arrival_record_id, shipment_id, seq, plate_number, driver_name,
			original_weight, arrival_weight, loss, receivable_amount
		FROM arrival_shipments
		WHERE arrival_record_id IN (?)
		ORDER BY arrival_record_id, seq
	`, ids)
	if err != nil {
		return err
	}

	var shipments []*domain.ArrivalShipment
	if err := r.s.selectAll(ctx, &shipments, query, args...); err != nil {
		return err
	}
	for _, sh := range shipments {
		if rec, ok := byID[sh.ArrivalRecordID]; ok {
			rec.RelatedShipments = append(rec.RelatedShipments, sh)
		}
	}

	return nil
}

func (r *arrivalRepository) Update(ctx context.Context, record *domain.ArrivalRecord) error {
	query := `
		UPDATE arrival_records
		SET arrival_date = ?, customer_id = ?, customer_name = ?, selling_price_per_ton = ?, freight_per_ton = ?,
			total_weight = ?, total_loss = ?, total_receivable = ?, total_freight_payable = ?,
			actual_freight_paid = ?, freight_payment_status = ?, actual_received = ?,
			receivable_payment_status = ?, status = ?, remark = ?
		WHERE id = ?
	`

	return r.s.Atomic(ctx, func(tx Store) error {
		s := tx.(*SQLStore)

		err := s.execOne(ctx, query,
			record.ArrivalDate,
			record.CustomerID,
			record.CustomerName,
			record.SellingPricePerTon,
			record.FreightPerTon,
			record.TotalWeight,
			record.TotalLoss,
			record.TotalReceivable,
			record.TotalFreightPayable,
			record.ActualFreightPaid,
			record.FreightPaymentStatus,
			record.ActualReceived,
			record.ReceivablePaymentStatus,
			record.Status,
			record.Remark,
			record.ID,
		)
		if err != nil {
			return err
		}

		if _, err := s.exec(ctx, `DELETE FROM arrival_shipments WHERE arrival_record_id = ?`, record.ID); err != nil {
			return err
		}

		return insertShipments(ctx, s, record)
	})
}

func (r *arrivalRepository) Delete(ctx context.Context, id string) error {
	return r.s.Atomic(ctx, func(tx Store) error {
		s := tx.(*SQLStore)

		if _, err := s.exec(ctx, `DELETE FROM arrival_shipments WHERE arrival_record_id = ?`, id); err != nil {
			return err
		}
		return s.execOne(ctx, `DELETE FROM arrival_records WHERE id = ?`, id)
	})
}
