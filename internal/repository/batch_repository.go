package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/coal-settlement/internal/domain"
)

type batchRepository struct {
	s *SQLStore
}

func (r *batchRepository) Create(ctx context.Context, batch *domain.DeliveryBatch) error {
	query := `
		INSERT INTO delivery_batches (id, customer_id, customer_name, supplier_id, supplier_name, departure_date,
			coal_price, total_weight, total_amount, paid_amount, remaining_amount, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return r.s.Atomic(ctx, func(tx Store) error {
		s := tx.(*SQLStore)

		_, err := s.exec(ctx, query,
			batch.ID,
			batch.CustomerID,
			batch.CustomerName,
			batch.SupplierID,
			batch.SupplierName,
			batch.DepartureDate,
			batch.CoalPrice,
			batch.TotalWeight,
			batch.TotalAmount,
			batch.PaidAmount,
			batch.RemainingAmount,
			batch.Status,
			batch.CreatedAt,
		)
		if err != nil {
			return err
		}

		for i, v := range batch.Vehicles {
			v.BatchID = batch.ID
			v.Seq = i
			_, err = s.exec(ctx, `
				INSERT INTO delivery_vehicles (id, batch_id, seq, plate_number, driver_name, weight, amount, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`,
				v.ID,
				v.BatchID,
				v.Seq,
				v.PlateNumber,
				v.DriverName,
				v.Weight,
				v.Amount,
				v.CreatedAt,
			)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *batchRepository) GetByID(ctx context.Context, id string) (*domain.DeliveryBatch, error) {
	query := `
		SELECT id, customer_id, customer_name, supplier_id, supplier_name, departure_date, coal_price,
			total_weight, total_amount, paid_amount, remaining_amount, status, created_at
		FROM delivery_batches
		WHERE id = ?
	`

	var batch domain.DeliveryBatch
	if err := r.s.get(ctx, &batch, query, id); err != nil {
		return nil, err
	}

	if err := r.populate(ctx, []*domain.DeliveryBatch{&batch}); err != nil {
		return nil, err
	}

	return &batch, nil
}

func (r *batchRepository) List(ctx context.Context) ([]*domain.DeliveryBatch, error) {
	query := `
		SELECT id, customer_id, customer_name, supplier_id, supplier_name, departure_date, coal_price,
			total_weight, total_amount, paid_amount, remaining_amount, status, created_at
		FROM delivery_batches
		ORDER BY created_at DESC, id
	`

	batches := []*domain.DeliveryBatch{}
	if err := r.s.selectAll(ctx, &batches, query); err != nil {
		return nil, err
	}

	if err := r.populate(ctx, batches); err != nil {
		return nil, err
	}

	return batches, nil
}

// populate attaches vehicles in entry order and payment records oldest first.
func (r *batchRepository) populate(ctx context.Context, batches []*domain.DeliveryBatch) error {
	if len(batches) == 0 {
		return nil
	}

	ids := make([]string, 0, len(batches))
	byID := make(map[string]*domain.DeliveryBatch, len(batches))
	for _, b := range batches {
		b.Vehicles = []*domain.DeliveryVehicle{}
		b.PaymentRecords = []*domain.BatchPaymentRecord{}
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query, args, err := sqlx.In(`
		SELECT id, batch_id, seq, plate_number, driver_name, weight, amount, created_at
		FROM delivery_vehicles
		WHERE batch_id IN (?)
		ORDER BY batch_id, seq
	`, ids)
	if err != nil {
		return err
	}

	var vehicles []*domain.DeliveryVehicle
	if err := r.s.selectAll(ctx, &vehicles, query, args...); err != nil {
		return err
	}
	for _, v := range vehicles {
		if b, ok := byID[v.BatchID]; ok {
			b.Vehicles = append(b.Vehicles, v)
		}
	}

	query, args, err = sqlx.In(`
		SELECT id, batch_id, amount, payment_date, remark, created_at
		FROM batch_payment_records
		WHERE batch_id IN (?)
		ORDER BY created_at, id
	`, ids)
	if err != nil {
		return err
	}

	var payments []*domain.BatchPaymentRecord
	if err := r.s.selectAll(ctx, &payments, query, args...); err != nil {
		return err
	}
	for _, p := range payments {
		if b, ok := byID[p.BatchID]; ok {
			b.PaymentRecords = append(b.PaymentRecords, p)
		}
	}

	return nil
}

func (r *batchRepository) UpdateBalance(ctx context.Context, batch *domain.DeliveryBatch) error {
	query := `
		UPDATE delivery_batches
		SET paid_amount = ?, remaining_amount = ?, status = ?
		WHERE id = ?
	`

	return r.s.execOne(ctx, query, batch.PaidAmount, batch.RemainingAmount, batch.Status, batch.ID)
}

func (r *batchRepository) AddPayment(ctx context.Context, payment *domain.BatchPaymentRecord) error {
	query := `
		INSERT INTO batch_payment_records (id, batch_id, amount, payment_date, remark, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.s.exec(ctx, query,
		payment.ID,
		payment.BatchID,
		payment.Amount,
		payment.PaymentDate,
		payment.Remark,
		payment.CreatedAt,
	)

	return err
}

func (r *batchRepository) Delete(ctx context.Context, id string) error {
	return r.s.Atomic(ctx, func(tx Store) error {
		s := tx.(*SQLStore)

		if _, err := s.exec(ctx, `DELETE FROM delivery_vehicles WHERE batch_id = ?`, id); err != nil {
			return err
		}
		if _, err := s.exec(ctx, `DELETE FROM batch_payment_records WHERE batch_id = ?`, id); err != nil {
			return err
		}
		return s.execOne(ctx, `DELETE FROM delivery_batches WHERE id = ?`, id)
	})
}
