package repository

import (
	"context"

	"github.com/segyhp/coal-settlement/internal/domain"
)

const freightColumns = `id, driver_id, driver_name, plate_numbers, calculated_amount, actual_amount,
	payment_date, remark, arrival_record_id, created_at`

type paymentRepository struct {
	s *SQLStore
}

func (r *paymentRepository) CreateFreight(ctx context.Context, payment *domain.FreightPayment) error {
	query := `
		INSERT INTO freight_payments (` + freightColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.s.exec(ctx, query,
		payment.ID,
		payment.DriverID,
		payment.DriverName,
		payment.PlateNumbers,
		payment.CalculatedAmount,
		payment.ActualAmount,
		payment.PaymentDate,
		payment.Remark,
		payment.ArrivalRecordID,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) GetFreight(ctx context.Context, id string) (*domain.FreightPayment, error) {
	var payment domain.FreightPayment
	if err := r.s.get(ctx, &payment, `SELECT `+freightColumns+` FROM freight_payments WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListFreight(ctx context.Context) ([]*domain.FreightPayment, error) {
	payments := []*domain.FreightPayment{}
	err := r.s.selectAll(ctx, &payments, `SELECT `+freightColumns+` FROM freight_payments ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) ListFreightByArrival(ctx context.Context, arrivalRecordID string) ([]*domain.FreightPayment, error) {
	query := `
		SELECT ` + freightColumns + `
		FROM freight_payments
		WHERE arrival_record_id = ?
		ORDER BY created_at DESC, id
	`

	payments := []*domain.FreightPayment{}
	if err := r.s.selectAll(ctx, &payments, query, arrivalRecordID); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) DeleteFreight(ctx context.Context, id string) error {
	return r.s.execOne(ctx, `DELETE FROM freight_payments WHERE id = ?`, id)
}

func (r *paymentRepository) CreateCustomer(ctx context.Context, payment *domain.CustomerPayment) error {
	query := `
		INSERT INTO customer_payments (id, customer_id, customer_name, amount, payment_date, remark, arrival_record_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.s.exec(ctx, query,
		payment.ID,
		payment.CustomerID,
		payment.CustomerName,
		payment.Amount,
		payment.PaymentDate,
		payment.Remark,
		payment.ArrivalRecordID,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) ListCustomer(ctx context.Context) ([]*domain.CustomerPayment, error) {
	query := `
		SELECT id, customer_id, customer_name, amount, payment_date, remark, arrival_record_id, created_at
		FROM customer_payments
		ORDER BY created_at DESC, id
	`

	payments := []*domain.CustomerPayment{}
	if err := r.s.selectAll(ctx, &payments, query); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) CreateCargo(ctx context.Context, payment *domain.CargoPayment) error {
	query := `
		INSERT INTO cargo_payments (id, shipment_id, customer_id, customer_name, calculated_amount, actual_amount,
			payment_date, remark, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.s.exec(ctx, query,
		payment.ID,
		payment.ShipmentID,
		payment.CustomerID,
		payment.CustomerName,
		payment.CalculatedAmount,
		payment.ActualAmount,
		payment.PaymentDate,
		payment.Remark,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) ListCargo(ctx context.Context) ([]*domain.CargoPayment, error) {
	query := `
		SELECT id, shipment_id, customer_id, customer_name, calculated_amount, actual_amount, payment_date, remark, created_at
		FROM cargo_payments
		ORDER BY created_at DESC, id
	`

	payments := []*domain.CargoPayment{}
	if err := r.s.selectAll(ctx, &payments, query); err != nil {
		return nil, err
	}
	return payments, nil
}
