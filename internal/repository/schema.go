package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		contact    TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		contact    TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		phone         TEXT NOT NULL DEFAULT '',
		team_name     TEXT NOT NULL DEFAULT '',
		plate_numbers TEXT NOT NULL DEFAULT '[]',
		created_at    {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS delivery_batches (
		id               TEXT PRIMARY KEY,
		customer_id      TEXT NOT NULL,
		customer_name    TEXT NOT NULL,
		supplier_id      TEXT NOT NULL,
		supplier_name    TEXT NOT NULL,
		departure_date   TEXT NOT NULL,
		coal_price       {{money}} NOT NULL,
		total_weight     {{money}} NOT NULL,
		total_amount     {{money}} NOT NULL,
		paid_amount      {{money}} NOT NULL,
		remaining_amount {{money}} NOT NULL,
		status           TEXT NOT NULL,
		created_at       {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS delivery_vehicles (
		id           TEXT PRIMARY KEY,
		batch_id     TEXT NOT NULL REFERENCES delivery_batches(id) ON DELETE CASCADE,
		seq          INTEGER NOT NULL,
		plate_number TEXT NOT NULL,
		driver_name  TEXT NOT NULL,
		weight       {{money}} NOT NULL,
		amount       {{money}} NOT NULL,
		created_at   {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_delivery_vehicles_batch ON delivery_vehicles(batch_id)`,
	`CREATE TABLE IF NOT EXISTS batch_payment_records (
		id           TEXT PRIMARY KEY,
		batch_id     TEXT NOT NULL REFERENCES delivery_batches(id) ON DELETE CASCADE,
		amount       {{money}} NOT NULL,
		payment_date TEXT NOT NULL,
		remark       TEXT NOT NULL DEFAULT '',
		created_at   {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_batch_payment_records_batch ON batch_payment_records(batch_id)`,
	`CREATE TABLE IF NOT EXISTS arrival_records (
		id                        TEXT PRIMARY KEY,
		arrival_date              TEXT NOT NULL,
		customer_id               TEXT NOT NULL,
		customer_name             TEXT NOT NULL,
		selling_price_per_ton     {{money}} NOT NULL,
		freight_per_ton           {{money}} NOT NULL,
		total_weight              {{money}} NOT NULL,
		total_loss                {{money}} NOT NULL,
		total_receivable          {{money}} NOT NULL,
		total_freight_payable     {{money}} NOT NULL,
		actual_freight_paid       {{money}} NOT NULL,
		freight_payment_status    TEXT NOT NULL,
		actual_received           {{money}} NOT NULL,
		receivable_payment_status TEXT NOT NULL,
		status                    TEXT NOT NULL,
		remark                    TEXT NOT NULL DEFAULT '',
		created_at                {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS arrival_shipments (
		id                TEXT PRIMARY KEY,
		arrival_record_id TEXT NOT NULL REFERENCES arrival_records(id) ON DELETE CASCADE,
		shipment_id       TEXT NOT NULL,
		seq               INTEGER NOT NULL,
		plate_number      TEXT NOT NULL,
		driver_name       TEXT NOT NULL,
		original_weight   {{money}} NOT NULL,
		arrival_weight    {{money}} NOT NULL,
		loss              {{money}} NOT NULL,
		receivable_amount {{money}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_arrival_shipments_record ON arrival_shipments(arrival_record_id)`,
	`CREATE TABLE IF NOT EXISTS freight_payments (
		id                TEXT PRIMARY KEY,
		driver_id         TEXT NOT NULL,
		driver_name       TEXT NOT NULL,
		plate_numbers     TEXT NOT NULL DEFAULT '[]',
		calculated_amount {{money}} NOT NULL,
		actual_amount     {{money}} NOT NULL,
		payment_date      TEXT NOT NULL,
		remark            TEXT NOT NULL DEFAULT '',
		arrival_record_id TEXT,
		created_at        {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_freight_payments_arrival ON freight_payments(arrival_record_id)`,
	`CREATE TABLE IF NOT EXISTS customer_payments (
		id                TEXT PRIMARY KEY,
		customer_id       TEXT NOT NULL,
		customer_name     TEXT NOT NULL,
		amount            {{money}} NOT NULL,
		payment_date      TEXT NOT NULL,
		remark            TEXT NOT NULL DEFAULT '',
		arrival_record_id TEXT,
		created_at        {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cargo_payments (
		id                TEXT PRIMARY KEY,
		shipment_id       TEXT NOT NULL,
		customer_id       TEXT NOT NULL,
		customer_name     TEXT NOT NULL,
		calculated_amount {{money}} NOT NULL,
		actual_amount     {{money}} NOT NULL,
		payment_date      TEXT NOT NULL,
		remark            TEXT NOT NULL DEFAULT '',
		created_at        {{ts}} NOT NULL
	)`,
}

// Migrate creates any missing tables. It is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	// sqlite keeps decimals as text so nothing round-trips through float64
	types := strings.NewReplacer("{{money}}", "NUMERIC(20,4)", "{{ts}}", "TIMESTAMPTZ")
	if db.DriverName() == DriverSQLite {
		types = strings.NewReplacer("{{money}}", "TEXT", "{{ts}}", "TIMESTAMP")
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, types.Replace(stmt)); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
