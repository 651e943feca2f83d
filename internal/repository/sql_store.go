package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DriverSQLite is the database/sql name registered by glebarez/go-sqlite.
const DriverSQLite = "sqlite"

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// SQLStore implements Store on top of sqlx. Queries are written with ?
// placeholders and rebound for the active driver.
type SQLStore struct {
	db     *sqlx.DB
	ext    sqlx.ExtContext
	inTx   bool
	logger *zap.Logger
}

// NewSQLStore wraps an open connection pool. Migrate must have run first.
func NewSQLStore(db *sqlx.DB, logger *zap.Logger) *SQLStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLStore{db: db, ext: db, logger: logger}
}

// OpenSQL connects, applies the schema and returns a ready store.
func OpenSQL(ctx context.Context, driverName, dsn string, maxOpenConns int, logger *zap.Logger) (*SQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driverName, err)
	}

	if driverName == DriverSQLite {
		// one writer; also keeps a :memory: database alive across calls
		db.SetMaxOpenConns(1)
	} else if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return NewSQLStore(db, logger), nil
}

func (s *SQLStore) Batches() BatchRepository        { return &batchRepository{s: s} }
func (s *SQLStore) Arrivals() ArrivalRepository     { return &arrivalRepository{s: s} }
func (s *SQLStore) Payments() PaymentRepository     { return &paymentRepository{s: s} }
func (s *SQLStore) References() ReferenceRepository { return &referenceRepository{s: s} }

func (s *SQLStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&SQLStore{db: s.db, ext: tx, inTx: true, logger: s.logger}); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return s.ext.ExecContext(ctx, s.ext.Rebind(query), args...)
}

func (s *SQLStore) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := sqlx.GetContext(ctx, s.ext, dest, s.ext.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *SQLStore) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, s.ext, dest, s.ext.Rebind(query), args...)
}

// execOne runs a write that must hit exactly one row.
func (s *SQLStore) execOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
