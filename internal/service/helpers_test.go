package service

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/internal/repository"
)

func newStore(t *testing.T) repository.Store {
	t.Helper()
	store, err := repository.OpenSQL(context.Background(), repository.DriverSQLite, ":memory:", 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newFileStore(t *testing.T) repository.Store {
	t.Helper()
	store, err := repository.OpenFile(filepath.Join(t.TempDir(), "data.json"), nil)
	require.NoError(t, err)
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func strPtr(s string) *string {
	return &s
}

// standardBatch is two trucks, 35 t and 40 t, at 800 per ton.
func standardBatch() *domain.CreateBatchRequest {
	return &domain.CreateBatchRequest{
		CustomerID:    "c1",
		CustomerName:  "华能电厂",
		SupplierID:    "s1",
		SupplierName:  "晋煤集团",
		DepartureDate: "2024-03-01",
		CoalPrice:     dec("800"),
		Vehicles: []domain.CreateVehicleRequest{
			{PlateNumber: "晋A12345", DriverName: "张三", Weight: dec("35")},
			{PlateNumber: "晋B67890", DriverName: "李四", Weight: dec("40")},
		},
	}
}

func createStandardBatch(t *testing.T, store repository.Store) *domain.DeliveryBatch {
	t.Helper()
	batch, err := NewBatchService(store, nil).CreateBatch(context.Background(), standardBatch())
	require.NoError(t, err)
	return batch
}
