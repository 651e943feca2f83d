package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/coal-settlement/internal/domain"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	store, err := OpenSQL(context.Background(), DriverSQLite, ":memory:", 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newFileStore(t *testing.T) Store {
	t.Helper()
	store, err := OpenFile(filepath.Join(t.TempDir(), "data.json"), nil)
	require.NoError(t, err)
	return store
}

func eachStore(t *testing.T, fn func(t *testing.T, store Store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteStore(t)) })
	t.Run("file", func(t *testing.T) { fn(t, newFileStore(t)) })
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var base = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func sampleBatch(id string, createdAt time.Time) *domain.DeliveryBatch {
	return &domain.DeliveryBatch{
		ID:              id,
		CustomerID:      "c1",
		CustomerName:    "华能电厂",
		SupplierID:      "s1",
		SupplierName:    "晋煤集团",
		DepartureDate:   "2024-03-01",
		CoalPrice:       dec("800"),
		TotalWeight:     dec("75"),
		TotalAmount:     dec("60000"),
		PaidAmount:      decimal.Zero,
		RemainingAmount: dec("60000"),
		Status:          domain.BatchStatusPending,
		CreatedAt:       createdAt,
		Vehicles: []*domain.DeliveryVehicle{
			{ID: id + "-v1", PlateNumber: "晋A12345", DriverName: "张三", Weight: dec("35"), Amount: dec("28000"), CreatedAt: createdAt},
			{ID: id + "-v2", PlateNumber: "晋B67890", DriverName: "李四", Weight: dec("40"), Amount: dec("32000"), CreatedAt: createdAt},
		},
	}
}

func TestBatchRepository_CreateAndGet(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		require.NoError(t, store.Batches().Create(ctx, sampleBatch("b1", base)))

		got, err := store.Batches().GetByID(ctx, "b1")
		require.NoError(t, err)

		assert.Equal(t, "华能电厂", got.CustomerName)
		assert.True(t, got.TotalAmount.Equal(dec("60000")))
		assert.True(t, got.CreatedAt.Equal(base))
		require.Len(t, got.Vehicles, 2)
		assert.Equal(t, "晋A12345", got.Vehicles[0].PlateNumber)
		assert.Equal(t, "晋B67890", got.Vehicles[1].PlateNumber)
		assert.Equal(t, "b1", got.Vehicles[1].BatchID)
		assert.True(t, got.Vehicles[1].Amount.Equal(dec("32000")))
		assert.Empty(t, got.PaymentRecords)

		_, err = store.Batches().GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBatchRepository_ListNewestFirst(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		require.NoError(t, store.Batches().Create(ctx, sampleBatch("old", base)))
		require.NoError(t, store.Batches().Create(ctx, sampleBatch("new", base.Add(time.Hour))))

		batches, err := store.Batches().List(ctx)
		require.NoError(t, err)
		require.Len(t, batches, 2)
		assert.Equal(t, "new", batches[0].ID)
		assert.Equal(t, "old", batches[1].ID)
		assert.Len(t, batches[1].Vehicles, 2)
	})
}

func TestBatchRepository_PaymentsAndBalance(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		batch := sampleBatch("b1", base)
		require.NoError(t, store.Batches().Create(ctx, batch))

		require.NoError(t, store.Batches().AddPayment(ctx, &domain.BatchPaymentRecord{
			ID: "p2", BatchID: "b1", Amount: dec("25000"), PaymentDate: "2024-03-03", CreatedAt: base.Add(2 * time.Hour),
		}))
		require.NoError(t, store.Batches().AddPayment(ctx, &domain.BatchPaymentRecord{
			ID: "p1", BatchID: "b1", Amount: dec("10000"), PaymentDate: "2024-03-02", Remark: "首付", CreatedAt: base.Add(time.Hour),
		}))

		batch.PaidAmount = dec("35000")
		batch.RemainingAmount = dec("25000")
		batch.Status = domain.BatchStatusPartialPaid
		require.NoError(t, store.Batches().UpdateBalance(ctx, batch))

		got, err := store.Batches().GetByID(ctx, "b1")
		require.NoError(t, err)
		assert.True(t, got.PaidAmount.Equal(dec("35000")))
		assert.True(t, got.RemainingAmount.Equal(dec("25000")))
		assert.Equal(t, domain.BatchStatusPartialPaid, got.Status)
		require.Len(t, got.PaymentRecords, 2)
		assert.Equal(t, "p1", got.PaymentRecords[0].ID)
		assert.Equal(t, "首付", got.PaymentRecords[0].Remark)

		missing := sampleBatch("nope", base)
		assert.ErrorIs(t, store.Batches().UpdateBalance(ctx, missing), ErrNotFound)
	})
}

func TestBatchRepository_PaymentRecordsOrderedByCreation(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		require.NoError(t, store.Batches().Create(ctx, sampleBatch("b1", base)))

		for _, p := range []*domain.BatchPaymentRecord{
			{ID: "p3", BatchID: "b1", Amount: dec("300"), PaymentDate: "2024-03-04", CreatedAt: base.Add(3 * time.Hour)},
			{ID: "p2b", BatchID: "b1", Amount: dec("200"), PaymentDate: "2024-03-03", CreatedAt: base.Add(2 * time.Hour)},
			{ID: "p1", BatchID: "b1", Amount: dec("100"), PaymentDate: "2024-03-02", CreatedAt: base.Add(time.Hour)},
			{ID: "p2a", BatchID: "b1", Amount: dec("250"), PaymentDate: "2024-03-03", CreatedAt: base.Add(2 * time.Hour)},
		} {
			require.NoError(t, store.Batches().AddPayment(ctx, p))
		}

		got, err := store.Batches().GetByID(ctx, "b1")
		require.NoError(t, err)
		ids := make([]string, 0, len(got.PaymentRecords))
		for _, p := range got.PaymentRecords {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"p1", "p2a", "p2b", "p3"}, ids)

		batches, err := store.Batches().List(ctx)
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.Equal(t, "p1", batches[0].PaymentRecords[0].ID)
	})
}

func TestBatchRepository_DeleteCascades(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		require.NoError(t, store.Batches().Create(ctx, sampleBatch("b1", base)))
		require.NoError(t, store.Batches().Create(ctx, sampleBatch("b2", base)))
		require.NoError(t, store.Batches().AddPayment(ctx, &domain.BatchPaymentRecord{
			ID: "p1", BatchID: "b1", Amount: dec("100"), PaymentDate: "2024-03-02", CreatedAt: base,
		}))

		require.NoError(t, store.Batches().Delete(ctx, "b1"))

		_, err := store.Batches().GetByID(ctx, "b1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.Batches().Delete(ctx, "b1"), ErrNotFound)

		batches, err := store.Batches().List(ctx)
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.Len(t, batches[0].Vehicles, 2)
	})
}

func TestStore_AtomicRollsBack(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		boom := errors.New("boom")

		err := store.Atomic(ctx, func(tx Store) error {
			require.NoError(t, tx.Batches().Create(ctx, sampleBatch("b1", base)))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		batches, err := store.Batches().List(ctx)
		require.NoError(t, err)
		assert.Empty(t, batches)
	})
}

func TestStore_AtomicCommits(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		err := store.Atomic(ctx, func(tx Store) error {
			if err := tx.Batches().Create(ctx, sampleBatch("b1", base)); err != nil {
				return err
			}
			return tx.Batches().AddPayment(ctx, &domain.BatchPaymentRecord{
				ID: "p1", BatchID: "b1", Amount: dec("100"), PaymentDate: "2024-03-02", CreatedAt: base,
			})
		})
		require.NoError(t, err)

		got, err := store.Batches().GetByID(ctx, "b1")
		require.NoError(t, err)
		assert.Len(t, got.PaymentRecords, 1)
	})
}

func sampleArrival(id string) *domain.ArrivalRecord {
	return &domain.ArrivalRecord{
		ID:                      id,
		ArrivalDate:             "2024-03-05",
		CustomerID:              "c1",
		CustomerName:            "华能电厂",
		SellingPricePerTon:      dec("800"),
		FreightPerTon:           dec("50"),
		FreightPaymentStatus:    domain.SettlementUnpaid,
		ReceivablePaymentStatus: domain.SettlementUnpaid,
		Status:                  domain.ArrivalStatusPending,
		CreatedAt:               base,
		RelatedShipments: []*domain.ArrivalShipment{
			{ID: id + "-s1", ShipmentID: "v1", PlateNumber: "晋A12345", DriverName: "张三", OriginalWeight: dec("35"), ArrivalWeight: dec("34")},
			{ID: id + "-s2", ShipmentID: "v2", PlateNumber: "晋B67890", DriverName: "李四", OriginalWeight: dec("40"), ArrivalWeight: dec("38.5")},
		},
	}
}

func TestArrivalRepository_Lifecycle(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		record := sampleArrival("ar1")
		record.Recompute()
		require.NoError(t, store.Arrivals().Create(ctx, record))

		got, err := store.Arrivals().GetByID(ctx, "ar1")
		require.NoError(t, err)
		assert.True(t, got.TotalReceivable.Equal(dec("58000")))
		assert.True(t, got.TotalLoss.Equal(dec("2.5")))
		require.Len(t, got.RelatedShipments, 2)
		assert.Equal(t, "v1", got.RelatedShipments[0].ShipmentID)
		assert.True(t, got.RelatedShipments[1].ArrivalWeight.Equal(dec("38.5")))

		got.RelatedShipments = got.RelatedShipments[:1]
		got.Remark = "only one"
		got.Recompute()
		require.NoError(t, store.Arrivals().Update(ctx, got))

		updated, err := store.Arrivals().GetByID(ctx, "ar1")
		require.NoError(t, err)
		assert.Equal(t, "only one", updated.Remark)
		assert.Len(t, updated.RelatedShipments, 1)
		assert.True(t, updated.TotalReceivable.Equal(dec("27200")))

		records, err := store.Arrivals().List(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)

		require.NoError(t, store.Arrivals().Delete(ctx, "ar1"))
		_, err = store.Arrivals().GetByID(ctx, "ar1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.Arrivals().Update(ctx, got), ErrNotFound)
	})
}

func TestPaymentRepository_Freight(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		ar := "ar1"

		require.NoError(t, store.Payments().CreateFreight(ctx, &domain.FreightPayment{
			ID: "f1", DriverID: "drv_1", DriverName: "张三", PlateNumbers: domain.StringList{"晋A12345"},
			CalculatedAmount: dec("1700"), ActualAmount: dec("1700"), PaymentDate: "2024-03-06",
			ArrivalRecordID: &ar, CreatedAt: base,
		}))
		require.NoError(t, store.Payments().CreateFreight(ctx, &domain.FreightPayment{
			ID: "f2", DriverID: "drv_2", DriverName: "李四", ActualAmount: dec("500"), PaymentDate: "2024-03-07",
			CreatedAt: base.Add(time.Hour),
		}))

		all, err := store.Payments().ListFreight(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "f2", all[0].ID)
		assert.Nil(t, all[0].ArrivalRecordID)
		assert.Equal(t, domain.StringList{"晋A12345"}, all[1].PlateNumbers)

		tagged, err := store.Payments().ListFreightByArrival(ctx, ar)
		require.NoError(t, err)
		require.Len(t, tagged, 1)
		require.NotNil(t, tagged[0].ArrivalRecordID)
		assert.Equal(t, ar, *tagged[0].ArrivalRecordID)

		got, err := store.Payments().GetFreight(ctx, "f1")
		require.NoError(t, err)
		assert.True(t, got.ActualAmount.Equal(dec("1700")))

		require.NoError(t, store.Payments().DeleteFreight(ctx, "f1"))
		assert.ErrorIs(t, store.Payments().DeleteFreight(ctx, "f1"), ErrNotFound)
		_, err = store.Payments().GetFreight(ctx, "f1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPaymentRepository_CustomerAndCargo(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		empty, err := store.Payments().ListCustomer(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		require.NoError(t, store.Payments().CreateCustomer(ctx, &domain.CustomerPayment{
			ID: "cp1", CustomerID: "c1", CustomerName: "华能电厂", Amount: dec("30000"), PaymentDate: "2024-03-08", CreatedAt: base,
		}))
		require.NoError(t, store.Payments().CreateCargo(ctx, &domain.CargoPayment{
			ID: "cg1", ShipmentID: "v1", CustomerID: "c1", CustomerName: "华能电厂",
			CalculatedAmount: dec("28000"), ActualAmount: dec("27500"), PaymentDate: "2024-03-08", CreatedAt: base,
		}))

		customers, err := store.Payments().ListCustomer(ctx)
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.True(t, customers[0].Amount.Equal(dec("30000")))

		cargo, err := store.Payments().ListCargo(ctx)
		require.NoError(t, err)
		require.Len(t, cargo, 1)
		assert.True(t, cargo[0].ActualAmount.Equal(dec("27500")))
	})
}

func TestReferenceRepository(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		refs := store.References()

		require.NoError(t, refs.SaveParty(ctx, domain.PartyCustomer, &domain.Party{ID: "c1", Name: "华能电厂", CreatedAt: base}))
		require.NoError(t, refs.SaveParty(ctx, domain.PartyCustomer, &domain.Party{ID: "c1", Name: "华能二厂", Phone: "123", CreatedAt: base.Add(time.Hour)}))
		require.NoError(t, refs.SaveParty(ctx, domain.PartySupplier, &domain.Party{ID: "s1", Name: "晋煤集团", CreatedAt: base}))

		customer, err := refs.GetParty(ctx, domain.PartyCustomer, "c1")
		require.NoError(t, err)
		assert.Equal(t, "华能二厂", customer.Name)
		assert.Equal(t, "123", customer.Phone)
		assert.True(t, customer.CreatedAt.Equal(base))

		_, err = refs.GetParty(ctx, domain.PartySupplier, "c1")
		assert.ErrorIs(t, err, ErrNotFound)

		customers, err := refs.ListParties(ctx, domain.PartyCustomer)
		require.NoError(t, err)
		assert.Len(t, customers, 1)

		require.NoError(t, refs.SaveDriver(ctx, &domain.Driver{
			ID: "d1", Name: "张三", PlateNumbers: domain.StringList{"晋A12345", "晋A99999"}, CreatedAt: base,
		}))
		driver, err := refs.GetDriver(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, domain.StringList{"晋A12345", "晋A99999"}, driver.PlateNumbers)

		drivers, err := refs.ListDrivers(ctx)
		require.NoError(t, err)
		assert.Len(t, drivers, 1)

		require.NoError(t, refs.DeleteDriver(ctx, "d1"))
		assert.ErrorIs(t, refs.DeleteDriver(ctx, "d1"), ErrNotFound)
		require.NoError(t, refs.DeleteParty(ctx, domain.PartySupplier, "s1"))
		assert.ErrorIs(t, refs.DeleteParty(ctx, domain.PartySupplier, "s1"), ErrNotFound)
	})
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	store, err := OpenFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.Batches().Create(ctx, sampleBatch("b1", base)))

	reopened, err := OpenFile(path, nil)
	require.NoError(t, err)

	got, err := reopened.Batches().GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, got.RemainingAmount.Equal(dec("60000")))
	require.Len(t, got.Vehicles, 2)
	assert.Equal(t, 1, got.Vehicles[1].Seq)
}

func TestFileStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	require.NoError(t, store.Batches().Create(ctx, sampleBatch("b1", base)))

	got, err := store.Batches().GetByID(ctx, "b1")
	require.NoError(t, err)
	got.PaidAmount = dec("999")

	again, err := store.Batches().GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, again.PaidAmount.IsZero())
}
