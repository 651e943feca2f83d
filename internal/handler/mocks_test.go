package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/coal-settlement/internal/domain"
)

type mockBatchService struct {
	mock.Mock
}

func (m *mockBatchService) CreateBatch(ctx context.Context, req *domain.CreateBatchRequest) (*domain.DeliveryBatch, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryBatch), args.Error(1)
}

func (m *mockBatchService) ApplyPayment(ctx context.Context, batchID string, req *domain.BatchPaymentRequest) (*domain.BatchPaymentRecord, error) {
	args := m.Called(ctx, batchID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchPaymentRecord), args.Error(1)
}

func (m *mockBatchService) DeleteBatch(ctx context.Context, batchID string) error {
	args := m.Called(ctx, batchID)
	return args.Error(0)
}

func (m *mockBatchService) ListBatches(ctx context.Context) ([]*domain.DeliveryBatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeliveryBatch), args.Error(1)
}

func (m *mockBatchService) GetBatch(ctx context.Context, batchID string) (*domain.DeliveryBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryBatch), args.Error(1)
}

type mockArrivalService struct {
	mock.Mock
}

func (m *mockArrivalService) CreateArrivalRecord(ctx context.Context, req *domain.CreateArrivalRecordRequest) (*domain.ArrivalRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArrivalRecord), args.Error(1)
}

func (m *mockArrivalService) GetArrivalRecord(ctx context.Context, id string) (*domain.ArrivalRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArrivalRecord), args.Error(1)
}

func (m *mockArrivalService) ListArrivalRecords(ctx context.Context) ([]*domain.ArrivalRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ArrivalRecord), args.Error(1)
}

func (m *mockArrivalService) UpdateArrivalRecord(ctx context.Context, id string, req *domain.UpdateArrivalRecordRequest) (*domain.ArrivalRecord, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArrivalRecord), args.Error(1)
}

func (m *mockArrivalService) RecordReceivablePayment(ctx context.Context, id string, req *domain.ReceivablePaymentRequest) (*domain.ArrivalRecord, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArrivalRecord), args.Error(1)
}

func (m *mockArrivalService) SettleFreight(ctx context.Context, id string) (*domain.FreightPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FreightPayment), args.Error(1)
}

func (m *mockArrivalService) DeleteArrivalRecord(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error {
	return p.err
}
