package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/coal-settlement/internal/domain"
	customError "github.com/segyhp/coal-settlement/pkg/errors"
)

func withID(r *http.Request, id string) *http.Request {
	return mux.SetURLVars(r, map[string]string{"id": id})
}

func TestArrivalHandler_CreateArrivalRecord(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*mockArrivalService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "created from id list",
			body: map[string]interface{}{
				"arrivalDate": "2024-03-05", "customerId": "c1", "sellingPricePerTon": "800", "freightPerTon": "50",
				"shipmentIds":    []string{"v1"},
				"arrivalWeights": map[string]string{"v1": "34"},
			},
			setupMock: func(m *mockArrivalService) {
				m.On("CreateArrivalRecord", mock.Anything, mock.MatchedBy(func(req *domain.CreateArrivalRecordRequest) bool {
					sel := req.Selections()
					return len(sel) == 1 && sel[0].ShipmentID == "v1" && sel[0].ArrivalWeight != nil && sel[0].ArrivalWeight.Equal(decimal.NewFromInt(34))
				})).Return(&domain.ArrivalRecord{ID: "a1"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "negative freight",
			body: map[string]interface{}{
				"arrivalDate": "2024-03-05", "customerId": "c1", "sellingPricePerTon": "800", "freightPerTon": "-1",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "freightPerTon must not be negative",
		},
		{
			name: "missing customer",
			body: map[string]interface{}{
				"arrivalDate": "2024-03-05", "sellingPricePerTon": "800",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "customerId is required",
		},
		{
			name: "unknown shipment",
			body: map[string]interface{}{
				"arrivalDate": "2024-03-05", "customerId": "c1", "sellingPricePerTon": "800",
				"relatedShipments": []map[string]string{{"shipmentId": "ghost"}},
			},
			setupMock: func(m *mockArrivalService) {
				m.On("CreateArrivalRecord", mock.Anything, mock.Anything).
					Return(nil, customError.WrapValidation("unknown shipment ghost")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "unknown shipment ghost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockArrivalService{}
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			w := httptest.NewRecorder()

			NewArrivalHandler(svc, nil).CreateArrivalRecord(w, newRequest(t, http.MethodPost, "/api/arrival-records", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestArrivalHandler_UpdateArrivalRecord_RejectsUnknownStatus(t *testing.T) {
	svc := &mockArrivalService{}
	w := httptest.NewRecorder()

	NewArrivalHandler(svc, nil).UpdateArrivalRecord(w,
		withID(newRequest(t, http.MethodPut, "/api/arrival-records/a1", map[string]string{"status": "archived"}), "a1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status must be one of [pending completed]", decodeError(t, w))
}

func TestArrivalHandler_RecordReceivablePayment(t *testing.T) {
	svc := &mockArrivalService{}
	svc.On("RecordReceivablePayment", mock.Anything, "a1", mock.MatchedBy(func(req *domain.ReceivablePaymentRequest) bool {
		return req.ActualReceived.Equal(decimal.NewFromInt(58000))
	})).Return(&domain.ArrivalRecord{ID: "a1", ReceivablePaymentStatus: domain.SettlementPaid}, nil).Once()
	w := httptest.NewRecorder()

	NewArrivalHandler(svc, nil).RecordReceivablePayment(w,
		withID(newRequest(t, http.MethodPost, "/api/arrival-records/a1/receivable", map[string]string{"actualReceived": "58000"}), "a1"))

	require.Equal(t, http.StatusOK, w.Code)
	var record domain.ArrivalRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, domain.SettlementPaid, record.ReceivablePaymentStatus)
	svc.AssertExpectations(t)
}

func TestArrivalHandler_SettleFreight(t *testing.T) {
	t.Run("balancing entry created", func(t *testing.T) {
		svc := &mockArrivalService{}
		svc.On("SettleFreight", mock.Anything, "a1").Return(&domain.FreightPayment{
			ID: "f1", Remark: "平账结算 - 免缴剩余运费 ¥3000.00", ActualAmount: decimal.Zero,
		}, nil).Once()
		w := httptest.NewRecorder()

		NewArrivalHandler(svc, nil).SettleFreight(w,
			withID(newRequest(t, http.MethodPost, "/api/arrival-records/a1/freight-settlement", nil), "a1"))

		require.Equal(t, http.StatusCreated, w.Code)
		var payment domain.FreightPayment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payment))
		assert.True(t, payment.IsBalancing())
		svc.AssertExpectations(t)
	})

	t.Run("already settled", func(t *testing.T) {
		svc := &mockArrivalService{}
		svc.On("SettleFreight", mock.Anything, "a1").
			Return(nil, customError.WrapValidation("freight for arrival record a1 is already settled")).Once()
		w := httptest.NewRecorder()

		NewArrivalHandler(svc, nil).SettleFreight(w,
			withID(newRequest(t, http.MethodPost, "/api/arrival-records/a1/freight-settlement", nil), "a1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertExpectations(t)
	})
}

func TestArrivalHandler_DeleteArrivalRecord(t *testing.T) {
	svc := &mockArrivalService{}
	svc.On("DeleteArrivalRecord", mock.Anything, "ghost").Return(customError.WrapNotFound("arrival record", "ghost")).Once()
	w := httptest.NewRecorder()

	NewArrivalHandler(svc, nil).DeleteArrivalRecord(w,
		withID(newRequest(t, http.MethodDelete, "/api/arrival-records/ghost", nil), "ghost"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}
