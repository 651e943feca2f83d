package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/pkg/response"
)

type Handlers struct {
	Batch     *BatchHandler
	Shipment  *ShipmentHandler
	Arrival   *ArrivalHandler
	Payment   *PaymentHandler
	Reference *ReferenceHandler
	Summary   *SummaryHandler
	Health    *HealthHandler
}

// NewRouter mounts the API under /api and the health checks at the root.
// CORS sits outside the router so preflight requests never hit a 405.
func NewRouter(h Handlers, corsOrigin string, logger *zap.Logger) http.Handler {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", h.Health.Health).Methods("GET")
	router.HandleFunc("/health/ready", h.Health.Ready).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/batches", h.Batch.CreateBatch).Methods("POST")
	api.HandleFunc("/batches", h.Batch.ListBatches).Methods("GET")
	api.HandleFunc("/batches/{id}", h.Batch.GetBatch).Methods("GET")
	api.HandleFunc("/batches/{id}", h.Batch.DeleteBatch).Methods("DELETE")
	api.HandleFunc("/batches/{id}/payments", h.Batch.ApplyPayment).Methods("POST")

	api.HandleFunc("/shipments", h.Shipment.ListShipments).Methods("GET")
	api.HandleFunc("/drivers", h.Shipment.ListDrivers).Methods("GET")

	api.HandleFunc("/arrival-records", h.Arrival.CreateArrivalRecord).Methods("POST")
	api.HandleFunc("/arrival-records", h.Arrival.ListArrivalRecords).Methods("GET")
	api.HandleFunc("/arrival-records/{id}", h.Arrival.GetArrivalRecord).Methods("GET")
	api.HandleFunc("/arrival-records/{id}", h.Arrival.UpdateArrivalRecord).Methods("PUT")
	api.HandleFunc("/arrival-records/{id}", h.Arrival.DeleteArrivalRecord).Methods("DELETE")
	api.HandleFunc("/arrival-records/{id}/receivable", h.Arrival.RecordReceivablePayment).Methods("POST")
	api.HandleFunc("/arrival-records/{id}/freight-settlement", h.Arrival.SettleFreight).Methods("POST")

	api.HandleFunc("/payments/freight", h.Payment.RecordFreightPayment).Methods("POST")
	api.HandleFunc("/payments/freight", h.Payment.ListFreightPayments).Methods("GET")
	api.HandleFunc("/payments/freight/{id}", h.Payment.DeleteFreightPayment).Methods("DELETE")
	api.HandleFunc("/payments/customer", h.Payment.CreateCustomerPayment).Methods("POST")
	api.HandleFunc("/payments/customer", h.Payment.ListCustomerPayments).Methods("GET")
	api.HandleFunc("/payments/cargo", h.Payment.CreateCargoPayment).Methods("POST")
	api.HandleFunc("/payments/cargo", h.Payment.ListCargoPayments).Methods("GET")

	for path, kind := range map[string]domain.PartyKind{
		"/customers": domain.PartyCustomer,
		"/suppliers": domain.PartySupplier,
	} {
		api.HandleFunc(path, h.Reference.SaveParty(kind)).Methods("POST")
		api.HandleFunc(path, h.Reference.ListParties(kind)).Methods("GET")
		api.HandleFunc(path+"/{id}", h.Reference.GetParty(kind)).Methods("GET")
		api.HandleFunc(path+"/{id}", h.Reference.DeleteParty(kind)).Methods("DELETE")
	}
	api.HandleFunc("/drivers", h.Reference.SaveDriver).Methods("POST")
	api.HandleFunc("/drivers/{id}", h.Reference.GetDriver).Methods("GET")
	api.HandleFunc("/drivers/{id}", h.Reference.DeleteDriver).Methods("DELETE")

	api.HandleFunc("/summary", h.Summary.Summary).Methods("GET")
	api.HandleFunc("/summary/cached", h.Summary.Cached).Methods("GET")

	return response.CORSMiddleware(corsOrigin)(response.LoggingMiddleware(logger)(router))
}
