package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSummary is the dashboard position across all three money flows.
type AccountSummary struct {
	TotalReceivables     decimal.Decimal `json:"totalReceivables"`
	TotalPayables        decimal.Decimal `json:"totalPayables"`
	TotalFreightPayables decimal.Decimal `json:"totalFreightPayables"`
	NetPosition          decimal.Decimal `json:"netPosition"`
	BatchCount           int             `json:"batchCount"`
	ArrivalRecordCount   int             `json:"arrivalRecordCount"`
	GeneratedAt          time.Time       `json:"generatedAt"`
}
