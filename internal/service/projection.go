package service

import (
	"github.com/shopspring/decimal"

	"github.com/segyhp/coal-settlement/internal/domain"
	"github.com/segyhp/coal-settlement/pkg/utils"
)

// ProjectShipments flattens batches into one shipment per vehicle. Batches
// come newest first and vehicles in entry order; the output keeps that order.
func ProjectShipments(batches []*domain.DeliveryBatch, roster []*domain.Driver) []*domain.Shipment {
	rosterIDs := make(map[string]string, len(roster))
	for _, d := range roster {
		if _, seen := rosterIDs[d.Name]; !seen {
			rosterIDs[d.Name] = d.ID
		}
	}

	shipments := []*domain.Shipment{}
	for _, b := range batches {
		for _, v := range b.Vehicles {
			coalAmount := v.Amount
			if coalAmount.IsZero() {
				coalAmount = utils.LineAmount(v.Weight, b.CoalPrice)
			}

			driverName := utils.NormalizeDriverName(v.DriverName)
			driverID, ok := rosterIDs[driverName]
			if !ok {
				driverID = utils.DriverIDFromName(driverName)
			}

			shipments = append(shipments, &domain.Shipment{
				ID:            v.ID,
				BatchID:       b.ID,
				VehicleID:     v.ID,
				PlateNumber:   v.PlateNumber,
				DriverName:    driverName,
				DriverID:      driverID,
				CustomerID:    b.CustomerID,
				CustomerName:  b.CustomerName,
				SupplierID:    b.SupplierID,
				SupplierName:  b.SupplierName,
				CoalPrice:     b.CoalPrice,
				FreightPrice:  decimal.Zero,
				Weight:        v.Weight,
				CoalAmount:    coalAmount,
				FreightAmount: decimal.Zero,
				DepartureDate: b.DepartureDate,
				Status:        domain.ShipmentStatusShipping,
				CreatedAt:     v.CreatedAt,
			})
		}
	}

	return shipments
}

// AggregateDrivers derives a driver list from vehicle records, one entry per
// normalized name. Used only when the roster is empty.
func AggregateDrivers(batches []*domain.DeliveryBatch) []*domain.Driver {
	drivers := []*domain.Driver{}
	byName := make(map[string]*domain.Driver)

	for _, b := range batches {
		for _, v := range b.Vehicles {
			name := utils.NormalizeDriverName(v.DriverName)

			d, ok := byName[name]
			if !ok {
				d = &domain.Driver{
					ID:           utils.DriverIDFromName(name),
					Name:         name,
					PlateNumbers: domain.StringList{},
					CreatedAt:    v.CreatedAt,
				}
				byName[name] = d
				drivers = append(drivers, d)
			}

			if v.PlateNumber != "" && !d.PlateNumbers.Contains(v.PlateNumber) {
				d.PlateNumbers = append(d.PlateNumbers, v.PlateNumber)
			}
			if v.CreatedAt.Before(d.CreatedAt) {
				d.CreatedAt = v.CreatedAt
			}
		}
	}

	return drivers
}
