package domain

import "time"

// PartyKind tells customers and suppliers apart; both share one shape.
type PartyKind string

const (
	PartyCustomer PartyKind = "customer"
	PartySupplier PartyKind = "supplier"
)

// Party is a customer or a supplier.
type Party struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Contact   string    `json:"contact" db:"contact"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Driver is a roster entry. Drivers derived from vehicle records share the
// same shape.
type Driver struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Phone        string     `json:"phone" db:"phone"`
	TeamName     string     `json:"teamName" db:"team_name"`
	PlateNumbers StringList `json:"plateNumbers" db:"plate_numbers"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

type SavePartyRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type SaveDriverRequest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name" validate:"required"`
	Phone        string   `json:"phone"`
	TeamName     string   `json:"teamName"`
	PlateNumbers []string `json:"plateNumbers" validate:"omitempty,dive,required"`
}
