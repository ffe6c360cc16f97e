package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PlotStatus represents the lifecycle state of a land plot. Status is the
// single source of truth for saleability.
type PlotStatus string

const (
	StatusAvailable PlotStatus = "AVAILABLE"
	StatusReserved  PlotStatus = "RESERVED"
	StatusDisputed  PlotStatus = "DISPUTED"
	StatusSold      PlotStatus = "SOLD"
)

// SizeUnit is the measurement unit of a plot's size.
type SizeUnit string

const (
	UnitAcres    SizeUnit = "ACRES"
	UnitHectares SizeUnit = "HECTARES"
	UnitSqMeters SizeUnit = "SQ_METERS"
)

// validTransitions defines the allowed administrative state machine moves.
// SOLD is terminal: the only way in is through transaction recording, and
// there is no way out.
var validTransitions = map[PlotStatus][]PlotStatus{
	StatusAvailable: {StatusSold, StatusDisputed, StatusReserved},
	StatusReserved:  {StatusSold, StatusDisputed, StatusAvailable},
	StatusDisputed:  {StatusAvailable},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s PlotStatus) CanTransitionTo(next PlotStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known plot statuses.
func ValidStatus(s PlotStatus) bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusDisputed, StatusSold:
		return true
	}
	return false
}

// ValidSizeUnit reports whether u is one of the known size units.
func ValidSizeUnit(u SizeUnit) bool {
	switch u {
	case UnitAcres, UnitHectares, UnitSqMeters:
		return true
	}
	return false
}

// NormalizePlotNumber canonicalizes a plot number for uniqueness checks:
// surrounding whitespace is stripped and letters are uppercased, so "gb001"
// and " GB001 " identify the same plot.
func NormalizePlotNumber(n string) string {
	return strings.ToUpper(strings.TrimSpace(n))
}

// LandPlot is a registered parcel of land available for sale.
type LandPlot struct {
	ID               string          `json:"id"`
	PlotNumber       string          `json:"plot_number"`
	Location         string          `json:"location"`
	Size             decimal.Decimal `json:"size"`
	SizeUnit         SizeUnit        `json:"size_unit"`
	Status           PlotStatus      `json:"status"`
	OwnerName        string          `json:"owner_name"`
	Description      string          `json:"description,omitempty"`
	RegistrationDate time.Time       `json:"registration_date"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
