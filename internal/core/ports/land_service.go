package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/landworks/registry-system/internal/core/domain"
)

// CreatePlotInput carries all data needed to register a new land plot.
type CreatePlotInput struct {
	PlotNumber       string
	Location         string
	Size             decimal.Decimal
	SizeUnit         string
	OwnerName        string
	Description      string
	RegistrationDate time.Time // zero = now
}

// UpdatePlotInput patches non-status plot fields. Nil pointers leave the
// field untouched.
type UpdatePlotInput struct {
	Location    *string
	Size        *decimal.Decimal
	SizeUnit    *string
	OwnerName   *string
	Description *string
}

// ListPlotsResult is returned by ListPlots.
type ListPlotsResult struct {
	Items      []*domain.LandPlot
	Pagination Pagination
}

// Pagination is the page metadata attached to every list response.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

// LandService defines use-case operations for land plots.
type LandService interface {
	CreatePlot(ctx context.Context, input CreatePlotInput) (*domain.LandPlot, error)
	GetPlot(ctx context.Context, id string) (*domain.LandPlot, error)
	ListPlots(ctx context.Context, filter ListPlotsFilter) (*ListPlotsResult, error)
	UpdatePlot(ctx context.Context, id string, input UpdatePlotInput) (*domain.LandPlot, error)
	// UpdateStatus performs an administrative transition (e.g. to DISPUTED or
	// back to AVAILABLE) validated against the state machine.
	UpdateStatus(ctx context.Context, id string, status string) (*domain.LandPlot, error)
	// MarkAsSold is the low-level sale transition invoked by the transaction
	// engine. It fails when the plot is absent or already sold; it does not
	// guard against DISPUTED, which the engine rejects one layer up.
	MarkAsSold(ctx context.Context, id string) (*domain.LandPlot, error)
}
