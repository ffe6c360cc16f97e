package ports

import (
	"context"

	"github.com/landworks/registry-system/internal/core/domain"
)

// ListPlotsFilter carries all query parameters for listing land plots.
type ListPlotsFilter struct {
	Status   string // optional: filter by plot status
	SizeUnit string // optional: filter by size unit
	Search   string // optional: partial match on plot_number or owner_name
	Page     int    // 1-based
	Limit    int    // max rows per page (capped at 100 by the handler)
}

// LandRepository defines persistence operations for land plots.
type LandRepository interface {
	Create(ctx context.Context, p *domain.LandPlot) error
	FindByID(ctx context.Context, id string) (*domain.LandPlot, error)
	FindByPlotNumber(ctx context.Context, plotNumber string) (*domain.LandPlot, error)
	// List returns a page of plots matching filter and the total count.
	List(ctx context.Context, filter ListPlotsFilter) ([]*domain.LandPlot, int64, error)
	Update(ctx context.Context, p *domain.LandPlot) error
	UpdateStatus(ctx context.Context, id string, status domain.PlotStatus) error
	// MarkSold performs the conditional update "status=SOLD where id=? and
	// status!=SOLD". It returns domain.ErrPlotAlreadySold when the guard
	// matches no document and domain.ErrPlotNotFound when the plot is absent,
	// so that exactly one of two concurrent callers can win.
	MarkSold(ctx context.Context, id string) error
}
