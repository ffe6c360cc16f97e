package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/landworks/registry-system/internal/core/domain"
	"github.com/landworks/registry-system/internal/core/ports"
)

// LandService implements plot registration, listing and the status lifecycle.
type LandService struct {
	repo   ports.LandRepository
	logger zerolog.Logger
}

func NewLandService(repo ports.LandRepository, logger zerolog.Logger) *LandService {
	return &LandService{repo: repo, logger: logger}
}

// CreatePlot registers a new plot. The plot number is normalized before the
// uniqueness check, so "gb001" and "GB001" collide.
func (s *LandService) CreatePlot(ctx context.Context, input ports.CreatePlotInput) (*domain.LandPlot, error) {
	plotNumber := domain.NormalizePlotNumber(input.PlotNumber)
	if plotNumber == "" {
		return nil, fmt.Errorf("%w: plot number is required", domain.ErrInvalidInput)
	}
	if !input.Size.IsPositive() {
		return nil, fmt.Errorf("%w: size must be positive", domain.ErrInvalidInput)
	}
	unit := domain.SizeUnit(input.SizeUnit)
	if !domain.ValidSizeUnit(unit) {
		return nil, fmt.Errorf("%w: unknown size unit %q", domain.ErrInvalidInput, input.SizeUnit)
	}

	if existing, err := s.repo.FindByPlotNumber(ctx, plotNumber); err == nil && existing != nil {
		return nil, domain.ErrDuplicatePlotNumber
	} else if err != nil && !errors.Is(err, domain.ErrPlotNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	registrationDate := input.RegistrationDate
	if registrationDate.IsZero() {
		registrationDate = now
	}

	plot := &domain.LandPlot{
		ID:               uuid.NewString(),
		PlotNumber:       plotNumber,
		Location:         input.Location,
		Size:             input.Size,
		SizeUnit:         unit,
		Status:           domain.StatusAvailable,
		OwnerName:        input.OwnerName,
		Description:      input.Description,
		RegistrationDate: registrationDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, plot); err != nil {
		s.logger.Error().Err(err).Str("plot_number", plotNumber).Msg("failed to create land plot")
		return nil, err
	}

	s.logger.Info().Str("plot_id", plot.ID).Str("plot_number", plotNumber).Msg("land plot registered")
	return plot, nil
}

func (s *LandService) GetPlot(ctx context.Context, id string) (*domain.LandPlot, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *LandService) ListPlots(ctx context.Context, filter ports.ListPlotsFilter) (*ports.ListPlotsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListPlotsResult{
		Items:      items,
		Pagination: paginate(filter.Page, filter.Limit, total),
	}, nil
}

// UpdatePlot patches non-status fields of a plot. The plot number itself is
// immutable once registered.
func (s *LandService) UpdatePlot(ctx context.Context, id string, input ports.UpdatePlotInput) (*domain.LandPlot, error) {
	plot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Location != nil {
		plot.Location = *input.Location
	}
	if input.Size != nil {
		if !input.Size.IsPositive() {
			return nil, fmt.Errorf("%w: size must be positive", domain.ErrInvalidInput)
		}
		plot.Size = *input.Size
	}
	if input.SizeUnit != nil {
		unit := domain.SizeUnit(*input.SizeUnit)
		if !domain.ValidSizeUnit(unit) {
			return nil, fmt.Errorf("%w: unknown size unit %q", domain.ErrInvalidInput, *input.SizeUnit)
		}
		plot.SizeUnit = unit
	}
	if input.OwnerName != nil {
		plot.OwnerName = *input.OwnerName
	}
	if input.Description != nil {
		plot.Description = *input.Description
	}
	plot.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, plot); err != nil {
		return nil, err
	}
	return plot, nil
}

// UpdateStatus performs an administrative transition validated against the
// state machine (any -> DISPUTED, DISPUTED/RESERVED -> AVAILABLE, ...). The
// sale transition to SOLD belongs to the transaction engine, not here.
func (s *LandService) UpdateStatus(ctx context.Context, id string, status string) (*domain.LandPlot, error) {
	next := domain.PlotStatus(status)
	if !domain.ValidStatus(next) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	plot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plot.Status == next {
		return plot, nil
	}
	if next == domain.StatusSold || !plot.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, plot.Status, next)
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}

	s.logger.Info().Str("plot_id", id).Str("from", string(plot.Status)).Str("to", string(next)).Msg("plot status updated")
	plot.Status = next
	plot.UpdatedAt = time.Now().UTC()
	return plot, nil
}

// MarkAsSold sets the plot's status to SOLD via a conditional update so that
// exactly one of two concurrent callers wins. It intentionally does not
// reject DISPUTED plots: the transaction engine enforces that guard before
// calling, and the low-level operation stays permissive for administrative use.
func (s *LandService) MarkAsSold(ctx context.Context, id string) (*domain.LandPlot, error) {
	if err := s.repo.MarkSold(ctx, id); err != nil {
		return nil, err
	}
	plot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("plot_id", id).Str("plot_number", plot.PlotNumber).Msg("plot marked as sold")
	return plot, nil
}

// paginate builds the standard page metadata from a 1-based page, a positive
// limit and the total match count.
func paginate(page, limit int, total int64) ports.Pagination {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return ports.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}
}
