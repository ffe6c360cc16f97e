package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/landworks/registry-system/internal/api/metrics"
	"github.com/landworks/registry-system/internal/core/domain"
	"github.com/landworks/registry-system/internal/core/ports"
)

// maxPageSize caps caller-supplied page sizes at the HTTP boundary.
const maxPageSize = 100

// LandHandler handles HTTP requests for land plot operations.
type LandHandler struct {
	service ports.LandService
}

func NewLandHandler(service ports.LandService) *LandHandler {
	return &LandHandler{service: service}
}

// Create handles POST /v1/plots.
//
// @Summary      Register a new land plot
// @Tags         plots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPlotRequest  true  "Plot details"
// @Success      201   {object}  plotResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/plots [post]
func (h *LandHandler) Create(c echo.Context) error {
	var req createPlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.CreatePlotInput{
		PlotNumber:  req.PlotNumber,
		Location:    req.Location,
		Size:        decimal.NewFromFloat(req.Size),
		SizeUnit:    req.SizeUnit,
		OwnerName:   req.OwnerName,
		Description: req.Description,
	}
	if req.RegistrationDate != nil {
		input.RegistrationDate = *req.RegistrationDate
	}

	plot, err := h.service.CreatePlot(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.PlotsRegisteredTotal.WithLabelValues(string(plot.SizeUnit)).Inc()
	return c.JSON(http.StatusCreated, toPlotResponse(plot))
}

// Get handles GET /v1/plots/:id.
//
// @Summary      Get a land plot by id
// @Tags         plots
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Plot id"
// @Success      200  {object}  plotResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/plots/{id} [get]
func (h *LandHandler) Get(c echo.Context) error {
	plot, err := h.service.GetPlot(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPlotResponse(plot))
}

// List handles GET /v1/plots.
//
// @Summary      List land plots
// @Tags         plots
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        size_unit  query     string  false  "Filter by size unit"
// @Param        search     query     string  false  "Substring of plot number or owner name"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        page_size  query     int     false  "Page size (max 100)"
// @Success      200        {object}  listPlotsResponse
// @Router       /v1/plots [get]
func (h *LandHandler) List(c echo.Context) error {
	filter := ports.ListPlotsFilter{
		Status:   c.QueryParam("status"),
		SizeUnit: c.QueryParam("size_unit"),
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "page", 1),
		Limit:    clampPageSize(queryInt(c, "page_size", 20)),
	}

	result, err := h.service.ListPlots(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	items := make([]plotResponse, len(result.Items))
	for i, p := range result.Items {
		items[i] = toPlotResponse(p)
	}
	return c.JSON(http.StatusOK, listPlotsResponse{
		Data:       items,
		Pagination: toPaginationResponse(result.Pagination),
	})
}

// Update handles PUT /v1/plots/:id. Non-status fields only.
//
// @Summary      Update a land plot
// @Tags         plots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Plot id"
// @Param        body  body      updatePlotRequest  true  "Fields to update"
// @Success      200   {object}  plotResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/plots/{id} [put]
func (h *LandHandler) Update(c echo.Context) error {
	var req updatePlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdatePlotInput{
		Location:    req.Location,
		SizeUnit:    req.SizeUnit,
		OwnerName:   req.OwnerName,
		Description: req.Description,
	}
	if req.Size != nil {
		size := decimal.NewFromFloat(*req.Size)
		input.Size = &size
	}

	plot, err := h.service.UpdatePlot(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPlotResponse(plot))
}

// UpdateStatus handles PATCH /v1/plots/:id/status, administrative moves such
// as flagging a dispute or releasing a reservation. The SOLD transition is
// rejected here; it belongs to transaction recording.
//
// @Summary      Update a plot's status
// @Tags         plots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Plot id"
// @Param        body  body      updatePlotStatusRequest  true  "Target status"
// @Success      200   {object}  plotResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/plots/{id}/status [patch]
func (h *LandHandler) UpdateStatus(c echo.Context) error {
	var req updatePlotStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	plot, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPlotResponse(plot))
}

func toPlotResponse(p *domain.LandPlot) plotResponse {
	return plotResponse{
		ID:               p.ID,
		PlotNumber:       p.PlotNumber,
		Location:         p.Location,
		Size:             p.Size.String(),
		SizeUnit:         string(p.SizeUnit),
		Status:           string(p.Status),
		OwnerName:        p.OwnerName,
		Description:      p.Description,
		RegistrationDate: p.RegistrationDate.UTC(),
		CreatedAt:        p.CreatedAt.UTC(),
		UpdatedAt:        p.UpdatedAt.UTC(),
	}
}

func toPaginationResponse(p ports.Pagination) paginationResponse {
	return paginationResponse{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalItems:  p.TotalItems,
		HasNextPage: p.HasNextPage,
		HasPrevPage: p.HasPrevPage,
	}
}

// queryInt parses an integer query parameter, falling back to def on absence
// or garbage.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func clampPageSize(n int) int {
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

// queryTime parses an RFC3339 or date-only query parameter; zero on absence.
func queryTime(c echo.Context, name string) time.Time {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	return time.Time{}
}
