package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createPlotRequest struct {
	PlotNumber       string     `json:"plot_number"       validate:"required,max=50"`
	Location         string     `json:"location"          validate:"required,max=255"`
	Size             float64    `json:"size"              validate:"required,gt=0"`
	SizeUnit         string     `json:"size_unit"         validate:"required,oneof=ACRES HECTARES SQ_METERS"`
	OwnerName        string     `json:"owner_name"        validate:"required,max=255"`
	Description      string     `json:"description"       validate:"max=1000"`
	RegistrationDate *time.Time `json:"registration_date"`
}

type updatePlotRequest struct {
	Location    *string  `json:"location"    validate:"omitempty,max=255"`
	Size        *float64 `json:"size"        validate:"omitempty,gt=0"`
	SizeUnit    *string  `json:"size_unit"   validate:"omitempty,oneof=ACRES HECTARES SQ_METERS"`
	OwnerName   *string  `json:"owner_name"  validate:"omitempty,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
}

type updatePlotStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE RESERVED DISPUTED SOLD"`
}

// --- Response types ---
// These are intentionally separate from domain types so the JSON contract is
// not coupled to internal changes.

type plotResponse struct {
	ID               string    `json:"id"`
	PlotNumber       string    `json:"plot_number"`
	Location         string    `json:"location"`
	Size             string    `json:"size"`
	SizeUnit         string    `json:"size_unit"`
	Status           string    `json:"status"`
	OwnerName        string    `json:"owner_name"`
	Description      string    `json:"description,omitempty"`
	RegistrationDate time.Time `json:"registration_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type paginationResponse struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

type listPlotsResponse struct {
	Data       []plotResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
