package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/landworks/registry-system/internal/api/metrics"
	"github.com/landworks/registry-system/internal/core/domain"
	"github.com/landworks/registry-system/internal/core/ports"
)

// TransactionHandler handles HTTP requests for the transaction engine.
type TransactionHandler struct {
	service ports.TransactionService
	stats   ports.StatsService
}

func NewTransactionHandler(service ports.TransactionService, stats ports.StatsService) *TransactionHandler {
	return &TransactionHandler{service: service, stats: stats}
}

// Record handles POST /v1/transactions.
//
// @Summary      Record a sale transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      recordTransactionRequest  true  "Sale details"
// @Success      201   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/transactions [post]
func (h *TransactionHandler) Record(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req recordTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.RecordTransactionInput{
		LandPlotID:    req.LandPlotID,
		BuyerName:     req.BuyerName,
		BuyerContact:  req.BuyerContact,
		SellerName:    req.SellerName,
		SellerContact: req.SellerContact,
		SalePrice:     decimal.NewFromFloat(req.SalePrice),
	}
	if req.CommissionRate != nil {
		rate := decimal.NewFromFloat(*req.CommissionRate)
		input.CommissionRate = &rate
	}
	if req.TransactionDate != nil {
		input.TransactionDate = *req.TransactionDate
	}

	start := time.Now()
	detail, err := h.service.Record(c.Request().Context(), input, userID)
	if err != nil {
		metrics.TransactionErrorsTotal.WithLabelValues(recordFailureReason(err)).Inc()
		return err
	}

	metrics.TransactionsRecordedTotal.Inc()
	metrics.RecordDuration.Observe(time.Since(start).Seconds())
	return c.JSON(http.StatusCreated, toTransactionResponse(detail.Transaction, detail.Plot, detail.CreatedBy))
}

// List handles GET /v1/transactions with filtering, sorting and pagination.
//
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        buyer        query     string  false  "Buyer name substring"
// @Param        seller       query     string  false  "Seller name substring"
// @Param        plot_number  query     string  false  "Plot number substring"
// @Param        date_from    query     string  false  "Inclusive lower transaction date bound (RFC3339 or YYYY-MM-DD)"
// @Param        date_to      query     string  false  "Inclusive upper transaction date bound"
// @Param        min_price    query     number  false  "Inclusive lower sale price bound"
// @Param        max_price    query     number  false  "Inclusive upper sale price bound"
// @Param        sort_by      query     string  false  "transactionDate|salePrice|commissionAmount|buyerName|sellerName|createdAt"
// @Param        sort_dir     query     string  false  "asc|desc"
// @Param        page         query     int     false  "Page (1-based)"
// @Param        page_size    query     int     false  "Page size (max 100)"
// @Success      200          {object}  listTransactionsResponse
// @Router       /v1/transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	filter := ports.ListTransactionsFilter{
		Buyer:      c.QueryParam("buyer"),
		Seller:     c.QueryParam("seller"),
		PlotNumber: c.QueryParam("plot_number"),
		DateFrom:   queryTime(c, "date_from"),
		DateTo:     queryTime(c, "date_to"),
		SortBy:     c.QueryParam("sort_by"),
		SortDesc:   c.QueryParam("sort_dir") == "desc",
		Page:       queryInt(c, "page", 1),
		Limit:      clampPageSize(queryInt(c, "page_size", 20)),
	}
	if min := queryDecimal(c, "min_price"); min != nil {
		filter.MinPrice = min
	}
	if max := queryDecimal(c, "max_price"); max != nil {
		filter.MaxPrice = max
	}

	result, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	items := make([]transactionResponse, len(result.Items))
	for i, t := range result.Items {
		items[i] = toTransactionResponse(t.Transaction, t.Plot, nil)
	}
	return c.JSON(http.StatusOK, listTransactionsResponse{
		Data:       items,
		Pagination: toPaginationResponse(result.Pagination),
	})
}

// Get handles GET /v1/transactions/:id.
//
// @Summary      Get a transaction by id
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction id"
// @Success      200  {object}  transactionResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	detail, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionResponse(detail.Transaction, detail.Plot, detail.CreatedBy))
}

// Update handles PATCH /v1/transactions/:id. Contact info and receipt path only.
//
// @Summary      Update a transaction's non-financial fields
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Transaction id"
// @Param        body  body      updateTransactionRequest  true  "Whitelisted fields"
// @Success      200   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/transactions/{id} [patch]
func (h *TransactionHandler) Update(c echo.Context) error {
	var req updateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateTransactionInput{
		BuyerContact:  req.BuyerContact,
		SellerContact: req.SellerContact,
		ReceiptPath:   req.ReceiptPath,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionResponse(updated.Transaction, updated.Plot, nil))
}

// CalculateCommission handles POST /v1/transactions/commission. It is a pure
// quote, nothing is persisted.
//
// @Summary      Calculate a commission breakdown
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      calculateCommissionRequest  true  "Price and optional rate"
// @Success      200   {object}  commissionResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/transactions/commission [post]
func (h *TransactionHandler) CalculateCommission(c echo.Context) error {
	var req calculateCommissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var rate *decimal.Decimal
	if req.CommissionRate != nil {
		r := decimal.NewFromFloat(*req.CommissionRate)
		rate = &r
	}

	breakdown, err := h.service.CalculateCommission(decimal.NewFromFloat(req.SalePrice), rate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommissionResponse(breakdown))
}

// Statistics handles GET /v1/transactions/statistics.
//
// @Summary      Transaction statistics
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        date_from  query     string  false  "Inclusive lower transaction date bound"
// @Param        date_to    query     string  false  "Inclusive upper transaction date bound"
// @Success      200        {object}  statisticsResponse
// @Router       /v1/transactions/statistics [get]
func (h *TransactionHandler) Statistics(c echo.Context) error {
	stats, err := h.stats.TransactionStatistics(c.Request().Context(), queryTime(c, "date_from"), queryTime(c, "date_to"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatisticsResponse(stats))
}

// recordFailureReason buckets recording errors for the error counter.
func recordFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrPlotAlreadySold):
		return "already_sold"
	case errors.Is(err, domain.ErrPlotDisputed):
		return "disputed"
	case errors.Is(err, domain.ErrPlotNotFound), errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}

// queryDecimal parses a decimal query parameter; nil on absence or garbage.
func queryDecimal(c echo.Context, name string) *decimal.Decimal {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
