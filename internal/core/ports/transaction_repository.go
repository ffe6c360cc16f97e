package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/landworks/registry-system/internal/core/domain"
)

// ListTransactionsFilter carries all query parameters for listing transactions.
// Substring matches are case-insensitive; range bounds are inclusive.
type ListTransactionsFilter struct {
	Buyer      string           // optional: substring of buyer_name
	Seller     string           // optional: substring of seller_name
	PlotNumber string           // optional: substring of the joined plot's plot_number
	DateFrom   time.Time        // optional: transaction_date >= DateFrom
	DateTo     time.Time        // optional: transaction_date <= DateTo
	MinPrice   *decimal.Decimal // optional: sale_price >= MinPrice
	MaxPrice   *decimal.Decimal // optional: sale_price <= MaxPrice
	SortBy     string           // one of the whitelist; unknown values fall back to transactionDate
	SortDesc   bool
	Page       int // 1-based
	Limit      int // rows per page; any positive value is accepted
}

// TransactionWithPlot is a transaction joined with its land plot.
type TransactionWithPlot struct {
	Transaction domain.Transaction
	Plot        domain.LandPlot
}

// MonthlyStats is one month's slice of the statistics breakdown.
type MonthlyStats struct {
	Month      string // "YYYY-MM"
	Count      int64
	Revenue    decimal.Decimal
	Commission decimal.Decimal
}

// TransactionStats aggregates the filtered transaction set. All numeric
// fields are decimal zero, never null, when the set is empty.
type TransactionStats struct {
	Count           int64
	TotalRevenue    decimal.Decimal
	TotalCommission decimal.Decimal
	NetRevenue      decimal.Decimal
	AvgSalePrice    decimal.Decimal
	MinSalePrice    decimal.Decimal
	MaxSalePrice    decimal.Decimal
	Monthly         []MonthlyStats
}

// TransactionRepository defines persistence operations for sale transactions.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	FindByID(ctx context.Context, id string) (*TransactionWithPlot, error)
	// List returns a page of transactions joined with their plots and the
	// total count of matches.
	List(ctx context.Context, filter ListTransactionsFilter) ([]*TransactionWithPlot, int64, error)
	// UpdateFields patches only the given fields. Keys are the storage field
	// names of the update whitelist (buyer_contact, seller_contact, receipt_path).
	UpdateFields(ctx context.Context, id string, fields map[string]string) error
	// Delete removes a transaction. Used only to roll back an insert when the
	// plot-status update loses a concurrent race.
	Delete(ctx context.Context, id string) error
	// Statistics aggregates transactions whose transaction_date falls within
	// the inclusive [from, to] range; zero times disable the corresponding bound.
	Statistics(ctx context.Context, from, to time.Time) (*TransactionStats, error)
}
