package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/landworks/registry-system/internal/core/domain"
)

// RecordTransactionInput carries the raw sale data submitted by a caller.
// CommissionRate is optional: nil means "use the configured default".
type RecordTransactionInput struct {
	LandPlotID      string
	BuyerName       string
	BuyerContact    string
	SellerName      string
	SellerContact   string
	SalePrice       decimal.Decimal
	CommissionRate  *decimal.Decimal
	TransactionDate time.Time // zero = now
}

// UpdateTransactionInput is the post-creation patch. Only the whitelisted
// non-financial fields appear here; nil pointers leave a field untouched.
type UpdateTransactionInput struct {
	BuyerContact  *string
	SellerContact *string
	ReceiptPath   *string
}

// UserSummary is the creating-user view attached to transaction results.
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// TransactionDetail is a transaction joined with its plot and creating user.
type TransactionDetail struct {
	Transaction domain.Transaction
	Plot        domain.LandPlot
	CreatedBy   *UserSummary // nil when the creating user no longer resolves
}

// ListTransactionsResult is returned by List.
type ListTransactionsResult struct {
	Items      []*TransactionWithPlot
	Pagination Pagination
}

// CommissionBreakdown is the result of the pure commission calculation.
type CommissionBreakdown struct {
	SalePrice            decimal.Decimal `json:"sale_price"`
	CommissionRate       decimal.Decimal `json:"commission_rate"`
	CommissionAmount     decimal.Decimal `json:"commission_amount"`
	NetAmount            decimal.Decimal `json:"net_amount"`
	CommissionPercentage string          `json:"commission_percentage"`
}

// TransactionService defines the transaction engine operations.
type TransactionService interface {
	// Record validates and persists a sale and transitions the plot to SOLD.
	// The insert and the status change behave as one atomic unit.
	Record(ctx context.Context, input RecordTransactionInput, createdByUserID string) (*TransactionDetail, error)
	GetByID(ctx context.Context, id string) (*TransactionDetail, error)
	List(ctx context.Context, filter ListTransactionsFilter) (*ListTransactionsResult, error)
	Update(ctx context.Context, id string, input UpdateTransactionInput) (*TransactionWithPlot, error)
	// CalculateCommission is pure: no persistence is touched.
	CalculateCommission(salePrice decimal.Decimal, rate *decimal.Decimal) (*CommissionBreakdown, error)
}
