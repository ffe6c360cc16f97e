package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable record of one completed sale. Financial fields
// are fixed at creation time; only contact details and the receipt path may
// change afterwards.
type Transaction struct {
	ID               string          `json:"id"`
	LandPlotID       string          `json:"land_plot_id"`
	BuyerName        string          `json:"buyer_name"`
	BuyerContact     string          `json:"buyer_contact"`
	SellerName       string          `json:"seller_name"`
	SellerContact    string          `json:"seller_contact"`
	SalePrice        decimal.Decimal `json:"sale_price"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	TransactionDate  time.Time       `json:"transaction_date"`
	ReceiptPath      string          `json:"receipt_path,omitempty"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ComputeCommission derives the commission amount from a sale price and rate,
// rounded to 2 decimal places. It is the single derivation point: every code
// path that touches the sale price or rate must go through it rather than
// setting the amount directly.
func ComputeCommission(salePrice, rate decimal.Decimal) decimal.Decimal {
	return salePrice.Mul(rate).Round(2)
}
