package handler

import "time"

// --- Request types ---

type recordTransactionRequest struct {
	LandPlotID      string     `json:"land_plot_id"     validate:"required"`
	BuyerName       string     `json:"buyer_name"       validate:"required,max=255"`
	BuyerContact    string     `json:"buyer_contact"    validate:"required,max=255"`
	SellerName      string     `json:"seller_name"      validate:"required,max=255"`
	SellerContact   string     `json:"seller_contact"   validate:"required,max=255"`
	SalePrice       float64    `json:"sale_price"       validate:"required,gt=0"`
	CommissionRate  *float64   `json:"commission_rate"  validate:"omitempty,gte=0,lte=1"`
	TransactionDate *time.Time `json:"transaction_date"`
}

// updateTransactionRequest carries the post-creation whitelist. Financial
// fields are deliberately absent: they are immutable through this path.
type updateTransactionRequest struct {
	BuyerContact  *string `json:"buyer_contact"  validate:"omitempty,max=255"`
	SellerContact *string `json:"seller_contact" validate:"omitempty,max=255"`
	ReceiptPath   *string `json:"receipt_path"   validate:"omitempty,max=500"`
}

type calculateCommissionRequest struct {
	SalePrice      float64  `json:"sale_price"      validate:"required,gt=0"`
	CommissionRate *float64 `json:"commission_rate" validate:"omitempty,gte=0,lte=1"`
}

// --- Response types ---

type plotSummaryResponse struct {
	ID         string `json:"id"`
	PlotNumber string `json:"plot_number"`
	Location   string `json:"location"`
	Size       string `json:"size"`
	SizeUnit   string `json:"size_unit"`
	Status     string `json:"status"`
}

type userSummaryResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type transactionResponse struct {
	ID               string               `json:"id"`
	LandPlotID       string               `json:"land_plot_id"`
	BuyerName        string               `json:"buyer_name"`
	BuyerContact     string               `json:"buyer_contact"`
	SellerName       string               `json:"seller_name"`
	SellerContact    string               `json:"seller_contact"`
	SalePrice        string               `json:"sale_price"`
	CommissionRate   string               `json:"commission_rate"`
	CommissionAmount string               `json:"commission_amount"`
	TransactionDate  time.Time            `json:"transaction_date"`
	ReceiptPath      string               `json:"receipt_path,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	Plot             plotSummaryResponse  `json:"plot"`
	CreatedBy        *userSummaryResponse `json:"created_by,omitempty"`
}

type listTransactionsResponse struct {
	Data       []transactionResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}

type commissionResponse struct {
	SalePrice            string `json:"sale_price"`
	CommissionRate       string `json:"commission_rate"`
	CommissionAmount     string `json:"commission_amount"`
	NetAmount            string `json:"net_amount"`
	CommissionPercentage string `json:"commission_percentage"`
}

type monthlyStatsResponse struct {
	Month      string `json:"month"`
	Count      int64  `json:"count"`
	Revenue    string `json:"revenue"`
	Commission string `json:"commission"`
}

type statisticsResponse struct {
	Count           int64                  `json:"count"`
	TotalRevenue    string                 `json:"total_revenue"`
	TotalCommission string                 `json:"total_commission"`
	NetRevenue      string                 `json:"net_revenue"`
	AvgSalePrice    string                 `json:"avg_sale_price"`
	MinSalePrice    string                 `json:"min_sale_price"`
	MaxSalePrice    string                 `json:"max_sale_price"`
	Monthly         []monthlyStatsResponse `json:"monthly"`
}
