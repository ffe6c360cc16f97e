package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/landworks/registry-system/internal/core/domain"
	"github.com/landworks/registry-system/internal/core/ports"
)

const maxContactLen = 255

var oneHundred = decimal.NewFromInt(100)

// ReceiptQueue is the async collaborator that produces a receipt document for
// a recorded transaction. Failures on its side never affect the transaction.
type ReceiptQueue interface {
	Enqueue(transactionID string)
}

// TransactionService is the transaction engine: it validates and records
// sales, derives commissions and drives the plot's sale transition.
type TransactionService struct {
	txRepo      ports.TransactionRepository
	landRepo    ports.LandRepository
	userRepo    ports.UserRepository
	defaultRate decimal.Decimal
	receipts    ReceiptQueue // optional
	logger      zerolog.Logger
}

// NewTransactionService constructs the engine. The default commission rate is
// injected explicitly so tests stay deterministic; values outside [0,1] fall
// back to 0.10.
func NewTransactionService(
	txRepo ports.TransactionRepository,
	landRepo ports.LandRepository,
	userRepo ports.UserRepository,
	defaultRate decimal.Decimal,
	receipts ReceiptQueue,
	logger zerolog.Logger,
) *TransactionService {
	if defaultRate.IsNegative() || defaultRate.GreaterThan(decimal.NewFromInt(1)) {
		defaultRate = decimal.NewFromFloat(0.10)
	}
	return &TransactionService{
		txRepo:      txRepo,
		landRepo:    landRepo,
		userRepo:    userRepo,
		defaultRate: defaultRate,
		receipts:    receipts,
		logger:      logger,
	}
}

// Record validates the sale data, persists the transaction and marks the plot
// as SOLD. The insert and the status change form one atomic unit: when the
// conditional status update loses a concurrent race, the inserted transaction
// is deleted again and the caller sees the sale-guard error.
func (s *TransactionService) Record(ctx context.Context, input ports.RecordTransactionInput, createdByUserID string) (*ports.TransactionDetail, error) {
	if err := validateParties(input); err != nil {
		return nil, err
	}
	if !input.SalePrice.IsPositive() {
		return nil, fmt.Errorf("%w: sale price must be greater than zero", domain.ErrInvalidInput)
	}

	plot, err := s.landRepo.FindByID(ctx, input.LandPlotID)
	if err != nil {
		return nil, err
	}
	switch plot.Status {
	case domain.StatusSold:
		return nil, domain.ErrPlotAlreadySold
	case domain.StatusDisputed:
		return nil, domain.ErrPlotDisputed
	}

	user, err := s.userRepo.FindByID(ctx, createdByUserID)
	if err != nil {
		return nil, err
	}

	rate, err := s.resolveRate(input.CommissionRate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txDate := input.TransactionDate
	if txDate.IsZero() {
		txDate = now
	}

	tx := &domain.Transaction{
		ID:               uuid.NewString(),
		LandPlotID:       plot.ID,
		BuyerName:        input.BuyerName,
		BuyerContact:     input.BuyerContact,
		SellerName:       input.SellerName,
		SellerContact:    input.SellerContact,
		SalePrice:        input.SalePrice,
		CommissionRate:   rate,
		CommissionAmount: domain.ComputeCommission(input.SalePrice, rate),
		TransactionDate:  txDate,
		CreatedBy:        user.ID,
		CreatedAt:        now,
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		s.logger.Error().Err(err).Str("plot_id", plot.ID).Msg("failed to persist transaction")
		return nil, err
	}

	if err := s.landRepo.MarkSold(ctx, plot.ID); err != nil {
		// Losing race or storage failure: roll the insert back so no
		// transaction points at a plot that is still AVAILABLE.
		if delErr := s.txRepo.Delete(ctx, tx.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("transaction_id", tx.ID).Msg("rollback of transaction insert failed")
		}
		return nil, err
	}

	s.logger.Info().
		Str("transaction_id", tx.ID).
		Str("plot_number", plot.PlotNumber).
		Str("sale_price", tx.SalePrice.String()).
		Str("commission", tx.CommissionAmount.String()).
		Msg("transaction recorded")

	if s.receipts != nil {
		s.receipts.Enqueue(tx.ID)
	}

	plot.Status = domain.StatusSold
	return &ports.TransactionDetail{
		Transaction: *tx,
		Plot:        *plot,
		CreatedBy:   userSummary(user),
	}, nil
}

// GetByID returns a transaction joined with its plot and creating user.
func (s *TransactionService) GetByID(ctx context.Context, id string) (*ports.TransactionDetail, error) {
	joined, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ports.TransactionDetail{
		Transaction: joined.Transaction,
		Plot:        joined.Plot,
	}
	if user, err := s.userRepo.FindByID(ctx, joined.Transaction.CreatedBy); err == nil {
		detail.CreatedBy = userSummary(user)
	}
	return detail, nil
}

// List returns a filtered, sorted page of transactions with page metadata.
// Unknown sort fields silently fall back to the transaction date.
func (s *TransactionService) List(ctx context.Context, filter ports.ListTransactionsFilter) (*ports.ListTransactionsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	items, total, err := s.txRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListTransactionsResult{
		Items:      items,
		Pagination: paginate(filter.Page, filter.Limit, total),
	}, nil
}

// Update patches the post-creation whitelist: buyer contact, seller contact,
// receipt path. Financial fields are immutable here by construction.
func (s *TransactionService) Update(ctx context.Context, id string, input ports.UpdateTransactionInput) (*ports.TransactionWithPlot, error) {
	fields := make(map[string]string)
	if input.BuyerContact != nil {
		fields["buyer_contact"] = *input.BuyerContact
	}
	if input.SellerContact != nil {
		fields["seller_contact"] = *input.SellerContact
	}
	if input.ReceiptPath != nil {
		fields["receipt_path"] = *input.ReceiptPath
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no valid fields to update", domain.ErrInvalidInput)
	}

	if err := s.txRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.txRepo.FindByID(ctx, id)
}

// CalculateCommission is the pure commission breakdown used by the quote
// endpoint. It shares the default-rate resolution with Record.
func (s *TransactionService) CalculateCommission(salePrice decimal.Decimal, rate *decimal.Decimal) (*ports.CommissionBreakdown, error) {
	if !salePrice.IsPositive() {
		return nil, fmt.Errorf("%w: sale price must be greater than zero", domain.ErrInvalidInput)
	}
	effective, err := s.resolveRate(rate)
	if err != nil {
		return nil, err
	}

	amount := domain.ComputeCommission(salePrice, effective)
	return &ports.CommissionBreakdown{
		SalePrice:            salePrice,
		CommissionRate:       effective,
		CommissionAmount:     amount,
		NetAmount:            salePrice.Sub(amount),
		CommissionPercentage: effective.Mul(oneHundred).StringFixed(2) + "%",
	}, nil
}

// resolveRate picks the caller-supplied rate when present, otherwise the
// configured default. Supplied rates must lie in [0,1].
func (s *TransactionService) resolveRate(rate *decimal.Decimal) (decimal.Decimal, error) {
	if rate == nil {
		return s.defaultRate, nil
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%w: commission rate must be between 0 and 1", domain.ErrInvalidInput)
	}
	return *rate, nil
}

func validateParties(input ports.RecordTransactionInput) error {
	for _, f := range []struct{ name, value string }{
		{"buyer name", input.BuyerName},
		{"buyer contact", input.BuyerContact},
		{"seller name", input.SellerName},
		{"seller contact", input.SellerContact},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, f.name)
		}
		if len(f.value) > maxContactLen {
			return fmt.Errorf("%w: %s exceeds %d characters", domain.ErrInvalidInput, f.name, maxContactLen)
		}
	}
	return nil
}

func userSummary(u *domain.User) *ports.UserSummary {
	return &ports.UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
	}
}
