package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/landworks/registry-system/internal/core/ports"
)

// ReceiptGenerator renders a receipt document for a recorded sale and returns
// the storage path of the produced file.
type ReceiptGenerator interface {
	Generate(ctx context.Context, tx *ports.TransactionWithPlot) (string, error)
}

// ReceiptService runs behind the worker queue: it loads a recorded
// transaction, produces its receipt and patches the receipt path. Any failure
// here is logged and dropped; the transaction itself is already committed and
// must not be rolled back.
type ReceiptService struct {
	txRepo    ports.TransactionRepository
	generator ReceiptGenerator
	logger    zerolog.Logger
}

func NewReceiptService(txRepo ports.TransactionRepository, generator ReceiptGenerator, logger zerolog.Logger) *ReceiptService {
	return &ReceiptService{txRepo: txRepo, generator: generator, logger: logger}
}

// Process generates and attaches the receipt for one transaction.
func (s *ReceiptService) Process(ctx context.Context, transactionID string) error {
	joined, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return err
	}

	path, err := s.generator.Generate(ctx, joined)
	if err != nil {
		return err
	}

	if err := s.txRepo.UpdateFields(ctx, transactionID, map[string]string{"receipt_path": path}); err != nil {
		return err
	}

	s.logger.Info().Str("transaction_id", transactionID).Str("receipt_path", path).Msg("receipt attached")
	return nil
}
