package ports

import (
	"context"
	"time"
)

// StatsService answers reporting questions over the transaction set.
// Read-only; safe to run concurrently with writers.
type StatsService interface {
	TransactionStatistics(ctx context.Context, from, to time.Time) (*TransactionStats, error)
}
