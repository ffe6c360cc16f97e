package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/landworks/registry-system/internal/core/ports"
)

// StatsCache is the optional read-through cache in front of the aggregation
// query. Cache failures are logged and otherwise ignored.
type StatsCache interface {
	Get(ctx context.Context, from, to time.Time) (*ports.TransactionStats, error)
	Set(ctx context.Context, from, to time.Time, stats *ports.TransactionStats) error
}

// StatsService computes summary metrics over the transaction set.
type StatsService struct {
	txRepo ports.TransactionRepository
	cache  StatsCache // optional
	logger zerolog.Logger
}

func NewStatsService(txRepo ports.TransactionRepository, cache StatsCache, logger zerolog.Logger) *StatsService {
	return &StatsService{txRepo: txRepo, cache: cache, logger: logger}
}

// TransactionStatistics aggregates transactions whose transaction date falls
// inside the inclusive [from, to] range; zero times disable a bound. Every
// numeric aggregate is decimal zero on an empty set.
func (s *StatsService) TransactionStatistics(ctx context.Context, from, to time.Time) (*ports.TransactionStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, from, to); err != nil {
			s.logger.Warn().Err(err).Msg("stats cache read failed, querying store")
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.txRepo.Statistics(ctx, from, to)
	if err != nil {
		return nil, err
	}
	stats.NetRevenue = stats.TotalRevenue.Sub(stats.TotalCommission)

	if s.cache != nil {
		if err := s.cache.Set(ctx, from, to, stats); err != nil {
			s.logger.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}
