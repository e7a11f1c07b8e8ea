package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "salesetl/internal/errors"
	"salesetl/pkg/contracts/domain"
)

// HistoryBuilder produces the per-client, per-day income ledger.
type HistoryBuilder struct {
	store   *Store
	workers int
	logger  *slog.Logger
}

// HistoryOption configures a HistoryBuilder.
type HistoryOption func(*HistoryBuilder)

// WithWorkers computes days on up to n goroutines. Output is identical to
// the sequential build.
func WithWorkers(n int) HistoryOption {
	return func(b *HistoryBuilder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// NewHistoryBuilder creates a builder over store.
func NewHistoryBuilder(store *Store, logger *slog.Logger, opts ...HistoryOption) *HistoryBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	b := &HistoryBuilder{
		store:   store,
		workers: 1,
		logger:  logger.With(slog.String("component", "history_builder")),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns one ledger entry per (day, client) for every day in
// [begin, end], ordered by day and then by client table order. Accumulated
// income starts at zero on begin.
func (b *HistoryBuilder) Build(ctx context.Context, begin, end time.Time) ([]domain.LedgerEntry, error) {
	begin, end = domain.Day(begin), domain.Day(end)
	if end.Before(begin) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("history %s..%s", begin.Format(domain.ISODateLayout), end.Format(domain.ISODateLayout)),
			apperrors.ErrInvalidPeriod)
	}

	clients := b.store.Clients()
	days := domain.DaysInRange(begin, end)

	b.logger.InfoContext(ctx, "Building income history",
		slog.String("begin", begin.Format(domain.ISODateLayout)),
		slog.String("end", end.Format(domain.ISODateLayout)),
		slog.Int("days", len(days)),
		slog.Int("clients", len(clients)),
		slog.Int("workers", b.workers))

	daily, err := b.dailyIncomes(ctx, clients, days)
	if err != nil {
		return nil, err
	}

	accumulated := make([]domain.Money, len(clients))
	for i := range accumulated {
		accumulated[i] = domain.ZeroMoney()
	}

	ledger := make([]domain.LedgerEntry, 0, len(days)*len(clients))
	for d, day := range days {
		for c, client := range clients {
			accumulated[c] = accumulated[c].Add(daily[d][c])
			ledger = append(ledger, domain.LedgerEntry{
				ClientID:          client.ID,
				FullName:          client.FullName(),
				Date:              day,
				DailyIncome:       daily[d][c],
				AccumulatedIncome: accumulated[c],
			})
		}
	}

	b.logger.DebugContext(ctx, "Income history built", slog.Int("entries", len(ledger)))
	return ledger, nil
}

// dailyIncomes fills a days x clients grid. Each day owns its own row, so
// workers never share a slot.
func (b *HistoryBuilder) dailyIncomes(ctx context.Context, clients []domain.Client, days []time.Time) ([][]domain.Money, error) {
	grid := make([][]domain.Money, len(days))

	fill := func(d int) error {
		row := make([]domain.Money, len(clients))
		for c, client := range clients {
			income, ok := b.store.ClientIncomeForDay(client.ID, days[d])
			if !ok {
				return apperrors.NewValidationError("client table holds a malformed id",
					fmt.Errorf("%q: %w", client.ID, apperrors.ErrUnknownClient)).
					WithContext("id_client", client.ID)
			}
			row[c] = income
		}
		grid[d] = row
		return nil
	}

	if b.workers <= 1 {
		for d := range days {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := fill(d); err != nil {
				return nil, err
			}
		}
		return grid, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for d := range days {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fill(d)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return grid, nil
}
