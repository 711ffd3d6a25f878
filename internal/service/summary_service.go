package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
)

// SummaryOptions tunes the dashboard read model.
type SummaryOptions struct {
	Location    *time.Location
	RecentLimit int
}

// SummaryService computes the dashboard summary for a user.
type SummaryService interface {
	Summary(ctx context.Context, userID string) (*domain.Summary, error)
}

type summaryService struct {
	txs  repository.TransactionRepository
	opts SummaryOptions
	now  func() time.Time
}

func NewSummaryService(txs repository.TransactionRepository, opts SummaryOptions) SummaryService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 5
	}
	return &summaryService{
		txs:  txs,
		opts: opts,
		now:  time.Now,
	}
}

func (s *summaryService) Summary(ctx context.Context, userID string) (*domain.Summary, error) {
	now := s.now()
	months := domain.RollingMonths(now, s.opts.Location, domain.HistoryMonths)
	current := months[len(months)-1]

	var (
		totals  domain.Totals
		recent  []domain.Transaction
		history = make([]domain.MonthSummary, len(months))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := s.txs.ListByUser(gctx, userID, &current)
		if err != nil {
			return fmt.Errorf("current month: %w", err)
		}
		totals = domain.Aggregate(txs)
		return nil
	})
	g.Go(func() error {
		txs, err := s.txs.ListRecent(gctx, userID, s.opts.RecentLimit)
		if err != nil {
			return fmt.Errorf("recent transactions: %w", err)
		}
		recent = txs
		return nil
	})
	for i, month := range months {
		i, month := i, month
		g.Go(func() error {
			txs, err := s.txs.ListByUser(gctx, userID, &month)
			if err != nil {
				return fmt.Errorf("history %s: %w", month.From.Format("2006-01"), err)
			}
			history[i] = domain.MonthSummary{
				Label:  domain.MonthLabel(month.From.Month()),
				Year:   month.From.Year(),
				Month:  month.From.Month(),
				Totals: domain.Aggregate(txs),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.Internal(err)
	}

	return &domain.Summary{
		Totals:  totals,
		History: history,
		Recent:  recent,
	}, nil
}
