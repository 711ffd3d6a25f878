package repository

import (
	"context"

	"finance-tracker/internal/domain"
)

// TransactionRepository exposes persistence operations for transactions.
// Lookups by id return domain.ErrNotFound when the row does not exist.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	// ListByUser returns the user's transactions, newest first. A nil range lists everything.
	ListByUser(ctx context.Context, userID string, r *domain.DateRange) ([]domain.Transaction, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
	Update(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, id string) error
}
