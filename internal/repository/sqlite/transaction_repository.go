package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
)

const transactionColumns = `id, user_id, amount_cents, kind, description, occurred_at, created_at, updated_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions (`+transactionColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID,
		tx.UserID,
		int64(tx.Amount),
		string(tx.Kind),
		tx.Description,
		tx.Date.UnixMilli(),
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+transactionColumns+`
FROM transactions
WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, dr *domain.DateRange) ([]domain.Transaction, error) {
	query := `
SELECT ` + transactionColumns + `
FROM transactions
WHERE user_id = ?`
	args := []any{userID}
	if dr != nil {
		query += ` AND occurred_at >= ? AND occurred_at < ?`
		args = append(args, dr.From.UnixMilli(), dr.To.UnixMilli())
	}
	query += ` ORDER BY occurred_at DESC, created_at DESC`

	return r.queryTransactions(ctx, query, args...)
}

func (r *TransactionRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		return []domain.Transaction{}, nil
	}
	return r.queryTransactions(ctx, `
SELECT `+transactionColumns+`
FROM transactions
WHERE user_id = ?
ORDER BY occurred_at DESC, created_at DESC
LIMIT ?`, userID, limit)
}

func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	tx.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE transactions
SET amount_cents = ?, kind = ?, description = ?, updated_at = ?
WHERE id = ?`,
		int64(tx.Amount),
		string(tx.Kind),
		tx.Description,
		tx.UpdatedAt,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return expectOneRow(res)
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return expectOneRow(res)
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func scanTransaction(row interface {
	Scan(dest ...any) error
}) (*domain.Transaction, error) {
	var (
		tx         domain.Transaction
		amount     int64
		kind       string
		occurredAt int64
	)
	if err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&amount,
		&kind,
		&tx.Description,
		&occurredAt,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Amount = domain.Money(amount)
	tx.Kind = domain.Kind(kind)
	tx.Date = time.UnixMilli(occurredAt).UTC()
	return &tx, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
