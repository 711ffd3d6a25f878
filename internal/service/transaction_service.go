package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
)

const maxDescriptionLength = 255

// CreateTransactionInput is the raw payload of a create request.
type CreateTransactionInput struct {
	Amount      string
	Type        string
	Description string
	// Date is optional; RFC3339 or YYYY-MM-DD.
	Date string
}

// UpdateTransactionInput carries the optional mutable fields of an update.
type UpdateTransactionInput struct {
	Amount      *string
	Type        *string
	Description *string
}

// TransactionService coordinates per-user transaction operations.
type TransactionService interface {
	Create(ctx context.Context, userID string, in CreateTransactionInput) (*domain.Transaction, error)
	Get(ctx context.Context, userID, id string) (*domain.Transaction, error)
	List(ctx context.Context, userID string, r *domain.DateRange) ([]domain.Transaction, error)
	Update(ctx context.Context, userID, id string, in UpdateTransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
}

type transactionService struct {
	txs repository.TransactionRepository
	loc *time.Location
	now func() time.Time
}

func NewTransactionService(txs repository.TransactionRepository, loc *time.Location) TransactionService {
	if loc == nil {
		loc = time.Local
	}
	return &transactionService{
		txs: txs,
		loc: loc,
		now: time.Now,
	}
}

func (s *transactionService) Create(ctx context.Context, userID string, in CreateTransactionInput) (*domain.Transaction, error) {
	amount, err := domain.ParseMoney(in.Amount)
	if err != nil {
		return nil, err
	}
	kind, err := domain.ParseKind(in.Type)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(in.Description)
	if err != nil {
		return nil, err
	}

	date := s.now()
	if strings.TrimSpace(in.Date) != "" {
		date, err = ParseDate(in.Date, s.loc)
		if err != nil {
			return nil, err
		}
	}

	tx := &domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
		Date:        date,
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return nil, domain.Internal(err)
	}
	return tx, nil
}

func (s *transactionService) Get(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	return s.owned(ctx, userID, id)
}

func (s *transactionService) List(ctx context.Context, userID string, r *domain.DateRange) ([]domain.Transaction, error) {
	txs, err := s.txs.ListByUser(ctx, userID, r)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return txs, nil
}

func (s *transactionService) Update(ctx context.Context, userID, id string, in UpdateTransactionInput) (*domain.Transaction, error) {
	patch, err := buildPatch(in)
	if err != nil {
		return nil, err
	}

	tx, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(tx)
	if err := s.txs.Update(ctx, tx); err != nil {
		return nil, domain.Internal(err)
	}
	return tx, nil
}

func (s *transactionService) Delete(ctx context.Context, userID, id string) error {
	tx, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.txs.Delete(ctx, tx.ID); err != nil {
		return domain.Internal(err)
	}
	return nil
}

// owned fetches the transaction and fails with the generic forbidden error
// when it is missing or belongs to someone else.
func (s *transactionService) owned(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.Validation("id is required")
	}
	tx, err := auth.RequireOwner(ctx, userID, func(ctx context.Context) (*domain.Transaction, string, error) {
		tx, err := s.txs.Get(ctx, id)
		if err != nil {
			return nil, "", err
		}
		return tx, tx.UserID, nil
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			return nil, domain.Internal(err)
		}
		return nil, err
	}
	return tx, nil
}

func buildPatch(in UpdateTransactionInput) (domain.TransactionPatch, error) {
	var patch domain.TransactionPatch
	if in.Amount != nil {
		amount, err := domain.ParseMoney(*in.Amount)
		if err != nil {
			return patch, err
		}
		patch.Amount = &amount
	}
	if in.Type != nil {
		kind, err := domain.ParseKind(*in.Type)
		if err != nil {
			return patch, err
		}
		patch.Kind = &kind
	}
	if in.Description != nil {
		description, err := validateDescription(*in.Description)
		if err != nil {
			return patch, err
		}
		patch.Description = &description
	}
	if patch.Empty() {
		return patch, domain.Validation("nothing to update: amount, type or description is required")
	}
	return patch, nil
}

func validateDescription(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", domain.Validation("description is required")
	}
	if utf8.RuneCountInString(s) > maxDescriptionLength {
		return "", domain.Validation(fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	return s, nil
}

// ParseDate accepts RFC3339 timestamps and plain YYYY-MM-DD calendar dates,
// the latter interpreted as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, domain.Validation("date must be RFC3339 or YYYY-MM-DD")
}

// ParseDayRange builds a range from optional inclusive YYYY-MM-DD bounds.
// It returns nil when both are empty.
func ParseDayRange(from, to string, loc *time.Location) (*domain.DateRange, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return nil, nil
	}

	r := domain.DateRange{
		From: time.Unix(0, 0).In(loc),
		To:   time.Date(9999, time.December, 31, 0, 0, 0, 0, loc),
	}
	if from != "" {
		t, err := time.ParseInLocation(time.DateOnly, from, loc)
		if err != nil {
			return nil, domain.Validation("from must be YYYY-MM-DD")
		}
		r.From = t
	}
	if to != "" {
		t, err := time.ParseInLocation(time.DateOnly, to, loc)
		if err != nil {
			return nil, domain.Validation("to must be YYYY-MM-DD")
		}
		r.To = t.AddDate(0, 0, 1)
	}
	if !r.From.Before(r.To) {
		return nil, domain.Validation("from must not be after to")
	}
	return &r, nil
}
