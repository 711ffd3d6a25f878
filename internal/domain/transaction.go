package domain

import (
	"strings"
	"time"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// ParseKind normalizes a user supplied kind. The legacy "entrada"/"saida"
// values written by older clients are accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "entrada":
		return KindIncome, nil
	case "expense", "saida", "saída":
		return KindExpense, nil
	default:
		return "", Validation("type must be 'income' or 'expense'")
	}
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single income or expense entry owned by a user.
type Transaction struct {
	ID          string
	UserID      string
	Amount      Money
	Kind        Kind
	Description string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DateRange is a half-open interval [From, To).
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// TransactionPatch carries the mutable fields of a transaction. Nil fields are left unchanged.
type TransactionPatch struct {
	Amount      *Money
	Kind        *Kind
	Description *string
}

func (p TransactionPatch) Empty() bool {
	return p.Amount == nil && p.Kind == nil && p.Description == nil
}

// Apply copies the patched fields onto tx.
func (p TransactionPatch) Apply(tx *Transaction) {
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Kind != nil {
		tx.Kind = *p.Kind
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
}
