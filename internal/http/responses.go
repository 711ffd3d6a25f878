package http

import (
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/service"
)

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type TransactionResponse struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	Amount      domain.Money `json:"amount"`
	Type        domain.Kind  `json:"type"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

type TotalsResponse struct {
	Income           domain.Money `json:"income"`
	Expense          domain.Money `json:"expense"`
	Balance          domain.Money `json:"balance"`
	TransactionCount int          `json:"transactionCount"`
}

type MonthResponse struct {
	Month   string       `json:"month"`
	Year    int          `json:"year"`
	Income  domain.Money `json:"income"`
	Expense domain.Money `json:"expense"`
	Balance domain.Money `json:"balance"`
}

type RecentTransactionResponse struct {
	ID          string       `json:"id"`
	Amount      domain.Money `json:"amount"`
	Type        domain.Kind  `json:"type"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
}

type SummaryResponse struct {
	Totals             TotalsResponse              `json:"totals"`
	History            []MonthResponse             `json:"history"`
	RecentTransactions []RecentTransactionResponse `json:"recentTransactions"`
}

type StatementResponse struct {
	Key       string  `json:"key"`
	Location  string  `json:"location"`
	URL       string  `json:"url"`
	Rows      int     `json:"rows,omitempty"`
	Size      int64   `json:"size"`
	CreatedAt *string `json:"createdAt,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func transactionToResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Type:        tx.Kind,
		Description: tx.Description,
		Date:        tx.Date.Format(time.RFC3339),
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   tx.UpdatedAt.Format(time.RFC3339),
	}
}

func totalsToResponse(t domain.Totals) TotalsResponse {
	return TotalsResponse{
		Income:           t.Income,
		Expense:          t.Expense,
		Balance:          t.Balance,
		TransactionCount: t.Count,
	}
}

func (h *Handler) summaryToResponse(sum *domain.Summary) SummaryResponse {
	resp := SummaryResponse{
		Totals:             totalsToResponse(sum.Totals),
		History:            make([]MonthResponse, len(sum.History)),
		RecentTransactions: make([]RecentTransactionResponse, len(sum.Recent)),
	}
	for i, m := range sum.History {
		resp.History[i] = MonthResponse{
			Month:   m.Label,
			Year:    m.Year,
			Income:  m.Income,
			Expense: m.Expense,
			Balance: m.Balance,
		}
	}
	for i, tx := range sum.Recent {
		description := tx.Description
		if description == "" {
			description = h.view.Placeholder
		}
		resp.RecentTransactions[i] = RecentTransactionResponse{
			ID:          tx.ID,
			Amount:      tx.Amount,
			Type:        tx.Kind,
			Description: description,
			Date:        tx.Date.In(h.view.Location).Format(h.view.DateFormat),
		}
	}
	return resp
}

func statementToResponse(st service.Statement) StatementResponse {
	resp := StatementResponse{
		Key:      st.Key,
		Location: st.Location,
		URL:      st.URL,
		Rows:     st.Rows,
		Size:     st.Size,
	}
	if st.CreatedAt != nil && !st.CreatedAt.IsZero() {
		v := st.CreatedAt.Format(time.RFC3339)
		resp.CreatedAt = &v
	}
	return resp
}
