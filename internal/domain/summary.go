package domain

import "time"

// HistoryMonths is the length of the rolling window shown on the dashboard.
const HistoryMonths = 3

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthLabel returns the short calendar name of m.
func MonthLabel(m time.Month) string {
	return monthLabels[(int(m)-1+12)%12]
}

// Totals is the income/expense partition of a set of transactions.
type Totals struct {
	Income  Money
	Expense Money
	Balance Money
	Count   int
}

// Aggregate sums txs by kind. An empty set yields zero totals.
func Aggregate(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Kind {
		case KindIncome:
			t.Income += tx.Amount
		case KindExpense:
			t.Expense += tx.Amount
		}
	}
	t.Count = len(txs)
	t.Balance = t.Income - t.Expense
	return t
}

// Merge combines totals of disjoint transaction sets.
func (t Totals) Merge(o Totals) Totals {
	r := Totals{
		Income:  t.Income + o.Income,
		Expense: t.Expense + o.Expense,
		Count:   t.Count + o.Count,
	}
	r.Balance = r.Income - r.Expense
	return r
}

// MonthSummary is one entry of the rolling history.
type MonthSummary struct {
	Label string
	Year  int
	Month time.Month
	Totals
}

// Summary is the dashboard read model.
type Summary struct {
	Totals  Totals
	History []MonthSummary
	Recent  []Transaction
}

// MonthRange returns the calendar month containing t in loc as [first day, first day of next month).
func MonthRange(t time.Time, loc *time.Location) DateRange {
	t = t.In(loc)
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return DateRange{From: from, To: from.AddDate(0, 1, 0)}
}

// RollingMonths returns n month ranges ending with the month containing t, oldest first.
func RollingMonths(t time.Time, loc *time.Location, n int) []DateRange {
	current := MonthRange(t, loc)
	out := make([]DateRange, n)
	for i := 0; i < n; i++ {
		from := current.From.AddDate(0, -(n - 1 - i), 0)
		out[i] = DateRange{From: from, To: from.AddDate(0, 1, 0)}
	}
	return out
}
