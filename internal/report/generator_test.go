package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

type fakeLister struct {
	txs []core.Transaction
	err error
}

func (f fakeLister) ListTransactions(_ context.Context, _ string) ([]core.Transaction, error) {
	return f.txs, f.err
}

func tx(typ core.TransactionType, cat, amount string, date time.Time) core.Transaction {
	return core.Transaction{
		UserEmail: "a@b.com",
		Type:      typ,
		Category:  cat,
		Amount:    decimal.RequireFromString(amount),
		Date:      date,
	}
}

func TestGenerateAllTime(t *testing.T) {
	mon := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)  // Monday
	tue := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)  // Tuesday
	may := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC) // previous month

	g := NewGenerator(fakeLister{txs: []core.Transaction{
		tx(core.Income, "Salary", "1000", mon),
		tx(core.Expense, "Food", "100", mon),
		tx(core.Expense, "Food", "50", mon),
		tx(core.Expense, "Shopping", "200", tue),
		tx(core.Expense, "Food", "25", may),
	}})

	r, err := g.Generate(context.Background(), "a@b.com", PeriodAll, mon)
	require.NoError(t, err)

	// Daily trend: three distinct expense days, chronological.
	require.Len(t, r.DailyTrend, 3)
	assert.True(t, r.DailyTrend[0].Date.Before(r.DailyTrend[1].Date))
	assert.Equal(t, "150", r.DailyTrend[1].Amount.String()) // Monday total

	// Category ranking descending: Shopping 200, Food 175.
	require.Len(t, r.Categories, 2)
	assert.Equal(t, "Shopping", r.Categories[0].Name)
	assert.Equal(t, "175", r.Categories[1].Amount.String())

	// Weekday pattern always has all seven days, Monday first.
	require.Len(t, r.WeekdayPattern, 7)
	assert.Equal(t, time.Monday, r.WeekdayPattern[0].Weekday)
	assert.Equal(t, "150", r.WeekdayPattern[0].Amount.String())
	assert.True(t, r.WeekdayPattern[4].Amount.IsZero()) // Friday untouched

	// Monthly flows chronological: May then June.
	require.Len(t, r.MonthlyFlows, 2)
	assert.Equal(t, 5, r.MonthlyFlows[0].Month)
	assert.Equal(t, "1000", r.MonthlyFlows[1].Income.String())
	assert.Equal(t, "350", r.MonthlyFlows[1].Expenses.String())

	// 375 spent over 3 distinct days.
	assert.Equal(t, "125", r.AvgDailySpend.String())
	assert.Equal(t, "200", r.LargestExpense.String())
	assert.InDelta(t, 62.5, r.SavingsRate, 0.001)
}

func TestGeneratePeriodFilters(t *testing.T) {
	ref := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	inMonth := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	lastYear := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)

	g := NewGenerator(fakeLister{txs: []core.Transaction{
		tx(core.Expense, "Food", "10", inMonth),
		tx(core.Expense, "Food", "99", lastYear),
	}})

	r, err := g.Generate(context.Background(), "a@b.com", PeriodMonth, ref)
	require.NoError(t, err)
	require.Len(t, r.Categories, 1)
	assert.Equal(t, "10", r.Categories[0].Amount.String())

	r, err = g.Generate(context.Background(), "a@b.com", PeriodYear, ref)
	require.NoError(t, err)
	assert.Equal(t, "10", r.Categories[0].Amount.String())

	r, err = g.Generate(context.Background(), "a@b.com", PeriodAll, ref)
	require.NoError(t, err)
	assert.Equal(t, "109", r.Categories[0].Amount.String())
}

func TestGenerateUnknownPeriod(t *testing.T) {
	g := NewGenerator(fakeLister{})
	_, err := g.Generate(context.Background(), "a@b.com", "decade", time.Now())
	require.Error(t, err)
}

func TestGenerateEmptyHistory(t *testing.T) {
	g := NewGenerator(fakeLister{})
	r, err := g.Generate(context.Background(), "a@b.com", PeriodAll, time.Now())
	require.NoError(t, err)
	assert.Empty(t, r.DailyTrend)
	assert.Empty(t, r.Categories)
	assert.True(t, r.AvgDailySpend.IsZero())
	assert.Zero(t, r.SavingsRate)
	require.Len(t, r.WeekdayPattern, 7)
}
