package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func tx(typ TransactionType, cat, amount string, day int) Transaction {
	freq := Frequency("")
	if typ == Income {
		freq = OneTime
	}
	return Transaction{
		UserEmail: "a@b.com",
		Type:      typ,
		Category:  cat,
		Amount:    decimal.RequireFromString(amount),
		Date:      time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
		Frequency: freq,
	}
}

func TestSummarizeMonth(t *testing.T) {
	txs := []Transaction{
		tx(Income, "Salary", "1000", 1),
		tx(Expense, "Food", "100.50", 3),
		tx(Expense, "Food", "49.50", 10),
		tx(Expense, "Transportation", "200", 12),
	}
	// Noise from another month must not count.
	other := tx(Expense, "Food", "999", 1)
	other.Date = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	txs = append(txs, other)

	s := SummarizeMonth(txs, 2025, 6)
	if !s.Income.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("income: got %s", s.Income)
	}
	if !s.Expenses.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expenses: got %s", s.Expenses)
	}
	if !s.Savings.Equal(decimal.NewFromInt(650)) {
		t.Fatalf("savings: got %s", s.Savings)
	}
	if s.SavingsRate != 65 {
		t.Fatalf("savings rate: got %v", s.SavingsRate)
	}
	if len(s.ByCategory) != 2 {
		t.Fatalf("categories: got %d", len(s.ByCategory))
	}
	// Sorted descending by amount.
	if s.ByCategory[0].Name != "Transportation" || s.ByCategory[1].Name != "Food" {
		t.Fatalf("category order: %+v", s.ByCategory)
	}
	if !s.ByCategory[1].Amount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("food sum: got %s", s.ByCategory[1].Amount)
	}
}

func TestSummarizeMonthEmpty(t *testing.T) {
	s := SummarizeMonth(nil, 2025, 6)
	if !s.Income.IsZero() || !s.Expenses.IsZero() || s.SavingsRate != 0 {
		t.Fatalf("expected zeroes, got %+v", s)
	}
}

func TestCompareBudgets(t *testing.T) {
	budgets := []Budget{
		{UserEmail: "a@b.com", Category: "Food", Limit: decimal.NewFromInt(100)},
		{UserEmail: "a@b.com", Category: "Transportation", Limit: decimal.NewFromInt(100)},
		{UserEmail: "a@b.com", Category: "Utilities", Limit: decimal.NewFromInt(100)},
	}
	txs := []Transaction{
		tx(Expense, "Food", "150", 2),          // overspent
		tx(Expense, "Transportation", "85", 4), // warning zone
		tx(Expense, "Utilities", "20", 5),      // fine
	}

	lines := CompareBudgets(budgets, txs, 2025, 6)
	if len(lines) != 3 {
		t.Fatalf("lines: got %d", len(lines))
	}

	food := lines[0]
	if !food.Overspent || food.Warning {
		t.Fatalf("food flags: %+v", food)
	}
	if !food.Remaining.Equal(decimal.NewFromInt(-50)) {
		t.Fatalf("food remaining: got %s", food.Remaining)
	}

	transport := lines[1]
	if transport.Overspent || !transport.Warning {
		t.Fatalf("transport flags: %+v", transport)
	}

	utilities := lines[2]
	if utilities.Overspent || utilities.Warning {
		t.Fatalf("utilities flags: %+v", utilities)
	}
	if utilities.UsagePct != 20 {
		t.Fatalf("utilities usage: got %v", utilities.UsagePct)
	}
}

func TestCompareBudgetsBoundary(t *testing.T) {
	// Spending exactly the limit is not an overspend.
	budgets := []Budget{{UserEmail: "a@b.com", Category: "Food", Limit: decimal.NewFromInt(100)}}
	txs := []Transaction{tx(Expense, "Food", "100", 2)}
	lines := CompareBudgets(budgets, txs, 2025, 6)
	if lines[0].Overspent {
		t.Fatalf("exact limit flagged as overspend")
	}
	if lines[0].UsagePct != 100 {
		t.Fatalf("usage: got %v", lines[0].UsagePct)
	}
}

func TestQuickStats(t *testing.T) {
	txs := []Transaction{
		tx(Expense, "Food", "10", 1),
		tx(Expense, "Food", "30", 2),
		tx(Expense, "Shopping", "500", 3),
		tx(Income, "Salary", "9999", 1),
	}
	if got := LargestExpense(txs); !got.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("largest: got %s", got)
	}
	if got := MostFrequentCategory(txs); got != "Food" {
		t.Fatalf("most frequent: got %q", got)
	}
	if got := MostFrequentCategory(nil); got != "" {
		t.Fatalf("empty most frequent: got %q", got)
	}
}

func TestDaysUntilSalary(t *testing.T) {
	cases := []struct {
		day  time.Time
		want int
	}{
		{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 16},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			if got := DaysUntilSalary(tc.day); got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}
