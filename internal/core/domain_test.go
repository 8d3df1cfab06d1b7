package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validExpense() Transaction {
	return Transaction{
		UserEmail: "a@b.com",
		Type:      Expense,
		Category:  "Food",
		Amount:    decimal.NewFromInt(100),
		Date:      time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validExpense().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	income := validExpense()
	income.Type = Income
	income.Category = "Salary"
	income.Frequency = Monthly
	if err := income.Validate(); err != nil {
		t.Fatalf("expected ok income, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"empty email", func(tx *Transaction) { tx.UserEmail = " " }},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }},
		{"bad category", func(tx *Transaction) { tx.Category = "Yachts" }},
		{"income category on expense", func(tx *Transaction) { tx.Category = "Salary" }},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) }},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }},
		{"long note", func(tx *Transaction) {
			for i := 0; i < 201; i++ {
				tx.Note += "x"
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validExpense()
			tc.mutate(&tx)
			if err := tx.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	// Income without a frequency is rejected; expenses ignore frequency.
	inc := validExpense()
	inc.Type = Income
	inc.Category = "Salary"
	if err := inc.Validate(); err == nil {
		t.Fatalf("expected frequency error for income")
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{UserEmail: "a@b.com", Category: "Food", Limit: decimal.NewFromInt(500)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	zero := good
	zero.Limit = decimal.Zero
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero limit should be allowed, got %v", err)
	}

	bads := []Budget{
		{UserEmail: "", Category: "Food", Limit: decimal.NewFromInt(1)},
		{UserEmail: "a@b.com", Category: "Salary", Limit: decimal.NewFromInt(1)},
		{UserEmail: "a@b.com", Category: "Food", Limit: decimal.NewFromInt(-1)},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalProgressClamped(t *testing.T) {
	cases := []struct {
		current, target int64
		want            float64
	}{
		{0, 100, 0},
		{50, 100, 50},
		{100, 100, 100},
		{150, 100, 100}, // over target clamps to 100
	}
	for i, tc := range cases {
		g := Goal{
			UserEmail: "a@b.com",
			Name:      "g",
			Target:    decimal.NewFromInt(tc.target),
			Current:   decimal.NewFromInt(tc.current),
		}
		if got := g.Progress(); got != tc.want {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}

	// Zero target never divides.
	g := Goal{Target: decimal.Zero, Current: decimal.NewFromInt(10)}
	if got := g.Progress(); got != 0 {
		t.Fatalf("zero target: got %v want 0", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Fatalf("got %q", got)
	}
}

func TestNewProfileDefaults(t *testing.T) {
	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p := NewProfile("maria@example.com", since)
	if p.Name != "maria" {
		t.Fatalf("name: got %q", p.Name)
	}
	if p.UserEmail != "maria@example.com" || !p.MemberSince.Equal(since) {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestDefaultSeeds(t *testing.T) {
	budgets := DefaultBudget("a@b.com")
	if len(budgets) != len(ExpenseCategories) {
		t.Fatalf("expected one budget per category, got %d", len(budgets))
	}
	for _, b := range budgets {
		if err := b.Validate(); err != nil {
			t.Fatalf("seed budget %s invalid: %v", b.Category, err)
		}
	}
	goals := DefaultGoals("a@b.com")
	if len(goals) != 2 {
		t.Fatalf("expected 2 seed goals, got %d", len(goals))
	}
	for _, g := range goals {
		if err := g.Validate(); err != nil {
			t.Fatalf("seed goal %s invalid: %v", g.Name, err)
		}
	}
}
