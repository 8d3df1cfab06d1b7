package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthSummary is a compact financial summary for a specific year+month.
type MonthSummary struct {
	Year        int
	Month       int // 1-12
	Income      decimal.Decimal
	Expenses    decimal.Decimal
	Savings     decimal.Decimal
	SavingsRate float64 // percent of income, 0 when income is zero
	ByCategory  []CategoryAmount
}

// BudgetLine compares one category's monthly limit with actual spending.
type BudgetLine struct {
	Category  string
	Limit     decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	UsagePct  float64
	Overspent bool // spent > limit
	Warning   bool // usage above 80% but not overspent
}

// InMonth reports whether the transaction falls in the given year+month.
func (t Transaction) InMonth(year, month int) bool {
	return t.Date.Year() == year && int(t.Date.Month()) == month
}

// SummarizeMonth aggregates a user's transactions for one month. Single pass
// over the slice; expense categories are returned sorted by amount descending.
func SummarizeMonth(txs []Transaction, year, month int) MonthSummary {
	s := MonthSummary{
		Year:     year,
		Month:    month,
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}
	byCat := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if !t.InMonth(year, month) {
			continue
		}
		switch t.Type {
		case Income:
			s.Income = s.Income.Add(t.Amount)
		case Expense:
			s.Expenses = s.Expenses.Add(t.Amount)
			byCat[t.Category] = byCat[t.Category].Add(t.Amount)
		}
	}
	s.Savings = s.Income.Sub(s.Expenses)
	if s.Income.IsPositive() {
		s.SavingsRate = s.Savings.Div(s.Income).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	for name, amt := range byCat {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Name: name, Amount: amt})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if !s.ByCategory[i].Amount.Equal(s.ByCategory[j].Amount) {
			return s.ByCategory[i].Amount.GreaterThan(s.ByCategory[j].Amount)
		}
		return s.ByCategory[i].Name < s.ByCategory[j].Name
	})
	return s
}

// CompareBudgets builds one line per budget category against the month's
// expense transactions. Categories keep the budget slice order.
func CompareBudgets(budgets []Budget, txs []Transaction, year, month int) []BudgetLine {
	spent := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Type != Expense || !t.InMonth(year, month) {
			continue
		}
		spent[t.Category] = spent[t.Category].Add(t.Amount)
	}

	lines := make([]BudgetLine, 0, len(budgets))
	for _, b := range budgets {
		line := BudgetLine{
			Category:  b.Category,
			Limit:     b.Limit,
			Spent:     spent[b.Category],
			Remaining: b.Limit.Sub(spent[b.Category]),
		}
		if b.Limit.IsPositive() {
			line.UsagePct = line.Spent.Div(b.Limit).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		line.Overspent = line.Spent.GreaterThan(b.Limit)
		line.Warning = !line.Overspent && line.UsagePct > 80
		lines = append(lines, line)
	}
	return lines
}

// LargestExpense returns the biggest single expense amount, zero when there
// are no expenses.
func LargestExpense(txs []Transaction) decimal.Decimal {
	max := decimal.Zero
	for _, t := range txs {
		if t.Type == Expense && t.Amount.GreaterThan(max) {
			max = t.Amount
		}
	}
	return max
}

// MostFrequentCategory returns the expense category with the most
// transactions, empty when there are none. Ties break alphabetically.
func MostFrequentCategory(txs []Transaction) string {
	counts := make(map[string]int)
	for _, t := range txs {
		if t.Type == Expense {
			counts[t.Category]++
		}
	}
	best, bestN := "", 0
	for cat, n := range counts {
		if n > bestN || (n == bestN && (best == "" || cat < best)) {
			best, bestN = cat, n
		}
	}
	return best
}

// DaysUntilSalary assumes a monthly salary on the 1st and counts the days
// until the next one.
func DaysUntilSalary(today time.Time) int {
	if today.Day() == 1 {
		return 0
	}
	next := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, 1, 0)
	return int(next.Sub(today).Hours() / 24)
}
