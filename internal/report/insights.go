package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// InsightKind classifies a recommendation for the client.
type InsightKind string

const (
	InsightInfo    InsightKind = "info"
	InsightWarning InsightKind = "warning"
	InsightSuccess InsightKind = "success"
)

// Insight is one recommendation derived from spending patterns.
type Insight struct {
	Kind    InsightKind `json:"kind"`
	Message string      `json:"message"`
}

// targetSavingsRate is the threshold below which the savings-rate insight
// turns into a warning.
const targetSavingsRate = 20.0

// Insights derives recommendations from the user's whole history: the top
// spending category, the heaviest spending weekday, and a savings-rate
// assessment. Returns nil when there are no expenses to learn from.
func (g *Generator) Insights(ctx context.Context, email string) ([]Insight, error) {
	txs, err := g.store.ListTransactions(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("generate insights: %w", err)
	}
	return deriveInsights(txs), nil
}

func deriveInsights(txs []core.Transaction) []Insight {
	byCat := make(map[string]decimal.Decimal)
	byWeekday := make(map[time.Weekday]decimal.Decimal)
	income, expenses := decimal.Zero, decimal.Zero

	for _, t := range txs {
		switch t.Type {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expenses = expenses.Add(t.Amount)
			byCat[t.Category] = byCat[t.Category].Add(t.Amount)
			byWeekday[t.Date.Weekday()] = byWeekday[t.Date.Weekday()].Add(t.Amount)
		}
	}
	if len(byCat) == 0 {
		return nil
	}

	var insights []Insight

	topCat, topAmt := "", decimal.Zero
	for cat, amt := range byCat {
		if amt.GreaterThan(topAmt) || (amt.Equal(topAmt) && (topCat == "" || cat < topCat)) {
			topCat, topAmt = cat, amt
		}
	}
	insights = append(insights, Insight{
		Kind:    InsightInfo,
		Message: fmt.Sprintf("Your highest spending category is %s with %s", topCat, topAmt.StringFixed(2)),
	})

	var topDay time.Weekday
	topDayAmt := decimal.Zero
	for wd, amt := range byWeekday {
		if amt.GreaterThan(topDayAmt) || (amt.Equal(topDayAmt) && wd < topDay) {
			topDay, topDayAmt = wd, amt
		}
	}
	insights = append(insights, Insight{
		Kind:    InsightInfo,
		Message: fmt.Sprintf("You tend to spend the most on %ss", topDay),
	})

	if income.IsPositive() {
		rate := income.Sub(expenses).Div(income).Mul(decimal.NewFromInt(100)).InexactFloat64()
		if rate < targetSavingsRate {
			insights = append(insights, Insight{
				Kind:    InsightWarning,
				Message: "Consider increasing your savings rate to at least 20% of income",
			})
		} else {
			insights = append(insights, Insight{
				Kind:    InsightSuccess,
				Message: fmt.Sprintf("Great job! Your savings rate is %.1f%%", rate),
			})
		}
	}

	return insights
}
