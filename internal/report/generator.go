// Package report derives analytics and spending-pattern insights from a
// user's transaction history. All aggregations are single linear passes over
// the per-user record set.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Periods supported by the analytics endpoint.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

type transactionLister interface {
	ListTransactions(ctx context.Context, email string) ([]core.Transaction, error)
}

// Generator builds analytics reports from stored transactions.
type Generator struct {
	store transactionLister
}

func NewGenerator(store transactionLister) *Generator {
	return &Generator{store: store}
}

type (
	// DailyAmount is one point of the daily spending trend.
	DailyAmount struct {
		Date   time.Time
		Amount decimal.Decimal
	}

	// WeekdayAmount is the spend total for one day of the week.
	WeekdayAmount struct {
		Weekday time.Weekday
		Amount  decimal.Decimal
	}

	// MonthlyFlow compares income and expenses for one calendar month.
	MonthlyFlow struct {
		Year     int
		Month    int
		Income   decimal.Decimal
		Expenses decimal.Decimal
	}

	// Report is the full analytics view for one user and period.
	Report struct {
		Period         string
		DailyTrend     []DailyAmount
		Categories     []core.CategoryAmount // descending by amount
		WeekdayPattern []WeekdayAmount       // Monday..Sunday
		MonthlyFlows   []MonthlyFlow         // chronological
		AvgDailySpend  decimal.Decimal
		SavingsRate    float64
		LargestExpense decimal.Decimal
	}
)

// periodStart returns the inclusive lower bound for a period relative to ref.
// The zero time means no bound.
func periodStart(period string, ref time.Time) (time.Time, error) {
	n := now.With(ref)
	switch period {
	case PeriodWeek:
		return n.BeginningOfWeek(), nil
	case PeriodMonth:
		return n.BeginningOfMonth(), nil
	case PeriodYear:
		return n.BeginningOfYear(), nil
	case PeriodAll, "":
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("analytics period %q is not supported", period)
	}
}

// Periods lists the supported period names.
func Periods() []string {
	return []string{PeriodWeek, PeriodMonth, PeriodYear, PeriodAll}
}

// Generate builds the analytics report for one user. ref anchors the period
// windows, normally time.Now().
func (g *Generator) Generate(ctx context.Context, email, period string, ref time.Time) (*Report, error) {
	start, err := periodStart(period, ref)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = PeriodAll
	}

	txs, err := g.store.ListTransactions(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	txs = filterAfter(txs, start)

	return buildReport(period, txs), nil
}

func filterAfter(txs []core.Transaction, after time.Time) []core.Transaction {
	if after.IsZero() {
		return txs
	}
	res := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if !t.Date.Before(after) {
			res = append(res, t)
		}
	}
	return res
}

func buildReport(period string, txs []core.Transaction) *Report {
	r := &Report{
		Period:         period,
		AvgDailySpend:  decimal.Zero,
		LargestExpense: decimal.Zero,
	}

	daily := make(map[string]decimal.Decimal)
	byCat := make(map[string]decimal.Decimal)
	byWeekday := make(map[time.Weekday]decimal.Decimal)
	flows := make(map[string]*MonthlyFlow)

	totalIncome, totalExpenses := decimal.Zero, decimal.Zero

	for _, t := range txs {
		key := monthKey(t.Date)
		flow, ok := flows[key]
		if !ok {
			flow = &MonthlyFlow{Year: t.Date.Year(), Month: int(t.Date.Month())}
			flows[key] = flow
		}
		switch t.Type {
		case core.Income:
			totalIncome = totalIncome.Add(t.Amount)
			flow.Income = flow.Income.Add(t.Amount)
		case core.Expense:
			totalExpenses = totalExpenses.Add(t.Amount)
			flow.Expenses = flow.Expenses.Add(t.Amount)
			day := t.Date.Format("2006-01-02")
			daily[day] = daily[day].Add(t.Amount)
			byCat[t.Category] = byCat[t.Category].Add(t.Amount)
			byWeekday[t.Date.Weekday()] = byWeekday[t.Date.Weekday()].Add(t.Amount)
			if t.Amount.GreaterThan(r.LargestExpense) {
				r.LargestExpense = t.Amount
			}
		}
	}

	for day, amt := range daily {
		d, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		r.DailyTrend = append(r.DailyTrend, DailyAmount{Date: d, Amount: amt})
	}
	sort.Slice(r.DailyTrend, func(i, j int) bool {
		return r.DailyTrend[i].Date.Before(r.DailyTrend[j].Date)
	})
	if len(daily) > 0 {
		r.AvgDailySpend = totalExpenses.Div(decimal.NewFromInt(int64(len(daily)))).Round(2)
	}

	for cat, amt := range byCat {
		r.Categories = append(r.Categories, core.CategoryAmount{Name: cat, Amount: amt})
	}
	sort.Slice(r.Categories, func(i, j int) bool {
		if !r.Categories[i].Amount.Equal(r.Categories[j].Amount) {
			return r.Categories[i].Amount.GreaterThan(r.Categories[j].Amount)
		}
		return r.Categories[i].Name < r.Categories[j].Name
	})

	// Monday-first, every weekday present even when zero.
	weekdays := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	for _, wd := range weekdays {
		amt := byWeekday[wd]
		if amt.IsZero() {
			amt = decimal.Zero
		}
		r.WeekdayPattern = append(r.WeekdayPattern, WeekdayAmount{Weekday: wd, Amount: amt})
	}

	for _, flow := range flows {
		r.MonthlyFlows = append(r.MonthlyFlows, *flow)
	}
	sort.Slice(r.MonthlyFlows, func(i, j int) bool {
		if r.MonthlyFlows[i].Year != r.MonthlyFlows[j].Year {
			return r.MonthlyFlows[i].Year < r.MonthlyFlows[j].Year
		}
		return r.MonthlyFlows[i].Month < r.MonthlyFlows[j].Month
	})

	if totalIncome.IsPositive() {
		r.SavingsRate = totalIncome.Sub(totalExpenses).Div(totalIncome).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return r
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
