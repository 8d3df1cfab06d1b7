package http

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/session"
)

type categoryJSON struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type quickStatsJSON struct {
	LargestExpense       string `json:"largest_expense"`
	MostFrequentCategory string `json:"most_frequent_category,omitempty"`
	DaysUntilSalary      int    `json:"days_until_salary"`
}

// DashboardResponse is the aggregated month view. It is the unit the
// dashboard cache stores.
type DashboardResponse struct {
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	Income      string           `json:"income"`
	Expenses    string           `json:"expenses"`
	Savings     string           `json:"savings"`
	SavingsRate float64          `json:"savings_rate"`
	ByCategory  []categoryJSON   `json:"by_category"`
	Budgets     []budgetLineJSON `json:"budgets"`
	Goals       []goalJSON       `json:"goals"`
	QuickStats  quickStatsJSON   `json:"quick_stats"`
}

func dashboardKey(userID string, year, month int) string {
	return fmt.Sprintf("%s:%d-%d", userID, year, month)
}

// handleDashboard aggregates the caller's month: totals, budget comparison,
// goal progress, and quick stats. Store fetches run concurrently and the
// result is cached per (user, year, month).
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, sess session.Session) {
	params := ParseMonthParams(r.URL.Query(), time.Now())
	key := dashboardKey(sess.UserID, params.Year, params.Month)

	if cached, ok := s.dashCache.Get(key); ok {
		s.metrics.cacheHits.Inc()
		s.logger.DebugContext(r.Context(), "Dashboard cache hit",
			log.FieldUserID, sess.UserID,
			log.FieldYear, params.Year,
			log.FieldMonth, params.Month)
		NewResponse().JSON(cached).Write(w)
		return
	}
	s.metrics.cacheMisses.Inc()

	var (
		txs     []core.Transaction
		budgets []core.Budget
		goals   []core.Goal
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		txs, err = s.backend.ListTransactions(ctx, sess.Email)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.backend.ListBudgets(ctx, sess.Email)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.backend.ListGoals(ctx, sess.Email)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(r.Context(), "Dashboard aggregation failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not load dashboard").Write(w)
		return
	}

	summary := core.SummarizeMonth(txs, params.Year, params.Month)
	monthTxs := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.InMonth(params.Year, params.Month) {
			monthTxs = append(monthTxs, t)
		}
	}

	resp := DashboardResponse{
		Year:        summary.Year,
		Month:       summary.Month,
		Income:      summary.Income.StringFixed(2),
		Expenses:    summary.Expenses.StringFixed(2),
		Savings:     summary.Savings.StringFixed(2),
		SavingsRate: summary.SavingsRate,
		ByCategory:  []categoryJSON{},
		Budgets:     []budgetLineJSON{},
		Goals:       []goalJSON{},
		QuickStats: quickStatsJSON{
			LargestExpense:       core.LargestExpense(monthTxs).StringFixed(2),
			MostFrequentCategory: core.MostFrequentCategory(monthTxs),
			DaysUntilSalary:      core.DaysUntilSalary(time.Now()),
		},
	}
	for _, c := range summary.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryJSON{Name: c.Name, Amount: c.Amount.StringFixed(2)})
	}
	for _, line := range core.CompareBudgets(budgets, txs, params.Year, params.Month) {
		resp.Budgets = append(resp.Budgets, toBudgetLineJSON(line))
	}
	for _, goal := range goals {
		resp.Goals = append(resp.Goals, toGoalJSON(goal))
	}

	s.dashCache.Set(key, resp)
	NewResponse().JSON(resp).Write(w)
}

type dailyPointJSON struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

type weekdayJSON struct {
	Weekday string `json:"weekday"`
	Amount  string `json:"amount"`
}

type monthlyFlowJSON struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
}

type analyticsResponse struct {
	Period         string            `json:"period"`
	DailyTrend     []dailyPointJSON  `json:"daily_trend"`
	Categories     []categoryJSON    `json:"categories"`
	WeekdayPattern []weekdayJSON     `json:"weekday_pattern"`
	MonthlyFlows   []monthlyFlowJSON `json:"monthly_flows"`
	AvgDailySpend  string            `json:"avg_daily_spend"`
	SavingsRate    float64           `json:"savings_rate"`
	LargestExpense string            `json:"largest_expense"`
}

func toAnalyticsResponse(rep *report.Report) analyticsResponse {
	out := analyticsResponse{
		Period:         rep.Period,
		DailyTrend:     []dailyPointJSON{},
		Categories:     []categoryJSON{},
		WeekdayPattern: []weekdayJSON{},
		MonthlyFlows:   []monthlyFlowJSON{},
		AvgDailySpend:  rep.AvgDailySpend.StringFixed(2),
		SavingsRate:    rep.SavingsRate,
		LargestExpense: rep.LargestExpense.StringFixed(2),
	}
	for _, p := range rep.DailyTrend {
		out.DailyTrend = append(out.DailyTrend, dailyPointJSON{
			Date:   p.Date.Format("2006-01-02"),
			Amount: p.Amount.StringFixed(2),
		})
	}
	for _, c := range rep.Categories {
		out.Categories = append(out.Categories, categoryJSON{Name: c.Name, Amount: c.Amount.StringFixed(2)})
	}
	for _, wd := range rep.WeekdayPattern {
		out.WeekdayPattern = append(out.WeekdayPattern, weekdayJSON{
			Weekday: wd.Weekday.String(),
			Amount:  wd.Amount.StringFixed(2),
		})
	}
	for _, f := range rep.MonthlyFlows {
		out.MonthlyFlows = append(out.MonthlyFlows, monthlyFlowJSON{
			Year:     f.Year,
			Month:    f.Month,
			Income:   f.Income.StringFixed(2),
			Expenses: f.Expenses.StringFixed(2),
		})
	}
	return out
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request, sess session.Session) {
	period := r.URL.Query().Get("period")
	if !validPeriod(period) {
		UnprocessableEntityError(fmt.Sprintf("period must be one of %v", report.Periods())).Write(w)
		return
	}

	rep, err := s.reports.Generate(r.Context(), sess.Email, period, time.Now())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Analytics generation failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not build analytics").Write(w)
		return
	}

	NewResponse().JSON(toAnalyticsResponse(rep)).Write(w)
}

func validPeriod(period string) bool {
	if period == "" {
		return true
	}
	for _, p := range report.Periods() {
		if p == period {
			return true
		}
	}
	return false
}

type insightsResponse struct {
	Insights []report.Insight `json:"insights"`
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request, sess session.Session) {
	insights, err := s.reports.Insights(r.Context(), sess.Email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Insights generation failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not build insights").Write(w)
		return
	}
	if insights == nil {
		insights = []report.Insight{}
	}

	NewResponse().JSON(insightsResponse{Insights: insights}).Write(w)
}
