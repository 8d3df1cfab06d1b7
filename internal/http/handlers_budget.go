package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
)

type budgetLineJSON struct {
	Category  string  `json:"category"`
	Limit     string  `json:"limit"`
	Spent     string  `json:"spent"`
	Remaining string  `json:"remaining"`
	UsagePct  float64 `json:"usage_pct"`
	Overspent bool    `json:"overspent"`
	Warning   bool    `json:"warning"`
}

type budgetReportResponse struct {
	Year    int              `json:"year"`
	Month   int              `json:"month"`
	Budgets []budgetLineJSON `json:"budgets"`
}

func toBudgetLineJSON(l core.BudgetLine) budgetLineJSON {
	return budgetLineJSON{
		Category:  l.Category,
		Limit:     l.Limit.StringFixed(2),
		Spent:     l.Spent.StringFixed(2),
		Remaining: l.Remaining.StringFixed(2),
		UsagePct:  l.UsagePct,
		Overspent: l.Overspent,
		Warning:   l.Warning,
	}
}

// handleBudgetReport compares each category's limit with the month's spend.
func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request, sess session.Session) {
	params := ParseMonthParams(r.URL.Query(), time.Now())

	budgets, err := s.backend.ListBudgets(r.Context(), sess.Email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Budget list failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not load budgets").Write(w)
		return
	}
	txs, err := s.backend.ListTransactions(r.Context(), sess.Email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Transaction list failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not load transactions").Write(w)
		return
	}

	out := budgetReportResponse{
		Year:    params.Year,
		Month:   params.Month,
		Budgets: []budgetLineJSON{},
	}
	for _, line := range core.CompareBudgets(budgets, txs, params.Year, params.Month) {
		out.Budgets = append(out.Budgets, toBudgetLineJSON(line))
	}

	NewResponse().JSON(out).Write(w)
}

// handleUpsertBudget creates or replaces one (category, limit) pair.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request, sess session.Session) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	limit, err := core.ParseLimit(parser.Get("limit"))
	if err != nil {
		UnprocessableEntityError("limit must be a non-negative number").Write(w)
		return
	}

	b := core.Budget{
		UserEmail: sess.Email,
		Category:  parser.Get("category"),
		Limit:     limit,
	}
	if err := b.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	if err := s.backend.UpsertBudget(r.Context(), b); err != nil {
		s.logger.ErrorContext(r.Context(), "Budget upsert failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID,
			log.FieldCategory, b.Category)
		InternalServerError("could not save budget").Write(w)
		return
	}

	s.invalidateDashboard(sess.UserID)
	s.logger.InfoContext(r.Context(), "Budget updated",
		log.FieldUserID, sess.UserID,
		log.FieldCategory, b.Category,
		log.FieldAmount, b.Limit.StringFixed(2))

	NewResponse().JSON(map[string]string{
		"category": b.Category,
		"limit":    b.Limit.StringFixed(2),
	}).Write(w)
}
