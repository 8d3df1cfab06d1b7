package http

import (
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
)

type profileJSON struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	MemberSince string `json:"member_since"`
	Currency    string `json:"currency"`
	Language    string `json:"language"`
}

type accountStatsJSON struct {
	TransactionCount int    `json:"transaction_count"`
	TotalIncome      string `json:"total_income"`
	TotalExpenses    string `json:"total_expenses"`
	NetPosition      string `json:"net_position"`
}

type profileResponse struct {
	Profile profileJSON      `json:"profile"`
	Stats   accountStatsJSON `json:"stats"`
}

func toProfileJSON(p core.Profile) profileJSON {
	return profileJSON{
		Email:       p.UserEmail,
		Name:        p.Name,
		MemberSince: p.MemberSince.Format("2006-01-02"),
		Currency:    p.Currency,
		Language:    p.Language,
	}
}

// handleGetProfile returns the profile plus lifetime account statistics.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, sess session.Session) {
	var (
		profile core.Profile
		txs     []core.Transaction
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		profile, err = s.backend.GetProfile(ctx, sess.Email)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.backend.ListTransactions(ctx, sess.Email)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(r.Context(), "Profile load failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not load profile").Write(w)
		return
	}

	income, expenses := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expenses = expenses.Add(t.Amount)
		}
	}

	NewResponse().JSON(profileResponse{
		Profile: toProfileJSON(profile),
		Stats: accountStatsJSON{
			TransactionCount: len(txs),
			TotalIncome:      income.StringFixed(2),
			TotalExpenses:    expenses.StringFixed(2),
			NetPosition:      income.Sub(expenses).StringFixed(2),
		},
	}).Write(w)
}

// handleUpdateProfile changes the display name. Email and member-since are
// immutable.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, sess session.Session) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	name := parser.Get("name")
	if name == "" {
		UnprocessableEntityError("name must not be empty").Write(w)
		return
	}

	profile, err := s.backend.GetProfile(r.Context(), sess.Email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Profile load failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not load profile").Write(w)
		return
	}

	profile.Name = name
	if v := parser.Get("currency"); v != "" {
		profile.Currency = v
	}
	if v := parser.Get("language"); v != "" {
		profile.Language = v
	}

	if err := s.backend.SaveProfile(r.Context(), profile); err != nil {
		s.logger.ErrorContext(r.Context(), "Profile save failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not save profile").Write(w)
		return
	}

	s.logger.InfoContext(r.Context(), "Profile updated",
		log.FieldUserID, sess.UserID,
		log.FieldOperation, log.OpUpdate)

	NewResponse().JSON(toProfileJSON(profile)).Write(w)
}
