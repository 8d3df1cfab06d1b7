package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
	"fintrack/internal/store"
)

type transactionJSON struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Note      string `json:"note,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	out := transactionJSON{
		ID:       t.ID,
		Type:     string(t.Type),
		Category: t.Category,
		Amount:   t.Amount.StringFixed(2),
		Date:     t.Date.Format("2006-01-02"),
		Note:     t.Note,
	}
	if t.Type == core.Income {
		out.Frequency = string(t.Frequency)
	}
	return out
}

// parseDate accepts the date formats clients actually send.
func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if d, err := time.Parse(layout, value); err == nil {
			return d, nil
		}
	}
	return time.Time{}, core.ErrInvalidDate
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, sess session.Session) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	amount, err := core.ParseAmount(parser.Get("amount"))
	if err != nil {
		UnprocessableEntityError("amount must be a positive number").Write(w)
		return
	}

	date := time.Now()
	if v := parser.Get("date"); v != "" {
		date, err = parseDate(v)
		if err != nil {
			UnprocessableEntityError("date must be YYYY-MM-DD").Write(w)
			return
		}
	}

	t := core.Transaction{
		UserEmail: sess.Email,
		Type:      core.TransactionType(parser.Get("type")),
		Category:  parser.Get("category"),
		Amount:    amount,
		Date:      date,
		Note:      parser.Get("note"),
	}
	if t.Type == core.Income {
		t.Frequency = core.OneTime
		if v := parser.Get("frequency"); v != "" {
			t.Frequency = core.Frequency(v)
		}
	}

	if err := t.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	id, err := s.backend.AddTransaction(r.Context(), t)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Transaction create failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not save transaction").Write(w)
		return
	}
	t.ID = id

	s.invalidateDashboard(sess.UserID)
	s.logger.InfoContext(r.Context(), "Transaction created",
		log.FieldUserID, sess.UserID,
		log.FieldTransactionID, id,
		log.FieldTxType, string(t.Type),
		log.FieldCategory, t.Category,
		log.FieldAmount, t.Amount.StringFixed(2))

	NewResponse().Status(http.StatusCreated).JSON(toTransactionJSON(t)).Write(w)
}

type transactionListResponse struct {
	Transactions []transactionJSON `json:"transactions"`
	Count        int               `json:"count"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, sess session.Session) {
	txs, err := s.backend.ListTransactions(r.Context(), sess.Email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Transaction list failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not load transactions").Write(w)
		return
	}

	query := r.URL.Query()
	typeFilter := query.Get("type")
	yearFilter, _ := strconv.Atoi(query.Get("year"))
	monthFilter, _ := strconv.Atoi(query.Get("month"))

	out := transactionListResponse{Transactions: []transactionJSON{}}
	for _, t := range txs {
		if typeFilter != "" && string(t.Type) != typeFilter {
			continue
		}
		if yearFilter != 0 && t.Date.Year() != yearFilter {
			continue
		}
		if monthFilter != 0 && int(t.Date.Month()) != monthFilter {
			continue
		}
		out.Transactions = append(out.Transactions, toTransactionJSON(t))
	}
	out.Count = len(out.Transactions)

	NewResponse().JSON(out).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, sess session.Session) {
	id := r.PathValue("id")

	err := s.backend.DeleteTransaction(r.Context(), sess.Email, id)
	if errors.Is(err, store.ErrNotFound) {
		NotFoundError("transaction not found").Write(w)
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Transaction delete failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID,
			log.FieldTransactionID, id)
		InternalServerError("could not delete transaction").Write(w)
		return
	}

	s.invalidateDashboard(sess.UserID)
	s.logger.InfoContext(r.Context(), "Transaction deleted",
		log.FieldUserID, sess.UserID,
		log.FieldTransactionID, id,
		log.FieldOperation, log.OpDelete)

	NewResponse().Status(http.StatusNoContent).Write(w)
}
