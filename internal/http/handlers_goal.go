package http

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
	"fintrack/internal/store"
)

type goalJSON struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Target   string  `json:"target"`
	Current  string  `json:"current"`
	Progress float64 `json:"progress_pct"`
	Deadline string  `json:"deadline,omitempty"`
}

func toGoalJSON(g core.Goal) goalJSON {
	out := goalJSON{
		ID:       g.ID,
		Name:     g.Name,
		Target:   g.Target.StringFixed(2),
		Current:  g.Current.StringFixed(2),
		Progress: g.Progress(),
	}
	if !g.Deadline.IsZero() {
		out.Deadline = g.Deadline.Format("2006-01-02")
	}
	return out
}

type goalListResponse struct {
	Goals []goalJSON `json:"goals"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request, sess session.Session) {
	goals, err := s.backend.ListGoals(r.Context(), sess.Email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Goal list failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not load goals").Write(w)
		return
	}

	out := goalListResponse{Goals: []goalJSON{}}
	for _, g := range goals {
		out.Goals = append(out.Goals, toGoalJSON(g))
	}

	NewResponse().JSON(out).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request, sess session.Session) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	target, err := core.ParseAmount(parser.Get("target"))
	if err != nil {
		UnprocessableEntityError("target must be a positive number").Write(w)
		return
	}
	current := decimal.Zero
	if v := parser.Get("current"); v != "" {
		current, err = core.ParseLimit(v)
		if err != nil {
			UnprocessableEntityError("current must be a non-negative number").Write(w)
			return
		}
	}

	g := core.Goal{
		UserEmail: sess.Email,
		Name:      parser.Get("name"),
		Target:    target,
		Current:   current,
	}
	if v := parser.Get("deadline"); v != "" {
		g.Deadline, err = parseDate(v)
		if err != nil {
			UnprocessableEntityError("deadline must be YYYY-MM-DD").Write(w)
			return
		}
	}

	if err := g.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	id, err := s.backend.AddGoal(r.Context(), g)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Goal create failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not save goal").Write(w)
		return
	}
	g.ID = id

	s.invalidateDashboard(sess.UserID)
	s.logger.InfoContext(r.Context(), "Goal created",
		log.FieldUserID, sess.UserID,
		log.FieldGoalID, id)

	NewResponse().Status(http.StatusCreated).JSON(toGoalJSON(g)).Write(w)
}

// handleUpdateGoal applies a partial update: only the fields present in the
// body change.
func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request, sess session.Session) {
	id := r.PathValue("id")

	goals, err := s.backend.ListGoals(r.Context(), sess.Email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Goal list failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID)
		InternalServerError("could not load goals").Write(w)
		return
	}
	var g *core.Goal
	for i := range goals {
		if goals[i].ID == id {
			g = &goals[i]
			break
		}
	}
	if g == nil {
		NotFoundError("goal not found").Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	if parser.Has("current") {
		current, err := core.ParseLimit(parser.Get("current"))
		if err != nil {
			UnprocessableEntityError("current must be a non-negative number").Write(w)
			return
		}
		g.Current = current
	}
	if parser.Has("name") {
		g.Name = parser.Get("name")
	}
	if parser.Has("target") {
		target, err := core.ParseAmount(parser.Get("target"))
		if err != nil {
			UnprocessableEntityError("target must be a positive number").Write(w)
			return
		}
		g.Target = target
	}
	if parser.Has("deadline") {
		g.Deadline, err = parseDate(parser.Get("deadline"))
		if err != nil {
			UnprocessableEntityError("deadline must be YYYY-MM-DD").Write(w)
			return
		}
	}

	if err := g.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	if err := s.backend.UpdateGoal(r.Context(), *g); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("goal not found").Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Goal update failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID,
			log.FieldGoalID, id)
		InternalServerError("could not update goal").Write(w)
		return
	}

	s.invalidateDashboard(sess.UserID)
	NewResponse().JSON(toGoalJSON(*g)).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request, sess session.Session) {
	id := r.PathValue("id")

	err := s.backend.DeleteGoal(r.Context(), sess.Email, id)
	if errors.Is(err, store.ErrNotFound) {
		NotFoundError("goal not found").Write(w)
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Goal delete failed",
			log.FieldError, err,
			log.FieldUserID, sess.UserID,
			log.FieldGoalID, id)
		InternalServerError("could not delete goal").Write(w)
		return
	}

	s.invalidateDashboard(sess.UserID)
	NewResponse().Status(http.StatusNoContent).Write(w)
}
