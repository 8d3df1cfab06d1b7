package http

import (
	"net/http"
	"time"

	"fintrack/internal/log"
)

type loginResponse struct {
	Email  string `json:"email"`
	UserID string `json:"user_id"`
}

// handleLogin captures the email, issues a session token, and sets the
// session cookie. There is no password; the email is the identity.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	email := parser.Get("email")
	token, sess, err := s.sessions.Login(email)
	if err != nil {
		UnprocessableEntityError("a valid email address is required").Write(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	s.logger.InfoContext(r.Context(), "User logged in",
		log.FieldUserID, sess.UserID,
		log.FieldOperation, log.OpLogin)

	NewResponse().JSON(loginResponse{Email: sess.Email, UserID: sess.UserID}).Write(w)
}

// handleLogout destroys the session if one exists. Always succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions.Get(c.Value); ok {
			s.logger.InfoContext(r.Context(), "User logged out",
				log.FieldUserID, sess.UserID,
				log.FieldOperation, log.OpLogout)
		}
		s.sessions.Logout(c.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	NewResponse().Status(http.StatusNoContent).Write(w)
}
