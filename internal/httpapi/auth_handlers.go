package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/BRAHMISREE/conference-project/internal/app"
	"github.com/BRAHMISREE/conference-project/internal/identity"
	"github.com/BRAHMISREE/conference-project/internal/toast"
)

type sessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      identity.User `json:"user"`
	Toasts    []toast.Toast `json:"toasts"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form credentialsForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.validate(false); err != nil {
		a.fail(w, r, err)
		return
	}
	a.openSession(w, r, http.StatusOK, func(ctx context.Context, s *app.Session) (identity.User, error) {
		return s.Login(ctx, form.Email, form.Password)
	})
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form credentialsForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.validate(true); err != nil {
		a.fail(w, r, err)
		return
	}
	a.openSession(w, r, http.StatusCreated, func(ctx context.Context, s *app.Session) (identity.User, error) {
		return s.Register(ctx, form.Name, form.Email, form.Password)
	})
}

// openSession runs signIn on a fresh session and issues its token. The
// session lapses with the token and is discarded when signing in fails.
func (a *API) openSession(w http.ResponseWriter, r *http.Request, code int, signIn func(context.Context, *app.Session) (identity.User, error)) {
	s := a.core.NewSession()
	u, err := signIn(r.Context(), s)
	if err != nil {
		s.Close()
		a.fail(w, r, err)
		return
	}
	token, expiresAt, err := a.tokens.Issue(s.ID(), u.ID)
	if err != nil {
		s.Close()
		a.fail(w, r, err)
		return
	}
	s.ExpireAt(expiresAt)
	writeJSON(w, code, sessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      u,
		Toasts:    s.Toasts(),
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request, s *app.Session) {
	s.Logout(r.Context())
	s.Close()
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request, s *app.Session) {
	u, _ := s.CurrentUser()
	writeJSON(w, http.StatusOK, map[string]any{
		"user":   u,
		"unread": s.UnreadCount(r.Context()),
	})
}

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request, s *app.Session) {
	users, err := s.Users(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}
