package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BRAHMISREE/conference-project/internal/app"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

type sessionHandler func(w http.ResponseWriter, r *http.Request, s *app.Session)

// withSession resolves the bearer token to its open app session.
func (a *API) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			unauthorized(w, r, err.Error())
			return
		}
		claims, err := a.tokens.Parse(token)
		if err != nil {
			unauthorized(w, r, "invalid token")
			return
		}
		s, ok := a.core.Session(claims.SessionID())
		if !ok {
			unauthorized(w, r, "session expired")
			return
		}
		if u, ok := s.CurrentUser(); !ok || u.ID != claims.Subject {
			unauthorized(w, r, "session expired")
			return
		}
		next(w, r, s)
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="confhub"`)
	writeError(w, r, http.StatusUnauthorized, msg)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if len(header) < len(bearer) || !strings.EqualFold(header[:len(bearer)], bearer) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
