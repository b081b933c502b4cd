package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/BRAHMISREE/conference-project/internal/app"
	"github.com/BRAHMISREE/conference-project/internal/conference"
	"github.com/BRAHMISREE/conference-project/internal/identity"
	"github.com/BRAHMISREE/conference-project/internal/notify"
	"github.com/BRAHMISREE/conference-project/internal/review"
	"github.com/BRAHMISREE/conference-project/internal/tasks"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

// decodeForm is decodeJSON for requests made inside a session: malformed
// bodies count as form errors.
func decodeForm(r *http.Request, dst any) error {
	if err := decodeJSON(r, dst); err != nil {
		return fmt.Errorf("%w: %v", app.ErrInvalidForm, err)
	}
	return nil
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// statusFor maps core sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidForm),
		errors.Is(err, app.ErrInvalidScope),
		errors.Is(err, identity.ErrInvalidInput),
		errors.Is(err, conference.ErrInvalidInput),
		errors.Is(err, conference.ErrUnknownRole),
		errors.Is(err, review.ErrInvalidInput),
		errors.Is(err, review.ErrInvalidDecision),
		errors.Is(err, review.ErrScoreOutOfRange),
		errors.Is(err, tasks.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrUnauthenticated),
		errors.Is(err, app.ErrSessionClosed),
		errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrNotFound),
		errors.Is(err, conference.ErrNotFound),
		errors.Is(err, review.ErrNotFound),
		errors.Is(err, review.ErrProposalNotFound),
		errors.Is(err, tasks.ErrNotFound),
		errors.Is(err, notify.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, identity.ErrEmailTaken),
		errors.Is(err, review.ErrAlreadySubmitted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// reject reports a failure found in the adapter through the session's toast
// channel before answering, so it reads like any core failure.
func (a *API) reject(w http.ResponseWriter, r *http.Request, s *app.Session, err error) {
	a.fail(w, r, s.Reject(r.Context(), err))
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		a.log.Error(r.Context(), "request failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, code, "internal error")
		return
	}
	payload := map[string]any{
		"error":   err.Error(),
		"message": app.Message(err),
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}
