package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/BRAHMISREE/conference-project/internal/app"
)

func (a *API) handleListToasts(w http.ResponseWriter, r *http.Request, s *app.Session) {
	writeJSON(w, http.StatusOK, map[string]any{"toasts": s.Toasts()})
}

func (a *API) handleDismissToast(w http.ResponseWriter, r *http.Request, s *app.Session) {
	if !s.DismissToast(r.PathValue("id")) {
		writeError(w, r, http.StatusNotFound, "toast not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleToastStream sends the session's toast events as Server-Sent Events
// until the client disconnects or the session closes.
func (a *API) handleToastStream(w http.ResponseWriter, r *http.Request, s *app.Session) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.Subscribe(r.Context())

	_, _ = w.Write([]byte(": stream started\n\n"))
	flusher.Flush()

	for event := range ch {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		_, _ = w.Write([]byte("event: " + string(event.Type) + "\ndata: "))
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}
}
