package httpapi

import (
	"net/http"

	"github.com/BRAHMISREE/conference-project/internal/app"
)

func (a *API) handleListNotifications(w http.ResponseWriter, r *http.Request, s *app.Session) {
	list, err := s.ListNotifications(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": list,
		"unread":        s.UnreadCount(r.Context()),
	})
}

func (a *API) handleMarkRead(w http.ResponseWriter, r *http.Request, s *app.Session) {
	n, err := s.MarkNotificationRead(r.Context(), r.PathValue("id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
