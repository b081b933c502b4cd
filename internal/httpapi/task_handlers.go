package httpapi

import (
	"net/http"

	"github.com/BRAHMISREE/conference-project/internal/app"
	"github.com/BRAHMISREE/conference-project/internal/tasks"
)

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request, s *app.Session) {
	confID := r.PathValue("id")
	if _, err := s.Conference(r.Context(), confID); err != nil {
		a.fail(w, r, err)
		return
	}
	pending, done := tasks.Partition(s.ListTasks(r.Context(), tasks.Filter{ConfID: confID}))
	writeJSON(w, http.StatusOK, map[string]any{
		"pending": pending,
		"done":    done,
	})
}

func (a *API) handleAddTask(w http.ResponseWriter, r *http.Request, s *app.Session) {
	var form taskForm
	if err := decodeForm(r, &form); err != nil {
		a.reject(w, r, s, err)
		return
	}
	t, err := s.AddTask(r.Context(), r.PathValue("id"), form.Title)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (a *API) handleToggleTask(w http.ResponseWriter, r *http.Request, s *app.Session) {
	t, err := s.ToggleTask(r.Context(), r.PathValue("id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
