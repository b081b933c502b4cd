package httpapi

import (
	"fmt"
	"net/http"

	"github.com/BRAHMISREE/conference-project/internal/app"
	"github.com/BRAHMISREE/conference-project/internal/conference"
)

type conferenceView struct {
	conference.Conference
	MyRole        conference.Role          `json:"my_role,omitempty"`
	Capabilities  conference.Capabilities `json:"capabilities"`
	OrganizerName string                  `json:"organizer_name"`
}

func (a *API) conferenceView(r *http.Request, s *app.Session, c conference.Conference) conferenceView {
	v := conferenceView{Conference: c, OrganizerName: s.UserName(r.Context(), c.OrganizerID)}
	if u, ok := s.CurrentUser(); ok {
		v.MyRole, _ = app.RoleFor(c, &u)
		v.Capabilities = v.MyRole.Capabilities()
	}
	return v
}

func (a *API) handleListConferences(w http.ResponseWriter, r *http.Request, s *app.Session) {
	scope, err := app.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	list, err := s.ListConferences(r.Context(), scope)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]conferenceView, 0, len(list))
	for _, c := range list {
		out = append(out, a.conferenceView(r, s, c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"conferences": out})
}

func (a *API) handleCreateConference(w http.ResponseWriter, r *http.Request, s *app.Session) {
	var form conferenceForm
	if err := decodeForm(r, &form); err != nil {
		a.reject(w, r, s, err)
		return
	}
	draft, err := form.draft()
	if err != nil {
		a.reject(w, r, s, err)
		return
	}
	c, err := s.CreateConference(r.Context(), draft)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/conferences/%s", c.ID))
	writeJSON(w, http.StatusCreated, a.conferenceView(r, s, c))
}

func (a *API) handleGetConference(w http.ResponseWriter, r *http.Request, s *app.Session) {
	c, err := s.Conference(r.Context(), r.PathValue("id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.conferenceView(r, s, c))
}

func (a *API) handleConferenceStats(w http.ResponseWriter, r *http.Request, s *app.Session) {
	st, err := s.ConferenceStats(r.Context(), r.PathValue("id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *API) handleAssignRole(w http.ResponseWriter, r *http.Request, s *app.Session) {
	var form roleForm
	if err := decodeForm(r, &form); err != nil {
		a.reject(w, r, s, err)
		return
	}
	c, err := s.AssignRole(r.Context(), r.PathValue("id"), r.PathValue("userID"), form.Role)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.conferenceView(r, s, c))
}
