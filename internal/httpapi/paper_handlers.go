package httpapi

import (
	"fmt"
	"net/http"

	"github.com/BRAHMISREE/conference-project/internal/app"
	"github.com/BRAHMISREE/conference-project/internal/review"
)

type paperView struct {
	review.Paper
	AuthorName string `json:"author_name"`
}

func (a *API) handleListPapers(w http.ResponseWriter, r *http.Request, s *app.Session) {
	confID := r.PathValue("id")
	if _, err := s.Conference(r.Context(), confID); err != nil {
		a.fail(w, r, err)
		return
	}
	f := review.Filter{ConfID: confID}
	switch status := review.Status(r.URL.Query().Get("status")); status {
	case "":
	case review.Pending, review.Accepted, review.Rejected:
		f.Status = status
	default:
		a.reject(w, r, s, fmt.Errorf("%w: status must be one of pending, accepted, rejected", app.ErrInvalidForm))
		return
	}
	papers := s.ListPapers(r.Context(), f)
	out := make([]paperView, 0, len(papers))
	for _, p := range papers {
		out = append(out, paperView{Paper: p, AuthorName: s.UserName(r.Context(), p.AuthorID)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"papers": out})
}

func (a *API) handleSubmitPaper(w http.ResponseWriter, r *http.Request, s *app.Session) {
	var form paperForm
	if err := decodeForm(r, &form); err != nil {
		a.reject(w, r, s, err)
		return
	}
	p, err := s.SubmitPaper(r.Context(), r.PathValue("id"), form.Title, form.File)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) handleMyPaper(w http.ResponseWriter, r *http.Request, s *app.Session) {
	p, ok := s.MyPaper(r.Context(), r.PathValue("id"))
	if !ok {
		a.fail(w, r, review.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) handleProposeDecision(w http.ResponseWriter, r *http.Request, s *app.Session) {
	var form decisionForm
	if err := decodeForm(r, &form); err != nil {
		a.reject(w, r, s, err)
		return
	}
	outcome, score, err := form.parse()
	if err != nil {
		a.reject(w, r, s, err)
		return
	}
	prop, err := s.ProposeDecision(r.Context(), r.PathValue("id"), outcome, score, form.Feedback)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, prop)
}

func (a *API) handlePaperHistory(w http.ResponseWriter, r *http.Request, s *app.Session) {
	history, err := s.PaperHistory(r.Context(), r.PathValue("id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"decisions": history})
}

func (a *API) handleCommitDecision(w http.ResponseWriter, r *http.Request, s *app.Session) {
	p, err := s.CommitDecision(r.Context(), r.PathValue("id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) handleDiscardDecision(w http.ResponseWriter, r *http.Request, s *app.Session) {
	if err := s.DiscardDecision(r.Context(), r.PathValue("id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
