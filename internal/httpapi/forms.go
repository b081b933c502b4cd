package httpapi

import (
	"fmt"
	"strings"

	"github.com/BRAHMISREE/conference-project/internal/app"
	"github.com/BRAHMISREE/conference-project/internal/conference"
	"github.com/BRAHMISREE/conference-project/internal/review"
)

const minPasswordLen = 3

type credentialsForm struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f *credentialsForm) validate(register bool) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	if f.Email == "" || f.Password == "" {
		return fmt.Errorf("%w: email and password are required", app.ErrInvalidForm)
	}
	if register && f.Name == "" {
		return fmt.Errorf("%w: full name is required", app.ErrInvalidForm)
	}
	if len(f.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", app.ErrInvalidForm, minPasswordLen)
	}
	return nil
}

type conferenceForm struct {
	Name        string `json:"name"`
	Theme       string `json:"theme"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Template    string `json:"template"`
	Banner      string `json:"banner"`
}

func (f conferenceForm) draft() (conference.Draft, error) {
	tmpl, err := conference.ParseTemplate(f.Template)
	if err != nil {
		return conference.Draft{}, err
	}
	d := conference.Draft{
		Name:        strings.TrimSpace(f.Name),
		Theme:       strings.TrimSpace(f.Theme),
		Location:    strings.TrimSpace(f.Location),
		Date:        strings.TrimSpace(f.Date),
		Description: strings.TrimSpace(f.Description),
		Template:    tmpl,
		Banner:      strings.TrimSpace(f.Banner),
	}
	return d, d.Validate()
}

type paperForm struct {
	Title string `json:"title"`
	File  string `json:"file"`
}

type decisionForm struct {
	Outcome  string `json:"outcome"`
	Score    *int   `json:"score"`
	Feedback string `json:"feedback"`
}

func (f decisionForm) parse() (review.Status, int, error) {
	outcome, err := review.ParseOutcome(strings.ToLower(strings.TrimSpace(f.Outcome)))
	if err != nil {
		return "", 0, err
	}
	if f.Score == nil {
		return "", 0, fmt.Errorf("%w: score is required", app.ErrInvalidForm)
	}
	return outcome, *f.Score, nil
}

type taskForm struct {
	Title string `json:"title"`
}

type roleForm struct {
	Role string `json:"role"`
}
