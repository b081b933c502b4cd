package app

import (
	"context"
	"fmt"

	"github.com/BRAHMISREE/conference-project/internal/conference"
	"github.com/BRAHMISREE/conference-project/internal/identity"
	"github.com/BRAHMISREE/conference-project/internal/review"
	"github.com/BRAHMISREE/conference-project/internal/tasks"
)

// Demo accounts loaded by Seed. They all share the password "123".
const (
	DemoOrganizer = "alice@test.com"
	DemoReviewer  = "bob@test.com"
	DemoPresenter = "charlie@test.com"
	DemoPassword  = "123"
)

// Seed loads the bundled demo data: three users, one conference with a role
// for each, a pending paper and an open task.
func (a *App) Seed(ctx context.Context) error {
	err := a.users.Seed(ctx,
		identity.User{ID: "u1", Name: "Dr. Alice Admin", Email: DemoOrganizer, Password: DemoPassword},
		identity.User{ID: "u2", Name: "Bob Reviewer", Email: DemoReviewer, Password: DemoPassword},
		identity.User{ID: "u3", Name: "Charlie Presenter", Email: DemoPresenter, Password: DemoPassword},
	)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	err = a.conferences.Seed(ctx, conference.Conference{
		ID:          "c1",
		Name:        "Global AI Summit 2024",
		Theme:       "Artificial Intelligence & Ethics",
		Location:    "San Francisco, CA",
		Date:        "2024-10-15",
		Description: "The premier conference for AI safety and future tech.",
		Template:    conference.TemplateModern,
		Banner:      "https://images.unsplash.com/photo-1620641788421-7a1c342ea42e?auto=format&fit=crop&q=80&w=2000",
		OrganizerID: "u1",
		Roles: map[string]conference.Role{
			"u1": conference.Organizer,
			"u2": conference.Reviewer,
			"u3": conference.Presenter,
		},
	})
	if err != nil {
		return fmt.Errorf("seed conferences: %w", err)
	}

	err = a.papers.Seed(ctx, review.Paper{
		ID:       "p1",
		ConfID:   "c1",
		Title:    "Neural Nets in 2025",
		AuthorID: "u3",
		Status:   review.Pending,
		File:     "draft.pdf",
	})
	if err != nil {
		return fmt.Errorf("seed papers: %w", err)
	}

	err = a.tasks.Seed(ctx, tasks.Task{
		ID:       "t1",
		ConfID:   "c1",
		Title:    "Book Keynote Speaker",
		Team:     "logistics",
		Status:   tasks.Pending,
		Assignee: "u1",
	})
	if err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}

	a.log.Info(ctx, "demo data loaded", "users", a.users.Len(), "conferences", a.conferences.Len())
	return nil
}
