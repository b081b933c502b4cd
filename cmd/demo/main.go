// Command demo walks the seeded conference through a full review cycle
// in-process and fails loudly if any step misbehaves.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BRAHMISREE/conference-project/internal/app"
	"github.com/BRAHMISREE/conference-project/internal/conference"
	"github.com/BRAHMISREE/conference-project/internal/logging"
	"github.com/BRAHMISREE/conference-project/internal/review"
	"github.com/BRAHMISREE/conference-project/internal/toast"
)

func main() {
	ctx := context.Background()
	logger := logging.NewJSON(os.Stderr, os.Getenv("CONFHUB_LOG_LEVEL"))

	core := app.New(
		app.WithLogger(logger),
		app.WithLatency(0),
		app.WithToastCue(func(t toast.Toast) {
			fmt.Printf("  [%s] %s\n", t.Kind, t.Message)
		}),
	)
	defer core.Shutdown(ctx)
	if err := core.Seed(ctx); err != nil {
		log.Fatalf("seed: %v", err)
	}

	alice := login(ctx, core, app.DemoOrganizer)
	conf, err := alice.CreateConference(ctx, conference.Draft{
		Name:     "Distributed Systems Forum",
		Theme:    "Consensus in practice",
		Location: "Lisbon",
		Date:     "2025-09-20",
	})
	if err != nil {
		log.Fatalf("create conference: %v", err)
	}
	if role, _ := alice.RoleFor(ctx, conf.ID); role != conference.Organizer {
		log.Fatalf("creator role = %q, want organizer", role)
	}

	charlie := login(ctx, core, app.DemoPresenter)
	paper, err := charlie.SubmitPaper(ctx, conf.ID, "Raft under partitions", "")
	if err != nil {
		log.Fatalf("submit: %v", err)
	}

	if _, err := alice.AssignRole(ctx, conf.ID, "u2", string(conference.Reviewer)); err != nil {
		log.Fatalf("assign reviewer: %v", err)
	}

	bob := login(ctx, core, app.DemoReviewer)
	prop, err := bob.ProposeDecision(ctx, paper.ID, review.Accepted, 87, "Clear and well evaluated")
	if err != nil {
		log.Fatalf("propose: %v", err)
	}
	decided, err := bob.CommitDecision(ctx, prop.ID)
	if err != nil {
		log.Fatalf("commit: %v", err)
	}
	if decided.Status != review.Accepted || decided.ReviewScore == nil || *decided.ReviewScore != 87 {
		log.Fatalf("unexpected paper after review: %+v", decided)
	}

	notes, err := charlie.ListNotifications(ctx)
	if err != nil {
		log.Fatalf("notifications: %v", err)
	}
	found := false
	for _, n := range notes {
		if strings.Contains(n.Message, "accepted") {
			found = true
		}
	}
	if !found {
		log.Fatalf("author was not told about the decision")
	}

	stats, err := alice.ConferenceStats(ctx, conf.ID)
	if err != nil {
		log.Fatalf("stats: %v", err)
	}
	fmt.Printf("demo passed: conference=%s papers=%d accepted=%d reviewers=%d\n",
		conf.ID, stats.TotalPapers, stats.AcceptedPapers, stats.Members[conference.Reviewer])
}

func login(ctx context.Context, core *app.App, email string) *app.Session {
	s := core.NewSession()
	u, err := s.Login(ctx, email, app.DemoPassword)
	if err != nil {
		log.Fatalf("login %s: %v", email, err)
	}
	fmt.Printf("%s signed in\n", u.Name)
	return s
}
