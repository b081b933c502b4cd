package app

import (
	"errors"

	"github.com/BRAHMISREE/conference-project/internal/conference"
	"github.com/BRAHMISREE/conference-project/internal/identity"
	"github.com/BRAHMISREE/conference-project/internal/notify"
	"github.com/BRAHMISREE/conference-project/internal/review"
	"github.com/BRAHMISREE/conference-project/internal/tasks"
)

var messages = []struct {
	err error
	msg string
}{
	{ErrUnauthenticated, "Please sign in first."},
	{ErrSessionClosed, "Your session has ended."},
	{ErrInvalidForm, "Please check the form and try again."},
	{ErrInvalidScope, "Unknown conference filter."},
	{identity.ErrInvalidCredentials, "Invalid credentials."},
	{identity.ErrEmailTaken, "An account with this email already exists."},
	{identity.ErrNotFound, "User not found."},
	{conference.ErrNotFound, "Conference not found."},
	{conference.ErrUnknownRole, "Unknown role."},
	{conference.ErrInvalidInput, "Please complete the conference details."},
	{review.ErrScoreOutOfRange, "Score must be between 0 and 100."},
	{review.ErrInvalidDecision, "Choose whether to accept or reject the paper."},
	{review.ErrAlreadySubmitted, "You already submitted a paper to this conference."},
	{review.ErrProposalNotFound, "This decision is no longer awaiting confirmation."},
	{review.ErrNotFound, "Paper not found."},
	{review.ErrInvalidInput, "Paper title is required."},
	{tasks.ErrInvalidInput, "Task title is required."},
	{tasks.ErrNotFound, "Task not found."},
	{notify.ErrNotFound, "Notification not found."},
}

// Message turns a core error into the short text shown in an error toast.
func Message(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Something went wrong."
}
