package review

import (
	"errors"
	"time"
)

// Status is a paper's position in the review lifecycle. Pending is the only
// initial state; Accepted and Rejected are terminal.
type Status string

const (
	Pending  Status = "pending"
	Accepted Status = "accepted"
	Rejected Status = "rejected"
)

func (s Status) Terminal() bool {
	switch s {
	case Accepted, Rejected:
		return true
	case Pending:
		return false
	default:
		return false
	}
}

// ParseOutcome accepts the two terminal statuses a reviewer may decide.
func ParseOutcome(raw string) (Status, error) {
	switch s := Status(raw); s {
	case Accepted, Rejected:
		return s, nil
	default:
		return "", ErrInvalidDecision
	}
}

const (
	MinScore = 0
	MaxScore = 100

	// DefaultFile names the manuscript when the submitter gives none.
	DefaultFile = "manuscript.pdf"
)

var (
	ErrNotFound         = errors.New("review: paper not found")
	ErrInvalidInput     = errors.New("review: invalid input")
	ErrInvalidDecision  = errors.New("review: decision must be accepted or rejected")
	ErrScoreOutOfRange  = errors.New("review: score must be between 0 and 100")
	ErrAlreadySubmitted = errors.New("review: author already submitted to this conference")
	ErrProposalNotFound = errors.New("review: proposal not found")
)

// Paper is a submission. ReviewScore, Feedback and ReviewedAt stay unset
// while the paper is pending and always change together with Status: they
// project the latest committed Decision.
type Paper struct {
	ID          string     `json:"id"`
	ConfID      string     `json:"conf_id"`
	Title       string     `json:"title"`
	AuthorID    string     `json:"author_id"`
	Status      Status     `json:"status"`
	File        string     `json:"file"`
	ReviewScore *int       `json:"review_score"`
	Feedback    *string    `json:"feedback"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

func (p Paper) clone() Paper {
	out := p
	if p.ReviewScore != nil {
		v := *p.ReviewScore
		out.ReviewScore = &v
	}
	if p.Feedback != nil {
		v := *p.Feedback
		out.Feedback = &v
	}
	if p.ReviewedAt != nil {
		v := *p.ReviewedAt
		out.ReviewedAt = &v
	}
	return out
}

// Decision is one entry in a paper's append-only review log.
type Decision struct {
	ID         string    `json:"id"`
	PaperID    string    `json:"paper_id"`
	ReviewerID string    `json:"reviewer_id"`
	Outcome    Status    `json:"outcome"`
	Score      int       `json:"score"`
	Feedback   string    `json:"feedback"`
	DecidedAt  time.Time `json:"decided_at"`
}

// Proposal is a validated decision waiting for confirmation.
type Proposal struct {
	ID         string    `json:"id"`
	PaperID    string    `json:"paper_id"`
	ReviewerID string    `json:"reviewer_id"`
	Outcome    Status    `json:"outcome"`
	Score      int       `json:"score"`
	Feedback   string    `json:"feedback"`
	ProposedAt time.Time `json:"proposed_at"`
}

// Filter selects papers in List. Zero fields match everything.
type Filter struct {
	ConfID   string
	AuthorID string
	Status   Status
}

func (f Filter) match(p *Paper) bool {
	if f.ConfID != "" && p.ConfID != f.ConfID {
		return false
	}
	if f.AuthorID != "" && p.AuthorID != f.AuthorID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	return true
}
