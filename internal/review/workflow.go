// Package review drives papers through the submission and review lifecycle.
package review

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BRAHMISREE/conference-project/internal/ids"
)

// Workflow is the in-memory paper store and state machine.
//
// Decisions are two-phase: Propose validates without touching the paper,
// Commit applies a proposal exactly once. Every commit is appended to the
// paper's decision log; re-reviewing a terminal paper replaces the projected
// fields but keeps the earlier decisions in History.
type Workflow struct {
	mu        sync.RWMutex
	papers    []*Paper
	byID      map[string]*Paper
	byAuthor  map[authorKey]string
	history   map[string][]Decision
	proposals map[string]Proposal

	newPaperID    ids.Generator
	newDecisionID ids.Generator
	newProposalID ids.Generator
	now           func() time.Time
}

type authorKey struct {
	confID   string
	authorID string
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithIDs overrides the paper id generator.
func WithIDs(gen ids.Generator) Option {
	return func(w *Workflow) {
		if gen != nil {
			w.newPaperID = gen
		}
	}
}

// WithProposalIDs overrides the proposal id generator.
func WithProposalIDs(gen ids.Generator) Option {
	return func(w *Workflow) {
		if gen != nil {
			w.newProposalID = gen
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(w *Workflow) {
		if fn != nil {
			w.now = fn
		}
	}
}

func NewWorkflow(opts ...Option) *Workflow {
	w := &Workflow{
		byID:          make(map[string]*Paper),
		byAuthor:      make(map[authorKey]string),
		history:       make(map[string][]Decision),
		proposals:     make(map[string]Proposal),
		newPaperID:    ids.For(ids.PrefixPaper),
		newDecisionID: ids.For(ids.PrefixDecision),
		newProposalID: ids.For(ids.PrefixProposal),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Submit creates a pending paper. An author may hold one paper per
// conference.
func (w *Workflow) Submit(ctx context.Context, confID, authorID, title, file string) (Paper, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Paper{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if confID == "" || authorID == "" {
		return Paper{}, fmt.Errorf("%w: conference and author are required", ErrInvalidInput)
	}
	file = strings.TrimSpace(file)
	if file == "" {
		file = DefaultFile
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	key := authorKey{confID: confID, authorID: authorID}
	if _, ok := w.byAuthor[key]; ok {
		return Paper{}, ErrAlreadySubmitted
	}
	p := &Paper{
		ID:          w.newPaperID(),
		ConfID:      confID,
		Title:       title,
		AuthorID:    authorID,
		Status:      Pending,
		File:        file,
		SubmittedAt: w.now().UTC(),
	}
	w.insert(p)
	return p.clone(), nil
}

// Seed stores bundled papers as given. Terminal seeded papers get a decision
// log entry so History stays consistent with the projection.
func (w *Workflow) Seed(ctx context.Context, papers ...Paper) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range papers {
		if p.ID == "" {
			return fmt.Errorf("%w: seeded paper needs an id", ErrInvalidInput)
		}
		if _, ok := w.byID[p.ID]; ok {
			return fmt.Errorf("%w: duplicate paper id %q", ErrInvalidInput, p.ID)
		}
		key := authorKey{confID: p.ConfID, authorID: p.AuthorID}
		if _, ok := w.byAuthor[key]; ok {
			return ErrAlreadySubmitted
		}
		if p.Status == "" {
			p.Status = Pending
		}
		if p.SubmittedAt.IsZero() {
			p.SubmittedAt = w.now().UTC()
		}
		stored := p.clone()
		if stored.Status.Terminal() {
			if stored.ReviewScore == nil || stored.ReviewedAt == nil {
				return fmt.Errorf("%w: decided paper %s needs score and review time", ErrInvalidInput, p.ID)
			}
			d := Decision{
				ID:        w.newDecisionID(),
				PaperID:   stored.ID,
				Outcome:   stored.Status,
				Score:     *stored.ReviewScore,
				DecidedAt: *stored.ReviewedAt,
			}
			if stored.Feedback != nil {
				d.Feedback = *stored.Feedback
			}
			w.history[stored.ID] = append(w.history[stored.ID], d)
		}
		w.insert(&stored)
	}
	return nil
}

// Propose validates a decision for paperID without mutating it.
func (w *Workflow) Propose(ctx context.Context, reviewerID, paperID string, outcome Status, score int, feedback string) (Proposal, error) {
	if _, err := ParseOutcome(string(outcome)); err != nil {
		return Proposal{}, err
	}
	if score < MinScore || score > MaxScore {
		return Proposal{}, fmt.Errorf("%w: got %d", ErrScoreOutOfRange, score)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.byID[paperID]; !ok {
		return Proposal{}, ErrNotFound
	}
	prop := Proposal{
		ID:         w.newProposalID(),
		PaperID:    paperID,
		ReviewerID: reviewerID,
		Outcome:    outcome,
		Score:      score,
		Feedback:   strings.TrimSpace(feedback),
		ProposedAt: w.now().UTC(),
	}
	w.proposals[prop.ID] = prop
	return prop, nil
}

// Proposal returns a pending proposal.
func (w *Workflow) Proposal(ctx context.Context, proposalID string) (Proposal, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	prop, ok := w.proposals[proposalID]
	if !ok {
		return Proposal{}, ErrProposalNotFound
	}
	return prop, nil
}

// Commit applies a proposal: status, score, feedback and review time are set
// together and a Decision is appended to the log. The proposal is consumed.
func (w *Workflow) Commit(ctx context.Context, proposalID string) (Paper, Decision, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	prop, ok := w.proposals[proposalID]
	if !ok {
		return Paper{}, Decision{}, ErrProposalNotFound
	}
	delete(w.proposals, proposalID)

	p, ok := w.byID[prop.PaperID]
	if !ok {
		return Paper{}, Decision{}, ErrNotFound
	}
	d := Decision{
		ID:         w.newDecisionID(),
		PaperID:    p.ID,
		ReviewerID: prop.ReviewerID,
		Outcome:    prop.Outcome,
		Score:      prop.Score,
		Feedback:   prop.Feedback,
		DecidedAt:  w.now().UTC(),
	}
	w.apply(p, d)
	return p.clone(), d, nil
}

// Discard drops a pending proposal.
func (w *Workflow) Discard(ctx context.Context, proposalID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.proposals[proposalID]; !ok {
		return ErrProposalNotFound
	}
	delete(w.proposals, proposalID)
	return nil
}

func (w *Workflow) apply(p *Paper, d Decision) {
	score := d.Score
	feedback := d.Feedback
	at := d.DecidedAt
	p.Status = d.Outcome
	p.ReviewScore = &score
	p.Feedback = &feedback
	p.ReviewedAt = &at
	w.history[p.ID] = append(w.history[p.ID], d)
}

// Get returns a copy of the paper.
func (w *Workflow) Get(ctx context.Context, id string) (Paper, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.byID[id]
	if !ok {
		return Paper{}, ErrNotFound
	}
	return p.clone(), nil
}

// List returns papers matching f in submission order.
func (w *Workflow) List(ctx context.Context, f Filter) []Paper {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []Paper
	for _, p := range w.papers {
		if f.match(p) {
			out = append(out, p.clone())
		}
	}
	return out
}

func (w *Workflow) ListByConference(ctx context.Context, confID string) []Paper {
	return w.List(ctx, Filter{ConfID: confID})
}

func (w *Workflow) ListPending(ctx context.Context, confID string) []Paper {
	return w.List(ctx, Filter{ConfID: confID, Status: Pending})
}

// FindByAuthor returns the author's paper in the conference, if any.
func (w *Workflow) FindByAuthor(ctx context.Context, confID, authorID string) (Paper, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	id, ok := w.byAuthor[authorKey{confID: confID, authorID: authorID}]
	if !ok {
		return Paper{}, false
	}
	return w.byID[id].clone(), true
}

// History returns the decision log of a paper, oldest first.
func (w *Workflow) History(ctx context.Context, paperID string) ([]Decision, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, ok := w.byID[paperID]; !ok {
		return nil, ErrNotFound
	}
	log := w.history[paperID]
	out := make([]Decision, len(log))
	copy(out, log)
	return out, nil
}

func (w *Workflow) insert(p *Paper) {
	w.papers = append(w.papers, p)
	w.byID[p.ID] = p
	w.byAuthor[authorKey{confID: p.ConfID, authorID: p.AuthorID}] = p.ID
}
