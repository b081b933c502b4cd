package review

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BRAHMISREE/conference-project/internal/ids"
)

var fixedNow = time.Date(2024, 10, 12, 9, 30, 0, 0, time.UTC)

func newSeeded(t *testing.T) *Workflow {
	t.Helper()
	w := NewWorkflow(
		WithIDs(ids.Sequence("p_new")),
		WithProposalIDs(ids.Sequence("prop")),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, w.Seed(context.Background(), Paper{
		ID:       "p1",
		ConfID:   "c1",
		Title:    "Neural Nets in 2025",
		AuthorID: "u3",
		File:     "draft.pdf",
	}))
	return w
}

// decide proposes and immediately commits, the way a confirmed review does.
func decide(ctx context.Context, w *Workflow, reviewerID, paperID string, outcome Status, score int, feedback string) (Paper, error) {
	prop, err := w.Propose(ctx, reviewerID, paperID, outcome, score, feedback)
	if err != nil {
		return Paper{}, err
	}
	p, _, err := w.Commit(ctx, prop.ID)
	return p, err
}

func TestSubmitCreatesPendingPaper(t *testing.T) {
	w := newSeeded(t)
	ctx := context.Background()

	p, err := w.Submit(ctx, "c1", "u4", "  Graph Rewriting  ", "")
	require.NoError(t, err)

	assert.Equal(t, Pending, p.Status)
	assert.Equal(t, "Graph Rewriting", p.Title)
	assert.Equal(t, DefaultFile, p.File)
	assert.Nil(t, p.ReviewScore)
	assert.Nil(t, p.Feedback)
	assert.Nil(t, p.ReviewedAt)
	assert.Equal(t, fixedNow, p.SubmittedAt)
}

func TestSubmitValidation(t *testing.T) {
	w := newSeeded(t)
	ctx := context.Background()

	_, err := w.Submit(ctx, "c1", "u4", "   ", "x.pdf")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = w.Submit(ctx, "", "u4", "Title", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	assert.Len(t, w.ListByConference(ctx, "c1"), 1)
}

func TestSubmitRejectsSecondPaperFromSameAuthor(t *testing.T) {
	w := newSeeded(t)
	ctx := context.Background()

	_, err := w.Submit(ctx, "c1", "u3", "Another one", "")
	require.ErrorIs(t, err, ErrAlreadySubmitted)

	_, err = w.Submit(ctx, "c2", "u3", "Same author, other conference", "")
	require.NoError(t, err)
}

func TestDecideAcceptScenario(t *testing.T) {
	w := newSeeded(t)
	ctx := context.Background()

	p, err := decide(ctx, w, "u1", "p1", Accepted, 90, "Great work")
	require.NoError(t, err)

	assert.Equal(t, Accepted, p.Status)
	require.NotNil(t, p.ReviewScore)
	assert.Equal(t, 90, *p.ReviewScore)
	require.NotNil(t, p.Feedback)
	assert.Equal(t, "Great work", *p.Feedback)
	require.NotNil(t, p.ReviewedAt)
	assert.Equal(t, fixedNow, *p.ReviewedAt)

	stored, err := w.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p, stored)
}

func TestScoreBounds(t *testing.T) {
	ctx := context.Background()
	for _, score := range []int{-1, 101} {
		w := newSeeded(t)
		_, err := w.Propose(ctx, "u1", "p1", Accepted, score, "")
		require.ErrorIs(t, err, ErrScoreOutOfRange, "score %d", score)

		p, err := w.Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, Pending, p.Status)
		assert.Nil(t, p.ReviewScore)
	}
	for _, score := range []int{0, 100} {
		w := newSeeded(t)
		p, err := decide(ctx, w, "u1", "p1", Rejected, score, "")
		require.NoError(t, err, "score %d", score)
		assert.Equal(t, score, *p.ReviewScore)
	}
}

func TestProposeRejectsNonTerminalOutcome(t *testing.T) {
	w := newSeeded(t)
	for _, outcome := range []Status{Pending, "", "maybe"} {
		_, err := w.Propose(context.Background(), "u1", "p1", outcome, 50, "")
		require.ErrorIs(t, err, ErrInvalidDecision)
	}
}

func TestProposeUnknownPaper(t *testing.T) {
	_, err := newSeeded(t).Propose(context.Background(), "u1", "p404", Accepted, 50, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTwoPhaseDecision(t *testing.T) {
	w := newSeeded(t)
	ctx := context.Background()

	prop, err := w.Propose(ctx, "u2", "p1", Rejected, 40, "Needs more data")
	require.NoError(t, err)

	p, err := w.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, Pending, p.Status, "propose must not mutate")

	got, err := w.Proposal(ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, prop, got)

	p, d, err := w.Commit(ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, Rejected, p.Status)
	assert.Equal(t, "u2", d.ReviewerID)
	assert.Equal(t, 40, d.Score)

	_, _, err = w.Commit(ctx, prop.ID)
	require.ErrorIs(t, err, ErrProposalNotFound, "proposals are single-use")
}

func TestDiscardProposal(t *testing.T) {
	w := newSeeded(t)
	ctx := context.Background()

	prop, err := w.Propose(ctx, "u2", "p1", Accepted, 70, "")
	require.NoError(t, err)
	require.NoError(t, w.Discard(ctx, prop.ID))
	require.ErrorIs(t, w.Discard(ctx, prop.ID), ErrProposalNotFound)

	_, _, err = w.Commit(ctx, prop.ID)
	require.ErrorIs(t, err, ErrProposalNotFound)

	p, err := w.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, Pending, p.Status)
}

func TestReReviewKeepsHistoryAndNeverResurrectsPending(t *testing.T) {
	w := newSeeded(t)
	ctx := context.Background()

	_, err := decide(ctx, w, "u2", "p1", Rejected, 40, "weak")
	require.NoError(t, err)
	p, err := decide(ctx, w, "u1", "p1", Accepted, 85, "revised opinion")
	require.NoError(t, err)

	assert.Equal(t, Accepted, p.Status)
	assert.Equal(t, 85, *p.ReviewScore)
	assert.Equal(t, "revised opinion", *p.Feedback)

	history, err := w.History(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, Rejected, history[0].Outcome)
	assert.Equal(t, Accepted, history[1].Outcome)

	assert.Empty(t, w.ListPending(ctx, "c1"))
}

func TestHistoryUnknownPaper(t *testing.T) {
	_, err := newSeeded(t).History(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestQueries(t *testing.T) {
	w := newSeeded(t)
	ctx := context.Background()
	_, err := w.Submit(ctx, "c1", "u4", "Second", "")
	require.NoError(t, err)
	_, err = w.Submit(ctx, "c2", "u4", "Elsewhere", "")
	require.NoError(t, err)
	_, err = decide(ctx, w, "u1", "p1", Accepted, 90, "")
	require.NoError(t, err)

	assert.Len(t, w.ListByConference(ctx, "c1"), 2)
	pending := w.ListPending(ctx, "c1")
	require.Len(t, pending, 1)
	assert.Equal(t, "Second", pending[0].Title)

	p, ok := w.FindByAuthor(ctx, "c1", "u3")
	require.True(t, ok)
	assert.Equal(t, "p1", p.ID)
	_, ok = w.FindByAuthor(ctx, "c1", "u9")
	assert.False(t, ok)

	assert.Len(t, w.List(ctx, Filter{AuthorID: "u4"}), 2)
	assert.Len(t, w.List(ctx, Filter{}), 3)
}

func TestReturnedPapersAreCopies(t *testing.T) {
	w := newSeeded(t)
	ctx := context.Background()
	p, err := decide(ctx, w, "u1", "p1", Accepted, 90, "fine")
	require.NoError(t, err)

	*p.ReviewScore = 1
	again, err := w.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 90, *again.ReviewScore)
}

func TestSeedDecidedPaperNeedsReviewFields(t *testing.T) {
	w := NewWorkflow()
	err := w.Seed(context.Background(), Paper{ID: "p9", ConfID: "c1", AuthorID: "u1", Status: Accepted})
	require.ErrorIs(t, err, ErrInvalidInput)

	score, at := 75, fixedNow
	require.NoError(t, w.Seed(context.Background(), Paper{
		ID: "p10", ConfID: "c1", AuthorID: "u2", Status: Accepted, ReviewScore: &score, ReviewedAt: &at,
	}))
	history, err := w.History(context.Background(), "p10")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 75, history[0].Score)
}

func TestConcurrentDecisionsLeaveTerminalState(t *testing.T) {
	w := newSeeded(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome := Accepted
			if i%2 == 0 {
				outcome = Rejected
			}
			_, _ = decide(ctx, w, "u1", "p1", outcome, i, "")
		}(i)
	}
	wg.Wait()

	p, err := w.Get(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.Status.Terminal())
	history, err := w.History(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, history, 50)
	assert.Equal(t, history[len(history)-1].Outcome, p.Status)
}
