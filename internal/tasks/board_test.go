package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BRAHMISREE/conference-project/internal/ids"
)

func seededBoard(t *testing.T) *Board {
	t.Helper()
	b := NewBoard(WithIDs(ids.Sequence("t_new")))
	require.NoError(t, b.Seed(context.Background(), Task{
		ID:       "t1",
		ConfID:   "c1",
		Title:    "Book Keynote Speaker",
		Team:     "logistics",
		Assignee: "u1",
	}))
	return b
}

func TestAddAppliesDefaults(t *testing.T) {
	b := seededBoard(t)

	task, err := b.Add(context.Background(), "c1", "  Print badges ")
	require.NoError(t, err)

	assert.Equal(t, "t_new1", task.ID)
	assert.Equal(t, "Print badges", task.Title)
	assert.Equal(t, DefaultTeam, task.Team)
	assert.Equal(t, DefaultAssignee, task.Assignee)
	assert.Equal(t, Pending, task.Status)
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	b := seededBoard(t)
	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := b.Add(context.Background(), "c1", title)
		require.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Len(t, b.ListByConference(context.Background(), "c1"), 1)
}

func TestToggleFlipsBothWays(t *testing.T) {
	b := seededBoard(t)
	ctx := context.Background()

	task, err := b.Toggle(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, Done, task.Status)

	task, err = b.Toggle(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, Pending, task.Status)

	_, err = b.Toggle(ctx, "t404")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListAndPartition(t *testing.T) {
	b := seededBoard(t)
	ctx := context.Background()
	second, err := b.Add(ctx, "c1", "Order coffee")
	require.NoError(t, err)
	_, err = b.Add(ctx, "c2", "Other conference")
	require.NoError(t, err)
	_, err = b.Toggle(ctx, second.ID)
	require.NoError(t, err)

	list := b.ListByConference(ctx, "c1")
	require.Len(t, list, 2)
	assert.Equal(t, "t1", list[0].ID)

	pending, done := Partition(list)
	require.Len(t, pending, 1)
	require.Len(t, done, 1)
	assert.Equal(t, "t1", pending[0].ID)
	assert.Equal(t, second.ID, done[0].ID)

	assert.Len(t, b.List(ctx, Filter{Status: Done}), 1)
	assert.Len(t, b.List(ctx, Filter{}), 3)
}
