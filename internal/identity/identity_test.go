package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BRAHMISREE/conference-project/internal/ids"
)

func seeded(t *testing.T) *Directory {
	t.Helper()
	d := NewDirectory(WithIDs(ids.Sequence("new")))
	require.NoError(t, d.Seed(context.Background(),
		User{ID: "u1", Name: "Dr. Alice Admin", Email: "alice@test.com", Password: "123"},
		User{ID: "u2", Name: "Bob Reviewer", Email: "bob@test.com", Password: "123"},
	))
	return d
}

func TestAuthenticate(t *testing.T) {
	d := seeded(t)
	ctx := context.Background()

	u, err := d.Authenticate(ctx, "alice@test.com", "123")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	cases := []struct{ email, password string }{
		{"alice@test.com", "wrong"},
		{"ALICE@test.com", "123"},
		{"alice@test.com ", "123"},
		{"nobody@test.com", "123"},
		{"", ""},
	}
	for _, tc := range cases {
		_, err := d.Authenticate(ctx, tc.email, tc.password)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "email=%q password=%q", tc.email, tc.password)
	}
}

func TestRegister(t *testing.T) {
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	d := NewDirectory(WithIDs(ids.Sequence("u")), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	u, err := d.Register(ctx, "Dana", "dana@test.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, now, u.CreatedAt)

	found, err := d.Find(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, found)

	got, err := d.Authenticate(ctx, "dana@test.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestRegisterDoesNotValidateFieldShape(t *testing.T) {
	d := NewDirectory()
	_, err := d.Register(context.Background(), "", "x@test.com", "")
	require.NoError(t, err)
}

func TestRegisterDuplicateEmailLeavesStoreUntouched(t *testing.T) {
	d := seeded(t)
	before := d.List(context.Background())

	_, err := d.Register(context.Background(), "Dana", "alice@test.com", "pw")
	require.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, before, d.List(context.Background()))
}

func TestSeedRejectsDuplicates(t *testing.T) {
	d := seeded(t)
	ctx := context.Background()

	require.ErrorIs(t, d.Seed(ctx, User{ID: "u1", Email: "other@test.com"}), ErrInvalidInput)
	require.ErrorIs(t, d.Seed(ctx, User{ID: "u9", Email: "bob@test.com"}), ErrEmailTaken)
	require.ErrorIs(t, d.Seed(ctx, User{Email: "noid@test.com"}), ErrInvalidInput)
}

func TestFindUnknown(t *testing.T) {
	_, err := seeded(t).Find(context.Background(), "u404")
	require.ErrorIs(t, err, ErrNotFound)
}
