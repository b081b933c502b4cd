package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BRAHMISREE/conference-project/internal/logging"
)

func TestRecord(t *testing.T) {
	var buf bytes.Buffer
	a := New(logging.NewJSON(&buf, "info"))

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithActor(ctx, Actor{SessionID: "s-1", UserID: "u1"})

	require.NoError(t, a.Record(ctx, "paper.decided", map[string]any{"paper_id": "p1"}))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit", entry["type"])
	assert.Equal(t, "paper.decided", entry["event"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "s-1", entry["session_id"])
	assert.Equal(t, "u1", entry["user_id"])
	fields, ok := entry["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p1", fields["paper_id"])
}

func TestRecordRequiresEvent(t *testing.T) {
	a := New(logging.Discard())
	require.Error(t, a.Record(context.Background(), "  ", nil))
}

func TestNilLogIsNoop(t *testing.T) {
	var a *Log
	require.NoError(t, a.Record(context.Background(), "x", nil))
}

func TestWithRequestIDIgnoresBlank(t *testing.T) {
	ctx := WithRequestID(context.Background(), "  ")
	assert.Empty(t, requestIDFromContext(ctx))
}
