// Package audit records state transitions of the conference core as
// structured log entries.
package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BRAHMISREE/conference-project/internal/logging"
)

type ctxKey string

const (
	requestIDKey ctxKey = "audit_request_id"
	actorKey     ctxKey = "audit_actor"
)

// Actor identifies who performed an audited action.
type Actor struct {
	SessionID string
	UserID    string
}

// WithRequestID attaches the request identifier to the context for audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithActor attaches the acting session and user.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func actorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	v, ok := ctx.Value(actorKey).(Actor)
	return v, ok
}

// Log writes audit entries through a structured logger.
type Log struct {
	log logging.Logger
	now func() time.Time
}

func New(log logging.Logger) *Log {
	return &Log{log: log, now: time.Now}
}

// Record writes an audit entry enriched with request and actor context.
// A nil *Log drops the entry.
func (a *Log) Record(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	if a == nil || a.log == nil {
		return nil
	}
	args := []any{
		"type", "audit",
		"event", event,
		"ts", a.now().UTC().Format(time.RFC3339Nano),
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		args = append(args, "request_id", rid)
	}
	if actor, ok := actorFromContext(ctx); ok {
		if actor.SessionID != "" {
			args = append(args, "session_id", actor.SessionID)
		}
		if actor.UserID != "" {
			args = append(args, "user_id", actor.UserID)
		}
	}
	copyFields := make(map[string]any, len(fields))
	for k, v := range fields {
		copyFields[k] = v
	}
	args = append(args, "fields", copyFields)
	a.log.Info(ctx, "audit", args...)
	return nil
}
