// Package history records tool invocations in SQLite. Recording is wired to
// the event bus so the MCP handlers never wait on a disk write; the
// conversation session itself is deliberately not persisted.
package history

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/kagimcp/kagimcp/internal/infra/eventbus"
	"github.com/kagimcp/kagimcp/pkg/uuid"
)

// Topic is the event bus topic tool handlers publish Invocation payloads to.
const Topic = "tool.invoked"

// Outcome values for an Invocation.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Invocation is one recorded tool call.
type Invocation struct {
	ID        string
	Tool      string
	Input     string
	Outcome   string
	Detail    string
	Duration  time.Duration
	CreatedAt time.Time
}

// Store persists invocations.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// NewStore creates a Store over an already-migrated database.
func NewStore(db *sql.DB, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{db: db, log: log}
}

// Record inserts one invocation, filling in the id and timestamp when unset.
func (s *Store) Record(ctx context.Context, inv Invocation) error {
	if inv.ID == "" {
		inv.ID = uuid.NewV7().String()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invocation_log (id, tool, input, outcome, detail, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		inv.ID,
		inv.Tool,
		inv.Input,
		inv.Outcome,
		inv.Detail,
		inv.Duration.Milliseconds(),
		inv.CreatedAt,
	)
	return err
}

// Recent returns up to limit invocations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tool, input, outcome, detail, duration_ms, created_at
		FROM invocation_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []Invocation
	for rows.Next() {
		var (
			inv        Invocation
			durationMS int64
		)
		if err := rows.Scan(&inv.ID, &inv.Tool, &inv.Input, &inv.Outcome, &inv.Detail, &durationMS, &inv.CreatedAt); err != nil {
			return nil, err
		}
		inv.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Start consumes invocation events from the bus until ctx is done. Run it in
// its own goroutine.
func (s *Store) Start(ctx context.Context, bus eventbus.EventBus) {
	events := bus.Subscribe(Topic)
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-events:
			inv, ok := evt.Payload.(Invocation)
			if !ok {
				s.log.Warn("unexpected payload on invocation topic", "payload", evt.Payload)
				continue
			}
			if err := s.Record(ctx, inv); err != nil {
				s.log.Warn("invocation not recorded", "tool", inv.Tool, "error", err)
			}
		}
	}
}
