package history

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/kagimcp/kagimcp/internal/infra/eventbus"
	"github.com/kagimcp/kagimcp/internal/infra/sqlite"
)

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := sqlite.NewDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db, slog.New(slog.DiscardHandler)), db
}

func TestStore_RecordAndRecent(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	first := Invocation{
		Tool:      "kagi_search",
		Input:     "golang generics",
		Outcome:   OutcomeSuccess,
		Duration:  120 * time.Millisecond,
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}
	second := Invocation{
		Tool:    "kagi_assistant",
		Input:   "hello",
		Outcome: OutcomeError,
		Detail:  "parse error",
	}
	if err := s.Record(ctx, first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Record(ctx, second); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(got))
	}
	// Newest first.
	if got[0].Tool != "kagi_assistant" || got[1].Tool != "kagi_search" {
		t.Errorf("wrong order: %q then %q", got[0].Tool, got[1].Tool)
	}
	if got[0].ID == "" {
		t.Error("Record must assign an id when unset")
	}
	if got[0].Detail != "parse error" {
		t.Errorf("detail not persisted, got %q", got[0].Detail)
	}
	if got[1].Duration != 120*time.Millisecond {
		t.Errorf("duration not round-tripped, got %v", got[1].Duration)
	}
}

func TestStore_Recent_Limit(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	for i := range 5 {
		inv := Invocation{
			Tool:      "kagi_search",
			Input:     "q",
			Outcome:   OutcomeSuccess,
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := s.Record(ctx, inv); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected limit of 3, got %d", len(got))
	}
}

func TestStore_Start_ConsumesBusEvents(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	bus := eventbus.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx, bus)

	// Subscribe happens inside Start; give the goroutine a moment before
	// publishing so the event is not dropped.
	time.Sleep(20 * time.Millisecond)
	bus.Publish(Topic, Invocation{Tool: "kagi_summarize", Input: "u", Outcome: OutcomeSuccess})

	deadline := time.After(2 * time.Second)
	for {
		got, err := s.Recent(context.Background(), 1)
		if err != nil {
			t.Fatalf("Recent failed: %v", err)
		}
		if len(got) == 1 {
			if got[0].Tool != "kagi_summarize" {
				t.Errorf("unexpected invocation recorded: %+v", got[0])
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("bus event never recorded")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
