package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gearshare/internal/app/commands"
)

type replayCommand struct {
	key string
}

func (c replayCommand) Key() string            { return "test.replay" }
func (c replayCommand) IdempotencyKey() string { return c.key }
func (c replayCommand) ResultPrototype() any   { return &replayResult{} }

type replayResult struct {
	Value string `json:"value"`
}

type plainCommand struct{}

func (plainCommand) Key() string { return "test.plain" }

type mapStore struct {
	records map[string]IdempotencyRecord
}

func newMapStore() *mapStore {
	return &mapStore{records: make(map[string]IdempotencyRecord)}
}

func (s *mapStore) Get(ctx context.Context, key string) (IdempotencyRecord, bool, error) {
	rec, ok := s.records[key]
	return rec, ok, nil
}

func (s *mapStore) Save(ctx context.Context, rec IdempotencyRecord) error {
	s.records[rec.Key] = rec
	return nil
}

func newReplayBus(t *testing.T, store IdempotencyStore, handler func(ctx context.Context, cmd replayCommand) (*replayResult, error)) commands.Bus {
	t.Helper()
	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, replayCommand{}.Key(), commands.HandlerFunc[replayCommand, *replayResult](handler))
	return ChainCommands(base, Idempotency(store, nil))
}

func TestIdempotencyReplaysFirstOutcome(t *testing.T) {
	calls := 0
	bus := newReplayBus(t, newMapStore(), func(ctx context.Context, cmd replayCommand) (*replayResult, error) {
		calls++
		return &replayResult{Value: "created"}, nil
	})

	for i := 0; i < 3; i++ {
		res, err := commands.Dispatch[replayCommand, *replayResult](context.Background(), bus, replayCommand{key: "req-1"})
		if err != nil {
			t.Fatalf("dispatch %d: %v", i+1, err)
		}
		if res.Value != "created" {
			t.Fatalf("dispatch %d value = %s", i+1, res.Value)
		}
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestIdempotencyReplaysErrors(t *testing.T) {
	calls := 0
	bus := newReplayBus(t, newMapStore(), func(ctx context.Context, cmd replayCommand) (*replayResult, error) {
		calls++
		return nil, errors.New("dates unavailable")
	})

	_, err := commands.Dispatch[replayCommand, *replayResult](context.Background(), bus, replayCommand{key: "req-1"})
	if err == nil || err.Error() != "dates unavailable" {
		t.Fatalf("first dispatch = %v", err)
	}

	_, err = commands.Dispatch[replayCommand, *replayResult](context.Background(), bus, replayCommand{key: "req-1"})
	if !errors.Is(err, ErrReplayedFailure) {
		t.Fatalf("replayed dispatch = %v, want ErrReplayedFailure", err)
	}
	if !strings.Contains(err.Error(), "dates unavailable") {
		t.Fatalf("replayed error lost original text: %v", err)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestIdempotencyDistinctKeysExecuteSeparately(t *testing.T) {
	calls := 0
	bus := newReplayBus(t, newMapStore(), func(ctx context.Context, cmd replayCommand) (*replayResult, error) {
		calls++
		return &replayResult{Value: cmd.key}, nil
	})

	for _, key := range []string{"req-1", "req-2"} {
		if _, err := commands.Dispatch[replayCommand, *replayResult](context.Background(), bus, replayCommand{key: key}); err != nil {
			t.Fatalf("dispatch %s: %v", key, err)
		}
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
}

func TestIdempotencyEmptyKeyPassesThrough(t *testing.T) {
	calls := 0
	bus := newReplayBus(t, newMapStore(), func(ctx context.Context, cmd replayCommand) (*replayResult, error) {
		calls++
		return &replayResult{}, nil
	})

	for i := 0; i < 2; i++ {
		if _, err := commands.Dispatch[replayCommand, *replayResult](context.Background(), bus, replayCommand{}); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
}

func TestIdempotencyIgnoresPlainCommands(t *testing.T) {
	calls := 0
	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, plainCommand{}.Key(), commands.HandlerFunc[plainCommand, string](func(ctx context.Context, cmd plainCommand) (string, error) {
		calls++
		return "ok", nil
	}))
	bus := ChainCommands(base, Idempotency(newMapStore(), nil))

	for i := 0; i < 2; i++ {
		if _, err := commands.Dispatch[plainCommand, string](context.Background(), bus, plainCommand{}); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
}
