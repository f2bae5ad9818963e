package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "gearshare/internal/app/outbox"
	infraoutbox "gearshare/internal/infra/outbox"
)

// OutboxStore keeps pending event records in memory with the same
// claim/sent/failed lifecycle the durable store exposes.
type OutboxStore struct {
	mu      sync.Mutex
	records []*infraoutbox.Document
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{}
}

func (s *OutboxStore) Add(ctx context.Context, record appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, &infraoutbox.Document{
		ID:          record.ID,
		Name:        record.Name,
		Payload:     record.Payload,
		OccurredAt:  record.OccurredAt,
		Aggregate:   record.Aggregate,
		TargetUser:  record.TargetUser,
		Headers:     record.Headers,
		State:       infraoutbox.StateNew,
		NextAttempt: time.Now().UTC(),
	})
	return nil
}

func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, doc := range s.records {
		if doc.State != infraoutbox.StateNew && doc.State != infraoutbox.StateFailed {
			continue
		}
		if doc.NextAttempt.After(now) {
			continue
		}
		doc.State = infraoutbox.StateClaimed
		doc.ClaimedBy = workerID
		doc.ClaimedAt = now
		copied := *doc
		return &copied, nil
	}
	return nil, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.records {
		if doc.ID == id {
			doc.State = infraoutbox.StateSent
			doc.SentAt = time.Now().UTC()
			return nil
		}
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, nextAttempt time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.records {
		if doc.ID == id {
			doc.State = infraoutbox.StateFailed
			doc.Attempts++
			doc.NextAttempt = nextAttempt
			doc.LastError = reason
			return nil
		}
	}
	return nil
}

var _ appoutbox.Outbox = (*OutboxStore)(nil)
var _ infraoutbox.Store = (*OutboxStore)(nil)
