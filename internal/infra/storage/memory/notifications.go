package memory

import (
	"context"
	"sort"
	"sync"

	domainnotification "gearshare/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[domainnotification.NotificationID]*domainnotification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[domainnotification.NotificationID]*domainnotification.Notification)}
}

func (r *NotificationRepository) Append(ctx context.Context, n *domainnotification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *n
	r.items[n.ID] = &stored
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domainnotification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainnotification.Notification
	for _, n := range r.items {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		copied := *n
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id domainnotification.NotificationID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return domainnotification.ErrNotFound
	}
	n.IsRead = true
	return nil
}

var _ domainnotification.Repository = (*NotificationRepository)(nil)
