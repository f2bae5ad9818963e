package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	domainnotification "gearshare/internal/domain/notification"
	"gearshare/internal/infra/storage/memory"
)

func newFactory() (memory.Factory, *memory.NotificationRepository) {
	repo := memory.NewNotificationRepository()
	return memory.Factory{
		Catalog:          memory.NewListingCatalog(),
		BookingRepo:      memory.NewBookingRepository(),
		ReviewRepo:       memory.NewReviewRepository(),
		NotificationRepo: repo,
	}, repo
}

func seed(t *testing.T, repo *memory.NotificationRepository, id, userID string, read bool, at time.Time) {
	t.Helper()
	err := repo.Append(context.Background(), &domainnotification.Notification{
		ID:        domainnotification.NotificationID(id),
		UserID:    userID,
		Type:      domainnotification.TypeBookingCreated,
		Title:     "New booking request",
		IsRead:    read,
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestListNotificationsUnreadFilter(t *testing.T) {
	factory, repo := newFactory()
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	seed(t, repo, "n-1", "user-1", false, base)
	seed(t, repo, "n-2", "user-1", true, base.Add(time.Minute))
	seed(t, repo, "n-3", "user-2", false, base)

	h := &ListNotificationsHandler{UoWFactory: factory}

	all, err := h.Handle(context.Background(), ListNotificationsQuery{UserID: "user-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all.Items) != 2 {
		t.Fatalf("all items = %d, want 2", len(all.Items))
	}

	unread, err := h.Handle(context.Background(), ListNotificationsQuery{UserID: "user-1", UnreadOnly: true})
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread.Items) != 1 || unread.Items[0].ID != "n-1" {
		t.Fatalf("unread items = %+v", unread.Items)
	}
}

func TestListNotificationsRequiresUser(t *testing.T) {
	factory, _ := newFactory()
	h := &ListNotificationsHandler{UoWFactory: factory}
	if _, err := h.Handle(context.Background(), ListNotificationsQuery{}); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	factory, repo := newFactory()
	seed(t, repo, "n-1", "user-1", false, time.Now().UTC())

	h := &MarkNotificationReadHandler{UoWFactory: factory}
	for i := 0; i < 2; i++ {
		if _, err := h.Handle(context.Background(), MarkNotificationReadCommand{NotificationID: "n-1", UserID: "user-1"}); err != nil {
			t.Fatalf("mark read attempt %d: %v", i+1, err)
		}
	}

	rows, _ := repo.ListByUser(context.Background(), "user-1", true, 10)
	if len(rows) != 0 {
		t.Fatalf("unread rows = %d, want 0", len(rows))
	}
}

func TestMarkReadWrongUser(t *testing.T) {
	factory, repo := newFactory()
	seed(t, repo, "n-1", "user-1", false, time.Now().UTC())

	h := &MarkNotificationReadHandler{UoWFactory: factory}
	_, err := h.Handle(context.Background(), MarkNotificationReadCommand{NotificationID: "n-1", UserID: "user-2"})
	if !errors.Is(err, domainnotification.ErrNotFound) {
		t.Fatalf("cross-user mark read = %v, want ErrNotFound", err)
	}
}
