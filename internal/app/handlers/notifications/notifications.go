package notifications

import (
	"context"
	"errors"
	"strings"

	"gearshare/internal/app/commands"
	"gearshare/internal/app/dto"
	"gearshare/internal/app/queries"
	"gearshare/internal/app/uow"
	domainnotification "gearshare/internal/domain/notification"
)

const (
	listNotificationsKey = "notifications.list"
	markReadKey          = "notifications.mark_read"
)

const defaultNotificationLimit = 50

type ListNotificationsQuery struct {
	UserID     string
	UnreadOnly bool
	Limit      int
}

func (q ListNotificationsQuery) Key() string { return listNotificationsKey }

type ListNotificationsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListNotificationsHandler) Handle(ctx context.Context, q ListNotificationsQuery) (dto.NotificationCollection, error) {
	userID := strings.TrimSpace(q.UserID)
	if userID == "" {
		return dto.NotificationCollection{}, errors.New("user id is required")
	}
	unit, ok := uow.FromContext(ctx)
	cleanup := func() {}
	if !ok {
		if h.UoWFactory == nil {
			return dto.NotificationCollection{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.NotificationCollection{}, err
		}
		cleanup = func() { _ = unit.Rollback(ctx) }
	}
	defer cleanup()

	limit := q.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	rows, err := unit.Notifications().ListByUser(ctx, userID, q.UnreadOnly, limit)
	if err != nil {
		return dto.NotificationCollection{}, err
	}
	items := make([]dto.Notification, 0, len(rows))
	for _, n := range rows {
		items = append(items, dto.MapNotification(n))
	}
	return dto.NotificationCollection{Items: items}, nil
}

// MarkNotificationReadCommand flips is_read; repeating it is a no-op.
type MarkNotificationReadCommand struct {
	NotificationID string `validate:"required"`
	UserID         string `validate:"required"`
}

func (c MarkNotificationReadCommand) Key() string { return markReadKey }

type MarkReadResult struct {
	NotificationID string `json:"notification_id"`
}

type MarkNotificationReadHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *MarkNotificationReadHandler) Handle(ctx context.Context, cmd MarkNotificationReadCommand) (*MarkReadResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	err := unit.Notifications().MarkRead(ctx, domainnotification.NotificationID(cmd.NotificationID), cmd.UserID)
	if err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &MarkReadResult{NotificationID: cmd.NotificationID}, nil
}

var _ queries.Handler[ListNotificationsQuery, dto.NotificationCollection] = (*ListNotificationsHandler)(nil)
var _ commands.Handler[MarkNotificationReadCommand, *MarkReadResult] = (*MarkNotificationReadHandler)(nil)
