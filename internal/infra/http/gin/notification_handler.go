package ginserver

import (
	"io"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"gearshare/internal/app/commands"
	"gearshare/internal/app/dto"
	notificationapp "gearshare/internal/app/handlers/notifications"
	"gearshare/internal/app/queries"
	"gearshare/internal/notify"
)

type NotificationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Bus      *notify.Bus
}

func (h NotificationHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := notificationapp.ListNotificationsQuery{
		UserID:     user,
		UnreadOnly: c.Query("unread") == "true",
		Limit:      intQuery(c, "limit"),
	}
	result, err := queries.Ask[notificationapp.ListNotificationsQuery, dto.NotificationCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := notificationapp.MarkNotificationReadCommand{
		NotificationID: c.Param("id"),
		UserID:         user,
	}
	result, err := commands.Dispatch[notificationapp.MarkNotificationReadCommand, *notificationapp.MarkReadResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stream pushes live notifications over server-sent events. Missed events
// are not replayed here; clients reconcile via the list endpoint.
func (h NotificationHandler) Stream(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if h.Bus == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live notifications unavailable"})
		return
	}
	sub := h.Bus.Subscribe(user)
	defer sub.Close()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-sub.Events():
			if !open {
				return false
			}
			c.SSEvent("notification", ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

var _ NotificationHTTP = NotificationHandler{}
