package kafka

import (
	"context"

	"github.com/IBM/sarama"

	"gearshare/internal/infra/relay"
)

// NotifierHandler feeds consumed event messages into the notification relay.
type NotifierHandler struct {
	Relay *relay.Relay
}

func (h NotifierHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	targetUser := ""
	for _, header := range msg.Headers {
		if string(header.Key) == "target-user" {
			targetUser = string(header.Value)
			break
		}
	}
	return h.Relay.Deliver(ctx, msg.Value, targetUser)
}

var _ MessageHandler = NotifierHandler{}
