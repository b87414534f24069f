package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"krishiconnect/internal/queue"
)

// publish sends a best-effort event. The primary write has already
// succeeded, so failures are logged and dropped.
func publish(ctx context.Context, publisher queue.Publisher, component string, event queue.ContentEvent) {
	if publisher == nil {
		return
	}
	msgID, err := publisher.Publish(ctx, queue.StreamContent, event)
	if err != nil {
		log.Warn().Err(err).Str("type", event.Type).Msgf("[%s] Failed to publish event", component)
		return
	}
	log.Debug().Str("type", event.Type).Str("msg_id", msgID).Msgf("[%s] Published event", component)
}
