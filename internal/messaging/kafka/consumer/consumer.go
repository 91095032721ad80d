package consumer

import (
	"context"
	"encoding/json"

	"go-gatepass/internal/bootstrap"
	"go-gatepass/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// lifecycleEnvelope covers the shared fields of every credential lifecycle
// event, enough to write an audit entry without knowing the concrete type.
type lifecycleEnvelope struct {
	EventType    string `json:"event_type"`
	RequestID    string `json:"request_id"`
	CredentialID string `json:"credential_id"`
	Kind         string `json:"kind"`
	OccurredAt   string `json:"occurred_at"`
}

// ConsumeCredentialLifecycle feeds issued/deactivated events into the audit
// trail. Undecodable messages are committed and skipped; replaying them
// would fail forever.
func ConsumeCredentialLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.credential_lifecycle")
	log.Info("credential lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("credential lifecycle consumer stopped")
				return
			}
			log.Error("fetch credential lifecycle message failed", zap.Error(err))
			continue
		}

		var event lifecycleEnvelope
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode credential lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		audit.Log(ctx, bootstrap.AuditLog{
			Action:  event.EventType,
			Message: "credential lifecycle event",
			Meta: map[string]any{
				"credential_id": event.CredentialID,
				"kind":          event.Kind,
				"request_id":    event.RequestID,
				"occurred_at":   event.OccurredAt,
				"topic":         events.CredentialLifecycleTopic,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit credential lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("credential lifecycle event audited",
			zap.String("event_type", event.EventType),
			zap.String("credential_id", event.CredentialID),
		)
	}
}
