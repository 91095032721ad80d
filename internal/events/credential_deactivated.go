package events

import "time"

type CredentialDeactivatedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	CredentialID string    `json:"credential_id"`
	Kind         string    `json:"kind"`
	OccurredAt   time.Time `json:"occurred_at"`
}
