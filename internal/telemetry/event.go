// Package telemetry emits best-effort session lifecycle events. Events flow
// to an OTel log exporter, a Kafka topic, or both, depending on configuration;
// no caller ever blocks on or fails because of telemetry.
package telemetry

import (
	"encoding/json"
	"time"
)

// Event types emitted by the auth and session code paths.
const (
	EventSessionCreated = "session.created"
	EventSessionRenewed = "session.renewed"
	EventSessionEnded   = "session.ended"
	EventRenewalDenied  = "session.renewal_denied"
	EventRegistration   = "user.registered"
	EventAccountDeleted = "user.deleted"
)

// Event is one session lifecycle event. Serialized as JSON for the Kafka
// topic; field names are the keys the worker's Loki labels are derived from.
type Event struct {
	UserID      string          `json:"userId,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	EventType   string          `json:"eventType"`
	Source      string          `json:"source"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewEvent returns an Event of the given type stamped with the current time.
func NewEvent(eventType, userID, fingerprint string) *Event {
	return &Event{
		UserID:      userID,
		Fingerprint: fingerprint,
		EventType:   eventType,
		Source:      "dzen-api",
		CreatedAt:   time.Now().UTC(),
	}
}
