package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventAccountCreated    EventType = "account_created"
	EventAccountUpdated    EventType = "account_updated"
	EventAccountDeleted    EventType = "account_deleted"
	EventAccountsPurged    EventType = "accounts_purged"
)

// Event represents an account lifecycle event emitted by the service.
// ActorID is empty for self-service registration.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// AccountUpdatedPayload records which fields an update touched.
type AccountUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// AccountsPurgedPayload records how many accounts a purge removed.
type AccountsPurgedPayload struct {
	Count int64 `json:"count"`
}
