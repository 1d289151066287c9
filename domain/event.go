package domain

import "time"

// EventKind labels a successful store mutation.
type EventKind string

const (
	EventTaskCreated   EventKind = "task.created"
	EventTaskUpdated   EventKind = "task.updated"
	EventTaskCompleted EventKind = "task.completed"
	EventTaskDeleted   EventKind = "task.deleted"
	EventMessageSent   EventKind = "message.sent"
	EventLoggedIn      EventKind = "identity.login"
	EventLoggedOut     EventKind = "identity.logout"
	EventRegistered    EventKind = "identity.register"
)

// Event is the success signal a store emits after a mutation persists.
// Callers surface it as user-facing confirmation.
type Event struct {
	Kind     EventKind `json:"kind"`
	EntityID string    `json:"entityId,omitempty"`
	ActorID  string    `json:"actorId,omitempty"`
	At       time.Time `json:"at"`
}
