package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryData covers changes to stored contact data.
	CategoryData EventCategory = "data"

	// CategoryOperations covers routine activity useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from service logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID         `json:"id"`
	Category  EventCategory     `json:"category"`
	Timestamp time.Time         `json:"timestamp"`
	Subject   string            `json:"subject"`
	Action    string            `json:"action"`
	Reason    string            `json:"reason,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	ActorID   string            `json:"actor_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

type AuditEvent string

const (
	EventContactImported     AuditEvent = "contact_imported"
	EventContactImportFailed AuditEvent = "contact_import_failed"
	EventContactViewed       AuditEvent = "contact_viewed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventContactImported:     CategoryData,
	EventContactImportFailed: CategoryOperations,
	EventContactViewed:       CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists or forwards audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
