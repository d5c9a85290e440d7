package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one append-only audit log row. Entries are themselves
// soft-deletable so the purge engine can apply the ActivityLog
// retention policy to them.
type Entry struct {
	ID            string     `json:"id"`
	ActorID       string     `json:"actorId"`
	Action        Action     `json:"action"`
	EntityKind    string     `json:"entityKind"`
	EntityID      string     `json:"entityId"`
	Details       string     `json:"details,omitempty"`
	InstitutionID *string    `json:"institutionId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
}

// NewEntry fills in identity and timestamp for a fresh entry.
func NewEntry(actorID string, action Action, entityKind, entityID, details string, institutionID *string) Entry {
	return Entry{
		ID:            uuid.NewString(),
		ActorID:       actorID,
		Action:        action,
		EntityKind:    entityKind,
		EntityID:      entityID,
		Details:       details,
		InstitutionID: institutionID,
		CreatedAt:     time.Now().UTC(),
	}
}
