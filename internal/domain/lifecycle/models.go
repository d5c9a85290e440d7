package lifecycle

import "time"

// Record is the lifecycle view of any soft-deletable entity: identity,
// deletion marker and institution scope. A nil DeletedAt means active;
// once set the record only moves toward purge.
type Record struct {
	ID            string     `json:"id"`
	Kind          Kind       `json:"kind"`
	Name          string     `json:"name,omitempty"`
	Role          string     `json:"role,omitempty"`
	InstitutionID *string    `json:"institutionId,omitempty"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
}
