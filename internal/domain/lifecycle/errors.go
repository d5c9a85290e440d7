package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind is the configuration error for an entity kind the
	// engine has no policy or cascade for.
	ErrUnknownKind = errors.New("unknown entity kind")
	// ErrNotFound means the operation target does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyDeleted is returned on a repeated soft-delete. The
	// orchestrator fails loudly instead of treating it as a no-op so
	// callers cannot mistake a stale request for a fresh deletion.
	ErrAlreadyDeleted = errors.New("record already soft-deleted")
)

// TransactionError wraps a cascade failure. The transaction was rolled
// back, so no partial cascade state was persisted.
type TransactionError struct {
	Kind Kind
	ID   string
	Err  error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("soft-delete transaction for %s %s failed: %v", e.Kind, e.ID, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
