package billing

import "github.com/google/uuid"

// KeyGenerator produces idempotency keys for create calls.
type KeyGenerator interface {
	Generate() string
}

// UUIDv7Keys generates time-sortable UUIDv7 keys.
//
// Thread-safety: UUIDv7Keys is stateless and safe for concurrent use.
type UUIDv7Keys struct{}

// Generate returns a new hyphenated UUIDv7.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Keys) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
