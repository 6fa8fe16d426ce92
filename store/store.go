// Package store provides session-state stores for the deduplication gate.
package store

// SessionStore is the interface for session-scoped key/value state.
type SessionStore interface {
	// Get retrieves a value. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a value, replacing any previous one.
	Set(key string, value string) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(key string) error
}
