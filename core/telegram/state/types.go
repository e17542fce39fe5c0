package state

// Store keeps one session value per key.
type Store[K comparable, V any] interface {
	// Get returns the session for key and whether it exists.
	Get(key K) (V, bool)
	// Set replaces the session for key.
	Set(key K, value V)
	// Delete drops the session for key; deleting a missing key is a no-op.
	Delete(key K)
	// Len reports the number of live sessions.
	Len() int
}
