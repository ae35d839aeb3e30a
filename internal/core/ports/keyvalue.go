package ports

// KeyValue is the synchronous local storage the client persists state into.
// Implementations must be safe for use from multiple goroutines.
type KeyValue interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}
