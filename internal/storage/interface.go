package storage

import (
	"errors"
	"fmt"
)

// Provider is a string key-value store with an optional byte capacity.
// Implementations reject a Set that would push Usage past Capacity with a
// *QuotaError and leave the previous value in place.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Delete is a no-op for a missing key.
	Delete(key string) error
	Keys() ([]string, error)
	// All returns every entry as of a single instant.
	All() (map[string]string, error)

	// Usage is the summed size of every key and value in bytes.
	Usage() (int, error)
	// Capacity in bytes; 0 means unlimited.
	Capacity() int

	GetConfigPath() string
}

var (
	ErrQuotaExceeded  = errors.New("storage quota exceeded")
	ErrNotInitialized = errors.New("storage not initialized, run 'tracklit init' first")
	ErrNotLoaded      = errors.New("storage not loaded")
)

// QuotaError reports a write rejected because the store would exceed its capacity.
type QuotaError struct {
	Key      string
	Need     int
	Capacity int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("storage quota exceeded writing %q: need %d bytes, capacity %d", e.Key, e.Need, e.Capacity)
}

func (e *QuotaError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

func (e *QuotaError) Hint() string {
	return "free space with 'tracklit prune --days N' or raise capacity_bytes in the config file"
}

// EntrySize is the number of bytes an entry counts against capacity.
func EntrySize(key, value string) int {
	return len(key) + len(value)
}

// CheckQuota validates replacing an entry of size prev with one of size next
// in a store currently holding usage bytes.
func CheckQuota(key string, usage, prev, next, capacity int) error {
	if capacity <= 0 {
		return nil
	}
	if need := usage - prev + next; need > capacity {
		return &QuotaError{Key: key, Need: need, Capacity: capacity}
	}
	return nil
}
