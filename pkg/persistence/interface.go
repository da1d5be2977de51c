package persistence

import "github.com/pkg/errors"

// ErrClosed is returned by every operation after Close
var ErrClosed = errors.New("persistence layer is closed")

// IKeyPersistence stores key records for the wallet keystore.
// All implementations must be thread-safe.
//
// The interface supports:
// - Key record management (save, load, list, delete) keyed by public key
// - Default key tracking (which key signs when none is named)
// - Lifecycle management (close, health check)
type IKeyPersistence interface {
	// Key Record Management

	// SaveKey persists a record under its PublicKey, overwriting any existing record.
	SaveKey(record *KeyRecord) error

	// LoadKey retrieves a record by its public key text.
	// Returns nil if the record doesn't exist, error only on storage failure.
	LoadKey(publicKey string) (*KeyRecord, error)

	// ListKeys returns all records sorted by creation time, then public key.
	// Returns empty slice if no records exist.
	ListKeys() ([]*KeyRecord, error)

	// DeleteKey removes a record. Idempotent.
	DeleteKey(publicKey string) error

	// Default Key Tracking

	// SetDefaultKey stores the public key used when a caller names none.
	// An empty string clears it.
	SetDefaultKey(publicKey string) error

	// GetDefaultKey returns the default public key, or "" if none is set.
	GetDefaultKey() (string, error)

	// Lifecycle Management

	// Close cleanly shuts down the persistence layer.
	// Idempotent. After Close, all other operations return ErrClosed.
	Close() error

	// HealthCheck returns nil if the persistence layer is operational.
	HealthCheck() error
}
