package memory

import (
	"sync"

	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence"
	"go.uber.org/zap"
)

// MemoryPersistence is an in-memory implementation of IKeyPersistence.
// This implementation is intended for TESTING ONLY.
//
// All data is stored in memory and will be lost when the process exits.
// Thread-safe using sync.RWMutex for concurrent access.
// Records are copied on the way in and out to prevent external mutation.
type MemoryPersistence struct {
	mu sync.RWMutex

	// Key records: public key -> record
	records map[string]*persistence.KeyRecord

	defaultKey string

	closed bool
}

// NewMemoryPersistence creates a new in-memory persistence layer.
// Logs a loud warning since this should only be used for testing.
func NewMemoryPersistence(logger *zap.Logger) *MemoryPersistence {
	if logger != nil {
		logger.Sugar().Warnw("Using in-memory key persistence - ALL KEYS WILL BE LOST ON RESTART",
			"hint", "set EOSKEY_STORE_TYPE=badger for durable storage")
	}

	return &MemoryPersistence{
		records: make(map[string]*persistence.KeyRecord),
	}
}

// SaveKey persists a key record.
func (m *MemoryPersistence) SaveKey(record *persistence.KeyRecord) error {
	if err := persistence.ValidateKeyRecord(record); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	m.records[record.PublicKey] = record.Clone()
	return nil
}

// LoadKey retrieves a key record by public key.
func (m *MemoryPersistence) LoadKey(publicKey string) (*persistence.KeyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	record, exists := m.records[publicKey]
	if !exists {
		return nil, nil // Not found is not an error
	}

	return record.Clone(), nil
}

// ListKeys returns all key records sorted by creation time.
func (m *MemoryPersistence) ListKeys() ([]*persistence.KeyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	result := make([]*persistence.KeyRecord, 0, len(m.records))
	for _, record := range m.records {
		result = append(result, record.Clone())
	}
	persistence.SortKeyRecords(result)

	return result, nil
}

// DeleteKey removes a key record. Deleting the default key clears the default.
func (m *MemoryPersistence) DeleteKey(publicKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	delete(m.records, publicKey)
	if m.defaultKey == publicKey {
		m.defaultKey = ""
	}
	return nil
}

// SetDefaultKey stores the default public key.
func (m *MemoryPersistence) SetDefaultKey(publicKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	m.defaultKey = publicKey
	return nil
}

// GetDefaultKey retrieves the default public key.
func (m *MemoryPersistence) GetDefaultKey() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", persistence.ErrClosed
	}

	return m.defaultKey, nil
}

// Close shuts down the persistence layer.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return persistence.ErrClosed
	}

	return nil
}
