package badger

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence"
	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Key prefixes for namespacing
const (
	keyPrefixRecord      = "key:"
	keyDefaultKey        = "default:key"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"

	gcInterval     = 5 * time.Minute
	gcDiscardRatio = 0.5
)

// BadgerPersistence stores key records in an embedded Badger database.
// Provides durable, disk-based storage with ACID guarantees.
type BadgerPersistence struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewBadgerPersistence opens (or creates) the database at dataPath with SyncWrites
// enabled and starts a background value log GC goroutine.
func NewBadgerPersistence(dataPath string, logger *zap.Logger) (*BadgerPersistence, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve absolute path")
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.SyncWrites = true // fsync on every write
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open badger database at %s", absPath)
	}

	bp := &BadgerPersistence{
		db:     db,
		logger: logger,
	}

	if err := bp.initSchema(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	ctx, cancel := context.WithCancel(context.Background())
	bp.gcCancel = cancel
	bp.gcWg.Add(1)
	go bp.runGC(ctx)

	logger.Sugar().Infow("Badger key persistence initialized", "path", absPath)

	return bp, nil
}

// initSchema initializes or validates the schema version
func (b *BadgerPersistence) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return errors.Wrap(err, "failed to read schema version")
		}

		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return errors.Wrap(err, "failed to read schema version value")
		}

		if existingVersion != currentSchemaVersion {
			return errors.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}

		return nil
	})
}

func (b *BadgerPersistence) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(gcDiscardRatio)
			if err != nil && !errors.Is(err, badgerdb.ErrNoRewrite) {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func recordKey(publicKey string) []byte {
	return []byte(keyPrefixRecord + publicKey)
}

// getValue copies the value stored at key, returning nil when the key is absent
func getValue(txn *badgerdb.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// SaveKey persists a key record
func (b *BadgerPersistence) SaveKey(record *persistence.KeyRecord) error {
	if err := persistence.ValidateKeyRecord(record); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalKeyRecord(record)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(recordKey(record.PublicKey), data)
	})
}

// LoadKey retrieves a key record by public key
func (b *BadgerPersistence) LoadKey(publicKey string) (*persistence.KeyRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		var err error
		data, err = getValue(txn, recordKey(publicKey))
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load KeyRecord")
	}

	if data == nil {
		return nil, nil // Not found
	}

	return persistence.UnmarshalKeyRecord(data)
}

// ListKeys returns all key records sorted by creation time
func (b *BadgerPersistence) ListKeys() ([]*persistence.KeyRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	records := []*persistence.KeyRecord{}

	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixRecord)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			data, err := item.ValueCopy(nil)
			if err != nil {
				return errors.Wrap(err, "failed to read value")
			}

			record, err := persistence.UnmarshalKeyRecord(data)
			if err != nil {
				b.logger.Sugar().Warnw("Failed to unmarshal KeyRecord, skipping",
					"key", string(item.Key()), "error", err)
				continue
			}

			records = append(records, record)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list KeyRecords")
	}

	persistence.SortKeyRecords(records)
	return records, nil
}

// DeleteKey removes a key record, clearing the default key if it pointed at it
func (b *BadgerPersistence) DeleteKey(publicKey string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		if err := txn.Delete(recordKey(publicKey)); err != nil {
			return err
		}
		current, err := getValue(txn, []byte(keyDefaultKey))
		if err != nil {
			return err
		}
		if string(current) == publicKey {
			return txn.Delete([]byte(keyDefaultKey))
		}
		return nil
	})
}

// SetDefaultKey stores the default public key
func (b *BadgerPersistence) SetDefaultKey(publicKey string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		if publicKey == "" {
			return txn.Delete([]byte(keyDefaultKey))
		}
		return txn.Set([]byte(keyDefaultKey), []byte(publicKey))
	})
}

// GetDefaultKey retrieves the default public key
func (b *BadgerPersistence) GetDefaultKey() (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return "", persistence.ErrClosed
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		var err error
		data, err = getValue(txn, []byte(keyDefaultKey))
		return err
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to get default key")
	}

	return string(data), nil
}

// Close stops GC and closes the database. Idempotent.
func (b *BadgerPersistence) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return errors.Wrap(err, "failed to close badger database")
	}

	b.logger.Sugar().Info("Badger key persistence closed")
	return nil
}

// HealthCheck verifies the database is readable and initialized
func (b *BadgerPersistence) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return errors.New("schema version not found - database may be corrupted")
		}
		return err
	})
}
