package badger

import (
	"testing"

	"github.com/Layr-Labs/eosio-keys-go/pkg/logger"
	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence"
	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence/persistencetest"
	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadgerPersistence(t *testing.T) persistence.IKeyPersistence {
	t.Helper()

	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	bp, err := NewBadgerPersistence(t.TempDir(), testLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bp.Close() })
	return bp
}

func TestBadgerPersistence(t *testing.T) {
	persistencetest.Run(t, newTestBadgerPersistence)
}

func TestBadgerPersistence_AcrossRestarts(t *testing.T) {
	tmpDir := t.TempDir()
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	// First instance - save data
	bp1, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)

	record := persistencetest.NewRecord(42)
	require.NoError(t, bp1.SaveKey(record))
	require.NoError(t, bp1.SetDefaultKey(record.PublicKey))
	require.NoError(t, bp1.Close())

	// Second instance - verify data persisted
	bp2, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)
	defer func() { _ = bp2.Close() }()

	loaded, err := bp2.LoadKey(record.PublicKey)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, record, loaded)

	defaultKey, err := bp2.GetDefaultKey()
	require.NoError(t, err)
	assert.Equal(t, record.PublicKey, defaultKey)
}

func TestBadgerPersistence_RejectsUnknownSchema(t *testing.T) {
	tmpDir := t.TempDir()

	db, err := badgerdb.Open(badgerdb.DefaultOptions(tmpDir).WithLogger(nil))
	require.NoError(t, err)
	require.NoError(t, db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keySchemaVersion), []byte("v0"))
	}))
	require.NoError(t, db.Close())

	_, err = NewBadgerPersistence(tmpDir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}

func TestBadgerPersistence_SkipsCorruptRecords(t *testing.T) {
	tmpDir := t.TempDir()

	bp, err := NewBadgerPersistence(tmpDir, nil)
	require.NoError(t, err)
	defer func() { _ = bp.Close() }()

	require.NoError(t, bp.SaveKey(persistencetest.NewRecord(1)))
	require.NoError(t, bp.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(recordKey("EOSgarbage"), []byte("{not json"))
	}))

	all, err := bp.ListKeys()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

var _ persistence.IKeyPersistence = (*BadgerPersistence)(nil)
