// Package persistencetest holds the behavior every IKeyPersistence backend must share.
package persistencetest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store. It should register its own cleanup.
type Factory func(t *testing.T) persistence.IKeyPersistence

// NewRecord builds a distinct record for index i
func NewRecord(i int) *persistence.KeyRecord {
	return &persistence.KeyRecord{
		KeyID:     fmt.Sprintf("local-key-%04d", i),
		PublicKey: fmt.Sprintf("EOS%050d", i),
		WIF:       fmt.Sprintf("5%050d", i),
		Network:   "mainnet",
		CreatedAt: 1700000000 + int64(i),
	}
}

// Run executes the shared backend behavior tests against stores from newStore
func Run(t *testing.T, newStore Factory) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		store := newStore(t)
		record := NewRecord(1)
		record.Label = "primary"

		require.NoError(t, store.SaveKey(record))

		loaded, err := store.LoadKey(record.PublicKey)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, record, loaded)
	})

	t.Run("LoadNotFound", func(t *testing.T) {
		store := newStore(t)

		loaded, err := store.LoadKey("EOSmissing")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("SaveInvalid", func(t *testing.T) {
		store := newStore(t)

		require.Error(t, store.SaveKey(nil))
		require.Error(t, store.SaveKey(&persistence.KeyRecord{WIF: "5abc"}))
		require.Error(t, store.SaveKey(&persistence.KeyRecord{PublicKey: "EOSabc"}))
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		store := newStore(t)
		record := NewRecord(2)
		require.NoError(t, store.SaveKey(record))

		record.Label = "renamed"
		require.NoError(t, store.SaveKey(record))

		loaded, err := store.LoadKey(record.PublicKey)
		require.NoError(t, err)
		assert.Equal(t, "renamed", loaded.Label)

		all, err := store.ListKeys()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		record := NewRecord(3)
		require.NoError(t, store.SaveKey(record))

		require.NoError(t, store.DeleteKey(record.PublicKey))

		loaded, err := store.LoadKey(record.PublicKey)
		require.NoError(t, err)
		assert.Nil(t, loaded)

		// Idempotent
		require.NoError(t, store.DeleteKey(record.PublicKey))
		require.NoError(t, store.DeleteKey("EOSnever-stored"))
	})

	t.Run("ListSorted", func(t *testing.T) {
		store := newStore(t)
		for _, i := range []int{5, 1, 4, 2, 3} {
			require.NoError(t, store.SaveKey(NewRecord(i)))
		}

		all, err := store.ListKeys()
		require.NoError(t, err)
		require.Len(t, all, 5)
		for i, record := range all {
			assert.Equal(t, NewRecord(i+1).PublicKey, record.PublicKey)
		}
	})

	t.Run("ListEmpty", func(t *testing.T) {
		store := newStore(t)

		all, err := store.ListKeys()
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("DefaultKey", func(t *testing.T) {
		store := newStore(t)

		current, err := store.GetDefaultKey()
		require.NoError(t, err)
		assert.Empty(t, current)

		record := NewRecord(6)
		require.NoError(t, store.SaveKey(record))
		require.NoError(t, store.SetDefaultKey(record.PublicKey))

		current, err = store.GetDefaultKey()
		require.NoError(t, err)
		assert.Equal(t, record.PublicKey, current)

		require.NoError(t, store.SetDefaultKey(""))
		current, err = store.GetDefaultKey()
		require.NoError(t, err)
		assert.Empty(t, current)
	})

	t.Run("DeleteClearsDefault", func(t *testing.T) {
		store := newStore(t)
		a, b := NewRecord(7), NewRecord(8)
		require.NoError(t, store.SaveKey(a))
		require.NoError(t, store.SaveKey(b))
		require.NoError(t, store.SetDefaultKey(a.PublicKey))

		require.NoError(t, store.DeleteKey(b.PublicKey))
		current, err := store.GetDefaultKey()
		require.NoError(t, err)
		assert.Equal(t, a.PublicKey, current, "deleting another key keeps the default")

		require.NoError(t, store.DeleteKey(a.PublicKey))
		current, err = store.GetDefaultKey()
		require.NoError(t, err)
		assert.Empty(t, current)
	})

	t.Run("ReturnedRecordsAreCopies", func(t *testing.T) {
		store := newStore(t)
		record := NewRecord(9)
		require.NoError(t, store.SaveKey(record))

		record.Label = "mutated after save"
		loaded, err := store.LoadKey(record.PublicKey)
		require.NoError(t, err)
		assert.Empty(t, loaded.Label)

		loaded.Label = "mutated after load"
		again, err := store.LoadKey(record.PublicKey)
		require.NoError(t, err)
		assert.Empty(t, again.Label)
	})

	t.Run("HealthCheck", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.HealthCheck())
	})

	t.Run("Close", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.SaveKey(NewRecord(10)))

		require.NoError(t, store.Close())
		require.NoError(t, store.Close(), "Close must be idempotent")

		require.ErrorIs(t, store.SaveKey(NewRecord(11)), persistence.ErrClosed)
		_, err := store.LoadKey(NewRecord(10).PublicKey)
		require.ErrorIs(t, err, persistence.ErrClosed)
		_, err = store.ListKeys()
		require.ErrorIs(t, err, persistence.ErrClosed)
		require.ErrorIs(t, store.DeleteKey(NewRecord(10).PublicKey), persistence.ErrClosed)
		require.ErrorIs(t, store.SetDefaultKey(""), persistence.ErrClosed)
		_, err = store.GetDefaultKey()
		require.ErrorIs(t, err, persistence.ErrClosed)
		require.ErrorIs(t, store.HealthCheck(), persistence.ErrClosed)
	})

	t.Run("ThreadSafety", func(t *testing.T) {
		store := newStore(t)

		const workers = 8
		const perWorker = 10

		var wg sync.WaitGroup
		errs := make(chan error, workers*perWorker*2)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					record := NewRecord(100 + w*perWorker + i)
					if err := store.SaveKey(record); err != nil {
						errs <- err
						continue
					}
					if _, err := store.LoadKey(record.PublicKey); err != nil {
						errs <- err
					}
				}
			}(w)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		all, err := store.ListKeys()
		require.NoError(t, err)
		assert.Len(t, all, workers*perWorker)
	})
}
