package keystore

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Layr-Labs/eosio-keys-go/pkg/config"
	"github.com/Layr-Labs/eosio-keys-go/pkg/keys"
	"github.com/Layr-Labs/eosio-keys-go/pkg/logger"
	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence"
	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence/memory"
	"github.com/Layr-Labs/eosio-keys-go/pkg/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testWIF       = "5HrBLKfeEdqH9KLMv1daHLVjrXV3DGVERAkN5cdSSc58bzqqfT4"
	testPublicKey = "EOS8FdQ4gt16pFcSiXAYCcHnkHTS2nNLFWGZXW5sioAdvQuMxKhAm"
)

func setup(t *testing.T) (*KeyStore, persistence.IKeyPersistence) {
	t.Helper()

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: true})
	require.NoError(t, err)

	store := memory.NewMemoryPersistence(l)
	ks, err := NewKeyStore(store, keys.Mainnet, l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ks.Close() })
	return ks, store
}

func Test_KeyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a key and make it the default", func(t *testing.T) {
		ks, _ := setup(t)

		stored, err := ks.CreateKey(ctx, "hot", rand.Reader)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(stored.KeyID, "local-key-"))
		assert.True(t, strings.HasPrefix(stored.PublicKey.String(), "EOS"))
		assert.Equal(t, keys.Mainnet, stored.Network)
		assert.Equal(t, "hot", stored.Label)
		assert.True(t, stored.Default)

		second, err := ks.CreateKey(ctx, "cold", rand.Reader)
		require.NoError(t, err)
		assert.False(t, second.Default)
		assert.NotEqual(t, stored.KeyID, second.KeyID)
	})

	t.Run("Should tag created keys with the configured network", func(t *testing.T) {
		store := memory.NewMemoryPersistence(nil)
		ks, err := NewKeyStore(store, keys.Testnet, nil)
		require.NoError(t, err)
		defer func() { _ = ks.Close() }()

		stored, err := ks.CreateKey(ctx, "", rand.Reader)
		require.NoError(t, err)
		assert.Equal(t, keys.Testnet, stored.Network)

		record, err := store.LoadKey(stored.PublicKey.String())
		require.NoError(t, err)
		sk, err := keys.SecretKeyFromWIF(record.WIF)
		require.NoError(t, err)
		assert.Equal(t, keys.Testnet, sk.Network())
	})

	t.Run("Should import a WIF key", func(t *testing.T) {
		ks, store := setup(t)

		stored, err := ks.ImportWIF(ctx, testWIF, "imported")
		require.NoError(t, err)
		assert.Equal(t, testPublicKey, stored.PublicKey.String())

		record, err := store.LoadKey(testPublicKey)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, testWIF, record.WIF)
		assert.Equal(t, stored.KeyID, record.KeyID)
	})

	t.Run("Should reject duplicate and invalid imports", func(t *testing.T) {
		ks, _ := setup(t)

		_, err := ks.ImportWIF(ctx, testWIF, "")
		require.NoError(t, err)

		_, err = ks.ImportWIF(ctx, testWIF, "again")
		require.ErrorIs(t, err, ErrKeyExists)

		_, err = ks.ImportWIF(ctx, testWIF[:len(testWIF)-1]+"5", "")
		require.ErrorIs(t, err, keys.ErrChecksumMismatch)
	})

	t.Run("Should get keys by either public key form", func(t *testing.T) {
		ks, _ := setup(t)
		imported, err := ks.ImportWIF(ctx, testWIF, "")
		require.NoError(t, err)

		byLegacy, err := ks.GetKey(ctx, testPublicKey)
		require.NoError(t, err)
		assert.Equal(t, imported.KeyID, byLegacy.KeyID)
		assert.True(t, byLegacy.Default)

		byK1, err := ks.GetKey(ctx, imported.PublicKey.StringK1())
		require.NoError(t, err)
		assert.Equal(t, imported.KeyID, byK1.KeyID)
	})

	t.Run("Should report missing keys", func(t *testing.T) {
		ks, _ := setup(t)

		_, err := ks.GetKey(ctx, testPublicKey)
		require.ErrorIs(t, err, ErrKeyNotFound)

		_, err = ks.SignMessage(ctx, testPublicKey, []byte("hello"))
		require.ErrorIs(t, err, ErrKeyNotFound)

		_, err = ks.SignMessage(ctx, "", []byte("hello"))
		require.ErrorIs(t, err, ErrNoDefaultKey)

		_, err = ks.GetKey(ctx, "not a key")
		require.ErrorIs(t, err, keys.ErrInvalidPrefix)
	})

	t.Run("Should sign with a named key", func(t *testing.T) {
		ks, _ := setup(t)
		_, err := ks.ImportWIF(ctx, testWIF, "")
		require.NoError(t, err)

		sig, err := ks.SignMessage(ctx, testPublicKey, []byte("hello"))
		require.NoError(t, err)
		assert.True(t, sig.IsCanonical())

		pk, err := keys.ParsePublicKey(testPublicKey)
		require.NoError(t, err)
		assert.True(t, pk.Verify([]byte("hello"), sig))
	})

	t.Run("Should sign with the default key", func(t *testing.T) {
		ks, _ := setup(t)
		first, err := ks.CreateKey(ctx, "", rand.Reader)
		require.NoError(t, err)
		second, err := ks.CreateKey(ctx, "", rand.Reader)
		require.NoError(t, err)

		sig, err := ks.SignMessage(ctx, "", []byte("payload"))
		require.NoError(t, err)
		assert.True(t, first.PublicKey.Verify([]byte("payload"), sig))

		require.NoError(t, ks.SetDefaultKey(ctx, second.PublicKey.String()))
		sig, err = ks.SignMessage(ctx, "", []byte("payload"))
		require.NoError(t, err)
		assert.True(t, second.PublicKey.Verify([]byte("payload"), sig))
	})

	t.Run("Should sign digests and actions", func(t *testing.T) {
		ks, _ := setup(t)
		stored, err := ks.ImportWIF(ctx, testWIF, "")
		require.NoError(t, err)

		_, err = ks.SignDigest(ctx, testPublicKey, make([]byte, 31))
		require.ErrorIs(t, err, keys.ErrInvalidDigestLength)

		permission, err := primitives.NewPermissionLevel("testa", "active")
		require.NoError(t, err)
		transfer, err := primitives.NewActionTransferFromStrings("testa", "testb", "1.0000 EOS", "a memo")
		require.NoError(t, err)
		action, err := primitives.NewActionFromStrings("eosio.token", "transfer", []primitives.PermissionLevel{permission}, transfer)
		require.NoError(t, err)

		sig, err := ks.SignAction(ctx, testPublicKey, action)
		require.NoError(t, err)

		digest, err := action.Digest()
		require.NoError(t, err)
		assert.True(t, stored.PublicKey.VerifyHash(digest[:], sig))

		_, err = ks.SignAction(ctx, testPublicKey, nil)
		require.Error(t, err)
	})

	t.Run("Should load keys written by another keystore instance", func(t *testing.T) {
		store := memory.NewMemoryPersistence(nil)
		writer, err := NewKeyStore(store, keys.Mainnet, nil)
		require.NoError(t, err)
		_, err = writer.ImportWIF(ctx, testWIF, "")
		require.NoError(t, err)

		reader, err := NewKeyStore(store, keys.Mainnet, nil)
		require.NoError(t, err)
		sig, err := reader.SignMessage(ctx, "", []byte("hello"))
		require.NoError(t, err)

		pk, err := keys.ParsePublicKey(testPublicKey)
		require.NoError(t, err)
		assert.True(t, pk.Verify([]byte("hello"), sig))
	})

	t.Run("Should list keys oldest first", func(t *testing.T) {
		ks, _ := setup(t)
		base := time.Unix(1700000000, 0)
		tick := 0
		ks.now = func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}

		var created []*StoredKey
		for i := 0; i < 3; i++ {
			stored, err := ks.CreateKey(ctx, "", rand.Reader)
			require.NoError(t, err)
			created = append(created, stored)
		}

		listed, err := ks.ListKeys(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 3)
		for i := range created {
			assert.Equal(t, created[i].KeyID, listed[i].KeyID)
		}
		assert.True(t, listed[0].Default)

		publicKeys, err := ks.PublicKeys(ctx)
		require.NoError(t, err)
		require.Len(t, publicKeys, 3)
		assert.True(t, created[2].PublicKey.Equal(publicKeys[2]))
	})

	t.Run("Should remove keys idempotently", func(t *testing.T) {
		ks, _ := setup(t)
		_, err := ks.ImportWIF(ctx, testWIF, "")
		require.NoError(t, err)

		require.NoError(t, ks.RemoveKey(ctx, testPublicKey))
		require.NoError(t, ks.RemoveKey(ctx, testPublicKey))

		_, err = ks.GetKey(ctx, testPublicKey)
		require.ErrorIs(t, err, ErrKeyNotFound)
		_, err = ks.SignMessage(ctx, "", []byte("x"))
		require.ErrorIs(t, err, ErrNoDefaultKey)
	})

	t.Run("Should honor a cancelled context", func(t *testing.T) {
		ks, _ := setup(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := ks.CreateKey(cancelled, "", rand.Reader)
		require.ErrorIs(t, err, context.Canceled)
		_, err = ks.SignMessage(cancelled, testPublicKey, nil)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Should use the injected random source", func(t *testing.T) {
		seed := bytes.Repeat([]byte{0x42}, 1024)

		first, _ := setup(t)
		a, err := first.CreateKey(ctx, "", bytes.NewReader(seed))
		require.NoError(t, err)

		second, _ := setup(t)
		b, err := second.CreateKey(ctx, "", bytes.NewReader(seed))
		require.NoError(t, err)

		assert.True(t, a.PublicKey.Equal(b.PublicKey))
		assert.NotEqual(t, a.KeyID, b.KeyID)
	})
}

func TestKeyStore_NeverLogsSecrets(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.DebugLevel)

	ks, err := NewKeyStore(memory.NewMemoryPersistence(nil), keys.Mainnet, zap.New(core))
	require.NoError(t, err)
	defer func() { _ = ks.Close() }()

	_, err = ks.ImportWIF(ctx, testWIF, "")
	require.NoError(t, err)
	_, err = ks.SignMessage(ctx, "", []byte("hello"))
	require.NoError(t, err)

	require.NotZero(t, logs.Len())
	for _, entry := range logs.All() {
		assert.NotContains(t, entry.Message, testWIF)
		for key, value := range entry.ContextMap() {
			assert.NotContains(t, fmt.Sprint(value), testWIF, "field %s", key)
		}
	}
}

func TestKeyStore_ConcurrentSigning(t *testing.T) {
	ctx := context.Background()
	ks, _ := setup(t)
	stored, err := ks.ImportWIF(ctx, testWIF, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sig, err := ks.SignMessage(ctx, testPublicKey, []byte("concurrent"))
			assert.NoError(t, err)
			assert.True(t, stored.PublicKey.Verify([]byte("concurrent"), sig))
		}()
	}
	wg.Wait()
}

func TestNewKeyStore_Errors(t *testing.T) {
	_, err := NewKeyStore(nil, keys.Mainnet, nil)
	require.Error(t, err)

	closed := memory.NewMemoryPersistence(nil)
	require.NoError(t, closed.Close())
	_, err = NewKeyStore(closed, keys.Mainnet, nil)
	require.ErrorIs(t, err, persistence.ErrClosed)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dataPath := t.TempDir()

	cfg := &config.KeyStoreConfig{StoreType: config.StoreTypeBadger, DataPath: dataPath, Network: "testnet"}
	ks, err := Open(cfg, nil)
	require.NoError(t, err)

	stored, err := ks.CreateKey(ctx, "durable", rand.Reader)
	require.NoError(t, err)
	require.NoError(t, ks.Close())

	reopened, err := Open(cfg, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.GetKey(ctx, stored.PublicKey.String())
	require.NoError(t, err)
	assert.Equal(t, "durable", loaded.Label)
	assert.Equal(t, keys.Testnet, loaded.Network)
	assert.True(t, loaded.Default)
}

func TestNewPersistence_InvalidConfig(t *testing.T) {
	_, err := NewPersistence(nil, nil)
	require.Error(t, err)

	_, err = NewPersistence(&config.KeyStoreConfig{StoreType: "sqlite"}, nil)
	require.Error(t, err)

	store, err := NewPersistence(&config.KeyStoreConfig{StoreType: config.StoreTypeMemory}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
