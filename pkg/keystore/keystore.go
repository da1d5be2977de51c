package keystore

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Layr-Labs/eosio-keys-go/pkg/keys"
	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence"
	"github.com/Layr-Labs/eosio-keys-go/pkg/primitives"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrKeyNotFound is returned when no stored key matches the requested public key
	ErrKeyNotFound = errors.New("keystore: key not found")
	// ErrKeyExists is returned when importing a key that is already stored
	ErrKeyExists = errors.New("keystore: key already exists")
	// ErrNoDefaultKey is returned when signing without a public key and no default is set
	ErrNoDefaultKey = errors.New("keystore: no default key")
)

const keyIDPrefix = "local-key-"

// StoredKey is the public view of a stored key. It never carries secret material.
type StoredKey struct {
	KeyID     string
	PublicKey *keys.PublicKey
	Network   keys.Network
	Label     string
	CreatedAt time.Time
	Default   bool
}

// KeyStore is a wallet: it generates and imports EOSIO keys, persists them
// through an IKeyPersistence and signs with them. Safe for concurrent use.
type KeyStore struct {
	store   persistence.IKeyPersistence
	network keys.Network
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.RWMutex
	cache map[string]*keys.Keypair // legacy public key text -> parsed keypair
}

// NewKeyStore wraps store. New keys are tagged with network.
func NewKeyStore(store persistence.IKeyPersistence, network keys.Network, logger *zap.Logger) (*KeyStore, error) {
	if store == nil {
		return nil, errors.New("keystore: persistence cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := store.HealthCheck(); err != nil {
		return nil, errors.Wrap(err, "keystore: persistence is not healthy")
	}

	return &KeyStore{
		store:   store,
		network: network,
		logger:  logger,
		now:     time.Now,
		cache:   make(map[string]*keys.Keypair),
	}, nil
}

// CreateKey generates a new key from rng and stores it. The first key stored
// becomes the default.
func (ks *KeyStore) CreateKey(ctx context.Context, label string, rng io.Reader) (*StoredKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	generated, err := keys.GenerateSecretKey(rng)
	if err != nil {
		return nil, err
	}
	sk, err := keys.SecretKeyFromBytes(generated.Bytes(), ks.network, false)
	if err != nil {
		return nil, err
	}

	stored, err := ks.add(sk, label)
	if err != nil {
		return nil, err
	}

	ks.logger.Info("Generated EOSIO key",
		zap.String("keyId", stored.KeyID),
		zap.String("label", label),
		zap.String("publicKey", stored.PublicKey.String()),
		zap.String("network", stored.Network.String()),
	)
	return stored, nil
}

// ImportWIF stores an existing secret key. The key keeps the network and
// compression flag its WIF encodes.
func (ks *KeyStore) ImportWIF(ctx context.Context, wif string, label string) (*StoredKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sk, err := keys.SecretKeyFromWIF(wif)
	if err != nil {
		return nil, errors.Wrap(err, "failed to import WIF")
	}

	stored, err := ks.add(sk, label)
	if err != nil {
		return nil, err
	}

	ks.logger.Info("Imported EOSIO key",
		zap.String("keyId", stored.KeyID),
		zap.String("label", label),
		zap.String("publicKey", stored.PublicKey.String()),
	)
	return stored, nil
}

func (ks *KeyStore) add(sk *keys.SecretKey, label string) (*StoredKey, error) {
	kp, err := keys.NewKeypair(sk)
	if err != nil {
		return nil, err
	}
	publicKey := kp.PublicKey().String()

	ks.mu.Lock()
	defer ks.mu.Unlock()

	existing, err := ks.store.LoadKey(publicKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Wrapf(ErrKeyExists, "%s is stored as %s", publicKey, existing.KeyID)
	}

	record := &persistence.KeyRecord{
		KeyID:     fmt.Sprintf("%s%s", keyIDPrefix, uuid.New().String()),
		PublicKey: publicKey,
		WIF:       sk.ToWIF(),
		Network:   sk.Network().String(),
		Label:     label,
		CreatedAt: ks.now().Unix(),
	}
	if err := ks.store.SaveKey(record); err != nil {
		return nil, errors.Wrap(err, "failed to save key")
	}

	isDefault := false
	current, err := ks.store.GetDefaultKey()
	if err != nil {
		return nil, err
	}
	if current == "" {
		if err := ks.store.SetDefaultKey(publicKey); err != nil {
			return nil, err
		}
		isDefault = true
	}

	ks.cache[publicKey] = kp
	return toStoredKey(record, kp.PublicKey(), sk.Network(), isDefault), nil
}

// GetKey looks a key up by either public key text form
func (ks *KeyStore) GetKey(ctx context.Context, publicKey string) (*StoredKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized, err := normalizePublicKey(publicKey)
	if err != nil {
		return nil, err
	}

	ks.mu.RLock()
	defer ks.mu.RUnlock()

	record, err := ks.store.LoadKey(normalized)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.Wrapf(ErrKeyNotFound, "%s", normalized)
	}
	current, err := ks.store.GetDefaultKey()
	if err != nil {
		return nil, err
	}
	return recordToStoredKey(record, current)
}

// ListKeys returns every stored key, oldest first
func (ks *KeyStore) ListKeys(ctx context.Context) ([]*StoredKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ks.mu.RLock()
	defer ks.mu.RUnlock()

	records, err := ks.store.ListKeys()
	if err != nil {
		return nil, err
	}
	current, err := ks.store.GetDefaultKey()
	if err != nil {
		return nil, err
	}

	result := make([]*StoredKey, 0, len(records))
	for _, record := range records {
		stored, err := recordToStoredKey(record, current)
		if err != nil {
			ks.logger.Warn("Skipping unreadable key record", zap.Object("record", record), zap.Error(err))
			continue
		}
		result = append(result, stored)
	}
	return result, nil
}

// PublicKeys returns the public keys of every stored key, oldest first
func (ks *KeyStore) PublicKeys(ctx context.Context) ([]*keys.PublicKey, error) {
	stored, err := ks.ListKeys(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*keys.PublicKey, len(stored))
	for i, s := range stored {
		result[i] = s.PublicKey
	}
	return result, nil
}

// SetDefaultKey selects the key used when a signing call names none
func (ks *KeyStore) SetDefaultKey(ctx context.Context, publicKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	normalized, err := normalizePublicKey(publicKey)
	if err != nil {
		return err
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	record, err := ks.store.LoadKey(normalized)
	if err != nil {
		return err
	}
	if record == nil {
		return errors.Wrapf(ErrKeyNotFound, "%s", normalized)
	}
	return ks.store.SetDefaultKey(normalized)
}

// SignDigest signs a 32-byte digest with the key for publicKey, or with the
// default key when publicKey is empty
func (ks *KeyStore) SignDigest(ctx context.Context, publicKey string, digest []byte) (*keys.Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kp, err := ks.keypair(publicKey)
	if err != nil {
		return nil, err
	}

	sig, err := kp.SecretKey().SignHash(digest)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign with key %s", kp.PublicKey().String())
	}

	ks.logger.Debug("Signed digest",
		zap.String("publicKey", kp.PublicKey().String()),
		zap.Int("digestLen", len(digest)),
	)
	return sig, nil
}

// SignMessage signs the SHA-256 digest of message
func (ks *KeyStore) SignMessage(ctx context.Context, publicKey string, message []byte) (*keys.Signature, error) {
	digest := primitives.Sha256Of(message)
	return ks.SignDigest(ctx, publicKey, digest[:])
}

// SignAction signs the digest of the action's canonical encoding
func (ks *KeyStore) SignAction(ctx context.Context, publicKey string, action *primitives.Action) (*keys.Signature, error) {
	if action == nil {
		return nil, errors.New("keystore: action cannot be nil")
	}
	digest, err := action.Digest()
	if err != nil {
		return nil, err
	}
	return ks.SignDigest(ctx, publicKey, digest[:])
}

// RemoveKey deletes a stored key. Removing an unknown key is not an error.
func (ks *KeyStore) RemoveKey(ctx context.Context, publicKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	normalized, err := normalizePublicKey(publicKey)
	if err != nil {
		return err
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	if err := ks.store.DeleteKey(normalized); err != nil {
		return err
	}
	delete(ks.cache, normalized)

	ks.logger.Info("Removed EOSIO key", zap.String("publicKey", normalized))
	return nil
}

// Close closes the underlying persistence
func (ks *KeyStore) Close() error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.cache = make(map[string]*keys.Keypair)
	return ks.store.Close()
}

// keypair resolves publicKey (or the default) to a parsed keypair
func (ks *KeyStore) keypair(publicKey string) (*keys.Keypair, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if publicKey == "" {
		current, err := ks.store.GetDefaultKey()
		if err != nil {
			return nil, err
		}
		if current == "" {
			return nil, ErrNoDefaultKey
		}
		publicKey = current
	}

	normalized, err := normalizePublicKey(publicKey)
	if err != nil {
		return nil, err
	}
	if kp, ok := ks.cache[normalized]; ok {
		return kp, nil
	}

	record, err := ks.store.LoadKey(normalized)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.Wrapf(ErrKeyNotFound, "%s", normalized)
	}

	kp, err := keys.KeypairFromSecretWIF(record.WIF)
	if err != nil {
		return nil, errors.Wrapf(err, "stored key %s is unreadable", record.KeyID)
	}
	if kp.PublicKey().String() != normalized {
		return nil, errors.Errorf("stored key %s does not match its public key", record.KeyID)
	}

	ks.cache[normalized] = kp
	return kp, nil
}

func normalizePublicKey(publicKey string) (string, error) {
	pk, err := keys.ParsePublicKey(publicKey)
	if err != nil {
		return "", err
	}
	return pk.String(), nil
}

func recordToStoredKey(record *persistence.KeyRecord, defaultKey string) (*StoredKey, error) {
	pk, err := keys.ParsePublicKey(record.PublicKey)
	if err != nil {
		return nil, err
	}
	network, ok := parseRecordNetwork(record.Network)
	if !ok {
		return nil, errors.Errorf("record %s has unknown network %q", record.KeyID, record.Network)
	}
	return toStoredKey(record, pk, network, record.PublicKey == defaultKey), nil
}

func toStoredKey(record *persistence.KeyRecord, pk *keys.PublicKey, network keys.Network, isDefault bool) *StoredKey {
	return &StoredKey{
		KeyID:     record.KeyID,
		PublicKey: pk,
		Network:   network,
		Label:     record.Label,
		CreatedAt: time.Unix(record.CreatedAt, 0).UTC(),
		Default:   isDefault,
	}
}

func parseRecordNetwork(name string) (keys.Network, bool) {
	switch name {
	case keys.Mainnet.String():
		return keys.Mainnet, true
	case keys.Testnet.String():
		return keys.Testnet, true
	default:
		return keys.Mainnet, false
	}
}
