package redis

import (
	"context"
	"sync"
	"time"

	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Key names for namespacing in Redis
const (
	keyPrefixRecord      = "eoskey:key:"
	keyDefaultKey        = "eoskey:default:key"
	keySchemaVersion     = "eoskey:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Redis has no native prefix iteration, so record keys are tracked in a set
	keySetRecords = "eoskey:keys:index"

	operationTimeout = 5 * time.Second
)

// RedisPersistence stores key records in Redis.
type RedisPersistence struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is prepended to every key, e.g. "tenant1:" yields "tenant1:eoskey:key:EOS…"
	KeyPrefix string
}

// NewRedisPersistence connects to Redis and initializes the schema version.
func NewRedisPersistence(cfg *RedisConfig, logger *zap.Logger) (*RedisPersistence, error) {
	if cfg == nil {
		return nil, errors.New("redis config cannot be nil")
	}

	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "failed to connect to Redis at %s", cfg.Address)
	}

	rp := &RedisPersistence{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rp.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	logger.Sugar().Infow("Redis key persistence initialized", "address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)

	return rp, nil
}

// prefixKey adds the custom key prefix (if configured) to a key
func (r *RedisPersistence) prefixKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + key
}

func (r *RedisPersistence) recordKey(publicKey string) string {
	return r.prefixKey(keyPrefixRecord + publicKey)
}

// initSchema initializes or validates the schema version
func (r *RedisPersistence) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existingVersion, err := r.client.Get(ctx, schemaKey).Result()
	if errors.Is(err, redis.Nil) {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}

	if existingVersion != currentSchemaVersion {
		return errors.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
	}

	return nil
}

// SaveKey persists a key record and adds it to the index set in one transaction
func (r *RedisPersistence) SaveKey(record *persistence.KeyRecord) error {
	if err := persistence.ValidateKeyRecord(record); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalKeyRecord(record)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.recordKey(record.PublicKey), data, 0)
	pipe.SAdd(ctx, r.prefixKey(keySetRecords), record.PublicKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to save KeyRecord")
	}

	return nil
}

// LoadKey retrieves a key record by public key
func (r *RedisPersistence) LoadKey(publicKey string) (*persistence.KeyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.recordKey(publicKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load KeyRecord")
	}

	return persistence.UnmarshalKeyRecord(data)
}

// ListKeys returns all key records sorted by creation time
func (r *RedisPersistence) ListKeys() ([]*persistence.KeyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	indexKey := r.prefixKey(keySetRecords)

	publicKeys, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list KeyRecord index")
	}

	records := []*persistence.KeyRecord{}
	if len(publicKeys) == 0 {
		return records, nil
	}

	keys := make([]string, len(publicKeys))
	for i, pk := range publicKeys {
		keys[i] = r.recordKey(pk)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch KeyRecords")
	}

	for i, val := range values {
		if val == nil {
			// Indexed but missing: drop it from the index
			r.client.SRem(ctx, indexKey, publicKeys[i])
			continue
		}

		data, ok := val.(string)
		if !ok {
			r.logger.Sugar().Warnw("Unexpected value type for KeyRecord", "key", keys[i])
			continue
		}

		record, err := persistence.UnmarshalKeyRecord([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal KeyRecord, skipping",
				"key", keys[i], "error", err)
			continue
		}

		records = append(records, record)
	}

	persistence.SortKeyRecords(records)
	return records, nil
}

// DeleteKey removes a key record, its index entry and, if it was the default, the default pointer
func (r *RedisPersistence) DeleteKey(publicKey string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	defaultKey := r.prefixKey(keyDefaultKey)
	current, err := r.client.Get(ctx, defaultKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return errors.Wrap(err, "failed to read default key")
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.recordKey(publicKey))
	pipe.SRem(ctx, r.prefixKey(keySetRecords), publicKey)
	if current == publicKey {
		pipe.Del(ctx, defaultKey)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to delete KeyRecord")
	}

	return nil
}

// SetDefaultKey stores the default public key. An empty key clears it.
func (r *RedisPersistence) SetDefaultKey(publicKey string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	var err error
	if publicKey == "" {
		err = r.client.Del(ctx, r.prefixKey(keyDefaultKey)).Err()
	} else {
		err = r.client.Set(ctx, r.prefixKey(keyDefaultKey), publicKey, 0).Err()
	}
	if err != nil {
		return errors.Wrap(err, "failed to set default key")
	}

	return nil
}

// GetDefaultKey retrieves the default public key
func (r *RedisPersistence) GetDefaultKey() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return "", persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	publicKey, err := r.client.Get(ctx, r.prefixKey(keyDefaultKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to get default key")
	}

	return publicKey, nil
}

// Close shuts down the persistence layer. Idempotent.
func (r *RedisPersistence) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return errors.Wrap(err, "failed to close Redis client")
	}

	r.logger.Sugar().Info("Redis key persistence closed")
	return nil
}

// HealthCheck pings Redis and checks the schema version key
func (r *RedisPersistence) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "redis health check failed")
	}

	_, err := r.client.Get(ctx, r.prefixKey(keySchemaVersion)).Result()
	if errors.Is(err, redis.Nil) {
		return errors.New("schema version not found - database may not be properly initialized")
	}
	if err != nil {
		return errors.Wrap(err, "failed to verify schema version")
	}

	return nil
}
