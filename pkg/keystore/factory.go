package keystore

import (
	"github.com/Layr-Labs/eosio-keys-go/pkg/config"
	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence"
	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence/badger"
	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence/memory"
	"github.com/Layr-Labs/eosio-keys-go/pkg/persistence/redis"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NewPersistence opens the backend cfg selects
func NewPersistence(cfg *config.KeyStoreConfig, logger *zap.Logger) (persistence.IKeyPersistence, error) {
	if cfg == nil {
		return nil, errors.New("keystore: config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid keystore configuration")
	}

	switch cfg.StoreType {
	case config.StoreTypeMemory:
		return memory.NewMemoryPersistence(logger), nil
	case config.StoreTypeBadger:
		bp, err := badger.NewBadgerPersistence(cfg.DataPath, logger)
		if err != nil {
			return nil, err
		}
		return bp, nil
	case config.StoreTypeRedis:
		rp, err := redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   cfg.RedisAddress,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		}, logger)
		if err != nil {
			return nil, err
		}
		return rp, nil
	default:
		return nil, errors.Errorf("unsupported store type %q", cfg.StoreType)
	}
}

// Open builds the configured persistence and wraps it in a KeyStore
func Open(cfg *config.KeyStoreConfig, logger *zap.Logger) (*KeyStore, error) {
	store, err := NewPersistence(cfg, logger)
	if err != nil {
		return nil, err
	}
	ks, err := NewKeyStore(store, cfg.KeyNetwork(), logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return ks, nil
}
