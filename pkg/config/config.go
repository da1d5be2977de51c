package config

import (
	"strings"

	"github.com/Layr-Labs/eosio-keys-go/pkg/keys"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for eoskey configuration
const (
	EnvEOSKeyStoreType      = "EOSKEY_STORE_TYPE"
	EnvEOSKeyDataPath       = "EOSKEY_DATA_PATH"
	EnvEOSKeyRedisAddress   = "EOSKEY_REDIS_ADDRESS"
	EnvEOSKeyRedisPassword  = "EOSKEY_REDIS_PASSWORD"
	EnvEOSKeyRedisDB        = "EOSKEY_REDIS_DB"
	EnvEOSKeyRedisKeyPrefix = "EOSKEY_REDIS_KEY_PREFIX"
	EnvEOSKeyNetwork        = "EOSKEY_NETWORK"
	EnvEOSKeyVerbose        = "EOSKEY_VERBOSE"
)

type StoreType string

func (s StoreType) String() string {
	return string(s)
}

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeBadger StoreType = "badger"
	StoreTypeRedis  StoreType = "redis"
)

// SupportedStoreTypes lists every backend the keystore can open
var SupportedStoreTypes = []StoreType{StoreTypeMemory, StoreTypeBadger, StoreTypeRedis}

const (
	DefaultDataPath = "./eoskey-data"
	maxRedisDB      = 15
)

// ParseNetwork maps "mainnet"/"testnet" (case-insensitive) to a keys.Network
func ParseNetwork(name string) (keys.Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", keys.Mainnet.String():
		return keys.Mainnet, nil
	case keys.Testnet.String():
		return keys.Testnet, nil
	default:
		return keys.Mainnet, errors.Errorf("unsupported network %q (supported: mainnet, testnet)", name)
	}
}

// KeyStoreConfig represents the configuration of the local wallet keystore
type KeyStoreConfig struct {
	// Storage backend
	StoreType StoreType `json:"store_type"`
	DataPath  string    `json:"data_path"` // badger directory

	// Redis backend
	RedisAddress   string `json:"redis_address"`
	RedisPassword  string `json:"-"`
	RedisDB        int    `json:"redis_db"`
	RedisKeyPrefix string `json:"redis_key_prefix"`

	// Network new keys are tagged with: "mainnet" or "testnet"
	Network string `json:"network"`

	Debug bool `json:"debug"`
}

// NewDefaultKeyStoreConfig returns a badger backed mainnet config
func NewDefaultKeyStoreConfig() *KeyStoreConfig {
	return &KeyStoreConfig{
		StoreType: StoreTypeBadger,
		DataPath:  DefaultDataPath,
		Network:   keys.Mainnet.String(),
	}
}

// Validate reports every invalid field at once
func (c *KeyStoreConfig) Validate() error {
	var allErrors field.ErrorList

	switch c.StoreType {
	case StoreTypeMemory:
	case StoreTypeBadger:
		if c.DataPath == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("dataPath"), "dataPath is required for the badger store"))
		}
	case StoreTypeRedis:
		if c.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("redisAddress"), "redisAddress is required for the redis store"))
		}
		if c.RedisDB < 0 || c.RedisDB > maxRedisDB {
			allErrors = append(allErrors, field.Invalid(field.NewPath("redisDB"), c.RedisDB, "must be between 0 and 15"))
		}
	default:
		supported := make([]string, len(SupportedStoreTypes))
		for i, s := range SupportedStoreTypes {
			supported[i] = s.String()
		}
		allErrors = append(allErrors, field.NotSupported(field.NewPath("storeType"), c.StoreType, supported))
	}

	if _, err := ParseNetwork(c.Network); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("network"), c.Network, err.Error()))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// KeyNetwork returns the parsed network. Call Validate first.
func (c *KeyStoreConfig) KeyNetwork() keys.Network {
	network, _ := ParseNetwork(c.Network)
	return network
}
