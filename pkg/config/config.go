package config

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the verifier CLI.
const (
	EnvDataDir      = "MERKLE_DATA_DIR"
	EnvStoreBackend = "MERKLE_STORE_BACKEND"
	EnvStorePath    = "MERKLE_STORE_PATH"
	EnvRedisAddress = "MERKLE_REDIS_ADDRESS"
	EnvRedisDB      = "MERKLE_REDIS_DB"
	EnvVerbose      = "MERKLE_VERBOSE"
)

// StoreBackend selects the baseline store implementation.
type StoreBackend string

const (
	StoreBackendBadger StoreBackend = "badger"
	StoreBackendRedis  StoreBackend = "redis"
	StoreBackendMemory StoreBackend = "memory"
)

func (s StoreBackend) String() string {
	return string(s)
}

// Config is the complete configuration for the verifier CLI.
type Config struct {
	// DataDir is where downloaded datasets and exported snapshots live.
	DataDir string `json:"data_dir"`

	// StoreBackend selects where baselines are persisted.
	StoreBackend StoreBackend `json:"store_backend"`

	// StorePath is the badger database directory (badger backend only).
	StorePath string `json:"store_path"`

	// RedisAddress is host:port of the Redis server (redis backend only).
	RedisAddress string `json:"redis_address"`

	// RedisDB is the Redis database number (redis backend only).
	RedisDB int `json:"redis_db"`

	// Verbose enables debug logging.
	Verbose bool `json:"verbose"`
}

// Validate checks the configuration for a runnable combination of settings.
func (c *Config) Validate() error {
	var allErrors field.ErrorList

	if c.DataDir == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("dataDir"), "data directory is required"))
	}

	switch c.StoreBackend {
	case StoreBackendBadger:
		if c.StorePath == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("storePath"), "badger backend requires a store path"))
		}
	case StoreBackendRedis:
		if c.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("redisAddress"), "redis backend requires an address"))
		}
		if c.RedisDB < 0 || c.RedisDB > 15 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("redisDB"), c.RedisDB, "must be between 0 and 15"))
		}
	case StoreBackendMemory:
		// Nothing to validate; testing backend.
	default:
		allErrors = append(allErrors, field.NotSupported(field.NewPath("storeBackend"), c.StoreBackend,
			[]string{string(StoreBackendBadger), string(StoreBackendRedis), string(StoreBackendMemory)}))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// SupportedBackendsString lists backends for CLI help text.
func SupportedBackendsString() string {
	return fmt.Sprintf("%s (default), %s, %s", StoreBackendBadger, StoreBackendRedis, StoreBackendMemory)
}
